package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

func NewRouter(h *Handler) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/documents", h.InsertDocument).Methods(http.MethodPost)
	r.HandleFunc("/documents", h.ListDocuments).Methods(http.MethodGet)
	r.HandleFunc("/query", h.Query).Methods(http.MethodPost)
	r.HandleFunc("/embeddings", h.Embed).Methods(http.MethodPost)
	r.HandleFunc("/models", h.Models).Methods(http.MethodGet)

	return r
}
