package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/josinaldojr/simple-lightrag/internal/rag"
)

// ModelLister is implemented by backends that can enumerate models.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

type Handler struct {
	session *rag.Session
	models  ModelLister
	logger  *slog.Logger
}

// NewHandler builds the handler set. models may be nil when the backend
// cannot list models.
func NewHandler(session *rag.Session, models ModelLister, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{session: session, models: models, logger: logger}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) InsertDocument(w http.ResponseWriter, r *http.Request) {
	var req rag.InsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, h.session.Insert(r.Context(), req.Text))
}

func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs := h.session.Documents()
	writeJSON(w, http.StatusOK, rag.DocumentsResponse{Total: len(docs), Documents: docs})
}

func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	var req rag.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		http.Error(w, rag.ErrEmptyQuery.Error(), http.StatusBadRequest)
		return
	}

	answer, err := h.session.Query(r.Context(), req.Query, req.Mode)
	if err != nil {
		h.logger.Error("query failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rag.QueryResponse{Answer: answer})
}

func (h *Handler) Embed(w http.ResponseWriter, r *http.Request) {
	var req rag.EmbedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, rag.EmbedResponse{Embeddings: h.session.Embed(r.Context(), req.Texts)})
}

func (h *Handler) Models(w http.ResponseWriter, r *http.Request) {
	if h.models == nil {
		http.Error(w, "model listing not supported by this backend", http.StatusNotImplemented)
		return
	}
	names, err := h.models.ListModels(r.Context())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		h.logger.Warn("list models failed", "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, rag.ModelsResponse{Models: names})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
