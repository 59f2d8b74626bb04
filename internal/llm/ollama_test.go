package llm

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josinaldojr/simple-lightrag/internal/rag"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient() *Client {
	return NewClient(WithLogger(quietLogger()))
}

func TestGenerate_Success(t *testing.T) {
	var got generatePayload
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"hello"}`))
	}))
	defer srv.Close()

	out := newTestClient().Generate(context.Background(), rag.GenerateRequest{
		URL:           srv.URL + "/",
		Model:         "llama3",
		Prompt:        "hi",
		Authenticated: true,
		Token:         "tok",
	})

	assert.Equal(t, "hello", out)
	assert.Equal(t, generatePayload{Model: "llama3", Prompt: "hi", Stream: false}, got)
	assert.Equal(t, "Bearer tok", auth)
}

func TestGenerate_RequestBodyHasStreamFalse(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	out := newTestClient().Generate(context.Background(), rag.GenerateRequest{URL: srv.URL, Model: "m", Prompt: "p"})

	assert.Equal(t, "", out)
	assert.Equal(t, map[string]any{"model": "m", "prompt": "p", "stream": false}, raw)
}

func TestGenerate_NoAuthorizationWhenUnauthenticated(t *testing.T) {
	var hasAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"response":"ok"}`))
	}))
	defer srv.Close()

	out := newTestClient().Generate(context.Background(), rag.GenerateRequest{URL: srv.URL, Model: "m", Prompt: "p"})

	assert.Equal(t, "ok", out)
	assert.False(t, hasAuth)
}

func TestGenerate_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	t.Run("authenticated", func(t *testing.T) {
		out := newTestClient().Generate(context.Background(), rag.GenerateRequest{URL: srv.URL, Authenticated: true})
		assert.Equal(t, "HTTP Error 500: boom", out)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		out := newTestClient().Generate(context.Background(), rag.GenerateRequest{URL: srv.URL})
		assert.Equal(t, "Error 500: boom", out)
	})
}

func TestGenerate_NonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(`{"response":"hello"}`))
	}))
	defer srv.Close()

	t.Run("authenticated", func(t *testing.T) {
		out := newTestClient().Generate(context.Background(), rag.GenerateRequest{URL: srv.URL, Authenticated: true})
		assert.Equal(t, "Received non-JSON response. Check server logs.", out)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		out := newTestClient().Generate(context.Background(), rag.GenerateRequest{URL: srv.URL})
		assert.Equal(t, "Error: Unexpected response format. Status: 200", out)
		assert.NotContains(t, out, "hello")
	})
}

func TestGenerate_InvalidJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	out := newTestClient().Generate(context.Background(), rag.GenerateRequest{URL: srv.URL})
	assert.Contains(t, out, "Connection error:")
}

func TestGenerate_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	out := newTestClient().Generate(context.Background(), rag.GenerateRequest{URL: url, Authenticated: true})
	assert.Contains(t, out, "Connection error:")
}

func TestGenerate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	start := time.Now()
	out := newTestClient().Generate(context.Background(), rag.GenerateRequest{URL: srv.URL, Timeout: 50 * time.Millisecond})

	assert.Contains(t, out, "Connection error:")
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestListModels(t *testing.T) {
	t.Run("returns names", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"models":[{"name":"llama3"},{"name":"gpt-oss:120b-cloud"}]}`))
		}))
		defer srv.Close()

		names, err := NewClient(WithTagsURL(srv.URL), WithLogger(quietLogger())).ListModels(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"llama3", "gpt-oss:120b-cloud"}, names)
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("nope"))
		}))
		defer srv.Close()

		_, err := NewClient(WithTagsURL(srv.URL)).ListModels(context.Background())
		assert.ErrorContains(t, err, "401")
	})
}

func TestMediaType(t *testing.T) {
	assert.Equal(t, "application/json", mediaType("application/json; charset=utf-8"))
	assert.Equal(t, "text/plain", mediaType("text/plain"))
	assert.Equal(t, "", mediaType(""))
}
