package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/josinaldojr/simple-lightrag/internal/rag"
)

const DefaultEmbeddingModel = "nomic-embed-text"

// Embedder calls <base>/api/embeddings once per text, in order.
type Embedder struct {
	url    string
	model  string
	http   *http.Client
	logger *slog.Logger
}

// NewEmbedder builds an Embedder. An empty model uses DefaultEmbeddingModel
// and a nil http.Client uses one without a timeout.
func NewEmbedder(baseURL, model string, hc *http.Client, logger *slog.Logger) *Embedder {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	if hc == nil {
		hc = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Embedder{
		url:    strings.TrimSuffix(baseURL, "/") + "/api/embeddings",
		model:  model,
		http:   hc,
		logger: logger,
	}
}

// URL is the full embeddings endpoint.
func (e *Embedder) URL() string { return e.url }

func (e *Embedder) Embed(ctx context.Context, texts []string) [][]float32 {
	out := make([][]float32, 0, len(texts))
	for i, text := range texts {
		vec, err := e.embedOne(ctx, text)
		if err != nil {
			e.logger.Warn("embedding request failed", "index", i, "error", err)
			vec = []float32{}
		}
		out = append(out, vec)
	}
	return out
}

func (e *Embedder) embedOne(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(map[string]string{"model": e.model, "prompt": text})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentTypeJSON)

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	ct := mediaType(resp.Header.Get("Content-Type"))
	e.logger.Debug("embedding response", "status", resp.StatusCode, "content_type", ct)

	if resp.StatusCode != http.StatusOK || ct != contentTypeJSON {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embeddings http %d (%s): %s", resp.StatusCode, ct, preview(string(data), previewLen))
	}

	var res struct {
		Embedding []float32 `json:"embedding"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode embedding: %w", err)
	}
	if res.Embedding == nil {
		return []float32{}, nil
	}
	return res.Embedding, nil
}

var _ rag.EmbeddingsClient = (*Embedder)(nil)
