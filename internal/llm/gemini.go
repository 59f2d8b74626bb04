package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/josinaldojr/simple-lightrag/internal/rag"
	"google.golang.org/genai"
)

const (
	defaultGeminiModel          = "gemini-2.5-flash"
	defaultGeminiEmbeddingModel = "models/text-embedding-004"
)

// contentModels is the subset of *genai.Models used here.
type contentModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// GeminiClient serves the same contracts as the Ollama client through the
// Gemini API. The request URL is ignored.
type GeminiClient struct {
	models         contentModels
	model          string
	embeddingModel string
	logger         *slog.Logger
}

type GeminiOption func(*GeminiClient)

// WithGeminiModel sets the fallback generation model.
func WithGeminiModel(model string) GeminiOption {
	return func(g *GeminiClient) {
		if model != "" {
			g.model = model
		}
	}
}

func WithGeminiEmbeddingModel(model string) GeminiOption {
	return func(g *GeminiClient) {
		if model != "" {
			g.embeddingModel = model
		}
	}
}

func WithGeminiLogger(l *slog.Logger) GeminiOption {
	return func(g *GeminiClient) {
		g.logger = l
	}
}

func NewGeminiClient(ctx context.Context, apiKey string, opts ...GeminiOption) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing GOOGLE_API_KEY or GEMINI_API_KEY")
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGeminiClient(c.Models, opts...), nil
}

func newGeminiClient(models contentModels, opts ...GeminiOption) *GeminiClient {
	g := &GeminiClient{
		models:         models,
		model:          defaultGeminiModel,
		embeddingModel: defaultGeminiEmbeddingModel,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *GeminiClient) Generate(ctx context.Context, req rag.GenerateRequest) string {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	model := req.Model
	if model == "" {
		model = g.model
	}

	resp, err := g.models.GenerateContent(ctx, model, genai.Text(req.Prompt), nil)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return fmt.Sprintf("HTTP Error %d: %s", apiErr.Code, apiErr.Message)
		}
		return connectionError(err)
	}
	if resp == nil {
		g.logger.Warn("empty response from gemini", "model", model)
		return ""
	}
	return resp.Text()
}

func (g *GeminiClient) Embed(ctx context.Context, texts []string) [][]float32 {
	out := make([][]float32, 0, len(texts))
	for i, text := range texts {
		vec, err := g.embedOne(ctx, text)
		if err != nil {
			g.logger.Warn("gemini embed failed", "index", i, "error", err)
			vec = []float32{}
		}
		out = append(out, vec)
	}
	return out
}

func (g *GeminiClient) embedOne(ctx context.Context, text string) ([]float32, error) {
	clean := normalizeWhitespace(text)
	if clean == "" {
		return nil, fmt.Errorf("empty text for embedding")
	}

	resp, err := g.models.EmbedContent(ctx, g.embeddingModel, genai.Text(clean), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini embed error: %w", err)
	}
	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, fmt.Errorf("no embeddings returned")
	}

	values := resp.Embeddings[0].Values
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	return out, nil
}

func normalizeWhitespace(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
			if !space {
				b.WriteRune(' ')
				space = true
			}
		} else {
			b.WriteRune(r)
			space = false
		}
	}
	return b.String()
}

var _ rag.Generator = (*GeminiClient)(nil)
var _ rag.EmbeddingsClient = (*GeminiClient)(nil)
