package rag

import (
	"context"
	"time"
)

// GenerateRequest is one non-streaming generation call.
type GenerateRequest struct {
	URL     string
	Model   string
	Prompt  string
	Timeout time.Duration

	// Authenticated selects the bearer variant. Token is sent verbatim,
	// even when empty.
	Authenticated bool
	Token         string
}

// Generator turns a prompt into the model's text. Failures are reported
// in the returned string, never as an error.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) string
}

// EmbeddingsClient returns one vector per input text, in input order. A
// failed item yields an empty vector.
type EmbeddingsClient interface {
	Embed(ctx context.Context, texts []string) [][]float32
}
