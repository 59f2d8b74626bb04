// Package app wires configuration into a ready Session.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/josinaldojr/simple-lightrag/internal/config"
	"github.com/josinaldojr/simple-lightrag/internal/credential"
	apphttp "github.com/josinaldojr/simple-lightrag/internal/http"
	"github.com/josinaldojr/simple-lightrag/internal/llm"
	"github.com/josinaldojr/simple-lightrag/internal/rag"
)

type App struct {
	Session *rag.Session
	// Models is nil for backends without a model listing.
	Models apphttp.ModelLister
}

// New creates the working directory and builds the configured backend.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg.WorkingDir != "" {
		if err := os.MkdirAll(cfg.WorkingDir, 0o755); err != nil {
			return nil, fmt.Errorf("create working dir: %w", err)
		}
	}

	var creds credential.Source
	if !cfg.NoAuth {
		creds = credential.NewFile(cfg.CredentialFile)
	}

	switch cfg.Backend {
	case config.BackendGemini:
		g, err := llm.NewGeminiClient(ctx, cfg.APIKey(),
			llm.WithGeminiModel(cfg.GeminiModel),
			llm.WithGeminiEmbeddingModel(cfg.GeminiEmbeddingModel),
			llm.WithGeminiLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		session := rag.NewSession(nil, g, g, rag.Options{
			Model:   cfg.GeminiModel,
			Timeout: cfg.Timeout,
			Logger:  logger,
		})
		return &App{Session: session}, nil

	default:
		client := llm.NewClient(llm.WithTagsURL(cfg.TagsURL), llm.WithLogger(logger))
		embedder := llm.NewEmbedder(cfg.EmbeddingsBaseURL, cfg.EmbeddingModel, nil, logger)
		session := rag.NewSession(nil, embedder, client, rag.Options{
			Endpoint:    cfg.GenerateURL,
			Model:       cfg.Model,
			Credentials: creds,
			Timeout:     cfg.Timeout,
			Logger:      logger,
		})
		return &App{Session: session, Models: client}, nil
	}
}
