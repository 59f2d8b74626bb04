package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	wl "github.com/abadojack/whatlanggo"

	"github.com/josinaldojr/simple-lightrag/internal/credential"
)

var ErrEmptyQuery = errors.New("query is required")

const promptTemplate = `Context information is below.
=====================
%s
=====================
Given the context information and not prior knowledge, answer the query.
Query: %s
Mode : %s
Answer:`

// Options configures a Session. A nil Credentials selects the
// unauthenticated generation variant.
type Options struct {
	Endpoint    string
	Model       string
	Credentials credential.Source
	Timeout     time.Duration
	Logger      *slog.Logger
}

// Session holds inserted documents and answers queries by sending all of
// them to the generator as context.
type Session struct {
	store      Store
	embeddings EmbeddingsClient
	llm        Generator
	opts       Options
	logger     *slog.Logger
}

func NewSession(store Store, embeddings EmbeddingsClient, llm Generator, opts Options) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	opts.Endpoint = strings.TrimSuffix(opts.Endpoint, "/")
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		store:      store,
		embeddings: embeddings,
		llm:        llm,
		opts:       opts,
		logger:     logger,
	}
}

// Insert appends text unchanged.
func (s *Session) Insert(_ context.Context, text string) InsertResult {
	total := s.store.Append(text)
	lang := detectLang(text)
	s.logger.Info("inserted document", "total", total, "lang", lang)
	return InsertResult{Total: total, Lang: lang}
}

func (s *Session) Count() int {
	return s.store.Len()
}

func (s *Session) Documents() []string {
	return s.store.All()
}

// Query builds the prompt from every stored document and returns the
// generator's answer. The error is non-nil only when the credential source
// fails, in which case nothing is sent.
func (s *Session) Query(ctx context.Context, query string, mode Mode) (string, error) {
	if mode == "" {
		mode = ModeNaive
	}
	prompt := buildPrompt(s.store.All(), query, mode)

	req := GenerateRequest{
		URL:     s.opts.Endpoint,
		Model:   s.opts.Model,
		Prompt:  prompt,
		Timeout: s.opts.Timeout,
	}
	if s.opts.Credentials != nil {
		token, err := s.opts.Credentials.Token(ctx)
		if err != nil {
			return "", fmt.Errorf("query: %w", err)
		}
		req.Authenticated = true
		req.Token = token
	}

	return s.llm.Generate(ctx, req), nil
}

// Embed returns one vector per text, empty for items that failed.
func (s *Session) Embed(ctx context.Context, texts []string) [][]float32 {
	if len(texts) == 0 {
		return [][]float32{}
	}
	return s.embeddings.Embed(ctx, texts)
}

func buildPrompt(docs []string, query string, mode Mode) string {
	return fmt.Sprintf(promptTemplate, strings.Join(docs, "\n"), query, mode)
}

func detectLang(s string) string {
	info := wl.Detect(s)
	if !info.IsReliable() {
		return ""
	}
	return wl.LangToString(info.Lang)
}
