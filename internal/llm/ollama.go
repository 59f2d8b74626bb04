package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/josinaldojr/simple-lightrag/internal/rag"
)

const (
	DefaultTimeout = 300 * time.Second
	DefaultTagsURL = "https://ollama.com/api/tags"

	contentTypeJSON = "application/json"
	previewLen      = 200
)

// Client talks to an Ollama-compatible /api/generate endpoint. Each call is
// a single attempt.
type Client struct {
	http    *http.Client
	tagsURL string
	logger  *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTagsURL sets the model listing URL used by ListModels.
func WithTagsURL(url string) Option {
	return func(c *Client) {
		c.tagsURL = url
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{},
		tagsURL: DefaultTagsURL,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type generatePayload struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// Generate posts {model, prompt, stream:false} to req.URL and returns the
// response field, or a human-readable error string.
func (c *Client) Generate(ctx context.Context, req rag.GenerateRequest) string {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(generatePayload{Model: req.Model, Prompt: req.Prompt, Stream: false})
	if err != nil {
		return connectionError(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(req.URL, "/"), bytes.NewReader(body))
	if err != nil {
		return connectionError(err)
	}
	httpReq.Header.Set("Content-Type", contentTypeJSON)
	if req.Authenticated {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return connectionError(err)
	}
	defer resp.Body.Close()

	ct := mediaType(resp.Header.Get("Content-Type"))
	c.logger.Debug("generation response", "status", resp.StatusCode, "content_type", ct)

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		if req.Authenticated {
			return fmt.Sprintf("HTTP Error %d: %s", resp.StatusCode, string(data))
		}
		return fmt.Sprintf("Error %d: %s", resp.StatusCode, string(data))
	}

	if ct != contentTypeJSON {
		data, _ := io.ReadAll(resp.Body)
		c.logger.Warn("unexpected generation response format",
			"content_type", ct,
			"body", preview(string(data), previewLen),
		)
		if req.Authenticated {
			return "Received non-JSON response. Check server logs."
		}
		return fmt.Sprintf("Error: Unexpected response format. Status: %d", resp.StatusCode)
	}

	var out struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return connectionError(fmt.Errorf("decode response: %w", err))
	}
	return out.Response
}

// ListModels returns the model names advertised by the tags endpoint.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.tagsURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tags request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tags http %d: %s", resp.StatusCode, string(data))
	}

	var out struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	names := make([]string, 0, len(out.Models))
	for _, m := range out.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

func connectionError(err error) string {
	return fmt.Sprintf("Connection error: %v", err)
}

// mediaType strips parameters such as charset from a Content-Type value.
func mediaType(header string) string {
	if header == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.SplitN(header, ";", 2)[0]))
	}
	return mt
}

func preview(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

var _ rag.Generator = (*Client)(nil)
