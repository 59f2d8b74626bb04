package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	BackendOllama = "ollama"
	BackendGemini = "gemini"
)

type Config struct {
	WorkingDir string `env:"LIGHTRAG_WORKING_DIR" envDefault:"./dickens"`
	Backend    string `env:"LIGHTRAG_BACKEND" envDefault:"ollama"`

	GenerateURL       string        `env:"LIGHTRAG_GENERATE_URL" envDefault:"https://ollama.com/api/generate"`
	EmbeddingsBaseURL string        `env:"LIGHTRAG_EMBEDDINGS_BASE_URL"`
	TagsURL           string        `env:"LIGHTRAG_TAGS_URL" envDefault:"https://ollama.com/api/tags"`
	Model             string        `env:"LIGHTRAG_MODEL" envDefault:"gpt-oss:120b-cloud"`
	EmbeddingModel    string        `env:"LIGHTRAG_EMBEDDING_MODEL" envDefault:"nomic-embed-text"`
	CredentialFile    string        `env:"LIGHTRAG_CREDENTIAL_FILE" envDefault:"ollama_api_key_file.txt"`
	NoAuth            bool          `env:"LIGHTRAG_NO_AUTH"`
	Timeout           time.Duration `env:"LIGHTRAG_TIMEOUT" envDefault:"300s"`

	GoogleAPIKey         string `env:"GOOGLE_API_KEY"`
	GeminiAPIKey         string `env:"GEMINI_API_KEY"`
	GeminiModel          string `env:"LIGHTRAG_GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	GeminiEmbeddingModel string `env:"LIGHTRAG_GEMINI_EMBEDDING_MODEL" envDefault:"models/text-embedding-004"`

	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over .env values.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.GenerateURL = strings.TrimSuffix(c.GenerateURL, "/")
	if c.EmbeddingsBaseURL == "" {
		c.EmbeddingsBaseURL = c.GenerateURL
	}
	c.EmbeddingsBaseURL = strings.TrimSuffix(c.EmbeddingsBaseURL, "/")

	switch c.Backend {
	case BackendOllama:
		if c.GenerateURL == "" {
			return errors.New("LIGHTRAG_GENERATE_URL must not be empty")
		}
	case BackendGemini:
		if c.APIKey() == "" {
			return errors.New("missing GOOGLE_API_KEY or GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown backend %q (want %q or %q)", c.Backend, BackendOllama, BackendGemini)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("LIGHTRAG_TIMEOUT must be positive, got %s", c.Timeout)
	}
	return nil
}

// APIKey returns the Gemini key, preferring GOOGLE_API_KEY.
func (c *Config) APIKey() string {
	if c.GoogleAPIKey != "" {
		return c.GoogleAPIKey
	}
	return c.GeminiAPIKey
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
