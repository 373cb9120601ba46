// Package genai is a thin REST client for the generative extraction service:
// file upload/state/delete plus schema-constrained content generation.
package genai

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/deep-enzyme/kinetics-audit/internal/common"
)

// Config for the extraction service client.
type Config struct {
	APIKey      string        // if empty, falls back to env GEMINI_API_KEY
	BaseURL     string        // default https://generativelanguage.googleapis.com
	Model       string        // e.g. "gemini-1.5-pro"
	Temperature float32       // 0 for deterministic extraction
	Timeout     time.Duration // http client timeout
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-pro"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
}

// NewClientFromConfig adapts the application config.
func NewClientFromConfig(cfg common.GenAIConfig, logger *slog.Logger) *Client {
	return NewClient(Config{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout,
	}, logger)
}
