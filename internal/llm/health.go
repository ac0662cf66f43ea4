package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"luna_assistant/internal/model"

	"github.com/ollama/ollama/api"
)

// Checker reports whether the delegate can be reached
type Checker interface {
	Check(ctx context.Context) error
}

// CheckFunc adapts a function to Checker
type CheckFunc func(ctx context.Context) error

func (f CheckFunc) Check(ctx context.Context) error { return f(ctx) }

// OllamaChecker pings the ollama server
type OllamaChecker struct {
	client *api.Client
}

// NewOllamaChecker creates a checker for the server at baseURL
func NewOllamaChecker(baseURL string, httpClient *http.Client) (*OllamaChecker, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama url %q: %w", baseURL, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OllamaChecker{client: api.NewClient(u, httpClient)}, nil
}

func (c *OllamaChecker) Check(ctx context.Context) error {
	if err := c.client.Heartbeat(ctx); err != nil {
		return fmt.Errorf("%w: ollama heartbeat: %v", model.ErrDelegate, err)
	}
	return nil
}

// NewChecker returns the readiness check for cfg. Hosted providers have no
// cheap health endpoint and are reported ready.
func NewChecker(cfg model.LLMConfig) (Checker, error) {
	if strings.ToLower(cfg.Provider) == ProviderOllama {
		return NewOllamaChecker(OllamaURL(cfg), &http.Client{Timeout: cfg.Timeout})
	}
	return CheckFunc(func(context.Context) error { return nil }), nil
}
