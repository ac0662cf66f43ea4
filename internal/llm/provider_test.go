package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"luna_assistant/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChatModelUnknownProvider(t *testing.T) {
	_, err := NewChatModel(context.Background(), model.LLMConfig{Provider: "gpt-local", Model: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gpt-local")
}

func TestNewChatModelOllama(t *testing.T) {
	chatModel, err := NewChatModel(context.Background(), model.LLMConfig{
		Provider:    ProviderOllama,
		Model:       "mistral",
		MaxTokens:   128,
		Temperature: 0.2,
		Timeout:     time.Second,
	})
	require.NoError(t, err)
	assert.NotNil(t, chatModel)
}

func TestOllamaURL(t *testing.T) {
	assert.Equal(t, defaultOllamaURL, OllamaURL(model.LLMConfig{}))
	assert.Equal(t, "http://gpu:11434", OllamaURL(model.LLMConfig{BaseURL: "http://gpu:11434"}))
}

func TestOllamaCheckerHeartbeat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Ollama is running"))
	}))
	defer srv.Close()

	checker, err := NewOllamaChecker(srv.URL, srv.Client())
	require.NoError(t, err)
	assert.NoError(t, checker.Check(context.Background()))
}

func TestOllamaCheckerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	checker, err := NewOllamaChecker(addr, &http.Client{Timeout: time.Second})
	require.NoError(t, err)

	err = checker.Check(context.Background())
	assert.ErrorIs(t, err, model.ErrDelegate)
}

func TestNewCheckerHostedProviderIsReady(t *testing.T) {
	checker, err := NewChecker(model.LLMConfig{Provider: ProviderOpenAI})
	require.NoError(t, err)
	assert.NoError(t, checker.Check(context.Background()))
}
