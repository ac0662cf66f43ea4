package config

import (
	"fmt"
	"slices"
	"strings"

	"luna_assistant/internal/llm"
	"luna_assistant/internal/model"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the full process configuration, populated from the environment
type Config struct {
	Mode               string                   `envconfig:"APP_MODE" default:"cli"`
	RulesPath          string                   `envconfig:"ROUTING_RULES_PATH"`
	MetricsNamespace   string                   `envconfig:"METRICS_NAMESPACE" default:"luna"`
	LogConfig          model.LogConfig          `envconfig:""`
	LLMConfig          model.LLMConfig          `envconfig:""`
	ConversationConfig model.ConversationConfig `envconfig:""`
	SessionConfig      model.SessionConfig      `envconfig:""`
	HTTPConfig         model.HTTPConfig         `envconfig:""`
}

// LoadConfig reads an optional .env file and then the process environment
func LoadConfig(envFiles ...string) (*Config, error) {
	// A missing .env is fine: the environment alone is a valid source
	_ = godotenv.Load(envFiles...)

	var config Config
	err := envconfig.Process("", &config)
	if err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %v", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects combinations the process cannot start with
func (c *Config) Validate() error {
	switch strings.ToLower(c.Mode) {
	case "cli", "http":
	default:
		return fmt.Errorf("invalid APP_MODE %q: want cli or http", c.Mode)
	}

	switch strings.ToLower(c.SessionConfig.Store) {
	case "memory":
	case "redis":
		if c.SessionConfig.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when SESSION_STORE=redis")
		}
	default:
		return fmt.Errorf("invalid SESSION_STORE %q: want memory or redis", c.SessionConfig.Store)
	}

	if c.ConversationConfig.MaxMessages < 2 {
		return fmt.Errorf("CONVERSATION_MAX_MESSAGES must be at least 2, got %d", c.ConversationConfig.MaxMessages)
	}

	if !slices.Contains(llm.Providers, strings.ToLower(c.LLMConfig.Provider)) {
		return fmt.Errorf("invalid LLM_PROVIDER %q: want one of %s", c.LLMConfig.Provider, strings.Join(llm.Providers, ", "))
	}

	if c.LLMConfig.Timeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive")
	}

	return nil
}
