package model

import "time"

// ----------------------------------------------------
// ================ Config ================

// LogConfig holds logger settings
type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	Format     string `envconfig:"LOG_FORMAT" default:"console"`
	Output     string `envconfig:"LOG_OUTPUT" default:"stdout"`
	FilePath   string `envconfig:"LOG_FILE_PATH" default:"logs/luna.log"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"rfc3339"`
}

// LLMConfig selects and tunes the text-generation delegate
type LLMConfig struct {
	Provider    string        `envconfig:"LLM_PROVIDER" default:"ollama"`
	Model       string        `envconfig:"LLM_MODEL" default:"mistral"`
	BaseURL     string        `envconfig:"LLM_BASE_URL"`
	APIKey      string        `envconfig:"LLM_API_KEY"`
	MaxTokens   int           `envconfig:"LLM_MAX_TOKENS" default:"512"`
	Temperature float64       `envconfig:"LLM_TEMPERATURE" default:"0.7"`
	Timeout     time.Duration `envconfig:"LLM_TIMEOUT" default:"60s"`
}

// ConversationConfig bounds chat memory
type ConversationConfig struct {
	MaxMessages int `envconfig:"CONVERSATION_MAX_MESSAGES" default:"40"`
}

// SessionConfig selects the session backend
type SessionConfig struct {
	Store    string        `envconfig:"SESSION_STORE" default:"memory"`
	TTL      time.Duration `envconfig:"SESSION_TTL" default:"40m"`
	RedisURL string        `envconfig:"REDIS_URL"`
}

// HTTPConfig holds the API listener settings
type HTTPConfig struct {
	Addr         string        `envconfig:"HTTP_ADDR" default:":8080"`
	ReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"90s"`
}
