// Package config resolves the immutable application configuration once at
// startup. Values come from ASSISTANT_* environment variables first, then
// from the optional runtime configuration file, then from defaults. Required
// endpoints have no default: a missing API base URL is a startup failure.
package config

import (
	"time"
)

// Config is the complete application configuration.
type Config struct {
	Logger      LoggerConfig      `mapstructure:"logger"`
	API         APIConfig         `mapstructure:"api"`
	Translation TranslationConfig `mapstructure:"translation"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Telegram    TelegramConfig    `mapstructure:"telegram"`
	Server      ServerConfig      `mapstructure:"server"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler"`
	Retention   RetentionConfig   `mapstructure:"retention"`
}

// LoggerConfig controls slog output.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// APIConfig locates the backend inference API. ChatEndpoint and
// HealthEndpoint fall back to BaseURL when unset.
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"        validate:"required,url"`
	ChatEndpoint   string `mapstructure:"chat_endpoint"   validate:"omitempty,url"`
	HealthEndpoint string `mapstructure:"health_endpoint" validate:"omitempty,url"`
}

// TranslationConfig selects and configures the translation backend.
type TranslationConfig struct {
	Engine  string        `mapstructure:"engine"  validate:"oneof=libretranslate gemini"`
	URL     string        `mapstructure:"url"     validate:"omitempty,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"min=1s,max=1m"`

	// Breaker settings; MaxFailures of zero disables the breaker.
	MaxFailures     int           `mapstructure:"max_failures"     validate:"min=0"`
	BreakerCooldown time.Duration `mapstructure:"breaker_cooldown" validate:"min=0"`
	Concurrency     int           `mapstructure:"concurrency"      validate:"min=1,max=64"`

	Gemini GeminiConfig `mapstructure:"gemini"`
}

// GeminiConfig configures the Gemini translation engine.
type GeminiConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	Model      string        `mapstructure:"model"`
	MaxRetries int           `mapstructure:"max_retries" validate:"min=0,max=5"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// AuthConfig identifies the Cognito user pool used by the admin gate.
type AuthConfig struct {
	Region     string `mapstructure:"region"`
	UserPoolID string `mapstructure:"user_pool_id"`
	ClientID   string `mapstructure:"client_id"`
}

// Enabled reports whether enough identity configuration is present to
// authenticate administrators.
func (a AuthConfig) Enabled() bool {
	return a.UserPoolID != "" && a.ClientID != ""
}

// DatabaseConfig locates the local sqlite database.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// TelegramConfig enables the Telegram surface when Token is set.
type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

// ServerConfig configures the admin HTTP server.
type ServerConfig struct {
	ListenAddr      string        `mapstructure:"listen_addr"      validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=1s"`
}

// SchedulerConfig lists scheduled tasks by registry name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig configures one scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// RetentionConfig bounds the interaction log and idle chat sessions.
type RetentionConfig struct {
	MaxAge time.Duration `mapstructure:"max_age" validate:"min=1h"`
	// SessionIdle evicts in-memory sessions unused for this long; 0 keeps them.
	SessionIdle time.Duration `mapstructure:"session_idle" validate:"min=0"`
}

// ChatURL returns the chat endpoint, defaulting to the API base URL.
func (c *Config) ChatURL() string {
	if c.API.ChatEndpoint != "" {
		return c.API.ChatEndpoint
	}
	return c.API.BaseURL
}

// HealthURL returns the health endpoint, defaulting to the API base URL.
func (c *Config) HealthURL() string {
	if c.API.HealthEndpoint != "" {
		return c.API.HealthEndpoint
	}
	return c.API.BaseURL
}
