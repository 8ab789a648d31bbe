package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/abc-assistant/assistant/internal/errs"
)

// EnvPrefix prefixes every environment variable, e.g. ASSISTANT_API_BASE_URL.
const EnvPrefix = "ASSISTANT"

// Default values for optional settings.
const (
	DefaultLogLevel           = "info"
	DefaultTranslationEngine  = "libretranslate"
	DefaultTranslationURL     = "https://libretranslate.de/translate"
	DefaultTranslationTimeout = 10 * time.Second
	DefaultMaxFailures        = 5
	DefaultBreakerCooldown    = 30 * time.Second
	DefaultConcurrency        = 8
	DefaultGeminiModel        = "gemini-2.0-flash"
	DefaultAuthRegion         = "us-east-1"
	DefaultDBPath             = "assistant.db"
	DefaultListenAddr         = ":8080"
	DefaultShutdownTimeout    = 10 * time.Second
	DefaultRetentionMaxAge    = 30 * 24 * time.Hour
	DefaultSessionIdle        = 24 * time.Hour
)

// DefaultTasks are scheduled unless overridden in the configuration file.
var DefaultTasks = map[string]TaskConfig{
	"sql_maintenance":       {Enabled: true, Schedule: "0 0 4 * * *"},
	"interaction_retention": {Enabled: true, Schedule: "0 30 3 * * *"},
	"chat_health":           {Enabled: true, Schedule: "0 */5 * * * *"},
	"session_eviction":      {Enabled: true, Schedule: "0 */15 * * * *"},
}

// Load resolves the configuration from the environment, the optional file at
// path (ignored when empty or missing), and defaults, then validates it.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !isMissingFile(err) {
				return nil, errs.NewConfigError(fmt.Sprintf("failed to read config file %s", path), err)
			}
			slog.Debug("Config file not found, using environment and defaults", "path", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errs.NewConfigError("failed to parse configuration", err)
	}
	if len(cfg.Scheduler.Tasks) == 0 {
		cfg.Scheduler.Tasks = DefaultTasks
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration and turns the most common mistakes into
// descriptive configuration errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errs.NewConfigError("API base URL not configured. Please set "+EnvPrefix+"_API_BASE_URL", nil)
	}
	if c.Translation.Engine == "libretranslate" && c.Translation.URL == "" {
		return errs.NewConfigError("libretranslate engine requires "+EnvPrefix+"_TRANSLATION_URL", nil)
	}
	if c.Translation.Engine == "gemini" && c.Translation.Gemini.APIKey == "" {
		return errs.NewConfigError("gemini translation engine requires "+EnvPrefix+"_TRANSLATION_GEMINI_API_KEY", nil)
	}
	if err := validator.New().Struct(c); err != nil {
		return errs.NewConfigError("invalid configuration", err)
	}
	return nil
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// setDefaults registers every key so AutomaticEnv can override it during
// Unmarshal, including keys that have no meaningful default.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", true)

	v.SetDefault("api.base_url", "")
	v.SetDefault("api.chat_endpoint", "")
	v.SetDefault("api.health_endpoint", "")

	v.SetDefault("translation.engine", DefaultTranslationEngine)
	v.SetDefault("translation.url", DefaultTranslationURL)
	v.SetDefault("translation.timeout", DefaultTranslationTimeout)
	v.SetDefault("translation.max_failures", DefaultMaxFailures)
	v.SetDefault("translation.breaker_cooldown", DefaultBreakerCooldown)
	v.SetDefault("translation.concurrency", DefaultConcurrency)
	v.SetDefault("translation.gemini.api_key", "")
	v.SetDefault("translation.gemini.model", DefaultGeminiModel)
	v.SetDefault("translation.gemini.max_retries", 2)
	v.SetDefault("translation.gemini.retry_delay", time.Second)

	v.SetDefault("auth.region", DefaultAuthRegion)
	v.SetDefault("auth.user_pool_id", "")
	v.SetDefault("auth.client_id", "")

	v.SetDefault("database.path", DefaultDBPath)
	v.SetDefault("telegram.token", "")

	v.SetDefault("server.listen_addr", DefaultListenAddr)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)

	v.SetDefault("retention.max_age", DefaultRetentionMaxAge)
	v.SetDefault("retention.session_idle", DefaultSessionIdle)
}
