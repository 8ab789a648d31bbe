package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abc-assistant/assistant/internal/errs"
)

func TestLoadFailsWithoutBaseURL(t *testing.T) {
	t.Setenv("ASSISTANT_API_BASE_URL", "")

	_, err := Load("")
	if err == nil {
		t.Fatal("Load() error = nil, want configuration error")
	}
	if !errs.Is(err, errs.CodeConfig) {
		t.Errorf("Load() error code = %q, want %q", errs.Code(err), errs.CodeConfig)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ASSISTANT_API_BASE_URL", "https://api.example.com/chat")
	t.Setenv("ASSISTANT_TRANSLATION_TIMEOUT", "5s")
	t.Setenv("ASSISTANT_AUTH_USER_POOL_ID", "us-east-1_pool")
	t.Setenv("ASSISTANT_AUTH_CLIENT_ID", "client")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "https://api.example.com/chat" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.ChatURL() != cfg.API.BaseURL || cfg.HealthURL() != cfg.API.BaseURL {
		t.Errorf("ChatURL/HealthURL did not default to base URL: %q %q", cfg.ChatURL(), cfg.HealthURL())
	}
	if cfg.Translation.Timeout != 5*time.Second {
		t.Errorf("Translation.Timeout = %v, want 5s", cfg.Translation.Timeout)
	}
	if cfg.Translation.Engine != DefaultTranslationEngine {
		t.Errorf("Translation.Engine = %q", cfg.Translation.Engine)
	}
	if !cfg.Auth.Enabled() {
		t.Error("Auth.Enabled() = false, want true")
	}
	if len(cfg.Scheduler.Tasks) != len(DefaultTasks) {
		t.Errorf("Scheduler.Tasks = %v, want defaults", cfg.Scheduler.Tasks)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  base_url: https://file.example.com
  health_endpoint: https://file.example.com/health
logger:
  level: debug
scheduler:
  tasks:
    sql_maintenance:
      enabled: false
      schedule: "0 0 1 * * *"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("ASSISTANT_API_BASE_URL", "https://env.example.com")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "https://env.example.com" {
		t.Errorf("API.BaseURL = %q, want environment value", cfg.API.BaseURL)
	}
	if cfg.HealthURL() != "https://file.example.com/health" {
		t.Errorf("HealthURL() = %q, want file value", cfg.HealthURL())
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("Logger.Level = %q, want debug", cfg.Logger.Level)
	}
	task, ok := cfg.Scheduler.Tasks["sql_maintenance"]
	if !ok || task.Enabled {
		t.Errorf("Scheduler.Tasks[sql_maintenance] = %+v, want disabled", task)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Logger: LoggerConfig{Level: "info"},
			API:    APIConfig{BaseURL: "https://api.example.com"},
			Translation: TranslationConfig{
				Engine:      "libretranslate",
				URL:         "https://translate.example.com",
				Timeout:     10 * time.Second,
				Concurrency: 4,
			},
			Database:  DatabaseConfig{Path: "test.db"},
			Server:    ServerConfig{ListenAddr: ":0", ShutdownTimeout: time.Second},
			Retention: RetentionConfig{MaxAge: 24 * time.Hour},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad log level", mutate: func(c *Config) { c.Logger.Level = "loud" }, wantErr: true},
		{name: "bad base url", mutate: func(c *Config) { c.API.BaseURL = "not a url" }, wantErr: true},
		{name: "unknown engine", mutate: func(c *Config) { c.Translation.Engine = "babel" }, wantErr: true},
		{name: "gemini without key", mutate: func(c *Config) { c.Translation.Engine = "gemini" }, wantErr: true},
		{name: "gemini with key", mutate: func(c *Config) {
			c.Translation.Engine = "gemini"
			c.Translation.Gemini.APIKey = "key"
		}},
		{name: "timeout too short", mutate: func(c *Config) { c.Translation.Timeout = time.Millisecond }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errs.Is(err, errs.CodeConfig) {
				t.Errorf("Validate() error code = %q", errs.Code(err))
			}
		})
	}
}
