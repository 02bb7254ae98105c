// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/sakesensei/internal/recommend"
)

// isolate points CONFIG_PATH at a missing file so no stray config.yaml is picked up.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Chdir(t.TempDir())
}

func writeConfig(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 3857 {
		t.Errorf("Server.Port = %d, want 3857", cfg.Server.Port)
	}
	if cfg.Cache.Backend != CacheBackendMemory {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, CacheBackendMemory)
	}
	if cfg.Recommend.Limits.MaxLimit != 50 {
		t.Errorf("Recommend.Limits.MaxLimit = %d, want 50", cfg.Recommend.Limits.MaxLimit)
	}
	if cfg.Recommend.Blend.Returning.Historical != 40 {
		t.Errorf("Recommend.Blend.Returning.Historical = %v, want 40", cfg.Recommend.Blend.Returning.Historical)
	}
	if cfg.Upstream.Name != "datasource" {
		t.Errorf("Upstream.Name = %q, want datasource", cfg.Upstream.Name)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoadWithKoanf_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 10s", cfg.Server.ReadTimeout)
	}
	if cfg.Recommend.Historical.HalfLife != 90*24*time.Hour {
		t.Errorf("Recommend.Historical.HalfLife = %v, want 2160h", cfg.Recommend.Historical.HalfLife)
	}
	if len(cfg.Recommend.Diversity.PriceTiers) != 2 {
		t.Errorf("Recommend.Diversity.PriceTiers = %v, want 2 tiers", cfg.Recommend.Diversity.PriceTiers)
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_PATH", ":memory:")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RECOMMEND_SEED", "7")
	t.Setenv("RECOMMEND_SCORER_TIMEOUT", "750ms")
	t.Setenv("RECOMMEND_COLLABORATIVE_METRIC", "cosine")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SOME_UNRELATED_VAR", "ignored")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Path != ":memory:" {
		t.Errorf("Database.Path = %q, want :memory:", cfg.Database.Path)
	}
	if cfg.Cache.Backend != CacheBackendRedis || cfg.Cache.RedisAddr != "redis:6380" {
		t.Errorf("Cache = %+v, want redis at redis:6380", cfg.Cache)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Recommend.Seed != 7 {
		t.Errorf("Recommend.Seed = %d, want 7", cfg.Recommend.Seed)
	}
	if cfg.Recommend.Limits.ScorerTimeout != 750*time.Millisecond {
		t.Errorf("Recommend.Limits.ScorerTimeout = %v, want 750ms", cfg.Recommend.Limits.ScorerTimeout)
	}
	if cfg.Recommend.Collaborative.Metric != recommend.MetricCosine {
		t.Errorf("Recommend.Collaborative.Metric = %q, want cosine", cfg.Recommend.Collaborative.Metric)
	}
	want := []string{"https://a.example", "https://b.example"}
	if strings.Join(cfg.Server.CORSOrigins, "|") != strings.Join(want, "|") {
		t.Errorf("Server.CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
}

func TestLoadWithKoanf_File(t *testing.T) {
	t.Chdir(t.TempDir())
	writeConfig(t, `
server:
  port: 8088
cache:
  backend: none
recommend:
  blend:
    returning:
      historical: 50
      collaborative: 20
      content: 20
      diversity: 10
`)
	t.Setenv("SERVER_PORT", "8089")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	// Environment wins over the file.
	if cfg.Server.Port != 8089 {
		t.Errorf("Server.Port = %d, want 8089", cfg.Server.Port)
	}
	if cfg.Cache.Backend != CacheBackendNone {
		t.Errorf("Cache.Backend = %q, want none", cfg.Cache.Backend)
	}
	if cfg.Recommend.Blend.Returning.Historical != 50 {
		t.Errorf("Returning.Historical = %v, want 50", cfg.Recommend.Blend.Returning.Historical)
	}
	// Untouched sections keep their defaults.
	if cfg.Recommend.Blend.ColdStart.Preference != 100 {
		t.Errorf("ColdStart.Preference = %v, want 100", cfg.Recommend.Blend.ColdStart.Preference)
	}
}

func TestLoadWithKoanf_InvalidFile(t *testing.T) {
	t.Chdir(t.TempDir())
	writeConfig(t, `
recommend:
  blend:
    returning:
      historical: 90
`)

	if _, err := LoadWithKoanf(); err == nil {
		t.Error("LoadWithKoanf() = nil error, want shares validation failure")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "SERVER_PORT"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "SERVER_PORT"},
		{"request timeout", func(c *Config) { c.Server.RequestTimeout = 0 }, "REQUEST_TIMEOUT"},
		{"rate limit", func(c *Config) { c.Server.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit disabled", func(c *Config) {
			c.Server.RateLimitDisabled = true
			c.Server.RateLimitReqs = 0
		}, ""},
		{"empty db path", func(c *Config) { c.Database.Path = "" }, "DATABASE_PATH"},
		{"negative threads", func(c *Config) { c.Database.Threads = -1 }, "DATABASE_THREADS"},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, "CACHE_BACKEND"},
		{"redis without addr", func(c *Config) {
			c.Cache.Backend = CacheBackendRedis
			c.Cache.RedisAddr = ""
		}, "REDIS_ADDR"},
		{"none ignores capacity", func(c *Config) {
			c.Cache.Backend = CacheBackendNone
			c.Cache.Capacity = 0
		}, ""},
		{"memory capacity", func(c *Config) { c.Cache.Capacity = 0 }, "CACHE_CAPACITY"},
		{"failure ratio", func(c *Config) { c.Upstream.FailureRatio = 1.5 }, "FAILURE_RATIO"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"recommend policy", func(c *Config) { c.Recommend.Limits.MaxLimit = 0 }, "recommend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestServerConfig_Addr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8080}
	if got := s.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8080", got)
	}
}

func TestLoggingConfig_ToLoggingConfig(t *testing.T) {
	got := LoggingConfig{Level: "warn", Format: "console", Caller: true}.ToLoggingConfig()
	if got.Level != "warn" || got.Format != "console" || !got.Caller || !got.Timestamp {
		t.Errorf("ToLoggingConfig() = %+v", got)
	}
}
