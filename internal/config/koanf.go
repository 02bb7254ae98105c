// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/sakesensei/internal/recommend"
	"github.com/tomtom215/sakesensei/internal/upstream"
)

// DefaultConfigPaths are checked in order when CONFIG_PATH is unset or
// points at a missing file.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/sakesensei/config.yaml",
	"/etc/sakesensei/config.yml",
}

// ConfigPathEnvVar names an explicit config file.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with every default applied.
// Config file values and environment variables are layered on top.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3857,
			Host:            "0.0.0.0",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			RequestTimeout:  5 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Database: DatabaseConfig{
			Path:               "/data/sakesensei.duckdb",
			MaxMemory:          "1GB",
			QueryTimeout:       30 * time.Second,
			CheckpointInterval: 10 * time.Minute,
		},
		Cache: CacheConfig{
			Backend:         CacheBackendMemory,
			Capacity:        100000,
			TTL:             30 * time.Minute,
			CleanupInterval: 5 * time.Minute,
			RedisAddr:       "localhost:6379",
			KeyPrefix:       "sakesensei:",
			Timeout:         50 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Recommend: *recommend.DefaultConfig(),
		Upstream:  upstream.DefaultBreakerConfig(),
	}
}

// Load is the entry point used by main.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

type configLayer struct {
	name     string
	provider koanf.Provider
	parser   koanf.Parser
}

// LoadWithKoanf merges defaults, then the YAML file if one is found, then
// mapped environment variables. Later layers win.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	layers := []configLayer{
		{"defaults", structs.Provider(defaultConfig(), "koanf"), nil},
	}
	if path := locateConfigFile(); path != "" {
		layers = append(layers, configLayer{"file " + path, file.Provider(path), yaml.Parser()})
	}
	layers = append(layers, configLayer{"environment", env.Provider("", ".", envKeyToPath), nil})

	for _, l := range layers {
		if err := k.Load(l.provider, l.parser); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", l.name, err)
		}
	}

	for _, path := range listKeys {
		if err := splitListValue(k, path); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid: %w", err)
	}
	return &cfg, nil
}

func locateConfigFile() string {
	candidates := DefaultConfigPaths
	if explicit := os.Getenv(ConfigPathEnvVar); explicit != "" {
		candidates = append([]string{explicit}, candidates...)
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

// listKeys hold string lists that may arrive from the environment as
// "a, b,c".
var listKeys = []string{"server.cors_origins"}

func splitListValue(k *koanf.Koanf, path string) error {
	raw, ok := k.Get(path).(string)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if err := k.Set(path, items); err != nil {
		return fmt.Errorf("config: set %s: %w", path, err)
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"server_port":           "server.port",
	"server_host":           "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"request_timeout":       "server.request_timeout",
	"rate_limit_requests":   "server.rate_limit_reqs",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",
	"cors_origins":          "server.cors_origins",

	// Database
	"database_path":       "database.path",
	"database_max_memory": "database.max_memory",
	"database_threads":    "database.threads",
	"db_query_timeout":    "database.query_timeout",
	"db_checkpoint":       "database.checkpoint_interval",
	"seed_demo_data":      "database.seed_demo_data",

	// Similarity cache
	"cache_backend":          "cache.backend",
	"cache_capacity":         "cache.capacity",
	"cache_ttl":              "cache.ttl",
	"cache_cleanup_interval": "cache.cleanup_interval",
	"redis_addr":             "cache.redis_addr",
	"redis_password":         "cache.redis_password",
	"redis_db":               "cache.redis_db",
	"redis_key_prefix":       "cache.key_prefix",
	"redis_timeout":          "cache.timeout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Recommendation engine
	"recommend_seed":                    "recommend.seed",
	"recommend_default_limit":           "recommend.limits.default_limit",
	"recommend_max_limit":               "recommend.limits.max_limit",
	"recommend_max_candidates":          "recommend.limits.max_candidates",
	"recommend_scorer_timeout":          "recommend.limits.scorer_timeout",
	"recommend_half_life":               "recommend.historical.half_life",
	"recommend_collaborative_metric":    "recommend.collaborative.metric",
	"recommend_min_overlap":             "recommend.collaborative.min_overlap",
	"recommend_max_population_records":  "recommend.collaborative.max_population_records",
	"recommend_content_metric":          "recommend.content.metric",
	"recommend_diversity_enabled":       "recommend.diversity.enabled",
	"recommend_diversity_reserve_every": "recommend.diversity.reserve_every",
	"recommend_max_category_share":      "recommend.diversity.max_category_share",
	"recommend_popular_rating":          "recommend.popularity.reason_rating",

	// Upstream circuit breaker
	"upstream_breaker_timeout":       "upstream.timeout",
	"upstream_breaker_min_requests":  "upstream.min_requests",
	"upstream_breaker_failure_ratio": "upstream.failure_ratio",
}

// envKeyToPath drops variables missing from envMappings by returning "".
func envKeyToPath(key string) string {
	return envMappings[strings.ToLower(key)]
}
