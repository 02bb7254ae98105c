// Sake Sensei - Sake Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sakesensei

package config

import (
	"net"
	"strconv"
	"time"

	"github.com/tomtom215/sakesensei/internal/logging"
	"github.com/tomtom215/sakesensei/internal/recommend"
	"github.com/tomtom215/sakesensei/internal/upstream"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig           `koanf:"server"`
	Database  DatabaseConfig         `koanf:"database"`
	Cache     CacheConfig            `koanf:"cache"`
	Logging   LoggingConfig          `koanf:"logging"`
	Recommend recommend.Config       `koanf:"recommend"`
	Upstream  upstream.BreakerConfig `koanf:"upstream"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RequestTimeout bounds a single ranking request.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the database file, or ":memory:".
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB worker count. Zero uses runtime.NumCPU().
	Threads int `koanf:"threads"`

	QueryTimeout time.Duration `koanf:"query_timeout"`

	// CheckpointInterval flushes the WAL into the database file. Zero disables
	// periodic checkpoints.
	CheckpointInterval time.Duration `koanf:"checkpoint_interval"`

	// SeedDemoData loads the demo catalog on startup when the catalog is empty.
	SeedDemoData bool `koanf:"seed_demo_data"`
}

// Cache backends.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
	CacheBackendNone   = "none"
)

// CacheConfig selects and tunes the similarity cache.
type CacheConfig struct {
	Backend         string        `koanf:"backend"`
	Capacity        int           `koanf:"capacity"`
	TTL             time.Duration `koanf:"ttl"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`

	RedisAddr     string        `koanf:"redis_addr"`
	RedisPassword string        `koanf:"redis_password"`
	RedisDB       int           `koanf:"redis_db"`
	KeyPrefix     string        `koanf:"key_prefix"`
	Timeout       time.Duration `koanf:"timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// ToLoggingConfig converts to the logging package configuration.
func (c LoggingConfig) ToLoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Level
	cfg.Format = c.Format
	cfg.Caller = c.Caller
	return cfg
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
