// Feedwright - Social Feed Ranking and Distribution Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwright

// Package config loads and validates the application configuration.
//
// Configuration is layered with koanf: struct defaults, then an optional
// YAML file, then FEEDWRIGHT_-prefixed environment variables (highest
// priority). Field constraints use go-playground/validator tags; engine
// weight semantics are validated by the feed package itself at engine
// construction.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/feedwright/internal/feed"
)

// DefaultConfigPaths lists where config files are searched, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/feedwright/config.yaml",
	"/etc/feedwright/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix namespaces environment variables: FEEDWRIGHT_SERVER_ADDR,
// FEEDWRIGHT_ENGINE_RECENCY_WINDOW_HOURS, and so on.
const envPrefix = "FEEDWRIGHT_"

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
	Store   StoreConfig   `koanf:"store"`
	Engine  EngineConfig  `koanf:"engine"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `koanf:"addr" validate:"required"`

	// ReadTimeout bounds request reads.
	ReadTimeout time.Duration `koanf:"read_timeout" validate:"gt=0"`

	// WriteTimeout bounds response writes.
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gt=0"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`

	// RateLimit is the per-IP request budget per RatePeriod. Zero disables
	// rate limiting.
	RateLimit int `koanf:"rate_limit" validate:"gte=0"`

	// RatePeriod is the rate limit window.
	RatePeriod time.Duration `koanf:"rate_period" validate:"gt=0"`

	// CORSOrigins lists allowed origins. Empty means same-origin only.
	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	// Level is the minimum log level.
	Level string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`

	// Format is json or console.
	Format string `koanf:"format" validate:"oneof=json console"`
}

// StoreConfig configures the post store and social graph.
type StoreConfig struct {
	// BadgerPath is the on-disk location for persistence. Empty disables
	// durability and the store runs purely in memory.
	BadgerPath string `koanf:"badger_path"`

	// SeedDemoData populates a generated demo network at startup when the
	// store is empty.
	SeedDemoData bool `koanf:"seed_demo_data"`

	// SeedUsers is the demo network size.
	SeedUsers int `koanf:"seed_users" validate:"gte=0"`
}

// EngineConfig mirrors the feed engine configuration. Weight semantics
// (non-negative, positive sum) are enforced by feed.Config.Validate at
// engine construction; only shape constraints live here.
type EngineConfig struct {
	// WeightFollowed is the category weight for followed authors.
	WeightFollowed float64 `koanf:"weight_followed" validate:"gte=0"`

	// WeightTier1 is the category weight for tier-1 verified authors.
	WeightTier1 float64 `koanf:"weight_tier1" validate:"gte=0"`

	// WeightTier2 is the category weight for tier-2 verified authors.
	WeightTier2 float64 `koanf:"weight_tier2" validate:"gte=0"`

	// WeightOther is the category weight for everyone else.
	WeightOther float64 `koanf:"weight_other" validate:"gte=0"`

	// MaxCandidatePoolSize caps how many items one feed may draw.
	MaxCandidatePoolSize int `koanf:"max_candidate_pool_size" validate:"gt=0"`

	// EngagementBonusMultiplier scales the engagement-rate bonus.
	EngagementBonusMultiplier float64 `koanf:"engagement_bonus_multiplier" validate:"gte=0"`

	// RecencyWindowHours is the recency bonus cliff.
	RecencyWindowHours float64 `koanf:"recency_window_hours" validate:"gte=0"`

	// RecencyBonusMultiplier scales the recency bonus.
	RecencyBonusMultiplier float64 `koanf:"recency_bonus_multiplier" validate:"gte=0"`

	// Seed fixes the engine's random source. Zero means the default.
	Seed int64 `koanf:"seed"`

	// DefaultLimit is the feed size when a request does not specify one.
	DefaultLimit int `koanf:"default_limit" validate:"gt=0"`

	// MaxLimit bounds the per-request limit parameter.
	MaxLimit int `koanf:"max_limit" validate:"gt=0"`
}

// FeedConfig converts the engine section into the feed package's
// configuration type.
func (e EngineConfig) FeedConfig() *feed.Config {
	return &feed.Config{
		Weights: feed.CategoryWeights{
			Followed:      e.WeightFollowed,
			Tier1Verified: e.WeightTier1,
			Tier2Verified: e.WeightTier2,
			Other:         e.WeightOther,
		},
		MaxCandidatePoolSize:      e.MaxCandidatePoolSize,
		EngagementBonusMultiplier: e.EngagementBonusMultiplier,
		RecencyWindowHours:        e.RecencyWindowHours,
		RecencyBonusMultiplier:    e.RecencyBonusMultiplier,
		Seed:                      e.Seed,
	}
}

// defaultConfig returns all default values. Applied first, then overridden
// by file and environment.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8472",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       120,
			RatePeriod:      time.Minute,
			CORSOrigins:     nil,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Store: StoreConfig{
			BadgerPath:   "",
			SeedDemoData: false,
			SeedUsers:    40,
		},
		Engine: EngineConfig{
			WeightFollowed:            35,
			WeightTier1:               30,
			WeightTier2:               25,
			WeightOther:               10,
			MaxCandidatePoolSize:      50,
			EngagementBonusMultiplier: 10,
			RecencyWindowHours:        24,
			RecencyBonusMultiplier:    2,
			DefaultLimit:              30,
			MaxLimit:                  100,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// the environment, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// FEEDWRIGHT_SERVER_ADDR -> server.addr
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ToLower(s)
		return strings.Replace(s, "_", ".", 1)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Engine.DefaultLimit > c.Engine.MaxLimit {
		return fmt.Errorf("engine default_limit %d exceeds max_limit %d",
			c.Engine.DefaultLimit, c.Engine.MaxLimit)
	}
	sum := c.Engine.WeightFollowed + c.Engine.WeightTier1 + c.Engine.WeightTier2 + c.Engine.WeightOther
	if sum <= 0 {
		return fmt.Errorf("engine category weights must sum to a positive value, got %v", sum)
	}
	return nil
}

// findConfigFile returns the first config file found, or empty string.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
