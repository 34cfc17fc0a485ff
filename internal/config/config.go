// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config carries the generator endpoint settings and the tunable
// extraction constants. The heuristic defaults (48% column split, gap
// tolerance of 2) are empirically chosen; they are exposed here rather
// than hardcoded so unusual layouts can be accommodated.
type Config struct {
	// Generation server
	BaseURL     string
	Model       string
	APIKey      string
	HTTPTimeout time.Duration
	MaxRetries  int

	// Local tokenization
	Encoding string

	// Context packing
	ContextTokenBudget int

	// Extraction heuristics
	ColumnSplitRatio    float64
	SectionGapTolerance int
}

// Load reads configuration from PAPERCHAIN_* environment variables,
// applying defaults for anything unset.
func Load() Config {
	cfg := Config{
		BaseURL:     envOr("PAPERCHAIN_BASE_URL", "http://localhost:8000"),
		Model:       envOr("PAPERCHAIN_MODEL", "TheBloke/Llama-2-7b-Chat-AWQ"),
		APIKey:      os.Getenv("PAPERCHAIN_API_KEY"),
		HTTPTimeout: envDuration("PAPERCHAIN_HTTP_TIMEOUT", 120*time.Second),
		MaxRetries:  envInt("PAPERCHAIN_MAX_RETRIES", 3),

		Encoding: envOr("PAPERCHAIN_ENCODING", "cl100k_base"),

		ContextTokenBudget: envInt("PAPERCHAIN_TOKEN_BUDGET", 2048),

		ColumnSplitRatio:    envFloat("PAPERCHAIN_COLUMN_SPLIT", 0.48),
		SectionGapTolerance: envInt("PAPERCHAIN_GAP_TOLERANCE", 2),
	}

	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.ContextTokenBudget <= 0 {
		cfg.ContextTokenBudget = 2048
	}
	if cfg.ColumnSplitRatio <= 0 || cfg.ColumnSplitRatio >= 1 {
		cfg.ColumnSplitRatio = 0.48
	}
	if cfg.SectionGapTolerance <= 0 {
		cfg.SectionGapTolerance = 2
	}

	return cfg
}

// Validate checks settings needed for commands that call the generator.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("PAPERCHAIN_BASE_URL is required")
	}
	if c.Model == "" {
		return fmt.Errorf("PAPERCHAIN_MODEL is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
