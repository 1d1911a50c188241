// Package config is the typed configuration surface for the disk-cleanup
// pipeline: daily/session limits, batching, cache, breaker, and LLM
// parameters. It is YAML-backed and strict on load, falling back to
// defaults rather than refusing to start when no config file is present.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration object.
type Config struct {
	Limits   LimitsConfig   `yaml:"limits"`
	Batching BatchingConfig `yaml:"batching"`
	Cache    CacheConfig    `yaml:"cache"`
	Breaker  BreakerConfig  `yaml:"breaker"`
	LLM      LLMConfig      `yaml:"llm"`
}

// LimitsConfig holds the orchestrator's daily and per-session usage caps.
type LimitsConfig struct {
	MaxDailyRequests int     `yaml:"max_daily_requests"`
	MaxDailyTokens   int     `yaml:"max_daily_tokens"`
	MaxDailyCost     float64 `yaml:"max_daily_cost"`
	MaxSessionCost   float64 `yaml:"max_session_cost"`
	CostPerRequest   float64 `yaml:"cost_per_request"`
}

// BatchingConfig holds the adaptive batch-size and retry parameters.
type BatchingConfig struct {
	Min           int     `yaml:"min"`
	Max           int     `yaml:"max"`
	TargetSeconds float64 `yaml:"target_seconds"`
	Adaptive      bool    `yaml:"adaptive"`
	MaxRetries    int     `yaml:"max_retries"`
}

// CacheConfig holds the persistent result cache's TTL and capacity.
type CacheConfig struct {
	TTLHours             int `yaml:"ttl_hours"`
	MaxSizeMiB           int `yaml:"max_size_mib"`
	MaxEntries           int `yaml:"max_entries"`
	CleanupIntervalHours int `yaml:"cleanup_interval_hours"`
}

// BreakerConfig holds the circuit breaker's trip/recovery thresholds.
type BreakerConfig struct {
	FailureThreshold       int `yaml:"failure_threshold"`
	RecoveryTimeoutSeconds int `yaml:"recovery_timeout_seconds"`
}

// LLMConfig holds the default model parameters for the LLM transport.
type LLMConfig struct {
	Provider       string  `yaml:"provider"`
	Model          string  `yaml:"model"`
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// DefaultConfig returns the documented default configuration.
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			MaxDailyRequests: 1000,
			MaxDailyTokens:   50000,
			MaxDailyCost:     5.0,
			MaxSessionCost:   0.10,
			CostPerRequest:   0.002,
		},
		Batching: BatchingConfig{
			Min:           50,
			Max:           100,
			TargetSeconds: 3.0,
			Adaptive:      true,
			MaxRetries:    3,
		},
		Cache: CacheConfig{
			TTLHours:             24,
			MaxSizeMiB:           100,
			MaxEntries:           10000,
			CleanupIntervalHours: 6,
		},
		Breaker: BreakerConfig{
			FailureThreshold:       5,
			RecoveryTimeoutSeconds: 60,
		},
		LLM: LLMConfig{
			Provider:       "openai",
			Temperature:    0.1,
			MaxTokens:      4096,
			TimeoutSeconds: 30,
		},
	}
}

// Load reads and parses a YAML config file, starting from DefaultConfig
// and overlaying whatever the file specifies. Unknown keys are a
// construction-time error (yaml.Decoder.KnownFields(true)) rather than
// silently ignored — a misspelled option should fail loudly, not be
// silently dropped.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %q: %w", path, err)
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %q is invalid: %w", path, err)
	}
	return cfg, nil
}

// Validate enforces the configuration-shape invariants the orchestrator
// must raise eagerly at construction, never mid-analysis.
func (c *Config) Validate() error {
	if c.Batching.Min <= 0 || c.Batching.Max < c.Batching.Min {
		return fmt.Errorf("batching.min/max must satisfy 0 < min <= max")
	}
	if c.Limits.MaxSessionCost < 0 || c.Limits.CostPerRequest < 0 {
		return fmt.Errorf("limits.max_session_cost and cost_per_request must be non-negative")
	}
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache.max_entries must be positive")
	}
	return nil
}

// TargetDuration converts Batching.TargetSeconds to a time.Duration.
func (b BatchingConfig) TargetDuration() time.Duration {
	return time.Duration(b.TargetSeconds * float64(time.Second))
}

// CacheTTL converts Cache.TTLHours to a time.Duration.
func (c CacheConfig) CacheTTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// CleanupInterval converts Cache.CleanupIntervalHours to a time.Duration.
func (c CacheConfig) CleanupInterval() time.Duration {
	return time.Duration(c.CleanupIntervalHours) * time.Hour
}

// RecoveryTimeout converts Breaker.RecoveryTimeoutSeconds to a
// time.Duration.
func (b BreakerConfig) RecoveryTimeout() time.Duration {
	return time.Duration(b.RecoveryTimeoutSeconds) * time.Second
}

// Timeout converts LLM.TimeoutSeconds to a time.Duration.
func (l LLMConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutSeconds) * time.Second
}

// findConfigFile searches common locations for this project's dotfile
// config.
func findConfigFile() string {
	candidates := []string{".ai-disk-cleanup.yaml", ".ai-disk-cleanup.yml"}
	for _, candidate := range candidates {
		if fileExists(candidate) {
			return candidate
		}
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		for _, candidate := range candidates {
			path := filepath.Join(homeDir, candidate)
			if fileExists(path) {
				return path
			}
		}
	}
	return ""
}

// LoadOrDefault attempts to load a config file from a well-known
// location, falling back to DefaultConfig with a stderr warning on any
// read or parse failure.
func LoadOrDefault() *Config {
	path := findConfigFile()
	if path == "" {
		return DefaultConfig()
	}
	cfg, err := Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config from %s: %v\n", path, err)
		fmt.Fprintf(os.Stderr, "using default configuration\n")
		return DefaultConfig()
	}
	return cfg
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
