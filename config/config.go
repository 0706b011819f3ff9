// Package config provides the typed, validate-once configuration surface
// for Torq processes (spec §6.4, §9 "ingest into a typed config value at
// startup, validate once, pass immutable references downward").
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"torq.dev/core/validation"
)

// Config is the fully-resolved, immutable configuration for one relay or
// node process. Live-reload is explicitly not required (spec §9).
type Config struct {
	Profile    string // "default", "production", or "development"
	LogLevel   string
	SocketDir  string // carried in Config; no caller reads it, socket paths come from the domain or --socket
	PoolDBPath string // bbolt path for poolcache persistence; empty = in-memory
	Validation validation.ValidationConfig
}

var allowedLogLevels = map[string]struct{}{
	"debug": {}, "info": {}, "warn": {}, "error": {},
}

// DefaultConfig returns the baseline configuration before any profile or
// environment override is applied.
func DefaultConfig() Config {
	return Config{
		Profile:    "default",
		LogLevel:   "info",
		Validation: validation.Default(),
	}
}

// LoadProfile resolves one of the internal presets (spec §6.4: "Profiles
// are internal presets, not schema"). Unknown names are an error rather
// than silently falling back, since a typo here would otherwise silently
// loosen production validation.
func LoadProfile(name string) (Config, error) {
	cfg := DefaultConfig()
	cfg.Profile = name
	switch name {
	case "default":
		cfg.Validation = validation.Default()
	case "production":
		cfg.Validation = validation.Production()
	case "development":
		cfg.Validation = validation.Development()
		cfg.LogLevel = "debug"
	default:
		return Config{}, fmt.Errorf("config: unknown profile %q", name)
	}
	return cfg, nil
}

// FromEnv builds a Config starting from the named profile (TORQ_PROFILE,
// default "default") and applying the representative environment override
// set from spec §6.4. All overrides are optional; an unset variable keeps
// the profile's value.
func FromEnv() (Config, error) {
	profile := os.Getenv("TORQ_PROFILE")
	if profile == "" {
		profile = "default"
	}
	cfg, err := LoadProfile(profile)
	if err != nil {
		return Config{}, err
	}

	if v, ok := os.LookupEnv("TORQ_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv("TORQ_POOL_DB_PATH"); ok {
		cfg.PoolDBPath = v
	}

	if err := overrideInt(&cfg.Validation.MaxMessageSizes.MarketData, "TORQ_MAX_MESSAGE_SIZE_MARKET"); err != nil {
		return Config{}, err
	}
	if err := overrideInt(&cfg.Validation.MaxMessageSizes.Signal, "TORQ_MAX_MESSAGE_SIZE_SIGNAL"); err != nil {
		return Config{}, err
	}
	if err := overrideInt(&cfg.Validation.MaxMessageSizes.Execution, "TORQ_MAX_MESSAGE_SIZE_EXECUTION"); err != nil {
		return Config{}, err
	}
	if err := overrideDurationSeconds(&cfg.Validation.Timestamp.MaxFutureDrift, "TORQ_TIMESTAMP_MAX_DRIFT"); err != nil {
		return Config{}, err
	}
	if err := overrideUint64(&cfg.Validation.Sequence.MaxSequenceGap, "TORQ_SEQUENCE_MAX_GAP"); err != nil {
		return Config{}, err
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func overrideInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = n
	return nil
}

func overrideUint64(dst *uint64, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = n
	return nil
}

func overrideDurationSeconds(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = time.Duration(n) * time.Second
	return nil
}

// Validate checks a Config's invariants once, at startup, per spec §9.
func Validate(cfg Config) error {
	level := strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if _, ok := allowedLogLevels[level]; !ok {
		return fmt.Errorf("config: invalid log_level %q", cfg.LogLevel)
	}
	if cfg.Validation.MaxMessageSizes.MarketData <= 0 ||
		cfg.Validation.MaxMessageSizes.Signal <= 0 ||
		cfg.Validation.MaxMessageSizes.Execution <= 0 ||
		cfg.Validation.MaxMessageSizes.System <= 0 {
		return errors.New("config: message size ceilings must be > 0")
	}
	if cfg.Validation.Sequence.MaxTrackedSequences <= 0 {
		return errors.New("config: sequence.max_tracked_sequences must be > 0")
	}
	return nil
}
