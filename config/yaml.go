package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// fileOverride is the subset of Config a deployment may override from a
// YAML file, for environments that prefer a checked-in file over bare env
// vars (spec §6.4; grounded on orbas1-Synnergy's yaml.v3 config loading).
// Fields are pointers so an absent key in the file leaves the profile's
// value untouched.
type fileOverride struct {
	LogLevel   *string `yaml:"log_level"`
	PoolDBPath *string `yaml:"pool_db_path"`

	MaxMessageSizeMarket    *int `yaml:"max_message_size_market"`
	MaxMessageSizeSignal    *int `yaml:"max_message_size_signal"`
	MaxMessageSizeExecution *int `yaml:"max_message_size_execution"`
	SequenceMaxGap          *uint64 `yaml:"sequence_max_gap"`
}

// ApplyYAMLFile layers a YAML override file onto an already-resolved
// Config (typically the output of FromEnv), re-validating afterward.
func ApplyYAMLFile(cfg Config, path string) (Config, error) {
	data, err := safeReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read override file: %w", err)
	}
	var ov fileOverride
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return Config{}, fmt.Errorf("config: parse override file: %w", err)
	}

	if ov.LogLevel != nil {
		cfg.LogLevel = *ov.LogLevel
	}
	if ov.PoolDBPath != nil {
		cfg.PoolDBPath = *ov.PoolDBPath
	}
	if ov.MaxMessageSizeMarket != nil {
		cfg.Validation.MaxMessageSizes.MarketData = *ov.MaxMessageSizeMarket
	}
	if ov.MaxMessageSizeSignal != nil {
		cfg.Validation.MaxMessageSizes.Signal = *ov.MaxMessageSizeSignal
	}
	if ov.MaxMessageSizeExecution != nil {
		cfg.Validation.MaxMessageSizes.Execution = *ov.MaxMessageSizeExecution
	}
	if ov.SequenceMaxGap != nil {
		cfg.Validation.Sequence.MaxSequenceGap = *ov.SequenceMaxGap
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
