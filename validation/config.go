// Package validation implements the Protocol V2 validator (spec §4.4): a
// ValidationConfig-parameterized pipeline that turns raw wire bytes into a
// ValidatedMessage, applying per-domain policy for checksum, timestamp
// bounds, and sequence enforcement.
package validation

import (
	"time"

	"torq.dev/core/wire"
)

// DomainMessageLimits caps message size per relay domain, overriding the
// codec-wide wire.MaxPayloadSize with tighter per-domain envelopes (spec §6.4).
type DomainMessageLimits struct {
	MarketData int
	Signal     int
	Execution  int
	System     int
}

// TimestampConfig bounds how far header.timestamp_ns may drift from the
// validator's clock (spec §4.4).
type TimestampConfig struct {
	MaxFutureDrift    time.Duration
	MaxAge            time.Duration
	EnforceValidation bool
}

// SequenceConfig parameterizes sequence.Tracker (spec §4.5).
type SequenceConfig struct {
	MaxSequenceGap      uint64
	EnforceMonotonic    bool
	DuplicateWindow     time.Duration
	MaxTrackedSequences int
}

// PoolDiscoveryConfig parameterizes poolcache's discovery worker (spec §4.8).
type PoolDiscoveryConfig struct {
	MaxQueueSize      int
	RPCTimeout        time.Duration
	MaxConcurrentRPCs int
	CacheTTL          time.Duration
	Enabled           bool
}

// ValidationConfig is the full parameterization of the validator, covering
// every domain and the pool discovery subsystem it shares defaults with.
type ValidationConfig struct {
	MaxMessageSizes DomainMessageLimits
	Timestamp       TimestampConfig
	Sequence        SequenceConfig
	PoolDiscovery   PoolDiscoveryConfig
}

// Default mirrors the balanced defaults used for a bare development box
// that has not selected production() or development() explicitly.
func Default() ValidationConfig {
	return ValidationConfig{
		MaxMessageSizes: DomainMessageLimits{
			MarketData: 4096,
			Signal:     8192,
			Execution:  16384,
			System:     32768,
		},
		Timestamp: TimestampConfig{
			MaxFutureDrift:    5 * time.Second,
			MaxAge:            60 * time.Second,
			EnforceValidation: true,
		},
		Sequence: SequenceConfig{
			MaxSequenceGap:      100,
			EnforceMonotonic:    true,
			DuplicateWindow:     300 * time.Second,
			MaxTrackedSequences: 10000,
		},
		PoolDiscovery: PoolDiscoveryConfig{
			MaxQueueSize:      1000,
			RPCTimeout:        5 * time.Second,
			MaxConcurrentRPCs: 10,
			CacheTTL:          time.Hour,
			Enabled:           true,
		},
	}
}

// Production returns stricter limits suited to a live deployment: smaller
// messages, tighter clock tolerance, tighter sequence gap tolerance.
func Production() ValidationConfig {
	return ValidationConfig{
		MaxMessageSizes: DomainMessageLimits{
			MarketData: 2048,
			Signal:     4096,
			Execution:  8192,
			System:     16384,
		},
		Timestamp: TimestampConfig{
			MaxFutureDrift:    2 * time.Second,
			MaxAge:            30 * time.Second,
			EnforceValidation: true,
		},
		Sequence: SequenceConfig{
			MaxSequenceGap:      50,
			EnforceMonotonic:    true,
			DuplicateWindow:     600 * time.Second,
			MaxTrackedSequences: 50000,
		},
		PoolDiscovery: PoolDiscoveryConfig{
			MaxQueueSize:      5000,
			RPCTimeout:        3 * time.Second,
			MaxConcurrentRPCs: 20,
			CacheTTL:          2 * time.Hour,
			Enabled:           true,
		},
	}
}

// Development relaxes every bound for local iteration, including turning
// off timestamp and sequence monotonicity enforcement entirely.
func Development() ValidationConfig {
	return ValidationConfig{
		MaxMessageSizes: DomainMessageLimits{
			MarketData: 8192,
			Signal:     16384,
			Execution:  32768,
			System:     65536,
		},
		Timestamp: TimestampConfig{
			MaxFutureDrift:    30 * time.Second,
			MaxAge:            300 * time.Second,
			EnforceValidation: false,
		},
		Sequence: SequenceConfig{
			MaxSequenceGap:      1000,
			EnforceMonotonic:    false,
			DuplicateWindow:     60 * time.Second,
			MaxTrackedSequences: 1000,
		},
		PoolDiscovery: PoolDiscoveryConfig{
			MaxQueueSize:      100,
			RPCTimeout:        10 * time.Second,
			MaxConcurrentRPCs: 5,
			CacheTTL:          600 * time.Second,
			Enabled:           true,
		},
	}
}

// LimitFor returns the configured message-size cap for a domain.
func (c ValidationConfig) LimitFor(d wire.RelayDomain) int {
	switch d {
	case wire.DomainMarketData:
		return c.MaxMessageSizes.MarketData
	case wire.DomainSignal:
		return c.MaxMessageSizes.Signal
	case wire.DomainExecution:
		return c.MaxMessageSizes.Execution
	case wire.DomainSystem:
		return c.MaxMessageSizes.System
	default:
		return 0
	}
}
