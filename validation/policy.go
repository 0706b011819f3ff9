package validation

import "torq.dev/core/wire"

// SequenceEnforcement describes how strictly a domain treats gaps and
// out-of-order sequences (spec §4.4 "Sequence monotonicity" row). The
// validator itself stays stateless; relay glue code consults this to decide
// how to react to a sequence.Tracker classification for a given domain.
type SequenceEnforcement int

const (
	SequenceAdvisory SequenceEnforcement = iota
	SequenceRequired
	SequenceRequiredAudit
)

// SemanticDepth describes how deeply TLV payload contents are shape-checked
// (spec §4.4 "TLV payload semantic shape" row, and §4.9 for Execution).
type SemanticDepth int

const (
	SemanticMinimal SemanticDepth = iota
	SemanticStructural
	SemanticFull
)

// Policy is the per-domain validation policy (spec §4.4's table).
type Policy struct {
	ChecksumRequired    bool
	TimestampBounds     bool
	SequenceEnforcement SequenceEnforcement
	Semantic            SemanticDepth
}

// PolicyFor returns the fixed per-domain policy (spec §3.3's table).
// Throughput-sensitive MarketData trades completeness for speed
// (checksum/timestamp optional, sequence gaps merely advisory); Signal and
// Execution both require checksum/timestamp/sequence, Execution additionally
// auditing sequence breaks since money moves on it. System carries
// heartbeats and control messages and gets the spec's "minimal validation":
// no checksum or timestamp requirement and advisory sequence enforcement,
// the same profile as MarketData, including minimal (length-only) TLV
// shape checking.
func PolicyFor(d wire.RelayDomain) Policy {
	switch d {
	case wire.DomainMarketData:
		return Policy{
			ChecksumRequired:    false,
			TimestampBounds:     false,
			SequenceEnforcement: SequenceAdvisory,
			Semantic:            SemanticMinimal,
		}
	case wire.DomainSignal:
		return Policy{
			ChecksumRequired:    true,
			TimestampBounds:     true,
			SequenceEnforcement: SequenceRequired,
			Semantic:            SemanticStructural,
		}
	case wire.DomainExecution:
		return Policy{
			ChecksumRequired:    true,
			TimestampBounds:     true,
			SequenceEnforcement: SequenceRequiredAudit,
			Semantic:            SemanticFull,
		}
	case wire.DomainSystem:
		return Policy{
			ChecksumRequired:    false,
			TimestampBounds:     false,
			SequenceEnforcement: SequenceAdvisory,
			Semantic:            SemanticMinimal,
		}
	default:
		return Policy{}
	}
}
