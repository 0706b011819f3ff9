// Package trace implements trace-id propagation and span aggregation
// (spec §4.10). It is not a hot-path concern: a dedicated collector
// subscribes to all relays and aggregates spans keyed by trace-id for a
// query API, separate from the wire codec's hot path.
package trace

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/google/uuid"

	"torq.dev/core/wire"
)

// TraceID is the optional 8-byte identifier a message may carry, as a
// System-domain TraceSpan TLV (registry type 83) or by a source's own
// convention (spec §4.10).
type TraceID [8]byte

// SpanID uniquely identifies one hop's contribution to a trace.
type SpanID [8]byte

// Span is one observed hop of a trace: a (source, sequence) pair seen by
// the collector, with the domain and header timestamp it carried.
type Span struct {
	TraceID     TraceID
	SpanID      SpanID
	Domain      wire.RelayDomain
	Source      wire.SourceType
	Sequence    uint64
	TimestampNs uint64
	Label       string
}

// NewTraceID mints a fresh trace-id at the point a message first enters
// the system (e.g. a collector emitting a new Trade). Producers that
// already carry a venue-native trace/correlation id should prefer that
// over minting one; this is the fallback generator (spec §4.10, grounded
// on the supplemented DOMAIN STACK's google/uuid wiring).
func NewTraceID() TraceID {
	u := uuid.New()
	var id TraceID
	copy(id[:], u[:8])
	return id
}

// DeriveSpanID computes a span-id deterministically from a trace-id plus
// the (source, sequence) pair that produced this hop, so replaying the
// same message always yields the same span-id. Uses SHA3-256 truncated to
// 8 bytes (re-homed from crypto.DevStdCryptoProvider's SHA3_256 use, which
// in the teacher is reserved for ML-DSA/SLH-DSA verification — a concept
// with no place in this spec's scope).
func DeriveSpanID(id TraceID, source wire.SourceType, sequence uint64) SpanID {
	var buf [18]byte
	copy(buf[0:8], id[:])
	binary.LittleEndian.PutUint16(buf[8:10], uint16(source))
	binary.LittleEndian.PutUint64(buf[10:18], sequence)

	h := sha3.New256()
	_, _ = h.Write(buf[:])
	sum := h.Sum(nil)

	var out SpanID
	copy(out[:], sum[:8])
	return out
}
