// Package sequence implements the per-source monotonic sequence tracker
// (spec §4.5): gap/duplicate/stale classification against a bounded window
// of recently seen sequence numbers.
package sequence

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"torq.dev/core/validation"
	"torq.dev/core/wire"
)

// Classification is the outcome of classifying an incoming sequence number
// against a source's tracked state.
type Classification int

const (
	Accepted Classification = iota
	AcceptedGap
	RejectedGapTooLarge
	RejectedDuplicate
	RejectedStale
)

func (c Classification) String() string {
	switch c {
	case Accepted:
		return "Accepted"
	case AcceptedGap:
		return "AcceptedGap"
	case RejectedGapTooLarge:
		return "RejectedGapTooLarge"
	case RejectedDuplicate:
		return "RejectedDuplicate"
	case RejectedStale:
		return "RejectedStale"
	default:
		return "Unknown"
	}
}

// Result carries the classification plus, for AcceptedGap, the sequence
// numbers that were skipped (spec §8.3 S3: `SequenceGap{missing: [12, 13]}`).
type Result struct {
	Classification Classification
	Missing        []uint64
}

// Accept reports whether the classification should be treated as received
// (Accepted or AcceptedGap); both advance the tracker's state.
func (r Result) Accept() bool {
	return r.Classification == Accepted || r.Classification == AcceptedGap
}

type sourceState struct {
	lastAccepted uint64
	hasLast      bool
	window       *lru.Cache[uint64, struct{}]
}

// Tracker holds per-source sequence state for every producer seen so far.
type Tracker struct {
	mu     sync.Mutex
	cfg    validation.SequenceConfig
	states map[wire.SourceType]*sourceState
}

// New returns a Tracker parameterized by the sequence validation config.
func New(cfg validation.SequenceConfig) *Tracker {
	return &Tracker{cfg: cfg, states: make(map[wire.SourceType]*sourceState)}
}

func (t *Tracker) stateFor(source wire.SourceType) *sourceState {
	st, ok := t.states[source]
	if ok {
		return st
	}
	size := t.cfg.MaxTrackedSequences
	if size <= 0 {
		size = 1
	}
	window, _ := lru.New[uint64, struct{}](size)
	st = &sourceState{window: window}
	t.states[source] = st
	return st
}

// Classify evaluates seq for source against its tracked state, per the
// classification rules in spec §4.5:
//
//	s == last + 1              -> Accepted
//	last < s <= last + G        -> AcceptedGap (missing = (last, s))
//	s > last + G                -> RejectedGapTooLarge
//	s <= last, in window         -> RejectedDuplicate
//	s <= last, not in window      -> RejectedStale
//
// A first-ever sequence from a source is always Accepted and seeds state.
// The u64::MAX -> 0 wrap (spec §8.2) is handled for free: Go's wraparound
// uint64 arithmetic makes last+1 equal 0 when last is u64::MAX, so that
// transition falls naturally into the `s == last+1` Accepted case rather
// than needing a special case.
func (t *Tracker) Classify(source wire.SourceType, seq uint64) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := t.stateFor(source)
	if !st.hasLast {
		st.hasLast = true
		st.lastAccepted = seq
		st.window.Add(seq, struct{}{})
		return Result{Classification: Accepted}
	}

	if !t.cfg.EnforceMonotonic {
		// Development profile (spec's EnforceMonotonic=false): every
		// sequence is accepted and still recorded, so a later switch
		// back to strict enforcement resumes from a consistent state.
		st.lastAccepted = seq
		st.window.Add(seq, struct{}{})
		return Result{Classification: Accepted}
	}

	last := st.lastAccepted
	gap := t.cfg.MaxSequenceGap

	if seq == last+1 {
		st.lastAccepted = seq
		st.window.Add(seq, struct{}{})
		return Result{Classification: Accepted}
	}

	if last < seq && seq <= last+gap {
		missing := make([]uint64, 0, seq-last-1)
		for m := last + 1; m < seq; m++ {
			missing = append(missing, m)
		}
		st.lastAccepted = seq
		st.window.Add(seq, struct{}{})
		return Result{Classification: AcceptedGap, Missing: missing}
	}

	if seq > last+gap {
		return Result{Classification: RejectedGapTooLarge}
	}

	// seq <= last: stale or duplicate.
	if st.window.Contains(seq) {
		return Result{Classification: RejectedDuplicate}
	}
	return Result{Classification: RejectedStale}
}

// Reset clears tracked state for source, to be called when a
// StateInvalidation message (TLV type 22) arrives from that source (spec
// §4.5 "On explicit StateInvalidation ... the tracker resets").
func (t *Tracker) Reset(source wire.SourceType) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.states, source)
}

// LastAccepted returns the last accepted sequence for source and whether
// any sequence has been accepted yet.
func (t *Tracker) LastAccepted(source wire.SourceType) (uint64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.states[source]
	if !ok {
		return 0, false
	}
	return st.lastAccepted, st.hasLast
}
