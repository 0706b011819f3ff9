package sequence

import (
	"math"
	"testing"

	"torq.dev/core/validation"
	"torq.dev/core/wire"
)

func TestS3SequenceGapTolerance(t *testing.T) {
	cfg := validation.SequenceConfig{MaxSequenceGap: 10, EnforceMonotonic: true, MaxTrackedSequences: 1000}
	tr := New(cfg)
	src := wire.SourceKrakenCollector

	if r := tr.Classify(src, 10); r.Classification != Accepted {
		t.Fatalf("10: got %v", r.Classification)
	}
	if r := tr.Classify(src, 11); r.Classification != Accepted {
		t.Fatalf("11: got %v", r.Classification)
	}
	r := tr.Classify(src, 14)
	if r.Classification != AcceptedGap {
		t.Fatalf("14: got %v", r.Classification)
	}
	if len(r.Missing) != 2 || r.Missing[0] != 12 || r.Missing[1] != 13 {
		t.Fatalf("missing = %v, want [12 13]", r.Missing)
	}
	if r := tr.Classify(src, 15); r.Classification != Accepted {
		t.Fatalf("15: got %v", r.Classification)
	}
	if r := tr.Classify(src, 5); r.Classification != RejectedStale {
		t.Fatalf("5: got %v", r.Classification)
	}
}

func TestGapTooLarge(t *testing.T) {
	cfg := validation.SequenceConfig{MaxSequenceGap: 5, EnforceMonotonic: true, MaxTrackedSequences: 100}
	tr := New(cfg)
	src := wire.SourceKrakenCollector
	tr.Classify(src, 1)
	if r := tr.Classify(src, 10); r.Classification != RejectedGapTooLarge {
		t.Fatalf("got %v", r.Classification)
	}
}

func TestDuplicateWithinWindow(t *testing.T) {
	cfg := validation.SequenceConfig{MaxSequenceGap: 10, EnforceMonotonic: true, MaxTrackedSequences: 100}
	tr := New(cfg)
	src := wire.SourceKrakenCollector
	tr.Classify(src, 1)
	tr.Classify(src, 2)
	tr.Classify(src, 3)
	if r := tr.Classify(src, 2); r.Classification != RejectedDuplicate {
		t.Fatalf("got %v", r.Classification)
	}
}

func TestSequenceWrapIsAcceptedNotDuplicate(t *testing.T) {
	cfg := validation.SequenceConfig{MaxSequenceGap: 10, EnforceMonotonic: true, MaxTrackedSequences: 100}
	tr := New(cfg)
	src := wire.SourceKrakenCollector
	tr.Classify(src, math.MaxUint64)
	if r := tr.Classify(src, 0); r.Classification != Accepted {
		t.Fatalf("wrap from MaxUint64 to 0: got %v, want Accepted", r.Classification)
	}
}

// TestEnforceMonotonicFalseAcceptsOutOfOrder pins the Development profile's
// documented relaxation (validation.Development()'s EnforceMonotonic:false):
// gaps and rewinds that would otherwise be rejected are accepted instead.
func TestEnforceMonotonicFalseAcceptsOutOfOrder(t *testing.T) {
	cfg := validation.SequenceConfig{MaxSequenceGap: 2, EnforceMonotonic: false, MaxTrackedSequences: 100}
	tr := New(cfg)
	src := wire.SourceKrakenCollector

	tr.Classify(src, 1)
	if r := tr.Classify(src, 500); r.Classification != Accepted {
		t.Fatalf("gap far beyond MaxSequenceGap: got %v, want Accepted", r.Classification)
	}
	if r := tr.Classify(src, 1); r.Classification != Accepted {
		t.Fatalf("rewind to an already-seen sequence: got %v, want Accepted", r.Classification)
	}
}

func TestResetClearsState(t *testing.T) {
	cfg := validation.SequenceConfig{MaxSequenceGap: 10, EnforceMonotonic: true, MaxTrackedSequences: 100}
	tr := New(cfg)
	src := wire.SourceKrakenCollector
	tr.Classify(src, 50)
	tr.Reset(src)
	if _, ok := tr.LastAccepted(src); ok {
		t.Fatal("expected state cleared after Reset")
	}
	if r := tr.Classify(src, 1); r.Classification != Accepted {
		t.Fatalf("first sequence after reset should be Accepted, got %v", r.Classification)
	}
}
