package wire

import "sync"

// Three pre-sized buffer tiers (spec §4.2, §5 "Validation buffers"): hot
// path messages stay under 128 bytes, signal-domain messages under 1 KiB,
// and validation/execution-domain messages under 64 KiB. Allocation only
// occurs on cold start or tier overflow (spec §8.1 "No-alloc steady state"),
// mirrored here with sync.Pool instead of the teacher's thread-local
// scratch buffers since Go's goroutine model has no thread-local storage.
const (
	TierHot        = 128
	TierSignal     = 1024
	TierValidation = 65536
)

var (
	hotPool = sync.Pool{New: func() any { b := make([]byte, 0, TierHot); return &b }}
	sigPool = sync.Pool{New: func() any { b := make([]byte, 0, TierSignal); return &b }}
	valPool = sync.Pool{New: func() any { b := make([]byte, 0, TierValidation); return &b }}
)

// AcquireBuffer returns a zero-length buffer with at least minCap capacity
// from the smallest tier that fits, or a fresh allocation if minCap exceeds
// every tier.
func AcquireBuffer(minCap int) []byte {
	switch {
	case minCap <= TierHot:
		b := hotPool.Get().(*[]byte)
		return (*b)[:0]
	case minCap <= TierSignal:
		b := sigPool.Get().(*[]byte)
		return (*b)[:0]
	case minCap <= TierValidation:
		b := valPool.Get().(*[]byte)
		return (*b)[:0]
	default:
		return make([]byte, 0, minCap)
	}
}

// ReleaseBuffer returns buf to its tier's pool. Buffers whose capacity
// doesn't exactly match a tier (e.g. cold-path allocations) are dropped.
func ReleaseBuffer(buf []byte) {
	c := cap(buf)
	b := buf[:0]
	switch c {
	case TierHot:
		hotPool.Put(&b)
	case TierSignal:
		sigPool.Put(&b)
	case TierValidation:
		valPool.Put(&b)
	default:
		// Not pool-owned; let the GC reclaim it.
	}
}
