package poolcache

import "fmt"

// DiscoveryError wraps a failed discovery attempt. It is always non-fatal
// to the caller (spec §4.8 "Failure modes"): the pool stays unknown and
// downstream events are tagged un-enriched.
type DiscoveryError struct {
	Pool    [20]byte
	Attempt int
	Err     error
}

func (e *DiscoveryError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("poolcache: discovery failed for pool %x on attempt %d: %v", e.Pool, e.Attempt, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

func errDiscovery(pool [20]byte, attempt int, err error) error {
	return &DiscoveryError{Pool: pool, Attempt: attempt, Err: err}
}
