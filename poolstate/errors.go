// Package poolstate implements the in-memory pool-state store (spec §4.7):
// current reserves/tick/sqrt_price per DEX pool, with per-pool single-writer
// serialization and a block-ordered monotonicity invariant.
package poolstate

import "fmt"

// StateError covers write-ordering violations: a mutation that would move
// a pool's (last_block, last_ts_ns) backwards is rejected, logged, and the
// existing state preserved (spec §7, §4.7 "Consistency rule").
type StateError struct {
	Kind        string
	Pool        [20]byte
	IncomingBlock, StoredBlock uint64
	Decimals0, Decimals1 uint8
}

func (e *StateError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case "StaleBlock":
		return fmt.Sprintf("poolstate: stale mutation for pool %x: incoming block %d <= stored block %d", e.Pool, e.IncomingBlock, e.StoredBlock)
	case "UnknownPool":
		return fmt.Sprintf("poolstate: unknown pool %x", e.Pool)
	case "DecimalsOverflow":
		return fmt.Sprintf("poolstate: pool %x combined decimals %d+%d exceeds %d", e.Pool, e.Decimals0, e.Decimals1, MaxCombinedDecimals)
	default:
		return fmt.Sprintf("poolstate: %s", e.Kind)
	}
}

func errStaleBlock(pool [20]byte, incoming, stored uint64) error {
	return &StateError{Kind: "StaleBlock", Pool: pool, IncomingBlock: incoming, StoredBlock: stored}
}
func errUnknownPool(pool [20]byte) error {
	return &StateError{Kind: "UnknownPool", Pool: pool}
}
func errDecimalsOverflow(pool [20]byte, d0, d1 uint8) error {
	return &StateError{Kind: "DecimalsOverflow", Pool: pool, Decimals0: d0, Decimals1: d1}
}
