package poolstate

import (
	"math/big"
	"sync"

	"torq.dev/core/identifier"
)

// PoolState is the current known on-chain state of one DEX pool (spec §4.7,
// §3.6's `PoolState.protocol_kind`/`fee_tier` fields per the supplemented
// DEXProtocol/AMMVariant taxonomy in identifier.DEXProtocol).
type PoolState struct {
	PoolAddr     [20]byte
	Token0       [20]byte
	Token1       [20]byte
	ProtocolKind identifier.DEXProtocol
	FeeTierBps   uint32

	// Decimals0/Decimals1 are bootstrapped from poolcache.PoolInfo at
	// registration time (spec §3.6's PoolState fields); the cross-cutting
	// invariant Decimals0+Decimals1 <= 60 is enforced in Register.
	Decimals0 uint8
	Decimals1 uint8

	Reserve0     *big.Int
	Reserve1     *big.Int
	Tick         int32
	SqrtPriceX96 *big.Int

	LastBlock uint64
	LastTsNs  uint64
}

// MaxCombinedDecimals is the spec §3.6 ceiling on Decimals0+Decimals1.
const MaxCombinedDecimals = 60

func (p PoolState) clone() PoolState {
	c := p
	c.Reserve0 = new(big.Int).Set(p.Reserve0)
	c.Reserve1 = new(big.Int).Set(p.Reserve1)
	if p.SqrtPriceX96 != nil {
		c.SqrtPriceX96 = new(big.Int).Set(p.SqrtPriceX96)
	}
	return c
}

type poolEntry struct {
	mu    sync.RWMutex
	state PoolState
}

type pairKey struct {
	tokenA, tokenB [20]byte
	protocol       identifier.DEXProtocol
	feeTierBps     uint32
}

func newPairKey(a, b [20]byte, protocol identifier.DEXProtocol, feeTierBps uint32) pairKey {
	if string(a[:]) > string(b[:]) {
		a, b = b, a
	}
	return pairKey{tokenA: a, tokenB: b, protocol: protocol, feeTierBps: feeTierBps}
}

// Store is the in-memory per-pool state table (spec §4.7). Writes are
// serialized per pool (each poolEntry has its own RWMutex, taken in write
// mode); reads take the same lock in read mode and receive a deep-cloned
// snapshot, so readers never observe a torn write.
type Store struct {
	mu    sync.RWMutex
	pools map[[20]byte]*poolEntry

	pairMu sync.RWMutex
	pairs  map[pairKey]map[[20]byte]struct{}
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		pools: make(map[[20]byte]*poolEntry),
		pairs: make(map[pairKey]map[[20]byte]struct{}),
	}
}

// Register bootstraps a pool's identity (spec §4.7 "Persistence" —
// identity/decimals come from the pool-metadata cache, reserves from a
// startup snapshot). Re-registering an already-known pool is a no-op so
// snapshot replay is idempotent. Rejects a combined decimals count over
// MaxCombinedDecimals (spec §3.6) rather than silently registering a pool
// that violates the invariant.
func (s *Store) Register(initial PoolState) error {
	if total := int(initial.Decimals0) + int(initial.Decimals1); total > MaxCombinedDecimals {
		return errDecimalsOverflow(initial.PoolAddr, initial.Decimals0, initial.Decimals1)
	}

	s.mu.Lock()
	_, exists := s.pools[initial.PoolAddr]
	if !exists {
		if initial.Reserve0 == nil {
			initial.Reserve0 = new(big.Int)
		}
		if initial.Reserve1 == nil {
			initial.Reserve1 = new(big.Int)
		}
		s.pools[initial.PoolAddr] = &poolEntry{state: initial.clone()}
	}
	s.mu.Unlock()
	if !exists {
		s.indexPair(initial)
	}
	return nil
}

func (s *Store) indexPair(p PoolState) {
	key := newPairKey(p.Token0, p.Token1, p.ProtocolKind, p.FeeTierBps)
	s.pairMu.Lock()
	set, ok := s.pairs[key]
	if !ok {
		set = make(map[[20]byte]struct{})
		s.pairs[key] = set
	}
	set[p.PoolAddr] = struct{}{}
	s.pairMu.Unlock()
}

func (s *Store) entry(pool [20]byte) (*poolEntry, bool) {
	s.mu.RLock()
	e, ok := s.pools[pool]
	s.mu.RUnlock()
	return e, ok
}

// checkOrder enforces the block-order monotonicity invariant (spec §4.7,
// §8.1 invariant 7): (block, tsNs) must be >= the entry's stored
// (LastBlock, LastTsNs), compared as a tuple.
func checkOrder(e *poolEntry, pool [20]byte, block, tsNs uint64) error {
	if block < e.state.LastBlock {
		return errStaleBlock(pool, block, e.state.LastBlock)
	}
	if block == e.state.LastBlock && tsNs < e.state.LastTsNs {
		return errStaleBlock(pool, block, e.state.LastBlock)
	}
	return nil
}

// ApplySwap adjusts reserves by signed deltas and records tick/sqrt_price
// (spec §4.7's `apply_swap`). Must be applied in block order per pool.
func (s *Store) ApplySwap(pool [20]byte, amount0Delta, amount1Delta *big.Int, tick int32, sqrtPrice *big.Int, block, tsNs uint64) error {
	e, ok := s.entry(pool)
	if !ok {
		return errUnknownPool(pool)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := checkOrder(e, pool, block, tsNs); err != nil {
		return err
	}
	e.state.Reserve0.Add(e.state.Reserve0, amount0Delta)
	e.state.Reserve1.Add(e.state.Reserve1, amount1Delta)
	e.state.Tick = tick
	e.state.SqrtPriceX96 = new(big.Int).Set(sqrtPrice)
	e.state.LastBlock = block
	e.state.LastTsNs = tsNs
	return nil
}

// ApplySync absolutely overwrites V2-style reserves (spec §4.7's
// `apply_sync`). Must be >= the stored last_block.
func (s *Store) ApplySync(pool [20]byte, reserve0, reserve1 *big.Int, block, tsNs uint64) error {
	e, ok := s.entry(pool)
	if !ok {
		return errUnknownPool(pool)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := checkOrder(e, pool, block, tsNs); err != nil {
		return err
	}
	e.state.Reserve0 = new(big.Int).Set(reserve0)
	e.state.Reserve1 = new(big.Int).Set(reserve1)
	e.state.LastBlock = block
	e.state.LastTsNs = tsNs
	return nil
}

// ApplyMintBurn adjusts reserves for a mint (positive amounts) or burn
// (negative amounts) event (spec §4.7's `apply_mint/burn`).
func (s *Store) ApplyMintBurn(pool [20]byte, amount0, amount1 *big.Int, block, tsNs uint64) error {
	e, ok := s.entry(pool)
	if !ok {
		return errUnknownPool(pool)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := checkOrder(e, pool, block, tsNs); err != nil {
		return err
	}
	e.state.Reserve0.Add(e.state.Reserve0, amount0)
	e.state.Reserve1.Add(e.state.Reserve1, amount1)
	e.state.LastBlock = block
	e.state.LastTsNs = tsNs
	return nil
}

// GetState returns a cloned snapshot of a pool's current state (spec
// §4.7's `get_state`), consistent within this one call.
func (s *Store) GetState(pool [20]byte) (PoolState, bool) {
	e, ok := s.entry(pool)
	if !ok {
		return PoolState{}, false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.clone(), true
}

// IterPairs enumerates every pool pricing the (tokenA, tokenB) pair across
// all protocols/fee tiers (spec §4.7's `iter_pairs`, secondary index keyed
// on (token0, token1, protocol_kind, fee_tier)).
func (s *Store) IterPairs(tokenA, tokenB [20]byte) []PoolState {
	var out []PoolState
	s.pairMu.RLock()
	var addrs [][20]byte
	for key, set := range s.pairs {
		if (key.tokenA == tokenA && key.tokenB == tokenB) || (key.tokenA == tokenB && key.tokenB == tokenA) {
			for addr := range set {
				addrs = append(addrs, addr)
			}
		}
	}
	s.pairMu.RUnlock()

	for _, addr := range addrs {
		if st, ok := s.GetState(addr); ok {
			out = append(out, st)
		}
	}
	return out
}
