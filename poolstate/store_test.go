package poolstate

import (
	"math/big"
	"sync"
	"testing"

	"torq.dev/core/identifier"
)

func testPool() [20]byte {
	var p [20]byte
	p[0] = 0xAB
	return p
}

// TestS4ConcurrentSwaps mirrors spec §8.3 S4. Both swaps carry the same
// (block, ts) tuple so the ordering check accepts them in either order.
func TestS4ConcurrentSwaps(t *testing.T) {
	s := New()
	pool := testPool()
	if err := s.Register(PoolState{
		PoolAddr:  pool,
		Reserve0:  big.NewInt(1000),
		Reserve1:  big.NewInt(240_000_000),
		LastBlock: 100,
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = s.ApplySwap(pool, big.NewInt(10), big.NewInt(-2_380_000), 0, big.NewInt(1), 101, 1)
	}()
	go func() {
		defer wg.Done()
		_ = s.ApplySwap(pool, big.NewInt(5), big.NewInt(-1_190_000), 0, big.NewInt(1), 101, 1)
	}()
	wg.Wait()

	st, ok := s.GetState(pool)
	if !ok {
		t.Fatal("pool not found")
	}
	if st.Reserve0.Cmp(big.NewInt(1015)) != 0 {
		t.Fatalf("reserve0 = %s, want 1015", st.Reserve0)
	}
	if st.Reserve1.Cmp(big.NewInt(236_430_000)) != 0 {
		t.Fatalf("reserve1 = %s, want 236430000", st.Reserve1)
	}
	if st.LastBlock != 101 {
		t.Fatalf("last_block = %d, want 101", st.LastBlock)
	}
}

func TestApplySwapRejectsStaleBlock(t *testing.T) {
	s := New()
	pool := testPool()
	if err := s.Register(PoolState{PoolAddr: pool, Reserve0: big.NewInt(0), Reserve1: big.NewInt(0), LastBlock: 200}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	err := s.ApplySwap(pool, big.NewInt(1), big.NewInt(1), 0, big.NewInt(1), 199, 1)
	if err == nil {
		t.Fatal("expected stale block rejection")
	}
	st, _ := s.GetState(pool)
	if st.LastBlock != 200 {
		t.Fatal("state should be unchanged after rejected stale write")
	}
}

func TestApplySyncOverwritesReserves(t *testing.T) {
	s := New()
	pool := testPool()
	if err := s.Register(PoolState{PoolAddr: pool, Reserve0: big.NewInt(1), Reserve1: big.NewInt(1), LastBlock: 1}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := s.ApplySync(pool, big.NewInt(500), big.NewInt(600), 2, 1); err != nil {
		t.Fatalf("ApplySync: %v", err)
	}
	st, _ := s.GetState(pool)
	if st.Reserve0.Cmp(big.NewInt(500)) != 0 || st.Reserve1.Cmp(big.NewInt(600)) != 0 {
		t.Fatalf("reserves = (%s, %s), want (500, 600)", st.Reserve0, st.Reserve1)
	}
}

func TestIterPairsFindsBothOrientations(t *testing.T) {
	s := New()
	var tokenA, tokenB [20]byte
	tokenA[0] = 1
	tokenB[0] = 2
	pool := testPool()
	if err := s.Register(PoolState{
		PoolAddr: pool, Token0: tokenA, Token1: tokenB,
		ProtocolKind: identifier.DEXUniswapV2, FeeTierBps: 30,
		Reserve0: big.NewInt(1), Reserve1: big.NewInt(1),
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if got := s.IterPairs(tokenA, tokenB); len(got) != 1 {
		t.Fatalf("got %d pools, want 1", len(got))
	}
	if got := s.IterPairs(tokenB, tokenA); len(got) != 1 {
		t.Fatalf("reversed order: got %d pools, want 1", len(got))
	}
}

func TestRegisterRejectsCombinedDecimalsOverflow(t *testing.T) {
	s := New()
	pool := testPool()
	err := s.Register(PoolState{
		PoolAddr: pool, Reserve0: big.NewInt(0), Reserve1: big.NewInt(0),
		Decimals0: 40, Decimals1: 21,
	})
	if err == nil {
		t.Fatal("expected combined-decimals-overflow rejection")
	}
	if _, ok := s.GetState(pool); ok {
		t.Fatal("pool should not be registered after a rejected Register")
	}
}

func TestRegisterAcceptsDecimalsAtLimit(t *testing.T) {
	s := New()
	pool := testPool()
	err := s.Register(PoolState{
		PoolAddr: pool, Reserve0: big.NewInt(0), Reserve1: big.NewInt(0),
		Decimals0: 30, Decimals1: 30,
	})
	if err != nil {
		t.Fatalf("Register at the 60 limit should succeed: %v", err)
	}
}

func TestUnknownPoolRejected(t *testing.T) {
	s := New()
	pool := testPool()
	if err := s.ApplySwap(pool, big.NewInt(1), big.NewInt(1), 0, big.NewInt(1), 1, 1); err == nil {
		t.Fatal("expected unknown pool error")
	}
}
