package poolcache

import (
	"context"
	"math"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// DiscoveryBackend is the injected seam for an on-chain RPC lookup (spec
// §4 Non-goals: "no blockchain RPC client implementation" — this is the
// interface a real client plugs into; tests use a deterministic fake).
type DiscoveryBackend interface {
	Discover(ctx context.Context, pool [20]byte) (PoolInfo, error)
}

const (
	maxDiscoveryRetries  = 5
	backoffBase          = 100 * time.Millisecond
	backoffMax           = 10 * time.Second
)

// discoveryWorker runs discovery calls behind a rate limiter and circuit
// breaker, retrying with exponential backoff (spec §4.8 "Design rules").
// Each lookup is its own backend call; calls are not batched.
type discoveryWorker struct {
	backend DiscoveryBackend
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[PoolInfo]
}

func newDiscoveryWorker(backend DiscoveryBackend, maxConcurrentRPCs int, rpcTimeout time.Duration) *discoveryWorker {
	limiter := rate.NewLimiter(rate.Limit(maxConcurrentRPCs), maxConcurrentRPCs)
	breaker := gobreaker.NewCircuitBreaker[PoolInfo](gobreaker.Settings{
		Name:        "poolcache-discovery",
		MaxRequests: uint32(maxConcurrentRPCs),
		Timeout:     rpcTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &discoveryWorker{backend: backend, limiter: limiter, breaker: breaker}
}

// discover runs the backend call through the rate limiter and circuit
// breaker, retrying on failure with exponential backoff up to
// maxDiscoveryRetries (spec §4.8).
func (w *discoveryWorker) discover(ctx context.Context, pool [20]byte) (PoolInfo, error) {
	var lastErr error
	for attempt := 0; attempt < maxDiscoveryRetries; attempt++ {
		if err := w.limiter.Wait(ctx); err != nil {
			return PoolInfo{}, errDiscovery(pool, attempt, err)
		}
		result, err := w.breaker.Execute(func() (PoolInfo, error) {
			return w.backend.Discover(ctx, pool)
		})
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == maxDiscoveryRetries-1 {
			break
		}
		delay := backoffBase * time.Duration(math.Pow(2, float64(attempt)))
		if delay > backoffMax {
			delay = backoffMax
		}
		select {
		case <-ctx.Done():
			return PoolInfo{}, errDiscovery(pool, attempt, ctx.Err())
		case <-time.After(delay):
		}
	}
	return PoolInfo{}, errDiscovery(pool, maxDiscoveryRetries, lastErr)
}
