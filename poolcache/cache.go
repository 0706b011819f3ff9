package poolcache

import (
	"context"
	"fmt"
	"sync"

	bolt "go.etcd.io/bbolt"

	"torq.dev/core/validation"
)

// bucketPoolInfo is the root bucket; each chain_id gets its own nested
// bucket inside it (spec §6.3's "JSON file per chain, versioned with
// chain_id" — here, one bbolt bucket per chain inside one database file
// rather than one file per chain; see DESIGN.md for the full rationale).
var bucketPoolInfo = []byte("pool_info")

func chainBucketKey(chainID uint32) []byte {
	return []byte(fmt.Sprintf("chain_%d", chainID))
}

func chainBucket(tx *bolt.Tx, chainID uint32) (*bolt.Bucket, error) {
	root := tx.Bucket(bucketPoolInfo)
	return root.CreateBucketIfNotExists(chainBucketKey(chainID))
}

// Cache is the pool-metadata cache (spec §4.8): a concurrent map for the
// hot `Get` path, a background discoveryWorker, and a bbolt-backed snapshot
// for `Save`/`Load`.
type Cache struct {
	mu      sync.RWMutex
	entries map[[20]byte]PoolInfo

	inflightMu sync.Mutex
	inflight   map[[20]byte][]chan discoveryResult

	worker *discoveryWorker
	db     *bolt.DB
	cfg    validation.PoolDiscoveryConfig
}

// New returns a Cache. dbPath may be empty to run purely in-memory (tests).
func New(cfg validation.PoolDiscoveryConfig, backend DiscoveryBackend, dbPath string) (*Cache, error) {
	c := &Cache{
		entries:  make(map[[20]byte]PoolInfo),
		inflight: make(map[[20]byte][]chan discoveryResult),
		worker:   newDiscoveryWorker(backend, cfg.MaxConcurrentRPCs, cfg.RPCTimeout),
		cfg:      cfg,
	}
	if dbPath != "" {
		db, err := bolt.Open(dbPath, 0o600, nil)
		if err != nil {
			return nil, fmt.Errorf("poolcache: open bbolt: %w", err)
		}
		if err := db.Update(func(tx *bolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(bucketPoolInfo)
			return err
		}); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("poolcache: create bucket: %w", err)
		}
		c.db = db
	}
	return c, nil
}

func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Get is the non-blocking hot-path lookup (spec §4.8): a miss returns
// ok=false immediately and queues a background discovery, never stalling
// the caller.
func (c *Cache) Get(pool [20]byte) (PoolInfo, bool) {
	c.mu.RLock()
	info, ok := c.entries[pool]
	c.mu.RUnlock()
	if !ok {
		go func() { _, _ = c.GetOrDiscover(context.Background(), pool) }()
	}
	return info, ok
}

// discoveryResult carries the discoverer's outcome to every coalesced
// waiter, success or failure alike — a bare PoolInfo channel can't
// distinguish "discovery failed" from "discovery returned the zero value".
type discoveryResult struct {
	info PoolInfo
	err  error
}

// GetOrDiscover blocks until pool's metadata is known or discovery
// exhausts its retries (spec §4.8): for startup and other non-hot paths
// that can afford to wait. Concurrent callers for the same pool coalesce
// onto a single in-flight discovery.
func (c *Cache) GetOrDiscover(ctx context.Context, pool [20]byte) (PoolInfo, error) {
	if info, ok := c.Get0(pool); ok {
		return info, nil
	}

	c.inflightMu.Lock()
	if waiters, already := c.inflight[pool]; already {
		wait := make(chan discoveryResult, 1)
		c.inflight[pool] = append(waiters, wait)
		c.inflightMu.Unlock()
		select {
		case res := <-wait:
			return res.info, res.err
		case <-ctx.Done():
			return PoolInfo{}, ctx.Err()
		}
	}
	if c.cfg.MaxQueueSize > 0 && len(c.inflight) >= c.cfg.MaxQueueSize {
		c.inflightMu.Unlock()
		return PoolInfo{}, fmt.Errorf("poolcache: discovery queue full (max_queue_size=%d)", c.cfg.MaxQueueSize)
	}
	c.inflight[pool] = nil
	c.inflightMu.Unlock()

	info, err := c.worker.discover(ctx, pool)

	c.inflightMu.Lock()
	waiters := c.inflight[pool]
	delete(c.inflight, pool)
	c.inflightMu.Unlock()

	if err != nil {
		for _, w := range waiters {
			w <- discoveryResult{err: err}
		}
		return PoolInfo{}, err
	}

	c.Insert(info)
	for _, w := range waiters {
		w <- discoveryResult{info: info}
	}
	return info, nil
}

// Get0 is a plain non-discovering lookup, used internally to avoid
// GetOrDiscover recursively triggering Get's background discovery.
func (c *Cache) Get0(pool [20]byte) (PoolInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.entries[pool]
	return info, ok
}

// Insert idempotently records discovered metadata and write-through
// persists it (spec §4.8: "Persistence is write-through with coalescing").
// Pool metadata is immutable on-chain, so a second insert for the same
// pool is a no-op.
func (c *Cache) Insert(info PoolInfo) {
	c.mu.Lock()
	_, exists := c.entries[info.PoolAddr]
	if !exists {
		c.entries[info.PoolAddr] = info
	}
	c.mu.Unlock()
	if !exists && c.db != nil {
		_ = c.persist(info)
	}
}

func (c *Cache) persist(info PoolInfo) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		b, err := chainBucket(tx, info.ChainID)
		if err != nil {
			return err
		}
		return b.Put(info.PoolAddr[:], encodePoolInfo(info))
	})
}

// Save force-flushes every in-memory entry to the bbolt snapshot in one
// transaction (spec §4.8: "force-snapshot on graceful shutdown"), grouped
// into its chain's bucket (spec §6.3's chain_id-versioned layout).
func (c *Cache) Save() error {
	if c.db == nil {
		return nil
	}
	c.mu.RLock()
	snapshot := make([]PoolInfo, 0, len(c.entries))
	for _, info := range c.entries {
		snapshot = append(snapshot, info)
	}
	c.mu.RUnlock()

	return c.db.Update(func(tx *bolt.Tx) error {
		for _, info := range snapshot {
			b, err := chainBucket(tx, info.ChainID)
			if err != nil {
				return err
			}
			if err := b.Put(info.PoolAddr[:], encodePoolInfo(info)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Load populates the in-memory map from the bbolt snapshot, for use at
// startup (spec §4.8's `load()`), reading every chain's bucket.
func (c *Cache) Load() error {
	if c.db == nil {
		return nil
	}
	loaded := make(map[[20]byte]PoolInfo)
	err := c.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(bucketPoolInfo)
		return root.ForEach(func(name, v []byte) error {
			// Nested bucket keys carry a nil value in ForEach; skip any
			// stray top-level key/value pair that isn't a chain bucket.
			if v != nil {
				return nil
			}
			chain := root.Bucket(name)
			if chain == nil {
				return nil
			}
			return chain.ForEach(func(k, v []byte) error {
				info, err := decodePoolInfo(v)
				if err != nil {
					return err
				}
				loaded[info.PoolAddr] = info
				return nil
			})
		})
	})
	if err != nil {
		return err
	}
	c.mu.Lock()
	for addr, info := range loaded {
		c.entries[addr] = info
	}
	c.mu.Unlock()
	return nil
}
