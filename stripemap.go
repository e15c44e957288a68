package stripemap

import (
	"errors"
	"sync/atomic"
)

// ErrKeyNotFound is returned by At when a key doesn't exist in the map.
var ErrKeyNotFound = errors.New("key not found")

// Map is a lock-striped hash map with separate chaining.
// - Concurrency: one RWMutex per shard; shard count is fixed at construction
// - Indexing: shard = hash(key) mod shards, bucket = hash(key) mod buckets-per-shard
// - Growth: a bucket chain reaching the collision limit triggers a
//   stop-the-world rehash that rebuilds storage with 3x the bucket budget
type Map[K comparable, V any] struct {
	shards []shard
	hash   HashFn[K]
	size   atomic.Int64

	collisionLimit int
	growthFactor   int

	// gen is the live storage generation. It is read only while holding the
	// owning shard's lock and replaced only while every shard's write lock
	// is held, so a plain field is race-free.
	gen *generation[K, V]
}

// New creates a striped map with sane defaults:
// - shard count = DefaultShards() (the scheduler's parallelism hint)
// - 29 buckets per shard
// - hasher = DefaultHasher[K]() for common K (string/int/uint/float)
func New[K comparable, V any]() *Map[K, V] {
	return WithConfig[K, V](DefaultConfig[K]())
}

// WithCapacity creates a map pre-sized for an expected total entry count,
// spreading the buckets evenly across the shards. Zero or negative values
// fall back to the default size.
func WithCapacity[K comparable, V any](expected int) *Map[K, V] {
	cfg := DefaultConfig[K]()
	cfg.ExpectedSize = expected
	return WithConfig[K, V](cfg)
}

// WithHasher creates a map using a custom hash function and default sizing.
func WithHasher[K comparable, V any](h HashFn[K]) *Map[K, V] {
	if h == nil {
		panic("stripemap: WithHasher requires a non-nil HashFn")
	}
	cfg := DefaultConfig[K]()
	cfg.Hasher = h
	return WithConfig[K, V](cfg)
}

// WithConfig creates a map from an explicit Config. Zero-valued fields take
// their defaults; no input is an error.
func WithConfig[K comparable, V any](cfg Config[K]) *Map[K, V] {
	h := cfg.Hasher
	if h == nil {
		dh, ok := DefaultHasher[K]()
		if !ok {
			panic("stripemap: no default hasher for this key type; set Config.Hasher")
		}
		h = dh
	}
	limit := cfg.CollisionLimit
	if limit <= 0 {
		limit = DefaultCollisionLimit
	}
	growth := cfg.GrowthFactor
	if growth <= 1 {
		growth = DefaultGrowthFactor
	}
	n := shardCountFor(cfg.ConcurrencyHint)
	m := &Map[K, V]{
		shards:         make([]shard, n),
		hash:           h,
		collisionLimit: limit,
		growthFactor:   growth,
	}
	m.gen = newGeneration[K, V](n, bucketsFor(cfg.ExpectedSize, n))
	return m
}

// === Map operations ===

// Insert adds (key, value) if the key is absent and reports whether it did.
// An existing key is left untouched: no overwrite, no error.
func (m *Map[K, V]) Insert(key K, value V) bool {
	h := m.hash(key)
	idx := int(h % uint64(len(m.shards)))
	s := &m.shards[idx]

	s.mu.Lock()
	b := m.gen.bucket(idx, h)
	for i := range *b {
		if (*b)[i].key == key {
			s.mu.Unlock()
			return false
		}
	}
	*b = append(*b, entry[K, V]{key: key, val: value})
	m.size.Add(1)
	overflow := len(*b) >= m.collisionLimit
	// Rehash re-acquires every shard lock, this one included, so the lock
	// must be released before triggering growth.
	s.mu.Unlock()

	if overflow {
		m.Rehash()
	}
	return true
}

// Erase removes key if present and reports whether it did.
func (m *Map[K, V]) Erase(key K) bool {
	h := m.hash(key)
	idx := int(h % uint64(len(m.shards)))
	s := &m.shards[idx]

	s.mu.Lock()
	b := m.gen.bucket(idx, h)
	for i := range *b {
		if (*b)[i].key == key {
			// Buckets are unordered: swap-with-last keeps removal O(1).
			last := len(*b) - 1
			(*b)[i] = (*b)[last]
			(*b)[last] = entry[K, V]{} // release references held by the slot
			*b = (*b)[:last]
			m.size.Add(-1)
			s.mu.Unlock()
			return true
		}
	}
	s.mu.Unlock()
	return false
}

// Find returns a copy of the value stored under key. The copy stays valid
// after concurrent erases or rehashes; it never aliases internal storage.
func (m *Map[K, V]) Find(key K) (V, bool) {
	h := m.hash(key)
	idx := int(h % uint64(len(m.shards)))
	s := &m.shards[idx]

	s.mu.RLock()
	b := m.gen.bucket(idx, h)
	for i := range *b {
		if (*b)[i].key == key {
			v := (*b)[i].val
			s.mu.RUnlock()
			return v, true
		}
	}
	s.mu.RUnlock()
	var zero V
	return zero, false
}

// At returns the value stored under key, or ErrKeyNotFound.
func (m *Map[K, V]) At(key K) (V, error) {
	v, ok := m.Find(key)
	if !ok {
		return v, ErrKeyNotFound
	}
	return v, nil
}

// Has reports whether key is present without copying its value.
func (m *Map[K, V]) Has(key K) bool {
	h := m.hash(key)
	idx := int(h % uint64(len(m.shards)))
	s := &m.shards[idx]

	s.mu.RLock()
	b := m.gen.bucket(idx, h)
	for i := range *b {
		if (*b)[i].key == key {
			s.mu.RUnlock()
			return true
		}
	}
	s.mu.RUnlock()
	return false
}

// Size returns the number of distinct keys. Exact at quiescence; during
// concurrent mutation it may trail in-flight operations.
func (m *Map[K, V]) Size() int {
	return int(m.size.Load())
}

// Rehash rebuilds storage with growthFactor times the total bucket budget,
// re-addressing every entry against the new bucket count. The shard count
// never changes. All shard locks are held for the duration, so every other
// operation stalls until the swap completes.
func (m *Map[K, V]) Rehash() {
	m.lockAll()
	old := m.gen
	n := len(m.shards)
	next := newGeneration[K, V](n, ceilDiv(old.bucketsPerShard*n*m.growthFactor, n))
	for _, b := range old.buckets {
		for _, e := range b {
			h := m.hash(e.key)
			nb := next.bucket(int(h%uint64(n)), h)
			// No duplicate or overflow checks: the old generation already
			// enforced uniqueness, and growth just happened.
			*nb = append(*nb, e)
		}
	}
	m.gen = next
	m.unlockAll()
}

// Clear drops every entry and shrinks storage back to the default bucket
// count, under the same total-lock discipline as Rehash.
func (m *Map[K, V]) Clear() {
	m.lockAll()
	m.size.Store(0)
	m.gen = newGeneration[K, V](len(m.shards), DefaultBucketCount)
	m.unlockAll()
}

// MapStats is a point-in-time occupancy snapshot.
type MapStats struct {
	Shards          int // Fixed shard count
	BucketsPerShard int // Current generation's bucket count per shard
	Entries         int // Live entries, counted bucket by bucket
	MaxBucketLen    int // Longest chain observed
}

// Stats takes read locks on every shard and reports a consistent snapshot.
func (m *Map[K, V]) Stats() MapStats {
	for i := range m.shards {
		m.shards[i].mu.RLock()
	}
	st := MapStats{Shards: len(m.shards), BucketsPerShard: m.gen.bucketsPerShard}
	for _, b := range m.gen.buckets {
		st.Entries += len(b)
		if len(b) > st.MaxBucketLen {
			st.MaxBucketLen = len(b)
		}
	}
	for i := len(m.shards) - 1; i >= 0; i-- {
		m.shards[i].mu.RUnlock()
	}
	return st
}

// lockAll and unlockAll implement the stop-the-world discipline: acquire in
// ascending shard order, release in descending order. This is the only place
// more than one shard lock is ever held at once.
func (m *Map[K, V]) lockAll() {
	for i := range m.shards {
		m.shards[i].mu.Lock()
	}
}

func (m *Map[K, V]) unlockAll() {
	for i := len(m.shards) - 1; i >= 0; i-- {
		m.shards[i].mu.Unlock()
	}
}
