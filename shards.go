package stripemap

import (
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize is used to pad shards so neighbouring locks never share a
// cache line.
const CacheLineSize = unsafe.Sizeof(cpu.CacheLinePad{})

// shard is one lockable stripe of the key space. Point operations hold at
// most one shard lock; Rehash, Clear and Stats take all of them in ascending
// index order.
type shard struct {
	mu sync.RWMutex
	_  [(CacheLineSize - unsafe.Sizeof(sync.RWMutex{})%CacheLineSize) % CacheLineSize]byte
}

// entry is one (key, value) pair. The key never changes for the entry's
// lifetime; replacing a value takes an Erase plus a fresh Insert.
type entry[K comparable, V any] struct {
	key K
	val V
}

// generation is one complete storage layout: bucketsPerShard plus a flat
// bucket slice in which shard i owns the contiguous range
// [i*bucketsPerShard, (i+1)*bucketsPerShard). Exactly one generation is live
// at a time; Rehash and Clear build a replacement and swap it in wholesale.
type generation[K comparable, V any] struct {
	bucketsPerShard int
	buckets         [][]entry[K, V]
}

func newGeneration[K comparable, V any](shards, bucketsPerShard int) *generation[K, V] {
	return &generation[K, V]{
		bucketsPerShard: bucketsPerShard,
		buckets:         make([][]entry[K, V], shards*bucketsPerShard),
	}
}

// bucket addresses the chain for hash h within the given shard. Both levels
// are recomputed from the live generation on every call, never cached, so an
// address can't outlive a rehash.
func (g *generation[K, V]) bucket(shard int, h uint64) *[]entry[K, V] {
	return &g.buckets[shard*g.bucketsPerShard+int(h%uint64(g.bucketsPerShard))]
}

// DefaultShards picks the shard count for this process: the scheduler's
// parallelism hint, with a floor of 1.
func DefaultShards() int {
	if p := runtime.GOMAXPROCS(0); p > 1 {
		return p
	}
	return 1
}

// shardCountFor applies the concurrency hint: it can cap the shard count
// below the hardware default but never raise it above.
func shardCountFor(hint int) int {
	n := DefaultShards()
	if hint > 0 && hint < n {
		n = hint
	}
	return n
}

// bucketsFor spreads an expected entry count across the shards, with
// DefaultBucketCount as the floor.
func bucketsFor(expected, shards int) int {
	bps := DefaultBucketCount
	if derived := ceilDiv(expected, shards); derived > bps {
		bps = derived
	}
	return bps
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
