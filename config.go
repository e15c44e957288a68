package stripemap

// Tunable policy defaults. The bucket floor and collision limit are small
// primes that keep chains short without over-allocating tiny maps; growth is
// multiplicative so rehash cost amortizes.
const (
	// DefaultBucketCount is the bucket count per shard for maps built
	// without an expected size, and the size Clear shrinks back to.
	DefaultBucketCount = 29

	// DefaultCollisionLimit is the chain length that triggers a rehash.
	DefaultCollisionLimit = 25

	// DefaultGrowthFactor multiplies the total bucket budget on rehash.
	DefaultGrowthFactor = 3
)

// Config carries the construction-time knobs for a Map. The zero value of
// every field means "use the default"; degenerate values (zero, negative, a
// growth factor of 1) fall back to the defaults rather than erroring.
type Config[K comparable] struct {
	// ExpectedSize pre-sizes the bucket arrays for an anticipated total
	// entry count, spread evenly across the shards.
	ExpectedSize int

	// ConcurrencyHint caps the shard count. It can only lower the count
	// below DefaultShards(), never raise it.
	ConcurrencyHint int

	// Hasher overrides the hash function. Required for key types without
	// a DefaultHasher (e.g. structs).
	Hasher HashFn[K]

	// CollisionLimit is the bucket chain length that triggers a rehash.
	CollisionLimit int

	// GrowthFactor is the total-capacity multiplier applied by a rehash.
	// Must be at least 2 to be meaningful.
	GrowthFactor int
}

// DefaultConfig returns the configuration New uses.
func DefaultConfig[K comparable]() Config[K] {
	return Config[K]{
		CollisionLimit: DefaultCollisionLimit,
		GrowthFactor:   DefaultGrowthFactor,
	}
}
