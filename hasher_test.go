package stripemap

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashersDeterministic(t *testing.T) {
	assert.Equal(t, Murmur3Hasher("stripemap"), Murmur3Hasher("stripemap"))
	assert.Equal(t, StringHasher("stripemap"), StringHasher("stripemap"))
	assert.Equal(t, IntHasher(42), IntHasher(42))
	assert.Equal(t, FloatHasher(3.14), FloatHasher(3.14))
}

func TestHashersSpread(t *testing.T) {
	// Not a statistical test, just a sanity check that nearby keys don't
	// collapse onto one 64-bit value.
	seen := make(map[uint64]string)
	for i := 0; i < 1000; i++ {
		k := "key-" + strconv.Itoa(i)
		h := Murmur3Hasher(k)
		if prev, dup := seen[h]; dup {
			t.Fatalf("murmur3 collision between %q and %q", prev, k)
		}
		seen[h] = k
	}
}

func TestMix64NotIdentity(t *testing.T) {
	assert.NotEqual(t, uint64(1), Mix64(1))
	assert.NotEqual(t, Mix64(1), Mix64(2))
}

func TestDefaultHasherCoverage(t *testing.T) {
	okFor := func(ok bool) func(*testing.T) {
		return func(t *testing.T) {
			assert.True(t, ok)
		}
	}

	_, ok := DefaultHasher[string]()
	t.Run("string", okFor(ok))
	_, ok = DefaultHasher[int]()
	t.Run("int", okFor(ok))
	_, ok = DefaultHasher[int64]()
	t.Run("int64", okFor(ok))
	_, ok = DefaultHasher[uint32]()
	t.Run("uint32", okFor(ok))
	_, ok = DefaultHasher[uintptr]()
	t.Run("uintptr", okFor(ok))
	_, ok = DefaultHasher[float64]()
	t.Run("float64", okFor(ok))

	type point struct{ x, y int }
	_, ok = DefaultHasher[point]()
	assert.False(t, ok, "struct keys have no default hasher")
}
