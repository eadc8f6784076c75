package dict

import (
	"fmt"
	"testing"

	"github.com/alecthomas/assert"

	"github.com/shizhengLi/redis-impl/sds"
)

// identity hash, so tests can place keys in known buckets
func intHash(k int) uint64 { return uint64(k) }

func intEq(a, b int) bool { return a == b }

// mutate until any in-progress migration has finished
func finishRehash[K comparable, V any](t *testing.T, d *Dict[K, V], key K, val V) {
	t.Helper()
	for i := 0; d.Rehashing(); i++ {
		d.Set(key, val)
		if i > 1000 {
			t.Fatal("rehash did not finish after 1000 operations")
		}
	}
}

func TestSetGet(t *testing.T) {
	d := New[string, int]()
	assert.True(t, d.Set("a", 1))
	assert.True(t, d.Set("b", 2))
	assert.Equal(t, 2, d.Len())

	v, ok := d.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.True(t, d.Contains("b"))

	_, ok = d.Get("missing")
	assert.False(t, ok)
	assert.False(t, d.Contains("missing"))
}

func TestSetUpdateIsIdempotent(t *testing.T) {
	d := New[string, string]()
	assert.True(t, d.Set("k", "first"))
	n := d.Len()
	assert.False(t, d.Set("k", "second"))
	assert.Equal(t, n, d.Len())
	v, ok := d.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "second", v)
}

func TestDelete(t *testing.T) {
	d := New[string, int]()
	d.Set("a", 1)
	d.Set("b", 2)

	assert.True(t, d.Delete("a"))
	assert.Equal(t, 1, d.Len())
	assert.False(t, d.Contains("a"))
	assert.True(t, d.Contains("b"))

	// absent key: no removal, count unchanged
	assert.False(t, d.Delete("a"))
	assert.Equal(t, 1, d.Len())
}

func TestRehashTransition(t *testing.T) {
	d := New[int, string](WithSize(4))
	assert.Equal(t, 4, d.Buckets())

	for i := 0; i < 4; i++ {
		d.Set(i, fmt.Sprintf("v%d", i))
	}
	assert.False(t, d.Rehashing())
	assert.Equal(t, 4, d.Buckets())

	// fifth insert hits load factor 1.0 and must start a migration
	d.Set(4, "v4")
	assert.True(t, d.Rehashing())
	assert.Equal(t, 8, d.Buckets())

	finishRehash(t, d, 0, "v0")
	for i := 0; i < 5; i++ {
		v, ok := d.Get(i)
		assert.True(t, ok, "key %d lost across rehash", i)
		if i != 0 {
			assert.Equal(t, fmt.Sprintf("v%d", i), v)
		}
	}
	assert.Equal(t, 5, d.Len())
	assert.True(t, d.LoadFactor() <= 1.0)
}

func TestGrowthKeepsAllEntries(t *testing.T) {
	const n = 1000
	d := New[int, int]()
	for i := 0; i < n; i++ {
		d.Set(i, i*10)
	}
	assert.Equal(t, n, d.Len())

	// iteration yields exactly Len() entries, no duplicates, no losses
	seen := make(map[int]int, n)
	for k, v := range d.All() {
		_, dup := seen[k]
		assert.False(t, dup, "key %d yielded twice", k)
		seen[k] = v
	}
	assert.Equal(t, n, len(seen))
	for i := 0; i < n; i++ {
		assert.Equal(t, i*10, seen[i])
	}
}

func TestCollidingKeys(t *testing.T) {
	// 1, 5 and 9 all land in bucket 1 of a 4-bucket table
	d := NewFunc[int, string](intHash, intEq, WithSize(4))
	d.Set(1, "one")
	d.Set(5, "five")
	d.Set(9, "nine")
	assert.Equal(t, 3, d.Len())

	for k, want := range map[int]string{1: "one", 5: "five", 9: "nine"} {
		v, ok := d.Get(k)
		assert.True(t, ok)
		assert.Equal(t, want, v)
	}

	// removing the middle of the chain leaves the others intact
	assert.True(t, d.Delete(5))
	assert.True(t, d.Contains(1))
	assert.True(t, d.Contains(9))
	assert.False(t, d.Contains(5))

	assert.True(t, d.Delete(9))
	assert.True(t, d.Delete(1))
	assert.Equal(t, 0, d.Len())
}

func TestIterateDuringRehash(t *testing.T) {
	d := New[int, int](WithSize(4))
	for i := 0; i < 5; i++ {
		d.Set(i, i)
	}
	assert.True(t, d.Rehashing())

	seen := make(map[int]bool)
	for k := range d.All() {
		assert.False(t, seen[k])
		seen[k] = true
	}
	assert.Equal(t, 5, len(seen))
}

func TestRangeEarlyStop(t *testing.T) {
	d := New[int, int]()
	for i := 0; i < 10; i++ {
		d.Set(i, i)
	}
	n := 0
	d.Range(func(k, v int) bool {
		n++
		return n < 3
	})
	assert.Equal(t, 3, n)
}

func TestKeysValues(t *testing.T) {
	d := New[string, int]()
	d.Set("a", 1)
	d.Set("b", 2)
	d.Set("c", 3)

	keys := d.Keys()
	vals := d.Values()
	assert.Equal(t, 3, len(keys))
	assert.Equal(t, 3, len(vals))

	sum := 0
	for _, v := range vals {
		sum += v
	}
	assert.Equal(t, 6, sum)
}

func TestClear(t *testing.T) {
	d := New[int, int](WithSize(4))
	for i := 0; i < 100; i++ {
		d.Set(i, i)
	}
	d.Clear()
	assert.Equal(t, 0, d.Len())
	assert.Equal(t, 4, d.Buckets())
	assert.False(t, d.Rehashing())
	assert.False(t, d.Contains(1))

	// reusable after Clear
	assert.True(t, d.Set(1, 1))
	assert.Equal(t, 1, d.Len())
}

func TestClone(t *testing.T) {
	d := New[string, int](WithSize(4))
	for i := 0; i < 20; i++ {
		d.Set(fmt.Sprintf("k%d", i), i)
	}
	c := d.Clone()
	assert.Equal(t, d.Len(), c.Len())

	d.Set("k0", 999)
	d.Delete("k1")
	v, ok := c.Get("k0")
	assert.True(t, ok)
	assert.Equal(t, 0, v)
	assert.True(t, c.Contains("k1"))
}

func TestWithSizeRounding(t *testing.T) {
	assert.Equal(t, 8, New[int, int](WithSize(5)).Buckets())
	assert.Equal(t, 4, New[int, int](WithSize(0)).Buckets())
	assert.Equal(t, 16, New[int, int](WithSize(16)).Buckets())
}

func TestLoadFactor(t *testing.T) {
	d := New[int, int](WithSize(4))
	assert.Equal(t, 0.0, d.LoadFactor())
	d.Set(1, 1)
	d.Set(2, 2)
	assert.Equal(t, 0.5, d.LoadFactor())
}

func TestSdsKeys(t *testing.T) {
	d := NewFunc[*sds.Sds, int]((*sds.Sds).Hash, (*sds.Sds).Equal)
	d.Set(sds.NewFromString("alpha"), 1)
	d.Set(sds.NewFromString("beta"), 2)

	// lookup is by content equality, not instance identity
	v, ok := d.Get(sds.NewFromString("alpha"))
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	assert.False(t, d.Set(sds.NewFromString("beta"), 20))
	v, _ = d.Get(sds.NewFromString("beta"))
	assert.Equal(t, 20, v)

	assert.True(t, d.Delete(sds.NewFromString("alpha")))
	assert.Equal(t, 1, d.Len())
}

func TestDeleteDuringRehash(t *testing.T) {
	d := New[int, int](WithSize(4))
	for i := 0; i < 5; i++ {
		d.Set(i, i)
	}
	assert.True(t, d.Rehashing())

	// entries may sit in either table mid-migration; all must be removable
	for i := 0; i < 5; i++ {
		assert.True(t, d.Delete(i), "key %d not removable during rehash", i)
	}
	assert.Equal(t, 0, d.Len())
}

func BenchmarkSet(b *testing.B) {
	d := New[int, int]()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		d.Set(i, i)
	}
}

func BenchmarkGet(b *testing.B) {
	d := New[int, int]()
	for i := 0; i < 1024; i++ {
		d.Set(i, i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Get(i & 1023)
	}
}
