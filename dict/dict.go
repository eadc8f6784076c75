package dict

import (
	"hash/maphash"
	"iter"

	"github.com/dgryski/go-farm"
)

const (
	// minBuckets is the smallest table size; tables are always a power
	// of two so the bucket index is hash & (len-1).
	minBuckets = 4
	// growRatio is the load factor (entries / buckets) at which an
	// insert triggers a resize to double the bucket count.
	growRatio = 1.0
	// rehashBatchDivisor controls how many old buckets one migration
	// step processes: len(old)/rehashBatchDivisor, minimum one. Tunable:
	// a larger divisor lowers per-call latency but stretches out the
	// total migration.
	rehashBatchDivisor = 10
)

// HashFunc hashes a key to a 64-bit value.
type HashFunc[K any] func(K) uint64

// EqualFunc reports whether two keys are equal.
type EqualFunc[K any] func(a, b K) bool

// StringHash is a farmhash-based HashFunc for string keys.
func StringHash(s string) uint64 {
	return farm.Hash64([]byte(s))
}

// BytesHash is a farmhash-based HashFunc for []byte keys.
func BytesHash(b []byte) uint64 {
	return farm.Hash64(b)
}

type entry[K, V any] struct {
	key  K
	val  V
	next *entry[K, V]
}

// Dict is a hash map with incremental rehashing. Create one with New or
// NewFunc; the zero value is not usable.
type Dict[K, V any] struct {
	// tab is the current table: new entries always land here, and it is
	// searched first. old is non-nil only while a rehash is in progress
	// and holds the buckets not yet migrated.
	tab    []*entry[K, V]
	old    []*entry[K, V]
	cursor int // next old bucket to migrate
	count  int // live entries across both tables

	hash HashFunc[K]
	eq   EqualFunc[K]
}

// Option configures a Dict at construction.
type Option func(*config)

type config struct {
	size int
}

// WithSize sets the initial bucket count. It is rounded up to a power of
// two and never below the minimum of 4.
func WithSize(n int) Option {
	return func(c *config) {
		c.size = n
	}
}

// New returns a Dict for comparable keys, hashed with the runtime's
// seeded hash and compared with ==.
func New[K comparable, V any](opts ...Option) *Dict[K, V] {
	seed := maphash.MakeSeed()
	return NewFunc[K, V](
		func(k K) uint64 { return maphash.Comparable(seed, k) },
		func(a, b K) bool { return a == b },
		opts...,
	)
}

// NewFunc returns a Dict using the given hash and equality functions.
// hash must be deterministic for a given key value.
func NewFunc[K, V any](hash HashFunc[K], eq EqualFunc[K], opts ...Option) *Dict[K, V] {
	c := &config{size: minBuckets}
	for _, o := range opts {
		o(c)
	}
	return &Dict[K, V]{
		tab:  make([]*entry[K, V], tableSize(c.size)),
		hash: hash,
		eq:   eq,
	}
}

// tableSize rounds n up to a power of two, at least minBuckets.
func tableSize(n int) int {
	size := minBuckets
	for size < n {
		size *= 2
	}
	return size
}

// Len returns the number of live entries.
func (d *Dict[K, V]) Len() int {
	return d.count
}

// Buckets returns the bucket count of the current table.
func (d *Dict[K, V]) Buckets() int {
	return len(d.tab)
}

// LoadFactor returns live entries divided by the current bucket count.
func (d *Dict[K, V]) LoadFactor() float64 {
	return float64(d.count) / float64(len(d.tab))
}

// Rehashing reports whether a migration from an old table is in progress.
func (d *Dict[K, V]) Rehashing() bool {
	return d.old != nil
}

func (d *Dict[K, V]) index(key K, tab []*entry[K, V]) int {
	return int(d.hash(key) & uint64(len(tab)-1))
}

// findEntry looks key up in one table's chain.
func (d *Dict[K, V]) findEntry(key K, tab []*entry[K, V]) *entry[K, V] {
	for e := tab[d.index(key, tab)]; e != nil; e = e.next {
		if d.eq(e.key, key) {
			return e
		}
	}
	return nil
}

// lookup searches the current table first, then the old one.
func (d *Dict[K, V]) lookup(key K) *entry[K, V] {
	if e := d.findEntry(key, d.tab); e != nil {
		return e
	}
	if d.old != nil {
		return d.findEntry(key, d.old)
	}
	return nil
}

// startRehash allocates a table of newSize buckets and makes it current;
// the previous table becomes the migration source.
func (d *Dict[K, V]) startRehash(newSize int) {
	d.old = d.tab
	d.tab = make([]*entry[K, V], newSize)
	d.cursor = 0
}

// rehashStep migrates a bounded batch of buckets from the old table into
// the current one. Entries are re-linked (not copied) at their recomputed
// index. Finishing the last bucket drops the old table.
func (d *Dict[K, V]) rehashStep() {
	if d.old == nil {
		return
	}
	steps := len(d.old) / rehashBatchDivisor
	if steps < 1 {
		steps = 1
	}
	for ; steps > 0 && d.cursor < len(d.old); steps-- {
		e := d.old[d.cursor]
		for e != nil {
			next := e.next
			i := d.index(e.key, d.tab)
			e.next = d.tab[i]
			d.tab[i] = e
			e = next
		}
		d.old[d.cursor] = nil
		d.cursor++
	}
	if d.cursor >= len(d.old) {
		d.old = nil
		d.cursor = 0
	}
}

// Set inserts or updates key. It returns true for a fresh insertion and
// false when an existing entry's value was overwritten.
func (d *Dict[K, V]) Set(key K, val V) bool {
	if d.old == nil && float64(d.count) >= float64(len(d.tab))*growRatio {
		d.startRehash(len(d.tab) * 2)
	}
	if d.old != nil {
		d.rehashStep()
	}
	if e := d.lookup(key); e != nil {
		e.val = val
		return false
	}
	i := d.index(key, d.tab)
	d.tab[i] = &entry[K, V]{key: key, val: val, next: d.tab[i]}
	d.count++
	return true
}

// Get returns the value stored for key.
func (d *Dict[K, V]) Get(key K) (V, bool) {
	if e := d.lookup(key); e != nil {
		return e.val, true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is present.
func (d *Dict[K, V]) Contains(key K) bool {
	return d.lookup(key) != nil
}

// Delete removes key and reports whether an entry was removed. Removing
// an absent key is not an error.
func (d *Dict[K, V]) Delete(key K) bool {
	if d.old != nil {
		d.rehashStep()
	}
	if d.unlink(key, d.tab) {
		return true
	}
	if d.old != nil && d.unlink(key, d.old) {
		return true
	}
	return false
}

func (d *Dict[K, V]) unlink(key K, tab []*entry[K, V]) bool {
	i := d.index(key, tab)
	var prev *entry[K, V]
	for e := tab[i]; e != nil; e = e.next {
		if d.eq(e.key, key) {
			if prev != nil {
				prev.next = e.next
			} else {
				tab[i] = e.next
			}
			d.count--
			return true
		}
		prev = e
	}
	return false
}

// Clear discards all entries and resets to a fresh minimum-size table.
func (d *Dict[K, V]) Clear() {
	d.tab = make([]*entry[K, V], minBuckets)
	d.old = nil
	d.cursor = 0
	d.count = 0
}

// All returns an iterator over all entries: the old table's unmigrated
// buckets first (if rehashing), then the current table, each chain walked
// head to tail. The sequence is restartable per call but must not be
// interleaved with structural mutation of the dict.
func (d *Dict[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if d.old != nil {
			for i := d.cursor; i < len(d.old); i++ {
				for e := d.old[i]; e != nil; e = e.next {
					if !yield(e.key, e.val) {
						return
					}
				}
			}
		}
		for i := range d.tab {
			for e := d.tab[i]; e != nil; e = e.next {
				if !yield(e.key, e.val) {
					return
				}
			}
		}
	}
}

// Range calls f for each entry until f returns false.
func (d *Dict[K, V]) Range(f func(key K, val V) bool) {
	for k, v := range d.All() {
		if !f(k, v) {
			return
		}
	}
}

// Keys returns all keys, in iteration order.
func (d *Dict[K, V]) Keys() []K {
	keys := make([]K, 0, d.count)
	for k := range d.All() {
		keys = append(keys, k)
	}
	return keys
}

// Values returns all values, in iteration order.
func (d *Dict[K, V]) Values() []V {
	vals := make([]V, 0, d.count)
	for _, v := range d.All() {
		vals = append(vals, v)
	}
	return vals
}

// Clone returns an independent copy of the dict: same entries, freshly
// allocated tables and chains, same hash and equality functions. Keys and
// values are copied as values; a completed clone shares no structure with
// the original.
func (d *Dict[K, V]) Clone() *Dict[K, V] {
	c := &Dict[K, V]{
		tab:  make([]*entry[K, V], len(d.tab)),
		hash: d.hash,
		eq:   d.eq,
	}
	for k, v := range d.All() {
		i := c.index(k, c.tab)
		c.tab[i] = &entry[K, V]{key: k, val: v, next: c.tab[i]}
		c.count++
	}
	return c
}
