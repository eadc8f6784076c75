// Package dict implements a hash map with redis-style incremental
// rehashing: when the load factor reaches 1.0 the table doubles, but
// instead of moving every entry at once, each subsequent Set or Delete
// migrates a small batch of buckets from the old table to the new one.
// No single call ever pays the cost of a full rehash, regardless of how
// large the dict has grown.
//
// Collisions are resolved by chaining; new entries are prepended to their
// bucket's chain. Tables are power-of-two sized (minimum 4 buckets) and
// never shrink automatically.
//
// # Basic Usage
//
//	d := dict.New[string, int]()
//	d.Set("a", 1)
//	v, ok := d.Get("a")
//
// New uses the runtime's seeded hash and == for comparable key types.
// NewFunc takes explicit hash and equality functions for key types that
// are not comparable, or when a specific distribution is wanted:
//
//	d := dict.NewFunc[*sds.Sds, string]((*sds.Sds).Hash, (*sds.Sds).Equal)
//
// The hash function must be deterministic for a given key value, and a
// key must not be mutated after insertion; violating either makes the
// entry unfindable. This is a documented hazard, not a checked error.
//
// A Dict is not safe for concurrent use. A host that needs shared access
// must serialize it externally, typically with one mutex per Dict.
package dict
