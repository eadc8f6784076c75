// Package store is a small in-process string store built on dict and sds.
// It is the intended composition of the two: string keys mapping to
// binary-safe sds values, with one mutex serializing all access so the
// single-threaded primitives can be shared between goroutines.
package store

import (
	"sync"

	"github.com/shizhengLi/redis-impl/dict"
	"github.com/shizhengLi/redis-impl/sds"
)

type Store struct {
	d  *dict.Dict[string, *sds.Sds]
	mu sync.Mutex
}

// New returns an empty store.
func New() *Store {
	return &Store{
		d: dict.NewFunc[string, *sds.Sds](
			dict.StringHash,
			func(a, b string) bool { return a == b },
		),
	}
}

// Set stores value under key, overwriting any previous value.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.Set(key, sds.NewFromString(value))
}

// SetNX stores value only if key is absent. Reports whether it stored.
func (s *Store) SetNX(key, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.d.Contains(key) {
		return false
	}
	s.d.Set(key, sds.NewFromString(value))
	return true
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.d.Get(key)
	if !ok {
		return "", false
	}
	return v.String(), true
}

// Del removes the given keys and returns how many were present.
func (s *Store) Del(keys ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, k := range keys {
		if s.d.Delete(k) {
			n++
		}
	}
	return n
}

// Exists reports whether key is present.
func (s *Store) Exists(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.Contains(key)
}

// Append appends suffix to the value under key, creating the key if
// absent, and returns the new value length. The value's spare capacity is
// reused across repeated appends to the same key.
func (s *Store) Append(key, suffix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.d.Get(key)
	if !ok {
		v = sds.New()
		s.d.Set(key, v)
	}
	return v.AppendString(suffix).Len()
}

// Strlen returns the length of the value under key, 0 if absent.
func (s *Store) Strlen(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.d.Get(key)
	if !ok {
		return 0
	}
	return v.Len()
}

// Keys returns all keys. Order is unspecified.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.Keys()
}

// Len returns the number of keys.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.Len()
}

// FlushAll removes every key.
func (s *Store) FlushAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d.Clear()
}
