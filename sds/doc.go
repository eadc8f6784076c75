// Package sds provides a binary-safe, growable byte string with tracked
// length and capacity, modeled after redis' simple dynamic strings.
//
// Unlike a plain []byte, an Sds keeps its spare capacity across Clear()
// so a buffer can be refilled many times without re-allocating, and its
// append path pre-allocates ahead of need: small strings double their
// capacity on growth, large strings (>= 1 MiB) grow by a fixed 1 MiB
// increment so over-allocation stays bounded.
//
// # Basic Usage
//
//	s := sds.New()
//	s.AppendString("hello")
//	s.AppendString(" world")
//	fmt.Println(s.Len(), s.String()) // 11 hello world
//
// Content is binary-safe: embedded NUL bytes are preserved by all
// operations, including the String()/NewFromString round-trip.
//
// Every growing operation may reallocate the backing storage, so a slice
// obtained from Bytes() must not be retained across a mutating call.
//
// Sds is not safe for concurrent use; callers that share one across
// goroutines must serialize access themselves. If the process runs out of
// memory the Go runtime aborts, which is the intended behavior for a
// storage primitive: there is no partial-failure mode to recover into.
package sds
