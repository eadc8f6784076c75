package sds

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dgryski/go-farm"
)

// MaxPrealloc is the size at which the append path stops doubling
// capacity and switches to growing by a fixed MaxPrealloc increment.
const MaxPrealloc = 1024 * 1024

// ErrIndexOutOfRange is returned (wrapped) by At and SetAt when the index
// is outside [0, Len()).
var ErrIndexOutOfRange = errors.New("sds: index out of range")

// Sds is a growable, binary-safe byte string. The zero value is an empty
// string ready to use.
type Sds struct {
	// len(buf) is the used length, cap(buf) the allocated capacity
	buf []byte
}

// New returns an empty Sds.
func New() *Sds {
	return &Sds{}
}

// NewFromString returns an Sds holding a copy of s.
func NewFromString(s string) *Sds {
	return &Sds{buf: []byte(s)}
}

// NewFromBytes returns an Sds holding a copy of b.
// The Sds does not alias b.
func NewFromBytes(b []byte) *Sds {
	return &Sds{buf: bytes.Clone(b)}
}

// Len returns the used length in bytes.
func (s *Sds) Len() int {
	return len(s.buf)
}

// Cap returns the allocated capacity in bytes.
func (s *Sds) Cap() int {
	return cap(s.buf)
}

// Avail returns how many bytes can be appended without reallocating.
func (s *Sds) Avail() int {
	return cap(s.buf) - len(s.buf)
}

// IsEmpty reports whether the string has zero length.
func (s *Sds) IsEmpty() bool {
	return len(s.buf) == 0
}

// grow reallocates so that at least addLen more bytes fit.
// Pre-allocation policy: double the needed size while small, add a fixed
// increment once large, so repeated small appends stay amortized O(1)
// without unbounded waste on big strings.
func (s *Sds) grow(addLen int) {
	if s.Avail() >= addLen {
		return
	}
	needed := len(s.buf) + addLen
	newCap := needed
	if newCap < MaxPrealloc {
		newCap *= 2
	} else {
		newCap += MaxPrealloc
	}
	newBuf := make([]byte, len(s.buf), newCap)
	copy(newBuf, s.buf)
	s.buf = newBuf
}

// Append appends a copy of b and returns s for chaining.
func (s *Sds) Append(b []byte) *Sds {
	s.grow(len(b))
	s.buf = append(s.buf, b...)
	return s
}

// AppendString appends str and returns s for chaining.
func (s *Sds) AppendString(str string) *Sds {
	s.grow(len(str))
	s.buf = append(s.buf, str...)
	return s
}

// AppendSds appends the content of o and returns s for chaining.
func (s *Sds) AppendSds(o *Sds) *Sds {
	return s.Append(o.buf)
}

// Reserve grows the capacity to exactly n bytes. It never changes the
// used length and is a no-op if the capacity already suffices.
func (s *Sds) Reserve(n int) {
	if cap(s.buf) >= n {
		return
	}
	newBuf := make([]byte, len(s.buf), n)
	copy(newBuf, s.buf)
	s.buf = newBuf
}

// Resize sets the used length to n. Shrinking truncates; growing
// zero-fills the new tail.
func (s *Sds) Resize(n int) {
	if n < 0 {
		n = 0
	}
	if n <= len(s.buf) {
		s.buf = s.buf[:n]
		return
	}
	s.grow(n - len(s.buf))
	// spare capacity can hold remnants of a previous shrink
	clear(s.buf[len(s.buf):n])
	s.buf = s.buf[:n]
}

// Clear resets the used length to 0. Capacity is retained so the buffer
// can be refilled without reallocating.
func (s *Sds) Clear() {
	s.buf = s.buf[:0]
}

// At returns the byte at index i.
func (s *Sds) At(i int) (byte, error) {
	if i < 0 || i >= len(s.buf) {
		return 0, fmt.Errorf("index %d, len %d: %w", i, len(s.buf), ErrIndexOutOfRange)
	}
	return s.buf[i], nil
}

// SetAt overwrites the byte at index i.
func (s *Sds) SetAt(i int, c byte) error {
	if i < 0 || i >= len(s.buf) {
		return fmt.Errorf("index %d, len %d: %w", i, len(s.buf), ErrIndexOutOfRange)
	}
	s.buf[i] = c
	return nil
}

// Bytes returns the used content without copying. The returned slice is
// only valid until the next mutating call; any growth reallocates the
// backing storage and the slice keeps pointing at the old one.
func (s *Sds) Bytes() []byte {
	return s.buf
}

// String returns a copy of the content. Binary-safe: embedded NUL bytes
// survive the round-trip through NewFromString.
func (s *Sds) String() string {
	return string(s.buf)
}

// Equal reports whether s and o hold the same bytes.
func (s *Sds) Equal(o *Sds) bool {
	return bytes.Equal(s.buf, o.buf)
}

// Compare orders byte-wise; on an equal prefix the shorter string is less.
// Returns -1, 0 or 1 like bytes.Compare.
func (s *Sds) Compare(o *Sds) int {
	return bytes.Compare(s.buf, o.buf)
}

// Clone returns a deep copy. The copy shares no storage with s.
func (s *Sds) Clone() *Sds {
	return &Sds{buf: bytes.Clone(s.buf)}
}

// Hash returns a farmhash of the content, for use as a dict key hash.
func (s *Sds) Hash() uint64 {
	return farm.Hash64(s.buf)
}
