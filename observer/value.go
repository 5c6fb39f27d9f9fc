package observer

import (
	"sync"

	"github.com/tgsim/tgsim/internal/errwrap"
)

// Value is a fixed-capacity byte-addressable storage slot: the Go analogue
// of the spec's destPtr/memSize pair. Compute-vertex inputs and outputs are
// backed by one Value each.
type Value struct {
	mu   sync.Mutex
	cap  int
	data []byte
}

// NewValue allocates a slot with the given byte capacity.
func NewValue(capacity int) *Value {
	return &Value{cap: capacity}
}

// Capacity returns memSize.
func (v *Value) Capacity() int { return v.cap }

// Bytes returns a copy of the currently stored bytes.
func (v *Value) Bytes() []byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]byte, len(v.data))
	copy(out, v.data)
	return out
}

// Len returns the number of bytes currently stored (n in the spec's notify
// signature), not the capacity.
func (v *Value) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.data)
}

// Write stores src, replacing the previous contents. It is the fatal
// "Observer.notify with source bytes exceeding destination capacity"
// precondition check from spec.md §7.2.
func (v *Value) Write(src []byte) error {
	if len(src) > v.cap {
		return errwrap.Errorf("value: write of %d bytes exceeds capacity %d", len(src), v.cap)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.data = append(v.data[:0], src...)
	return nil
}

// DataRef is the (src-pointer, n) descriptor passed to Observer.Notify. It
// names a source Value and how many of its bytes are live for this
// propagation, without copying anything itself.
type DataRef struct {
	Src *Value
	Len int
}

// DataRefSlot is the destination type used by ObserverInterconnect: instead
// of a byte buffer, it stores the (ptr, len) pair itself plus a
// "value changed" flag (spec.md §3, ObserverInterconnect variant).
//
// Open question #4 in the spec notes that checking "memSize >= numOfBytes"
// against a destination that actually stores a (ptr, len) pair is almost
// certainly a bug in the source. We sidestep it entirely: DataRefSlot has
// no byte capacity to violate, because Go lets the destination's static
// type be the pair itself rather than an untyped byte buffer.
type DataRefSlot struct {
	mu      sync.Mutex
	ref     DataRef
	changed bool
}

// NewDataRefSlot creates an empty interconnect destination slot.
func NewDataRefSlot() *DataRefSlot {
	return &DataRefSlot{}
}

// Set stores ref and raises the "value changed" flag.
func (s *DataRefSlot) Set(ref DataRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ref = ref
	s.changed = true
}

// Get returns the currently stored reference.
func (s *DataRefSlot) Get() DataRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ref
}

// IsValueChanged reports whether Set has been called since the flag was
// last cleared. If reset is true, the flag is cleared as part of this call,
// matching the spec's "resets to false after is_value_changed(true)".
func (s *DataRefSlot) IsValueChanged(reset bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.changed
	if reset {
		s.changed = false
	}
	return c
}
