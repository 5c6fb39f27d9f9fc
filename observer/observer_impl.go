package observer

import "github.com/tgsim/tgsim/kernel"

// PlainObserver copies bytes eagerly into an arena-addressed destination
// slot, then arms its trigger event. This is the spec's plain Observer
// variant (spec.md §3, §4.3).
type PlainObserver struct {
	arena   *Arena
	handle  Handle
	trigger *kernel.Event
}

// NewPlainObserver builds an observer that writes into the Value at handle
// (which must already be allocated in arena) and then notifies trigger.
func NewPlainObserver(arena *Arena, handle Handle, trigger *kernel.Event) *PlainObserver {
	return &PlainObserver{arena: arena, handle: handle, trigger: trigger}
}

// Notify implements Observer. Preconditions (spec.md §3): ref.Src must be
// non-nil and the destination's capacity must be >= ref.Len; violating
// either is a fatal runtime-contract error (spec.md §7.2), surfaced here as
// a panic since it denotes a structurally broken graph, not a recoverable
// condition.
func (o *PlainObserver) Notify(dt kernel.Time, ref DataRef) {
	dest, ok := o.arena.Lookup(o.handle)
	if !ok {
		panic("observer: PlainObserver destination handle not found in arena")
	}
	if ref.Src == nil {
		panic("observer: notify with nil source pointer")
	}
	if dest.Capacity() < ref.Len {
		panic("observer: notify source exceeds destination capacity")
	}
	data := ref.Src.Bytes()
	if len(data) > ref.Len {
		data = data[:ref.Len]
	}
	if err := dest.Write(data); err != nil {
		panic(err)
	}
	o.trigger.Notify(dt)
}

// Handle returns the destination handle this observer writes into.
func (o *PlainObserver) Handle() Handle { return o.handle }

// InterconnectObserver stores the (src, len) pair itself rather than
// copying bytes, and raises a "value changed" flag. This is the spec's
// ObserverInterconnect variant, used when an output crosses a
// processing-unit boundary and the interconnect needs a reference to the
// payload rather than an eager copy (spec.md §3, §4.3).
type InterconnectObserver struct {
	dest    *DataRefSlot
	trigger *kernel.Event
}

// NewInterconnectObserver builds an observer that stores into dest and then
// notifies trigger.
func NewInterconnectObserver(dest *DataRefSlot, trigger *kernel.Event) *InterconnectObserver {
	return &InterconnectObserver{dest: dest, trigger: trigger}
}

// Notify implements Observer.
func (o *InterconnectObserver) Notify(dt kernel.Time, ref DataRef) {
	o.dest.Set(ref)
	o.trigger.Notify(dt)
}

// Dest returns the destination slot this observer writes into.
func (o *InterconnectObserver) Dest() *DataRefSlot { return o.dest }
