// Package unit implements processing-unit arbitration (spec.md §3, §4.6):
// mutual exclusion over a single "core" shared by every vertex the unit
// owns, enforced by a FIFO of waiting events.
package unit

import (
	"github.com/tgsim/tgsim/internal/errwrap"
	"github.com/tgsim/tgsim/internal/xlog"
	"github.com/tgsim/tgsim/kernel"
)

// Vertex is anything a ProcessingUnit can own: a unique id within the
// unit, a diagnostic name/kind, and a way to start its execution task once
// the kernel is elaborated.
type Vertex interface {
	ID() uint64
	Name() string
	Kind() string
	Spawn(k *kernel.Kernel)
}

// ProcessingUnit arbitrates mutually exclusive access to a single core
// among its owned vertices, modeling single-core sequential execution with
// a waiting queue (spec.md §3).
type ProcessingUnit struct {
	Logf xlog.Logf

	id   string
	name string

	coreUsed bool
	waiters  []*kernel.Event

	vertices map[uint64]Vertex
	order    []uint64 // elaboration order, for Spawn/Graphviz determinism
}

// New builds a processing unit. id should be unique among units in a
// simulation; it has no meaning to the kernel itself.
func New(id, name string, opts ...Option) *ProcessingUnit {
	u := &ProcessingUnit{
		id:       id,
		name:     name,
		vertices: make(map[uint64]Vertex),
	}
	for _, o := range opts {
		o(u)
	}
	u.Logf = xlog.Default(u.Logf, "unit."+name)
	return u
}

// Option configures a ProcessingUnit at construction time.
type Option func(*ProcessingUnit)

// WithLogf injects a logging function.
func WithLogf(fn xlog.Logf) Option {
	return func(u *ProcessingUnit) { u.Logf = fn }
}

// ID returns the unit's id.
func (u *ProcessingUnit) ID() string { return u.id }

// Name returns the unit's elaboration-time name.
func (u *ProcessingUnit) Name() string { return u.name }

// AddVertex adds v to this unit's ownership. A duplicate vertex id within
// the unit is a fatal structural error (spec.md §7.1, invariant 1).
func (u *ProcessingUnit) AddVertex(v Vertex) error {
	if _, exists := u.vertices[v.ID()]; exists {
		return errwrap.Errorf("unit %s: duplicate vertex id %d (%s)", u.name, v.ID(), v.Name())
	}
	u.vertices[v.ID()] = v
	u.order = append(u.order, v.ID())
	return nil
}

// Vertices returns the owned vertices in elaboration order.
func (u *ProcessingUnit) Vertices() []Vertex {
	out := make([]Vertex, 0, len(u.order))
	for _, id := range u.order {
		out = append(out, u.vertices[id])
	}
	return out
}

// Spawn starts every owned vertex's execution task. Called once, after all
// graph construction (elaboration) is complete.
func (u *ProcessingUnit) Spawn(k *kernel.Kernel) {
	for _, v := range u.Vertices() {
		v.Spawn(k)
	}
}

// RequestCore asks for exclusive use of the unit's core. It reports
// whether the core was granted synchronously. If not granted, ev is queued
// FIFO behind the current holder and any earlier waiters, and the caller
// must then Wait(ev) to be woken once it reaches the front and the holder
// releases (spec.md §4.6).
//
// Granting synchronously rather than via ev.Notify(0) avoids a
// register-after-fire race: the caller only arms ev (via Task.Wait) in the
// not-granted case, so Notify is never called before a waiter exists to
// receive it.
func (u *ProcessingUnit) RequestCore(ev *kernel.Event) (granted bool) {
	if !u.coreUsed {
		u.coreUsed = true
		return true
	}
	u.waiters = append(u.waiters, ev)
	return false
}

// ReleaseCore yields the core. Callers hold the core for their own
// operation latency themselves (Task.Sleep) before calling ReleaseCore —
// the unit has no notion of "latency" of its own, only of who holds the
// core right now. If another task is already queued, the front of the
// queue is granted the core immediately (Δt=0) and core_used stays true;
// its wait for *its own* latency only starts once it actually holds the
// core, which is what makes two vertices competing for one unit settle at
// t+L_winner (winner) and t+L_winner+L_loser (loser) — spec.md §4.6, §8
// scenario 2. If the queue is empty, core_used is cleared.
func (u *ProcessingUnit) ReleaseCore() {
	if len(u.waiters) > 0 {
		ev := u.waiters[0]
		u.waiters = u.waiters[1:]
		ev.Notify(0)
		return
	}
	u.coreUsed = false
}

// NumWaiters reports the current waiter queue depth, for tests and
// diagnostics.
func (u *ProcessingUnit) NumWaiters() int { return len(u.waiters) }

// CoreUsed reports whether the core is currently held.
func (u *ProcessingUnit) CoreUsed() bool { return u.coreUsed }
