package observer

import (
	"fmt"

	"github.com/tgsim/tgsim/internal/errwrap"
	"github.com/tgsim/tgsim/kernel"
)

// Observer is a one-way sink bound to a destination and a trigger event.
// Notify(dt, ref) copies or references ref into the destination and then
// arms the trigger at dt (spec.md §3, §4.3).
type Observer interface {
	// Notify propagates ref to this observer's destination and schedules
	// its trigger event dt simulated time from now.
	Notify(dt kernel.Time, ref DataRef)
}

// registration is one (Observer, output-id) pair held by a Subject.
type registration struct {
	obs      Observer
	outputID int
}

// Subject is an observable value producer (spec.md §3). Its identity is a
// process-wide monotonic integer from a Context; id 0 is reserved for
// moved-from subjects, which must never be notified (invariant 5).
type Subject struct {
	ctx   *Context
	id    uint64
	name  string
	pairs []registration
}

// NewSubject allocates a new subject with a fresh id from ctx.
func NewSubject(ctx *Context, name string) *Subject {
	return &Subject{ctx: ctx, id: ctx.NextID(), name: name}
}

// ID returns the subject's id. 0 means moved-from.
func (s *Subject) ID() uint64 { return s.id }

// Name returns the subject's elaboration-time name.
func (s *Subject) Name() string { return s.name }

// Register subscribes obs to this subject's outputID. Registering the same
// (obs, outputID) pair twice is a no-op (invariant 4: set semantics).
func (s *Subject) Register(obs Observer, outputID int) {
	for _, p := range s.pairs {
		if p.obs == obs && p.outputID == outputID {
			return
		}
	}
	s.pairs = append(s.pairs, registration{obs: obs, outputID: outputID})
}

// Erase unsubscribes obs from outputID. Erasing an unregistered pair is a
// no-op.
func (s *Subject) Erase(obs Observer, outputID int) {
	for i, p := range s.pairs {
		if p.obs == obs && p.outputID == outputID {
			s.pairs = append(s.pairs[:i], s.pairs[i+1:]...)
			return
		}
	}
}

// NumRegistrations reports the number of (observer, output-id) pairs
// currently registered, for tests and diagnostics.
func (s *Subject) NumRegistrations() int { return len(s.pairs) }

// Move transfers this subject's identity and observer set to a new Subject
// value, leaving the receiver in the "moved-from" state (id 0, no
// observers). Subjects are non-copyable by convention; Move is how
// ownership is handed off, mirroring the spec's move semantics.
func (s *Subject) Move() *Subject {
	moved := &Subject{ctx: s.ctx, id: s.id, name: s.name, pairs: s.pairs}
	s.id = 0
	s.name = ""
	s.pairs = nil
	return moved
}

// IsMovedFrom reports whether this subject is in the zero/moved-from state.
func (s *Subject) IsMovedFrom() bool { return s.id == 0 }

func (s *Subject) String() string {
	return fmt.Sprintf("Subject(%d:%s)", s.id, s.name)
}

// NotifyObservers iterates every registered (observer, out_id) pair whose
// out_id matches outputID and invokes Notify(0, ref) on each (spec.md
// §4.3: "All value propagation uses Δt=0").
func (s *Subject) NotifyObservers(outputID int, ref DataRef) error {
	if s.IsMovedFrom() {
		return errwrap.Errorf("subject: notify on moved-from subject %q", s.name)
	}
	for _, p := range s.pairs {
		if p.outputID == outputID {
			p.obs.Notify(0, ref)
		}
	}
	return nil
}
