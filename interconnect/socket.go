// Package interconnect implements outgoing-link arbitration and transaction
// packing/routing for inter-unit communication (spec.md §4.8): one Socket
// Manager per outgoing link, serializing access the same way
// unit.ProcessingUnit serializes access to a core, plus the per-unit
// transmission table and routing policy that turn an observer's current
// value into a routed payload.Transaction.
package interconnect

import (
	"github.com/tgsim/tgsim/internal/errwrap"
	"github.com/tgsim/tgsim/internal/xlog"
	"github.com/tgsim/tgsim/kernel"
)

// SocketManager arbitrates exclusive use of a single outgoing link,
// mirroring unit.ProcessingUnit's core arbitration: a FIFO of waiting
// events behind whichever task currently holds the link (spec.md §4.8).
type SocketManager struct {
	Logf xlog.Logf

	id string

	used    bool
	waiters []*kernel.Event
}

// NewSocketManager builds a socket manager for one outgoing link.
func NewSocketManager(id string, opts ...SocketOption) *SocketManager {
	sm := &SocketManager{id: id}
	for _, o := range opts {
		o(sm)
	}
	sm.Logf = xlog.Default(sm.Logf, "interconnect.socket."+id)
	return sm
}

// SocketOption configures a SocketManager at construction time.
type SocketOption func(*SocketManager)

// WithSocketLogf injects a logging function.
func WithSocketLogf(fn xlog.Logf) SocketOption {
	return func(sm *SocketManager) { sm.Logf = fn }
}

// ID returns the link id this manager serializes.
func (sm *SocketManager) ID() string { return sm.id }

// RequestLink asks for exclusive use of the link. It reports whether the
// link was granted synchronously ("go"); otherwise ev is queued FIFO
// ("queued") and the caller must Wait(ev).
func (sm *SocketManager) RequestLink(ev *kernel.Event) (granted bool) {
	if !sm.used {
		sm.used = true
		return true
	}
	sm.waiters = append(sm.waiters, ev)
	return false
}

// ReleaseLink yields the link. If a waiter is queued it is granted the link
// immediately (Δt=0) and the link stays marked used; otherwise the link is
// freed. Callers hold the link for their own request+response latency
// (Task.Sleep) before calling ReleaseLink, exactly as
// unit.ProcessingUnit.ReleaseCore does for vertex latency.
func (sm *SocketManager) ReleaseLink() {
	if len(sm.waiters) > 0 {
		ev := sm.waiters[0]
		sm.waiters = sm.waiters[1:]
		ev.Notify(0)
		return
	}
	sm.used = false
}

// NumWaiters reports the current waiter queue depth, for tests.
func (sm *SocketManager) NumWaiters() int { return len(sm.waiters) }

// Used reports whether the link is currently held.
func (sm *SocketManager) Used() bool { return sm.used }

func unknownLinkError(id string) error {
	return errwrap.Errorf("interconnect: unknown link %q", id)
}
