package kernel

// Event is a virtual-time notification token (spec.md §3, §4.1). Any task
// currently waiting on it becomes runnable again once Notify fires, either
// in the same delta cycle (Δt=0) or at a future simulated time (Δt>0).
type Event struct {
	kernel  *Kernel
	name    string
	waiters []wakeable
}

// NewEvent creates an event owned by this kernel. Events are normally
// created during elaboration, one per vertex input/output/core-free slot.
func (k *Kernel) NewEvent(name string) *Event {
	return &Event{kernel: k, name: name}
}

// Name returns the event's elaboration-time name, for diagnostics.
func (e *Event) Name() string { return e.name }

// register adds a wakeable to this event's pending waiter list. Used by
// Task.Wait and AndList.arm.
func (e *Event) register(w wakeable) {
	e.waiters = append(e.waiters, w)
}

// Notify schedules a wake-up of every task currently waiting on this event,
// dt simulated time from now. dt == 0 means "later this delta cycle"; dt >
// 0 means "strictly after the current timestamp" (spec.md §5).
//
// Notify must only be called by the task that currently holds the kernel's
// baton (i.e. from inside a running Task body), matching the
// single-threaded cooperative contract.
func (e *Event) Notify(dt Time) {
	ws := e.waiters
	e.waiters = nil
	if e.kernel.hooks != nil && e.kernel.hooks.OnNotify != nil {
		e.kernel.hooks.OnNotify(dt)
	}
	if len(ws) == 0 {
		return
	}
	e.kernel.scheduleFire(e.kernel.now+dt, ws)
}
