package kernel

// Task is one cooperative fiber. Compute vertices and the if-vertex state
// machine each run as a Task; processing units and socket managers run no
// task of their own and are driven by the tasks that call them.
type Task struct {
	kernel   *Kernel
	name     string
	resumeCh chan struct{}
	finished bool
}

// Name returns the task's elaboration-time name, for diagnostics.
func (t *Task) Name() string { return t.name }

// Kernel returns the owning kernel, so helpers that receive just a *Task
// can still create events/and-lists against the same kernel.
func (t *Task) Kernel() *Kernel { return t.kernel }

// suspend hands control back to the kernel driver and blocks until it is
// resumed by a future notification.
func (t *Task) suspend() {
	t.kernel.yieldCh <- struct{}{}
	<-t.resumeCh
}

// Wait blocks the calling task until ev fires. This is one of the exactly
// two suspension points allowed by the spec (the other is WaitAll).
func (t *Task) Wait(ev *Event) {
	ev.register(&taskWaiter{t: t})
	t.suspend()
}

// WaitAll blocks the calling task until every event in the AND-list has
// fired at least once since this call armed it.
func (t *Task) WaitAll(al *AndList) {
	al.arm(t)
	t.suspend()
}

// Sleep suspends the calling task for dt simulated time. It is built from
// the same primitives as everything else (a private event, Notify) rather
// than being a third kind of suspension point, but it cannot simply call
// Wait followed by Notify or vice versa: Notify only wakes waiters already
// registered at call time, so the registration must happen before Notify
// fires, and suspension must happen after. Sleep therefore registers
// itself on ev directly, fires ev, and only then suspends.
func (t *Task) Sleep(dt Time) {
	ev := t.kernel.NewEvent("sleep")
	ev.register(&taskWaiter{t: t})
	ev.Notify(dt)
	t.suspend()
}
