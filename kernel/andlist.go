package kernel

// AndList is a conjunction of events (spec.md §3, §4.2): a task calling
// WaitAll blocks until every constituent event has fired at least once
// since the wait was armed. Adding a constituent (Add) is an
// elaboration-time operation; the set of events must not change once a
// WaitAll has armed the list.
type AndList struct {
	events []*Event
	bits   []bool
	waiter *Task
}

// NewAndList builds a conjunction over the given events. Passing zero
// events produces an AndList that is trivially satisfied the moment it is
// waited on.
func (k *Kernel) NewAndList(events ...*Event) *AndList {
	return &AndList{
		events: append([]*Event(nil), events...),
		bits:   make([]bool, len(events)),
	}
}

// Add appends another constituent event. Must only be called during
// elaboration, before any Wait has armed this list.
func (al *AndList) Add(ev *Event) {
	if al.waiter != nil {
		panic("kernel: AndList.Add called after arming")
	}
	al.events = append(al.events, ev)
	al.bits = append(al.bits, false)
}

// andWaiter is one leg of an armed AND-list: firing sets the bit at idx and,
// if that completes the conjunction, wakes the list's waiter.
type andWaiter struct {
	al  *AndList
	idx int
}

func (w *andWaiter) fire(k *Kernel) {
	w.al.mark(w.idx, k)
}

func (al *AndList) mark(idx int, k *Kernel) {
	al.bits[idx] = true
	for _, b := range al.bits {
		if !b {
			return
		}
	}
	for i := range al.bits {
		al.bits[i] = false
	}
	t := al.waiter
	al.waiter = nil
	if t != nil {
		k.inbox = append(k.inbox, t)
	}
}

// arm registers t as the current waiter and re-subscribes to every
// constituent event. Called by Task.WaitAll.
func (al *AndList) arm(t *Task) {
	if len(al.events) == 0 {
		// Trivially satisfied: wake immediately next delta.
		t.kernel.inbox = append(t.kernel.inbox, t)
		return
	}
	al.waiter = t
	for i := range al.bits {
		al.bits[i] = false
	}
	for i, ev := range al.events {
		ev.register(&andWaiter{al: al, idx: i})
	}
}
