package kernel

import "container/heap"

// wakeable is anything that can be woken by an Event firing: either a task
// waiting directly on the event, or one leg of an AND-list.
type wakeable interface {
	fire(k *Kernel)
}

// taskWaiter wakes a single task directly.
type taskWaiter struct {
	t *Task
}

func (w *taskWaiter) fire(k *Kernel) {
	k.inbox = append(k.inbox, w.t)
}

// timeEntry is one slot in the future-event heap: a set of wakeables due at
// the same absolute simulated time. seq breaks ties in FIFO order of
// scheduling, giving a deterministic (if unspecified by the spec) ordering
// for a given run.
type timeEntry struct {
	when      Time
	wakeables []wakeable
	seq       uint64
}

type timeHeap struct {
	entries []*timeEntry
}

var _ heap.Interface = (*timeHeap)(nil)

func (h *timeHeap) Len() int { return len(h.entries) }

func (h *timeHeap) Less(i, j int) bool {
	if h.entries[i].when != h.entries[j].when {
		return h.entries[i].when < h.entries[j].when
	}
	return h.entries[i].seq < h.entries[j].seq
}

func (h *timeHeap) Swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
}

func (h *timeHeap) Push(x interface{}) {
	h.entries = append(h.entries, x.(*timeEntry))
}

func (h *timeHeap) Pop() interface{} {
	n := len(h.entries)
	e := h.entries[n-1]
	h.entries[n-1] = nil
	h.entries = h.entries[:n-1]
	return e
}
