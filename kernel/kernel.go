// Package kernel implements the discrete-event virtual-time scheduling
// core described for this simulator: a single monotonically advancing
// "simulated now", a priority-ordered set of future notifications, and
// delta-cycle draining of same-timestamp Δt=0 propagations.
//
// Tasks are cooperative fibers, one goroutine each, but only one of them
// ever runs at a time: the Kernel hands off a baton to exactly one task,
// and blocks until that task suspends on Wait/WaitAll or returns. This
// gives the "vertex execution between waits is atomic with respect to
// other simulated tasks" guarantee from the spec without an explicit
// fiber/continuation runtime.
package kernel

import (
	"container/heap"
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/tgsim/tgsim/internal/errwrap"
	"github.com/tgsim/tgsim/internal/xlog"
)

// Time is virtual simulated time, modeled the same way sc_time is in the
// source material: a plain duration relative to simulation start.
type Time = time.Duration

// Unbounded, passed to RunUntil, means "run until the event heap drains".
const Unbounded Time = -1

// Hooks lets callers (typically the metrics package) observe kernel
// activity without the kernel importing them back.
type Hooks struct {
	OnResume  func(task string)
	OnAdvance func(now Time)
	OnNotify  func(dt Time)
}

// Kernel owns the event queue and drives the simulation.
type Kernel struct {
	Logf xlog.Logf

	hooks *Hooks
	rng   *rand.Rand

	now Time

	heap         timeHeap
	inbox        []*Task // tasks made runnable by the most recent fire(s)
	initialTasks []*Task

	yieldCh chan struct{}

	started  bool
	finished bool

	seq uint64 // monotonic tie-breaker for heap entries due at the same time
}

// Option configures a Kernel at construction time.
type Option func(*Kernel)

// WithLogf injects a logging function. Nil means "use the package default".
func WithLogf(fn xlog.Logf) Option {
	return func(k *Kernel) { k.Logf = xlog.Default(fn, "kernel") }
}

// WithHooks attaches instrumentation callbacks (used by the metrics package).
func WithHooks(h *Hooks) Option {
	return func(k *Kernel) { k.hooks = h }
}

// WithSeed makes the kernel shuffle the runnable order within each delta
// cycle, deterministically for a given seed (spec.md §4.1: "the order
// within a delta cycle is unspecified but deterministic for a given run").
// Without WithSeed, runnable order defaults to task registration order
// (see Go's doc comment); tests that need to assert a result does not
// depend on same-delta order should run the same graph under two different
// seeds and compare outcomes.
func WithSeed(seed int64) Option {
	return func(k *Kernel) { k.rng = rand.New(rand.NewSource(seed)) }
}

// shuffle reorders ts in place when a seed was configured; it is a no-op
// otherwise, preserving registration order by default.
func (k *Kernel) shuffle(ts []*Task) {
	if k.rng == nil || len(ts) < 2 {
		return
	}
	k.rng.Shuffle(len(ts), func(i, j int) { ts[i], ts[j] = ts[j], ts[i] })
}

// New builds a Kernel ready for elaboration (graph construction). The
// kernel does not start running until Run or RunUntil is called.
func New(opts ...Option) *Kernel {
	k := &Kernel{
		yieldCh: make(chan struct{}),
	}
	for _, o := range opts {
		o(k)
	}
	k.Logf = xlog.Default(k.Logf, "kernel")
	heap.Init(&k.heap)
	return k
}

// Now returns the current simulated time.
func (k *Kernel) Now() Time { return k.now }

func (k *Kernel) nextSeq() uint64 {
	k.seq++
	return k.seq
}

// Go spawns a cooperative task. The supplied function runs on its own
// goroutine but only executes while it holds the kernel's baton; it must
// call Task.Wait or Task.WaitAll to yield control back. Tasks are
// activated in the first delta cycle of Run/RunUntil, in the order they
// were spawned, unless WithSeed was used to randomize same-delta order.
//
// Calling Go after the kernel has started is a programming error: all
// graph construction must happen during elaboration.
func (k *Kernel) Go(name string, fn func(t *Task)) *Task {
	if k.started {
		panic(fmt.Sprintf("kernel: Go(%s) called after Run started", name))
	}
	t := &Task{
		kernel:   k,
		name:     name,
		resumeCh: make(chan struct{}),
	}
	k.initialTasks = append(k.initialTasks, t)
	go func() {
		<-t.resumeCh
		fn(t)
		t.finished = true
		k.yieldCh <- struct{}{}
	}()
	return t
}

// resumeAndWait hands the baton to t and blocks until t suspends (Wait) or
// finishes. Exactly one goroutine is ever unblocked between these two
// lines, which is what gives the kernel its cooperative, single-threaded
// semantics.
func (k *Kernel) resumeAndWait(t *Task) {
	if k.hooks != nil && k.hooks.OnResume != nil {
		k.hooks.OnResume(t.name)
	}
	t.resumeCh <- struct{}{}
	<-k.yieldCh
}

// drainDelta runs every task in runnable exactly once, folding any newly
// woken tasks (from Δt=0 notifications fired during this delta) back into
// the queue until it is empty. This implements spec.md §4.1 step 1.
func (k *Kernel) drainDelta(ctx context.Context, runnable []*Task) error {
	k.shuffle(runnable)
	for len(runnable) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		t := runnable[0]
		runnable = runnable[1:]
		if t.finished {
			continue
		}
		k.resumeAndWait(t)
		if len(k.inbox) > 0 {
			runnable = append(runnable, k.inbox...)
			k.shuffle(runnable)
			k.inbox = nil
		}
	}
	return nil
}

// RunUntil drives the simulation until the pending-event heap is empty, the
// context is cancelled, or simulated time would exceed until (exclusive of
// events scheduled exactly at until, which still run).
func (k *Kernel) RunUntil(ctx context.Context, until Time) error {
	if k.finished {
		return errwrap.Errorf("kernel: already run to completion")
	}
	k.started = true
	defer func() { k.finished = true }()

	runnable := k.initialTasks
	k.initialTasks = nil

	for {
		if err := k.drainDelta(ctx, runnable); err != nil {
			return err
		}
		if k.heap.Len() == 0 {
			return nil
		}
		topTime := k.heap.entries[0].when
		if until != Unbounded && topTime > until {
			return nil
		}
		k.now = topTime
		if k.hooks != nil && k.hooks.OnAdvance != nil {
			k.hooks.OnAdvance(k.now)
		}
		for k.heap.Len() > 0 && k.heap.entries[0].when == k.now {
			e := heap.Pop(&k.heap).(*timeEntry)
			for _, w := range e.wakeables {
				w.fire(k)
			}
		}
		runnable = k.inbox
		k.inbox = nil
	}
}

// Run drives the simulation to completion (no time bound). It returns when
// there is nothing left to schedule, or the context is cancelled.
func (k *Kernel) Run(ctx context.Context) error {
	return k.RunUntil(ctx, Unbounded)
}

// scheduleFire arranges for the given wakeables to fire at the given
// absolute simulated time. A time <= the current now fires them into the
// current delta's inbox immediately (Δt=0 semantics).
func (k *Kernel) scheduleFire(at Time, ws []wakeable) {
	if len(ws) == 0 {
		return
	}
	if at <= k.now {
		for _, w := range ws {
			w.fire(k)
		}
		return
	}
	heap.Push(&k.heap, &timeEntry{when: at, wakeables: ws, seq: k.nextSeq()})
}
