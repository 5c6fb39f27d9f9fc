package payload

import (
	"sync"

	"github.com/google/uuid"

	"github.com/tgsim/tgsim/internal/errwrap"
	"github.com/tgsim/tgsim/internal/xlog"
)

// Hooks lets callers (typically the metrics package) observe pool
// activity without the pool depending on anything beyond these two
// callbacks.
type Hooks struct {
	OnAllocate func()
	OnReclaim  func()
}

// Pool is a per-manager free list of Transaction and RoutingExtension
// objects (spec.md §4.9). Allocate pops from the free list when one is
// available and constructs a fresh object otherwise, appending it to the
// pool's lifetime-allocated list so pool destruction can account for every
// object ever handed out, not just the ones currently free.
type Pool struct {
	Logf  xlog.Logf
	Hooks *Hooks

	mu sync.Mutex

	free    []*Transaction
	freeExt []*RoutingExtension

	allocated    []*Transaction
	allocatedExt []*RoutingExtension
}

// Option configures a Pool at construction time.
type Option func(*Pool)

// WithLogf injects a logging function.
func WithLogf(fn xlog.Logf) Option {
	return func(p *Pool) { p.Logf = fn }
}

// WithHooks attaches instrumentation callbacks (used by the metrics
// package).
func WithHooks(h *Hooks) Option {
	return func(p *Pool) { p.Hooks = h }
}

// New builds an empty transaction pool.
func New(opts ...Option) *Pool {
	p := &Pool{}
	for _, o := range opts {
		o(p)
	}
	p.Logf = xlog.Default(p.Logf, "payload.pool")
	return p
}

// Allocate returns a Transaction with refs=1, reset to its default field
// values, taken from the free list if non-empty.
func (p *Pool) Allocate() *Transaction {
	p.mu.Lock()
	var t *Transaction
	if n := len(p.free); n > 0 {
		t = p.free[n-1]
		p.free = p.free[:n-1]
		t.refs = 1
	} else {
		t = &Transaction{pool: p, refs: 1, ID: uuid.New()}
		p.allocated = append(p.allocated, t)
	}
	p.mu.Unlock()

	if p.Hooks != nil && p.Hooks.OnAllocate != nil {
		p.Hooks.OnAllocate()
	}
	return t
}

// AllocateRouting returns a RoutingExtension with refs=1, taken from the
// free list if non-empty.
func (p *Pool) AllocateRouting() *RoutingExtension {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n := len(p.freeExt); n > 0 {
		r := p.freeExt[n-1]
		p.freeExt = p.freeExt[:n-1]
		r.refs = 1
		return r
	}
	r := &RoutingExtension{pool: p, refs: 1}
	p.allocatedExt = append(p.allocatedExt, r)
	return r
}

func (p *Pool) reclaim(t *Transaction) {
	p.mu.Lock()
	t.reset()
	p.free = append(p.free, t)
	p.mu.Unlock()

	if p.Hooks != nil && p.Hooks.OnReclaim != nil {
		p.Hooks.OnReclaim()
	}
}

func (p *Pool) reclaimRouting(r *RoutingExtension) {
	p.mu.Lock()
	defer p.mu.Unlock()
	r.reset()
	p.freeExt = append(p.freeExt, r)
}

// Stats reports the lifetime-allocated and currently-free counts for both
// object kinds, for tests asserting invariant P8 (free list length never
// exceeds total allocated count).
type Stats struct {
	Allocated, Free               int
	AllocatedRouting, FreeRouting int
}

// Stats returns a snapshot of the pool's current bookkeeping.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Allocated:        len(p.allocated),
		Free:             len(p.free),
		AllocatedRouting: len(p.allocatedExt),
		FreeRouting:      len(p.freeExt),
	}
}

// LeakEntry names one still-referenced object found at pool destruction.
type LeakEntry struct {
	Kind string // "transaction" or "routing-extension"
	ID   uuid.UUID
	Refs int32
}

// LeakReport is the structured result of Close: every object whose
// reference count was non-zero at destruction time (spec.md §4.9, §7.4:
// "on pool destruction any object with non-zero reference count logs a
// non-fatal warning"). Callers (tests, shutdown paths) can inspect it
// directly instead of scraping a log line.
type LeakReport struct {
	Entries []LeakEntry
}

// Empty reports whether the pool shut down clean.
func (r LeakReport) Empty() bool { return len(r.Entries) == 0 }

// Close tears down the pool, logging (non-fatally) and returning an entry
// for every transaction or routing extension still referenced, along with
// those entries aggregated into a single non-fatal error (spec.md §7 item
// 4: "transactions still referenced when the payload pool is destroyed" is
// a shutdown warning, not a fatal error) via errwrap.Append. err is nil
// when the pool shut down clean.
func (p *Pool) Close() (report LeakReport, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, t := range p.allocated {
		if t.refs != 0 {
			p.Logf("transaction %s leaked with refcount %d", t.ID, t.refs)
			report.Entries = append(report.Entries, LeakEntry{Kind: "transaction", ID: t.ID, Refs: t.refs})
			err = errwrap.Append(err, errwrap.Errorf("transaction %s leaked with refcount %d", t.ID, t.refs))
		}
	}
	for i, r := range p.allocatedExt {
		if r.refs != 0 {
			p.Logf("routing extension #%d leaked with refcount %d", i, r.refs)
			report.Entries = append(report.Entries, LeakEntry{Kind: "routing-extension", Refs: r.refs})
			err = errwrap.Append(err, errwrap.Errorf("routing extension #%d leaked with refcount %d", i, r.refs))
		}
	}
	return report, err
}
