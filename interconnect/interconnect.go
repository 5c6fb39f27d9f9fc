package interconnect

import (
	"github.com/tgsim/tgsim/internal/errwrap"
	"github.com/tgsim/tgsim/internal/xlog"
	"github.com/tgsim/tgsim/kernel"
	"github.com/tgsim/tgsim/observer"
	"github.com/tgsim/tgsim/payload"
)

// Interconnect is one processing unit's outgoing side: a fixed table of
// TransmissionData keyed by observer id, a SocketManager per outgoing
// link, and the pool transactions are packed from (spec.md §4.8).
type Interconnect struct {
	Logf xlog.Logf

	k    *kernel.Kernel
	pool *payload.Pool

	requestLatency  kernel.Time
	responseLatency kernel.Time

	streamingWidth int

	table map[int]TransmissionData
	links map[string]*SocketManager
}

// Config describes an Interconnect at elaboration time.
type Config struct {
	// RequestLatency and ResponseLatency together are the virtual time a
	// transaction holds its outgoing link for (spec.md §8 scenario 6:
	// "the first's response + request delays").
	RequestLatency  kernel.Time
	ResponseLatency kernel.Time
	// StreamingWidth is the byte width every packed transaction declares;
	// validate rejects a transaction whose declared width exceeds the
	// source data actually available.
	StreamingWidth int
	Logf           xlog.Logf
}

// New builds an Interconnect bound to pool for transaction allocation.
func New(k *kernel.Kernel, pool *payload.Pool, cfg Config) *Interconnect {
	return &Interconnect{
		Logf:            xlog.Default(cfg.Logf, "interconnect"),
		k:               k,
		pool:            pool,
		requestLatency:  cfg.RequestLatency,
		responseLatency: cfg.ResponseLatency,
		streamingWidth:  cfg.StreamingWidth,
		table:           make(map[int]TransmissionData),
		links:           make(map[string]*SocketManager),
	}
}

// AddLink registers a new outgoing link and returns its SocketManager.
func (ic *Interconnect) AddLink(id string) *SocketManager {
	sm := NewSocketManager(id, WithSocketLogf(ic.Logf))
	ic.links[id] = sm
	return sm
}

// SetTransmission installs the fixed routing entry for observer id oid.
func (ic *Interconnect) SetTransmission(oid int, td TransmissionData) {
	ic.table[oid] = td
}

// Send packs ref (the current (data-pointer, length) pair read from an
// observer slot) into a Transaction for observer id oid, arbitrates for
// the link named in oid's TransmissionData, holds it for the configured
// request+response latency, and returns the transaction for the caller to
// route and eventually Release.
//
// A structurally missing table entry or link is a fatal configuration
// error, returned rather than panicked since it is detected at call time,
// not elaboration time. An invalid transaction (validate fails) is
// returned with its Response field set and ok=false; the caller must drop
// it (spec.md §7 item 3) rather than route it further.
func (ic *Interconnect) Send(t *kernel.Task, oid int, ref observer.DataRef) (txn *payload.Transaction, ok bool, err error) {
	td, known := ic.table[oid]
	if !known {
		return nil, false, errwrap.Errorf("interconnect: no transmission data for observer id %d", oid)
	}
	sm, known := ic.links[td.OutLink]
	if !known {
		return nil, false, unknownLinkError(td.OutLink)
	}

	ev := ic.k.NewEvent("link-free")
	if !sm.RequestLink(ev) {
		t.Wait(ev)
	}

	txn = ic.pool.Allocate()
	txn.Command = payload.ReadCommand
	txn.Address = td.DestValueID
	txn.Data = ref
	txn.StreamingWidth = ic.streamingWidth
	txn.Routing = ic.pool.AllocateRouting()
	txn.Routing.DX, txn.Routing.DY = td.DX, td.DY

	valid := validate(txn)

	t.Sleep(ic.requestLatency + ic.responseLatency)
	sm.ReleaseLink()

	if !valid {
		return txn, false, nil
	}
	return txn, true, nil
}

// Link returns the named link's socket manager, for tests and diagnostics.
func (ic *Interconnect) Link(id string) (*SocketManager, bool) {
	sm, ok := ic.links[id]
	return sm, ok
}
