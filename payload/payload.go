// Package payload implements the transaction/payload pool used to model
// routed inter-unit messages (spec.md §4.9): a per-manager free list of
// transaction objects (and their routing extensions), taken from the free
// list when available and constructed fresh otherwise, released back onto
// it by reference count rather than by an explicit destroy call.
package payload

import (
	"github.com/google/uuid"

	"github.com/tgsim/tgsim/observer"
)

// Command distinguishes the small set of operations a Transaction carries.
// Only ReadCommand is exercised by the interconnect today; the type exists
// so a future write path doesn't need a breaking change.
type Command int

const (
	ReadCommand Command = iota
	WriteCommand
)

func (c Command) String() string {
	if c == WriteCommand {
		return "write"
	}
	return "read"
}

// Response is the non-fatal validation outcome of a Transaction (spec.md
// §7, taxonomy item 3). Structural and runtime-contract errors are not
// modeled here: those are fatal and reported as Go errors at the call
// site, not as a Response value.
type Response int

const (
	RespOK Response = iota
	RespStreamingWidthMismatch
	RespByteEnableUnsupported
)

func (r Response) String() string {
	switch r {
	case RespStreamingWidthMismatch:
		return "streaming-width mismatch"
	case RespByteEnableUnsupported:
		return "byte-enable not implemented"
	default:
		return "ok"
	}
}

// RoutingExtension is the piggy-back record on a payload giving the
// remaining hop counts in two coordinates (spec.md glossary).
type RoutingExtension struct {
	pool *Pool
	refs int32

	DX, DY int
}

func (r *RoutingExtension) reset() {
	r.DX, r.DY = 0, 0
}

// Retain increments the routing extension's reference count.
func (r *RoutingExtension) Retain() { r.refs++ }

// Release decrements the routing extension's reference count, reclaiming it
// onto the pool's free list once the count reaches zero.
func (r *RoutingExtension) Release() {
	r.refs--
	if r.refs <= 0 {
		r.pool.reclaimRouting(r)
	}
}

// Refs reports the current reference count, for tests and leak reporting.
func (r *RoutingExtension) Refs() int32 { return r.refs }

// Transaction is an inter-unit message object allocated from a Pool
// (spec.md glossary "Transaction / payload"). Address holds the
// destination value id the packing step looked up in the unit's
// TransmissionData table; Data is the (pointer, length) pair copied from
// the source observer slot, not copied again here.
type Transaction struct {
	pool *Pool
	refs int32

	ID      uuid.UUID
	Command Command

	Address        int
	Data           observer.DataRef
	StreamingWidth int
	ByteEnable     bool

	Response Response
	Routing  *RoutingExtension
}

func (t *Transaction) reset() {
	t.Command = ReadCommand
	t.Address = 0
	t.Data = observer.DataRef{}
	t.StreamingWidth = 0
	t.ByteEnable = false
	t.Response = RespOK
	t.Routing = nil
}

// Retain increments the transaction's reference count. Callers that stash a
// Transaction beyond the call that produced it (e.g. to route it across
// multiple hops) must Retain before handing off and Release when done.
func (t *Transaction) Retain() { t.refs++ }

// Release decrements the transaction's reference count, reclaiming it onto
// the pool's free list once the count reaches zero (spec.md §4.9: "when
// their reference count drops to zero the pool reclaims them"). The
// attached routing extension, if any, is released at the same moment.
func (t *Transaction) Release() {
	t.refs--
	if t.refs <= 0 {
		if r := t.Routing; r != nil {
			t.Routing = nil
			r.Release()
		}
		t.pool.reclaim(t)
	}
}

// Refs reports the current reference count, for tests and leak reporting.
func (t *Transaction) Refs() int32 { return t.refs }
