// Package vertex implements the generic Compute Vertex template (spec.md
// §3, §4.4): a single N-input/M-output state machine parameterized by a
// pluggable operation, rather than one Go type per arithmetic op kind.
package vertex

import (
	"github.com/tgsim/tgsim/internal/xlog"
	"github.com/tgsim/tgsim/kernel"
	"github.com/tgsim/tgsim/observer"
	"github.com/tgsim/tgsim/unit"
)

// ComputeVertex is the generic combinational-with-latency vertex described
// in spec.md §4.4: wait for all inputs, arbitrate for the owning unit's
// core, compute, hold the core for the declared latency, then publish.
type ComputeVertex struct {
	Logf xlog.Logf

	id      uint64
	name    string
	color   int
	kind    Kind
	op      Op
	latency kernel.Time
	width   int
	unit    *unit.ProcessingUnit

	arena   *observer.Arena
	inputs  []*observer.Value
	inEvs   []*kernel.Event
	inbound *kernel.AndList
	inObs   *observer.Manager

	outputs []*observer.Value
	subject *observer.Subject

	coreFree *kernel.Event
}

// Config describes a ComputeVertex at elaboration time.
type Config struct {
	ID         uint64
	Name       string
	Color      int
	Kind       Kind
	Op         Op // overrides Builtins[Kind] when non-nil
	NumInputs  int
	NumOutputs int
	Width      int // byte width of every input/output word
	Latency    kernel.Time
	Unit       *unit.ProcessingUnit
	Logf       xlog.Logf
}

// New elaborates a ComputeVertex on k: allocates its input/output storage
// in arena, builds its inbound AND-list and per-input observers, and
// creates its output Subject. It does not start the vertex's task; call
// Spawn (or let the owning ProcessingUnit do so) once the whole graph is
// wired.
func New(k *kernel.Kernel, cfg Config, arena *observer.Arena, obsCtx *observer.Context) *ComputeVertex {
	op := cfg.Op
	if op == nil {
		op = Builtins[cfg.Kind]
	}
	if op == nil {
		panic("vertex: no op registered for kind " + string(cfg.Kind))
	}

	v := &ComputeVertex{
		Logf:     xlog.Default(cfg.Logf, "vertex."+cfg.Name),
		id:       cfg.ID,
		name:     cfg.Name,
		color:    cfg.Color,
		kind:     cfg.Kind,
		op:       op,
		latency:  cfg.Latency,
		width:    cfg.Width,
		unit:     cfg.Unit,
		arena:    arena,
		inObs:    observer.NewManager(),
		subject:  observer.NewSubject(obsCtx, cfg.Name),
		coreFree: k.NewEvent(cfg.Name + ".core_free"),
	}

	for i := 0; i < cfg.NumInputs; i++ {
		h := observer.Handle{VertexID: cfg.ID, Index: inputIndex(i)}
		v.inputs = append(v.inputs, arena.Alloc(h, cfg.Width))
		ev := k.NewEvent(cfg.Name + ".in")
		v.inEvs = append(v.inEvs, ev)
		v.inObs.Add(observer.NewPlainObserver(arena, h, ev))
	}
	v.inbound = k.NewAndList(v.inEvs...)

	for j := 0; j < cfg.NumOutputs; j++ {
		h := observer.Handle{VertexID: cfg.ID, Index: outputIndex(j)}
		v.outputs = append(v.outputs, arena.Alloc(h, cfg.Width))
	}
	return v
}

// inputIndex and outputIndex keep input and output handles in disjoint
// namespaces within one vertex's arena slots without a second map.
func inputIndex(i int) int  { return i }
func outputIndex(j int) int { return -(j + 1) }

// ID, Name, Kind and Color identify the vertex for diagnostics and Graphviz
// export; ID/Name/Kind also satisfy unit.Vertex.
func (v *ComputeVertex) ID() uint64   { return v.id }
func (v *ComputeVertex) Name() string { return v.name }
func (v *ComputeVertex) Kind() string { return string(v.kind) }
func (v *ComputeVertex) Color() int   { return v.color }

// Subject returns the vertex's single output subject; successors Register
// against output id 0..NumOutputs-1.
func (v *ComputeVertex) Subject() *observer.Subject { return v.subject }

// InputObserver returns the Observer a predecessor must Register(obs, outID)
// to feed this vertex's input i.
func (v *ComputeVertex) InputObserver(i int) observer.Observer {
	obs, _ := v.inObs.Get(i)
	return obs
}

// OutputValue exposes output j's storage, mainly for tests and debug dumps.
func (v *ComputeVertex) OutputValue(j int) *observer.Value { return v.outputs[j] }

// InputValue exposes input i's storage, mainly for tests and debug dumps.
func (v *ComputeVertex) InputValue(i int) *observer.Value { return v.inputs[i] }
