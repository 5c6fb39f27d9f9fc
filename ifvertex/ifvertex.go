// Package ifvertex implements the hierarchical if-vertex state machine
// (spec.md §3, §4.7): condition-gated dispatch into a then- or else-path of
// sub-vertices, followed by a join and a single synchronous publish of the
// mirrored outbound values.
package ifvertex

import (
	"github.com/tgsim/tgsim/internal/errwrap"
	"github.com/tgsim/tgsim/internal/xlog"
	"github.com/tgsim/tgsim/kernel"
	"github.com/tgsim/tgsim/observer"
	"github.com/tgsim/tgsim/unit"
	"github.com/tgsim/tgsim/vertex"
)

// IfVertex is a branching task-graph node: N data inputs plus a condition,
// a then-path and an else-path of sub-vertices, and N mirrored outputs.
type IfVertex struct {
	Logf xlog.Logf

	k     *kernel.Kernel
	arena *observer.Arena
	obsCtx *observer.Context
	unit  *unit.ProcessingUnit

	id      uint64
	name    string
	color   int
	latency kernel.Time

	condArena    *observer.Arena
	condValue    *observer.Value
	condEvent    *kernel.Event
	condObserver *observer.PlainObserver

	numEdges    int
	inboundSlots []*observer.DataRefSlot
	inboundEvs   []*kernel.Event
	inboundObs   []*observer.InterconnectObserver
	inbound      *kernel.AndList

	outbound []*observer.DataRefSlot
	outSubj  *observer.Subject

	then *SubPath
	els  *SubPath

	thenNodes map[int]bool
	elseNodes map[int]bool
}

// Config describes an IfVertex at elaboration time.
type Config struct {
	ID               uint64
	Name             string
	Color            int
	Latency          kernel.Time
	NumInEdges       int
	ConditionSubject *observer.Subject
	Unit             *unit.ProcessingUnit
	Logf             xlog.Logf
}

// New elaborates an if-vertex: allocates its condition and inbound/outbound
// storage, builds the inbound AND-list, and registers its condition
// observer against cfg.ConditionSubject. It does not start the vertex's
// task; call Spawn once the whole graph, including both sub-paths, is
// wired.
func New(k *kernel.Kernel, cfg Config, arena *observer.Arena, obsCtx *observer.Context) *IfVertex {
	iv := &IfVertex{
		Logf:     xlog.Default(cfg.Logf, "ifvertex."+cfg.Name),
		k:        k,
		arena:    arena,
		obsCtx:   obsCtx,
		unit:     cfg.Unit,
		id:       cfg.ID,
		name:     cfg.Name,
		color:    cfg.Color,
		latency:  cfg.Latency,
		numEdges: cfg.NumInEdges,
		condArena: observer.NewArena(),
		condEvent: k.NewEvent(cfg.Name + ".cond"),
		outSubj:   observer.NewSubject(obsCtx, cfg.Name),
		thenNodes: make(map[int]bool),
		elseNodes: make(map[int]bool),
	}

	condHandle := observer.Handle{VertexID: cfg.ID, Index: 0}
	iv.condValue = iv.condArena.Alloc(condHandle, 1)
	iv.condObserver = observer.NewPlainObserver(iv.condArena, condHandle, iv.condEvent)
	cfg.ConditionSubject.Register(iv.condObserver, 0)

	andEvents := []*kernel.Event{iv.condEvent}
	for i := 0; i < cfg.NumInEdges; i++ {
		ev := k.NewEvent(cfg.Name + ".in")
		slot := observer.NewDataRefSlot()
		iv.inboundSlots = append(iv.inboundSlots, slot)
		iv.inboundEvs = append(iv.inboundEvs, ev)
		iv.inboundObs = append(iv.inboundObs, observer.NewInterconnectObserver(slot, ev))
		iv.outbound = append(iv.outbound, observer.NewDataRefSlot())
		andEvents = append(andEvents, ev)
	}
	iv.inbound = k.NewAndList(andEvents...)

	iv.then = newSubPath(k, obsCtx, Then)
	iv.els = newSubPath(k, obsCtx, Else)

	return iv
}

// ID, Name and Kind satisfy unit.Vertex so an if-vertex can be owned by a
// ProcessingUnit the same way a ComputeVertex is.
func (iv *IfVertex) ID() uint64   { return iv.id }
func (iv *IfVertex) Name() string { return iv.name }
func (iv *IfVertex) Kind() string { return "if" }

// InputObserver returns the Observer a predecessor must Register(obs,
// outID) to feed inbound (non-condition) edge i.
func (iv *IfVertex) InputObserver(i int) observer.Observer { return iv.inboundObs[i] }

// Subject returns the if-vertex's outbound subject; external successors
// Register against output ids 0..NumInEdges-1.
func (iv *IfVertex) Subject() *observer.Subject { return iv.outSubj }

// AddVertexToThen elaborates a compute vertex inside the then-path, owned
// by the if-vertex's unit.
func (iv *IfVertex) AddVertexToThen(cfg vertex.Config) (*vertex.ComputeVertex, error) {
	cfg.Unit = iv.unit
	return iv.then.addVertex(iv.k, iv.arena, iv.obsCtx, iv.unit, cfg)
}

// AddVertexToElse elaborates a compute vertex inside the else-path, owned
// by the if-vertex's unit.
func (iv *IfVertex) AddVertexToElse(cfg vertex.Config) (*vertex.ComputeVertex, error) {
	cfg.Unit = iv.unit
	return iv.els.addVertex(iv.k, iv.arena, iv.obsCtx, iv.unit, cfg)
}

// ConnectInsideThenPath wires srcID's output outID directly to dstID's
// input obsID, both sub-vertices of the then-path.
func (iv *IfVertex) ConnectInsideThenPath(srcID, dstID uint64, outID, obsID int) error {
	return connectInsidePath(iv.then, srcID, dstID, outID, obsID)
}

// ConnectInsideElsePath is the else-path counterpart of
// ConnectInsideThenPath.
func (iv *IfVertex) ConnectInsideElsePath(srcID, dstID uint64, outID, obsID int) error {
	return connectInsidePath(iv.els, srcID, dstID, outID, obsID)
}

func connectInsidePath(p *SubPath, srcID, dstID uint64, outID, obsID int) error {
	src, ok := p.vertices[srcID]
	if !ok {
		return unknownSubVertexError(p.tag, srcID)
	}
	dst, ok := p.vertices[dstID]
	if !ok {
		return unknownSubVertexError(p.tag, dstID)
	}
	src.Subject().Register(dst.InputObserver(obsID), outID)
	return nil
}

// ConnectToThenDependency feeds inbound edge edgeID into dstID's input
// obsID whenever the then-path dispatches, and marks edgeID as a
// then-node (it will be published into the then-path subject at
// dispatch time).
func (iv *IfVertex) ConnectToThenDependency(dstID uint64, obsID, edgeID int) error {
	return connectToDependency(iv.then, iv.thenNodes, dstID, obsID, edgeID)
}

// ConnectToElseDependency is the else-path counterpart of
// ConnectToThenDependency.
func (iv *IfVertex) ConnectToElseDependency(dstID uint64, obsID, edgeID int) error {
	return connectToDependency(iv.els, iv.elseNodes, dstID, obsID, edgeID)
}

func connectToDependency(p *SubPath, nodes map[int]bool, dstID uint64, obsID, edgeID int) error {
	dst, ok := p.vertices[dstID]
	if !ok {
		return unknownSubVertexError(p.tag, dstID)
	}
	p.subject.Register(dst.InputObserver(obsID), edgeID)
	nodes[edgeID] = true
	return nil
}

// RegisterThenOut marks subID's output valID as a write-back for outbound
// edge inEdgeID: a join event is added to the then-path's join AND-list,
// and an observer is installed on the sub-vertex's output that overwrites
// the if-vertex's outbound slot inEdgeID and then fires that join event.
func (iv *IfVertex) RegisterThenOut(subID uint64, inEdgeID, valID int) error {
	return iv.registerOut(iv.then, subID, inEdgeID, valID)
}

// RegisterElseOut is the else-path counterpart of RegisterThenOut.
func (iv *IfVertex) RegisterElseOut(subID uint64, inEdgeID, valID int) error {
	return iv.registerOut(iv.els, subID, inEdgeID, valID)
}

func (iv *IfVertex) registerOut(p *SubPath, subID uint64, inEdgeID, valID int) error {
	sub, ok := p.vertices[subID]
	if !ok {
		return unknownSubVertexError(p.tag, subID)
	}
	if inEdgeID < 0 || inEdgeID >= len(iv.outbound) {
		return errwrap.Errorf("if-vertex %s: write-back out-edge %d out of range", iv.name, inEdgeID)
	}
	joinEv := iv.k.NewEvent(iv.name + "." + p.tag.String() + ".join")
	p.join.Add(joinEv)
	obs := observer.NewInterconnectObserver(iv.outbound[inEdgeID], joinEv)
	sub.Subject().Register(obs, valID)
	return nil
}

// Spawn starts the if-vertex's own dispatch/join/publish task. Sub-vertices
// placed in either path are owned directly by the if-vertex's
// ProcessingUnit (AddVertexToThen/Else adds them there too), so the unit's
// own Spawn sweep starts them; Spawn here must not start them a second
// time.
func (iv *IfVertex) Spawn(k *kernel.Kernel) {
	k.Go(iv.name, iv.run)
}
