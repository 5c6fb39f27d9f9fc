package ifvertex

import (
	"sort"

	"github.com/tgsim/tgsim/kernel"
	"github.com/tgsim/tgsim/observer"
	"github.com/tgsim/tgsim/unit"
	"github.com/tgsim/tgsim/vertex"
)

// Tag distinguishes an if-vertex's two sub-paths. Both paths are the same
// shape (spec.md §9: "two near-identical inner classes, ThenPath and
// ElsePath"), so they share one SubPath type tagged by which branch it is.
type Tag int

const (
	Then Tag = iota
	Else
)

func (tg Tag) String() string {
	if tg == Then {
		return "then"
	}
	return "else"
}

// SubPath holds one branch of an if-vertex: the sub-vertices placed inside
// it, the Subject used to fan dispatch values into them, and the join
// AND-list that gathers their write-backs before the if-vertex publishes.
type SubPath struct {
	tag      Tag
	subject  *observer.Subject
	vertices map[uint64]*vertex.ComputeVertex
	join     *kernel.AndList
}

func newSubPath(k *kernel.Kernel, obsCtx *observer.Context, tag Tag) *SubPath {
	return &SubPath{
		tag:      tag,
		subject:  observer.NewSubject(obsCtx, tag.String()),
		vertices: make(map[uint64]*vertex.ComputeVertex),
		join:     k.NewAndList(),
	}
}

// addVertex elaborates a compute vertex inside this path, owned by u. The
// vertex number must be unique within the path (spec.md invariant 1).
func (p *SubPath) addVertex(k *kernel.Kernel, arena *observer.Arena, obsCtx *observer.Context, u *unit.ProcessingUnit, cfg vertex.Config) (*vertex.ComputeVertex, error) {
	if _, exists := p.vertices[cfg.ID]; exists {
		return nil, duplicateSubVertexError(p.tag, cfg.ID)
	}
	v := vertex.New(k, cfg, arena, obsCtx)
	if err := u.AddVertex(v); err != nil {
		return nil, err
	}
	p.vertices[cfg.ID] = v
	return v, nil
}

// sortedVertices returns the path's sub-vertices ordered by id, for
// deterministic diagnostic output (Graphviz); p.vertices is a map because
// lookup by id is the hot path (connectInsidePath, registerOut), not
// iteration.
func (p *SubPath) sortedVertices() []*vertex.ComputeVertex {
	ids := make([]uint64, 0, len(p.vertices))
	for id := range p.vertices {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*vertex.ComputeVertex, len(ids))
	for i, id := range ids {
		out[i] = p.vertices[id]
	}
	return out
}
