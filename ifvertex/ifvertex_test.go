package ifvertex_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tgsim/tgsim/ifvertex"
	"github.com/tgsim/tgsim/kernel"
	"github.com/tgsim/tgsim/observer"
	"github.com/tgsim/tgsim/unit"
	"github.com/tgsim/tgsim/vertex"
)

type sink struct {
	fn func(dt kernel.Time, ref observer.DataRef)
}

func (s sink) Notify(dt kernel.Time, ref observer.DataRef) { s.fn(dt, ref) }

// feedWord publishes val through a fresh Subject into obs, from inside a
// kernel task (Notify must be called while holding the baton).
func feedWord(t *kernel.Task, obsCtx *observer.Context, obs observer.Observer, val uint64, width int) {
	publish(obsCtx, obs, val, width)
}

// feedCondition publishes val (0 or 1) through the if-vertex's own
// condition Subject, which the caller constructs and passes to
// ifvertex.New.
func feedCondition(t *kernel.Task, cond *observer.Subject, val uint64) {
	v := observer.NewValue(1)
	if err := v.Write([]byte{byte(val)}); err != nil {
		panic(err)
	}
	_ = cond.NotifyObservers(0, observer.DataRef{Src: v, Len: 1})
}

func publish(obsCtx *observer.Context, obs observer.Observer, val uint64, width int) {
	v := observer.NewValue(width)
	buf := make([]byte, width)
	for i := 0; i < width; i++ {
		buf[i] = byte(val >> (8 * i))
	}
	if err := v.Write(buf); err != nil {
		panic(err)
	}
	s := observer.NewSubject(obsCtx, "src")
	s.Register(obs, 0)
	_ = s.NotifyObservers(0, observer.DataRef{Src: v, Len: width})
}

func word(ref observer.DataRef) uint64 {
	b := ref.Src.Bytes()
	var out uint64
	for i := 0; i < len(b) && i < 8; i++ {
		out |= uint64(b[i]) << (8 * i)
	}
	return out
}

// Scenario 3: if passthrough. Condition true, empty then-path: both
// outbound slots publish the inbound values unchanged.
func TestIfVertexPassthrough(t *testing.T) {
	k := kernel.New()
	arena := observer.NewArena()
	obsCtx := observer.NewContext()
	u := unit.New("u0", "alu")
	condSubject := observer.NewSubject(obsCtx, "cond")

	iv := ifvertex.New(k, ifvertex.Config{
		ID: 1, Name: "iv", NumInEdges: 2, ConditionSubject: condSubject, Unit: u,
	}, arena, obsCtx)
	require.NoError(t, u.AddVertex(iv))

	var slot0, slot1 uint64
	iv.Subject().Register(sink{fn: func(dt kernel.Time, ref observer.DataRef) { slot0 = word(ref) }}, 0)
	iv.Subject().Register(sink{fn: func(dt kernel.Time, ref observer.DataRef) { slot1 = word(ref) }}, 1)

	u.Spawn(k)
	k.Go("feedCond", func(task *kernel.Task) { feedCondition(task, condSubject, 1) })
	k.Go("feedA", func(task *kernel.Task) { feedWord(task, obsCtx, iv.InputObserver(0), 7, 4) })
	k.Go("feedB", func(task *kernel.Task) { feedWord(task, obsCtx, iv.InputObserver(1), 11, 4) })

	require.NoError(t, k.Run(context.Background()))
	require.Equal(t, uint64(7), slot0)
	require.Equal(t, uint64(11), slot1)
}

// Scenario 4: if with then write-back. A PostDec vertex consumes inbound
// edge 0 and writes its pre-decrement value back to outbound slot 0;
// outbound slot 1 passes through unchanged.
func TestIfVertexThenWriteBack(t *testing.T) {
	k := kernel.New()
	arena := observer.NewArena()
	obsCtx := observer.NewContext()
	u := unit.New("u0", "alu")
	condSubject := observer.NewSubject(obsCtx, "cond")

	iv := ifvertex.New(k, ifvertex.Config{
		ID: 1, Name: "iv", NumInEdges: 2, ConditionSubject: condSubject, Unit: u,
	}, arena, obsCtx)
	require.NoError(t, u.AddVertex(iv))

	p, err := iv.AddVertexToThen(vertex.Config{
		ID: 100, Name: "P", Kind: vertex.PostDec, NumInputs: 1, NumOutputs: 1, Width: 4, Latency: 2,
	})
	require.NoError(t, err)
	require.NoError(t, iv.ConnectToThenDependency(p.ID(), 0, 0))
	require.NoError(t, iv.RegisterThenOut(p.ID(), 0, 0))

	var out0, out1 uint64
	var at0, at1 kernel.Time
	iv.Subject().Register(sink{fn: func(dt kernel.Time, ref observer.DataRef) {
		out0 = word(ref)
		at0 = k.Now()
	}}, 0)
	iv.Subject().Register(sink{fn: func(dt kernel.Time, ref observer.DataRef) {
		out1 = word(ref)
		at1 = k.Now()
	}}, 1)

	u.Spawn(k)
	k.Go("feedCond", func(task *kernel.Task) { feedCondition(task, condSubject, 1) })
	k.Go("feedA", func(task *kernel.Task) { feedWord(task, obsCtx, iv.InputObserver(0), 7, 4) })
	k.Go("feedB", func(task *kernel.Task) { feedWord(task, obsCtx, iv.InputObserver(1), 11, 4) })

	require.NoError(t, k.Run(context.Background()))
	require.Equal(t, uint64(7), out0)
	require.Equal(t, uint64(11), out1)
	require.Equal(t, kernel.Time(2), at0)
	require.Equal(t, kernel.Time(2), at1)
}

// Scenario 5: condition flip to else. Mirror of the write-back scenario,
// but condition is false, so only the else-path's PostInc vertex fires;
// the then-path's PostDec vertex must never activate.
func TestIfVertexElseWriteBack(t *testing.T) {
	k := kernel.New()
	arena := observer.NewArena()
	obsCtx := observer.NewContext()
	u := unit.New("u0", "alu")
	condSubject := observer.NewSubject(obsCtx, "cond")

	iv := ifvertex.New(k, ifvertex.Config{
		ID: 1, Name: "iv", NumInEdges: 2, ConditionSubject: condSubject, Unit: u,
	}, arena, obsCtx)
	require.NoError(t, u.AddVertex(iv))

	thenP, err := iv.AddVertexToThen(vertex.Config{
		ID: 100, Name: "P", Kind: vertex.PostDec, NumInputs: 1, NumOutputs: 1, Width: 4, Latency: 2,
	})
	require.NoError(t, err)
	require.NoError(t, iv.ConnectToThenDependency(thenP.ID(), 0, 0))
	require.NoError(t, iv.RegisterThenOut(thenP.ID(), 0, 0))

	elseQ, err := iv.AddVertexToElse(vertex.Config{
		ID: 200, Name: "Q", Kind: vertex.PostInc, NumInputs: 1, NumOutputs: 1, Width: 4, Latency: 3,
	})
	require.NoError(t, err)
	require.NoError(t, iv.ConnectToElseDependency(elseQ.ID(), 0, 0))
	require.NoError(t, iv.RegisterElseOut(elseQ.ID(), 0, 0))

	var out0, out1 uint64
	var at0 kernel.Time
	iv.Subject().Register(sink{fn: func(dt kernel.Time, ref observer.DataRef) {
		out0 = word(ref)
		at0 = k.Now()
	}}, 0)
	iv.Subject().Register(sink{fn: func(dt kernel.Time, ref observer.DataRef) { out1 = word(ref) }}, 1)

	u.Spawn(k)
	k.Go("feedCond", func(task *kernel.Task) { feedCondition(task, condSubject, 0) })
	k.Go("feedA", func(task *kernel.Task) { feedWord(task, obsCtx, iv.InputObserver(0), 7, 4) })
	k.Go("feedB", func(task *kernel.Task) { feedWord(task, obsCtx, iv.InputObserver(1), 11, 4) })

	require.NoError(t, k.Run(context.Background()))
	require.Equal(t, uint64(7), out0) // PostInc also publishes the pre-update value
	require.Equal(t, uint64(11), out1)
	require.Equal(t, kernel.Time(3), at0) // else-path latency, not the then-path's
}
