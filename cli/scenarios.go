// Package cli wires the simulator packages into a small runnable demo: one
// subcommand per end-to-end scenario, each building a tiny graph by hand and
// printing the published results once the kernel drains.
package cli

import (
	"context"
	"fmt"

	"github.com/tgsim/tgsim/ifvertex"
	"github.com/tgsim/tgsim/interconnect"
	"github.com/tgsim/tgsim/kernel"
	"github.com/tgsim/tgsim/observer"
	"github.com/tgsim/tgsim/payload"
	"github.com/tgsim/tgsim/unit"
	"github.com/tgsim/tgsim/vertex"
)

func feedWord(obsCtx *observer.Context, obs observer.Observer, val uint64, width int) {
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

func wordOf(ref observer.DataRef) uint64 {
	b := ref.Src.Bytes()
	var out uint64
	for i := 0; i < len(b) && i < 8; i++ {
		out |= uint64(b[i]) << (8 * i)
	}
	return out
}

// printSink prints published values at the kernel's current simulated time.
// Subject.NotifyObservers always calls Notify with dt=0 (a same-delta
// publish, spec.md §4.3), so the actual elapsed simulated time has to be
// read from the kernel at print time rather than from dt.
type printSink struct {
	label string
	k     *kernel.Kernel
}

func (p printSink) Notify(dt kernel.Time, ref observer.DataRef) {
	fmt.Printf("  %s published 0x%x at t=%d\n", p.label, wordOf(ref), p.k.Now())
}

// runTwoInputAND is spec scenario 1: a BitAnd vertex fires once both its
// inputs arrive, publishing at t + latency.
func runTwoInputAND(ctx context.Context) error {
	k := kernel.New()
	arena := observer.NewArena()
	obsCtx := observer.NewContext()
	u := unit.New("u0", "alu")

	v := vertex.New(k, vertex.Config{
		ID: 1, Name: "V", Kind: vertex.BitAnd,
		NumInputs: 2, NumOutputs: 1, Width: 1, Latency: 5, Unit: u,
	}, arena, obsCtx)
	if err := u.AddVertex(v); err != nil {
		return err
	}
	v.Subject().Register(printSink{label: "V", k: k}, 0)

	u.Spawn(k)
	k.Go("feedS1", func(t *kernel.Task) { feedWord(obsCtx, v.InputObserver(0), 0xF0, 1) })
	k.Go("feedS2", func(t *kernel.Task) { feedWord(obsCtx, v.InputObserver(1), 0x0F, 1) })

	return k.Run(ctx)
}

// runArbitration is spec scenario 2: two Add vertices share one unit; the
// first elaborated wins arbitration and publishes first.
func runArbitration(ctx context.Context) error {
	k := kernel.New()
	arena := observer.NewArena()
	obsCtx := observer.NewContext()
	u := unit.New("u0", "alu")

	v1 := vertex.New(k, vertex.Config{
		ID: 1, Name: "V1", Kind: vertex.Add,
		NumInputs: 2, NumOutputs: 1, Width: 4, Latency: 10, Unit: u,
	}, arena, obsCtx)
	v2 := vertex.New(k, vertex.Config{
		ID: 2, Name: "V2", Kind: vertex.Add,
		NumInputs: 2, NumOutputs: 1, Width: 4, Latency: 10, Unit: u,
	}, arena, obsCtx)
	if err := u.AddVertex(v1); err != nil {
		return err
	}
	if err := u.AddVertex(v2); err != nil {
		return err
	}
	v1.Subject().Register(printSink{label: "V1", k: k}, 0)
	v2.Subject().Register(printSink{label: "V2", k: k}, 0)

	u.Spawn(k)
	k.Go("feedV1a", func(t *kernel.Task) { feedWord(obsCtx, v1.InputObserver(0), 1, 4) })
	k.Go("feedV1b", func(t *kernel.Task) { feedWord(obsCtx, v1.InputObserver(1), 2, 4) })
	k.Go("feedV2a", func(t *kernel.Task) { feedWord(obsCtx, v2.InputObserver(0), 3, 4) })
	k.Go("feedV2b", func(t *kernel.Task) { feedWord(obsCtx, v2.InputObserver(1), 4, 4) })

	return k.Run(ctx)
}

func feedCondition(cond *observer.Subject, val uint64) {
	v := observer.NewValue(1)
	if err := v.Write([]byte{byte(val)}); err != nil {
		panic(err)
	}
	_ = cond.NotifyObservers(0, observer.DataRef{Src: v, Len: 1})
}

// runIfPassthrough is spec scenario 3: an if-vertex with an empty then-path
// mirrors its inbound edges straight to its outbound slots.
func runIfPassthrough(ctx context.Context) error {
	k := kernel.New()
	arena := observer.NewArena()
	obsCtx := observer.NewContext()
	u := unit.New("u0", "alu")
	cond := observer.NewSubject(obsCtx, "cond")

	iv := ifvertex.New(k, ifvertex.Config{
		ID: 1, Name: "IV", NumInEdges: 2, ConditionSubject: cond, Unit: u,
	}, arena, obsCtx)
	if err := u.AddVertex(iv); err != nil {
		return err
	}
	iv.Subject().Register(printSink{label: "IV.out0", k: k}, 0)
	iv.Subject().Register(printSink{label: "IV.out1", k: k}, 1)

	u.Spawn(k)
	k.Go("feedCond", func(t *kernel.Task) { feedCondition(cond, 1) })
	k.Go("feedA", func(t *kernel.Task) { feedWord(obsCtx, iv.InputObserver(0), 7, 4) })
	k.Go("feedB", func(t *kernel.Task) { feedWord(obsCtx, iv.InputObserver(1), 11, 4) })

	return k.Run(ctx)
}

// runIfThenWriteBack is spec scenario 4: a PostDec sub-vertex in the
// then-path overwrites outbound slot 0 with its pre-decrement value.
func runIfThenWriteBack(ctx context.Context) error {
	k := kernel.New()
	arena := observer.NewArena()
	obsCtx := observer.NewContext()
	u := unit.New("u0", "alu")
	cond := observer.NewSubject(obsCtx, "cond")

	iv := ifvertex.New(k, ifvertex.Config{
		ID: 1, Name: "IV", NumInEdges: 2, ConditionSubject: cond, Unit: u,
	}, arena, obsCtx)
	if err := u.AddVertex(iv); err != nil {
		return err
	}

	p, err := iv.AddVertexToThen(vertex.Config{
		ID: 100, Name: "P", Kind: vertex.PostDec, NumInputs: 1, NumOutputs: 1, Width: 4, Latency: 2,
	})
	if err != nil {
		return err
	}
	if err := iv.ConnectToThenDependency(p.ID(), 0, 0); err != nil {
		return err
	}
	if err := iv.RegisterThenOut(p.ID(), 0, 0); err != nil {
		return err
	}

	iv.Subject().Register(printSink{label: "IV.out0", k: k}, 0)
	iv.Subject().Register(printSink{label: "IV.out1", k: k}, 1)

	u.Spawn(k)
	k.Go("feedCond", func(t *kernel.Task) { feedCondition(cond, 1) })
	k.Go("feedA", func(t *kernel.Task) { feedWord(obsCtx, iv.InputObserver(0), 7, 4) })
	k.Go("feedB", func(t *kernel.Task) { feedWord(obsCtx, iv.InputObserver(1), 11, 4) })

	return k.Run(ctx)
}

// runIfElseFlip is spec scenario 5: condition false routes dispatch into the
// else-path only; the then-path's PostDec vertex never activates.
func runIfElseFlip(ctx context.Context) error {
	k := kernel.New()
	arena := observer.NewArena()
	obsCtx := observer.NewContext()
	u := unit.New("u0", "alu")
	cond := observer.NewSubject(obsCtx, "cond")

	iv := ifvertex.New(k, ifvertex.Config{
		ID: 1, Name: "IV", NumInEdges: 2, ConditionSubject: cond, Unit: u,
	}, arena, obsCtx)
	if err := u.AddVertex(iv); err != nil {
		return err
	}

	thenP, err := iv.AddVertexToThen(vertex.Config{
		ID: 100, Name: "P", Kind: vertex.PostDec, NumInputs: 1, NumOutputs: 1, Width: 4, Latency: 2,
	})
	if err != nil {
		return err
	}
	if err := iv.ConnectToThenDependency(thenP.ID(), 0, 0); err != nil {
		return err
	}
	if err := iv.RegisterThenOut(thenP.ID(), 0, 0); err != nil {
		return err
	}

	elseQ, err := iv.AddVertexToElse(vertex.Config{
		ID: 200, Name: "Q", Kind: vertex.PostInc, NumInputs: 1, NumOutputs: 1, Width: 4, Latency: 3,
	})
	if err != nil {
		return err
	}
	if err := iv.ConnectToElseDependency(elseQ.ID(), 0, 0); err != nil {
		return err
	}
	if err := iv.RegisterElseOut(elseQ.ID(), 0, 0); err != nil {
		return err
	}

	iv.Subject().Register(printSink{label: "IV.out0", k: k}, 0)
	iv.Subject().Register(printSink{label: "IV.out1", k: k}, 1)

	u.Spawn(k)
	k.Go("feedCond", func(t *kernel.Task) { feedCondition(cond, 0) })
	k.Go("feedA", func(t *kernel.Task) { feedWord(obsCtx, iv.InputObserver(0), 7, 4) })
	k.Go("feedB", func(t *kernel.Task) { feedWord(obsCtx, iv.InputObserver(1), 11, 4) })

	return k.Run(ctx)
}

// runInterconnect is spec scenario 6: two transactions targeting the same
// outgoing link serialize, the second beginning only after the first's
// request+response latency has fully elapsed.
func runInterconnect(ctx context.Context) error {
	k := kernel.New()
	pool := payload.New()
	ic := interconnect.New(k, pool, interconnect.Config{
		RequestLatency: 3, ResponseLatency: 4, StreamingWidth: 4,
	})
	ic.AddLink("L")
	ic.SetTransmission(0, interconnect.TransmissionData{OutLink: "L", DX: 1, DY: 0, DestValueID: 10})
	ic.SetTransmission(1, interconnect.TransmissionData{OutLink: "L", DX: 1, DY: 0, DestValueID: 20})

	src := observer.NewValue(4)
	if err := src.Write([]byte{1, 2, 3, 4}); err != nil {
		return err
	}
	ref := observer.DataRef{Src: src, Len: 4}

	k.Go("sender-a", func(t *kernel.Task) {
		txn, ok, err := ic.Send(t, 0, ref)
		if err != nil {
			panic(err)
		}
		fmt.Printf("  sender-a: ok=%v at t=%d\n", ok, t.Kernel().Now())
		txn.Release()
	})
	k.Go("sender-b", func(t *kernel.Task) {
		txn, ok, err := ic.Send(t, 1, ref)
		if err != nil {
			panic(err)
		}
		fmt.Printf("  sender-b: ok=%v at t=%d\n", ok, t.Kernel().Now())
		txn.Release()
	})

	if err := k.Run(ctx); err != nil {
		return err
	}
	if _, err := pool.Close(); err != nil {
		return err
	}
	return nil
}

// scenarios maps the names this CLI accepts to their runner.
var scenarios = map[string]func(context.Context) error{
	"two-input-and":  runTwoInputAND,
	"arbitration":    runArbitration,
	"if-passthrough": runIfPassthrough,
	"if-then-write":  runIfThenWriteBack,
	"if-else-flip":   runIfElseFlip,
	"interconnect":   runInterconnect,
}
