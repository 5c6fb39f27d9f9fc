package unit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tgsim/tgsim/kernel"
	"github.com/tgsim/tgsim/unit"
)

// P5: request_core on a free unit grants the core synchronously, so the
// requester never has to wait on its event, and the core is marked used.
func TestRequestCoreImmediateWhenFree(t *testing.T) {
	k := kernel.New()
	u := unit.New("u0", "alu")

	ev := k.NewEvent("core-free")
	got := false
	k.Go("holder", func(task *kernel.Task) {
		if !u.RequestCore(ev) {
			task.Wait(ev)
		}
		got = true
	})
	require.NoError(t, k.Run(context.Background()))
	require.True(t, got)
	require.True(t, u.CoreUsed())
}

// P5 continued: a waiter queued behind the current holder is granted the
// core (Δt=0) as soon as release_core runs, and the core stays held.
func TestReleaseCoreHandsOffImmediately(t *testing.T) {
	k := kernel.New()
	u := unit.New("u0", "alu")

	firstFree := k.NewEvent("first")
	secondFree := k.NewEvent("second")

	var secondAt kernel.Time = -1
	k.Go("holder", func(task *kernel.Task) {
		require.True(t, u.RequestCore(firstFree)) // core is free, granted synchronously
		task.Sleep(0)                             // let the waiter queue behind us
		u.ReleaseCore()                           // hands off to secondFree now
	})
	k.Go("waiter", func(task *kernel.Task) {
		require.False(t, u.RequestCore(secondFree)) // core is held, queued
		task.Wait(secondFree)
		secondAt = task.Kernel().Now()
	})
	require.NoError(t, k.Run(context.Background()))
	require.Equal(t, kernel.Time(0), secondAt)
	require.Equal(t, 0, u.NumWaiters())
	require.True(t, u.CoreUsed())
}

// With no waiter queued, release_core frees the core.
func TestReleaseCoreFreesImmediatelyWhenNoWaiters(t *testing.T) {
	k := kernel.New()
	u := unit.New("u0", "alu")

	ev := k.NewEvent("core-free")
	k.Go("holder", func(task *kernel.Task) {
		require.True(t, u.RequestCore(ev))
		u.ReleaseCore()
	})
	require.NoError(t, k.Run(context.Background()))
	require.False(t, u.CoreUsed())
}

func TestAddVertexRejectsDuplicateID(t *testing.T) {
	u := unit.New("u0", "alu")
	require.NoError(t, u.AddVertex(fakeVertex{id: 1, name: "a"}))
	err := u.AddVertex(fakeVertex{id: 1, name: "b"})
	require.Error(t, err)
}

type fakeVertex struct {
	id   uint64
	name string
}

func (f fakeVertex) ID() uint64             { return f.id }
func (f fakeVertex) Name() string           { return f.name }
func (f fakeVertex) Kind() string           { return "fake" }
func (f fakeVertex) Spawn(*kernel.Kernel) {}
