package observer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tgsim/tgsim/kernel"
	"github.com/tgsim/tgsim/observer"
)

// P1: assigning ids to k Subjects gives distinct ids, all >= 1.
func TestSubjectIDsAreUniqueAndNonZero(t *testing.T) {
	ctx := observer.NewContext()
	seen := map[uint64]bool{}
	for i := 0; i < 50; i++ {
		s := observer.NewSubject(ctx, "s")
		require.GreaterOrEqual(t, s.ID(), uint64(1))
		require.False(t, seen[s.ID()])
		seen[s.ID()] = true
	}
}

// P2: registering the same (observer, out_id) twice leaves exactly one
// entry; erasing an unregistered pair is a no-op.
func TestSubjectRegisterIsIdempotent(t *testing.T) {
	ctx := observer.NewContext()
	s := observer.NewSubject(ctx, "s")
	arena := observer.NewArena()
	k := kernel.New()
	h := observer.Handle{VertexID: 1, Index: 0}
	arena.Alloc(h, 4)
	trigger := k.NewEvent("t")
	obs := observer.NewPlainObserver(arena, h, trigger)

	s.Register(obs, 0)
	s.Register(obs, 0)
	require.Equal(t, 1, s.NumRegistrations())

	s.Erase(obs, 1) // unregistered pair: no-op
	require.Equal(t, 1, s.NumRegistrations())

	s.Erase(obs, 0)
	require.Equal(t, 0, s.NumRegistrations())
}

// P7 (plain Observer half): destination buffer after notify(_, src, n) is
// byte-equal to the first n bytes of src.
func TestPlainObserverCopiesBytes(t *testing.T) {
	k := kernel.New()
	arena := observer.NewArena()
	h := observer.Handle{VertexID: 1, Index: 0}
	dest := arena.Alloc(h, 4)
	trigger := k.NewEvent("t")
	obs := observer.NewPlainObserver(arena, h, trigger)

	src := observer.NewValue(4)
	require.NoError(t, src.Write([]byte{0xDE, 0xAD, 0xBE, 0xEF}))

	fired := false
	k.Go("waiter", func(task *kernel.Task) {
		task.Wait(trigger)
		fired = true
	})
	k.Go("source", func(task *kernel.Task) {
		obs.Notify(0, observer.DataRef{Src: src, Len: 4})
	})
	require.NoError(t, k.Run(context.Background()))

	require.True(t, fired)
	require.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, dest.Bytes())
}

// P7 (ObserverInterconnect half): destination equals (src, n) and the
// changed flag becomes true, resetting after IsValueChanged(true).
func TestInterconnectObserverStoresReference(t *testing.T) {
	k := kernel.New()
	dest := observer.NewDataRefSlot()
	trigger := k.NewEvent("t")
	obs := observer.NewInterconnectObserver(dest, trigger)

	src := observer.NewValue(8)
	require.NoError(t, src.Write([]byte("payload!")))

	k.Go("source", func(task *kernel.Task) {
		obs.Notify(0, observer.DataRef{Src: src, Len: 8})
	})
	require.NoError(t, k.Run(context.Background()))

	require.True(t, dest.IsValueChanged(false))
	ref := dest.Get()
	require.Same(t, src, ref.Src)
	require.Equal(t, 8, ref.Len)
	require.True(t, dest.IsValueChanged(true))
	require.False(t, dest.IsValueChanged(false))
}

func TestValueWriteRejectsOversizedSource(t *testing.T) {
	v := observer.NewValue(2)
	err := v.Write([]byte{1, 2, 3})
	require.Error(t, err)
}
