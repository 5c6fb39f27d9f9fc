package kernel_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tgsim/tgsim/kernel"
)

func TestNotifyZeroDeltaSameTimestamp(t *testing.T) {
	k := kernel.New()
	ev := k.NewEvent("e")
	var fired kernel.Time = -2

	k.Go("waiter", func(task *kernel.Task) {
		task.Wait(ev)
		fired = k.Now()
	})
	k.Go("notifier", func(task *kernel.Task) {
		ev.Notify(0)
	})

	require.NoError(t, k.Run(context.Background()))
	require.Equal(t, kernel.Time(0), fired)
}

func TestNotifyLatencyAdvancesTime(t *testing.T) {
	k := kernel.New()
	ev := k.NewEvent("e")
	var fired kernel.Time = -1

	k.Go("waiter", func(task *kernel.Task) {
		task.Wait(ev)
		fired = k.Now()
	})
	k.Go("notifier", func(task *kernel.Task) {
		ev.Notify(5 * time.Nanosecond)
	})

	require.NoError(t, k.Run(context.Background()))
	require.Equal(t, 5*time.Nanosecond, fired)
}

func TestAndListWaitsForAllConstituents(t *testing.T) {
	k := kernel.New()
	a := k.NewEvent("a")
	b := k.NewEvent("b")
	and := k.NewAndList(a, b)
	var fired kernel.Time = -1

	k.Go("waiter", func(task *kernel.Task) {
		task.WaitAll(and)
		fired = k.Now()
	})
	k.Go("notifyA", func(task *kernel.Task) {
		a.Notify(2 * time.Nanosecond)
	})
	k.Go("notifyB", func(task *kernel.Task) {
		b.Notify(7 * time.Nanosecond)
	})

	require.NoError(t, k.Run(context.Background()))
	// waiter only becomes runnable once BOTH have fired: at the later time.
	require.Equal(t, 7*time.Nanosecond, fired)
}

func TestAndListRearmsAfterFiring(t *testing.T) {
	k := kernel.New()
	a := k.NewEvent("a")
	b := k.NewEvent("b")
	and := k.NewAndList(a, b)
	var rounds []kernel.Time

	k.Go("waiter", func(task *kernel.Task) {
		for i := 0; i < 2; i++ {
			task.WaitAll(and)
			rounds = append(rounds, k.Now())
		}
	})
	k.Go("driver", func(task *kernel.Task) {
		a.Notify(1 * time.Nanosecond)
		b.Notify(1 * time.Nanosecond)
	})

	require.NoError(t, k.Run(context.Background()))
	require.Len(t, rounds, 1) // second round never fires: nobody renotifies
	require.Equal(t, 1*time.Nanosecond, rounds[0])
}

func TestRunUntilBound(t *testing.T) {
	k := kernel.New()
	ev := k.NewEvent("e")
	ran := false

	k.Go("waiter", func(task *kernel.Task) {
		task.Wait(ev)
		ran = true
	})
	k.Go("notifier", func(task *kernel.Task) {
		ev.Notify(100 * time.Nanosecond)
	})

	require.NoError(t, k.RunUntil(context.Background(), 10*time.Nanosecond))
	require.False(t, ran, "event beyond the bound must not fire")
}

// Eight tasks become runnable in the same (first) delta cycle with no
// ordering dependency between them. WithSeed must produce a different
// same-delta execution order for different seeds while still running every
// task exactly once, demonstrating that nothing in the kernel or in a
// correct graph may rely on same-delta order (spec.md §4.1).
func TestSeedShufflesSameDeltaOrder(t *testing.T) {
	run := func(seed int64) []string {
		k := kernel.New(kernel.WithSeed(seed))
		var order []string
		for i := 0; i < 8; i++ {
			name := fmt.Sprintf("t%d", i)
			k.Go(name, func(task *kernel.Task) {
				order = append(order, name)
			})
		}
		require.NoError(t, k.Run(context.Background()))
		return order
	}

	order1 := run(1)
	order2 := run(2)

	require.ElementsMatch(t, order1, order2)
	require.NotEqual(t, order1, order2)
}

// Without WithSeed, registration order is preserved exactly, matching Open
// Question 1's documented default.
func TestNoSeedPreservesRegistrationOrder(t *testing.T) {
	k := kernel.New()
	var order []string
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("t%d", i)
		k.Go(name, func(task *kernel.Task) {
			order = append(order, name)
		})
	}
	require.NoError(t, k.Run(context.Background()))
	require.Equal(t, []string{"t0", "t1", "t2", "t3", "t4"}, order)
}
