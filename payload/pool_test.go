package payload_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tgsim/tgsim/payload"
)

func TestAllocateReusesFreedTransaction(t *testing.T) {
	p := payload.New()

	t1 := p.Allocate()
	t1.Address = 42
	t1.Release()

	t2 := p.Allocate()
	require.Same(t, t1, t2)
	require.Equal(t, 0, t2.Address) // reset on reclaim
	require.Equal(t, int32(1), t2.Refs())

	stats := p.Stats()
	require.Equal(t, 1, stats.Allocated)
	require.Equal(t, 0, stats.Free)
}

func TestAllocateConstructsFreshWhenFreeListEmpty(t *testing.T) {
	p := payload.New()

	t1 := p.Allocate()
	t2 := p.Allocate()
	require.NotSame(t, t1, t2)
	require.NotEqual(t, t1.ID, t2.ID)

	stats := p.Stats()
	require.Equal(t, 2, stats.Allocated)
	require.Equal(t, 0, stats.Free)
}

func TestFreeListNeverExceedsAllocated(t *testing.T) {
	p := payload.New()

	txns := make([]*payload.Transaction, 5)
	for i := range txns {
		txns[i] = p.Allocate()
	}
	for _, txn := range txns {
		txn.Release()
	}

	stats := p.Stats()
	require.LessOrEqual(t, stats.Free, stats.Allocated)
	require.Equal(t, 5, stats.Free)
}

func TestRetainDelaysReclaim(t *testing.T) {
	p := payload.New()

	txn := p.Allocate()
	txn.Retain() // refs now 2
	txn.Release()
	require.Equal(t, int32(1), txn.Refs())
	require.Equal(t, 0, p.Stats().Free)

	txn.Release()
	require.Equal(t, 0, int(txn.Refs()))
	require.Equal(t, 1, p.Stats().Free)
}

func TestCloseReportsLeakedTransaction(t *testing.T) {
	p := payload.New()

	leaked := p.Allocate()
	held := p.Allocate()
	held.Release()

	report, err := p.Close()
	require.Error(t, err)
	require.False(t, report.Empty())
	require.Len(t, report.Entries, 1)
	require.Equal(t, leaked.ID, report.Entries[0].ID)
	require.Equal(t, "transaction", report.Entries[0].Kind)
}

func TestCloseAggregatesMultipleLeaksIntoOneError(t *testing.T) {
	p := payload.New()

	txn := p.Allocate()
	p.AllocateRouting()

	report, err := p.Close()
	require.Error(t, err)
	require.Len(t, report.Entries, 2)
	require.Contains(t, err.Error(), txn.ID.String())
	require.True(t, strings.Contains(err.Error(), "routing extension"))
}

func TestCloseCleanWhenEverythingReleased(t *testing.T) {
	p := payload.New()

	txn := p.Allocate()
	txn.Release()
	ext := p.AllocateRouting()
	ext.Release()

	report, err := p.Close()
	require.NoError(t, err)
	require.True(t, report.Empty())
}
