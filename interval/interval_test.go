package interval_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cnc-tsn/interval"
)

func TestInsertCoalescesAdjacentSameTag(t *testing.T) {
	m := interval.New()
	require.NoError(t, m.Insert(interval.Range{Start: 0, End: 10}, "s1"))
	require.NoError(t, m.Insert(interval.Range{Start: 10, End: 20}, "s1"))

	require.Equal(t, 1, m.Len())
	all := m.All()
	require.Equal(t, interval.Range{Start: 0, End: 20}, all[0].Range)
}

func TestInsertDoesNotCoalesceDifferentTags(t *testing.T) {
	m := interval.New()
	require.NoError(t, m.Insert(interval.Range{Start: 0, End: 10}, "s1"))
	require.NoError(t, m.Insert(interval.Range{Start: 10, End: 20}, "s2"))

	require.Equal(t, 2, m.Len())
}

func TestCheckVacantRejectsOverlapFromDifferentTag(t *testing.T) {
	m := interval.New()
	require.NoError(t, m.Insert(interval.Range{Start: 5, End: 15}, "s1"))

	require.False(t, m.CheckVacant(interval.Range{Start: 10, End: 20}, "s2"))
	require.True(t, m.CheckVacant(interval.Range{Start: 10, End: 20}, "s1"))
	require.True(t, m.CheckVacant(interval.Range{Start: 15, End: 20}, "s2"))
}

func TestInsertThenRemoveValueRestoresPriorState(t *testing.T) {
	m := interval.New()
	require.NoError(t, m.Insert(interval.Range{Start: 0, End: 5}, "base"))
	snapshot := m.All()

	require.NoError(t, m.Insert(interval.Range{Start: 10, End: 20}, "s1"))
	m.RemoveValue("s1")

	require.Equal(t, snapshot, m.All())
}

func TestNextGapSkipsBlockingIntervals(t *testing.T) {
	m := interval.New()
	require.NoError(t, m.Insert(interval.Range{Start: 0, End: 10}, "s1"))
	require.NoError(t, m.Insert(interval.Range{Start: 20, End: 30}, "s2"))

	s, ok := m.NextGap(0, 5, 100, "other")
	require.True(t, ok)
	require.EqualValues(t, 10, s)

	s, ok = m.NextGap(8, 12, 100, "other")
	require.True(t, ok)
	require.EqualValues(t, 30, s)
}

func TestNextGapReturnsFalseBeyondLimit(t *testing.T) {
	m := interval.New()
	require.NoError(t, m.Insert(interval.Range{Start: 0, End: 90}, "s1"))

	_, ok := m.NextGap(0, 20, 100, "other")
	require.False(t, ok)
}

func TestInsertRejectsEmptyRange(t *testing.T) {
	m := interval.New()
	err := m.Insert(interval.Range{Start: 10, End: 10}, "s1")
	require.ErrorIs(t, err, interval.ErrEmptyRange)
}

func TestIterAfterOrdering(t *testing.T) {
	m := interval.New()
	require.NoError(t, m.Insert(interval.Range{Start: 30, End: 40}, "a"))
	require.NoError(t, m.Insert(interval.Range{Start: 0, End: 5}, "b"))

	got := m.IterAfter(1)
	require.Len(t, got, 2)
	require.Equal(t, int64(0), got[0].Start)
	require.Equal(t, int64(30), got[1].Start)
}
