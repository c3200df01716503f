package streamtable_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cnc-tsn/streamtable"
)

func TestAppendAssignsDenseIDs(t *testing.T) {
	tbl := streamtable.New()

	r1 := tbl.Append(
		[]streamtable.TSNSpec{{Src: 0, Dst: 3, Size: 1500, Period: 300, MaxDelay: 200}},
		[]streamtable.AVBSpec{{Src: 0, Dst: 3, Size: 1500, Period: 300, MaxDelay: 500, Class: streamtable.ClassB}},
	)
	require.Equal(t, streamtable.AppendRange{Start: 0, End: 2}, r1)
	require.Equal(t, 2, tbl.Len())

	r2 := tbl.Append([]streamtable.TSNSpec{{Src: 1, Dst: 2, Size: 100, Period: 100, MaxDelay: 50}}, nil)
	require.Equal(t, streamtable.AppendRange{Start: 2, End: 3}, r2)
	require.Equal(t, 3, tbl.Len())
}

func TestSpecKindMismatchReturnsFalse(t *testing.T) {
	tbl := streamtable.New()
	tbl.Append(
		[]streamtable.TSNSpec{{Src: 0, Dst: 1, Size: 10, Period: 10, MaxDelay: 5, Offset: 10}},
		[]streamtable.AVBSpec{{Src: 0, Dst: 1, Size: 10, Period: 10, MaxDelay: 5}},
	)

	_, ok := tbl.AVBSpec(0)
	require.False(t, ok)
	_, ok = tbl.TSNSpec(1)
	require.False(t, ok)

	tsn, ok := tbl.TSNSpec(0)
	require.True(t, ok)
	require.Equal(t, int64(15), tsn.Deadline())
}

func TestInputsTracksMostRecentAppendOnly(t *testing.T) {
	tbl := streamtable.New()
	tbl.Append([]streamtable.TSNSpec{{Src: 0, Dst: 1, Size: 1, Period: 1, MaxDelay: 1}}, nil)
	require.Equal(t, map[int]struct{}{0: {}}, tbl.Inputs())

	tbl.Append([]streamtable.TSNSpec{{Src: 0, Dst: 1, Size: 1, Period: 1, MaxDelay: 1}}, nil)
	require.Equal(t, map[int]struct{}{1: {}}, tbl.Inputs())
}

func TestEndsAndIDSets(t *testing.T) {
	tbl := streamtable.New()
	tbl.Append(
		[]streamtable.TSNSpec{{Src: 0, Dst: 1, Size: 1, Period: 1, MaxDelay: 1}},
		[]streamtable.AVBSpec{{Src: 2, Dst: 3, Size: 1, Period: 1, MaxDelay: 1}},
	)

	src, dst, err := tbl.Ends(1)
	require.NoError(t, err)
	require.Equal(t, 2, src)
	require.Equal(t, 3, dst)

	_, _, err = tbl.Ends(99)
	require.ErrorIs(t, err, streamtable.ErrBadID)

	require.Contains(t, tbl.TSNs(), 0)
	require.Contains(t, tbl.AVBs(), 1)
}
