package avbeval_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cnc-tsn/avbeval"
	"github.com/katalvlaran/cnc-tsn/graph"
	"github.com/katalvlaran/cnc-tsn/solution"
	"github.com/katalvlaran/cnc-tsn/streamtable"
)

func line4(t *testing.T, bandwidth float64) (*graph.Graph, []int) {
	t.Helper()
	g := graph.NewGraph()
	for i := 0; i < 4; i++ {
		g.AddNode(graph.KindEndDevice)
	}
	var route []int
	for i := 0; i < 3; i++ {
		e, err := g.AddEdge(i, i+1, bandwidth)
		require.NoError(t, err)
		route = append(route, e)
	}

	return g, route
}

func TestWCDSingleStreamNoInterference(t *testing.T) {
	g, route := line4(t, 1500)
	streams := streamtable.New()
	streams.Append(nil, []streamtable.AVBSpec{{Src: 0, Dst: 3, Size: 1500, Period: 300, MaxDelay: 5000, Class: streamtable.ClassB}})
	sol := solution.New(1, 600)

	wcd, err := avbeval.WCD(g, streams, sol, 0, route)
	require.NoError(t, err)
	// per hop: 1500/1500 + 1500/(1500*0.75) = 1 + 1.333... ; summed over 3
	// hops then truncated once: 3*(1+1.333...) = 7 (not 3*floor(2.333...)=6).
	require.EqualValues(t, 7, wcd)
}

func TestWCDClassAIgnoresClassBInterference(t *testing.T) {
	g, route := line4(t, 1500)
	streams := streamtable.New()
	streams.Append(nil, []streamtable.AVBSpec{
		{Src: 0, Dst: 3, Size: 1500, Period: 300, MaxDelay: 5000, Class: streamtable.ClassA},
		{Src: 0, Dst: 3, Size: 1500, Period: 300, MaxDelay: 5000, Class: streamtable.ClassB},
	})
	sol := solution.New(2, 600)
	for _, e := range route {
		sol.AddAVBToEdge(e, 0)
		sol.AddAVBToEdge(e, 1)
	}

	wcdA, err := avbeval.WCD(g, streams, sol, 0, route)
	require.NoError(t, err)
	wcdB, err := avbeval.WCD(g, streams, sol, 1, route)
	require.NoError(t, err)

	require.Less(t, wcdA, wcdB, "class A should not wait on a class B interferer while class B waits on everyone")
}
