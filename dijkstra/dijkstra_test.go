package dijkstra_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cnc-tsn/dijkstra"
	"github.com/katalvlaran/cnc-tsn/graph"
)

func line4(t *testing.T, bandwidth float64) *graph.Graph {
	t.Helper()
	g := graph.NewGraph()
	for i := 0; i < 4; i++ {
		g.AddNode(graph.KindEndDevice)
	}
	for i := 0; i < 3; i++ {
		_, err := g.AddEdge(i, i+1, bandwidth)
		require.NoError(t, err)
		_, err = g.AddEdge(i+1, i, bandwidth)
		require.NoError(t, err)
	}

	return g
}

func TestRunFindsShortestPath(t *testing.T) {
	g := line4(t, 1500)
	res, err := dijkstra.Run(g, dijkstra.Options{Source: 0, SizeBytes: 1500})
	require.NoError(t, err)
	require.EqualValues(t, 3, res.Dist[3])

	path, ok := res.PathTo(g, 3)
	require.True(t, ok)
	require.Len(t, path, 3)
}

func TestRunHonorsExclusions(t *testing.T) {
	g := graph.NewGraph()
	for i := 0; i < 3; i++ {
		g.AddNode(graph.KindEndDevice)
	}
	// Two parallel 0->2 routes: via node 1, and a direct edge.
	e01, _ := g.AddEdge(0, 1, 1500)
	e12, _ := g.AddEdge(1, 2, 1500)
	eDirect, _ := g.AddEdge(0, 2, 1500)

	res, err := dijkstra.Run(g, dijkstra.Options{
		Source:        0,
		SizeBytes:     1500,
		ExcludedEdges: map[int]struct{}{eDirect: {}},
	})
	require.NoError(t, err)
	path, ok := res.PathTo(g, 2)
	require.True(t, ok)
	require.Equal(t, []int{e01, e12}, path)
}

func TestRunUnreachableReturnsMaxInt(t *testing.T) {
	g := graph.NewGraph()
	g.AddNode(graph.KindEndDevice)
	g.AddNode(graph.KindEndDevice)

	res, err := dijkstra.Run(g, dijkstra.Options{Source: 0, SizeBytes: 1500})
	require.NoError(t, err)
	require.Equal(t, int64(math.MaxInt64), res.Dist[1])
	_, ok := res.PathTo(g, 1)
	require.False(t, ok)
}

func TestRunRejectsBadSource(t *testing.T) {
	g := graph.NewGraph()
	g.AddNode(graph.KindEndDevice)

	_, err := dijkstra.Run(g, dijkstra.Options{Source: 5, SizeBytes: 1500})
	require.ErrorIs(t, err, dijkstra.ErrSourceNotFound)
}
