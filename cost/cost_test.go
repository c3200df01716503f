package cost_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cnc-tsn/candidates"
	"github.com/katalvlaran/cnc-tsn/cost"
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

func TestEvaluateTSNFailureDominatesScalar(t *testing.T) {
	g, route := line4(t, 1500)
	streams := streamtable.New()
	streams.Append(nil, []streamtable.AVBSpec{{Src: 0, Dst: 3, Size: 1500, Period: 300, MaxDelay: 5000, Class: streamtable.ClassB}})
	cands := candidates.New()
	cands.Set(0, [][]int{route})
	sol := solution.New(1, 600)

	w := cost.Weights{TSNFail: 100, AVBDeadline: 1, AVBWCD: 1, RerouteChurn: 1}

	res, err := cost.Evaluate(g, streams, cands, sol, w, false)
	require.NoError(t, err)
	require.True(t, res.TSNScheduleFail)
	require.GreaterOrEqual(t, res.Scalar, 100.0)
	require.False(t, res.FastStop())
}

func TestEvaluateFastStopWhenFeasible(t *testing.T) {
	g, route := line4(t, 1500)
	streams := streamtable.New()
	streams.Append(nil, []streamtable.AVBSpec{{Src: 0, Dst: 3, Size: 1500, Period: 300, MaxDelay: 5000, Class: streamtable.ClassB}})
	cands := candidates.New()
	cands.Set(0, [][]int{route})
	sol := solution.New(1, 600)

	w := cost.Weights{TSNFail: 100, AVBDeadline: 1, AVBWCD: 0.01, RerouteChurn: 1}

	res, err := cost.Evaluate(g, streams, cands, sol, w, true)
	require.NoError(t, err)
	require.False(t, res.TSNScheduleFail)
	require.Equal(t, 0, res.AVBDeadlineMiss)
	require.True(t, res.FastStop())
}
