package ro_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cnc-tsn/candidates"
	"github.com/katalvlaran/cnc-tsn/config"
	"github.com/katalvlaran/cnc-tsn/gcl"
	"github.com/katalvlaran/cnc-tsn/graph"
	"github.com/katalvlaran/cnc-tsn/optimizer/ro"
	"github.com/katalvlaran/cnc-tsn/solution"
	"github.com/katalvlaran/cnc-tsn/streamtable"
)

func diamond(t *testing.T) (*graph.Graph, [][]int) {
	t.Helper()
	g := graph.NewGraph()
	for i := 0; i < 4; i++ {
		g.AddNode(graph.KindEndDevice)
	}
	e01, err := g.AddEdge(0, 1, 1500)
	require.NoError(t, err)
	e13, err := g.AddEdge(1, 3, 1500)
	require.NoError(t, err)
	e02, err := g.AddEdge(0, 2, 1500)
	require.NoError(t, err)
	e23, err := g.AddEdge(2, 3, 1500)
	require.NoError(t, err)

	return g, [][]int{{e01, e13}, {e02, e23}}
}

func TestRunInstallsAFeasibleAVBRoute(t *testing.T) {
	g, routes := diamond(t)
	streams := streamtable.New()
	streams.Append(nil, []streamtable.AVBSpec{{Src: 0, Dst: 3, Size: 1500, Period: 300, MaxDelay: 5000, Class: streamtable.ClassB}})

	cands := candidates.New()
	cands.Set(0, routes)

	sol := solution.New(1, 600)
	cfg, err := config.New(config.WithFastStop(true), config.WithSeed(3))
	require.NoError(t, err)

	opt := ro.New(g, streams, cands, cfg)
	best, res, err := opt.Run(context.Background(), sol)
	require.NoError(t, err)
	require.False(t, res.TSNScheduleFail)
	require.Equal(t, solution.Stay, best.Selection(0).State())
}

func TestRunRespectsCancelledContext(t *testing.T) {
	g, routes := diamond(t)
	streams := streamtable.New()
	streams.Append(nil, []streamtable.AVBSpec{{Src: 0, Dst: 3, Size: 1500, Period: 300, MaxDelay: 5000, Class: streamtable.ClassB}})

	cands := candidates.New()
	cands.Set(0, routes)

	sol := solution.New(1, 600)
	cfg, err := config.New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opt := ro.New(g, streams, cands, cfg)
	best, _, err := opt.Run(ctx, sol)
	require.NoError(t, err)
	require.NotNil(t, best)
}

// TestRunDeterministicWithFixedSeed runs two independent Optimizers seeded
// identically over an unchanged flow table and requires identical final
// selections. construct and hillClimb both visit AVB streams whose ids
// come from streamtable.Table.AVBs(), a map whose iteration order Go
// randomizes per call; this guards against that randomization changing
// which route a fixed seed ends up selecting (spec §8 determinism).
func TestRunDeterministicWithFixedSeed(t *testing.T) {
	build := func() (*graph.Graph, *streamtable.Table, *candidates.Table, *solution.Solution) {
		g, routes := diamond(t)
		streams := streamtable.New()
		streams.Append(nil, []streamtable.AVBSpec{
			{Src: 0, Dst: 3, Size: 1500, Period: 300, MaxDelay: 5000, Class: streamtable.ClassA},
			{Src: 0, Dst: 3, Size: 1500, Period: 300, MaxDelay: 5000, Class: streamtable.ClassB},
			{Src: 0, Dst: 3, Size: 1500, Period: 300, MaxDelay: 5000, Class: streamtable.ClassB},
		})

		cands := candidates.New()
		cands.Set(0, routes)
		cands.Set(1, routes)
		cands.Set(2, routes)

		return g, streams, cands, solution.New(3, 600)
	}

	cfg, err := config.New(config.WithFastStop(true), config.WithSeed(11))
	require.NoError(t, err)

	g1, streams1, cands1, sol1 := build()
	best1, res1, err := ro.New(g1, streams1, cands1, cfg).Run(context.Background(), sol1)
	require.NoError(t, err)

	g2, streams2, cands2, sol2 := build()
	best2, res2, err := ro.New(g2, streams2, cands2, cfg).Run(context.Background(), sol2)
	require.NoError(t, err)

	require.Equal(t, res1.Scalar, res2.Scalar)
	for id := 0; id < 3; id++ {
		k1, ok1 := best1.Selection(id).Current()
		k2, ok2 := best2.Selection(id).Current()
		require.Equal(t, ok1, ok2)
		require.Equal(t, k1, k2, "stream %d must select the same candidate route across runs", id)
	}
}

func TestGCLHyperperiodHelper(t *testing.T) {
	hp, err := gcl.Hyperperiod([]int64{300})
	require.NoError(t, err)
	require.Equal(t, int64(300), hp)
}
