// Package ro implements the Randomized Optimization (GRASP-style) route
// optimizer: a greedy-randomized construction phase seeds AVB stream routes
// from a sampled candidate subset, followed by hill-climbing local search
// (spec §4.K).
package ro

import (
	"context"
	"math/rand"
	"sort"

	"github.com/katalvlaran/cnc-tsn/avbeval"
	"github.com/katalvlaran/cnc-tsn/candidates"
	"github.com/katalvlaran/cnc-tsn/config"
	"github.com/katalvlaran/cnc-tsn/cost"
	"github.com/katalvlaran/cnc-tsn/graph"
	"github.com/katalvlaran/cnc-tsn/rng"
	"github.com/katalvlaran/cnc-tsn/solution"
	"github.com/katalvlaran/cnc-tsn/streamtable"
	"github.com/katalvlaran/cnc-tsn/tsnsched"
)

// Optimizer holds the shared read-only inputs for one RO run.
type Optimizer struct {
	g       *graph.Graph
	streams *streamtable.Table
	cands   *candidates.Table
	cfg     config.Config
}

// New builds an Optimizer over g, streams, and cands under cfg.
func New(g *graph.Graph, streams *streamtable.Table, cands *candidates.Table, cfg config.Config) *Optimizer {
	return &Optimizer{g: g, streams: streams, cands: cands, cfg: cfg}
}

// Run restarts construction until ctx is done or a fast-stop feasible
// solution is reached (spec §4.K "restart construction on outer
// iterations"). Every restart runs one construction pass followed by hill
// climbing within the same budget.
func (o *Optimizer) Run(ctx context.Context, base *solution.Solution) (*solution.Solution, cost.Result, error) {
	r := rng.FromSeed(o.cfg.Seed)

	best := base.Clone()
	for id := range o.streams.TSNs() {
		if o.cands.Count(id) > 0 {
			best.Select(id, 0)
		}
	}
	bestRes, err := o.evaluate(best)
	if err != nil {
		return nil, cost.Result{}, err
	}

	// flowCount bounds hill-climbing patience: spec §4.K's flow_count is the
	// number of streams in play, scaling patience with problem size.
	flowCount := o.streams.Len()
	if flowCount == 0 {
		flowCount = 1
	}

	for {
		if ctx.Err() != nil {
			break
		}

		trial := best.Clone()
		o.construct(trial, r)

		res, err := o.evaluate(trial)
		if err != nil {
			return nil, cost.Result{}, err
		}
		if res.Scalar < bestRes.Scalar {
			best, bestRes = trial, res
		}
		if o.cfg.FastStop && res.FastStop() {
			break
		}

		climbed, climbedRes, err := o.hillClimb(ctx, trial, res, r, flowCount)
		if err != nil {
			return nil, cost.Result{}, err
		}
		if climbedRes.Scalar < bestRes.Scalar {
			best, bestRes = climbed, climbedRes
		}
		if o.cfg.FastStop && climbedRes.FastStop() {
			break
		}
	}

	best.Confirm()

	return best, bestRes, nil
}

// sortedAVBIDs returns o.streams.AVBs() (a map, whose iteration order Go
// randomizes on every call) as an ascending-id slice. construct's visitation
// order affects which routes get chosen (each SelectAVB mutates the
// edge→AVB index the next iteration's WCD reads), and hillClimb's r.Intn
// draw is only reproducible if it indexes a fixed slot order — both need
// this same deterministic order for spec §8's seeded-determinism property.
func sortedAVBIDs(streams *streamtable.Table) []int {
	set := streams.AVBs()
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	return ids
}

// construct samples floor(0.5*K) distinct candidates per AVB stream (K =
// that stream's candidate count) and installs the sampled candidate with
// minimum AVB WCD (spec §4.K construction phase).
func (o *Optimizer) construct(trial *solution.Solution, r *rand.Rand) {
	for _, id := range sortedAVBIDs(o.streams) {
		k := o.bestOfSample(trial, id, r)
		if k >= 0 {
			trial.SelectAVB(o.cands, id, k)
		}
	}
}

// bestOfSample samples floor(count/2) (at least 1) distinct candidate
// indices for stream id and returns the one with minimum AVB WCD under
// sol's current state, or -1 if id has no candidates.
func (o *Optimizer) bestOfSample(sol *solution.Solution, id int, r *rand.Rand) int {
	count := o.cands.Count(id)
	if count == 0 {
		return -1
	}

	sampleSize := count / 2
	if sampleSize < 1 {
		sampleSize = 1
	}

	perm := r.Perm(count)
	sampled := perm[:sampleSize]

	return o.minWCDAmong(sol, id, sampled)
}

// minWCDAmong returns the candidate in indices with the minimum AVB WCD
// under sol, or -1 if none evaluate successfully.
func (o *Optimizer) minWCDAmong(sol *solution.Solution, id int, indices []int) int {
	best := -1
	var bestWCD int64
	for _, k := range indices {
		route, ok := o.cands.Route(id, k)
		if !ok {
			continue
		}
		wcd, err := avbeval.WCD(o.g, o.streams, sol, id, route)
		if err != nil {
			continue
		}
		if best < 0 || wcd < bestWCD {
			best, bestWCD = k, wcd
		}
	}

	return best
}

// hillClimb repeatedly picks a random AVB stream, installs its globally
// minimum-WCD candidate, keeps the move if overall cost improves and
// reverts it otherwise, stopping after flowCount consecutive non-improving
// steps or when ctx is done (spec §4.K local search phase).
func (o *Optimizer) hillClimb(ctx context.Context, sol *solution.Solution, curRes cost.Result, r *rand.Rand, flowCount int) (*solution.Solution, cost.Result, error) {
	avbIDs := sortedAVBIDs(o.streams)
	if len(avbIDs) == 0 {
		return sol, curRes, nil
	}

	nonImproving := 0
	for nonImproving < flowCount {
		if ctx.Err() != nil {
			break
		}

		id := avbIDs[r.Intn(len(avbIDs))]
		all := make([]int, o.cands.Count(id))
		for i := range all {
			all[i] = i
		}
		k := o.minWCDAmong(sol, id, all)
		if k < 0 {
			nonImproving++

			continue
		}

		prevK := sol.Selection(id).Next()
		if k == prevK {
			nonImproving++

			continue
		}

		sol.SelectAVB(o.cands, id, k)
		res, err := o.evaluate(sol)
		if err != nil {
			return nil, cost.Result{}, err
		}

		if res.Scalar < curRes.Scalar {
			curRes = res
			nonImproving = 0
		} else {
			sol.SelectAVB(o.cands, id, prevK)
			nonImproving++
		}
	}

	return sol, curRes, nil
}

func (o *Optimizer) evaluate(sol *solution.Solution) (cost.Result, error) {
	tsnOK, err := tsnsched.Configure(o.g, o.streams, o.cands, sol, o.cfg.BridgeDelay)
	if err != nil {
		return cost.Result{}, err
	}

	return cost.Evaluate(o.g, o.streams, o.cands, sol, cost.Weights{
		TSNFail: o.cfg.W0, AVBDeadline: o.cfg.W1, AVBWCD: o.cfg.W2, RerouteChurn: o.cfg.W3,
	}, tsnOK)
}
