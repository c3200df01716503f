// Package aco implements the Ant Colony Optimization route optimizer: a
// per-stream pheromone matrix guides repeated construction of candidate
// selection vectors, evaluated by tsnsched and avbeval via cost, converging
// toward a low-cost configuration under a wall-clock deadline (spec §4.J).
package aco

import (
	"context"
	"math"
	"math/rand"

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

// Tuning constants fixed by spec §4.J.
const (
	tau0         = 25.0
	tauMin       = 1.0
	tauMax       = 30.0
	rho          = 0.5
	antsPerEpoch = 60
)

// Optimizer holds the per-stream pheromone matrix and the shared read-only
// inputs (graph, streams, candidate routes, run config).
type Optimizer struct {
	g       *graph.Graph
	streams *streamtable.Table
	cands   *candidates.Table
	cfg     config.Config

	tau [][]float64 // tau[n][k]
}

// New builds an Optimizer with every pheromone entry initialized to tau0,
// one row per stream id up to streams.Len(), one column per candidate route.
func New(g *graph.Graph, streams *streamtable.Table, cands *candidates.Table, cfg config.Config) *Optimizer {
	o := &Optimizer{g: g, streams: streams, cands: cands, cfg: cfg}
	o.tau = make([][]float64, streams.Len())
	for n := range o.tau {
		row := make([]float64, cands.Count(n))
		for k := range row {
			row[k] = tau0
		}
		o.tau[n] = row
	}

	return o
}

// growPheromone extends tau to cover newly appended streams (called lazily
// by Run when streams.Len() has grown since New/the last Run).
func (o *Optimizer) growPheromone() {
	for n := len(o.tau); n < o.streams.Len(); n++ {
		row := make([]float64, o.cands.Count(n))
		for k := range row {
			row[k] = tau0
		}
		o.tau = append(o.tau, row)
	}
}

// Run executes epochs of antsPerEpoch ants each, cloning the current global
// best Solution on every ant, until ctx is done or (FastStop enabled and an
// ant reaches cost.Result.FastStop()). It returns the best Solution found,
// confirmed, and its cost.
func (o *Optimizer) Run(ctx context.Context, base *solution.Solution) (*solution.Solution, cost.Result, error) {
	o.growPheromone()

	best := base.Clone()
	bestRes, err := o.evaluate(best)
	if err != nil {
		return nil, cost.Result{}, err
	}

	baseRNG := rng.FromSeed(o.cfg.Seed)
	var epoch uint64

	for {
		if err := ctx.Err(); err != nil {
			break
		}

		var epochBest *solution.Solution
		var epochBestRes cost.Result
		epochBestSet := false
		antFastStop := false

		for ant := 0; ant < antsPerEpoch; ant++ {
			if err := ctx.Err(); err != nil {
				break
			}

			antRNG := rng.Derive(baseRNG, epoch*antsPerEpoch+uint64(ant))
			trial := best.Clone()
			o.construct(trial, best, antRNG)

			res, err := o.evaluate(trial)
			if err != nil {
				return nil, cost.Result{}, err
			}

			if !epochBestSet || res.Scalar < epochBestRes.Scalar {
				epochBest, epochBestRes, epochBestSet = trial, res, true
			}

			if o.cfg.FastStop && res.FastStop() {
				antFastStop = true

				break
			}
		}

		if !epochBestSet {
			break
		}

		o.evaporate()
		o.deposit(epochBest, epochBestRes)

		if epochBestRes.Scalar < bestRes.Scalar {
			best, bestRes = epochBest, epochBestRes
		}

		epoch++

		if o.cfg.FastStop && (antFastStop || bestRes.FastStop()) {
			break
		}
	}

	best.Confirm()

	return best, bestRes, nil
}

// construct builds one ant's selection vector onto trial using the ACS
// pseudo-random-proportional rule, with heuristic values computed against
// snapshot (the current global-best Solution), per spec §4.J step 1.
func (o *Optimizer) construct(trial, snapshot *solution.Solution, antRNG *rand.Rand) {
	for n := 0; n < o.streams.Len(); n++ {
		count := o.cands.Count(n)
		if count == 0 {
			continue
		}

		weights := make([]float64, count)
		for k := 0; k < count; k++ {
			weights[k] = o.tau[n][k] * o.heuristic(snapshot, n, k)
		}

		var chosen int
		if antRNG.Float64() < o.cfg.ACOq0 {
			chosen = argmax(weights)
		} else {
			chosen = weightedSample(weights, antRNG)
		}

		if _, isAVB := o.streams.AVBSpec(n); isAVB {
			trial.SelectAVB(o.cands, n, chosen)
		} else {
			trial.Select(n, chosen)
		}
	}
}

// heuristic computes eta[n][k] per spec §4.J: AVB streams weight by inverse
// worst-case delay, TSN streams by inverse hop count, both scaled by the
// stream's current-choice memory multiplier.
func (o *Optimizer) heuristic(snapshot *solution.Solution, n, k int) float64 {
	route, ok := o.cands.Route(n, k)
	if !ok || len(route) == 0 {
		return 0
	}

	mem := 1.0
	if cur, ok := snapshot.Selection(n).Current(); ok && cur == k {
		if _, isTSN := o.streams.TSNSpec(n); isTSN {
			mem = o.cfg.TSNMemory
		} else {
			mem = o.cfg.AVBMemory
		}
	}

	if _, ok := o.streams.AVBSpec(n); ok {
		wcd, err := avbeval.WCD(o.g, o.streams, snapshot, n, route)
		if err != nil || wcd <= 0 {
			return 0
		}

		return (1 / float64(wcd)) * mem
	}

	return (1 / float64(len(route))) * mem
}

// evaluate runs the TSN scheduler then the cost aggregator on sol, which is
// mutated in place (its GCL and outcomes reflect this trial's selections).
func (o *Optimizer) evaluate(sol *solution.Solution) (cost.Result, error) {
	tsnOK, err := tsnsched.Configure(o.g, o.streams, o.cands, sol, o.cfg.BridgeDelay)
	if err != nil {
		return cost.Result{}, err
	}

	return cost.Evaluate(o.g, o.streams, o.cands, sol, cost.Weights{
		TSNFail: o.cfg.W0, AVBDeadline: o.cfg.W1, AVBWCD: o.cfg.W2, RerouteChurn: o.cfg.W3,
	}, tsnOK)
}

// evaporate applies tau[n][k] <- max(tauMin, (1-rho)*tau[n][k]) to every
// entry (spec §4.J step 4).
func (o *Optimizer) evaporate() {
	for n := range o.tau {
		for k := range o.tau[n] {
			v := (1 - rho) * o.tau[n][k]
			if v < tauMin {
				v = tauMin
			}
			o.tau[n][k] = v
		}
	}
}

// deposit reinforces the best ant's chosen candidate per stream (spec §4.J
// step 5): tau[n][k*] <- min(tauMax, tau[n][k*] + 1/distance), distance =
// 10^(cost-1).
func (o *Optimizer) deposit(best *solution.Solution, res cost.Result) {
	distance := math.Pow(10, res.Scalar-1)
	if distance <= 0 {
		return
	}

	for n := 0; n < o.streams.Len(); n++ {
		if o.cands.Count(n) == 0 {
			continue
		}
		k := best.Selection(n).Next()
		if k < 0 || k >= len(o.tau[n]) {
			continue
		}
		v := o.tau[n][k] + 1/distance
		if v > tauMax {
			v = tauMax
		}
		o.tau[n][k] = v
	}
}

func argmax(weights []float64) int {
	best := 0
	for k := 1; k < len(weights); k++ {
		if weights[k] > weights[best] {
			best = k
		}
	}

	return best
}

func weightedSample(weights []float64, r *rand.Rand) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return argmax(weights)
	}

	pick := r.Float64() * total
	var acc float64
	for k, w := range weights {
		acc += w
		if pick < acc {
			return k
		}
	}

	return len(weights) - 1
}
