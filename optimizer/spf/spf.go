// Package spf implements the trivial shortest-path-first baseline
// optimizer: every stream takes candidate index 0, and the scheduler runs
// exactly once (spec §4.L).
package spf

import (
	"github.com/katalvlaran/cnc-tsn/candidates"
	"github.com/katalvlaran/cnc-tsn/config"
	"github.com/katalvlaran/cnc-tsn/cost"
	"github.com/katalvlaran/cnc-tsn/graph"
	"github.com/katalvlaran/cnc-tsn/solution"
	"github.com/katalvlaran/cnc-tsn/streamtable"
	"github.com/katalvlaran/cnc-tsn/tsnsched"
)

// Optimizer holds the shared read-only inputs for one SPF run.
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

// Run sets every stream's selection to candidate 0, schedules once, and
// evaluates once (spec §4.L: "Set each stream's selection to k = 0 ...;
// run the scheduler once; return").
func (o *Optimizer) Run(base *solution.Solution) (*solution.Solution, cost.Result, error) {
	sol := base.Clone()

	for id := range o.streams.TSNs() {
		if o.cands.Count(id) > 0 {
			sol.Select(id, 0)
		}
	}
	for id := range o.streams.AVBs() {
		if o.cands.Count(id) > 0 {
			sol.SelectAVB(o.cands, id, 0)
		}
	}

	tsnOK, err := tsnsched.Configure(o.g, o.streams, o.cands, sol, o.cfg.BridgeDelay)
	if err != nil {
		return nil, cost.Result{}, err
	}

	res, err := cost.Evaluate(o.g, o.streams, o.cands, sol, cost.Weights{
		TSNFail: o.cfg.W0, AVBDeadline: o.cfg.W1, AVBWCD: o.cfg.W2, RerouteChurn: o.cfg.W3,
	}, tsnOK)
	if err != nil {
		return nil, cost.Result{}, err
	}

	sol.Confirm()

	return sol, res, nil
}
