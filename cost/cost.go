// Package cost computes the scalar objective the optimizers minimize: a
// weighted sum of TSN-schedulability failure, AVB deadline misses, AVB
// worst-case delay, and rerouting churn (spec §4.M).
package cost

import (
	"github.com/katalvlaran/cnc-tsn/avbeval"
	"github.com/katalvlaran/cnc-tsn/candidates"
	"github.com/katalvlaran/cnc-tsn/graph"
	"github.com/katalvlaran/cnc-tsn/solution"
	"github.com/katalvlaran/cnc-tsn/streamtable"
)

// Weights are the four scalarization coefficients (w0..w3 in spec §4.M).
type Weights struct {
	TSNFail      float64
	AVBDeadline  float64
	AVBWCD       float64
	RerouteChurn float64
}

// Result holds the scalar cost alongside the components that produced it,
// so callers (optimizer fast-stop checks, CLI summaries) don't recompute.
type Result struct {
	Scalar          float64
	TSNScheduleFail bool
	AVBDeadlineMiss int
	AVBWCDTotal     int64
}

// Evaluate computes Result for sol given tsnOK (the tsnsched.Configure
// verdict for this trial). It recomputes every AVB stream's WCD via
// avbeval.WCD along its sol.Selection(id).Next() candidate route.
//
// FastStop reports spec §4.J/§4.K's early-exit condition: TSN schedulable
// and zero AVB deadline misses.
func Evaluate(g *graph.Graph, streams *streamtable.Table, cands *candidates.Table, sol *solution.Solution, w Weights, tsnOK bool) (Result, error) {
	var res Result
	res.TSNScheduleFail = !tsnOK

	avbIDs := streams.AVBs()
	var wcdTotal int64
	var deadlineMisses int

	for id := range avbIDs {
		spec, _ := streams.AVBSpec(id)
		route, ok := cands.Route(id, sol.Selection(id).Next())
		if !ok {
			deadlineMisses++

			continue
		}

		wcd, err := avbeval.WCD(g, streams, sol, id, route)
		if err != nil {
			return Result{}, err
		}

		wcdTotal += wcd
		if wcd > spec.MaxDelay {
			deadlineMisses++
		}
	}

	res.AVBDeadlineMiss = deadlineMisses
	res.AVBWCDTotal = wcdTotal

	nAVB := len(avbIDs)
	nTotal := len(avbIDs) + len(streams.TSNs())

	var tsnFailTerm float64
	if res.TSNScheduleFail {
		tsnFailTerm = 1
	}

	var deadlineTerm, wcdTerm float64
	if nAVB > 0 {
		deadlineTerm = float64(deadlineMisses) / float64(nAVB)
		wcdTerm = float64(wcdTotal) / float64(nAVB)
	}

	var rerouteTerm float64
	if nTotal > 0 {
		rerouteTerm = float64(sol.RerouteCount()) / float64(nTotal)
	}

	res.Scalar = w.TSNFail*tsnFailTerm + w.AVBDeadline*deadlineTerm + w.AVBWCD*wcdTerm + w.RerouteChurn*rerouteTerm

	return res, nil
}

// FastStop reports whether res satisfies spec §4.J/§4.K's early-exit
// condition: the TSN pass succeeded and no AVB stream missed its deadline.
func (r Result) FastStop() bool {
	return !r.TSNScheduleFail && r.AVBDeadlineMiss == 0
}
