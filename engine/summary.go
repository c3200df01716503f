package engine

import (
	"sort"

	"github.com/katalvlaran/cnc-tsn/avbeval"
	"github.com/katalvlaran/cnc-tsn/cost"
	"github.com/katalvlaran/cnc-tsn/solution"
)

// TSNResult is one TSN stream's route/schedule outcome, for the per-pass
// summary spec §7 describes ("printing TSN routes").
type TSNResult struct {
	StreamID    int
	Route       []int
	Queue       int
	Schedulable bool
	Rerouted    bool
}

// AVBResult is one AVB stream's route/delay outcome, for the per-pass
// summary spec §7 describes ("AVB routes with WCD/deadline ratio and
// reroute flag").
type AVBResult struct {
	StreamID int
	Route    []int
	WCD      int64
	Deadline int64
	Ratio    float64
	Rerouted bool
}

// Summary is everything one Configure call's caller needs to print the
// per-pass report spec §7 mandates, without re-deriving it from the
// Solution and candidate tables itself.
type Summary struct {
	Pass int
	Cost cost.Result
	TSN  []TSNResult
	AVB  []AVBResult
}

// summarize walks every stream id in ascending order and builds Summary
// from e's current Solution, candidate routes, and res.
func (e *Engine) summarize(res cost.Result) Summary {
	s := Summary{Pass: e.pass, Cost: res}

	tsnIDs := sortedIDs(e.streams.TSNs())
	for _, id := range tsnIDs {
		sel := e.sol.Selection(id)
		route, _ := e.cands.Route(id, sel.Next())
		outcome := e.sol.Outcome(id)

		s.TSN = append(s.TSN, TSNResult{
			StreamID:    id,
			Route:       route,
			Queue:       outcome.Queue,
			Schedulable: outcome.State == solution.OutcomeSchedulable,
			Rerouted:    sel.Rerouted(),
		})
	}

	avbIDs := sortedIDs(e.streams.AVBs())
	for _, id := range avbIDs {
		sel := e.sol.Selection(id)
		route, _ := e.cands.Route(id, sel.Next())
		spec, _ := e.streams.AVBSpec(id)

		wcd, err := avbeval.WCD(e.g, e.streams, e.sol, id, route)
		if err != nil {
			wcd = 0
		}

		var ratio float64
		if spec.MaxDelay > 0 {
			ratio = float64(wcd) / float64(spec.MaxDelay)
		}

		s.AVB = append(s.AVB, AVBResult{
			StreamID: id,
			Route:    route,
			WCD:      wcd,
			Deadline: spec.MaxDelay,
			Ratio:    ratio,
			Rerouted: sel.Rerouted(),
		})
	}

	return s
}

func sortedIDs(set map[int]struct{}) []int {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	return ids
}
