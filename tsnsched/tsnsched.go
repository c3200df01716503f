// Package tsnsched assigns per-hop transmission windows and a shared
// traffic-class queue to every TSN stream selected in a solution.Solution,
// inserting the result into its GCL (spec §4.I).
//
// Structured like flow.Dinic's attempt/rebuild/retry shape: an incremental
// pass reuses the existing GCL and only reschedules switched or pending
// streams; if that fails, a recovery pass wipes the GCL and rebuilds it from
// scratch, mirroring Dinic's level-graph rebuild on a failed phase.
package tsnsched

import (
	"errors"
	"sort"

	"github.com/katalvlaran/cnc-tsn/candidates"
	"github.com/katalvlaran/cnc-tsn/gcl"
	"github.com/katalvlaran/cnc-tsn/graph"
	"github.com/katalvlaran/cnc-tsn/interval"
	"github.com/katalvlaran/cnc-tsn/solution"
	"github.com/katalvlaran/cnc-tsn/streamtable"
)

// MTU is the maximum transmission unit in bytes, per spec §4.I.
const MTU = 1500.0

// Sentinel errors, mirroring spec §7's error kinds. These are returned only
// for a single stream's scheduling attempt; the caller folds them into a
// pass-level failure rather than propagating them as fatal errors.
var (
	// ErrQueueExhausted indicates all NumQueues queues were tried and none
	// admitted the stream.
	ErrQueueExhausted = errors.New("tsnsched: queue exhausted")

	// ErrDeadlineMiss indicates a computed window would end after the
	// stream's deadline.
	ErrDeadlineMiss = errors.New("tsnsched: deadline miss")

	// ErrNoVacancy indicates a port replica cannot accommodate the required
	// width anywhere before the hyperperiod.
	ErrNoVacancy = errors.New("tsnsched: no vacancy")

	// ErrUnreachable indicates the stream's selected candidate index has no
	// route.
	ErrUnreachable = errors.New("tsnsched: unreachable")
)

// maxAdjustAttempts bounds the egress-adjustment loop in calculateWindows;
// each iteration strictly advances egress by at least 1, so this is a
// defensive cap against a malformed schedule, not a normal exit path.
const maxAdjustAttempts = 100000

// Configure runs the two-phase TSN scheduling pass over every TSN stream
// whose solution.Selection.Next index is set, per spec §4.I. bridgeDelay is
// the configurable per-hop bridge processing delay (spec §9 open question,
// default 0).
//
// Returns ok=false (not an error) when both the incremental and the
// recovery pass fail to schedule every stream; callers fold that into
// cost's tsn_schedule_fail term rather than treating it as fatal.
func Configure(g *graph.Graph, streams *streamtable.Table, cands *candidates.Table, sol *solution.Solution, bridgeDelay int64) (bool, error) {
	ok, err := runPass(g, streams, cands, sol, bridgeDelay, true)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}

	sol.Schedule = gcl.NewSchedule(sol.Schedule.Hyperperiod)

	ok, err = runPass(g, streams, cands, sol, bridgeDelay, false)
	if err != nil {
		return false, err
	}
	if !ok {
		for _, id := range sortedTSNIDs(streams) {
			sol.SetOutcome(id, solution.Outcome{State: solution.OutcomeUnschedulable, Index: sol.Selection(id).Next()})
		}
	}

	return ok, nil
}

// runPass schedules either the subset of TSN streams needing (re)scheduling
// (incremental=true) or every TSN stream (incremental=false, the recovery
// pass). It returns ok=false as soon as one stream exhausts all queues,
// leaving the caller to decide whether to retry via recovery.
func runPass(g *graph.Graph, streams *streamtable.Table, cands *candidates.Table, sol *solution.Solution, bridgeDelay int64, incremental bool) (bool, error) {
	var ids []int
	for _, id := range sortedTSNIDs(streams) {
		sel := sol.Selection(id)
		if incremental {
			if sel.State() == solution.Switch {
				if oldK, ok := sel.Current(); ok {
					if oldRoute, ok := cands.Route(id, oldK); ok {
						for _, e := range oldRoute {
							sol.Schedule.Remove(e, id)
						}
					}
				}
			}
			if sel.State() == solution.Stay {
				continue
			}
		}
		ids = append(ids, id)
	}

	order, err := orderStreams(streams, cands, sol, ids)
	if err != nil {
		return false, err
	}

	for _, id := range order {
		spec, _ := streams.TSNSpec(id)
		route, ok := cands.Route(id, sol.Selection(id).Next())
		if !ok {
			return false, nil
		}

		q, werr := scheduleOne(g, sol.Schedule, bridgeDelay, id, spec, route)
		if werr != nil {
			return false, nil
		}

		sol.SetOutcome(id, solution.Outcome{State: solution.OutcomeSchedulable, Index: sol.Selection(id).Next(), Queue: q})
	}

	return true, nil
}

// sortedTSNIDs returns streams.TSNs() (a map, whose iteration order Go
// randomizes on every call) as an ascending-id slice, so every caller here
// walks TSN streams in a fixed order before orderStreams breaks ties among
// them — required for spec §8's "same seed, same flow table => identical
// Solution" property.
func sortedTSNIDs(streams *streamtable.Table) []int {
	set := streams.TSNs()
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	return ids
}

// orderStreams sorts ids ascending by max_delay, then ascending by period,
// then descending by route length (spec §4.I pass ordering).
func orderStreams(streams *streamtable.Table, cands *candidates.Table, sol *solution.Solution, ids []int) ([]int, error) {
	type keyed struct {
		id        int
		maxDelay  int64
		period    int64
		routeLen  int
	}

	keys := make([]keyed, 0, len(ids))
	for _, id := range ids {
		spec, _ := streams.TSNSpec(id)
		route, _ := cands.Route(id, sol.Selection(id).Next())
		keys = append(keys, keyed{id: id, maxDelay: spec.MaxDelay, period: spec.Period, routeLen: len(route)})
	}

	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.maxDelay != b.maxDelay {
			return a.maxDelay < b.maxDelay
		}
		if a.period != b.period {
			return a.period < b.period
		}

		return a.routeLen > b.routeLen
	})

	out := make([]int, len(keys))
	for i, k := range keys {
		out[i] = k.id
	}

	return out, nil
}

// scheduleOne tries calculateWindows for queues 0..NumQueues-1, inserting
// and returning the first queue that admits the stream (spec §4.I queue
// loop).
func scheduleOne(g *graph.Graph, sched *gcl.Schedule, bridgeDelay int64, id int, spec streamtable.TSNSpec, route []int) (int, error) {
	if len(route) == 0 {
		return 0, ErrUnreachable
	}

	for q := 0; q < gcl.NumQueues; q++ {
		windows, err := calculateWindows(g, sched, bridgeDelay, id, spec, route, q)
		if err == nil {
			insertWindows(sched, id, spec.Period, route, q, windows)

			return q, nil
		}
	}

	return 0, ErrQueueExhausted
}

// calculateWindows computes window[r][f] for every hop r and frame f of one
// TSN stream's route at queue q, per spec §4.I's window-calculation steps.
func calculateWindows(g *graph.Graph, sched *gcl.Schedule, bridgeDelay int64, id int, spec streamtable.TSNSpec, route []int, q int) ([][]interval.Range, error) {
	frames := int((spec.Size + int64(MTU) - 1) / int64(MTU))
	if frames < 1 {
		frames = 1
	}
	L := len(route)

	txtime := make([]int64, L)
	for r, e := range route {
		d, err := g.DurationOn(e, MTU)
		if err != nil {
			return nil, err
		}
		txtime[r] = d
	}

	windows := make([][]interval.Range, L)
	for r := range windows {
		windows[r] = make([]interval.Range, frames)
	}

	deadline := spec.Deadline()

	for f := 0; f < frames; f++ {
		for r := 0; r < L; r++ {
			var prevFrameDone int64
			if f == 0 {
				prevFrameDone = spec.Offset
			} else {
				prevFrameDone = windows[r][f-1].End
			}

			var prevLinkDone int64
			if r == 0 {
				prevLinkDone = spec.Offset
			} else {
				prevLinkDone = windows[r-1][f].End
			}

			egress := prevFrameDone
			if prevLinkDone > egress {
				egress = prevLinkDone
			}
			if r > 0 {
				egress += bridgeDelay
			}

			for attempt := 0; ; attempt++ {
				if attempt > maxAdjustAttempts {
					return nil, ErrNoVacancy
				}

				win := interval.Range{Start: egress, End: egress + txtime[r]}
				shift, ok, err := sched.QueryLaterVacant(gcl.Port(route[r]), id, win, spec.Period)
				if err != nil {
					return nil, err
				}
				if !ok {
					return nil, ErrNoVacancy
				}
				if shift > 0 {
					egress += shift

					continue
				}

				if r < L-1 {
					vacant, advance := sched.QueuePointVacant(route[r+1], q, egress+txtime[r], spec.Period)
					if !vacant {
						egress += advance

						continue
					}
				}

				break
			}

			if egress+txtime[r] > deadline {
				return nil, ErrDeadlineMiss
			}

			windows[r][f] = interval.Range{Start: egress, End: egress + txtime[r]}
		}
	}

	return windows, nil
}

// insertWindows inserts every window[r][f] into edge ends[r]'s port map, and
// for r > 0 the queueing interval [window[r-1][f].Start, window[r][f].Start)
// into queue q of edge ends[r], all tagged by id (spec §4.I insert step).
func insertWindows(sched *gcl.Schedule, id int, period int64, route []int, q int, windows [][]interval.Range) {
	for r, e := range route {
		for f := range windows[r] {
			_ = sched.Insert(gcl.Port(e), id, windows[r][f], period)

			if r > 0 {
				queueWindow := interval.Range{Start: windows[r-1][f].Start, End: windows[r][f].Start}
				if queueWindow.End > queueWindow.Start {
					_ = sched.Insert(gcl.Queue(e, q), id, queueWindow, period)
				}
			}
		}
	}
}
