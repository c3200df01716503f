package solution

import (
	"github.com/katalvlaran/cnc-tsn/candidates"
	"github.com/katalvlaran/cnc-tsn/gcl"
)

// OutcomeState is the TSN scheduler's verdict for one stream (spec §3
// Outcome).
type OutcomeState uint8

const (
	OutcomePending OutcomeState = iota
	OutcomeSchedulable
	OutcomeUnschedulable
)

// Outcome pairs an OutcomeState with the candidate route index the scheduler
// used for the stream; for Schedulable outcomes, Queue additionally records
// the traffic-class queue that admitted it.
type Outcome struct {
	State OutcomeState
	Index int
	Queue int
}

// Solution is the mutable per-stream choice state for one optimizer trial:
// the selection vector, TSN outcomes, the allocated GCL, and the edge→AVB
// traversal index.
//
// Per spec §5 (concurrency & resource model), candidate routes are
// read-only and shared by handle across every clone; Clone only copies the
// mutable selection vector, outcomes, GCL, and edge→AVB index, bounding per-ant clone
// cost at O(total windows) as the design notes require.
type Solution struct {
	selections []Selection
	outcomes   []Outcome
	Schedule   *gcl.Schedule
	avbIndex   map[int]map[int]struct{} // edge -> set of AVB stream ids traversing it
}

// New returns a Solution with n streams, all Pending(0), and a GCL fixed at
// the given hyperperiod.
func New(n int, hyperperiod int64) *Solution {
	sol := &Solution{
		selections: make([]Selection, n),
		outcomes:   make([]Outcome, n),
		Schedule:   gcl.NewSchedule(hyperperiod),
		avbIndex:   map[int]map[int]struct{}{},
	}
	for i := range sol.selections {
		sol.selections[i] = NewPendingSelection(0)
	}

	return sol
}

// Resize extends the selection and outcome vectors to cover newly appended
// stream ids up to n, initializing new entries Pending(0) (spec §4.F
// resize).
func (s *Solution) Resize(n int) {
	for len(s.selections) < n {
		s.selections = append(s.selections, NewPendingSelection(0))
		s.outcomes = append(s.outcomes, Outcome{State: OutcomePending})
	}
}

// Len returns the number of streams this Solution tracks.
func (s *Solution) Len() int { return len(s.selections) }

// Select mutates the pending selection of stream id to candidate index k.
func (s *Solution) Select(id, k int) {
	s.selections[id] = s.selections[id].Select(k)
}

// SelectAVB is Select specialized for AVB streams: it also keeps the
// edge→AVB index consistent by removing id from every edge of its current
// Next() route before installing k, then adding it to every edge of the new
// route (spec §9 design note: evaluators must never see a half-updated
// index).
func (s *Solution) SelectAVB(cands *candidates.Table, id, k int) {
	if oldRoute, ok := cands.Route(id, s.selections[id].Next()); ok {
		for _, e := range oldRoute {
			s.RemoveAVBFromEdge(e, id)
		}
	}

	s.Select(id, k)

	if newRoute, ok := cands.Route(id, k); ok {
		for _, e := range newRoute {
			s.AddAVBToEdge(e, id)
		}
	}
}

// Selection returns the current Selection tri-state value for stream id.
func (s *Solution) Selection(id int) Selection { return s.selections[id] }

// ForcePending resets stream id's selection to Pending(next), preserving
// its tentative candidate index but dropping any confirmed Current. Used
// when the GCL is rebuilt out from under an existing Stay selection (e.g.
// the hyperperiod grew because a new TSN stream was appended), so the
// scheduler treats id as needing a fresh window assignment.
func (s *Solution) ForcePending(id int) {
	s.selections[id] = NewPendingSelection(s.selections[id].Next())
}

// Confirm transitions every selection to Stay(next); called after a
// successful configure pass (spec §4.F confirm).
func (s *Solution) Confirm() {
	for i := range s.selections {
		s.selections[i] = s.selections[i].Confirm()
	}
}

// SetOutcome records the scheduler's verdict for a TSN stream.
func (s *Solution) SetOutcome(id int, o Outcome) { s.outcomes[id] = o }

// Outcome returns the current Outcome for stream id.
func (s *Solution) Outcome(id int) Outcome { return s.outcomes[id] }

// AddAVBToEdge records that AVB stream id traverses edge e.
func (s *Solution) AddAVBToEdge(e, id int) {
	set, ok := s.avbIndex[e]
	if !ok {
		set = map[int]struct{}{}
		s.avbIndex[e] = set
	}
	set[id] = struct{}{}
}

// RemoveAVBFromEdge drops the record that AVB stream id traverses edge e.
func (s *Solution) RemoveAVBFromEdge(e, id int) {
	if set, ok := s.avbIndex[e]; ok {
		delete(set, id)
	}
}

// AVBsOnEdge returns the set of AVB stream ids currently traversing edge e.
// Callers must treat the returned map as read-only.
func (s *Solution) AVBsOnEdge(e int) map[int]struct{} {
	return s.avbIndex[e]
}

// RerouteCount returns the number of streams (TSN+AVB) whose Next differs
// from their confirmed Current (spec §4.M reroute count).
func (s *Solution) RerouteCount() int {
	count := 0
	for _, sel := range s.selections {
		if sel.Rerouted() {
			count++
		}
	}

	return count
}

// Clone returns a deep-enough copy for an independent optimizer trial:
// selections, outcomes, GCL, and the edge→AVB index are all copied;
// nothing here references a shared candidate-route table (callers own
// that separately and pass it by handle).
func (s *Solution) Clone() *Solution {
	out := &Solution{
		selections: append([]Selection(nil), s.selections...),
		outcomes:   append([]Outcome(nil), s.outcomes...),
		Schedule:   s.Schedule.Clone(),
		avbIndex:   make(map[int]map[int]struct{}, len(s.avbIndex)),
	}
	for e, set := range s.avbIndex {
		clonedSet := make(map[int]struct{}, len(set))
		for id := range set {
			clonedSet[id] = struct{}{}
		}
		out.avbIndex[e] = clonedSet
	}

	return out
}
