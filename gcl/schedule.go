package gcl

import (
	"fmt"

	"github.com/katalvlaran/cnc-tsn/interval"
)

// Schedule is the full gate-control-list state for a topology: one
// interval.Map per edge's port, and NumQueues per-edge per-queue maps, all
// sharing a fixed Hyperperiod (spec §3 GCL state, §4.G).
//
// Structured like flow.Dinic's repeat-until-no-augmenting-path loop: every
// insertion replicates the base window across the hyperperiod, retrying
// (via gcl's own per-replica advance, not a blind re-run) until every
// replica is placed or the call fails.
type Schedule struct {
	Hyperperiod int64

	ports  map[int]*interval.Map
	queues map[int][NumQueues]*interval.Map
}

// NewSchedule returns an empty Schedule fixed at the given hyperperiod.
func NewSchedule(hyperperiod int64) *Schedule {
	return &Schedule{
		Hyperperiod: hyperperiod,
		ports:       map[int]*interval.Map{},
		queues:      map[int][NumQueues]*interval.Map{},
	}
}

func (s *Schedule) portMap(edge int) *interval.Map {
	m, ok := s.ports[edge]
	if !ok {
		m = interval.New()
		s.ports[edge] = m
	}

	return m
}

func (s *Schedule) queueMap(edge, q int) *interval.Map {
	arr, ok := s.queues[edge]
	if !ok {
		for i := range arr {
			arr[i] = interval.New()
		}
		s.queues[edge] = arr
	}

	return arr[q]
}

func (s *Schedule) mapFor(e Entry) (*interval.Map, error) {
	switch e.Kind {
	case EntryPort:
		return s.portMap(e.Edge), nil
	case EntryQueue:
		if e.Queue < 0 || e.Queue >= NumQueues {
			return nil, ErrBadQueue
		}

		return s.queueMap(e.Edge, e.Queue), nil
	default:
		return nil, fmt.Errorf("gcl: unknown entry kind %d", e.Kind)
	}
}

// PortEvents returns every gate-close interval currently scheduled on
// edge's port map, used by avbeval's TSN-interference sliding window.
func (s *Schedule) PortEvents(edge int) []interval.Range {
	m, ok := s.ports[edge]
	if !ok {
		return nil
	}

	all := m.All()
	out := make([]interval.Range, len(all))
	for i, e := range all {
		out[i] = e.Range
	}

	return out
}

// PortEntries returns every (Range, tag) pair currently scheduled on edge's
// port map, ascending by Start. Unlike PortEvents, the tag is preserved, so
// callers can tell which stream occupies which window (e.g. tie-break
// assertions in tests).
func (s *Schedule) PortEntries(edge int) []struct {
	Range interval.Range
	Tag   interface{}
} {
	m, ok := s.ports[edge]
	if !ok {
		return nil
	}

	return m.All()
}

// Clone returns an independent copy of s; mutating the clone never affects
// the original. This is the flat-clone fallback spec §5 allows when
// structural sharing of interval maps is not available.
func (s *Schedule) Clone() *Schedule {
	out := &Schedule{
		Hyperperiod: s.Hyperperiod,
		ports:       make(map[int]*interval.Map, len(s.ports)),
		queues:      make(map[int][NumQueues]*interval.Map, len(s.queues)),
	}
	for edge, m := range s.ports {
		out.ports[edge] = m.Clone()
	}
	for edge, arr := range s.queues {
		var cloned [NumQueues]*interval.Map
		for i, m := range arr {
			cloned[i] = m.Clone()
		}
		out.queues[edge] = cloned
	}

	return out
}

// QueuePointVacant reports whether instant point is free of any occupant in
// queue q of edge, across every replica offset 0, period, 2*period, ...
// (spec §4.I step 4's "must be empty at time s+egress+txtime[r]" check). If
// not vacant, advance is the smallest amount by which point must move
// forward so that the blocking occupant (on whichever replica blocks
// longest) has ended.
func (s *Schedule) QueuePointVacant(edge, q int, point, period int64) (vacant bool, advance int64) {
	m := s.queueMap(edge, q)

	var maxAdvance int64
	for _, start := range s.replicaStarts(point, period) {
		if rng, _, occupied := m.OccupiedAt(start); occupied {
			if a := rng.End - start; a > maxAdvance {
				maxAdvance = a
			}
		}
	}

	if maxAdvance == 0 {
		return true, 0
	}

	return false, maxAdvance
}

// replicaStarts returns the replicated window start offsets 0, period,
// 2*period, ... < Hyperperiod for a base window starting at windowStart.
func (s *Schedule) replicaStarts(windowStart, period int64) []int64 {
	if period <= 0 {
		return nil
	}
	var starts []int64
	for off := int64(0); off < s.Hyperperiod; off += period {
		starts = append(starts, windowStart+off)
	}

	return starts
}

// CheckVacant reports whether every replica of window (width End-Start, at
// Start, Start+period, ...) is vacant for tag, per the same-tag-coalescing
// rule (spec §4.G).
func (s *Schedule) CheckVacant(e Entry, tag interface{}, window interval.Range, period int64) (bool, error) {
	m, err := s.mapFor(e)
	if err != nil {
		return false, err
	}

	width := window.Len()
	for _, start := range s.replicaStarts(window.Start, period) {
		r := interval.Range{Start: start, End: start + width}
		if !m.CheckVacant(r, tag) {
			return false, nil
		}
	}

	return true, nil
}

// Insert replicates window (tagged tsn) across the hyperperiod at offsets
// 0, period, 2*period, .... Precondition: CheckVacant(e, tsn, window,
// period) holds.
func (s *Schedule) Insert(e Entry, tsn interface{}, window interval.Range, period int64) error {
	m, err := s.mapFor(e)
	if err != nil {
		return err
	}

	width := window.Len()
	for _, start := range s.replicaStarts(window.Start, period) {
		r := interval.Range{Start: start, End: start + width}
		if err := m.Insert(r, tsn); err != nil {
			return err
		}
	}

	return nil
}

// Remove drops every interval tagged tsn from edge's port map and all
// NumQueues queue maps (spec §4.G remove).
func (s *Schedule) Remove(edge int, tsn interface{}) {
	if m, ok := s.ports[edge]; ok {
		m.RemoveValue(tsn)
	}
	if arr, ok := s.queues[edge]; ok {
		for _, m := range arr {
			m.RemoveValue(tsn)
		}
	}
}

// QueryLaterVacant finds the smallest non-negative shift s such that
// CheckVacant(e, tsn, window shifted by s, period) holds, alternating
// between a per-replica next-gap query and a global consistency recheck
// (spec §4.G). Returns ok=false if no such s exists before the hyperperiod.
func (s *Schedule) QueryLaterVacant(e Entry, tsn interface{}, window interval.Range, period int64) (int64, bool, error) {
	m, err := s.mapFor(e)
	if err != nil {
		return 0, false, err
	}

	width := window.Len()
	shift := int64(0)

	for {
		candidate := interval.Range{Start: window.Start + shift, End: window.Start + shift + width}
		if candidate.End > s.Hyperperiod && period >= s.Hyperperiod {
			return 0, false, nil
		}

		maxGapAdvance := int64(0)
		allVacant := true
		for _, start := range s.replicaStarts(window.Start+shift, period) {
			gapStart, ok := m.NextGap(start, width, s.Hyperperiod+width, tsn)
			if !ok {
				return 0, false, nil
			}
			if gapStart > start {
				allVacant = false
				advance := gapStart - start
				if advance > maxGapAdvance {
					maxGapAdvance = advance
				}
			}
		}

		if allVacant {
			return shift, true, nil
		}

		shift += maxGapAdvance
		if window.Start+shift+width > s.Hyperperiod+window.Start {
			// Defensive bound: a shift that would push any replica's base
			// window past one full hyperperiod from its origin cannot
			// converge (mirrors spec §4.G's "Returns None if s would push
			// any replica past hyperperiod").
			if shift >= s.Hyperperiod {
				return 0, false, nil
			}
		}
	}
}
