// Package interval implements a sorted, gap-aware map from half-open
// integer ranges [start, end) to an opaque tag value, used by gcl to model
// one port's or one queue's occupied time windows.
//
// The map keeps entries sorted by Start and coalesces adjacent same-tag
// intervals on insert, per spec §4.B. The backing store is a sorted slice:
// per the teacher's own design-notes discipline (see lvlath's benchmark
// commentary in dijkstra/doc.go-style packages), a sorted vector is
// competitive below roughly 10^4 intervals per edge, which comfortably
// covers one bridge port's hyperperiod-bounded schedule.
package interval

import (
	"errors"
	"sort"
)

// ErrEmptyRange indicates a range with End <= Start was supplied.
var ErrEmptyRange = errors.New("interval: range must satisfy start < end")

// Range is a half-open integer interval [Start, End).
type Range struct {
	Start, End int64
}

// Len returns End-Start, the width of the range.
func (r Range) Len() int64 { return r.End - r.Start }

// overlaps reports whether r and o share any point.
func (r Range) overlaps(o Range) bool {
	return r.Start < o.End && o.Start < r.End
}

// entry is one stored interval with its tag.
type entry struct {
	rng Range
	tag interface{}
}

// Map is a sorted collection of non-overlapping-except-same-tag intervals.
// Not safe for concurrent use without external synchronization; gcl takes
// no locks, and each optimizer trial works on its own cloned maps.
type Map struct {
	entries []entry
}

// New returns an empty Map.
func New() *Map {
	return &Map{}
}

// search returns the index of the first entry whose Start >= start.
func (m *Map) search(start int64) int {
	return sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].rng.Start >= start
	})
}

// CheckVacant reports whether rng may be inserted with tag: true iff no
// differently-tagged interval overlaps rng. Same-tag overlap is permitted
// because it coalesces on Insert (spec §4.B).
func (m *Map) CheckVacant(rng Range, tag interface{}) bool {
	if rng.End <= rng.Start {
		return false
	}

	// Successor entries: the first one whose Start could overlap is at
	// index-1 of search(rng.Start) (predecessor) through entries that
	// start before rng.End.
	idx := m.search(rng.Start)

	// Check the predecessor (entry before idx), which may still overlap if
	// its End > rng.Start.
	if idx > 0 {
		pred := m.entries[idx-1]
		if pred.rng.overlaps(rng) && pred.tag != tag {
			return false
		}
	}

	for i := idx; i < len(m.entries) && m.entries[i].rng.Start < rng.End; i++ {
		if m.entries[i].tag != tag {
			return false
		}
	}

	return true
}

// Insert places rng under tag. Precondition: CheckVacant(rng, tag) holds;
// violating it silently corrupts the map's non-overlap invariant (callers
// in gcl always check first, matching spec §4.B's stated precondition).
//
// If the immediate predecessor ends exactly at rng.Start and carries the
// same tag, it is extended to rng.End instead of inserting a new entry
// (coalescing). Complexity: O(log n) search + O(n) slice shift.
func (m *Map) Insert(rng Range, tag interface{}) error {
	if rng.End <= rng.Start {
		return ErrEmptyRange
	}

	idx := m.search(rng.Start)

	if idx > 0 {
		pred := &m.entries[idx-1]
		if pred.tag == tag && pred.rng.End == rng.Start {
			pred.rng.End = rng.End
			m.mergeForwardFrom(idx - 1)

			return nil
		}
	}

	// Also check whether the entry starting exactly at rng.End carries the
	// same tag; if so, merge forward rather than leaving two entries.
	e := entry{rng: rng, tag: tag}
	m.entries = append(m.entries, entry{})
	copy(m.entries[idx+1:], m.entries[idx:])
	m.entries[idx] = e
	m.mergeForwardFrom(idx)

	return nil
}

// mergeForwardFrom coalesces m.entries[i] with its immediate successor if
// they are same-tagged and abut (successor.Start == m.entries[i].End).
// Repeats until no further merge applies (insert only ever creates at most
// one such opportunity, so this runs at most once per call in practice).
func (m *Map) mergeForwardFrom(i int) {
	for i+1 < len(m.entries) {
		a := m.entries[i]
		b := m.entries[i+1]
		if a.tag == b.tag && a.rng.End == b.rng.Start {
			m.entries[i].rng.End = b.rng.End
			m.entries = append(m.entries[:i+1], m.entries[i+2:]...)

			continue
		}

		break
	}
}

// RemoveValue drops every interval tagged tag. Complexity: O(n).
func (m *Map) RemoveValue(tag interface{}) {
	out := m.entries[:0]
	for _, e := range m.entries {
		if e.tag != tag {
			out = append(out, e)
		}
	}
	m.entries = out
}

// IterAfter returns, in ascending Start order, every interval whose
// End >= start. Entries are returned as value copies; mutating them does
// not affect the Map.
func (m *Map) IterAfter(start int64) []Range {
	out := make([]Range, 0, len(m.entries))
	for _, e := range m.entries {
		if e.rng.End >= start {
			out = append(out, e.rng)
		}
	}

	return out
}

// All returns every stored (Range, tag) pair in ascending Start order.
func (m *Map) All() []struct {
	Range Range
	Tag   interface{}
} {
	out := make([]struct {
		Range Range
		Tag   interface{}
	}, len(m.entries))
	for i, e := range m.entries {
		out[i] = struct {
			Range Range
			Tag   interface{}
		}{Range: e.rng, Tag: e.tag}
	}

	return out
}

// Len returns the number of stored intervals.
func (m *Map) Len() int { return len(m.entries) }

// OccupiedAt reports whether point t lies inside some stored interval
// (regardless of tag) and, if so, returns that interval and its tag.
func (m *Map) OccupiedAt(t int64) (Range, interface{}, bool) {
	idx := m.search(t + 1)
	if idx == 0 {
		return Range{}, nil, false
	}
	e := m.entries[idx-1]
	if e.rng.Start <= t && t < e.rng.End {
		return e.rng, e.tag, true
	}

	return Range{}, nil, false
}

// Clone returns an independent copy of m; mutating the clone never affects
// the original (spec §5: GCL interval maps may be shared structurally if
// cheap persistent copy-on-write is available, otherwise a flat clone is
// acceptable and bounds per-ant clone cost at O(total windows)).
func (m *Map) Clone() *Map {
	return &Map{entries: append([]entry(nil), m.entries...)}
}
