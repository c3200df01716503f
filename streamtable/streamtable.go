// Package streamtable holds the append-only, 0-based-dense flow table of
// TSN and AVB stream specifications (spec §3 Stream, §4.E Flow Table).
package streamtable

import "errors"

// ErrBadID indicates a stream id outside [0, Len()).
var ErrBadID = errors.New("streamtable: stream id out of range")

// Class distinguishes AVB credit-shaped traffic classes.
type Class uint8

const (
	ClassA Class = iota
	ClassB
)

// TSNSpec is one scheduled TSN stream's fixed periodic requirement.
type TSNSpec struct {
	Src, Dst int
	Size     int64 // bytes
	Period   int64
	MaxDelay int64
	Offset   int64
}

// Deadline returns Offset + MaxDelay, the absolute time by which the last
// frame of each period must arrive.
func (s TSNSpec) Deadline() int64 { return s.Offset + s.MaxDelay }

// AVBSpec is one credit-shaped AVB stream's reservation.
type AVBSpec struct {
	Src, Dst int
	Size     int64
	Period   int64
	MaxDelay int64
	Class    Class
}

// kind tags which union member a stream id holds.
type kind uint8

const (
	kindTSN kind = iota
	kindAVB
)

// entry is the tagged-union storage cell for one appended stream.
type entry struct {
	k    kind
	tsn  TSNSpec
	avb  AVBSpec
	from int
	to   int
}

// Table is the append-only, dense, 0-based flow table. Ids are assigned in
// insertion order and are never reused (spec §3 invariant).
type Table struct {
	entries []entry
	tsns    map[int]struct{}
	avbs    map[int]struct{}
	inputs  map[int]struct{} // ids from the most recent Append call
}

// New returns an empty Table.
func New() *Table {
	return &Table{
		tsns: map[int]struct{}{},
		avbs: map[int]struct{}{},
	}
}

// AppendRange is the [start, end) id range produced by one Append call.
type AppendRange struct {
	Start, End int
}

// Append adds tsns then avbs, in the given slice order, and returns the
// dense id range assigned to this call. The returned range becomes the new
// Inputs() set, replacing whatever a prior Append call returned (spec §3
// `inputs`). Reroute churn is not derived from this set: cost counts it from
// the selections (solution.Solution.RerouteCount).
func (t *Table) Append(tsns []TSNSpec, avbs []AVBSpec) AppendRange {
	start := len(t.entries)

	newInputs := make(map[int]struct{}, len(tsns)+len(avbs))
	for _, spec := range tsns {
		id := len(t.entries)
		t.entries = append(t.entries, entry{k: kindTSN, tsn: spec, from: spec.Src, to: spec.Dst})
		t.tsns[id] = struct{}{}
		newInputs[id] = struct{}{}
	}
	for _, spec := range avbs {
		id := len(t.entries)
		t.entries = append(t.entries, entry{k: kindAVB, avb: spec, from: spec.Src, to: spec.Dst})
		t.avbs[id] = struct{}{}
		newInputs[id] = struct{}{}
	}

	t.inputs = newInputs

	return AppendRange{Start: start, End: len(t.entries)}
}

// Len returns the total number of streams ever appended.
func (t *Table) Len() int { return len(t.entries) }

// TSNSpec returns the TSN spec for id, or ok=false if id is out of range
// or is not a TSN stream.
func (t *Table) TSNSpec(id int) (TSNSpec, bool) {
	if id < 0 || id >= len(t.entries) {
		return TSNSpec{}, false
	}
	e := t.entries[id]
	if e.k != kindTSN {
		return TSNSpec{}, false
	}

	return e.tsn, true
}

// AVBSpec returns the AVB spec for id, or ok=false if id is out of range
// or is not an AVB stream.
func (t *Table) AVBSpec(id int) (AVBSpec, bool) {
	if id < 0 || id >= len(t.entries) {
		return AVBSpec{}, false
	}
	e := t.entries[id]
	if e.k != kindAVB {
		return AVBSpec{}, false
	}

	return e.avb, true
}

// Ends returns (src, dst) for any stream id, TSN or AVB.
func (t *Table) Ends(id int) (int, int, error) {
	if id < 0 || id >= len(t.entries) {
		return 0, 0, ErrBadID
	}
	e := t.entries[id]

	return e.from, e.to, nil
}

// TSNs returns the set of TSN stream ids.
func (t *Table) TSNs() map[int]struct{} { return t.tsns }

// AVBs returns the set of AVB stream ids.
func (t *Table) AVBs() map[int]struct{} { return t.avbs }

// Inputs returns the id set appended by the most recent Append call.
func (t *Table) Inputs() map[int]struct{} { return t.inputs }
