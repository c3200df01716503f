// Package candidates holds the precomputed, read-only k-shortest-path
// candidate routes per stream (spec §3 Candidate routes).
//
// Candidates are computed once per topology by yen.KShortestPaths and never
// mutated afterward; every optimizer trial selects among them by index, so
// this table is shared by handle across every cloned solution.Solution
// (spec §5 ant cloning).
package candidates

// Table maps a stream id to its ordered list of candidate routes, each an
// edge-index path from the stream's src to its dst.
type Table struct {
	perStream map[int][][]int
}

// New returns an empty Table.
func New() *Table {
	return &Table{perStream: map[int][][]int{}}
}

// Set records routes as the candidate list for stream id, overwriting any
// prior entry.
func (t *Table) Set(id int, routes [][]int) {
	t.perStream[id] = routes
}

// Count returns the number of candidate routes stored for id.
func (t *Table) Count(id int) int {
	return len(t.perStream[id])
}

// Route returns the k-th candidate route for id, or ok=false if id has no
// candidates or k is out of range (spec §7's Unreachable error kind:
// callers treat ok=false as "no candidate path").
func (t *Table) Route(id, k int) ([]int, bool) {
	routes, ok := t.perStream[id]
	if !ok || k < 0 || k >= len(routes) {
		return nil, false
	}

	return routes[k], true
}
