// Package avbeval computes the worst-case end-to-end delay (WCD) of one AVB
// stream along a chosen route on a given solution.Solution (spec §4.H).
package avbeval

import (
	"math"
	"sort"

	"github.com/katalvlaran/cnc-tsn/gcl"
	"github.com/katalvlaran/cnc-tsn/graph"
	"github.com/katalvlaran/cnc-tsn/solution"
	"github.com/katalvlaran/cnc-tsn/streamtable"
)

// MaxBestEffortFrame is MAX_BE, the maximum-size best-effort frame (bytes)
// that may precede an AVB frame on any hop.
const MaxBestEffortFrame = 1500.0

// MaxAVBShare is the fraction of link bandwidth credit-based shaping
// reserves for AVB traffic (MAX_AVB_SHARE in spec §4.H).
const MaxAVBShare = 0.75

// WCD computes the worst-case end-to-end delay, in integer time units, of
// AVB stream id traveling route (an ordered edge-index path) given sol's
// current edge→AVB index and TSN GCL.
//
// Complexity: O(route length * (|AVBs on edge| + |events on edge|)).
func WCD(g *graph.Graph, streams *streamtable.Table, sol *solution.Solution, id int, route []int) (int64, error) {
	spec, ok := streams.AVBSpec(id)
	if !ok {
		return 0, nil
	}

	var total float64
	for _, e := range route {
		hop, err := hopWCD(g, streams, sol, id, spec, e)
		if err != nil {
			return 0, err
		}
		total += hop
	}

	return int64(stabilize(total)), nil
}

// stabilize rounds x at 1e-9 precision before the integer truncation above.
// The per-hop terms are exact rationals (sizes over bandwidth shares) whose
// float64 sum can land an ulp below the true value; truncating that raw sum
// would lose a whole time unit.
func stabilize(x float64) float64 {
	return math.Round(x*1e9) / 1e9
}

// hopWCD returns the floating-point worst-case delay contributed by one hop,
// left untruncated: spec §4.H sums the float delay over the whole route and
// truncates exactly once, at the end, in WCD above.
func hopWCD(g *graph.Graph, streams *streamtable.Table, sol *solution.Solution, id int, spec streamtable.AVBSpec, e int) (float64, error) {
	bw, err := g.EdgeBandwidth(e)
	if err != nil {
		return 0, err
	}

	// 1) one maximum-size best-effort frame.
	wcd := MaxBestEffortFrame / bw

	// 2) own transmission time on the shaped share of bandwidth.
	ownShareBW := MaxAVBShare * bw
	wcd += float64(spec.Size) / ownShareBW

	// 3) interference from other AVBs on the same edge.
	for otherID := range sol.AVBsOnEdge(e) {
		if otherID == id {
			continue
		}
		other, ok := streams.AVBSpec(otherID)
		if !ok {
			continue
		}
		interferes := other.Class == streamtable.ClassA || spec.Class == streamtable.ClassB
		if !interferes {
			continue
		}
		wcd += float64(other.Size) / ownShareBW
	}

	// 4) TSN interference: the maximum cumulative duration of consecutive
	// gate-close events that could fit within this hop's busy period. The
	// sliding window itself is sized in integer time units (interval.Range
	// is int64-based), but the closed-time it returns is added to the
	// still-untruncated float accumulator.
	hopBusy := int64(wcd)
	closed, err := maxClosedWithinWindow(sol.Schedule, e, hopBusy)
	if err != nil {
		return 0, err
	}

	return wcd + float64(closed), nil
}

// maxClosedWithinWindow slides a window of width hopWCD over edge e's
// sorted port events (TSN gate-close intervals) and returns the maximum
// total closed-time swept by any placement of the window (spec §4.H step 4).
func maxClosedWithinWindow(sched *gcl.Schedule, edge int, hopWCD int64) (int64, error) {
	if hopWCD <= 0 {
		return 0, nil
	}

	events := sched.PortEvents(edge)
	if len(events) == 0 {
		return 0, nil
	}

	sort.Slice(events, func(i, j int) bool { return events[i].Start < events[j].Start })

	var best int64
	for i := range events {
		windowStart := events[i].Start
		windowEnd := windowStart + hopWCD

		var closed int64
		for _, ev := range events {
			lo := max64(ev.Start, windowStart)
			hi := min64(ev.End, windowEnd)
			if hi > lo {
				closed += hi - lo
			}
		}
		if closed > best {
			best = closed
		}
	}

	return best, nil
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}

	return b
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}

	return b
}
