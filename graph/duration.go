package graph

import "math"

// DurationOn returns the integer time units needed to transmit size bytes
// over edge e, ceiling the floating-point result at the hop per spec §4.A.
func (g *Graph) DurationOn(e int, size float64) (int64, error) {
	bw, err := g.EdgeBandwidth(e)
	if err != nil {
		return 0, err
	}

	return int64(math.Ceil(size / bw)), nil
}

// DurationAlong sums DurationOn over every edge in path, a route expressed
// as an ordered slice of edge indices.
func (g *Graph) DurationAlong(path []int, size float64) (int64, error) {
	var total int64
	for _, e := range path {
		d, err := g.DurationOn(e, size)
		if err != nil {
			return 0, err
		}
		total += d
	}

	return total, nil
}

// NodeSequence expands a path (edge indices) into its node sequence
// [n0, n1, ..., nk], where n0 is path[0]'s From and nk is the last edge's To.
// Returns an empty slice for an empty path.
func (g *Graph) NodeSequence(path []int) ([]int, error) {
	if len(path) == 0 {
		return nil, nil
	}

	seq := make([]int, 0, len(path)+1)
	from, _, err := g.EdgeEndpoints(path[0])
	if err != nil {
		return nil, err
	}
	seq = append(seq, from)

	for _, e := range path {
		_, to, err := g.EdgeEndpoints(e)
		if err != nil {
			return nil, err
		}
		seq = append(seq, to)
	}

	return seq, nil
}
