// Package dijkstra computes single-source shortest paths over a graph.Graph
// using edge transmission duration as weight, honoring optional node and
// edge exclusion sets. It is the kernel package yen runs repeatedly with
// different exclusion sets to produce spur paths (spec §4.C).
//
// Adapted from the teacher's lazy-decrease-key binary-heap Dijkstra: same
// runner split (init/process/relax) and the same "push duplicates, skip
// stale pops via a visited set" discipline, generalized to exclude a node
// set and an edge set instead of capping distance.
package dijkstra

import (
	"container/heap"
	"errors"
	"math"

	"github.com/katalvlaran/cnc-tsn/graph"
)

// ErrSourceNotFound indicates the source node id is out of range.
var ErrSourceNotFound = errors.New("dijkstra: source node not found")

// Result holds the outcome of one Dijkstra run: per-node distance and the
// predecessor edge used to reach it (-1 for Source and for unreachable
// nodes).
type Result struct {
	Dist []int64
	Prev []int
}

// Options configures one Dijkstra run.
type Options struct {
	Source int

	// ExcludedNodes, if non-nil, marks node ids that may not be traversed
	// as an interior or destination node. Source itself is always
	// explorable even if present in this set.
	ExcludedNodes map[int]struct{}

	// ExcludedEdges, if non-nil, marks edge indices that may not be used.
	ExcludedEdges map[int]struct{}

	// SizeBytes is the frame size used to compute each edge's traversal
	// duration via graph.Graph.DurationOn; it is the Dijkstra edge weight.
	SizeBytes float64
}

// Run computes shortest distances (and predecessor edges) from
// opts.Source to every reachable node in g.
//
// Complexity: O((V+E) log V).
func Run(g *graph.Graph, opts Options) (Result, error) {
	n := g.NodeCount()
	if opts.Source < 0 || opts.Source >= n {
		return Result{}, ErrSourceNotFound
	}

	r := &runner{
		g:       g,
		opts:    opts,
		dist:    make([]int64, n),
		prev:    make([]int, n),
		visited: make([]bool, n),
	}
	r.init()
	if err := r.process(); err != nil {
		return Result{}, err
	}

	return Result{Dist: r.dist, Prev: r.prev}, nil
}

type runner struct {
	g       *graph.Graph
	opts    Options
	dist    []int64
	prev    []int
	visited []bool
	pq      nodePQ
}

func (r *runner) init() {
	for i := range r.dist {
		r.dist[i] = math.MaxInt64
		r.prev[i] = -1
	}
	r.dist[r.opts.Source] = 0

	heap.Init(&r.pq)
	heap.Push(&r.pq, &nodeItem{id: r.opts.Source, dist: 0})
}

func (r *runner) process() error {
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(*nodeItem)
		u := item.id

		if r.visited[u] {
			continue
		}
		r.visited[u] = true

		if err := r.relax(u); err != nil {
			return err
		}
	}

	return nil
}

func (r *runner) relax(u int) error {
	if u != r.opts.Source {
		if _, excluded := r.opts.ExcludedNodes[u]; excluded {
			return nil
		}
	}

	neighbors, err := r.g.Neighbors(u)
	if err != nil {
		return err
	}

	for _, e := range neighbors {
		if _, excluded := r.opts.ExcludedEdges[e]; excluded {
			continue
		}

		_, v, err := r.g.EdgeEndpoints(e)
		if err != nil {
			return err
		}
		if v != r.opts.Source {
			if _, excluded := r.opts.ExcludedNodes[v]; excluded {
				continue
			}
		}

		w, err := r.g.DurationOn(e, r.opts.SizeBytes)
		if err != nil {
			return err
		}

		newDist := r.dist[u] + w
		if newDist >= r.dist[v] {
			continue
		}

		r.dist[v] = newDist
		r.prev[v] = e
		heap.Push(&r.pq, &nodeItem{id: v, dist: newDist})
	}

	return nil
}

// PathTo reconstructs the edge-index path from Source to dst by walking
// Prev backward through g's edge endpoints. Returns (nil, false) if dst is
// unreachable.
func (res Result) PathTo(g *graph.Graph, dst int) ([]int, bool) {
	if res.Dist[dst] == math.MaxInt64 {
		return nil, false
	}

	var revPath []int
	v := dst
	for res.Prev[v] != -1 {
		e := res.Prev[v]
		revPath = append(revPath, e)
		from, _, err := g.EdgeEndpoints(e)
		if err != nil {
			return nil, false
		}
		v = from
	}

	for i, j := 0, len(revPath)-1; i < j; i, j = i+1, j-1 {
		revPath[i], revPath[j] = revPath[j], revPath[i]
	}

	return revPath, true
}

// nodeItem and nodePQ mirror the teacher's lazy-decrease-key priority
// queue: duplicates are pushed rather than decrease-keyed, and stale pops
// are skipped via the visited set in process().
type nodeItem struct {
	id   int
	dist int64
}

type nodePQ []*nodeItem

func (pq nodePQ) Len() int            { return len(pq) }
func (pq nodePQ) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq nodePQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }
func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
