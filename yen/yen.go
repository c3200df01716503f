// Package yen implements Yen's k-shortest-loopless-paths algorithm over a
// graph.Graph, built on repeated package dijkstra calls with spur-node
// exclusion (spec §4.D). It produces, for one (src, dst) pair, an ordered
// list of up to K edge-disjoint-ish simple paths used as the optimizer's
// candidate-route set for one stream.
package yen

import (
	"container/heap"
	"errors"

	"github.com/katalvlaran/cnc-tsn/dijkstra"
	"github.com/katalvlaran/cnc-tsn/graph"
)

// ErrNoPath indicates src cannot reach dst at all (the first, shortest
// path does not exist).
var ErrNoPath = errors.New("yen: no path from src to dst")

// KShortestPaths returns up to k loopless simple paths from src to dst in
// g, ordered by non-decreasing total duration (spec §8: "Yen's is stable
// under candidate-path permutations: the kth path's traversal cost is
// non-decreasing in k"). Each path is an ordered slice of edge indices.
//
// sizeBytes is the frame size used for edge-duration weighting, matching
// the Dijkstra kernel's weight function.
//
// Complexity: O(k * V * (V+E) log V) in the worst case (k spur searches
// per accepted path, one per root-path prefix position).
func KShortestPaths(g *graph.Graph, src, dst int, k int, sizeBytes float64) ([][]int, error) {
	if k <= 0 {
		return nil, nil
	}

	first, err := shortestPath(g, src, dst, nil, nil, sizeBytes)
	if err != nil {
		return nil, err
	}
	if first == nil {
		return nil, ErrNoPath
	}

	paths := [][]int{first}
	candidates := &candidateHeap{}
	heap.Init(candidates)

	for len(paths) < k {
		prevPath := paths[len(paths)-1]

		for i := 0; i < len(prevPath); i++ {
			rootPath := prevPath[:i]
			spurNode, err := rootSpurNode(g, rootPath, src)
			if err != nil {
				return nil, err
			}

			excludedEdges := map[int]struct{}{}
			for _, p := range paths {
				if pathSharesRoot(p, rootPath) && len(p) > i {
					excludedEdges[p[i]] = struct{}{}
				}
			}

			excludedNodes := map[int]struct{}{}
			nodeSeq, err := g.NodeSequence(rootPath)
			if err != nil {
				return nil, err
			}
			for _, n := range nodeSeq {
				if n != spurNode {
					excludedNodes[n] = struct{}{}
				}
			}

			spurPath, err := shortestPath(g, spurNode, dst, excludedNodes, excludedEdges, sizeBytes)
			if err != nil {
				return nil, err
			}
			if spurPath == nil {
				continue
			}

			total := append(append([]int{}, rootPath...), spurPath...)
			if containsLoop(g, total) {
				continue
			}

			cost, err := g.DurationAlong(total, sizeBytes)
			if err != nil {
				return nil, err
			}

			heap.Push(candidates, &candidate{path: total, cost: cost})
		}

		if candidates.Len() == 0 {
			break
		}

		next := heap.Pop(candidates).(*candidate)
		// Deduplicate: the same candidate path may have been pushed from
		// multiple spur positions.
		if !containsPath(paths, next.path) {
			paths = append(paths, next.path)
		}
	}

	return paths, nil
}

// shortestPath runs Dijkstra from src to dst with the given exclusions and
// reconstructs the path, returning nil (no error) if dst is unreachable.
func shortestPath(g *graph.Graph, src, dst int, excludedNodes, excludedEdges map[int]struct{}, sizeBytes float64) ([]int, error) {
	res, err := dijkstra.Run(g, dijkstra.Options{
		Source:        src,
		ExcludedNodes: excludedNodes,
		ExcludedEdges: excludedEdges,
		SizeBytes:     sizeBytes,
	})
	if err != nil {
		return nil, err
	}

	path, ok := res.PathTo(g, dst)
	if !ok {
		return nil, nil
	}

	return path, nil
}

// rootSpurNode returns src if rootPath is empty, otherwise the destination
// node of rootPath's last edge.
func rootSpurNode(g *graph.Graph, rootPath []int, src int) (int, error) {
	if len(rootPath) == 0 {
		return src, nil
	}
	_, to, err := g.EdgeEndpoints(rootPath[len(rootPath)-1])

	return to, err
}

// pathSharesRoot reports whether p's first len(root) edges equal root.
func pathSharesRoot(p, root []int) bool {
	if len(p) < len(root) {
		return false
	}
	for i, e := range root {
		if p[i] != e {
			return false
		}
	}

	return true
}

// containsLoop reports whether the node sequence of path visits any node
// twice.
func containsLoop(g *graph.Graph, path []int) bool {
	seq, err := g.NodeSequence(path)
	if err != nil {
		return true
	}
	seen := make(map[int]struct{}, len(seq))
	for _, n := range seq {
		if _, ok := seen[n]; ok {
			return true
		}
		seen[n] = struct{}{}
	}

	return false
}

func containsPath(paths [][]int, p []int) bool {
	for _, existing := range paths {
		if len(existing) != len(p) {
			continue
		}
		match := true
		for i := range existing {
			if existing[i] != p[i] {
				match = false

				break
			}
		}
		if match {
			return true
		}
	}

	return false
}

// candidate is one pending spur-path result awaiting selection by
// ascending cost.
type candidate struct {
	path []int
	cost int64
}

// candidateHeap is a min-heap of *candidate ordered by cost ascending,
// mirroring package dijkstra's lazy-decrease-key nodePQ shape.
type candidateHeap []*candidate

func (h candidateHeap) Len() int            { return len(h) }
func (h candidateHeap) Less(i, j int) bool  { return h[i].cost < h[j].cost }
func (h candidateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x interface{}) { *h = append(*h, x.(*candidate)) }
func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]

	return item
}
