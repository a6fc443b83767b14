// Package graph provides the weighted directed graph used by the ranking
// engine and the builder that derives it from game outcomes.
package graph

import "sort"

// Edge is one weighted directed edge. Multiple games on the same ordered
// pair accumulate into a single edge.
type Edge struct {
	Source string
	Target string
	Weight float64
}

// Graph is an adjacency-map-backed weighted digraph. It is rebuilt fresh
// per ranking pass and never mutated concurrently, so it carries no locks.
type Graph struct {
	nodes map[string]struct{}
	// out maps source → target → accumulated weight.
	out map[string]map[string]float64
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]struct{}),
		out:   make(map[string]map[string]float64),
	}
}

// AddNode ensures id exists as a node, even with no edges. Isolated teams
// still receive a PageRank score.
func (g *Graph) AddNode(id string) {
	if id == "" {
		return
	}
	g.nodes[id] = struct{}{}
}

// UpsertAccumulateEdge adds delta to the src→dst edge weight, creating the
// edge (and nodes) as needed. Self-loops and non-positive deltas are
// silently ignored.
func (g *Graph) UpsertAccumulateEdge(src, dst string, delta float64) {
	if src == "" || dst == "" || src == dst || delta <= 0 {
		return
	}
	g.AddNode(src)
	g.AddNode(dst)
	targets, ok := g.out[src]
	if !ok {
		targets = make(map[string]float64)
		g.out[src] = targets
	}
	targets[dst] += delta
}

// ScaleEdge multiplies the src→dst edge weight by factor, if the edge
// exists and the factor is positive.
func (g *Graph) ScaleEdge(src, dst string, factor float64) {
	if factor <= 0 {
		return
	}
	if targets, ok := g.out[src]; ok {
		if _, ok := targets[dst]; ok {
			targets[dst] *= factor
		}
	}
}

// HasNode reports whether id is a node.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Weight returns the src→dst edge weight, or 0 when absent.
func (g *Graph) Weight(src, dst string) float64 {
	return g.out[src][dst]
}

// Nodes returns all node ids in a stable (sorted) order.
func (g *Graph) Nodes() []string {
	out := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of distinct directed edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, targets := range g.out {
		n += len(targets)
	}
	return n
}

// OutEdges returns the edges leaving src in a stable order.
func (g *Graph) OutEdges(src string) []Edge {
	targets, ok := g.out[src]
	if !ok {
		return nil
	}
	edges := make([]Edge, 0, len(targets))
	for dst, w := range targets {
		edges = append(edges, Edge{Source: src, Target: dst, Weight: w})
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].Target < edges[j].Target })
	return edges
}

// Edges returns every edge in the graph in a stable order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.EdgeCount())
	for _, src := range g.Nodes() {
		edges = append(edges, g.OutEdges(src)...)
	}
	return edges
}

// TotalOutWeight returns the summed weight of edges leaving src.
func (g *Graph) TotalOutWeight(src string) float64 {
	sum := 0.0
	for _, w := range g.out[src] {
		sum += w
	}
	return sum
}
