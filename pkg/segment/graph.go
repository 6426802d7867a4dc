// Package segment builds the undirected weighted graph over particle ids
// that the segmentation engine (pkg/segmentation) partitions, computes
// shortest paths on it with Dijkstra, and extracts connected components
// once particles carry segment tags.
package segment

import (
	"math"

	"github.com/voxelforge/shapecorr/pkg/particle"
	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

// WeightMode selects how toGraph weighs an edge between two neighboring
// particles.
type WeightMode int

const (
	// WeightDistance weighs an edge by squared Euclidean distance.
	WeightDistance WeightMode = iota
	// WeightDiameter weighs an edge by the inverse of the sum of the
	// two endpoints' normalized local-diameter estimates, favoring
	// paths that stay near the medial axis of thick regions.
	WeightDiameter
)

// Edge is one undirected connection between two particles. Index is the
// edge's stable position in construction order; BoundaryEdge in
// components.go embeds the Edge and so carries it along.
type Edge struct {
	A, B   particle.ID
	Weight float64
	Index  int
}

// Graph is the segment graph (C2): vertex set is a subset of particle
// ids, edges are symmetric and carry a non-negative weight.
type Graph struct {
	mesh     *particle.Mesh
	adjacent map[particle.ID][]int // particle id -> indices into edges
	edges    []Edge
}

// ToGraph builds the segment graph for a particle mesh: every particle
// connects to its occupied Morton-6 (face) neighbors, weighed per mode.
// diameters, if non-nil, supplies a per-particle local-diameter estimate
// used by WeightDiameter; it is ignored under WeightDistance.
func ToGraph(mesh *particle.Mesh, mode WeightMode, diameters map[particle.ID]float64) *Graph {
	g := &Graph{
		mesh:     mesh,
		adjacent: make(map[particle.ID][]int),
	}

	seen := make(map[[2]particle.ID]bool)
	for _, p := range mesh.All() {
		for _, n := range mesh.FaceNeighbors(p.ID) {
			a, b := p.ID, n
			if a > b {
				a, b = b, a
			}
			key := [2]particle.ID{a, b}
			if seen[key] {
				continue
			}
			seen[key] = true

			w := edgeWeight(mesh, a, b, mode, diameters)
			idx := len(g.edges)
			g.edges = append(g.edges, Edge{A: a, B: b, Weight: w, Index: idx})
			g.adjacent[a] = append(g.adjacent[a], idx)
			g.adjacent[b] = append(g.adjacent[b], idx)
		}
	}
	return g
}

func edgeWeight(mesh *particle.Mesh, a, b particle.ID, mode WeightMode, diameters map[particle.ID]float64) float64 {
	pa, pb := mesh.Get(a).Position, mesh.Get(b).Position
	switch mode {
	case WeightDiameter:
		da, db := diameters[a], diameters[b]
		sum := da + db
		if sum <= 0 {
			return math.Inf(1)
		}
		return 1 / sum
	default:
		d := vecutil.Sub(pa, pb)
		return vecutil.LengthSq(d)
	}
}

// Vertices returns every particle id with at least one incident edge.
func (g *Graph) Vertices() []particle.ID {
	out := make([]particle.ID, 0, len(g.adjacent))
	for id := range g.adjacent {
		out = append(out, id)
	}
	return out
}

// Edges returns every edge, in construction order.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// Neighbors returns the edges incident to a vertex.
func (g *Graph) Neighbors(id particle.ID) []Edge {
	idxs := g.adjacent[id]
	out := make([]Edge, len(idxs))
	for i, idx := range idxs {
		out[i] = g.edges[idx]
	}
	return out
}

// Other returns the endpoint of e that is not id, for an edge known to
// be incident to id.
func (e Edge) Other(id particle.ID) particle.ID {
	if e.A == id {
		return e.B
	}
	return e.A
}
