package segment

import (
	"sort"

	"github.com/voxelforge/shapecorr/pkg/particle"
	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

// Component is one connected component of the graph after dropping
// edges between differing segment tags. ID is a fresh identifier,
// independent of the segment tag it was extracted from.
type Component struct {
	ID        int
	Segment   int
	Particles []particle.ID
}

// BoundaryEdge is a segment-graph edge cut during segmentToComponents
// because its endpoints fell in different components.
type BoundaryEdge struct {
	Edge
	ComponentA, ComponentB int
}

// ComponentNeighbor carries the boundary metadata between two adjacent
// components: the midpoint-fitted plane center and normal, populated
// only when at least 4 boundary edges separate the pair.
type ComponentNeighbor struct {
	ComponentA, ComponentB int
	BoundaryEdges          []BoundaryEdge
	HasPlane               bool
	Center, Normal         vecutil.Vec
}

// ComponentGraph is the result of segmentToComponents: the extracted
// components plus the neighbor relationships (with boundary-edge
// counts and, where dense enough, a fitted separating plane) between
// them.
type ComponentGraph struct {
	Components []Component
	Neighbors  map[[2]int]*ComponentNeighbor
}

// SegmentOf resolves a particle's segment tag.
type SegmentOf func(particle.ID) int

// SegmentToComponents partitions g into connected components by
// dropping every edge whose endpoints carry different segment tags
// (per segmentOf), and records each dropped edge as a boundary edge
// between the two resulting components (C2, spec.md §4.2).
func SegmentToComponents(g *Graph, segmentOf SegmentOf) *ComponentGraph {
	compOf := make(map[particle.ID]int)
	var components []Component
	visited := make(map[particle.ID]bool)

	vertices := g.Vertices()
	sort.Slice(vertices, func(i, j int) bool { return vertices[i] < vertices[j] })

	for _, v := range vertices {
		if visited[v] {
			continue
		}
		seg := segmentOf(v)
		id := len(components)
		members := bfsSameSegment(g, v, seg, segmentOf, visited)
		for _, m := range members {
			compOf[m] = id
		}
		components = append(components, Component{ID: id, Segment: seg, Particles: members})
	}

	neighbors := make(map[[2]int]*ComponentNeighbor)
	for _, e := range g.Edges() {
		ca, cb := compOf[e.A], compOf[e.B]
		if ca == cb {
			continue
		}
		key := neighborKey(ca, cb)
		n, ok := neighbors[key]
		if !ok {
			n = &ComponentNeighbor{ComponentA: key[0], ComponentB: key[1]}
			neighbors[key] = n
		}
		n.BoundaryEdges = append(n.BoundaryEdges, BoundaryEdge{Edge: e, ComponentA: ca, ComponentB: cb})
	}

	cg := &ComponentGraph{Components: components, Neighbors: neighbors}
	cg.fitBoundaryPlanes(g)
	return cg
}

func neighborKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

func bfsSameSegment(g *Graph, start particle.ID, seg int, segmentOf SegmentOf, visited map[particle.ID]bool) []particle.ID {
	var members []particle.ID
	queue := []particle.ID{start}
	visited[start] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		members = append(members, cur)
		for _, e := range g.Neighbors(cur) {
			n := e.Other(cur)
			if visited[n] || segmentOf(n) != seg {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	return members
}

// fitBoundaryPlanes fits a separating plane (center + normal) for every
// component-neighbor pair with at least 4 boundary edges, using
// eigen-decomposition of the boundary midpoints' covariance: the
// center is the midpoint centroid, the normal is the eigenvector of
// smallest eigenvalue (the direction in which the midpoints vary
// least).
func (cg *ComponentGraph) fitBoundaryPlanes(g *Graph) {
	mesh := g.mesh
	for _, n := range cg.Neighbors {
		if len(n.BoundaryEdges) < 4 {
			continue
		}
		midpoints := make([]vecutil.Vec, len(n.BoundaryEdges))
		for i, be := range n.BoundaryEdges {
			pa := mesh.Get(be.A).Position
			pb := mesh.Get(be.B).Position
			midpoints[i] = vecutil.Lerp(pa, pb, 0.5)
		}
		cov, centroid := vecutil.Covariance(midpoints)
		_, vectors := vecutil.EigenSymmetric3(cov)
		n.HasPlane = true
		n.Center = centroid
		n.Normal = vectors[0]
	}
}
