package segment

import (
	"testing"

	"github.com/voxelforge/shapecorr/pkg/particle"
	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

func lineMesh(n int) *particle.Mesh {
	grid := particle.NewGrid(n+2, 1.0, vecutil.Zero)
	mesh := particle.NewMesh(grid)
	for x := 0; x < n; x++ {
		mesh.Add(particle.EncodeMorton(x, 0, 0), vecutil.Vec{X: float64(x)})
	}
	return mesh
}

func TestToGraphDistanceWeights(t *testing.T) {
	mesh := lineMesh(4)
	g := ToGraph(mesh, WeightDistance, nil)

	if len(g.Edges()) != 3 {
		t.Fatalf("len(Edges()) = %d, want 3 for a 4-particle line", len(g.Edges()))
	}
	for _, e := range g.Edges() {
		if e.Weight != 1 {
			t.Errorf("edge %v weight = %v, want 1 (unit spacing squared)", e, e.Weight)
		}
	}
}

func TestToGraphSymmetric(t *testing.T) {
	mesh := lineMesh(3)
	g := ToGraph(mesh, WeightDistance, nil)
	for _, v := range g.Vertices() {
		for _, e := range g.Neighbors(v) {
			if e.A != v && e.B != v {
				t.Errorf("edge %v not incident to vertex %v returned by Neighbors", e, v)
			}
		}
	}
}

func TestEdgeOther(t *testing.T) {
	e := Edge{A: 1, B: 2}
	if e.Other(1) != 2 {
		t.Errorf("Other(1) = %v, want 2", e.Other(1))
	}
	if e.Other(2) != 1 {
		t.Errorf("Other(2) = %v, want 1", e.Other(2))
	}
}
