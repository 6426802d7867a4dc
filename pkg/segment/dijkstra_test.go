package segment

import (
	"testing"

	"github.com/voxelforge/shapecorr/pkg/particle"
)

func TestDijkstraComputePathsLine(t *testing.T) {
	mesh := lineMesh(5)
	g := ToGraph(mesh, WeightDistance, nil)

	paths := DijkstraComputePaths(g, 0)
	if paths.Dist[4] != 4 {
		t.Errorf("Dist[4] = %v, want 4 (4 unit hops squared-summed)", paths.Dist[4])
	}
	path := paths.PathTo(4)
	want := []particle.ID{0, 1, 2, 3, 4}
	if len(path) != len(want) {
		t.Fatalf("PathTo(4) = %v, want %v", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("PathTo(4) = %v, want %v", path, want)
		}
	}
}

func TestDijkstraComputePathsManySources(t *testing.T) {
	mesh := lineMesh(5)
	g := ToGraph(mesh, WeightDistance, nil)

	paths := DijkstraComputePathsMany(g, []particle.ID{0, 4})
	if paths.Dist[2] != 2 {
		t.Errorf("Dist[2] = %v, want 2 (two hops from the nearer source)", paths.Dist[2])
	}
}

func TestDijkstraUnreachableVertexAbsent(t *testing.T) {
	mesh := lineMesh(3)
	g := ToGraph(mesh, WeightDistance, nil)
	paths := DijkstraComputePaths(g, 0)
	if _, ok := paths.Dist[99]; ok {
		t.Error("expected no distance recorded for a vertex outside the graph")
	}
	if paths.PathTo(99) != nil {
		t.Error("expected nil path to an unreached vertex")
	}
}
