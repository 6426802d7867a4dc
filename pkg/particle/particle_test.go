package particle

import (
	"testing"

	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

func TestMeshAddLookup(t *testing.T) {
	g := NewGrid(8, 1.0, vecutil.Zero)
	m := NewMesh(g)

	c := EncodeMorton(1, 2, 3)
	id := m.Add(c, vecutil.Vec{X: 1, Y: 2, Z: 3})

	got, ok := m.Lookup(c)
	if !ok || got != id {
		t.Fatalf("Lookup(%v) = (%v, %v), want (%v, true)", c, got, ok, id)
	}
	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.Len())
	}
}

func TestMeshAddDuplicateCellPanics(t *testing.T) {
	g := NewGrid(8, 1.0, vecutil.Zero)
	m := NewMesh(g)
	c := EncodeMorton(0, 0, 0)
	m.Add(c, vecutil.Zero)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate cell")
		}
	}()
	m.Add(c, vecutil.Vec{X: 1})
}

func TestMeshFaceNeighbors(t *testing.T) {
	g := NewGrid(8, 1.0, vecutil.Zero)
	m := NewMesh(g)

	center := m.Add(EncodeMorton(4, 4, 4), vecutil.Zero)
	right := m.Add(EncodeMorton(5, 4, 4), vecutil.Zero)
	// Diagonal, should not count as a face neighbor.
	m.Add(EncodeMorton(5, 5, 4), vecutil.Zero)

	neighbors := m.FaceNeighbors(center)
	if len(neighbors) != 1 || neighbors[0] != right {
		t.Fatalf("FaceNeighbors(center) = %v, want [%v]", neighbors, right)
	}
}

func TestGridMarkClear(t *testing.T) {
	g := NewGrid(4, 1.0, vecutil.Zero)
	g.Mark(1, 1, 1)
	if !g.IsOccupied(1, 1, 1) {
		t.Fatal("expected (1,1,1) occupied after Mark")
	}
	g.Clear(1, 1, 1)
	if g.IsOccupied(1, 1, 1) {
		t.Fatal("expected (1,1,1) empty after Clear")
	}
}

func TestGridMarkOutOfBoundsIsNoop(t *testing.T) {
	g := NewGrid(4, 1.0, vecutil.Zero)
	g.Mark(-1, 0, 0)
	g.Mark(4, 0, 0)
	if len(g.Occupied) != 0 {
		t.Fatalf("Occupied = %v, want empty", g.Occupied)
	}
}

func TestGridToParticleMesh(t *testing.T) {
	g := NewGrid(4, 2.0, vecutil.Zero)
	g.Mark(0, 0, 0)
	g.Mark(1, 0, 0)

	mesh := g.ToParticleMesh()
	if mesh.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", mesh.Len())
	}
	for _, p := range mesh.All() {
		if p.Segment != -1 {
			t.Errorf("particle %d Segment = %d, want -1 before segmentation", p.ID, p.Segment)
		}
	}
}
