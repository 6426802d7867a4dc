package segment

import (
	"math"
	"testing"

	"github.com/voxelforge/shapecorr/pkg/particle"
	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

// slabMesh builds a 4x4x1 grid of particles split into two segments by
// the x<2 / x>=2 plane, producing exactly 4 boundary edges (one per y
// row) between the two halves.
func slabMesh() (*particle.Mesh, SegmentOf) {
	grid := particle.NewGrid(8, 1.0, vecutil.Zero)
	mesh := particle.NewMesh(grid)
	segOf := make(map[particle.ID]int)
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			id := mesh.Add(particle.EncodeMorton(x, y, 0), vecutil.Vec{X: float64(x), Y: float64(y)})
			if x < 2 {
				segOf[id] = 0
			} else {
				segOf[id] = 1
			}
		}
	}
	return mesh, func(id particle.ID) int { return segOf[id] }
}

func TestSegmentToComponentsSplitsByTag(t *testing.T) {
	mesh, segOf := slabMesh()
	g := ToGraph(mesh, WeightDistance, nil)
	cg := SegmentToComponents(g, segOf)

	if len(cg.Components) != 2 {
		t.Fatalf("len(Components) = %d, want 2", len(cg.Components))
	}
	for _, c := range cg.Components {
		for _, p := range c.Particles {
			if segOf(p) != c.Segment {
				t.Errorf("component %d contains particle %v with segment %d", c.ID, p, segOf(p))
			}
		}
	}
}

func TestSegmentToComponentsBoundaryPlane(t *testing.T) {
	mesh, segOf := slabMesh()
	g := ToGraph(mesh, WeightDistance, nil)
	cg := SegmentToComponents(g, segOf)

	var found *ComponentNeighbor
	for _, n := range cg.Neighbors {
		found = n
	}
	if found == nil {
		t.Fatal("expected one component-neighbor pair")
	}
	if len(found.BoundaryEdges) != 4 {
		t.Fatalf("len(BoundaryEdges) = %d, want 4", len(found.BoundaryEdges))
	}
	if !found.HasPlane {
		t.Fatal("expected a fitted plane with >=4 boundary edges")
	}
	if math.Abs(math.Abs(found.Normal.X)-1) > 1e-6 {
		t.Errorf("Normal = %v, want axis-aligned with X", found.Normal)
	}
}
