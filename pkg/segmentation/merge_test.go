package segmentation

import (
	"testing"

	"github.com/voxelforge/shapecorr/pkg/hull"
	"github.com/voxelforge/shapecorr/pkg/particle"
	"github.com/voxelforge/shapecorr/pkg/segment"
	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

// twoCoplanarSlabs builds a flat 8x8x1 sheet of particles split into
// two segments by x<4/x>=4; both halves share the same principal
// plane, so their dominant axes should be parallel.
func twoCoplanarSlabs() *particle.Mesh {
	grid := particle.NewGrid(16, 1.0, vecutil.Zero)
	mesh := particle.NewMesh(grid)
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			id := mesh.Add(particle.EncodeMorton(x, y, 0), vecutil.Vec{X: float64(x), Y: float64(y)})
			if x < 4 {
				mesh.SetSegment(id, 0)
			} else {
				mesh.SetSegment(id, 1)
			}
		}
	}
	return mesh
}

func TestSimilarityMergeUnionsParallelSegments(t *testing.T) {
	mesh := twoCoplanarSlabs()
	g := segment.ToGraph(mesh, segment.WeightDistance, nil)

	SimilarityMerge(mesh, g, 0.92)

	first := mesh.Get(0).Segment
	for _, p := range mesh.All() {
		if p.Segment != first {
			t.Fatalf("expected similarity merge to unify coplanar segments, particle %d has segment %d, want %d",
				p.ID, p.Segment, first)
		}
	}
}

func TestDescriptorSimilarityBoundedUnitInterval(t *testing.T) {
	mesh := twoCoplanarSlabs()
	bySeg := particlesBySegment(mesh)
	combined := append(append([]particle.ID{}, bySeg[0]...), bySeg[1]...)

	h := hull.New(mesh.Positions(combined))
	h.Center = vecutil.Centroid(mesh.Positions(combined))
	sim := descriptorSimilarity(mesh, bySeg[0], bySeg[1], h)
	if sim < 0 || sim > 1 {
		t.Errorf("descriptorSimilarity = %v, want in [0,1]", sim)
	}
}
