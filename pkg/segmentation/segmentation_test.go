package segmentation

import (
	"testing"

	"github.com/voxelforge/shapecorr/pkg/particle"
	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

// dumbbellMesh builds two cube blobs connected by a thin single-file
// neck, a small-scale analogue of the two-blobs-plus-neck scenario
// (spec.md §8, E6).
func dumbbellMesh() *particle.Mesh {
	grid := particle.NewGrid(32, 1.0, vecutil.Zero)
	mesh := particle.NewMesh(grid)

	blob := func(originX int) {
		for x := 0; x < 3; x++ {
			for y := 0; y < 3; y++ {
				for z := 0; z < 3; z++ {
					mesh.Add(particle.EncodeMorton(originX+x, y, z), vecutil.Vec{
						X: float64(originX + x), Y: float64(y), Z: float64(z),
					})
				}
			}
		}
	}
	blob(0)
	blob(10)
	for x := 3; x < 10; x++ {
		mesh.Add(particle.EncodeMorton(x, 1, 1), vecutil.Vec{X: float64(x), Y: 1, Z: 1})
	}
	return mesh
}

func TestRunAssignsEveryParticle(t *testing.T) {
	mesh := dumbbellMesh()
	opt := DefaultOptions(32, 1.0)
	opt.MinComponentSize = 4

	Run(mesh, opt)

	for _, p := range mesh.All() {
		if p.Segment < 0 {
			t.Errorf("particle %d left unassigned after Run", p.ID)
		}
	}
}

func TestReassignSmallSegmentsIsNoopOnRunOutput(t *testing.T) {
	mesh := dumbbellMesh()
	opt := DefaultOptions(32, 1.0)
	opt.MinComponentSize = 4

	Run(mesh, opt)
	before := make(map[particle.ID]int)
	for _, p := range mesh.All() {
		before[p.ID] = p.Segment
	}

	// Re-running Run's final pass, small-segment reassignment, on its
	// own output must not change any tag: Run already iterated that
	// pass to a fixed point, so nothing is left small enough to
	// dissolve.
	ReassignSmallSegments(mesh, opt.GridSize)

	for _, p := range mesh.All() {
		if p.Segment != before[p.ID] {
			t.Errorf("particle %d segment changed from %d to %d on a no-op rerun",
				p.ID, before[p.ID], p.Segment)
		}
	}
}

func TestSegmentCount(t *testing.T) {
	mesh := dumbbellMesh()
	opt := DefaultOptions(32, 1.0)
	opt.MinComponentSize = 4
	Run(mesh, opt)

	count := SegmentCount(mesh)
	if count < 1 {
		t.Errorf("SegmentCount() = %d, want at least 1", count)
	}
}
