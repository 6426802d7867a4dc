package hull

import (
	"math"
	"testing"

	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

func unitCubeCorners() []vecutil.Vec {
	var pts []vecutil.Vec
	for _, x := range []float64{0, 1} {
		for _, y := range []float64{0, 1} {
			for _, z := range []float64{0, 1} {
				pts = append(pts, vecutil.Vec{X: x, Y: y, Z: z})
			}
		}
	}
	return pts
}

func TestHullUnitCubeVolumeAndArea(t *testing.T) {
	h := New(unitCubeCorners())
	if math.Abs(h.Volume-1) > 1e-6 {
		t.Errorf("Volume = %v, want 1", h.Volume)
	}
	if math.Abs(h.Area-6) > 1e-6 {
		t.Errorf("Area = %v, want 6", h.Area)
	}
	if h.PointCount != 8 {
		t.Errorf("PointCount = %d, want 8", h.PointCount)
	}
}

func TestHullSolidityOfCube(t *testing.T) {
	h := New(unitCubeCorners())
	h.PointCount = 1 // one unit-cube particle with unit voxel size
	s := h.Solidity(1.0)
	if math.Abs(s-1) > 1e-6 {
		t.Errorf("Solidity = %v, want 1 for an exact unit cube", s)
	}
}

func TestHullSolidityZeroVolumeIsZero(t *testing.T) {
	flat := []vecutil.Vec{{X: 0}, {X: 1}, {Y: 1}} // coplanar, degenerate
	h := New(flat)
	if got := h.Solidity(1.0); got != 0 {
		t.Errorf("Solidity of a degenerate hull = %v, want 0", got)
	}
}

func TestHullMergedCombinesPointCounts(t *testing.T) {
	a := New(unitCubeCorners())
	a.PointCount = 5
	shifted := make([]vecutil.Vec, len(unitCubeCorners()))
	for i, p := range unitCubeCorners() {
		shifted[i] = vecutil.Add(p, vecutil.Vec{X: 1})
	}
	b := New(shifted)
	b.PointCount = 3

	m := a.Merged(b)
	if m.PointCount != 8 {
		t.Errorf("Merged.PointCount = %d, want 8", m.PointCount)
	}
	if m.Volume <= a.Volume {
		t.Errorf("Merged.Volume = %v, want more than either half (%v)", m.Volume, a.Volume)
	}
}

func TestHullFewerThanFourPointsEmpty(t *testing.T) {
	h := New([]vecutil.Vec{{X: 0}, {X: 1}, {X: 2}})
	if len(h.Faces) != 0 {
		t.Errorf("expected no faces for fewer than 4 points, got %d", len(h.Faces))
	}
}
