package collab

import (
	"testing"

	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

func cubeCorners(center vecutil.Vec, half float64) []vecutil.Vec {
	var pts []vecutil.Vec
	for _, sx := range []float64{-1, 1} {
		for _, sy := range []float64{-1, 1} {
			for _, sz := range []float64{-1, 1} {
				pts = append(pts, vecutil.Add(center, vecutil.Vec{X: sx * half, Y: sy * half, Z: sz * half}))
			}
		}
	}
	return pts
}

func TestRigidAlignIdenticalCloudsIsNearIdentity(t *testing.T) {
	pts := cubeCorners(vecutil.Zero, 1)
	R, trans := rigidAlign(pts, pts)
	aligned := applyRigid(pts, R, trans)
	for i := range pts {
		if vecutil.Distance(aligned[i], pts[i]) > 1e-6 {
			t.Errorf("aligning a cloud to itself moved point %d: %+v -> %+v", i, pts[i], aligned[i])
		}
	}
}

func TestRigidAlignTranslatedCloudRecoversOffset(t *testing.T) {
	offset := vecutil.Vec{X: 5, Y: -2, Z: 1}
	src := cubeCorners(vecutil.Zero, 1)
	tgt := cubeCorners(offset, 1)

	R, trans := rigidAlign(src, tgt)
	aligned := applyRigid(src, R, trans)
	gotCenter := vecutil.Centroid(aligned)
	if vecutil.Distance(gotCenter, offset) > 1e-6 {
		t.Errorf("aligned centroid = %+v, want %+v", gotCenter, offset)
	}
}

func TestICPRefineReducesResidualForNoisyCorrespondence(t *testing.T) {
	src := cubeCorners(vecutil.Zero, 1)
	tgt := cubeCorners(vecutil.Vec{X: 3}, 1)

	R, trans := rigidAlign(src, tgt)
	before := applyRigid(src, R, trans)
	beforeResidual := sumNearestDist(before, tgt)

	aligned, corr := icpRefine(src, tgt, R, trans)
	afterResidual := sumNearestDist(aligned, tgt)

	if afterResidual > beforeResidual+1e-9 {
		t.Errorf("icpRefine residual = %v, want <= pre-refine residual %v", afterResidual, beforeResidual)
	}
	if len(corr) != len(src) {
		t.Errorf("len(corr) = %d, want %d", len(corr), len(src))
	}
}

func sumNearestDist(pts, tgt []vecutil.Vec) float64 {
	var sum float64
	for _, p := range pts {
		sum += vecutil.Distance(p, tgt[nearestIndex(p, tgt)])
	}
	return sum
}
