// Package collab implements the geometric collaborator (C6):
// principal-axis OBB fitting, rigid alignment with ICP-like
// refinement, spoke sampling, and the control-point morph that
// realizes kernel.Collaborator.
package collab

import (
	"math"

	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

// OBB is an oriented bounding box fit to a point cloud by PCA: Axes
// are unit principal directions in ascending-variance order (Axes[2]
// is the dominant axis, matching vecutil.EigenSymmetric3's ordering),
// and Extents[i] is the half-length of the cloud's projection onto
// Axes[i].
type OBB struct {
	Center  vecutil.Vec
	Axes    [3]vecutil.Vec
	Extents [3]float64
}

const degenerateExtent = 1e-9

// FitOBB computes the oriented bounding box of pts via PCA
// (spec.md §4.6's "principal-axis alignment").
func FitOBB(pts []vecutil.Vec) OBB {
	cov, center := vecutil.Covariance(pts)
	_, axes := vecutil.EigenSymmetric3(cov)

	var extents [3]float64
	for _, p := range pts {
		d := vecutil.Sub(p, center)
		for i, axis := range axes {
			proj := math.Abs(vecutil.Dot(d, axis))
			if proj > extents[i] {
				extents[i] = proj
			}
		}
	}
	return OBB{Center: center, Axes: axes, Extents: extents}
}

// Degenerate reports whether the box has collapsed to a point (every
// principal extent below tolerance) — a point cloud with fewer than 2
// distinct positions, which no rigid alignment can orient.
func (b OBB) Degenerate() bool {
	return b.Extents[0] < degenerateExtent && b.Extents[1] < degenerateExtent && b.Extents[2] < degenerateExtent
}
