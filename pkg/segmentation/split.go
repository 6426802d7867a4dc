// Package segmentation implements the segmentation engine (C3):
// recursive plane-cut splitting, similarity merging, solidity merging,
// and small-segment reassignment, producing the part labels the
// structure graph (pkg/structure) is built from.
package segmentation

import (
	"math"

	"github.com/voxelforge/shapecorr/pkg/particle"
	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

const splitCandidates = 16

// splitCost combines the compactness of the two halves produced by a
// candidate plane with a small penalty for unequal particle counts:
// lower is better. It has no axis-alignment term; every candidate plane
// bestSplit tries is perpendicular to the same dominant axis.
func splitCost(mesh *particle.Mesh, left, right []particle.ID) float64 {
	if len(left) == 0 || len(right) == 0 {
		return math.Inf(1)
	}
	compactness := func(ids []particle.ID) float64 {
		pts := mesh.Positions(ids)
		cov, _ := vecutil.Covariance(pts)
		values, _ := vecutil.EigenSymmetric3(cov)
		return values[0] + values[1] + values[2] // trace: the total variance of the half
	}
	balance := math.Abs(float64(len(left)) - float64(len(right)))
	return compactness(left) + compactness(right) + 0.01*balance
}

// bestSplit searches the splitCandidates-1 interior planes that cut the
// projected extent of ids' point cloud along its dominant principal
// axis into splitCandidates equal steps, returning the axis, the plane
// position (a scalar along the axis) minimizing splitCost, and the two
// halves.
func bestSplit(mesh *particle.Mesh, ids []particle.ID) (axis vecutil.Vec, bestPos float64, bestLeft, bestRight []particle.ID) {
	pts := mesh.Positions(ids)
	cov, centroid := vecutil.Covariance(pts)
	_, vectors := vecutil.EigenSymmetric3(cov)
	axis = vectors[2] // dominant axis: largest eigenvalue

	minProj, maxProj := math.Inf(1), math.Inf(-1)
	proj := make([]float64, len(ids))
	for i, p := range pts {
		d := vecutil.Dot(vecutil.Sub(p, centroid), axis)
		proj[i] = d
		minProj = math.Min(minProj, d)
		maxProj = math.Max(maxProj, d)
	}
	if maxProj-minProj < 1e-9 {
		return axis, 0, ids, nil
	}

	bestCost := math.Inf(1)
	for c := 1; c < splitCandidates; c++ {
		t := minProj + (maxProj-minProj)*float64(c)/float64(splitCandidates)
		var left, right []particle.ID
		for i, id := range ids {
			if proj[i] < t {
				left = append(left, id)
			} else {
				right = append(right, id)
			}
		}
		cost := splitCost(mesh, left, right)
		if cost < bestCost {
			bestCost, bestPos, bestLeft, bestRight = cost, t, left, right
		}
	}
	return axis, bestPos, bestLeft, bestRight
}

// recursiveSplit partitions ids into components no larger than
// minComponentSize by repeated plane cuts along each component's
// dominant principal axis (spec.md §4.3). nextSegment allocates fresh
// segment tags for leaves of the recursion.
func recursiveSplit(mesh *particle.Mesh, ids []particle.ID, minComponentSize int, nextSegment func() int) {
	if len(ids) <= minComponentSize {
		assignSegment(mesh, ids, nextSegment())
		return
	}

	_, _, left, right := bestSplit(mesh, ids)
	if len(left) == 0 || len(right) == 0 {
		assignSegment(mesh, ids, nextSegment())
		return
	}

	recursiveSplit(mesh, left, minComponentSize, nextSegment)
	recursiveSplit(mesh, right, minComponentSize, nextSegment)
}

func assignSegment(mesh *particle.Mesh, ids []particle.ID, seg int) {
	for _, id := range ids {
		mesh.SetSegment(id, seg)
	}
}
