package segmentation

import (
	"math"

	"github.com/voxelforge/shapecorr/pkg/particle"
	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

// smallSegmentThreshold returns ceil(0.15 * G), the particle count
// below which a segment is dissolved (spec.md §4.3).
func smallSegmentThreshold(g int) int {
	return int(math.Ceil(0.15 * float64(g)))
}

// ReassignSmallSegments dissolves every segment with fewer than
// ceil(0.15*G) particles, reassigning each of its particles to the
// nearest large segment's centroid, and iterates to a fixed point.
func ReassignSmallSegments(mesh *particle.Mesh, gridSize int) {
	threshold := smallSegmentThreshold(gridSize)
	for {
		if !reassignOnePass(mesh, threshold) {
			return
		}
	}
}

func reassignOnePass(mesh *particle.Mesh, threshold int) bool {
	bySeg := particlesBySegment(mesh)

	large := make(map[int][]particle.ID)
	small := make(map[int][]particle.ID)
	for seg, ids := range bySeg {
		if len(ids) < threshold {
			small[seg] = ids
		} else {
			large[seg] = ids
		}
	}
	if len(small) == 0 || len(large) == 0 {
		return false
	}

	centroids := make(map[int]vecutil.Vec, len(large))
	for seg, ids := range large {
		centroids[seg] = vecutil.Centroid(mesh.Positions(ids))
	}

	changed := false
	for _, ids := range small {
		for _, id := range ids {
			pos := mesh.Get(id).Position
			best, bestD := -1, math.Inf(1)
			for seg, c := range centroids {
				d := vecutil.LengthSq(vecutil.Sub(pos, c))
				if d < bestD {
					best, bestD = seg, d
				}
			}
			if best >= 0 {
				mesh.SetSegment(id, best)
				changed = true
			}
		}
	}
	return changed
}
