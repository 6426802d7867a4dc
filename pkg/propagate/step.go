package propagate

import "github.com/voxelforge/shapecorr/pkg/structure"

// Step runs the full post-deformation propagation cascade (spec.md
// §4.7): propagateSymmetry, propagateProximity, propagateSymmetry,
// propagateProximity. The two symmetry/proximity sweeps are
// interleaved rather than run back-to-back so a symmetry copy settled
// by the first proximity pass gets one more chance to re-anchor its
// edges, and vice versa.
func Step(g *structure.Graph, fixed Fixed) {
	PropagateSymmetry(g, fixed)
	PropagateProximity(g, fixed)
	PropagateSymmetry(g, fixed)
	PropagateProximity(g, fixed)
}
