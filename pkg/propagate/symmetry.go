// Package propagate implements the two structural propagation passes
// (C7) run after every deform-to-fit step: symmetry propagation
// (copy a representative's pose to its group) and proximity
// propagation (keep edge attachments on their fixed endpoint).
package propagate

import (
	"math"

	"github.com/samber/lo"

	"github.com/voxelforge/shapecorr/pkg/structure"
	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

// Fixed is the set of part ids a propagation pass must not modify.
type Fixed map[string]bool

// PropagateSymmetry copies each symmetry relation's representative
// pose/shape onto its other (non-fixed) members via the relation's
// geometric operator (spec.md §4.7). Every non-fixed member is
// reassigned on every call; two consecutive calls with the same fixed
// set are equivalent to one (spec.md §8 property 6) because the
// representative is not changed, so re-applying recomputes the same
// target points and assigns them again, a no-op.
func PropagateSymmetry(g *structure.Graph, fixed Fixed) {
	for _, rel := range g.Relations {
		if !rel.Kind.IsSymmetry() || rel.Operator == nil {
			continue
		}
		rep := g.Part(rel.Representative)
		if rep == nil {
			continue
		}
		repPts := rep.ControlPoints()

		for _, memberID := range rel.Parts {
			if memberID == rel.Representative || fixed[memberID] {
				continue
			}
			member := g.Part(memberID)
			if member == nil {
				continue
			}
			memberPts := member.ControlPoints()
			if len(memberPts) != len(repPts) {
				continue // shape mismatch: nothing sound to copy pointwise
			}
			target := lo.Map(repPts, func(p vecutil.Vec, _ int) vecutil.Vec {
				return applyOperator(p, rel.Kind, rel.Operator)
			})
			_ = member.SetControlPoints(target)
		}
	}
}

func applyOperator(p vecutil.Vec, kind structure.RelationKind, op *structure.SymmetryOperator) vecutil.Vec {
	switch kind {
	case structure.RelationTranslation:
		return vecutil.Add(p, op.Translation)
	case structure.RelationReflection:
		return reflect(p, op.Point, op.Axis)
	case structure.RelationRotation:
		return rotate(p, op.Point, op.Axis, op.AngleRad)
	default:
		return p
	}
}

// reflect mirrors p across the plane through point with unit normal
// axis.
func reflect(p, point, axis vecutil.Vec) vecutil.Vec {
	n := vecutil.Normalize(axis)
	d := vecutil.Dot(vecutil.Sub(p, point), n)
	return vecutil.Sub(p, vecutil.Scale(n, 2*d))
}

// rotate spins p by angle radians around the line through point in
// direction axis, via Rodrigues' rotation formula.
func rotate(p, point, axis vecutil.Vec, angle float64) vecutil.Vec {
	k := vecutil.Normalize(axis)
	v := vecutil.Sub(p, point)
	cosA, sinA := math.Cos(angle), math.Sin(angle)
	rotated := vecutil.Add(
		vecutil.Add(vecutil.Scale(v, cosA), vecutil.Scale(vecutil.Cross(k, v), sinA)),
		vecutil.Scale(k, vecutil.Dot(k, v)*(1-cosA)),
	)
	return vecutil.Add(point, rotated)
}
