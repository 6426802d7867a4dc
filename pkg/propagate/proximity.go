package propagate

import (
	"github.com/samber/lo"

	"github.com/voxelforge/shapecorr/pkg/structure"
	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

// proximitySweeps bounds the linearized non-linear solve (spec.md
// §4.7: "a bounded number of sweeps").
const proximitySweeps = 4

// proximityDamping is the per-sweep step damping.
const proximityDamping = 0.5

// proximityTolerance is the attachment error below which a sweep
// stops early (spec.md §8 property 7's "configured tolerance").
const proximityTolerance = 1e-6

// PropagateProximity pulls each edge's non-fixed endpoint so the
// edge's stored attachment coordinate still lands on the fixed
// endpoint's current surface (spec.md §4.7). An edge with neither
// endpoint fixed has no authoritative surface to pull toward and is
// left alone; an edge with both endpoints fixed needs no correction.
func PropagateProximity(g *structure.Graph, fixed Fixed) {
	for _, e := range g.Edges {
		fixedID, freeID, fixedCoord, freeCoord := anchorEnds(e, fixed)
		if fixedID == "" {
			continue
		}
		fixedPart, freePart := g.Part(fixedID), g.Part(freeID)
		if fixedPart == nil || freePart == nil {
			continue
		}
		settleEdge(fixedPart, freePart, fixedCoord, freeCoord)
	}
}

func anchorEnds(e *structure.Edge, fixed Fixed) (fixedID, freeID string, fixedCoord, freeCoord structure.Coord) {
	aFixed, bFixed := fixed[e.A], fixed[e.B]
	switch {
	case aFixed && !bFixed:
		return e.A, e.B, e.CoordA, e.CoordB
	case bFixed && !aFixed:
		return e.B, e.A, e.CoordB, e.CoordA
	default:
		return "", "", structure.Coord{}, structure.Coord{}
	}
}

// settleEdge nudges every control point of freePart by a damped
// translation so freePart's attachment coordinate converges onto
// fixedPart's current surface point, bounded to proximitySweeps
// iterations (spec.md §8 property 7).
func settleEdge(fixedPart, freePart *structure.Part, fixedCoord, freeCoord structure.Coord) {
	target := fixedPart.PositionAt(fixedCoord)

	for sweep := 0; sweep < proximitySweeps; sweep++ {
		current := freePart.PositionAt(freeCoord)
		errVec := vecutil.Sub(target, current)
		if vecutil.Length(errVec) < proximityTolerance {
			return
		}
		delta := vecutil.Scale(errVec, proximityDamping)
		shifted := lo.Map(freePart.ControlPoints(), func(p vecutil.Vec, _ int) vecutil.Vec {
			return vecutil.Add(p, delta)
		})
		_ = freePart.SetControlPoints(shifted)
	}
}
