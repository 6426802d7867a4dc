package search

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/voxelforge/shapecorr/pkg/kernel"
	"github.com/voxelforge/shapecorr/pkg/structure"
	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

// Apply performs the topological operation required to make la and lb
// comparable (spec.md §4.9's dispatch table), then runs the
// deform-to-fit primitive on every resulting 1-1 pair. It returns the
// target id recorded for each entry of la, same length as la; a null
// assignment (len(lb) == 0) returns a slice of empty strings.
func Apply(shapeA, shapeB *structure.Graph, c kernel.Collaborator, la, lb []string) ([]string, error) {
	if len(lb) == 0 {
		return collapseManyToNull(shapeA, la), nil
	}
	switch {
	case len(la) > 1 && allSameType(shapeA, la, structure.Curve) && allEqual(lb) && isSheet(shapeB, lb[0]):
		out, err := manyCurvesToSheet(shapeA, shapeB, c, la, lb[0])
		return out, err
	case len(la) == 1 && len(lb) > 1:
		return applyOneToMany(shapeA, shapeB, c, la[0], lb)
	case len(la) == 1 && len(lb) == 1:
		return applyOneToOne(shapeA, shapeB, c, la[0], lb[0])
	case len(la) > 1 && len(lb) > 1 && !allEqual(lb):
		return applyManyToMany(shapeA, shapeB, c, la, lb)
	default:
		return applyManyToOne(shapeA, shapeB, c, la, lb[0])
	}
}

func allEqual(ids []string) bool {
	for _, id := range ids[1:] {
		if id != ids[0] {
			return false
		}
	}
	return true
}

func allSameType(g *structure.Graph, ids []string, t structure.PartType) bool {
	for _, id := range ids {
		p := g.Part(id)
		if p == nil || p.Type != t {
			return false
		}
	}
	return true
}

func isSheet(g *structure.Graph, id string) bool {
	p := g.Part(id)
	return p != nil && p.Type == structure.Sheet
}

// collapseManyToNull collapses every part of la to its centroid and
// flags it assigned-null (spec.md §4.9 "many -> null"). No target is
// touched.
func collapseManyToNull(shapeA *structure.Graph, la []string) []string {
	for _, id := range la {
		if p := shapeA.Part(id); p != nil {
			p.CollapseToCentroid()
		}
	}
	return make([]string, len(la))
}

// applyOneToOne promotes a curve source to a degenerate sheet when the
// target is a sheet (spec.md §4.9 "curve -> sheet (1->1)"), then runs
// the deform-to-fit primitive.
func applyOneToOne(shapeA, shapeB *structure.Graph, c kernel.Collaborator, srcID, tgtID string) ([]string, error) {
	src, tgt := shapeA.Part(srcID), shapeB.Part(tgtID)
	if src == nil || tgt == nil {
		return nil, fmt.Errorf("search: apply: missing part %q or %q", srcID, tgtID)
	}
	if src.Type == structure.Curve && tgt.Type == structure.Sheet {
		promoteCurveToSheet(shapeA, srcID)
		src = shapeA.Part(srcID)
	}
	fit := c.RegisterAndDeformNodes(src, tgt)
	if !fit.OK() {
		return nil, fmt.Errorf("search: deform %q -> %q: %v", srcID, tgtID, fit.Err)
	}
	shapeA.Parts[srcID] = fit.Node
	return []string{tgtID}, nil
}

// promoteCurveToSheet replaces a curve part's geometry in place with a
// degenerate sheet built from four copies of its control polygon, and
// rewires every incident edge's attachment coordinate onto the new
// sheet's domain (u is arbitrary since every row is identical; v
// carries the original curve parameter).
func promoteCurveToSheet(g *structure.Graph, curveID string) {
	p := g.Part(curveID)
	curve, ok := p.Geometry.(structure.CurveGeometry)
	if !ok {
		return
	}
	rows := make([][]vecutil.Vec, 4)
	for i := range rows {
		pts := make([]vecutil.Vec, len(curve.Points))
		copy(pts, curve.Points)
		rows[i] = pts
	}
	p.Type = structure.Sheet
	p.Geometry = structure.SheetGeometry{Rows: rows}

	for _, e := range g.EdgesOf(curveID) {
		old := e.CoordFor(curveID)
		e.SetCoordFor(curveID, structure.Coord{0, old[0], 0, 0})
	}
}

// applyOneToMany builds a synthetic sheet in the target graph from
// curveIDs and collapses it to that one id (spec.md §4.9 "1 sheet ->
// many curves"), then deforms sheetID onto it.
func applyOneToMany(shapeA, shapeB *structure.Graph, c kernel.Collaborator, sheetID string, curveIDs []string) ([]string, error) {
	syntheticID := "synthetic-" + uuid.NewString()
	if _, err := shapeB.ConvertCurvesToSheet(curveIDs, syntheticID); err != nil {
		return nil, err
	}
	return applyOneToOne(shapeA, shapeB, c, sheetID, syntheticID)
}

// applyManyToMany resolves an already-matched many-to-many pairing
// (spec.md §4.9 step 6 has paired la[i] with lb[i] independently) by
// deforming each pair in isolation.
func applyManyToMany(shapeA, shapeB *structure.Graph, c kernel.Collaborator, la, lb []string) ([]string, error) {
	out := make([]string, len(la))
	for i := range la {
		got, err := applyOneToOne(shapeA, shapeB, c, la[i], lb[i])
		if err != nil {
			return nil, err
		}
		out[i] = got[0]
	}
	return out, nil
}

// applyManyToOne marks every extra source part merged and drops it
// from all relations (spec.md §4.9 "many curves -> 1 curve" / "many
// sheets -> 1 sheet"), deforms the first (representative) source part
// onto target, and replicates target across the returned slice.
func applyManyToOne(shapeA, shapeB *structure.Graph, c kernel.Collaborator, la []string, target string) ([]string, error) {
	for _, id := range la[1:] {
		if p := shapeA.Part(id); p != nil {
			p.Flags |= structure.FlagMerged
		}
		for _, r := range shapeA.Relations {
			r.Remove(id)
		}
	}
	if _, err := applyOneToOne(shapeA, shapeB, c, la[0], target); err != nil {
		return nil, err
	}
	out := make([]string, len(la))
	for i := range out {
		out[i] = target
	}
	return out, nil
}

// manyCurvesToSheet builds a synthetic sheet from la in the source
// graph, aligns it to the target sheet, and generates one new curve on
// the target sheet per original source curve at its projected
// iso-parameter (spec.md §4.9 "many curves -> 1 sheet"). The new
// target curves receive synthetic ids "<target-sheet-id>,<source-
// curve-id>".
//
// The original author flagged this conversion as "not robust" (spec.md
// §9 open questions): projecting a curve's centroid onto the aligned
// synthetic sheet's unit frame is only a stand-in for a true
// closest-point-on-surface projection, so results near a sheet's
// corners are low-confidence.
func manyCurvesToSheet(shapeA, shapeB *structure.Graph, c kernel.Collaborator, la []string, targetSheetID string) ([]string, error) {
	syntheticID := "synthetic-" + uuid.NewString()
	synthetic, err := shapeA.ConvertCurvesToSheet(la, syntheticID)
	if err != nil {
		return nil, err
	}
	defer shapeA.RemovePart(syntheticID)

	target := shapeB.Part(targetSheetID)
	if target == nil {
		return nil, fmt.Errorf("search: manyCurvesToSheet: missing target sheet %q", targetSheetID)
	}

	aligned := synthetic
	if fit := c.RegisterAndDeformNodes(synthetic, target); fit.OK() {
		aligned = fit.Node
	}
	bounds := boundsOf(aligned.ControlPoints())

	out := make([]string, len(la))
	for i, curveID := range la {
		curve := shapeA.Part(curveID)
		uv := bounds.UnitCoord(vecutil.Centroid(curve.ControlPoints()))
		newCurveID := targetSheetID + "," + curveID
		if _, err := shapeB.ConvertToNURBSCurve(targetSheetID, newCurveID, structure.Coord{uv.X, uv.Y, 0, 0}); err != nil {
			return nil, err
		}
		out[i] = newCurveID
	}
	return out, nil
}

func boundsOf(pts []vecutil.Vec) structure.Bounds {
	var b structure.Bounds
	first := true
	for _, p := range pts {
		if first {
			b.Min, b.Max = p, p
			first = false
			continue
		}
		b.Min = vecutil.Vec{X: min(b.Min.X, p.X), Y: min(b.Min.Y, p.Y), Z: min(b.Min.Z, p.Z)}
		b.Max = vecutil.Vec{X: max(b.Max.X, p.X), Y: max(b.Max.Y, p.Y), Z: max(b.Max.Z, p.Z)}
	}
	return b
}
