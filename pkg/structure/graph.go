package structure

import (
	"fmt"
	"math"

	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

// Bounds is an axis-aligned bounding box in world space.
type Bounds struct {
	Min, Max vecutil.Vec
}

// Center returns the box midpoint.
func (b Bounds) Center() vecutil.Vec {
	return vecutil.Scale(vecutil.Add(b.Min, b.Max), 0.5)
}

// UnitCoord maps a world point into this box's [0,1]^3 local frame,
// used by the search driver's centroid-distance pruning (spec.md
// §4.9 step 5).
func (b Bounds) UnitCoord(p vecutil.Vec) vecutil.Vec {
	size := vecutil.Sub(b.Max, b.Min)
	safe := func(v, s float64) float64 {
		if s < 1e-12 {
			return 0.5
		}
		return v / s
	}
	rel := vecutil.Sub(p, b.Min)
	return vecutil.Vec{X: safe(rel.X, size.X), Y: safe(rel.Y, size.Y), Z: safe(rel.Z, size.Z)}
}

func growBounds(b *Bounds, p vecutil.Vec, first *bool) {
	if *first {
		b.Min, b.Max = p, p
		*first = false
		return
	}
	b.Min = vecutil.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)}
	b.Max = vecutil.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)}
}

// Graph is the structure graph (C4): a typed part graph with edges
// carrying per-endpoint parametric coordinates and relations grouping
// parts by symmetry or proximity. Endpoints are keyed by part id, not
// by pointer, so the graph clones cleanly and carries no reference
// cycles (spec.md §9).
type Graph struct {
	Parts     map[string]*Part
	Edges     []*Edge
	Relations []*Relation
	keyframes []keyframe

	nextEdgeID int
}

// New creates an empty structure graph.
func New() *Graph {
	return &Graph{Parts: make(map[string]*Part)}
}

// AddPart inserts a part, keyed by its own id.
func (g *Graph) AddPart(p *Part) {
	g.Parts[p.ID] = p
}

// Part returns the part with the given id, or nil.
func (g *Graph) Part(id string) *Part {
	return g.Parts[id]
}

// AddEdge appends a new edge and returns it. An id is auto-generated
// if none is supplied.
func (g *Graph) AddEdge(a, b string, coordA, coordB Coord) *Edge {
	e := &Edge{ID: fmt.Sprintf("e%d", g.nextEdgeID), A: a, B: b, CoordA: coordA, CoordB: coordB}
	g.nextEdgeID++
	g.Edges = append(g.Edges, e)
	return e
}

// EdgesOf returns every edge incident to partID.
func (g *Graph) EdgesOf(partID string) []*Edge {
	var out []*Edge
	for _, e := range g.Edges {
		if e.A == partID || e.B == partID {
			out = append(out, e)
		}
	}
	return out
}

// RemoveEdgesOf deletes every edge incident to partID.
func (g *Graph) RemoveEdgesOf(partID string) {
	out := g.Edges[:0]
	for _, e := range g.Edges {
		if e.A != partID && e.B != partID {
			out = append(out, e)
		}
	}
	g.Edges = out
}

// RemovePart deletes a part and every edge incident to it, and drops it
// from every relation.
func (g *Graph) RemovePart(id string) {
	delete(g.Parts, id)
	g.RemoveEdgesOf(id)
	for _, r := range g.Relations {
		r.Remove(id)
	}
}

// AdjacentParts returns the ids of every part connected to partID by an
// edge.
func (g *Graph) AdjacentParts(partID string) []string {
	var out []string
	for _, e := range g.EdgesOf(partID) {
		out = append(out, e.OtherEnd(partID))
	}
	return out
}

// RelationsContaining returns every relation that includes partID.
func (g *Graph) RelationsContaining(partID string) []*Relation {
	var out []*Relation
	for _, r := range g.Relations {
		if r.Contains(partID) {
			out = append(out, r)
		}
	}
	return out
}

// BBox returns the bounding box of every non-deleted part's control
// points.
func (g *Graph) BBox() Bounds {
	var b Bounds
	first := true
	for _, p := range g.Parts {
		for _, pt := range p.ControlPoints() {
			growBounds(&b, pt, &first)
		}
	}
	return b
}

// RelationBBox returns the bounding box of every part in a relation.
func (g *Graph) RelationBBox(r *Relation) Bounds {
	var b Bounds
	first := true
	for _, id := range r.Parts {
		p := g.Parts[id]
		if p == nil {
			continue
		}
		for _, pt := range p.ControlPoints() {
			growBounds(&b, pt, &first)
		}
	}
	return b
}

// keyframe is a deep snapshot of every part's control points and every
// edge's attachment coordinates, pushed by SaveKeyframe.
type keyframe struct {
	points map[string][]vecutil.Vec
	coords map[string][2]Coord
}

// SaveKeyframe deep-copies current control points and edge coordinates
// onto the keyframe stack.
func (g *Graph) SaveKeyframe() {
	kf := keyframe{
		points: make(map[string][]vecutil.Vec, len(g.Parts)),
		coords: make(map[string][2]Coord, len(g.Edges)),
	}
	for id, p := range g.Parts {
		pts := p.ControlPoints()
		copied := make([]vecutil.Vec, len(pts))
		copy(copied, pts)
		kf.points[id] = copied
	}
	for _, e := range g.Edges {
		kf.coords[e.ID] = [2]Coord{e.CoordA, e.CoordB}
	}
	g.keyframes = append(g.keyframes, kf)
}

// KeyframeCount reports how many snapshots are on the stack.
func (g *Graph) KeyframeCount() int { return len(g.keyframes) }

// CorrespondTwoNodes aligns the control-point parameterization of two
// same-type nodes (both curves, or both sheets) by resampling the
// smaller-resolution one to match the larger's control-point count, so
// that index i of each always refers to topologically corresponding
// material. This makes the deform-to-fit interpolation (C6) well
// defined.
func (g *Graph) CorrespondTwoNodes(srcID string, srcGraph *Graph, tgtID string, tgtGraph *Graph) error {
	src := srcGraph.Part(srcID)
	tgt := tgtGraph.Part(tgtID)
	if src == nil || tgt == nil {
		return fmt.Errorf("structure: correspondTwoNodes: missing part %q or %q", srcID, tgtID)
	}
	if src.Type != tgt.Type {
		return fmt.Errorf("structure: correspondTwoNodes: type mismatch %s vs %s", src.Type, tgt.Type)
	}

	switch src.Type {
	case Curve:
		sc := src.Geometry.(CurveGeometry)
		tc := tgt.Geometry.(CurveGeometry)
		if len(sc.Points) < len(tc.Points) {
			src.Geometry = CurveGeometry{Points: resampleCurve(sc.Points, len(tc.Points))}
		} else if len(tc.Points) < len(sc.Points) {
			tgt.Geometry = CurveGeometry{Points: resampleCurve(tc.Points, len(sc.Points))}
		}
	case Sheet:
		ss := src.Geometry.(SheetGeometry)
		ts := tgt.Geometry.(SheetGeometry)
		rows, cols := maxInt(len(ss.Rows), len(ts.Rows)), maxInt(sheetCols(ss), sheetCols(ts))
		src.Geometry = SheetGeometry{Rows: resampleSheet(ss, rows, cols)}
		tgt.Geometry = SheetGeometry{Rows: resampleSheet(ts, rows, cols)}
	}
	return nil
}

func sheetCols(s SheetGeometry) int {
	if len(s.Rows) == 0 {
		return 0
	}
	return len(s.Rows[0])
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func resampleCurve(points []vecutil.Vec, n int) []vecutil.Vec {
	if len(points) == 0 || n <= 0 {
		return nil
	}
	g := CurveGeometry{Points: points}
	out := make([]vecutil.Vec, n)
	for i := 0; i < n; i++ {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = g.positionAt([4]float64{t, 0, 0, 0})
	}
	return out
}

func resampleSheet(s SheetGeometry, rows, cols int) [][]vecutil.Vec {
	if len(s.Rows) == 0 || rows <= 0 || cols <= 0 {
		return nil
	}
	out := make([][]vecutil.Vec, rows)
	for r := 0; r < rows; r++ {
		out[r] = make([]vecutil.Vec, cols)
		u := 0.0
		if rows > 1 {
			u = float64(r) / float64(rows-1)
		}
		for c := 0; c < cols; c++ {
			v := 0.0
			if cols > 1 {
				v = float64(c) / float64(cols-1)
			}
			out[r][c] = s.positionAt([4]float64{u, v, 0, 0})
		}
	}
	return out
}

// ConvertCurvesToSheet merges two or more curves into a single sheet
// (spec.md §4.4): each curve, resampled to the largest control-point
// count among them, becomes one row of the sheet in the order given, so
// the first and last columns run through the curves' endpoints and each
// row isoline is one of the original curves. No rows are blended or
// interpolated between the curves.
func (g *Graph) ConvertCurvesToSheet(curveIDs []string, newID string) (*Part, error) {
	if len(curveIDs) < 2 {
		return nil, fmt.Errorf("structure: convertCurvesToSheet: need at least 2 curves, got %d", len(curveIDs))
	}
	var curves []CurveGeometry
	maxPoints := 0
	for _, id := range curveIDs {
		p := g.Part(id)
		if p == nil || p.Type != Curve {
			return nil, fmt.Errorf("structure: convertCurvesToSheet: %q is not a curve", id)
		}
		c := p.Geometry.(CurveGeometry)
		curves = append(curves, c)
		if len(c.Points) > maxPoints {
			maxPoints = len(c.Points)
		}
	}

	rows := make([][]vecutil.Vec, len(curves))
	for i, c := range curves {
		rows[i] = resampleCurve(c.Points, maxPoints)
	}

	sheet := NewSheet(newID, rows)
	g.AddPart(sheet)
	return sheet, nil
}

// ConvertToNURBSCurve extracts a curve along a sheet's iso-parametric
// line, the inverse of ConvertCurvesToSheet (spec.md §4.4): the new
// curve is a copy of the control row nearest to start[0]. Only rows are
// extracted: there is no direction argument, start[1] is not used, and
// no column-wise curve is produced.
func (g *Graph) ConvertToNURBSCurve(sheetID, newID string, start Coord) (*Part, error) {
	sheetPart := g.Part(sheetID)
	if sheetPart == nil || sheetPart.Type != Sheet {
		return nil, fmt.Errorf("structure: convertToNURBSCurve: %q is not a sheet", sheetID)
	}
	sheet := sheetPart.Geometry.(SheetGeometry)
	if len(sheet.Rows) == 0 {
		return nil, fmt.Errorf("structure: convertToNURBSCurve: %q has no control points", sheetID)
	}

	rowIdx := clampIndex(int(clamp01(start[0])*float64(len(sheet.Rows)-1)+0.5), len(sheet.Rows)-1)
	points := make([]vecutil.Vec, len(sheet.Rows[rowIdx]))
	copy(points, sheet.Rows[rowIdx])

	curve := NewCurve(newID, points)
	g.AddPart(curve)
	return curve, nil
}

// Clone deep-copies the entire graph: every part, edge, relation, and
// keyframe. Structure graphs reference each other only by part id, so
// a clone never shares mutable state with its source (spec.md §8
// property 2).
func (g *Graph) Clone() *Graph {
	clone := &Graph{
		Parts:      make(map[string]*Part, len(g.Parts)),
		Edges:      make([]*Edge, len(g.Edges)),
		Relations:  make([]*Relation, len(g.Relations)),
		nextEdgeID: g.nextEdgeID,
	}
	for id, p := range g.Parts {
		clone.Parts[id] = p.Clone()
	}
	for i, e := range g.Edges {
		clone.Edges[i] = e.Clone()
	}
	for i, r := range g.Relations {
		clone.Relations[i] = r.Clone()
	}
	clone.keyframes = make([]keyframe, len(g.keyframes))
	for i, kf := range g.keyframes {
		nk := keyframe{
			points: make(map[string][]vecutil.Vec, len(kf.points)),
			coords: make(map[string][2]Coord, len(kf.coords)),
		}
		for id, pts := range kf.points {
			copied := make([]vecutil.Vec, len(pts))
			copy(copied, pts)
			nk.points[id] = copied
		}
		for id, c := range kf.coords {
			nk.coords[id] = c
		}
		clone.keyframes[i] = nk
	}
	return clone
}
