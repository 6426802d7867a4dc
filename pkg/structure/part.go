// Package structure implements the structure graph (C4): the abstract
// part graph of curve and sheet nodes that the segmentation engine
// labels and the search driver (pkg/search) clones and mutates at
// every step.
package structure

import (
	"fmt"

	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

// PartType distinguishes the two part geometries a node can carry.
type PartType int

const (
	Curve PartType = iota
	Sheet
)

func (t PartType) String() string {
	if t == Sheet {
		return "sheet"
	}
	return "curve"
}

// Geometry is the tagged-variant capability set shared by curve and
// sheet control-point representations: every part geometry can be
// sampled at a parametric coordinate and report its own control
// points for cloning, PCA, and bbox computation.
type Geometry interface {
	positionAt(coord [4]float64) vecutil.Vec
	points() []vecutil.Vec
	clone() Geometry
	partGeometry() // marker, unexported: only this package may implement Geometry
}

// CurveGeometry is a 1-D control polygon; coord[0] in [0,1] selects a
// position by piecewise-linear interpolation along the polygon.
type CurveGeometry struct {
	Points []vecutil.Vec
}

func (g CurveGeometry) partGeometry() {}

func (g CurveGeometry) points() []vecutil.Vec { return g.Points }

func (g CurveGeometry) clone() Geometry {
	pts := make([]vecutil.Vec, len(g.Points))
	copy(pts, g.Points)
	return CurveGeometry{Points: pts}
}

func (g CurveGeometry) positionAt(coord [4]float64) vecutil.Vec {
	if len(g.Points) == 0 {
		return vecutil.Zero
	}
	if len(g.Points) == 1 {
		return g.Points[0]
	}
	t := clamp01(coord[0])
	segments := len(g.Points) - 1
	pos := t * float64(segments)
	i := int(pos)
	if i >= segments {
		i = segments - 1
	}
	frac := pos - float64(i)
	return vecutil.Lerp(g.Points[i], g.Points[i+1], frac)
}

// SheetGeometry is a 2-D control lattice, Rows[row][col]; coord[0],
// coord[1] in [0,1] select a position by bilinear interpolation.
type SheetGeometry struct {
	Rows [][]vecutil.Vec
}

func (g SheetGeometry) partGeometry() {}

func (g SheetGeometry) points() []vecutil.Vec {
	var out []vecutil.Vec
	for _, row := range g.Rows {
		out = append(out, row...)
	}
	return out
}

func (g SheetGeometry) clone() Geometry {
	rows := make([][]vecutil.Vec, len(g.Rows))
	for i, row := range g.Rows {
		rows[i] = make([]vecutil.Vec, len(row))
		copy(rows[i], row)
	}
	return SheetGeometry{Rows: rows}
}

func (g SheetGeometry) positionAt(coord [4]float64) vecutil.Vec {
	if len(g.Rows) == 0 || len(g.Rows[0]) == 0 {
		return vecutil.Zero
	}
	nr, nc := len(g.Rows), len(g.Rows[0])
	u, v := clamp01(coord[0]), clamp01(coord[1])

	rowPos := u * float64(nr-1)
	colPos := v * float64(nc-1)
	r0 := clampIndex(int(rowPos), nr-1)
	c0 := clampIndex(int(colPos), nc-1)
	r1 := clampIndex(r0+1, nr-1)
	c1 := clampIndex(c0+1, nc-1)
	fr, fc := rowPos-float64(r0), colPos-float64(c0)

	top := vecutil.Lerp(g.Rows[r0][c0], g.Rows[r0][c1], fc)
	bottom := vecutil.Lerp(g.Rows[r1][c0], g.Rows[r1][c1], fc)
	return vecutil.Lerp(top, bottom, fr)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func clampIndex(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}

// Spoke is a sampled ray from a part's medial-axis sample to its
// surface, the distortion yardstick of the correspondence evaluator
// (C8).
type Spoke struct {
	Origin    vecutil.Vec
	Tip       vecutil.Vec
	RefLength float64
}

// Flags records per-part state the search and propagation passes test
// and set.
type Flags uint8

const (
	FlagAssignedNull Flags = 1 << iota
	FlagMerged
)

// Part is one node of a structure graph: a curve or sheet carrying
// control points, a sampled spoke set, and a property bag (label, mesh
// reference, arbitrary metadata).
type Part struct {
	ID         string
	Type       PartType
	Geometry   Geometry
	Spokes     []Spoke
	Properties map[string]string
	Flags      Flags
}

// NewCurve creates a curve part from a control polygon.
func NewCurve(id string, points []vecutil.Vec) *Part {
	return &Part{ID: id, Type: Curve, Geometry: CurveGeometry{Points: points}, Properties: map[string]string{}}
}

// NewSheet creates a sheet part from a control lattice.
func NewSheet(id string, rows [][]vecutil.Vec) *Part {
	return &Part{ID: id, Type: Sheet, Geometry: SheetGeometry{Rows: rows}, Properties: map[string]string{}}
}

// ControlPoints returns every control point of the part, flattened.
func (p *Part) ControlPoints() []vecutil.Vec {
	return p.Geometry.points()
}

// PositionAt samples the part's surface/curve at a parametric
// coordinate.
func (p *Part) PositionAt(coord [4]float64) vecutil.Vec {
	return p.Geometry.positionAt(coord)
}

// Clone deep-copies the part, including its geometry and spoke set.
func (p *Part) Clone() *Part {
	props := make(map[string]string, len(p.Properties))
	for k, v := range p.Properties {
		props[k] = v
	}
	spokes := make([]Spoke, len(p.Spokes))
	copy(spokes, p.Spokes)
	return &Part{
		ID:         p.ID,
		Type:       p.Type,
		Geometry:   p.Geometry.clone(),
		Spokes:     spokes,
		Properties: props,
		Flags:      p.Flags,
	}
}

// IsAssignedNull reports whether the search has collapsed this part to
// the null target.
func (p *Part) IsAssignedNull() bool { return p.Flags&FlagAssignedNull != 0 }

// IsMerged reports whether a topological operation folded this part
// into another.
func (p *Part) IsMerged() bool { return p.Flags&FlagMerged != 0 }

// CollapseToCentroid moves every control point to their shared
// centroid and sets the assigned-null flag, the many→null topological
// operation (spec.md §4.9).
func (p *Part) CollapseToCentroid() {
	pts := p.ControlPoints()
	c := vecutil.Centroid(pts)
	switch g := p.Geometry.(type) {
	case CurveGeometry:
		for i := range g.Points {
			g.Points[i] = c
		}
	case SheetGeometry:
		for _, row := range g.Rows {
			for i := range row {
				row[i] = c
			}
		}
	}
	p.Flags |= FlagAssignedNull
}

// SetControlPoints overwrites the part's control points in flattened
// order (curve: index order; sheet: row-major). The count must match
// ControlPoints()'s current length — deform-to-fit (C6) always
// preserves control-point count, reparameterizing the target instead
// of growing or shrinking the source.
func (p *Part) SetControlPoints(pts []vecutil.Vec) error {
	switch g := p.Geometry.(type) {
	case CurveGeometry:
		if len(pts) != len(g.Points) {
			return fmt.Errorf("SetControlPoints: got %d points, curve %q has %d", len(pts), p.ID, len(g.Points))
		}
		copy(g.Points, pts)
	case SheetGeometry:
		n := 0
		for _, row := range g.Rows {
			n += len(row)
		}
		if len(pts) != n {
			return fmt.Errorf("SetControlPoints: got %d points, sheet %q has %d", len(pts), p.ID, n)
		}
		i := 0
		for _, row := range g.Rows {
			for c := range row {
				row[c] = pts[i]
				i++
			}
		}
	}
	return nil
}

func (p *Part) String() string {
	return fmt.Sprintf("%s(%s)", p.ID, p.Type)
}
