// Package analysis implements structural analysis (C5): detecting
// symmetry groups and proximity relations on a structure graph and
// writing them back as its relation list.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/voxelforge/shapecorr/pkg/dsu"
	"github.com/voxelforge/shapecorr/pkg/structure"
	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

// Options configures Analyze's geometric tolerances (spec.md §4.5).
type Options struct {
	Tolerance float64 // absolute distance/length tolerance for symmetry matching
}

// DefaultOptions returns a tolerance appropriate for a graph whose
// control points live in roughly unit-bbox coordinates.
func DefaultOptions() Options {
	return Options{Tolerance: 0.05}
}

// Analyze recomputes symmetry and proximity relations from g's current
// geometry and replaces g.Relations with the result. Because the
// output depends only on current control points, Analyze is idempotent
// (spec.md §4.5): running it twice in a row without an intervening
// deformation yields the same relation list.
func Analyze(g *structure.Graph, opt Options) {
	symmetry := DetectSymmetry(g, opt.Tolerance)
	proximity := DetectProximity(g, opt.Tolerance)
	g.Relations = append(symmetry, proximity...)
}

type signature struct {
	controlPointCount int
	diagonal          float64
}

func partSignature(p *structure.Part) signature {
	pts := p.ControlPoints()
	if len(pts) == 0 {
		return signature{}
	}
	var b structure.Bounds
	first := true
	for _, pt := range pts {
		if first {
			b.Min, b.Max = pt, pt
			first = false
			continue
		}
		b.Min = vecutil.Vec{X: math.Min(b.Min.X, pt.X), Y: math.Min(b.Min.Y, pt.Y), Z: math.Min(b.Min.Z, pt.Z)}
		b.Max = vecutil.Vec{X: math.Max(b.Max.X, pt.X), Y: math.Max(b.Max.Y, pt.Y), Z: math.Max(b.Max.Z, pt.Z)}
	}
	return signature{controlPointCount: len(pts), diagonal: vecutil.Distance(b.Min, b.Max)}
}

func similarSignature(a, b signature, tol float64) bool {
	return a.controlPointCount == b.controlPointCount && math.Abs(a.diagonal-b.diagonal) <= tol
}

// DetectSymmetry groups parts of matching shape signature related by a
// translation or a reflection across one of the three axis planes
// through the graph's bbox center, within tolerance (spec.md §4.5).
// Reflection is tested first, on part centroids only; a pair that
// passes it is recorded as a reflection even when it is also a
// translation. Rotational symmetry is not detected: no relation of
// kind RelationRotation is produced.
func DetectSymmetry(g *structure.Graph, tolerance float64) []*structure.Relation {
	ids := sortedPartIDs(g)
	sigs := make(map[string]signature, len(ids))
	for _, id := range ids {
		sigs[id] = partSignature(g.Part(id))
	}
	center := g.BBox().Center()

	d := dsu.New(len(ids))
	opByPair := make(map[[2]int]*structure.SymmetryOperator)
	kindByPair := make(map[[2]int]structure.RelationKind)

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := ids[i], ids[j]
			if !similarSignature(sigs[a], sigs[b], tolerance) {
				continue
			}
			pa, pb := vecutil.Centroid(g.Part(a).ControlPoints()), vecutil.Centroid(g.Part(b).ControlPoints())

			if axis, ok := reflectionAxis(pa, pb, center, tolerance); ok {
				d.Union(i, j)
				kindByPair[[2]int{i, j}] = structure.RelationReflection
				opByPair[[2]int{i, j}] = &structure.SymmetryOperator{Axis: axis, Point: center}
			} else if offset, ok := translationOffset(g, a, b, tolerance); ok {
				d.Union(i, j)
				kindByPair[[2]int{i, j}] = structure.RelationTranslation
				opByPair[[2]int{i, j}] = &structure.SymmetryOperator{Translation: offset}
			}
		}
	}

	groups := d.Groups()
	var relations []*structure.Relation
	n := 0
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		kind := structure.RelationReflection
		var op *structure.SymmetryOperator
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				key := [2]int{members[i], members[j]}
				if members[i] > members[j] {
					key = [2]int{members[j], members[i]}
				}
				if k, ok := kindByPair[key]; ok {
					kind = k
					op = opByPair[key]
				}
			}
		}
		parts := make([]string, len(members))
		for i, m := range members {
			parts[i] = ids[m]
		}
		sort.Strings(parts)
		relations = append(relations, &structure.Relation{
			ID:             fmt.Sprintf("sym%d", n),
			Kind:           kind,
			Parts:          parts,
			Representative: parts[0],
			Operator:       op,
		})
		n++
	}
	sort.Slice(relations, func(i, j int) bool { return relations[i].ID < relations[j].ID })
	return relations
}

// reflectionAxis reports whether pa and pb are mirror images of each
// other across one of the three axis planes passing through center,
// returning that plane's unit normal.
func reflectionAxis(pa, pb, center vecutil.Vec, tolerance float64) (vecutil.Vec, bool) {
	mirrors := []struct {
		point  vecutil.Vec
		normal vecutil.Vec
	}{
		{vecutil.Vec{X: 2*center.X - pa.X, Y: pa.Y, Z: pa.Z}, vecutil.Vec{X: 1}},
		{vecutil.Vec{X: pa.X, Y: 2*center.Y - pa.Y, Z: pa.Z}, vecutil.Vec{Y: 1}},
		{vecutil.Vec{X: pa.X, Y: pa.Y, Z: 2*center.Z - pa.Z}, vecutil.Vec{Z: 1}},
	}
	for _, m := range mirrors {
		if vecutil.Distance(m.point, pb) <= tolerance {
			return m.normal, true
		}
	}
	return vecutil.Vec{}, false
}

// translationOffset reports whether b's control points are a to tol
// away from a pure translation of a's control points (same count,
// same shape, shifted by a single offset), returning that offset.
func translationOffset(g *structure.Graph, aID, bID string, tolerance float64) (vecutil.Vec, bool) {
	a, b := g.Part(aID).ControlPoints(), g.Part(bID).ControlPoints()
	if len(a) != len(b) || len(a) == 0 {
		return vecutil.Vec{}, false
	}
	offset := vecutil.Sub(b[0], a[0])
	for i := range a {
		expected := vecutil.Add(a[i], offset)
		if vecutil.Distance(expected, b[i]) > tolerance {
			return vecutil.Vec{}, false
		}
	}
	if vecutil.Length(offset) <= tolerance { // a zero offset isn't a meaningful translation
		return vecutil.Vec{}, false
	}
	return offset, true
}

// DetectProximity groups parts that share an edge, or whose control
// point clouds come within tolerance of each other, into proximity
// clusters (spec.md §4.5).
func DetectProximity(g *structure.Graph, tolerance float64) []*structure.Relation {
	ids := sortedPartIDs(g)
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	d := dsu.New(len(ids))

	for _, e := range g.Edges {
		if ia, ok := index[e.A]; ok {
			if ib, ok2 := index[e.B]; ok2 {
				d.Union(ia, ib)
			}
		}
	}

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if d.Connected(i, j) {
				continue
			}
			if minDistance(g.Part(ids[i]), g.Part(ids[j])) <= tolerance {
				d.Union(i, j)
			}
		}
	}

	groups := d.Groups()
	var relations []*structure.Relation
	n := 0
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		parts := make([]string, len(members))
		for i, m := range members {
			parts[i] = ids[m]
		}
		sort.Strings(parts)
		relations = append(relations, &structure.Relation{
			ID:    fmt.Sprintf("prox%d", n),
			Kind:  structure.RelationProximity,
			Parts: parts,
		})
		n++
	}
	sort.Slice(relations, func(i, j int) bool { return relations[i].ID < relations[j].ID })
	return relations
}

func minDistance(a, b *structure.Part) float64 {
	best := math.Inf(1)
	for _, pa := range a.ControlPoints() {
		for _, pb := range b.ControlPoints() {
			if d := vecutil.Distance(pa, pb); d < best {
				best = d
			}
		}
	}
	return best
}

func sortedPartIDs(g *structure.Graph) []string {
	ids := make([]string, 0, len(g.Parts))
	for id := range g.Parts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
