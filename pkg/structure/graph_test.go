package structure

import (
	"testing"

	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

func TestCloneIndependence(t *testing.T) {
	g := NewTestChair()
	clone := g.Clone()

	clone.Part("seat").Geometry.(SheetGeometry).Rows[0][0].X = 99
	clone.RemovePart("leg1")

	if g.Part("leg1") == nil {
		t.Error("removing a part from the clone removed it from the original")
	}
	if g.Part("seat").Geometry.(SheetGeometry).Rows[0][0].X == 99 {
		t.Error("mutating clone's seat control point affected the original")
	}
}

func TestBBoxCoversAllParts(t *testing.T) {
	g := NewTestChair()
	b := g.BBox()
	if b.Min.Z > -1 || b.Max.Z < 1 {
		t.Errorf("BBox = %+v, want to span z in [-1,1]", b)
	}
}

func TestRelationBBoxOnlyCoversMembers(t *testing.T) {
	g := NewTestChair()
	legs := g.Relations[0]
	b := g.RelationBBox(legs)
	if b.Max.Y != 0 {
		t.Errorf("legs bbox Max.Y = %v, want 0 (legs never reach the seat's y=1 edge)", b.Max.Y)
	}
}

func TestSaveKeyframeStacks(t *testing.T) {
	g := NewTestChair()
	g.SaveKeyframe()
	g.SaveKeyframe()
	if g.KeyframeCount() != 2 {
		t.Errorf("KeyframeCount() = %d, want 2", g.KeyframeCount())
	}
}

func TestConvertCurvesToSheetProducesSheet(t *testing.T) {
	g := New()
	g.AddPart(NewCurve("c1", []vecutil.Vec{{X: 0, Y: 0}, {X: 0, Y: 1}}))
	g.AddPart(NewCurve("c2", []vecutil.Vec{{X: 1, Y: 0}, {X: 1, Y: 1}}))

	sheet, err := g.ConvertCurvesToSheet([]string{"c1", "c2"}, "merged")
	if err != nil {
		t.Fatalf("ConvertCurvesToSheet: %v", err)
	}
	if sheet.Type != Sheet {
		t.Fatalf("result type = %v, want Sheet", sheet.Type)
	}
	if len(sheet.Geometry.(SheetGeometry).Rows) != 2 {
		t.Errorf("expected 2 rows (one per source curve)")
	}
}

func TestConvertCurvesToSheetRejectsSingleCurve(t *testing.T) {
	g := New()
	g.AddPart(NewCurve("c1", []vecutil.Vec{{X: 0}, {X: 1}}))
	if _, err := g.ConvertCurvesToSheet([]string{"c1"}, "merged"); err == nil {
		t.Error("expected an error merging a single curve into a sheet")
	}
}

func TestConvertToNURBSCurveExtractsRow(t *testing.T) {
	g := New()
	g.AddPart(NewSheet("s", [][]vecutil.Vec{
		{{X: 0, Y: 0}, {X: 1, Y: 0}},
		{{X: 0, Y: 1}, {X: 1, Y: 1}},
	}))
	curve, err := g.ConvertToNURBSCurve("s", "c", Coord{1, 0, 0, 0})
	if err != nil {
		t.Fatalf("ConvertToNURBSCurve: %v", err)
	}
	pts := curve.ControlPoints()
	if len(pts) != 2 || pts[0].Y != 1 {
		t.Errorf("extracted curve points = %v, want the y=1 row", pts)
	}
}

func TestCorrespondTwoNodesEqualizesCurveResolution(t *testing.T) {
	src := New()
	src.AddPart(NewCurve("a", []vecutil.Vec{{X: 0}, {X: 1}}))
	tgt := New()
	tgt.AddPart(NewCurve("a", []vecutil.Vec{{X: 0}, {X: 0.5}, {X: 1}}))

	if err := src.CorrespondTwoNodes("a", src, "a", tgt); err != nil {
		t.Fatalf("CorrespondTwoNodes: %v", err)
	}
	if len(src.Part("a").ControlPoints()) != 3 {
		t.Errorf("src control points = %d, want 3 (matched to target resolution)",
			len(src.Part("a").ControlPoints()))
	}
}
