package collab

import (
	"testing"

	"github.com/voxelforge/shapecorr/pkg/structure"
	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

func TestSampleNodeEstablishesReferenceLengthOnFirstCall(t *testing.T) {
	p := structure.NewCurve("c", []vecutil.Vec{{X: 0}, {X: 1}, {X: 2}})
	c := Collaborator{}
	if err := c.SampleNode(p, 4); err != nil {
		t.Fatalf("SampleNode: %v", err)
	}
	if len(p.Spokes) != 4 {
		t.Fatalf("len(Spokes) = %d, want 4", len(p.Spokes))
	}
	for i, s := range p.Spokes {
		if s.RefLength != vecutil.Distance(s.Origin, s.Tip) {
			t.Errorf("spoke %d RefLength = %v, want fresh distance", i, s.RefLength)
		}
	}
}

func TestSampleNodePreservesReferenceLengthOnResample(t *testing.T) {
	p := structure.NewCurve("c", []vecutil.Vec{{X: 0}, {X: 1}, {X: 2}})
	c := Collaborator{}
	_ = c.SampleNode(p, 4)
	originalRef := make([]float64, len(p.Spokes))
	for i, s := range p.Spokes {
		originalRef[i] = s.RefLength
	}

	// Move the curve, then resample: RefLength must not change even
	// though Tip does.
	_ = p.SetControlPoints([]vecutil.Vec{{X: 10}, {X: 11}, {X: 12}})
	_ = c.SampleNode(p, 4)
	for i, s := range p.Spokes {
		if s.RefLength != originalRef[i] {
			t.Errorf("spoke %d RefLength changed on resample: %v -> %v", i, originalRef[i], s.RefLength)
		}
	}
}

func TestRegisterAndDeformNodesIdentityIsNearNoOp(t *testing.T) {
	src := structure.NewSheet("s", [][]vecutil.Vec{
		{{X: 0, Y: 0}, {X: 1, Y: 0}},
		{{X: 0, Y: 1}, {X: 1, Y: 1}},
	})
	tgt := src.Clone()

	c := Collaborator{}
	res := c.RegisterAndDeformNodes(src, tgt)
	if !res.OK() {
		t.Fatalf("RegisterAndDeformNodes failed: %v", res.Err)
	}
	for i, p := range res.Node.ControlPoints() {
		if vecutil.Distance(p, src.ControlPoints()[i]) > 1e-6 {
			t.Errorf("point %d moved under an identity fit: %+v -> %+v", i, src.ControlPoints()[i], p)
		}
	}
}

func TestRegisterAndDeformNodesPreservesControlPointCount(t *testing.T) {
	src := structure.NewCurve("a", []vecutil.Vec{{X: 0}, {X: 1}, {X: 2}})
	tgt := structure.NewCurve("b", []vecutil.Vec{{X: 5, Y: 1}, {X: 6, Y: 1}})

	c := Collaborator{}
	res := c.RegisterAndDeformNodes(src, tgt)
	if !res.OK() {
		t.Fatalf("RegisterAndDeformNodes failed: %v", res.Err)
	}
	if len(res.Node.ControlPoints()) != len(src.ControlPoints()) {
		t.Errorf("result has %d control points, want %d (src count preserved)",
			len(res.Node.ControlPoints()), len(src.ControlPoints()))
	}
}

func TestRegisterAndDeformNodesRejectsDegenerateSource(t *testing.T) {
	src := structure.NewCurve("a", []vecutil.Vec{{X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}})
	tgt := structure.NewCurve("b", []vecutil.Vec{{X: 0}, {X: 1}})

	c := Collaborator{}
	res := c.RegisterAndDeformNodes(src, tgt)
	if res.OK() {
		t.Error("expected a fit error for a degenerate (coincident-point) source")
	}
}

func TestRegisterAndDeformNodesRejectsTypeMismatch(t *testing.T) {
	src := structure.NewCurve("a", []vecutil.Vec{{X: 0}, {X: 1}})
	tgt := structure.NewSheet("b", [][]vecutil.Vec{{{X: 0, Y: 0}, {X: 1, Y: 0}}, {{X: 0, Y: 1}, {X: 1, Y: 1}}})

	c := Collaborator{}
	res := c.RegisterAndDeformNodes(src, tgt)
	if res.OK() {
		t.Error("expected a fit error for mismatched part types")
	}
}

func TestSpokesFromLinkUsesEdgeAttachmentCoords(t *testing.T) {
	g := structure.NewTestChair()
	c := Collaborator{}
	e := g.Edges[0]

	a, b, err := c.SpokesFromLink(g, e)
	if err != nil {
		t.Fatalf("SpokesFromLink: %v", err)
	}
	wantA := g.Part(e.A).PositionAt(e.CoordA)
	if vecutil.Distance(a.Tip, wantA) > 1e-9 {
		t.Errorf("a.Tip = %+v, want %+v", a.Tip, wantA)
	}
	wantB := g.Part(e.B).PositionAt(e.CoordB)
	if vecutil.Distance(b.Tip, wantB) > 1e-9 {
		t.Errorf("b.Tip = %+v, want %+v", b.Tip, wantB)
	}
}
