package search

import (
	"testing"

	"github.com/voxelforge/shapecorr/pkg/kernel/collab"
	"github.com/voxelforge/shapecorr/pkg/structure"
)

func TestApplyOneToOnePromotesCurveToSheet(t *testing.T) {
	shapeA := structure.NewTestChair()
	shapeB := structure.NewTestChair()
	c := collab.Collaborator{}

	out, err := Apply(shapeA, shapeB, c, []string{"leg1"}, []string{"seat"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out) != 1 || out[0] != "seat" {
		t.Fatalf("Apply() = %v, want [\"seat\"]", out)
	}
	if got := shapeA.Part("leg1").Type; got != structure.Sheet {
		t.Errorf("leg1.Type = %v, want Sheet after curve->sheet promotion", got)
	}
}

func TestApplyManyToOneMergesCurves(t *testing.T) {
	shapeA := structure.NewTestChair()
	shapeB := structure.NewTestChair()
	c := collab.Collaborator{}

	out, err := Apply(shapeA, shapeB, c, []string{"leg1", "leg2"}, []string{"leg1", "leg1"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out) != 2 || out[0] != "leg1" || out[1] != "leg1" {
		t.Fatalf("Apply() = %v, want both entries \"leg1\"", out)
	}
	if !shapeA.Part("leg2").IsMerged() {
		t.Error("leg2 should be flagged merged after many curves -> 1 curve")
	}
	for _, r := range shapeA.Relations {
		if r.Contains("leg2") {
			t.Errorf("relation %q still contains merged part leg2", r.ID)
		}
	}
}

func TestApplyManyToNullCollapses(t *testing.T) {
	shapeA := structure.NewTestChair()
	shapeB := structure.NewTestChair()
	c := collab.Collaborator{}

	out, err := Apply(shapeA, shapeB, c, []string{"leg1", "leg2"}, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out) != 2 || out[0] != "" || out[1] != "" {
		t.Fatalf("Apply() = %v, want two empty strings", out)
	}
	if !shapeA.Part("leg1").IsAssignedNull() || !shapeA.Part("leg2").IsAssignedNull() {
		t.Error("expected both collapsed parts flagged assigned-null")
	}
}

func TestApplyManyCurvesToSheetTruncatesSyntheticIDs(t *testing.T) {
	shapeA := structure.NewTestChair()
	shapeB := structure.NewTestChair()
	c := collab.Collaborator{}

	out, err := Apply(shapeA, shapeB, c, []string{"leg1", "leg2"}, []string{"seat", "seat"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("Apply() = %v, want two synthetic curve ids", out)
	}
	for i, id := range out {
		if id == "" {
			t.Fatalf("out[%d] is empty", i)
		}
		if shapeB.Part(id) == nil {
			t.Errorf("synthetic curve %q was not left in shapeB", id)
		}
	}

	mapping := map[string]string{}
	recordMapping(mapping, []string{"leg1", "leg2"}, out)
	if mapping["leg1"] != "seat" || mapping["leg2"] != "seat" {
		t.Fatalf("recordMapping() = %v, want both legs truncated to \"seat\"", mapping)
	}
}

func TestApplyOneToManyBuildsSyntheticSheet(t *testing.T) {
	shapeA := structure.NewTestChair()
	shapeB := structure.NewTestChair()
	c := collab.Collaborator{}

	out, err := Apply(shapeA, shapeB, c, []string{"seat"}, []string{"leg1", "leg2"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("Apply() = %v, want one synthetic sheet id", out)
	}
	if shapeB.Part(out[0]) == nil {
		t.Errorf("synthetic sheet %q was not left in shapeB", out[0])
	}
}
