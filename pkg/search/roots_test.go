package search

import (
	"testing"

	"github.com/voxelforge/shapecorr/pkg/structure"
)

func TestBuildRootsNoLandmarksYieldsOneEmptyRoot(t *testing.T) {
	shapeA := structure.NewTestChair()
	shapeB := structure.NewTestChair()

	roots, err := BuildRoots(shapeA, shapeB, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("BuildRoots: %v", err)
	}
	if len(roots) != 1 {
		t.Fatalf("len(roots) = %d, want 1", len(roots))
	}
	root := roots[0]
	if len(root.Assignments) != 0 || len(root.Current) != 0 {
		t.Errorf("landmark-free root should start with no assignments and no current: %+v", root)
	}
	if len(root.Unassigned) != len(shapeA.Parts) {
		t.Errorf("len(Unassigned) = %d, want %d", len(root.Unassigned), len(shapeA.Parts))
	}
}

func TestBuildRootsGroupsLandmarksSharingARelation(t *testing.T) {
	shapeA := structure.NewTestChair()
	shapeB := structure.NewTestChair()
	landmarks := []Landmark{
		{SourceID: "leg1", TargetID: "leg1"},
		{SourceID: "leg2", TargetID: "leg2"},
	}

	roots, err := BuildRoots(shapeA, shapeB, landmarks, DefaultOptions())
	if err != nil {
		t.Fatalf("BuildRoots: %v", err)
	}
	if len(roots) != 1 {
		t.Fatalf("len(roots) = %d, want 1", len(roots))
	}
	root := roots[0]
	if len(root.Assignments) != 1 {
		t.Fatalf("len(Assignments) = %d, want 1 (leg1/leg2 share the legs relation)", len(root.Assignments))
	}
	if len(root.Assignments[0].SourceIDs) != 2 {
		t.Errorf("grouped assignment has %d sources, want 2", len(root.Assignments[0].SourceIDs))
	}
	if !root.Current["leg1"] || !root.Current["leg2"] {
		t.Errorf("Current = %v, want leg1 and leg2 both present", root.Current)
	}
	if root.Unassigned["leg1"] || root.Unassigned["leg2"] {
		t.Error("landmarked parts should not remain in Unassigned")
	}
}

func TestBuildRootsKeepsUnrelatedLandmarksSeparate(t *testing.T) {
	shapeA := structure.NewTestChair()
	shapeB := structure.NewTestChair()
	landmarks := []Landmark{
		{SourceID: "seat", TargetID: "seat"},
		{SourceID: "back", TargetID: "back"},
	}

	roots, err := BuildRoots(shapeA, shapeB, landmarks, DefaultOptions())
	if err != nil {
		t.Fatalf("BuildRoots: %v", err)
	}
	if len(roots[0].Assignments) != 2 {
		t.Fatalf("len(Assignments) = %d, want 2 (seat/back share no relation)", len(roots[0].Assignments))
	}
}

func TestBuildRootsRejectsUnknownLandmark(t *testing.T) {
	shapeA := structure.NewTestChair()
	shapeB := structure.NewTestChair()
	_, err := BuildRoots(shapeA, shapeB, []Landmark{{SourceID: "missing", TargetID: "seat"}}, DefaultOptions())
	if err == nil {
		t.Error("expected an error for a landmark naming a part absent from shapeA")
	}
}
