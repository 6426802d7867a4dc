package structure

import "testing"

func TestValidateChairFixtureOK(t *testing.T) {
	g := NewTestChair()
	res := Validate(g)
	if !res.OK() {
		t.Errorf("Validate(chair fixture) errors = %v, want none", res.Errors)
	}
}

func TestValidateRejectsOutOfDomainCoord(t *testing.T) {
	g := NewTestChair()
	g.Edges[0].CoordA = Coord{1.5, 0, 0, 0}
	res := Validate(g)
	if res.OK() {
		t.Error("expected a validation error for a coordinate outside [0,1]")
	}
}

func TestValidateRejectsDanglingEdge(t *testing.T) {
	g := NewTestChair()
	g.AddEdge("seat", "ghost", Coord{0, 0, 0, 0}, Coord{0, 0, 0, 0})
	res := Validate(g)
	if res.OK() {
		t.Error("expected a validation error for an edge to a missing part")
	}
}

func TestPartitionRelationsDetectsOverlap(t *testing.T) {
	g := NewTestChair()
	g.Relations = append(g.Relations, &Relation{ID: "other", Kind: RelationTranslation, Parts: []string{"leg1"}})
	res := PartitionRelations(g)
	if res.OK() {
		t.Error("expected an error: leg1 is in two symmetry relations")
	}
}
