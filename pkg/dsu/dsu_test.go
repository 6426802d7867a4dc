package dsu

import "testing"

func TestUnionConnects(t *testing.T) {
	d := New(5)
	d.Union(0, 1)
	d.Union(1, 2)
	if !d.Connected(0, 2) {
		t.Error("expected 0 and 2 connected after chained union")
	}
	if d.Connected(0, 3) {
		t.Error("expected 0 and 3 not connected")
	}
}

func TestGroups(t *testing.T) {
	d := New(4)
	d.Union(0, 1)
	d.Union(2, 3)
	groups := d.Groups()
	if len(groups) != 2 {
		t.Fatalf("len(Groups()) = %d, want 2", len(groups))
	}
	sizes := map[int]bool{}
	for _, members := range groups {
		sizes[len(members)] = true
	}
	if !sizes[2] {
		t.Errorf("expected groups of size 2, got %v", groups)
	}
}
