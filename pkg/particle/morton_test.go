package particle

import "testing"

func TestMortonRoundTrip(t *testing.T) {
	cases := []struct{ x, y, z int }{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{7, 3, 5},
		{1023, 511, 255},
	}
	for _, c := range cases {
		m := EncodeMorton(c.x, c.y, c.z)
		x, y, z := m.Decode()
		if x != c.x || y != c.y || z != c.z {
			t.Errorf("EncodeMorton(%d,%d,%d).Decode() = (%d,%d,%d)", c.x, c.y, c.z, x, y, z)
		}
	}
}

func TestMortonDistinctCellsDistinctCodes(t *testing.T) {
	seen := make(map[Morton]bool)
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			for z := 0; z < 8; z++ {
				m := EncodeMorton(x, y, z)
				if seen[m] {
					t.Fatalf("collision encoding (%d,%d,%d)", x, y, z)
				}
				seen[m] = true
			}
		}
	}
}

func TestNeighborKind(t *testing.T) {
	cases := []struct {
		dx, dy, dz int
		want       int
	}{
		{1, 0, 0, 1},
		{0, -1, 0, 1},
		{1, 1, 0, 2},
		{1, 0, -1, 2},
		{1, 1, 1, 3},
		{-1, 1, -1, 3},
	}
	for _, c := range cases {
		if got := NeighborKind(c.dx, c.dy, c.dz); got != c.want {
			t.Errorf("NeighborKind(%d,%d,%d) = %d, want %d", c.dx, c.dy, c.dz, got, c.want)
		}
	}
}

func TestNeighborOffsets3Count(t *testing.T) {
	var faces, edges, corners int
	for _, off := range neighborOffsets3 {
		switch NeighborKind(off[0], off[1], off[2]) {
		case 1:
			faces++
		case 2:
			edges++
		case 3:
			corners++
		}
	}
	if faces != 6 || edges != 12 || corners != 8 {
		t.Errorf("got faces=%d edges=%d corners=%d, want 6/12/8", faces, edges, corners)
	}
}

func TestMorton6NeighborsFaceAdjacent(t *testing.T) {
	neighbors := Morton6Neighbors(5, 5, 5)
	want := map[[3]int]bool{
		{4, 5, 5}: true, {6, 5, 5}: true,
		{5, 4, 5}: true, {5, 6, 5}: true,
		{5, 5, 4}: true, {5, 5, 6}: true,
	}
	for _, n := range neighbors {
		x, y, z := n.Decode()
		if !want[[3]int{x, y, z}] {
			t.Errorf("unexpected neighbor (%d,%d,%d)", x, y, z)
		}
		delete(want, [3]int{x, y, z})
	}
	if len(want) != 0 {
		t.Errorf("missing neighbors: %v", want)
	}
}
