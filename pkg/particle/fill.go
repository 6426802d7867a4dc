package particle

// floodFillExterior walks the grid from every boundary cell that is not
// occupied, spreading across 6-connected empty cells, and returns the
// set of cells reached. Anything empty and unreached is interior.
func floodFillExterior(grid *Grid) map[Morton]bool {
	exterior := make(map[Morton]bool)
	var stack []Morton

	push := func(x, y, z int) {
		if !grid.InBounds(x, y, z) || grid.IsOccupied(x, y, z) {
			return
		}
		c := EncodeMorton(x, y, z)
		if exterior[c] {
			return
		}
		exterior[c] = true
		stack = append(stack, c)
	}

	g := grid.G
	for x := 0; x < g; x++ {
		for y := 0; y < g; y++ {
			push(x, y, 0)
			push(x, y, g-1)
		}
	}
	for x := 0; x < g; x++ {
		for z := 0; z < g; z++ {
			push(x, 0, z)
			push(x, g-1, z)
		}
	}
	for y := 0; y < g; y++ {
		for z := 0; z < g; z++ {
			push(0, y, z)
			push(g-1, y, z)
		}
	}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y, z := cur.Decode()
		push(x-1, y, z)
		push(x+1, y, z)
		push(x, y-1, z)
		push(x, y+1, z)
		push(x, y, z-1)
		push(x, y, z+1)
	}

	return exterior
}

// fillInterior marks every empty cell that floodFillExterior did not
// reach as occupied (the solid fill, spec.md §4.1 step 3). When
// carveShell is set, the original surface shell cells are cleared
// afterward, leaving only the newly filled interior.
func fillInterior(grid *Grid, exterior map[Morton]bool, carveShell bool) {
	shell := make(map[Morton]bool, len(grid.Occupied))
	if carveShell {
		for c := range grid.Occupied {
			shell[c] = true
		}
	}

	g := grid.G
	for x := 0; x < g; x++ {
		for y := 0; y < g; y++ {
			for z := 0; z < g; z++ {
				if grid.IsOccupied(x, y, z) {
					continue
				}
				c := EncodeMorton(x, y, z)
				if exterior[c] {
					continue
				}
				grid.Mark(x, y, z)
			}
		}
	}

	if carveShell {
		for c := range shell {
			x, y, z := c.Decode()
			grid.Clear(x, y, z)
		}
	}
}
