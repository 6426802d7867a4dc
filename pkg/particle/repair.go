package particle

// repairManifold closes non-manifold pinch points: two occupied voxels
// that touch only at an edge or a corner, with every face-connected
// path between them empty, let the exterior leak diagonally through
// the gap. For every such pair this fills one face-connected path
// between them (spec.md §4.1 step 4).
func repairManifold(grid *Grid) {
	g := grid.G
	for x := 0; x < g; x++ {
		for y := 0; y < g; y++ {
			for z := 0; z < g; z++ {
				if !grid.IsOccupied(x, y, z) {
					continue
				}
				for _, off := range neighborOffsets3 {
					dx, dy, dz := off[0], off[1], off[2]
					kind := NeighborKind(dx, dy, dz)
					if kind == 1 {
						continue // already face-adjacent, nothing to repair
					}
					nx, ny, nz := x+dx, y+dy, z+dz
					if !grid.InBounds(nx, ny, nz) || !grid.IsOccupied(nx, ny, nz) {
						continue
					}
					if hasClearFacePath(grid, x, y, z, dx, dy, dz) {
						continue
					}
					fillCanonicalFacePath(grid, x, y, z, dx, dy, dz)
				}
			}
		}
	}
}

// axisSteps returns the nonzero single-axis steps of an offset, in
// (axis index, sign) form, e.g. (1,0,-1) -> [{0,1},{2,-1}].
func axisSteps(dx, dy, dz int) [][2]int {
	var out [][2]int
	if dx != 0 {
		out = append(out, [2]int{0, sign(dx)})
	}
	if dy != 0 {
		out = append(out, [2]int{1, sign(dy)})
	}
	if dz != 0 {
		out = append(out, [2]int{2, sign(dz)})
	}
	return out
}

func sign(v int) int {
	if v < 0 {
		return -1
	}
	return 1
}

// permutations returns every ordering of steps, used to enumerate all
// shortest face-connected paths between two edge- or corner-adjacent
// cells (2 orderings for an edge neighbor, 6 for a corner neighbor).
func permutations(steps [][2]int) [][][2]int {
	if len(steps) <= 1 {
		return [][][2]int{steps}
	}
	var out [][][2]int
	for i := range steps {
		rest := make([][2]int, 0, len(steps)-1)
		rest = append(rest, steps[:i]...)
		rest = append(rest, steps[i+1:]...)
		for _, p := range permutations(rest) {
			full := append([][2]int{steps[i]}, p...)
			out = append(out, full)
		}
	}
	return out
}

func applyStep(x, y, z int, step [2]int) (int, int, int) {
	switch step[0] {
	case 0:
		return x + step[1], y, z
	case 1:
		return x, y + step[1], z
	default:
		return x, y, z + step[1]
	}
}

// hasClearFacePath reports whether at least one shortest face-connected
// path from (x,y,z) to (x+dx,y+dy,z+dz) is already fully occupied.
func hasClearFacePath(grid *Grid, x, y, z, dx, dy, dz int) bool {
	for _, order := range permutations(axisSteps(dx, dy, dz)) {
		cx, cy, cz := x, y, z
		ok := true
		for i, step := range order {
			cx, cy, cz = applyStep(cx, cy, cz, step)
			if i == len(order)-1 {
				continue // final step lands on the neighbor itself, known occupied
			}
			if !grid.IsOccupied(cx, cy, cz) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// fillCanonicalFacePath marks every intermediate cell of the
// lexicographically first shortest face path between (x,y,z) and
// (x+dx,y+dy,z+dz) as occupied.
func fillCanonicalFacePath(grid *Grid, x, y, z, dx, dy, dz int) {
	order := axisSteps(dx, dy, dz)
	cx, cy, cz := x, y, z
	for i, step := range order {
		cx, cy, cz = applyStep(cx, cy, cz, step)
		if i == len(order)-1 {
			continue
		}
		grid.Mark(cx, cy, cz)
	}
}
