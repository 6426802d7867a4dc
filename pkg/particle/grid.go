package particle

import "github.com/voxelforge/shapecorr/pkg/vecutil"

// Grid is a cubic voxel grid of side G with unit cell length U. Cells are
// keyed sparsely by Morton code; Occupied tracks which cells are filled,
// independent of whether a Particle has been materialized for them yet
// (solid-fill and manifold-repair both mutate Occupied before the final
// particle pass runs).
type Grid struct {
	G      int     // cells per side
	U      float64 // unit cell length (world units)
	Origin vecutil.Vec // world position of cell (0,0,0)'s min corner

	Occupied map[Morton]bool
}

// NewGrid creates an empty grid of the given side length and unit size,
// anchored at origin (the mesh's translated bounding-box min corner, per
// spec.md §4.1 step 1).
func NewGrid(g int, u float64, origin vecutil.Vec) *Grid {
	return &Grid{
		G:        g,
		U:        u,
		Origin:   origin,
		Occupied: make(map[Morton]bool),
	}
}

// InBounds reports whether a cell coordinate lies within [0, G-1]^3.
func (g *Grid) InBounds(x, y, z int) bool {
	return x >= 0 && x < g.G && y >= 0 && y < g.G && z >= 0 && z < g.G
}

// Mark occupies the cell at (x, y, z). No-op if out of bounds.
func (g *Grid) Mark(x, y, z int) {
	if !g.InBounds(x, y, z) {
		return
	}
	g.Occupied[EncodeMorton(x, y, z)] = true
}

// Clear unoccupies the cell at (x, y, z).
func (g *Grid) Clear(x, y, z int) {
	delete(g.Occupied, EncodeMorton(x, y, z))
}

// IsOccupied reports whether (x, y, z) is filled.
func (g *Grid) IsOccupied(x, y, z int) bool {
	if !g.InBounds(x, y, z) {
		return false
	}
	return g.Occupied[EncodeMorton(x, y, z)]
}

// CellCenter returns the world-space center of cell (x, y, z).
func (g *Grid) CellCenter(x, y, z int) vecutil.Vec {
	return vecutil.Add(g.Origin, vecutil.Vec{
		X: (float64(x) + 0.5) * g.U,
		Y: (float64(y) + 0.5) * g.U,
		Z: (float64(z) + 0.5) * g.U,
	})
}

// ToParticleMesh materializes one Particle per occupied cell, positioned
// at the cell center translated back by the original mesh offset (spec.md
// §4.1 step 5). Origin holds that offset and CellCenter adds it back, so
// this simply reads Occupied.
func (g *Grid) ToParticleMesh() *Mesh {
	m := NewMesh(g)
	for cell := range g.Occupied {
		x, y, z := cell.Decode()
		m.Add(cell, g.CellCenter(x, y, z))
	}
	return m
}
