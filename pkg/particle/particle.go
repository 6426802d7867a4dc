// Package particle implements solid voxelization of a triangle mesh and
// the particle representation the rest of the correspondence pipeline
// builds on (C1 in the design). Particles are never moved once created;
// a ParticleMesh owns them for its entire lifetime.
package particle

import "github.com/voxelforge/shapecorr/pkg/vecutil"

// ID identifies a particle within its owning ParticleMesh.
type ID int

// Flags records per-particle processing state used by the segmentation
// pipeline (C3) while it walks the particle mesh.
type Flags uint8

const (
	FlagFloor      Flags = 1 << iota // particle sits on the voxelization floor (outer shell)
	FlagProcessed                    // already visited by the current traversal
	FlagUnprocessed
)

// Particle is one occupied voxel cell, materialized as a point sample
// with a position, a Morton code for its cell, and a segment tag
// assigned by later stages (C3).
type Particle struct {
	ID        ID
	Position  vecutil.Vec
	Cell      Morton
	Direction vecutil.Vec // local surface/flow direction; Voxelize leaves it zero
	Segment   int    // -1 until segmentation assigns it
	Flags     Flags
}

// Mesh owns a fixed set of particles plus the bijection between Morton
// codes and particle ids that the voxel grid invariant (§3) requires.
type Mesh struct {
	Grid      *Grid
	particles []Particle
	byCell    map[Morton]ID
}

// NewMesh creates an empty particle mesh over the given grid.
func NewMesh(grid *Grid) *Mesh {
	return &Mesh{
		Grid:   grid,
		byCell: make(map[Morton]ID),
	}
}

// Add inserts a new particle at the given cell and world position. It
// panics if the cell is already occupied, since the Morton-to-particle
// mapping must stay injective (§3 invariant).
func (m *Mesh) Add(cell Morton, pos vecutil.Vec) ID {
	if _, exists := m.byCell[cell]; exists {
		panic("particle: cell already occupied, Morton-to-particle mapping would no longer be injective")
	}
	id := ID(len(m.particles))
	m.particles = append(m.particles, Particle{
		ID:       id,
		Position: pos,
		Cell:     cell,
		Segment:  -1,
	})
	m.byCell[cell] = id
	return id
}

// Get returns the particle with the given id.
func (m *Mesh) Get(id ID) *Particle {
	return &m.particles[id]
}

// Len returns the number of particles.
func (m *Mesh) Len() int {
	return len(m.particles)
}

// All returns every particle. Callers must not mutate positions.
func (m *Mesh) All() []Particle {
	return m.particles
}

// Lookup returns the particle id occupying a Morton cell, if any.
func (m *Mesh) Lookup(cell Morton) (ID, bool) {
	id, ok := m.byCell[cell]
	return id, ok
}

// SetSegment assigns a segment tag to a particle, used by the
// segmentation pipeline (C3).
func (m *Mesh) SetSegment(id ID, seg int) {
	m.particles[id].Segment = seg
}

// FaceNeighbors returns the particle ids of the up-to-6 face-adjacent
// occupied cells of id, used to build the segment graph (C2).
func (m *Mesh) FaceNeighbors(id ID) []ID {
	p := m.particles[id]
	x, y, z := p.Cell.Decode()
	var out []ID
	for _, n := range Morton6Neighbors(x, y, z) {
		if nid, ok := m.byCell[n]; ok {
			out = append(out, nid)
		}
	}
	return out
}

// Positions returns the world positions of a slice of particle ids, a
// convenience used throughout segmentation and analysis for PCA/centroid
// computations.
func (m *Mesh) Positions(ids []ID) []vecutil.Vec {
	out := make([]vecutil.Vec, len(ids))
	for i, id := range ids {
		out[i] = m.particles[id].Position
	}
	return out
}
