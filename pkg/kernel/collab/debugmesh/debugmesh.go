// Package debugmesh is an optional, non-default export of a structure
// graph's part bounding boxes as a single triangle mesh, for visual
// inspection during development. It is not on the path of any
// correspondence computation.
package debugmesh

import (
	"fmt"
	"sort"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/voxelforge/shapecorr/pkg/kernel"
	"github.com/voxelforge/shapecorr/pkg/structure"
	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

// meshCells controls marching-cubes tessellation resolution.
const meshCells = 100

// minBoxSide keeps a degenerate (flat or point-like) part's box from
// collapsing to a zero-volume SDF, which sdf.Box3D rejects.
const minBoxSide = 1e-3

// ExportGraph renders every part's control-point bounding box as a
// solid block, unions them, and extracts the result via marching
// cubes — a quick-and-dirty visualization of a structure graph's part
// layout, not its true surface.
func ExportGraph(g *structure.Graph) (*kernel.Mesh, error) {
	var solid sdf.SDF3
	have := false

	for _, id := range sortedPartIDs(g) {
		p := g.Part(id)
		pts := p.ControlPoints()
		if len(pts) == 0 {
			continue
		}
		box, err := partBox(pts)
		if err != nil {
			return nil, fmt.Errorf("debugmesh: building box for part %q: %w", id, err)
		}
		if !have {
			solid, have = box, true
			continue
		}
		solid = sdf.Union3D(solid, box)
	}
	if !have {
		return &kernel.Mesh{}, nil
	}

	renderer := render.NewMarchingCubesUniform(meshCells)
	triangles := render.ToTriangles(solid, renderer)
	return trianglesToMesh(triangles), nil
}

// ExportPart renders a single part's control-point bounding box in
// isolation, tagging the result with its part id so a caller stepping
// through a graph part by part can tell which box it's looking at.
func ExportPart(g *structure.Graph, partID string) (*kernel.Mesh, error) {
	p := g.Part(partID)
	if p == nil {
		return nil, fmt.Errorf("debugmesh: no such part %q", partID)
	}
	pts := p.ControlPoints()
	if len(pts) == 0 {
		return &kernel.Mesh{PartID: partID}, nil
	}
	box, err := partBox(pts)
	if err != nil {
		return nil, fmt.Errorf("debugmesh: building box for part %q: %w", partID, err)
	}
	renderer := render.NewMarchingCubesUniform(meshCells)
	triangles := render.ToTriangles(box, renderer)
	m := trianglesToMesh(triangles)
	m.PartID = partID
	return m, nil
}

func partBox(pts []vecutil.Vec) (sdf.SDF3, error) {
	min, max := pts[0], pts[0]
	for _, p := range pts[1:] {
		min = v3.Vec{X: minf(min.X, p.X), Y: minf(min.Y, p.Y), Z: minf(min.Z, p.Z)}
		max = v3.Vec{X: maxf(max.X, p.X), Y: maxf(max.Y, p.Y), Z: maxf(max.Z, p.Z)}
	}
	size := v3.Vec{
		X: maxf(max.X-min.X, minBoxSide),
		Y: maxf(max.Y-min.Y, minBoxSide),
		Z: maxf(max.Z-min.Z, minBoxSide),
	}
	center := v3.Vec{X: (min.X + max.X) / 2, Y: (min.Y + max.Y) / 2, Z: (min.Z + max.Z) / 2}

	box, err := sdf.Box3D(size, 0)
	if err != nil {
		return nil, err
	}
	return sdf.Transform3D(box, sdf.Translate3d(center)), nil
}

func trianglesToMesh(triangles []render.Triangle3) *kernel.Mesh {
	m := &kernel.Mesh{
		Vertices: make([]float32, 0, len(triangles)*9),
		Normals:  make([]float32, 0, len(triangles)*9),
		Indices:  make([]uint32, 0, len(triangles)*3),
	}
	for i, tri := range triangles {
		n := tri.Normal()
		nx, ny, nz := float32(n.X), float32(n.Y), float32(n.Z)
		for j := 0; j < 3; j++ {
			v := tri[j]
			m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			m.Normals = append(m.Normals, nx, ny, nz)
			m.Indices = append(m.Indices, uint32(i*3+j))
		}
	}
	return m
}

func sortedPartIDs(g *structure.Graph) []string {
	ids := make([]string, 0, len(g.Parts))
	for id := range g.Parts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
