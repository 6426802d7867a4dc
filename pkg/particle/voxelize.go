package particle

import (
	"math"

	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

// Triangle is one face of the input mesh. The package takes triangle
// soup directly; parsing mesh files (OBJ/STL/3MF/...) is out of scope
// (spec.md §1 non-goals).
type Triangle struct {
	A, B, C vecutil.Vec
}

func (t Triangle) normal() vecutil.Vec {
	return vecutil.Normalize(vecutil.Cross(vecutil.Sub(t.B, t.A), vecutil.Sub(t.C, t.A)))
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max vecutil.Vec
}

func boundsOf(tris []Triangle) Bounds {
	if len(tris) == 0 {
		return Bounds{}
	}
	min := tris[0].A
	max := tris[0].A
	grow := func(p vecutil.Vec) {
		min = vecutil.Vec{X: math.Min(min.X, p.X), Y: math.Min(min.Y, p.Y), Z: math.Min(min.Z, p.Z)}
		max = vecutil.Vec{X: math.Max(max.X, p.X), Y: math.Max(max.Y, p.Y), Z: math.Max(max.Z, p.Z)}
	}
	for _, t := range tris {
		grow(t.A)
		grow(t.B)
		grow(t.C)
	}
	return Bounds{Min: min, Max: max}
}

// VoxelizeOptions configures Voxelize.
type VoxelizeOptions struct {
	GridSize       int  // G, cells per side
	SolidFill      bool // step 3: flood-fill the interior
	CarveShell     bool // when SolidFill, also clear the original surface shell
	ManifoldRepair bool // step 4: corner-path leak repair
}

// Voxelize performs surface voxelization of a triangle mesh, with
// optional solid fill and manifold repair, per spec.md §4.1. It returns
// the grid (so callers can inspect Occupied directly) and the resulting
// particle mesh.
func Voxelize(tris []Triangle, opt VoxelizeOptions) (*Grid, *Mesh) {
	bb := boundsOf(tris)
	size := vecutil.Sub(bb.Max, bb.Min)
	side := math.Max(size.X, math.Max(size.Y, size.Z))
	if side <= 0 {
		side = 1
	}
	u := side / float64(opt.GridSize)

	grid := NewGrid(opt.GridSize, u, bb.Min)

	// Translate triangles so bb.Min is at the origin (step 1).
	translated := make([]Triangle, len(tris))
	for i, t := range tris {
		translated[i] = Triangle{
			A: vecutil.Sub(t.A, bb.Min),
			B: vecutil.Sub(t.B, bb.Min),
			C: vecutil.Sub(t.C, bb.Min),
		}
	}

	surfaceVoxelize(translated, grid)

	if opt.SolidFill {
		interior := floodFillExterior(grid)
		fillInterior(grid, interior, opt.CarveShell)
	}

	if opt.ManifoldRepair {
		repairManifold(grid)
	}

	return grid, grid.ToParticleMesh()
}

// surfaceVoxelize marks every grid cell whose box overlaps a triangle,
// using the Schwarz–Seidel separating-axis test: a plane-through-box
// test against the triangle's own plane, followed by three 2D
// projection overlap tests on XY, YZ, and ZX.
func surfaceVoxelize(tris []Triangle, grid *Grid) {
	u := grid.U
	for _, t := range tris {
		bb := boundsOf([]Triangle{t})
		x0 := int(math.Floor(bb.Min.X / u))
		x1 := int(math.Ceil(bb.Max.X / u))
		y0 := int(math.Floor(bb.Min.Y / u))
		y1 := int(math.Ceil(bb.Max.Y / u))
		z0 := int(math.Floor(bb.Min.Z / u))
		z1 := int(math.Ceil(bb.Max.Z / u))

		for x := x0; x <= x1; x++ {
			for y := y0; y <= y1; y++ {
				for z := z0; z <= z1; z++ {
					if !grid.InBounds(x, y, z) {
						continue
					}
					cmin := vecutil.Vec{X: float64(x) * u, Y: float64(y) * u, Z: float64(z) * u}
					cmax := vecutil.Add(cmin, vecutil.Vec{X: u, Y: u, Z: u})
					if triangleBoxOverlap(t, cmin, cmax) {
						grid.Mark(x, y, z)
					}
				}
			}
		}
	}
}

// triangleBoxOverlap implements the Schwarz–Seidel test: the triangle's
// plane must pass through the box, and the triangle's projection onto
// each of the three coordinate planes must overlap the box's projection.
func triangleBoxOverlap(t Triangle, bmin, bmax vecutil.Vec) bool {
	if !planeThroughBox(t, bmin, bmax) {
		return false
	}
	if !projectionOverlap2D(t, bmin, bmax, 0, 1) { // XY
		return false
	}
	if !projectionOverlap2D(t, bmin, bmax, 1, 2) { // YZ
		return false
	}
	if !projectionOverlap2D(t, bmin, bmax, 2, 0) { // ZX
		return false
	}
	return true
}

func axis(v vecutil.Vec, i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// planeThroughBox tests whether the triangle's supporting plane
// intersects the box, by checking the box's two extreme corners
// (relative to the plane normal) land on opposite sides.
func planeThroughBox(t Triangle, bmin, bmax vecutil.Vec) bool {
	n := t.normal()
	d := vecutil.Dot(n, t.A)

	var lo, hi vecutil.Vec
	for i := 0; i < 3; i++ {
		if axis(n, i) >= 0 {
			lo = setAxis(lo, i, axis(bmin, i))
			hi = setAxis(hi, i, axis(bmax, i))
		} else {
			lo = setAxis(lo, i, axis(bmax, i))
			hi = setAxis(hi, i, axis(bmin, i))
		}
	}
	distLo := vecutil.Dot(n, lo) - d
	distHi := vecutil.Dot(n, hi) - d
	return distLo <= 0 && distHi >= 0
}

func setAxis(v vecutil.Vec, i int, val float64) vecutil.Vec {
	switch i {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	default:
		v.Z = val
	}
	return v
}

// projectionOverlap2D tests the triangle's edges, projected onto the
// (ai, aj) plane, against the box's projected square using the 2D
// separating-axis test with the three edge normals.
func projectionOverlap2D(t Triangle, bmin, bmax vecutil.Vec, ai, aj int) bool {
	verts := [3][2]float64{
		{axis(t.A, ai), axis(t.A, aj)},
		{axis(t.B, ai), axis(t.B, aj)},
		{axis(t.C, ai), axis(t.C, aj)},
	}
	boxHalf := [2]float64{(axis(bmax, ai) - axis(bmin, ai)) / 2, (axis(bmax, aj) - axis(bmin, aj)) / 2}
	boxCenter := [2]float64{(axis(bmax, ai) + axis(bmin, ai)) / 2, (axis(bmax, aj) + axis(bmin, aj)) / 2}

	for i := 0; i < 3; i++ {
		j := (i + 1) % 3
		edge := [2]float64{verts[j][0] - verts[i][0], verts[j][1] - verts[i][1]}
		// Outward 2D normal of this edge.
		normal := [2]float64{-edge[1], edge[0]}

		// Project the triangle onto the normal.
		minT, maxT := math.Inf(1), math.Inf(-1)
		for _, v := range verts {
			proj := normal[0]*(v[0]-boxCenter[0]) + normal[1]*(v[1]-boxCenter[1])
			minT = math.Min(minT, proj)
			maxT = math.Max(maxT, proj)
		}

		// Project the box half-extent onto the same normal.
		r := boxHalf[0]*math.Abs(normal[0]) + boxHalf[1]*math.Abs(normal[1])

		if minT > r || maxT < -r {
			return false
		}
	}
	return true
}
