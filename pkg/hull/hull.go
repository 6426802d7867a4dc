// Package hull computes the 3D convex hull of a point cloud and its
// volume, the basis of the solidity merge criterion used by the
// segmentation engine (C3, spec.md §4.3). It is a from-scratch
// incremental hull builder, grounded on the shape of the original
// Qhull-backed ConvexHull type (points in, faces + volume + area +
// solidity + merge out) without depending on an external geometry
// library.
package hull

import (
	"math"

	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

// Face is one outward-oriented triangular facet of a hull, stored as
// indices into the hull's owning point set.
type Face struct {
	A, B, C int
}

// Hull is the convex hull of a point set: its faces, surface area,
// enclosed volume, and centroid.
type Hull struct {
	Points     []vecutil.Vec
	Faces      []Face
	Center     vecutil.Vec
	Volume     float64
	Area       float64
	PointCount int // number of input points (voxel corners/centers this hull summarizes)
}

const epsilon = 1e-9

// New computes the convex hull of points via incremental construction:
// start from a seed tetrahedron, then repeatedly absorb the next point
// not already inside, replacing every face it can see with a fan of
// new faces to the point.
func New(points []vecutil.Vec) *Hull {
	h := &Hull{Points: points, PointCount: len(points)}
	if len(points) < 4 {
		return h
	}

	i0, i1, i2, i3, ok := seedTetrahedron(points)
	if !ok {
		// Degenerate (coplanar or fewer than 4 distinct positions):
		// no enclosed volume, nothing further to compute.
		return h
	}

	faces := []Face{{i0, i1, i2}, {i0, i2, i3}, {i0, i3, i1}, {i1, i3, i2}}
	interior := vecutil.Scale(vecutil.Add(vecutil.Add(points[i0], points[i1]), vecutil.Add(points[i2], points[i3])), 0.25)
	for i, f := range faces {
		faces[i] = orientOutward(points, f, interior)
	}

	used := map[int]bool{i0: true, i1: true, i2: true, i3: true}
	for idx, p := range points {
		if used[idx] {
			continue
		}
		faces = absorbPoint(points, faces, idx, p)
	}

	h.Faces = faces
	h.finalize()
	return h
}

func seedTetrahedron(points []vecutil.Vec) (i0, i1, i2, i3 int, ok bool) {
	i0 = 0
	i1 = farthestFrom(points, points[i0], -1)
	if i1 == i0 {
		return
	}
	i2 = farthestFromLine(points, points[i0], points[i1], i0, i1)
	if i2 < 0 {
		return
	}
	i3 = farthestFromPlane(points, points[i0], points[i1], points[i2], i0, i1, i2)
	if i3 < 0 {
		return
	}
	return i0, i1, i2, i3, true
}

func farthestFrom(points []vecutil.Vec, from vecutil.Vec, exclude int) int {
	best, bestD := -1, -1.0
	for i, p := range points {
		if i == exclude {
			continue
		}
		d := vecutil.LengthSq(vecutil.Sub(p, from))
		if d > bestD {
			best, bestD = i, d
		}
	}
	return best
}

func farthestFromLine(points []vecutil.Vec, a, b vecutil.Vec, excludeA, excludeB int) int {
	dir := vecutil.Normalize(vecutil.Sub(b, a))
	best, bestD := -1, epsilon
	for i, p := range points {
		if i == excludeA || i == excludeB {
			continue
		}
		rel := vecutil.Sub(p, a)
		proj := vecutil.Scale(dir, vecutil.Dot(rel, dir))
		perp := vecutil.Sub(rel, proj)
		d := vecutil.LengthSq(perp)
		if d > bestD {
			best, bestD = i, d
		}
	}
	return best
}

func farthestFromPlane(points []vecutil.Vec, a, b, c vecutil.Vec, excludeA, excludeB, excludeC int) int {
	n := vecutil.Cross(vecutil.Sub(b, a), vecutil.Sub(c, a))
	best, bestD := -1, epsilon
	for i, p := range points {
		if i == excludeA || i == excludeB || i == excludeC {
			continue
		}
		d := math.Abs(vecutil.Dot(n, vecutil.Sub(p, a)))
		if d > bestD {
			best, bestD = i, d
		}
	}
	return best
}

func faceNormal(points []vecutil.Vec, f Face) vecutil.Vec {
	return vecutil.Cross(vecutil.Sub(points[f.B], points[f.A]), vecutil.Sub(points[f.C], points[f.A]))
}

// orientOutward flips the face winding, if needed, so its normal
// points away from interior.
func orientOutward(points []vecutil.Vec, f Face, interior vecutil.Vec) Face {
	n := faceNormal(points, f)
	if vecutil.Dot(n, vecutil.Sub(points[f.A], interior)) < 0 {
		return Face{f.A, f.C, f.B}
	}
	return f
}

// absorbPoint updates the face list to include p: faces visible from p
// are removed, and a new fan of faces connects p to the horizon (the
// boundary between visible and non-visible faces).
func absorbPoint(points []vecutil.Vec, faces []Face, idx int, p vecutil.Vec) []Face {
	visible := make([]bool, len(faces))
	anyVisible := false
	for i, f := range faces {
		n := faceNormal(points, f)
		if vecutil.Dot(n, vecutil.Sub(p, points[f.A])) > epsilon {
			visible[i] = true
			anyVisible = true
		}
	}
	if !anyVisible {
		return faces // p lies inside the current hull
	}

	type edge struct{ u, v int }
	edgeCount := make(map[edge]int)
	addEdge := func(u, v int) {
		if u > v {
			u, v = v, u
		}
		edgeCount[edge{u, v}]++
	}
	for i, f := range faces {
		if !visible[i] {
			continue
		}
		addEdge(f.A, f.B)
		addEdge(f.B, f.C)
		addEdge(f.C, f.A)
	}

	var horizon [][2]int
	for i, f := range faces {
		if visible[i] {
			continue
		}
		tryEdge := func(u, v int) {
			k := edge{u, v}
			if u > v {
				k = edge{v, u}
			}
			if edgeCount[k] == 1 {
				horizon = append(horizon, [2]int{u, v})
			}
		}
		tryEdge(f.A, f.B)
		tryEdge(f.B, f.C)
		tryEdge(f.C, f.A)
	}

	kept := make([]Face, 0, len(faces))
	for i, f := range faces {
		if !visible[i] {
			kept = append(kept, f)
		}
	}
	for _, e := range horizon {
		kept = append(kept, Face{e[0], e[1], idx})
	}
	return kept
}

// finalize computes Area, Volume, and Center from the finished face
// list: volume by signed-tetrahedron decomposition from the origin
// (divergence theorem), area by summing triangle areas, center as the
// mean of face centroids weighted by nothing extra (matches the
// original's simple average over face vertices).
func (h *Hull) finalize() {
	if len(h.Faces) == 0 {
		return
	}
	var volume, area float64
	var centerSum vecutil.Vec
	n := 0
	for _, f := range h.Faces {
		a, b, c := h.Points[f.A], h.Points[f.B], h.Points[f.C]
		volume += vecutil.Dot(a, vecutil.Cross(b, c)) / 6
		area += vecutil.Length(vecutil.Cross(vecutil.Sub(b, a), vecutil.Sub(c, a))) / 2
		centerSum = vecutil.Add(centerSum, vecutil.Add(vecutil.Add(a, b), c))
		n += 3
	}
	h.Volume = math.Abs(volume)
	h.Area = area
	if n > 0 {
		h.Center = vecutil.Scale(centerSum, 1/float64(n))
	}
}

// Solidity returns the ratio of voxel-summed volume to hull volume:
// particle-count * u^3 / hull-volume (spec.md §4.3).
func (h *Hull) Solidity(voxelSize float64) float64 {
	if h.Volume <= 0 {
		return 0
	}
	inVolume := math.Pow(voxelSize, 3) * float64(h.PointCount)
	return inVolume / h.Volume
}

// Merged builds the hull of the union of this hull's and other's input
// points, combining point counts the way the original ConvexHull does.
func (h *Hull) Merged(other *Hull) *Hull {
	both := make([]vecutil.Vec, 0, len(h.Points)+len(other.Points))
	both = append(both, h.Points...)
	both = append(both, other.Points...)
	merged := New(both)
	merged.PointCount = h.PointCount + other.PointCount
	return merged
}
