// Package vecutil provides the 3-vector arithmetic shared by every stage
// of the pipeline (voxelization, segmentation, structure graph geometry,
// propagation, evaluation). It standardizes on sdfx's vec/v3.Vec so that
// a particle position, a control point, and an SDF primitive center are
// all the same Go type end to end.
package vecutil

import (
	"math"

	"github.com/deadsy/sdfx/vec/v3"
)

// Vec is an alias for the vector type shared with the sdfx-based geometry
// collaborator, kept short because it appears in nearly every signature
// in this codebase.
type Vec = v3.Vec

// Zero is the zero vector.
var Zero = Vec{}

func Add(a, b Vec) Vec { return Vec{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z} }
func Sub(a, b Vec) Vec { return Vec{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z} }
func Scale(a Vec, s float64) Vec { return Vec{X: a.X * s, Y: a.Y * s, Z: a.Z * s} }

func Dot(a, b Vec) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func Cross(a, b Vec) Vec {
	return Vec{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

func LengthSq(a Vec) float64 { return Dot(a, a) }

func Length(a Vec) float64 { return math.Sqrt(LengthSq(a)) }

// Normalize returns a unit vector in the direction of a, or the zero
// vector if a is degenerate.
func Normalize(a Vec) Vec {
	l := Length(a)
	if l < 1e-12 {
		return Zero
	}
	return Scale(a, 1/l)
}

// Lerp linearly interpolates between a and b at parameter t in [0,1].
func Lerp(a, b Vec, t float64) Vec {
	return Add(a, Scale(Sub(b, a), t))
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Vec) float64 { return Length(Sub(a, b)) }

// Centroid returns the mean of a non-empty slice of points.
func Centroid(pts []Vec) Vec {
	if len(pts) == 0 {
		return Zero
	}
	var sum Vec
	for _, p := range pts {
		sum = Add(sum, p)
	}
	return Scale(sum, 1/float64(len(pts)))
}

// Mat3 is a row-major 3x3 matrix, used for covariance/PCA and rigid
// alignment (OBB fitting, ICP-like registration).
type Mat3 [3][3]float64

// Outer returns the outer product a * bᵗ.
func Outer(a, b Vec) Mat3 {
	return Mat3{
		{a.X * b.X, a.X * b.Y, a.X * b.Z},
		{a.Y * b.X, a.Y * b.Y, a.Y * b.Z},
		{a.Z * b.X, a.Z * b.Y, a.Z * b.Z},
	}
}

func (m Mat3) Add(n Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][j] + n[i][j]
		}
	}
	return out
}

func (m Mat3) Scale(s float64) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][j] * s
		}
	}
	return out
}

// MulVec applies the matrix to a vector.
func (m Mat3) MulVec(v Vec) Vec {
	return Vec{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Covariance computes the 3x3 covariance matrix of a point cloud about
// its centroid, the input to PCA-based OBB fitting (C3 split axis, C6
// rigid alignment).
func Covariance(pts []Vec) (Mat3, Vec) {
	c := Centroid(pts)
	var cov Mat3
	for _, p := range pts {
		d := Sub(p, c)
		cov = cov.Add(Outer(d, d))
	}
	if len(pts) > 0 {
		cov = cov.Scale(1 / float64(len(pts)))
	}
	return cov, c
}

// EigenSymmetric3 diagonalizes a symmetric 3x3 matrix by cyclic Jacobi
// rotation, returning its eigenvalues and corresponding eigenvectors in
// ascending eigenvalue order. Used everywhere PCA is needed: the
// dominant eigenvector is Vectors[2], the smallest (e.g. a fitted
// plane's normal) is Vectors[0].
func EigenSymmetric3(m Mat3) (Values [3]float64, Vectors [3]Vec) {
	a := m
	v := Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

	for iter := 0; iter < 64; iter++ {
		p, q := 0, 1
		maxOff := math.Abs(a[0][1])
		if math.Abs(a[0][2]) > maxOff {
			p, q, maxOff = 0, 2, math.Abs(a[0][2])
		}
		if math.Abs(a[1][2]) > maxOff {
			p, q, maxOff = 1, 2, math.Abs(a[1][2])
		}
		if maxOff < 1e-12 {
			break
		}

		theta := (a[q][q] - a[p][p]) / (2 * a[p][q])
		t := sign3(theta) / (math.Abs(theta) + math.Sqrt(theta*theta+1))
		c := 1 / math.Sqrt(t*t+1)
		s := t * c

		app, aqq, apq := a[p][p], a[q][q], a[p][q]
		a[p][p] = c*c*app - 2*s*c*apq + s*s*aqq
		a[q][q] = s*s*app + 2*s*c*apq + c*c*aqq
		a[p][q], a[q][p] = 0, 0

		for k := 0; k < 3; k++ {
			if k != p && k != q {
				akp, akq := a[k][p], a[k][q]
				a[k][p] = c*akp - s*akq
				a[p][k] = a[k][p]
				a[k][q] = s*akp + c*akq
				a[q][k] = a[k][q]
			}
		}

		for k := 0; k < 3; k++ {
			vkp, vkq := v[k][p], v[k][q]
			v[k][p] = c*vkp - s*vkq
			v[k][q] = s*vkp + c*vkq
		}
	}

	idx := [3]int{0, 1, 2}
	diag := [3]float64{a[0][0], a[1][1], a[2][2]}
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if diag[idx[j]] < diag[idx[i]] {
				idx[i], idx[j] = idx[j], idx[i]
			}
		}
	}

	for i, src := range idx {
		Values[i] = diag[src]
		Vectors[i] = Vec{X: v[0][src], Y: v[1][src], Z: v[2][src]}
	}
	return
}

func sign3(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
