package vecutil

import (
	"math"
	"testing"
)

func TestNormalizeUnitLength(t *testing.T) {
	v := Normalize(Vec{X: 3, Y: 4, Z: 0})
	if math.Abs(Length(v)-1) > 1e-9 {
		t.Errorf("Length(Normalize(v)) = %v, want 1", Length(v))
	}
}

func TestNormalizeDegenerate(t *testing.T) {
	if got := Normalize(Zero); got != Zero {
		t.Errorf("Normalize(Zero) = %v, want Zero", got)
	}
}

func TestCrossOrthogonal(t *testing.T) {
	x := Vec{X: 1}
	y := Vec{Y: 1}
	z := Cross(x, y)
	if math.Abs(z.Z-1) > 1e-9 || math.Abs(z.X) > 1e-9 || math.Abs(z.Y) > 1e-9 {
		t.Errorf("Cross(x,y) = %v, want (0,0,1)", z)
	}
}

func TestCentroid(t *testing.T) {
	pts := []Vec{{X: 0, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}, {X: 1, Y: 3, Z: 0}}
	c := Centroid(pts)
	want := Vec{X: 1, Y: 1, Z: 0}
	if Distance(c, want) > 1e-9 {
		t.Errorf("Centroid = %v, want %v", c, want)
	}
}

func TestEigenSymmetric3FlatDisk(t *testing.T) {
	// Points spread along X and Y, none along Z: the smallest
	// eigenvalue's eigenvector should align with Z.
	pts := []Vec{
		{X: 1, Y: 0, Z: 0}, {X: -1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0}, {X: 0, Y: -1, Z: 0},
	}
	cov, _ := Covariance(pts)
	values, vectors := EigenSymmetric3(cov)

	if values[0] > values[1] || values[1] > values[2] {
		t.Fatalf("eigenvalues not ascending: %v", values)
	}
	if math.Abs(values[0]) > 1e-9 {
		t.Errorf("smallest eigenvalue = %v, want ~0 for a flat disk", values[0])
	}
	normal := vectors[0]
	if math.Abs(math.Abs(normal.Z)-1) > 1e-6 {
		t.Errorf("smallest eigenvector = %v, want alignment with Z axis", normal)
	}
}

func TestMat3MulVecIdentity(t *testing.T) {
	id := Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	v := Vec{X: 1, Y: 2, Z: 3}
	if got := id.MulVec(v); got != v {
		t.Errorf("identity.MulVec(v) = %v, want %v", got, v)
	}
}
