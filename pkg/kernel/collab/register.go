package collab

import (
	"math"

	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

// icpSweeps bounds the linearized ICP refinement loop (spec.md §4.7
// uses the same "bounded number of sweeps" language for proximity
// propagation; C6's rigid refinement follows the same discipline).
const icpSweeps = 8

// icpDamping is the step damping applied to each linearized rotation
// and translation increment, matching propagateProximity's damping
// factor so the two non-linear solves in this codebase read the same
// way.
const icpDamping = 0.5

const icpConvergence = 1e-7

// axisSign resolves PCA's sign ambiguity by the sign of the third
// moment along axis: an eigenvector and its negation are both valid
// principal axes, so without a convention "src.Axes[i]" and
// "tgt.Axes[i]" could point opposite ways for no geometric reason.
// Orienting each axis toward the skewed side of its own point cloud
// makes two independently-fit OBBs pick comparable directions.
func axisSign(pts []vecutil.Vec, center, axis vecutil.Vec) float64 {
	var skew float64
	for _, p := range pts {
		d := vecutil.Dot(vecutil.Sub(p, center), axis)
		skew += d * d * d
	}
	if skew < 0 {
		return -1
	}
	return 1
}

func orientedAxes(pts []vecutil.Vec, box OBB) [3]vecutil.Vec {
	var out [3]vecutil.Vec
	for i, axis := range box.Axes {
		out[i] = vecutil.Scale(axis, axisSign(pts, box.Center, axis))
	}
	return out
}

// basisMatrix builds the row-major matrix whose columns are the given
// orthonormal axes, i.e. the change-of-basis matrix from the frame
// spanned by axes into the world frame (its transpose maps world
// coordinates into that frame).
func basisMatrix(axes [3]vecutil.Vec) vecutil.Mat3 {
	var m vecutil.Mat3
	for row := 0; row < 3; row++ {
		m[row][0] = component(axes[0], row)
		m[row][1] = component(axes[1], row)
		m[row][2] = component(axes[2], row)
	}
	return m
}

func component(v vecutil.Vec, i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func transpose(m vecutil.Mat3) vecutil.Mat3 {
	var out vecutil.Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[j][i]
		}
	}
	return out
}

func matMul(a, b vecutil.Mat3) vecutil.Mat3 {
	var out vecutil.Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += a[i][k] * b[k][j]
			}
			out[i][j] = s
		}
	}
	return out
}

func determinant(m vecutil.Mat3) float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// rigidAlign computes a rotation and translation mapping srcPts'
// principal frame onto tgtPts' principal frame (spec.md §4.6's
// "principal-axis alignment" step).
func rigidAlign(srcPts, tgtPts []vecutil.Vec) (R vecutil.Mat3, t vecutil.Vec) {
	srcBox, tgtBox := FitOBB(srcPts), FitOBB(tgtPts)
	srcAxes, tgtAxes := orientedAxes(srcPts, srcBox), orientedAxes(tgtPts, tgtBox)

	src, tgt := basisMatrix(srcAxes), basisMatrix(tgtAxes)
	R = matMul(tgt, transpose(src))

	if determinant(R) < 0 {
		// Flip the least-significant (smallest-extent) axis to restore a
		// proper rotation without perturbing the dominant two directions.
		tgtAxes[0] = vecutil.Scale(tgtAxes[0], -1)
		tgt = basisMatrix(tgtAxes)
		R = matMul(tgt, transpose(src))
	}

	t = vecutil.Sub(tgtBox.Center, R.MulVec(srcBox.Center))
	return R, t
}

// applyRigid maps every point through (R, t): p' = R*p + t.
func applyRigid(pts []vecutil.Vec, R vecutil.Mat3, t vecutil.Vec) []vecutil.Vec {
	out := make([]vecutil.Vec, len(pts))
	for i, p := range pts {
		out[i] = vecutil.Add(R.MulVec(p), t)
	}
	return out
}

// nearestIndex returns the index of tgt closest to p.
func nearestIndex(p vecutil.Vec, tgt []vecutil.Vec) int {
	best, bestD := 0, math.Inf(1)
	for i, q := range tgt {
		if d := vecutil.LengthSq(vecutil.Sub(p, q)); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// icpRefine runs bounded-sweep, linearized point-to-point ICP:
// correspond each aligned source point to its nearest target point,
// then take a damped incremental rotation (small-angle, skew-symmetric
// form, the same linearization style as propagateProximity) and
// translation step toward minimizing the correspondence residual.
// Returns the refined point positions and the final correspondence.
func icpRefine(srcPts, tgtPts []vecutil.Vec, R vecutil.Mat3, t vecutil.Vec) (aligned []vecutil.Vec, corr []int) {
	aligned = applyRigid(srcPts, R, t)
	corr = make([]int, len(aligned))

	for sweep := 0; sweep < icpSweeps; sweep++ {
		var omegaNum vecutil.Vec
		var omegaDenom float64
		var transNum vecutil.Vec
		center := vecutil.Centroid(aligned)
		maxResidual := 0.0

		for i, p := range aligned {
			corr[i] = nearestIndex(p, tgtPts)
			q := tgtPts[corr[i]]
			residual := vecutil.Sub(q, p)
			if r := vecutil.Length(residual); r > maxResidual {
				maxResidual = r
			}
			d := vecutil.Sub(p, center)
			omegaNum = vecutil.Add(omegaNum, vecutil.Cross(d, residual))
			omegaDenom += vecutil.LengthSq(d)
			transNum = vecutil.Add(transNum, residual)
		}
		if maxResidual < icpConvergence {
			break
		}

		n := float64(len(aligned))
		dTrans := vecutil.Scale(transNum, icpDamping/n)
		var omega vecutil.Vec
		if omegaDenom > 1e-12 {
			omega = vecutil.Scale(omegaNum, icpDamping/omegaDenom)
		}

		for i, p := range aligned {
			d := vecutil.Sub(p, center)
			aligned[i] = vecutil.Add(vecutil.Add(p, vecutil.Cross(omega, d)), dTrans)
		}
	}
	for i, p := range aligned {
		corr[i] = nearestIndex(p, tgtPts)
	}
	return aligned, corr
}
