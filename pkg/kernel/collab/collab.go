package collab

import (
	"github.com/voxelforge/shapecorr/pkg/kernel"
	"github.com/voxelforge/shapecorr/pkg/structure"
	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

// morphBlend is how far a registered source control point moves
// toward its corresponded target point. Not 1.0: ICP correspondence
// is many-to-one (several source points can share a nearest target
// point), so snapping all the way would collapse distinct source
// points onto identical positions; this open question (spec.md §9
// leaves the interpolation factor unspecified) is resolved by keeping
// a small trace of the source shape's relative spacing.
const morphBlend = 0.85

// defaultSpokeResolution is used when SampleNode is called on a part
// with no existing spoke set (the C8 "prepare" call).
const defaultSpokeResolution = 8

// Collaborator implements kernel.Collaborator over structure.Part and
// structure.Graph using PCA-based rigid alignment, linearized ICP
// refinement, and a damped control-point morph.
type Collaborator struct{}

var _ kernel.Collaborator = Collaborator{}

// SampleNode refreshes p's spoke set. If p already carries `resolution`
// spokes, only their Origin/Tip are recomputed — RefLength is left
// untouched so a caller that sampled once at the start of a search
// (prepare) can call this again after every deformation (evaluate)
// and still compare against the original reference length. A part
// with no prior spokes (or a different count) gets RefLength set from
// the fresh sample, i.e. this call establishes the reference.
func (Collaborator) SampleNode(p *structure.Part, resolution int) error {
	if resolution <= 0 {
		resolution = defaultSpokeResolution
	}
	pts := p.ControlPoints()
	origin := vecutil.Centroid(pts)
	fresh := len(p.Spokes) != resolution

	spokes := make([]structure.Spoke, resolution)
	for i := 0; i < resolution; i++ {
		t := 0.0
		if resolution > 1 {
			t = float64(i) / float64(resolution-1)
		}
		tip := p.PositionAt([4]float64{t, t, 0, 0})
		length := vecutil.Distance(origin, tip)
		refLength := length
		if !fresh {
			refLength = p.Spokes[i].RefLength
		}
		spokes[i] = structure.Spoke{Origin: origin, Tip: tip, RefLength: refLength}
	}
	p.Spokes = spokes
	return nil
}

// SpokesFromLink returns the attachment points proximity propagation
// must preserve for edge e: a ray from each endpoint part's centroid
// to its stored parametric attachment coordinate.
func (Collaborator) SpokesFromLink(g *structure.Graph, e *structure.Edge) (a, b structure.Spoke, err error) {
	pa, pb := g.Part(e.A), g.Part(e.B)
	if pa == nil || pb == nil {
		return a, b, &kernel.FitError{Reason: "edge endpoint part missing from graph"}
	}
	originA := vecutil.Centroid(pa.ControlPoints())
	originB := vecutil.Centroid(pb.ControlPoints())
	tipA := pa.PositionAt(e.CoordA)
	tipB := pb.PositionAt(e.CoordB)
	a = structure.Spoke{Origin: originA, Tip: tipA, RefLength: vecutil.Distance(originA, tipA)}
	b = structure.Spoke{Origin: originB, Tip: tipB, RefLength: vecutil.Distance(originB, tipB)}
	return a, b, nil
}

// RegisterAndDeformNodes is the deform-to-fit primitive (spec.md
// §4.6): rigid alignment, ICP-like refinement, then a control-point
// morph toward the aligned target, preserving src's control-point
// count and refreshing its spoke set.
func (c Collaborator) RegisterAndDeformNodes(src, tgt *structure.Part) kernel.FitResult {
	srcPts, tgtPts := src.ControlPoints(), tgt.ControlPoints()
	if len(srcPts) == 0 || FitOBB(srcPts).Degenerate() {
		return kernel.FitResult{Err: &kernel.FitError{Reason: kernel.ReasonDegenerateSource}}
	}
	if len(tgtPts) == 0 || FitOBB(tgtPts).Degenerate() {
		return kernel.FitResult{Err: &kernel.FitError{Reason: kernel.ReasonDegenerateTarget}}
	}
	if src.Type != tgt.Type {
		return kernel.FitResult{Err: &kernel.FitError{Reason: kernel.ReasonTypeMismatch}}
	}

	R, t := rigidAlign(srcPts, tgtPts)
	aligned, corr := icpRefine(srcPts, tgtPts, R, t)

	morphed := make([]vecutil.Vec, len(aligned))
	for i, p := range aligned {
		morphed[i] = vecutil.Lerp(p, tgtPts[corr[i]], morphBlend)
	}

	clone := src.Clone()
	if err := clone.SetControlPoints(morphed); err != nil {
		return kernel.FitResult{Err: &kernel.FitError{Reason: err.Error()}}
	}
	resolution := len(clone.Spokes)
	_ = c.SampleNode(clone, resolution)

	return kernel.FitResult{Node: clone}
}
