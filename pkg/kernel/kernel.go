// Package kernel defines the geometric collaborator interface (C6):
// the seam between the correspondence engine and the rigid/non-rigid
// fitting primitives it needs (registration, spoke sampling). The
// core never performs geometry itself; it calls through Collaborator.
package kernel

import "github.com/voxelforge/shapecorr/pkg/structure"

// FitError is a reason a deform-to-fit attempt could not produce a
// usable result. Fit failure is a local, recoverable condition
// (spec.md §9 "Exception semantics") and is never signaled by panic.
type FitError struct {
	Reason string
}

func (e *FitError) Error() string { return "fit failed: " + e.Reason }

// Common fit failure reasons.
const (
	ReasonDegenerateSource = "source control points are degenerate (all coincident)"
	ReasonDegenerateTarget = "target control points are degenerate (all coincident)"
	ReasonTypeMismatch     = "source and target part types are not compatible for direct registration"
	ReasonEmptySpokes      = "node has no sampled spokes to update"
)

// FitResult is the result-variant returned by RegisterAndDeformNodes:
// either the fit succeeded (Err is nil and Node holds the deformed
// part) or it failed for a recorded reason. Callers branch on Err
// rather than on a second error return, because a failed fit is data
// the search driver reasons about (it aborts one trial pairing and
// continues with the node's other siblings), not a program fault.
type FitResult struct {
	Node *structure.Part
	Err  *FitError
}

// OK reports whether the fit succeeded.
func (r FitResult) OK() bool { return r.Err == nil }

// Collaborator is the geometric primitive surface the correspondence
// engine treats as an external dependency (spec.md §6):
//
//   - SampleNode refreshes a part's spoke set at the given resolution.
//   - SpokesFromLink returns the two spoke endpoints a proximity
//     propagation step must keep attached.
//   - RegisterAndDeformNodes is the deform-to-fit primitive (§4.6):
//     rigid alignment followed by a control-point morph.
type Collaborator interface {
	SampleNode(p *structure.Part, resolution int) error
	SpokesFromLink(g *structure.Graph, e *structure.Edge) (a, b structure.Spoke, err error)
	RegisterAndDeformNodes(src, tgt *structure.Part) FitResult
}
