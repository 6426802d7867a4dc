// Package search implements the guided-deformation search (C9): the
// centerpiece state-space search over partial source-to-target part
// correspondences, driving structural analysis (C5), deform-to-fit
// (C6), propagation (C7), and the correspondence evaluator (C8) on
// working copies of a structure graph.
package search

import (
	"github.com/voxelforge/shapecorr/pkg/structure"
)

// Landmark is a user-supplied or seed correspondence asserted true
// before search begins (GLOSSARY).
type Landmark struct {
	SourceID string
	TargetID string
}

// Assignment is one ⟨la, lb⟩ pending-assignment pair (spec.md §3). A
// nil or empty TargetIDs means the null relation: la collapses to the
// null target.
type Assignment struct {
	SourceIDs []string
	TargetIDs []string
}

// Matcher resolves a many-to-many relation pairing to a per-source
// target index (spec.md §9 "leave a seam for a later optimal
// substitution"). cost is indexed [source][target]; the result gives,
// for each source index, its matched target index.
type Matcher interface {
	Match(cost [][]float64) []int
}

// SearchPath is one node of the search forest (spec.md §3).
type SearchPath struct {
	ID string

	ShapeA *structure.Graph
	ShapeB *structure.Graph

	Fixed       map[string]bool
	Current     map[string]bool
	Assignments []Assignment
	Unassigned  map[string]bool
	Mapping     map[string]string
	Cost        float64

	Children []*SearchPath

	isRoot  bool
	applied bool
}

// IsLeaf reports whether every source part has been mapped (spec.md
// §4.9 "Termination").
func (p *SearchPath) IsLeaf() bool { return len(p.Unassigned) == 0 }

// Options configures a Search run (spec.md §4.9 steps 5 and 7, and §10.3).
type Options struct {
	// Resolution is the spoke-sampling resolution passed to
	// evaluate.Prepare (C8).
	Resolution int
	// CandidateThreshold bounds step 5's centroid-distance filter.
	CandidateThreshold float64
	// CostThreshold bounds step 7's trial-acceptance filter.
	CostThreshold float64
	// AnalysisTolerance is passed to analysis.Analyze when (re)computing
	// symmetry/proximity relations on the input shapes.
	AnalysisTolerance float64
	// Matcher resolves many-to-many candidate pairings (step 6).
	// Defaults to the greedy nearest-center heuristic.
	Matcher Matcher
}

// DefaultOptions returns the literal tunables named in spec.md §4.9.
func DefaultOptions() Options {
	return Options{
		Resolution:         8,
		CandidateThreshold: 0.3,
		CostThreshold:      0.3,
		AnalysisTolerance:  0.05,
		Matcher:            greedyMatcher{},
	}
}

// Result is one completed leaf, ready for output (spec.md §6
// "Correspondence result JSON").
type Result struct {
	Mapping map[string]string
	Cost    float64
}
