package search

import (
	"math"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/voxelforge/shapecorr/pkg/analysis"
	"github.com/voxelforge/shapecorr/pkg/evaluate"
	"github.com/voxelforge/shapecorr/pkg/kernel"
	"github.com/voxelforge/shapecorr/pkg/propagate"
	"github.com/voxelforge/shapecorr/pkg/structure"
)

// Search runs the guided-deformation search to exhaustion and returns
// every leaf reached: a LIFO stack of partial paths, each expanded by
// applying its pending assignment, evaluating the resulting distortion,
// and (if accepted) trial-expanding into one child per surviving
// candidate pairing.
func Search(shapeA, shapeB *structure.Graph, landmarks []Landmark, c kernel.Collaborator, opt Options) ([]*SearchPath, error) {
	analysis.Analyze(shapeA, analysis.Options{Tolerance: opt.AnalysisTolerance})
	analysis.Analyze(shapeB, analysis.Options{Tolerance: opt.AnalysisTolerance})

	if err := evaluate.Prepare(shapeA, c, opt.Resolution); err != nil {
		return nil, err
	}
	if err := evaluate.Prepare(shapeB, c, opt.Resolution); err != nil {
		return nil, err
	}

	roots, err := BuildRoots(shapeA, shapeB, landmarks, opt)
	if err != nil {
		return nil, err
	}

	matcher := opt.Matcher
	if matcher == nil {
		matcher = greedyMatcher{}
	}

	var leaves []*SearchPath
	stack := append([]*SearchPath{}, roots...)

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		fixed := unionSets(p.Fixed, p.Current)

		if !p.applied {
			applyAssignments(p, c, fixed)
		}

		cost, err := evaluate.Evaluate(p.ShapeA, c)
		if err != nil {
			return nil, err
		}
		p.Cost = cost

		if p.IsLeaf() {
			leaves = append(leaves, p)
			continue
		}

		candidates := candidateSourceRelations(p.ShapeA, p.Current, fixed, p.Unassigned)
		pairings := formPairings(p.ShapeA, p.ShapeB, candidates, opt.CandidateThreshold)
		trials := buildAssignments(p.ShapeA, p.ShapeB, pairings, fixed, matcher)

		children := trialExpand(p, fixed, trials, c, opt, p.Cost)
		p.Children = append(p.Children, children...)
		for _, child := range children {
			stack = append(stack, child)
		}

		p.ShapeA, p.ShapeB = nil, nil
	}

	return leaves, nil
}

// applyAssignments runs every pending ⟨la,lb⟩ of p in place on p's own
// shape graphs, records the resulting mapping, and propagates. Used
// only for root nodes, whose assignments (if any) have not yet been
// trial-applied by a parent.
func applyAssignments(p *SearchPath, c kernel.Collaborator, fixed propagate.Fixed) {
	for _, a := range p.Assignments {
		got, err := Apply(p.ShapeA, p.ShapeB, c, a.SourceIDs, a.TargetIDs)
		if err != nil {
			got = make([]string, len(a.SourceIDs))
		}
		recordMapping(p.Mapping, a.SourceIDs, got)
	}
	propagate.Step(p.ShapeA, fixed)
	p.applied = true
}

// recordMapping stores one source->target id per pending assignment. A
// synthetic curve id minted by manyCurvesToSheet is the target sheet id
// followed by its originating source curve id after a comma (e.g.
// "seat,leg2"); only the part before the comma is a real target id, so
// it's truncated before being recorded.
func recordMapping(mapping map[string]string, sourceIDs, targetIDs []string) {
	for i, src := range sourceIDs {
		if i < len(targetIDs) {
			mapping[src] = truncateAtComma(targetIDs[i])
		} else {
			mapping[src] = ""
		}
	}
}

func truncateAtComma(id string) string {
	if idx := strings.IndexByte(id, ','); idx >= 0 {
		return id[:idx]
	}
	return id
}

// buildAssignments turns each candidate pairing into a concrete
// ⟨la,lb⟩ trial: la is the pairing's source relation restricted to
// parts not yet fixed, and lb is either empty (a null pairing) or the
// per-part resolution of la against the target relation via matcher.
func buildAssignments(shapeA, shapeB *structure.Graph, pairings []pairing, fixed map[string]bool, matcher Matcher) []Assignment {
	out := make([]Assignment, 0, len(pairings))
	for _, pr := range pairings {
		la := unfixedMembers(pr.RA, fixed)
		if len(la) == 0 {
			continue
		}
		if pr.RB == nil {
			out = append(out, Assignment{SourceIDs: la})
			continue
		}
		reduced := &structure.Relation{Parts: la}
		lb := matchRelations(shapeA, shapeB, reduced, pr.RB, matcher)
		out = append(out, Assignment{SourceIDs: la, TargetIDs: lb})
	}
	return out
}

func unfixedMembers(r *structure.Relation, fixed map[string]bool) []string {
	var out []string
	for _, id := range r.Parts {
		if !fixed[id] {
			out = append(out, id)
		}
	}
	return out
}

// trialExpand applies each trial assignment on its own clone of p's
// shape graphs, concurrently, and keeps only those whose resulting
// distortion cost stays within opt.CostThreshold of parentCost (p's
// own cost) as an accepted child. A null-relation trial (no target
// parts) always bypasses the threshold, per the null-tolerance rule.
func trialExpand(p *SearchPath, fixed map[string]bool, trials []Assignment, c kernel.Collaborator, opt Options, parentCost float64) []*SearchPath {
	out := make([]*SearchPath, len(trials))
	var wg sync.WaitGroup
	for i, a := range trials {
		wg.Add(1)
		go func(i int, a Assignment) {
			defer wg.Done()
			out[i] = tryAssignment(p, fixed, a, c, opt, parentCost)
		}(i, a)
	}
	wg.Wait()

	children := make([]*SearchPath, 0, len(out))
	for _, child := range out {
		if child != nil {
			children = append(children, child)
		}
	}
	return children
}

func tryAssignment(p *SearchPath, fixed map[string]bool, a Assignment, c kernel.Collaborator, opt Options, parentCost float64) *SearchPath {
	shapeA := p.ShapeA.Clone()
	shapeB := p.ShapeB.Clone()
	mapping := cloneStringMap(p.Mapping)

	got, err := Apply(shapeA, shapeB, c, a.SourceIDs, a.TargetIDs)
	if err != nil {
		return nil
	}
	recordMapping(mapping, a.SourceIDs, got)

	pf := propagate.Fixed{}
	for id := range fixed {
		pf[id] = true
	}
	for _, id := range a.SourceIDs {
		pf[id] = true
	}
	propagate.Step(shapeA, pf)

	cost, err := evaluate.Evaluate(shapeA, c)
	if err != nil {
		return nil
	}
	if len(a.TargetIDs) != 0 && math.Abs(cost-parentCost) >= opt.CostThreshold {
		return nil
	}

	current := toSet(a.SourceIDs)
	return &SearchPath{
		ID:          "node-" + uuid.NewString(),
		ShapeA:      shapeA,
		ShapeB:      shapeB,
		Fixed:       cloneBoolMap(fixed),
		Current:     current,
		Assignments: []Assignment{a},
		Unassigned:  subtractSet(p.Unassigned, current),
		Mapping:     mapping,
		Cost:        cost,
		applied:     true,
	}
}

func unionSets(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool, len(a)+len(b))
	for id := range a {
		out[id] = true
	}
	for id := range b {
		out[id] = true
	}
	return out
}

func subtractSet(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool, len(a))
	for id := range a {
		if !b[id] {
			out[id] = true
		}
	}
	return out
}

func cloneBoolMap(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
