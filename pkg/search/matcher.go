package search

import (
	"math"

	"github.com/voxelforge/shapecorr/pkg/structure"
	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

// greedyMatcher is the default many-to-many resolver (spec.md §9
// "Greedy many-to-many matching"): each source is matched to its own
// nearest target independently, so distinct sources may land on the
// same target (that duplication is exactly what collapses into the
// "many curves -> 1 curve"/"many sheets -> 1 sheet" topological case
// downstream). This is deliberately not a bijective assignment; use
// munkres.Matcher for that.
type greedyMatcher struct{}

func (greedyMatcher) Match(cost [][]float64) []int {
	out := make([]int, len(cost))
	for i, row := range cost {
		best, bestD := 0, math.Inf(1)
		for j, d := range row {
			if d < bestD {
				best, bestD = j, d
			}
		}
		out[i] = best
	}
	return out
}

// matchRelations resolves rA to rB per spec.md §4.9 step 6: each part
// in rA is matched to a target in rB by the distance between their
// positions, each relative to its own relation's bbox in unit
// coordinates. Returns a target id per part of rA, same order.
func matchRelations(shapeA, shapeB *structure.Graph, rA, rB *structure.Relation, m Matcher) []string {
	boxA := shapeA.RelationBBox(rA)
	boxB := shapeB.RelationBBox(rB)

	cost := make([][]float64, len(rA.Parts))
	for i, srcID := range rA.Parts {
		srcPos := boxA.UnitCoord(vecutil.Centroid(shapeA.Part(srcID).ControlPoints()))
		row := make([]float64, len(rB.Parts))
		for j, tgtID := range rB.Parts {
			tgtPos := boxB.UnitCoord(vecutil.Centroid(shapeB.Part(tgtID).ControlPoints()))
			row[j] = vecutil.Distance(srcPos, tgtPos)
		}
		cost[i] = row
	}

	matched := m.Match(cost)
	out := make([]string, len(rA.Parts))
	for i, j := range matched {
		out[i] = rB.Parts[j]
	}
	return out
}
