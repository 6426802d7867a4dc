package search

import (
	"sort"

	"github.com/samber/lo"

	"github.com/voxelforge/shapecorr/pkg/structure"
	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

// pairing is one candidate ⟨rA, rB⟩ formed in step 4 of explore. A nil
// RB is the distinguished null relation (spec.md §4.9 step 4).
type pairing struct {
	RA *structure.Relation
	RB *structure.Relation
}

// candidateSourceRelations is step 3 of explore: every source relation
// containing a part adjacent (in shapeA) to p.current, with at least
// one member not already fixed; if none qualify and unassigned is
// nonempty, fall back to the relation containing the lexicographically
// first unassigned part (synthesizing a singleton relation if that
// part belongs to none).
func candidateSourceRelations(shapeA *structure.Graph, current, fixed, unassigned map[string]bool) []*structure.Relation {
	touched := map[string]bool{}
	for id := range current {
		for _, adj := range shapeA.AdjacentParts(id) {
			touched[adj] = true
		}
	}

	candidates := lo.Filter(shapeA.Relations, func(r *structure.Relation, _ int) bool {
		touchesCurrent := lo.SomeBy(r.Parts, func(p string) bool { return touched[p] })
		hasUnfixed := lo.SomeBy(r.Parts, func(p string) bool { return !fixed[p] })
		return touchesCurrent && hasUnfixed
	})
	if len(candidates) > 0 || len(unassigned) == 0 {
		return candidates
	}

	first := firstSorted(unassigned)
	for _, r := range shapeA.Relations {
		if r.Contains(first) {
			return []*structure.Relation{r}
		}
	}
	return []*structure.Relation{{ID: "singleton-" + first, Parts: []string{first}}}
}

// formPairings is steps 4 and 5: cross every candidate source relation
// with every target relation (plus the null relation), then drop any
// pairing whose relative bbox centers differ by more than threshold
// (null pairings bypass that filter).
func formPairings(shapeA, shapeB *structure.Graph, candidates []*structure.Relation, threshold float64) []pairing {
	targets := append([]*structure.Relation{nil}, shapeB.Relations...)

	all := lo.FlatMap(candidates, func(rA *structure.Relation, _ int) []pairing {
		return lo.Map(targets, func(rB *structure.Relation, _ int) pairing {
			return pairing{RA: rA, RB: rB}
		})
	})

	return lo.Filter(all, func(p pairing, _ int) bool {
		if p.RB == nil {
			return true
		}
		return relationCenterDistance(shapeA, shapeB, p.RA, p.RB) <= threshold
	})
}

func relationCenterDistance(shapeA, shapeB *structure.Graph, rA, rB *structure.Relation) float64 {
	centerA := shapeA.BBox().UnitCoord(shapeA.RelationBBox(rA).Center())
	centerB := shapeB.BBox().UnitCoord(shapeB.RelationBBox(rB).Center())
	return vecutil.Distance(centerA, centerB)
}

func firstSorted(set map[string]bool) string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids[0]
}
