package search

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/voxelforge/shapecorr/pkg/dsu"
	"github.com/voxelforge/shapecorr/pkg/structure"
)

// BuildRoots constructs the initial search forest from a set of
// asserted landmarks (spec.md §3, §4.9 step "construct the root(s)").
// Landmarks whose source parts share a structural-analysis relation in
// shapeA are grouped by disjoint-set union before the root is built, so
// they form one combined assignment of the single root rather than one
// assignment per landmark.
func BuildRoots(shapeA, shapeB *structure.Graph, landmarks []Landmark, opt Options) ([]*SearchPath, error) {
	allSources := sortedPartIDs(shapeA)
	unassigned := toSet(allSources)

	if len(landmarks) == 0 {
		root := &SearchPath{
			ID:          "root-" + uuid.NewString(),
			ShapeA:      shapeA,
			ShapeB:      shapeB,
			Fixed:       map[string]bool{},
			Current:     map[string]bool{},
			Assignments: nil,
			Unassigned:  unassigned,
			Mapping:     map[string]string{},
			isRoot:      true,
		}
		return []*SearchPath{root}, nil
	}

	for _, lm := range landmarks {
		if shapeA.Part(lm.SourceID) == nil {
			return nil, fmt.Errorf("search: buildRoots: landmark source %q not found in shapeA", lm.SourceID)
		}
		if shapeB.Part(lm.TargetID) == nil {
			return nil, fmt.Errorf("search: buildRoots: landmark target %q not found in shapeB", lm.TargetID)
		}
	}

	groups, indexOf := groupLandmarks(shapeA, landmarks)

	assignments := make([]Assignment, 0, len(groups))
	current := map[string]bool{}
	for _, members := range groups {
		a := Assignment{}
		for _, idx := range members {
			lm := landmarks[idx]
			a.SourceIDs = append(a.SourceIDs, lm.SourceID)
			a.TargetIDs = append(a.TargetIDs, lm.TargetID)
			current[lm.SourceID] = true
			delete(unassigned, lm.SourceID)
		}
		assignments = append(assignments, a)
	}
	_ = indexOf

	root := &SearchPath{
		ID:          "root-" + uuid.NewString(),
		ShapeA:      shapeA,
		ShapeB:      shapeB,
		Fixed:       map[string]bool{},
		Current:     current,
		Assignments: assignments,
		Unassigned:  unassigned,
		Mapping:     map[string]string{},
		isRoot:      true,
	}
	return []*SearchPath{root}, nil
}

// groupLandmarks unions every pair of landmarks whose source parts
// co-occur in a shapeA relation, returning each resulting group as a
// list of landmark indices (ordered, for determinism) plus a lookup
// from source part id to its landmark index.
func groupLandmarks(shapeA *structure.Graph, landmarks []Landmark) ([][]int, map[string]int) {
	indexOf := make(map[string]int, len(landmarks))
	for i, lm := range landmarks {
		indexOf[lm.SourceID] = i
	}

	d := dsu.New(len(landmarks))
	for _, r := range shapeA.Relations {
		var members []int
		for _, partID := range r.Parts {
			if idx, ok := indexOf[partID]; ok {
				members = append(members, idx)
			}
		}
		for i := 1; i < len(members); i++ {
			d.Union(members[0], members[i])
		}
	}

	byRoot := d.Groups()
	roots := make([]int, 0, len(byRoot))
	for r := range byRoot {
		roots = append(roots, r)
	}
	sort.Ints(roots)

	groups := make([][]int, 0, len(roots))
	for _, r := range roots {
		members := byRoot[r]
		sort.Ints(members)
		groups = append(groups, members)
	}
	return groups, indexOf
}

func sortedPartIDs(g *structure.Graph) []string {
	ids := make([]string, 0, len(g.Parts))
	for id := range g.Parts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func toSet(ids []string) map[string]bool {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}
