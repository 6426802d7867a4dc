package search

import (
	"sort"

	"github.com/voxelforge/shapecorr/pkg/structure"
)

// Solutions converts every leaf of a search run into a Result, sorted
// by ascending cost so the caller's first entry is the cheapest.
func Solutions(leaves []*SearchPath) []Result {
	out := make([]Result, len(leaves))
	for i, leaf := range leaves {
		out[i] = Result{Mapping: leaf.Mapping, Cost: leaf.Cost}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Cost < out[j].Cost })
	return out
}

// Best returns the lowest-cost leaf's result, and false if leaves is
// empty.
func Best(leaves []*SearchPath) (Result, bool) {
	if len(leaves) == 0 {
		return Result{}, false
	}
	solutions := Solutions(leaves)
	return solutions[0], true
}

// CompressedMapping bijects a result's source/target ids through a
// shared compressor, for callers that want to store correspondences as
// integer pairs rather than strings.
func CompressedMapping(r Result, compressor *structure.Compressor) [][2]int {
	sourceIDs := make([]string, 0, len(r.Mapping))
	for src := range r.Mapping {
		sourceIDs = append(sourceIDs, src)
	}
	sort.Strings(sourceIDs)

	out := make([][2]int, 0, len(sourceIDs))
	for _, src := range sourceIDs {
		tgt := r.Mapping[src]
		if tgt == "" {
			continue
		}
		out = append(out, [2]int{compressor.Compress(src), compressor.Compress(tgt)})
	}
	return out
}
