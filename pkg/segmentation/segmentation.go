package segmentation

import (
	"github.com/voxelforge/shapecorr/pkg/particle"
	"github.com/voxelforge/shapecorr/pkg/segment"
)

// Options configures Run. Run uses every field as given, zero included;
// DefaultOptions fills in the values given in spec.md §4.3.
type Options struct {
	GridSize              int
	VoxelSize             float64
	MinComponentSize      int
	SimilarityCosThreshold float64
	SolidityThreshold      float64
	DescriptorThreshold    float64
}

// DefaultOptions fills in every threshold named in spec.md §4.3 for a
// grid of the given size and unit length.
func DefaultOptions(gridSize int, voxelSize float64) Options {
	return Options{
		GridSize:               gridSize,
		VoxelSize:              voxelSize,
		MinComponentSize:       maxInt(1, gridSize/4),
		SimilarityCosThreshold: 0.92,
		SolidityThreshold:      0.6,
		DescriptorThreshold:    0.4,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Run executes the full segmentation engine (C3) over mesh: recursive
// plane-cut splitting, similarity merging, solidity merging, and
// small-segment reassignment, leaving every particle's Segment field
// set on return.
func Run(mesh *particle.Mesh, opt Options) {
	all := make([]particle.ID, mesh.Len())
	for i, p := range mesh.All() {
		all[i] = p.ID
	}

	next := 0
	nextSegment := func() int {
		s := next
		next++
		return s
	}
	recursiveSplit(mesh, all, opt.MinComponentSize, nextSegment)

	g := segment.ToGraph(mesh, segment.WeightDistance, nil)
	SimilarityMerge(mesh, g, opt.SimilarityCosThreshold)
	SolidityMerge(mesh, g, opt.VoxelSize, opt.SolidityThreshold, opt.DescriptorThreshold)
	ReassignSmallSegments(mesh, opt.GridSize)
}

// SegmentCount returns the number of distinct segment tags currently
// present on mesh's particles.
func SegmentCount(mesh *particle.Mesh) int {
	seen := make(map[int]bool)
	for _, p := range mesh.All() {
		seen[p.Segment] = true
	}
	return len(seen)
}
