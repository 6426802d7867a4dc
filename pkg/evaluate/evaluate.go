// Package evaluate implements the correspondence evaluator (C8):
// spoke-length distortion scoring of a structure graph relative to
// its initial sampling.
package evaluate

import (
	"math"
	"sort"

	"github.com/voxelforge/shapecorr/pkg/kernel"
	"github.com/voxelforge/shapecorr/pkg/structure"
	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

// DefaultResolution is the fixed spoke-sampling resolution r used by
// Prepare when called with a resolution <= 0, and by Evaluate for a
// part that carries no prior spoke set.
const DefaultResolution = 8

// AssignedNullPenalty is the fixed cost contribution of a part the
// search has collapsed to the null target (spec.md §4.8). It must be
// strictly positive so that null-assigning a part is never free, but
// bounded so a search with many null assignments still yields a
// finite, comparable cost (spec.md §8 property 5).
const AssignedNullPenalty = 1.0

// Prepare samples every part of g at resolution, establishing each
// spoke's reference length. Call once per shape at the start of a
// search (spec.md §4.8's "prepare(shapeA)").
func Prepare(g *structure.Graph, c kernel.Collaborator, resolution int) error {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	for _, id := range sortedPartIDs(g) {
		if err := c.SampleNode(g.Part(id), resolution); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate resamples every non-null part's spokes and returns the mean
// relative change in spoke length, averaged over parts, with
// assigned-null parts contributing AssignedNullPenalty instead
// (spec.md §4.8). The result is 0 for no structural distortion and
// grows without an upper bound as propagation distorts the shape
// further.
func Evaluate(g *structure.Graph, c kernel.Collaborator) (float64, error) {
	ids := sortedPartIDs(g)
	if len(ids) == 0 {
		return 0, nil
	}

	var total float64
	for _, id := range ids {
		p := g.Part(id)
		if p.IsAssignedNull() {
			total += AssignedNullPenalty
			continue
		}
		resolution := len(p.Spokes)
		if resolution == 0 {
			resolution = DefaultResolution
		}
		if err := c.SampleNode(p, resolution); err != nil {
			return 0, err
		}
		total += partDistortion(p)
	}
	return total / float64(len(ids)), nil
}

// partDistortion is the mean relative spoke-length change for one
// part, 0 if it has no spokes to compare (never sampled).
func partDistortion(p *structure.Part) float64 {
	if len(p.Spokes) == 0 {
		return 0
	}
	var sum float64
	for _, s := range p.Spokes {
		if s.RefLength < 1e-12 {
			continue // a reference length of ~0 carries no distortion signal
		}
		current := vecutil.Distance(s.Origin, s.Tip)
		sum += math.Abs(current-s.RefLength) / s.RefLength
	}
	return sum / float64(len(p.Spokes))
}

func sortedPartIDs(g *structure.Graph) []string {
	ids := make([]string, 0, len(g.Parts))
	for id := range g.Parts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
