package segmentation

import (
	"math"
	"sort"

	"github.com/voxelforge/shapecorr/pkg/dsu"
	"github.com/voxelforge/shapecorr/pkg/hull"
	"github.com/voxelforge/shapecorr/pkg/particle"
	"github.com/voxelforge/shapecorr/pkg/segment"
	"github.com/voxelforge/shapecorr/pkg/vecutil"
)

// particlesBySegment groups every particle id of mesh by its current
// segment tag.
func particlesBySegment(mesh *particle.Mesh) map[int][]particle.ID {
	out := make(map[int][]particle.ID)
	for _, p := range mesh.All() {
		out[p.Segment] = append(out[p.Segment], p.ID)
	}
	return out
}

// dominantAxis returns the principal (largest-eigenvalue) axis of a
// point cloud's covariance, used by the similarity merge test.
func dominantAxis(mesh *particle.Mesh, ids []particle.ID) vecutil.Vec {
	cov, _ := vecutil.Covariance(mesh.Positions(ids))
	_, vectors := vecutil.EigenSymmetric3(cov)
	return vectors[2]
}

// SimilarityMerge unions adjacent segments whose principal directions
// are nearly parallel (|cos θ| > cosThreshold, spec.md §4.3), relabeling
// particles in place. g is the segment graph built over mesh's current
// occupancy, independent of segment tags.
func SimilarityMerge(mesh *particle.Mesh, g *segment.Graph, cosThreshold float64) {
	bySeg := particlesBySegment(mesh)
	segIDs := sortedKeys(bySeg)
	index := make(map[int]int, len(segIDs))
	for i, s := range segIDs {
		index[s] = i
	}

	cg := segment.SegmentToComponents(g, func(id particle.ID) int { return mesh.Get(id).Segment })
	// SegmentToComponents' fresh component ids need not coincide with
	// segment tags: a plane cut in recursiveSplit can leave a segment
	// in several connected regions. compToSegment maps every component
	// back to its tag, so the unions below run on segment tags.
	compToSegment := make(map[int]int)
	for _, c := range cg.Components {
		compToSegment[c.ID] = c.Segment
	}

	d := dsu.New(len(segIDs))
	for _, n := range cg.Neighbors {
		sa, sb := compToSegment[n.ComponentA], compToSegment[n.ComponentB]
		ia, ib := index[sa], index[sb]
		axisA := dominantAxis(mesh, bySeg[sa])
		axisB := dominantAxis(mesh, bySeg[sb])
		cos := math.Abs(vecutil.Dot(axisA, axisB))
		if cos > cosThreshold {
			d.Union(ia, ib)
		}
	}

	relabelByGroups(mesh, segIDs, d)
}

func sortedKeys(m map[int][]particle.ID) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func relabelByGroups(mesh *particle.Mesh, segIDs []int, d *dsu.DSU) {
	groups := d.Groups()
	newTag := make(map[int]int, len(segIDs))
	next := 0
	for _, members := range groups {
		tag := next
		next++
		for _, m := range members {
			newTag[segIDs[m]] = tag
		}
	}
	for _, p := range mesh.All() {
		mesh.SetSegment(p.ID, newTag[p.Segment])
	}
}

// SolidityMerge repeatedly merges the adjacent segment pair with the
// highest resulting solidity, as long as that solidity is at least
// solidityThreshold and the pair's descriptor similarity is at least
// descriptorThreshold (spec.md §4.3). It mutates mesh's segment tags
// in place and stops when no merge fires.
func SolidityMerge(mesh *particle.Mesh, g *segment.Graph, voxelSize, solidityThreshold, descriptorThreshold float64) {
	for {
		if !solidityMergeOnePass(mesh, g, voxelSize, solidityThreshold, descriptorThreshold) {
			return
		}
	}
}

func solidityMergeOnePass(mesh *particle.Mesh, g *segment.Graph, voxelSize, solidityThreshold, descriptorThreshold float64) bool {
	bySeg := particlesBySegment(mesh)
	segIDs := sortedKeys(bySeg)
	sort.Slice(segIDs, func(i, j int) bool { return len(bySeg[segIDs[i]]) < len(bySeg[segIDs[j]]) })

	cg := segment.SegmentToComponents(g, func(id particle.ID) int { return mesh.Get(id).Segment })
	compToSegment := make(map[int]int)
	for _, c := range cg.Components {
		compToSegment[c.ID] = c.Segment
	}

	type candidate struct {
		segA, segB int
		solidity   float64
		descriptor float64
	}
	var best *candidate

	for _, n := range cg.Neighbors {
		sa, sb := compToSegment[n.ComponentA], compToSegment[n.ComponentB]
		if sa == sb {
			continue
		}
		combined := append(append([]particle.ID{}, bySeg[sa]...), bySeg[sb]...)
		h := hull.New(mesh.Positions(combined))
		h.PointCount = len(combined)
		solidity := h.Solidity(voxelSize)
		if solidity < solidityThreshold {
			continue
		}
		descriptor := descriptorSimilarity(mesh, bySeg[sa], bySeg[sb], h)
		if descriptor < descriptorThreshold {
			continue
		}
		if best == nil || solidity > best.solidity {
			best = &candidate{segA: sa, segB: sb, solidity: solidity, descriptor: descriptor}
		}
	}

	if best == nil {
		return false
	}
	for _, id := range bySeg[best.segB] {
		mesh.SetSegment(id, best.segA)
	}
	return true
}

// descriptorSimilarity compares a local flatness descriptor evaluated,
// for each segment, at its particle nearest the combined hull's center,
// as 1 - |flat(a) - flat(b)| (spec.md §4.3).
func descriptorSimilarity(mesh *particle.Mesh, a, b []particle.ID, combined *hull.Hull) float64 {
	flatAt := func(ids []particle.ID) float64 {
		nearest := nearestParticle(mesh, ids, combined.Center)
		return flatness(mesh, ids, nearest)
	}
	fa, fb := flatAt(a), flatAt(b)
	return 1 - math.Abs(fa-fb)
}

func nearestParticle(mesh *particle.Mesh, ids []particle.ID, target vecutil.Vec) particle.ID {
	best := ids[0]
	bestD := math.Inf(1)
	for _, id := range ids {
		d := vecutil.LengthSq(vecutil.Sub(mesh.Get(id).Position, target))
		if d < bestD {
			best, bestD = id, d
		}
	}
	return best
}

// flatness estimates local planarity around a particle using the ratio
// of its neighborhood's smallest eigenvalue to the sum of eigenvalues:
// 0 for a perfectly flat patch, up to 1/3 for an isotropic blob.
func flatness(mesh *particle.Mesh, ids []particle.ID, center particle.ID) float64 {
	centerPos := mesh.Get(center).Position
	var neighborhood []vecutil.Vec
	for _, id := range ids {
		if vecutil.Distance(mesh.Get(id).Position, centerPos) <= 2*mesh.Grid.U {
			neighborhood = append(neighborhood, mesh.Get(id).Position)
		}
	}
	if len(neighborhood) < 3 {
		return 0
	}
	cov, _ := vecutil.Covariance(neighborhood)
	values, _ := vecutil.EigenSymmetric3(cov)
	sum := values[0] + values[1] + values[2]
	if sum <= 0 {
		return 0
	}
	return values[0] / sum
}
