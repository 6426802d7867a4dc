package structure

import "github.com/voxelforge/shapecorr/pkg/vecutil"

// NewTestChair builds a small synthetic structure graph with a seat
// (sheet), a back (sheet), and two legs (curves), used by the search
// driver's end-to-end tests (spec.md §8, E1/E2).
func NewTestChair() *Graph {
	g := New()

	seat := NewSheet("seat", [][]vecutil.Vec{
		{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}},
		{{X: 0, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0}},
	})
	back := NewSheet("back", [][]vecutil.Vec{
		{{X: 0, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0}},
		{{X: 0, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}},
	})
	leg1 := NewCurve("leg1", []vecutil.Vec{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: -1}})
	leg2 := NewCurve("leg2", []vecutil.Vec{{X: 1, Y: 0, Z: 0}, {X: 1, Y: 0, Z: -1}})

	g.AddPart(seat)
	g.AddPart(back)
	g.AddPart(leg1)
	g.AddPart(leg2)

	g.AddEdge("seat", "back", Coord{0, 1, 0, 0}, Coord{0, 0, 0, 0})
	g.AddEdge("seat", "leg1", Coord{0, 0, 0, 0}, Coord{0, 0, 0, 0})
	g.AddEdge("seat", "leg2", Coord{1, 0, 0, 0}, Coord{0, 0, 0, 0})

	g.Relations = append(g.Relations, &Relation{
		ID: "legs", Kind: RelationReflection, Parts: []string{"leg1", "leg2"}, Representative: "leg1",
	})

	for _, p := range g.Parts {
		sampleSpokes(p)
	}
	return g
}

// sampleSpokes fills a part's spoke set with one spoke per control
// point, pointing outward from the centroid, storing the current
// length as the reference length (a simplified stand-in for the real
// medial-axis sampler, which belongs to the geometric collaborator).
func sampleSpokes(p *Part) {
	pts := p.ControlPoints()
	if len(pts) == 0 {
		return
	}
	c := vecutil.Centroid(pts)
	spokes := make([]Spoke, len(pts))
	for i, pt := range pts {
		spokes[i] = Spoke{Origin: c, Tip: pt, RefLength: vecutil.Distance(c, pt)}
	}
	p.Spokes = spokes
}

// NewIdenticalPair returns two independent clones of a fixture graph
// and the identity landmark mapping between their parts, the setup for
// an identity search (spec.md §8, E1/E3 property).
func NewIdenticalPair(g *Graph) (a, b *Graph, identity map[string]string) {
	a = g.Clone()
	b = g.Clone()
	identity = make(map[string]string, len(g.Parts))
	for id := range g.Parts {
		identity[id] = id
	}
	return a, b, identity
}
