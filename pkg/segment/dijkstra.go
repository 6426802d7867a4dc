package segment

import (
	"container/heap"

	"github.com/voxelforge/shapecorr/pkg/particle"
)

// pqItem is one entry of the Dijkstra min-priority queue, ordered by
// cumulative distance and, on ties, by insertion order so results are
// reproducible across runs.
type pqItem struct {
	id       particle.ID
	dist     float64
	inserted int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].inserted < pq[j].inserted
}
func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x any)   { *pq = append(*pq, x.(*pqItem)) }
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// Paths is the result of a Dijkstra run: shortest distance and
// predecessor for every reached vertex.
type Paths struct {
	Dist map[particle.ID]float64
	Prev map[particle.ID]particle.ID
}

// DijkstraComputePaths runs single-source Dijkstra from source.
func DijkstraComputePaths(g *Graph, source particle.ID) *Paths {
	return DijkstraComputePathsMany(g, []particle.ID{source})
}

// DijkstraComputePathsMany runs Dijkstra initialized with every id in
// sources at distance 0 simultaneously, producing a multi-source
// shortest-path forest that grows regions from several seeds at once.
func DijkstraComputePathsMany(g *Graph, sources []particle.ID) *Paths {
	dist := make(map[particle.ID]float64)
	prev := make(map[particle.ID]particle.ID)
	visited := make(map[particle.ID]bool)

	pq := &priorityQueue{}
	heap.Init(pq)
	inserted := 0
	push := func(id particle.ID, d float64) {
		heap.Push(pq, &pqItem{id: id, dist: d, inserted: inserted})
		inserted++
	}

	for _, s := range sources {
		dist[s] = 0
		push(s, 0)
	}

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*pqItem)
		if visited[item.id] {
			continue
		}
		visited[item.id] = true

		for _, e := range g.Neighbors(item.id) {
			n := e.Other(item.id)
			if visited[n] {
				continue
			}
			nd := item.dist + e.Weight
			if cur, ok := dist[n]; !ok || nd < cur {
				dist[n] = nd
				prev[n] = item.id
				push(n, nd)
			}
		}
	}

	return &Paths{Dist: dist, Prev: prev}
}

// PathTo reconstructs the shortest path from any source to target,
// following Prev back to a vertex with no predecessor recorded (a
// source). Returns nil if target was never reached.
func (p *Paths) PathTo(target particle.ID) []particle.ID {
	if _, ok := p.Dist[target]; !ok {
		return nil
	}
	var path []particle.ID
	cur := target
	for {
		path = append(path, cur)
		prev, ok := p.Prev[cur]
		if !ok {
			break
		}
		cur = prev
	}
	// Reverse in place.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
