// Package batch drives the correspondence search over an ordered list
// of shape pairs, producing the "Correspondence result JSON" array
// format and following the propagation policy that per-pair failures
// are logged and skipped, never fatal to the run.
package batch

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/voxelforge/shapecorr/pkg/kernel/collab"
	"github.com/voxelforge/shapecorr/pkg/rules"
	"github.com/voxelforge/shapecorr/pkg/search"
	"github.com/voxelforge/shapecorr/pkg/structure"
)

// Pair names one ordered shape pair to correspond, and the labels file
// each side carries (used by an external evaluator, not by the search
// itself).
type Pair struct {
	I, J         int
	SourceGraph  string
	TargetGraph  string
	SourceLabels string
	TargetLabels string
}

// Record is one output row of the correspondence result array (spec.md
// §6). An empty Correspondence means the pair's compute crashed or
// produced no leaves; downstream consumers must skip it rather than
// treat it as an empty-but-valid mapping.
type Record struct {
	I              int         `json:"i"`
	J              int         `json:"j"`
	Source         string      `json:"source"`
	Target         string      `json:"target"`
	Cost           float64     `json:"cost"`
	Correspondence [][2]string `json:"correspondence"`
}

// Run evaluates every pair, up to workers at a time, and returns one
// Record per pair for which RunPair returned no error (a missing input
// or a search error is logged and the pair dropped, per the batch
// propagation policy). Record order
// matches the input pair order, not completion order.
func Run(pairs []Pair, cfg *rules.Config, opt search.Options, workers int) []Record {
	if workers <= 0 {
		workers = 1
	}
	if cfg != nil {
		opt = cfg.Apply(opt)
	}

	type indexed struct {
		idx int
		rec Record
		ok  bool
	}
	results := make([]indexed, len(pairs))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				rec, err := RunPair(pairs[idx], cfg, opt)
				if err != nil {
					log.Printf("batch: pair %d/%d (%s -> %s): %v",
						pairs[idx].I, pairs[idx].J, pairs[idx].SourceGraph, pairs[idx].TargetGraph, err)
					continue
				}
				results[idx] = indexed{idx: idx, rec: rec, ok: true}
			}
		}()
	}
	for idx := range pairs {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	out := make([]Record, 0, len(pairs))
	for _, r := range results {
		if r.ok {
			out = append(out, r.rec)
		}
	}
	return out
}

// RunPair loads one pair's structure-graph files, runs the search with
// cfg's landmarks (if any) layered on opt, and returns its best leaf as
// a Record. A missing graph file is a hard error for this pair (the
// caller logs and continues); a search that completes but finds no
// leaves returns a Record with an empty Correspondence rather than an
// error, per spec.md §7's "no solution" handling.
func RunPair(pair Pair, cfg *rules.Config, opt search.Options) (Record, error) {
	shapeA, _, err := structure.LoadGraphFile(pair.SourceGraph)
	if err != nil {
		return Record{}, fmt.Errorf("load source: %w", err)
	}
	shapeB, _, err := structure.LoadGraphFile(pair.TargetGraph)
	if err != nil {
		return Record{}, fmt.Errorf("load target: %w", err)
	}

	var landmarks []search.Landmark
	if cfg != nil {
		landmarks = cfg.Landmarks
	}

	c := collab.Collaborator{}
	leaves, err := search.Search(shapeA, shapeB, landmarks, c, opt)
	if err != nil {
		return Record{}, fmt.Errorf("search: %w", err)
	}

	rec := Record{I: pair.I, J: pair.J, Source: pair.SourceGraph, Target: pair.TargetGraph}
	best, ok := search.Best(leaves)
	if !ok {
		log.Printf("batch: pair %d/%d: search produced no leaves", pair.I, pair.J)
		return rec, nil
	}
	rec.Cost = best.Cost
	rec.Correspondence = sortedPairs(best.Mapping)
	return rec, nil
}

func sortedPairs(mapping map[string]string) [][2]string {
	sourceIDs := make([]string, 0, len(mapping))
	for src := range mapping {
		sourceIDs = append(sourceIDs, src)
	}
	sort.Strings(sourceIDs)

	out := make([][2]string, 0, len(sourceIDs))
	for _, src := range sourceIDs {
		if tgt := mapping[src]; tgt != "" {
			out = append(out, [2]string{src, tgt})
		}
	}
	return out
}
