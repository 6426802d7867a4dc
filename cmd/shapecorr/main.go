// Command shapecorr drives the shape-correspondence search over a
// manifest of shape pairs and writes the resulting correspondence
// records as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/voxelforge/shapecorr/pkg/batch"
	"github.com/voxelforge/shapecorr/pkg/rules"
	"github.com/voxelforge/shapecorr/pkg/search"
)

// manifestPair is the on-disk shape of one entry in the -manifest file.
type manifestPair struct {
	I            int    `json:"i"`
	J            int    `json:"j"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceLabels string `json:"sourceLabels"`
	TargetLabels string `json:"targetLabels"`
}

func main() {
	manifestPath := flag.String("manifest", "", "path to a JSON array of {i,j,source,target} shape pairs (required)")
	outPath := flag.String("out", "", "path to write the correspondence result JSON array to (required)")
	rulesPath := flag.String("rules", "", "optional path to a landmark/tunable rules script")
	workers := flag.Int("workers", 4, "number of shape pairs to process concurrently")
	resolution := flag.Int("resolution", 0, "spoke-sampling resolution (0 keeps the default)")
	candidateThreshold := flag.Float64("candidate-threshold", -1, "override the candidate-pairing distance threshold (-1 keeps the default)")
	costThreshold := flag.Float64("cost-threshold", -1, "override the trial-acceptance cost threshold (-1 keeps the default)")
	flag.Parse()

	if *manifestPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: shapecorr -manifest pairs.json -out results.json [flags]")
		flag.PrintDefaults()
		log.Fatalf("shapecorr: -manifest and -out are required")
	}

	pairs, err := loadManifest(*manifestPath)
	if err != nil {
		log.Fatalf("shapecorr: %v", err)
	}

	opt := search.DefaultOptions()
	if *resolution > 0 {
		opt.Resolution = *resolution
	}
	if *candidateThreshold >= 0 {
		opt.CandidateThreshold = *candidateThreshold
	}
	if *costThreshold >= 0 {
		opt.CostThreshold = *costThreshold
	}

	var cfg *rules.Config
	if *rulesPath != "" {
		cfg, err = loadRules(*rulesPath)
		if err != nil {
			log.Fatalf("shapecorr: %v", err)
		}
	}

	records := batch.Run(pairs, cfg, opt, *workers)
	log.Printf("shapecorr: %d/%d pairs produced a result", len(records), len(pairs))

	if err := writeRecords(*outPath, records); err != nil {
		log.Fatalf("shapecorr: %v", err)
	}
}

func loadManifest(path string) ([]batch.Pair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var entries []manifestPair
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	pairs := make([]batch.Pair, len(entries))
	for i, e := range entries {
		pairs[i] = batch.Pair{
			I: e.I, J: e.J,
			SourceGraph:  e.Source,
			TargetGraph:  e.Target,
			SourceLabels: e.SourceLabels,
			TargetLabels: e.TargetLabels,
		}
	}
	return pairs, nil
}

func loadRules(path string) (*rules.Config, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	cfg, evalErrs, err := rules.NewEngine().Eval(string(source))
	if err != nil {
		return nil, fmt.Errorf("evaluate rules %s: %w", path, err)
	}
	if len(evalErrs) > 0 {
		return nil, fmt.Errorf("rules %s: %v", path, evalErrs[0])
	}
	return cfg, nil
}

func writeRecords(path string, records []batch.Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
