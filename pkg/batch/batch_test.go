package batch

import (
	"testing"

	"github.com/voxelforge/shapecorr/pkg/search"
)

func TestRunPairMissingSourceIsAnError(t *testing.T) {
	pair := Pair{I: 0, J: 1, SourceGraph: "/no/such/source.json", TargetGraph: "/no/such/target.json"}
	_, err := RunPair(pair, nil, search.DefaultOptions())
	if err == nil {
		t.Fatal("expected an error for a missing source graph file")
	}
}

func TestRunSkipsPairsWithMissingInput(t *testing.T) {
	pairs := []Pair{
		{I: 0, J: 1, SourceGraph: "/no/such/source.json", TargetGraph: "/no/such/target.json"},
	}
	got := Run(pairs, nil, search.DefaultOptions(), 2)
	if len(got) != 0 {
		t.Errorf("len(Run()) = %d, want 0 records for an all-missing-input batch", len(got))
	}
}
