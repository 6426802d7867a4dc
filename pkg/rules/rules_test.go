package rules

import (
	"testing"

	"github.com/voxelforge/shapecorr/pkg/search"
)

func TestEvalLandmarks(t *testing.T) {
	e := NewEngine()
	cfg, errs, err := e.Eval(`
(landmark "legA" "legB")
(landmark "seat" "seat")
`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected eval errors: %v", errs)
	}
	if len(cfg.Landmarks) != 2 {
		t.Fatalf("len(Landmarks) = %d, want 2", len(cfg.Landmarks))
	}
	if cfg.Landmarks[0].SourceID != "legA" || cfg.Landmarks[0].TargetID != "legB" {
		t.Errorf("Landmarks[0] = %+v, want legA->legB", cfg.Landmarks[0])
	}
}

func TestEvalTunables(t *testing.T) {
	e := NewEngine()
	cfg, errs, err := e.Eval(`
(tunable "candidate_threshold" 0.2)
(tunable "cost_threshold" 0.4)
`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected eval errors: %v", errs)
	}
	if cfg.CandidateThreshold == nil || *cfg.CandidateThreshold != 0.2 {
		t.Errorf("CandidateThreshold = %v, want 0.2", cfg.CandidateThreshold)
	}
	if cfg.CostThreshold == nil || *cfg.CostThreshold != 0.4 {
		t.Errorf("CostThreshold = %v, want 0.4", cfg.CostThreshold)
	}
}

func TestEvalUnknownTunableIsAnEvalError(t *testing.T) {
	e := NewEngine()
	_, errs, err := e.Eval(`(tunable "not_a_real_tunable" 1.0)`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if len(errs) == 0 {
		t.Fatal("expected an eval error for an unknown tunable name")
	}
}

func TestEvalEmptySourceYieldsEmptyConfig(t *testing.T) {
	e := NewEngine()
	cfg, errs, err := e.Eval("")
	if err != nil || len(errs) != 0 {
		t.Fatalf("Eval(\"\") = %v, %v, %v", cfg, errs, err)
	}
	if len(cfg.Landmarks) != 0 {
		t.Errorf("expected no landmarks from an empty script")
	}
}

func TestConfigApplyOverridesOnlySetTunables(t *testing.T) {
	cfg := &Config{}
	base := search.DefaultOptions()
	got := cfg.Apply(base)
	if got.CandidateThreshold != base.CandidateThreshold || got.CostThreshold != base.CostThreshold {
		t.Errorf("Apply() with no overrides changed the defaults: got %+v, want %+v", got, base)
	}

	ct := 0.1
	cfg.CandidateThreshold = &ct
	got = cfg.Apply(base)
	if got.CandidateThreshold != 0.1 {
		t.Errorf("CandidateThreshold = %v, want 0.1", got.CandidateThreshold)
	}
	if got.CostThreshold != base.CostThreshold {
		t.Errorf("CostThreshold should be unaffected by a CandidateThreshold-only override")
	}
}
