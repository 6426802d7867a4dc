package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/voxelforge/shapecorr/pkg/search"
)

// registerBuiltins installs the rules DSL's two forms into a sandbox:
//
//	(landmark "sourcePartID" "targetPartID")
//	(tunable "candidate_threshold" 0.3)
func registerBuiltins(env *zygo.Zlisp, cfg *Config) {
	env.AddFunction("landmark", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("landmark: want 2 arguments (source, target), got %d", len(args))
		}
		src, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("landmark: source: %w", err)
		}
		tgt, err := toString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("landmark: target: %w", err)
		}
		cfg.Landmarks = append(cfg.Landmarks, search.Landmark{SourceID: src, TargetID: tgt})
		return zygo.SexpNull, nil
	})

	env.AddFunction("tunable", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("tunable: want 2 arguments (name, value), got %d", len(args))
		}
		key, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tunable: name: %w", err)
		}
		value, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tunable: value: %w", err)
		}
		switch key {
		case "candidate_threshold":
			cfg.CandidateThreshold = &value
		case "cost_threshold":
			cfg.CostThreshold = &value
		default:
			return zygo.SexpNull, fmt.Errorf("tunable: unknown tunable %q", key)
		}
		return zygo.SexpNull, nil
	})
}

func toString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
	}
	return str.S, nil
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys parse/run error into EvalErrors,
// extracting a line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
