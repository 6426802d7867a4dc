// Package rules provides the landmark-and-tunable configuration DSL: a
// small Lisp script, evaluated in a sandboxed zygomys interpreter, that
// asserts pre-known part correspondences and overrides search tunables
// instead of a flat JSON blob.
package rules

import (
	"fmt"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/voxelforge/shapecorr/pkg/search"
)

// EvalError is a non-fatal problem found while evaluating a rules
// script: a parse error or a runtime error raised by user code.
type EvalError struct {
	Line    int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Config is the parsed result of a rules script: landmarks to seed the
// search's root, plus any tunable overrides the script set explicitly
// (nil means "use the caller's default").
type Config struct {
	Landmarks          []search.Landmark
	CandidateThreshold *float64
	CostThreshold      *float64
}

// Apply returns opt with any tunables this config overrode applied on
// top, leaving the rest of opt untouched.
func (c *Config) Apply(opt search.Options) search.Options {
	if c.CandidateThreshold != nil {
		opt.CandidateThreshold = *c.CandidateThreshold
	}
	if c.CostThreshold != nil {
		opt.CostThreshold = *c.CostThreshold
	}
	return opt
}

// Engine evaluates rules scripts. Safe for concurrent use; each call to
// Eval runs in a fresh sandbox, mirroring the CAD-DSL engine's
// isolation-per-call contract.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new rules Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Eval evaluates source and returns the Config it built, or a non-fatal
// EvalError slice if the script failed to parse or run. A third return
// of non-nil signals a fatal failure (timeout, panic) rather than a
// problem in the script itself.
func (e *Engine) Eval(source string) (*Config, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during rules evaluation: %v", r)}
			}
		}()
		cfg, errs, err := e.eval(source)
		ch <- evalResult{config: cfg, errors: errs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

func (e *Engine) eval(source string) (*Config, []EvalError, error) {
	if strings.TrimSpace(source) == "" {
		return &Config{}, nil, nil
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()

	cfg := &Config{}
	registerBuiltins(env, cfg)

	if err := env.LoadString(source); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return cfg, nil, nil
}
