package rules

import (
	"fmt"
	"sync"
	"time"
)

// EvalTimeout is the hard limit for evaluating one rules script.
const EvalTimeout = 5 * time.Second

type evalResult struct {
	config *Config
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result from ch, returning a timeout error
// if EvalTimeout passes first. A generation counter discards a result
// from an evaluation that has since been superseded (same contract as
// the CAD-DSL engine's own timeout wrapper).
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (*Config, []EvalError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()
		if gen != current {
			return nil, nil, fmt.Errorf("rules evaluation superseded by a newer request")
		}
		return res.config, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("rules evaluation timed out after %s", EvalTimeout)
	}
}
