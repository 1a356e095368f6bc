// Package vqe implements the optimization driver: a bounded loop that
// evaluates a cost function, requests its gradient, applies an update rule,
// and stops on convergence or when the iteration budget runs out.
package vqe

import (
	"context"
	"fmt"
	"math"

	"github.com/qsolve/vqefit/internal/opt"
)

// CostFunc evaluates the scalar cost at a parameter vector. It is expected
// to be deterministic and side-effect free per call.
type CostFunc func(params []float64) (float64, error)

// GradFunc evaluates the gradient of the cost at a parameter vector.
type GradFunc func(params []float64) ([]float64, error)

// State is the terminal state of a run.
type State string

const (
	// StateConverged means successive costs settled within tolerance.
	StateConverged State = "converged"

	// StateBudgetExhausted means the iteration budget ran out first.
	// This is a normal outcome, not an error.
	StateBudgetExhausted State = "budget-exhausted"
)

// Progress describes the state of the run after one evaluation. Iteration 0
// is the initial evaluation. Params must not be retained across calls.
type Progress struct {
	Iteration int
	Cost      float64
	Params    []float64
	Delta     float64 // |cost - previous cost|; NaN at iteration 0
}

// Config holds the driver's run parameters.
type Config struct {
	// MaxIterations bounds the number of update steps. Zero is valid and
	// yields the initial evaluation only; negative values are rejected.
	MaxIterations int

	// Tolerance is the convergence threshold on |Δcost|. Must be
	// non-negative; +Inf converges on the first iteration.
	Tolerance float64

	// Patience is the number of consecutive sub-tolerance iterations
	// required to stop. Defaults to 1.
	Patience int

	// Observer, if set, is called after every cost evaluation. It is
	// reporting only and does not affect the computed results.
	Observer func(Progress)
}

func (c Config) validate() error {
	if c.MaxIterations < 0 {
		return fmt.Errorf("max iterations must be non-negative, got %d", c.MaxIterations)
	}
	if math.IsNaN(c.Tolerance) || c.Tolerance < 0 {
		return fmt.Errorf("tolerance must be non-negative, got %g", c.Tolerance)
	}
	return nil
}

// Result holds the output of a run. Histories are parallel-indexed:
// len(CostHistory) == len(ParamHistory) == Iterations + 1, where entry 0 is
// the initial evaluation.
type Result struct {
	Params       []float64
	Cost         float64
	CostHistory  []float64
	ParamHistory [][]float64
	Iterations   int
	State        State
}

// Run executes the optimization loop.
//
// It evaluates the cost at the initial parameters, then repeatedly computes
// the gradient, applies the update rule, and re-evaluates the cost, stopping
// when |latest - previous| <= Tolerance (for Patience consecutive
// iterations) or after MaxIterations steps. Any error from cost or grad
// aborts the run immediately; there is no retry. Context cancellation is
// checked between iterations.
func Run(ctx context.Context, initial []float64, cost CostFunc, grad GradFunc, rule opt.Rule, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(initial) == 0 {
		return nil, fmt.Errorf("initial parameters must not be empty")
	}
	if cost == nil || grad == nil || rule == nil {
		return nil, fmt.Errorf("cost, grad and rule must all be provided")
	}

	params := clone(initial)

	c0, err := cost(params)
	if err != nil {
		return nil, fmt.Errorf("initial cost evaluation: %w", err)
	}

	costHistory := []float64{c0}
	paramHistory := [][]float64{clone(params)}

	tracker := NewConvergenceTracker(ConvergenceConfig{
		Tolerance: cfg.Tolerance,
		Patience:  cfg.Patience,
	})
	tracker.Update(c0)

	observe(cfg, Progress{Iteration: 0, Cost: c0, Params: params, Delta: math.NaN()})

	state := StateBudgetExhausted
	for i := 0; i < cfg.MaxIterations; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		g, err := grad(params)
		if err != nil {
			return nil, fmt.Errorf("gradient evaluation at iteration %d: %w", i, err)
		}

		params = rule.Step(params, g)
		paramHistory = append(paramHistory, clone(params))

		c, err := cost(params)
		if err != nil {
			return nil, fmt.Errorf("cost evaluation at iteration %d: %w", i, err)
		}

		prev := costHistory[len(costHistory)-1]
		costHistory = append(costHistory, c)

		converged := tracker.Update(c)
		observe(cfg, Progress{Iteration: i + 1, Cost: c, Params: params, Delta: math.Abs(c - prev)})

		if converged {
			state = StateConverged
			break
		}
	}

	return &Result{
		Params:       clone(params),
		Cost:         costHistory[len(costHistory)-1],
		CostHistory:  costHistory,
		ParamHistory: paramHistory,
		Iterations:   len(costHistory) - 1,
		State:        state,
	}, nil
}

func observe(cfg Config, p Progress) {
	if cfg.Observer != nil {
		cfg.Observer(p)
	}
}

func clone(v []float64) []float64 {
	return append([]float64{}, v...)
}
