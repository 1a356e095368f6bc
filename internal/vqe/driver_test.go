package vqe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/qsolve/vqefit/internal/opt"
)

// quadratic returns cost/grad funcs for f(x) = sum(x_i^2).
func quadratic() (CostFunc, GradFunc) {
	cost := func(p []float64) (float64, error) {
		var sum float64
		for _, v := range p {
			sum += v * v
		}
		return sum, nil
	}
	grad := func(p []float64) ([]float64, error) {
		g := make([]float64, len(p))
		for i, v := range p {
			g[i] = 2 * v
		}
		return g, nil
	}
	return cost, grad
}

func TestRunQuadraticConverges(t *testing.T) {
	cost, grad := quadratic()

	res, err := Run(context.Background(), []float64{2.0}, cost, grad,
		opt.NewGradientDescent(0.4),
		Config{MaxIterations: 100, Tolerance: 1e-6})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.State != StateConverged {
		t.Errorf("State = %s, want converged", res.State)
	}
	if res.Iterations >= 100 {
		t.Errorf("Expected early convergence, ran %d iterations", res.Iterations)
	}
	if math.Abs(res.Params[0]) > 1e-2 {
		t.Errorf("Final parameter = %g, expected near 0", res.Params[0])
	}

	// Cost history strictly decreases until it stabilizes.
	for i := 1; i < len(res.CostHistory); i++ {
		if res.CostHistory[i] > res.CostHistory[i-1] {
			t.Errorf("Cost increased at iteration %d: %g -> %g",
				i, res.CostHistory[i-1], res.CostHistory[i])
		}
	}
}

func TestRunFromMinimumStopsImmediately(t *testing.T) {
	// Starting at the minimum the first step changes nothing, so the run
	// converges after a single iteration.
	cost, grad := quadratic()

	res, err := Run(context.Background(), []float64{0.0}, cost, grad,
		opt.NewGradientDescent(0.4),
		Config{MaxIterations: 100, Tolerance: 1e-6})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.State != StateConverged {
		t.Errorf("State = %s, want converged", res.State)
	}
	if res.Iterations != 1 {
		t.Errorf("Iterations = %d, want 1", res.Iterations)
	}
}

func TestHistoryLengthInvariant(t *testing.T) {
	cost, grad := quadratic()

	for _, maxIter := range []int{0, 1, 5, 50} {
		res, err := Run(context.Background(), []float64{3, -1}, cost, grad,
			opt.NewGradientDescent(0.1),
			Config{MaxIterations: maxIter, Tolerance: 0})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if len(res.CostHistory) != res.Iterations+1 {
			t.Errorf("maxIter=%d: len(CostHistory)=%d, Iterations=%d",
				maxIter, len(res.CostHistory), res.Iterations)
		}
		if len(res.ParamHistory) != res.Iterations+1 {
			t.Errorf("maxIter=%d: len(ParamHistory)=%d, Iterations=%d",
				maxIter, len(res.ParamHistory), res.Iterations)
		}
	}
}

func TestInfiniteToleranceStopsAfterOneIteration(t *testing.T) {
	cost, grad := quadratic()

	res, err := Run(context.Background(), []float64{5}, cost, grad,
		opt.NewGradientDescent(0.1),
		Config{MaxIterations: 100, Tolerance: math.Inf(1)})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.Iterations != 1 {
		t.Errorf("Iterations = %d, want 1", res.Iterations)
	}
	if res.State != StateConverged {
		t.Errorf("State = %s, want converged", res.State)
	}
}

func TestZeroToleranceExhaustsBudget(t *testing.T) {
	// Strictly improving steps never satisfy |delta| <= 0.
	cost, grad := quadratic()

	res, err := Run(context.Background(), []float64{1}, cost, grad,
		opt.NewGradientDescent(0.1),
		Config{MaxIterations: 25, Tolerance: 0})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.Iterations != 25 {
		t.Errorf("Iterations = %d, want 25", res.Iterations)
	}
	if res.State != StateBudgetExhausted {
		t.Errorf("State = %s, want budget-exhausted", res.State)
	}
}

func TestZeroMaxIterations(t *testing.T) {
	cost, grad := quadratic()

	res, err := Run(context.Background(), []float64{2}, cost, grad,
		opt.NewGradientDescent(0.1),
		Config{MaxIterations: 0, Tolerance: 1e-6})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.Iterations != 0 {
		t.Errorf("Iterations = %d, want 0", res.Iterations)
	}
	if len(res.CostHistory) != 1 {
		t.Errorf("Expected only the initial evaluation, got %d", len(res.CostHistory))
	}
	if res.Cost != 4 {
		t.Errorf("Cost = %g, want 4", res.Cost)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	cost, grad := quadratic()
	cfg := Config{MaxIterations: 40, Tolerance: 1e-9}

	res1, err := Run(context.Background(), []float64{1.5, -2.5}, cost, grad, opt.NewAdam(0.1), cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	res2, err := Run(context.Background(), []float64{1.5, -2.5}, cost, grad, opt.NewAdam(0.1), cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res1.CostHistory) != len(res2.CostHistory) {
		t.Fatalf("History lengths differ: %d vs %d", len(res1.CostHistory), len(res2.CostHistory))
	}
	for i := range res1.CostHistory {
		if res1.CostHistory[i] != res2.CostHistory[i] {
			t.Errorf("Cost history diverges at %d: %g vs %g",
				i, res1.CostHistory[i], res2.CostHistory[i])
		}
	}
	for i := range res1.ParamHistory {
		for j := range res1.ParamHistory[i] {
			if res1.ParamHistory[i][j] != res2.ParamHistory[i][j] {
				t.Errorf("Param history diverges at %d[%d]", i, j)
			}
		}
	}
}

func TestInvalidConfig(t *testing.T) {
	cost, grad := quadratic()
	rule := opt.NewGradientDescent(0.1)

	cases := []struct {
		name string
		cfg  Config
	}{
		{"negative max iterations", Config{MaxIterations: -1, Tolerance: 1e-6}},
		{"negative tolerance", Config{MaxIterations: 10, Tolerance: -0.5}},
		{"nan tolerance", Config{MaxIterations: 10, Tolerance: math.NaN()}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Run(context.Background(), []float64{1}, cost, grad, rule, tc.cfg); err == nil {
				t.Error("Expected configuration error")
			}
		})
	}
}

func TestEmptyInitialParameters(t *testing.T) {
	cost, grad := quadratic()
	_, err := Run(context.Background(), nil, cost, grad,
		opt.NewGradientDescent(0.1), Config{MaxIterations: 10})
	if err == nil {
		t.Error("Expected error for empty initial parameters")
	}
}

func TestCostErrorAborts(t *testing.T) {
	boom := errors.New("diverged")
	calls := 0
	cost := func(p []float64) (float64, error) {
		calls++
		if calls > 2 {
			return 0, boom
		}
		return p[0] * p[0], nil
	}
	_, grad := quadratic()

	_, err := Run(context.Background(), []float64{1}, cost, grad,
		opt.NewGradientDescent(0.1), Config{MaxIterations: 10, Tolerance: 0})
	if !errors.Is(err, boom) {
		t.Errorf("Expected wrapped evaluation error, got %v", err)
	}
}

func TestGradientErrorAborts(t *testing.T) {
	cost, _ := quadratic()
	grad := func(p []float64) ([]float64, error) {
		return nil, fmt.Errorf("gradient blew up")
	}

	_, err := Run(context.Background(), []float64{1}, cost, grad,
		opt.NewGradientDescent(0.1), Config{MaxIterations: 10, Tolerance: 0})
	if err == nil {
		t.Error("Expected gradient evaluation error")
	}
}

func TestContextCancellation(t *testing.T) {
	cost, grad := quadratic()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, []float64{1}, cost, grad,
		opt.NewGradientDescent(0.1), Config{MaxIterations: 10, Tolerance: 0})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestObserverSeesEveryEvaluation(t *testing.T) {
	cost, grad := quadratic()

	var seen []Progress
	cfg := Config{
		MaxIterations: 5,
		Tolerance:     0,
		Observer: func(p Progress) {
			seen = append(seen, p)
		},
	}

	res, err := Run(context.Background(), []float64{2}, cost, grad,
		opt.NewGradientDescent(0.1), cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(seen) != res.Iterations+1 {
		t.Fatalf("Observer called %d times, want %d", len(seen), res.Iterations+1)
	}
	if seen[0].Iteration != 0 || !math.IsNaN(seen[0].Delta) {
		t.Errorf("First observation should be iteration 0 with NaN delta, got %+v", seen[0])
	}
	for i, p := range seen {
		if p.Iteration != i {
			t.Errorf("Observation %d has iteration %d", i, p.Iteration)
		}
		if p.Cost != res.CostHistory[i] {
			t.Errorf("Observation %d cost %g != history %g", i, p.Cost, res.CostHistory[i])
		}
	}
}

func TestPatienceDelaysConvergence(t *testing.T) {
	// A flat cost function satisfies the tolerance every iteration;
	// patience controls how many such iterations are required.
	cost := func(p []float64) (float64, error) { return 1.0, nil }
	grad := func(p []float64) ([]float64, error) { return []float64{0}, nil }

	res, err := Run(context.Background(), []float64{0}, cost, grad,
		opt.NewGradientDescent(0.1),
		Config{MaxIterations: 10, Tolerance: 1e-6, Patience: 3})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.Iterations != 3 {
		t.Errorf("Iterations = %d, want 3 with patience 3", res.Iterations)
	}
	if res.State != StateConverged {
		t.Errorf("State = %s, want converged", res.State)
	}
}
