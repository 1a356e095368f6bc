package opt

import (
	"math"
	"testing"
)

// minimizeQuadratic runs a rule on f(x) = sum(x_i^2) for n steps and
// returns the final parameters.
func minimizeQuadratic(rule Rule, start []float64, steps int) []float64 {
	params := append([]float64{}, start...)
	for i := 0; i < steps; i++ {
		grads := make([]float64, len(params))
		for j, v := range params {
			grads[j] = 2 * v
		}
		params = rule.Step(params, grads)
	}
	return params
}

func TestGradientDescentQuadratic(t *testing.T) {
	rule := NewGradientDescent(0.4)
	final := minimizeQuadratic(rule, []float64{5, -3}, 50)

	for i, v := range final {
		if math.Abs(v) > 1e-6 {
			t.Errorf("Parameter %d = %g, expected near 0", i, v)
		}
	}
}

func TestGradientDescentSingleStep(t *testing.T) {
	rule := NewGradientDescent(0.1)
	out := rule.Step([]float64{1.0}, []float64{2.0})

	if got, want := out[0], 0.8; math.Abs(got-want) > 1e-12 {
		t.Errorf("Step = %g, want %g", got, want)
	}
}

func TestStepDoesNotMutateInputs(t *testing.T) {
	rules := map[string]Rule{
		"gd":       NewGradientDescent(0.1),
		"momentum": NewMomentum(0.1, 0.9),
		"adam":     NewAdam(0.1),
		"adagrad":  NewAdaGrad(0.1),
	}

	for name, rule := range rules {
		params := []float64{1, 2, 3}
		grads := []float64{0.5, -0.5, 1}
		rule.Step(params, grads)

		if params[0] != 1 || params[1] != 2 || params[2] != 3 {
			t.Errorf("%s: Step mutated params: %v", name, params)
		}
		if grads[0] != 0.5 || grads[1] != -0.5 || grads[2] != 1 {
			t.Errorf("%s: Step mutated grads: %v", name, grads)
		}
	}
}

func TestMomentumQuadratic(t *testing.T) {
	rule := NewMomentum(0.05, 0.9)
	final := minimizeQuadratic(rule, []float64{4}, 200)

	if math.Abs(final[0]) > 1e-4 {
		t.Errorf("Momentum did not converge: %g", final[0])
	}
}

func TestAdamQuadratic(t *testing.T) {
	rule := NewAdam(0.5)
	final := minimizeQuadratic(rule, []float64{3, -2, 1}, 300)

	for i, v := range final {
		if math.Abs(v) > 1e-3 {
			t.Errorf("Parameter %d = %g, expected near 0", i, v)
		}
	}
}

func TestAdamFirstStepIsLearningRate(t *testing.T) {
	// With bias correction the very first Adam step has magnitude ~lr
	// regardless of gradient scale.
	rule := NewAdam(0.1)
	out := rule.Step([]float64{0}, []float64{1000})

	if math.Abs(out[0]+0.1) > 1e-6 {
		t.Errorf("First step = %g, want -0.1", out[0])
	}
}

func TestAdaGradStepsShrink(t *testing.T) {
	rule := NewAdaGrad(1.0)

	first := rule.Step([]float64{0}, []float64{1})
	second := rule.Step(first, []float64{1})

	step1 := math.Abs(first[0])
	step2 := math.Abs(second[0] - first[0])

	if step2 >= step1 {
		t.Errorf("AdaGrad steps should shrink: step1=%g step2=%g", step1, step2)
	}
}

func TestResetClearsState(t *testing.T) {
	rule := NewMomentum(0.1, 0.9)

	// Build up velocity, reset, and verify the next step matches a fresh rule.
	rule.Step([]float64{1}, []float64{1})
	rule.Step([]float64{1}, []float64{1})
	rule.Reset()

	got := rule.Step([]float64{1}, []float64{1})
	want := NewMomentum(0.1, 0.9).Step([]float64{1}, []float64{1})

	if got[0] != want[0] {
		t.Errorf("Reset did not clear state: got %g, want %g", got[0], want[0])
	}
}
