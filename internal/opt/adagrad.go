package opt

import "math"

// AdaGrad accumulates squared gradients and scales each step by their
// inverse square root, so frequently-updated parameters take smaller steps.
type AdaGrad struct {
	lr  float64
	eps float64
	g   []float64
}

// NewAdaGrad creates an AdaGrad rule with the given learning rate.
func NewAdaGrad(lr float64) *AdaGrad {
	return &AdaGrad{lr: lr, eps: 1e-8}
}

func (a *AdaGrad) Step(params, grads []float64) []float64 {
	if len(a.g) != len(params) {
		a.g = make([]float64, len(params))
	}

	out := make([]float64, len(params))
	for i := range params {
		g := grads[i]
		a.g[i] += g * g
		out[i] = params[i] - a.lr*g/(math.Sqrt(a.g[i])+a.eps)
	}
	return out
}

func (a *AdaGrad) Reset() {
	a.g = nil
}
