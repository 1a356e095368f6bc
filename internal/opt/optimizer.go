package opt

// Rule defines a gradient-based parameter update rule.
//
// Step takes the current parameters and the gradient of the cost at those
// parameters and returns the updated parameters. Implementations may keep
// internal state across calls (momentum, accumulators, timestep); callers
// treat that state as opaque. Step must not mutate its inputs.
type Rule interface {
	Step(params, grads []float64) []float64

	// Reset clears any internal state so the rule can drive a fresh run.
	Reset()
}

// GradientDescent applies the plain fixed-step update:
//
//	w[i] = w[i] - lr * g[i]
type GradientDescent struct {
	lr float64
}

// NewGradientDescent creates a gradient descent rule with the given step size.
func NewGradientDescent(lr float64) *GradientDescent {
	return &GradientDescent{lr: lr}
}

func (gd *GradientDescent) Step(params, grads []float64) []float64 {
	out := make([]float64, len(params))
	for i := range params {
		out[i] = params[i] - gd.lr*grads[i]
	}
	return out
}

func (gd *GradientDescent) Reset() {}

// Momentum applies gradient descent with classical momentum:
//
//	v[i] = mu * v[i] - lr * g[i]
//	w[i] = w[i] + v[i]
type Momentum struct {
	lr, mu   float64
	velocity []float64
}

// NewMomentum creates a momentum rule. A typical mu is 0.9.
func NewMomentum(lr, mu float64) *Momentum {
	return &Momentum{lr: lr, mu: mu}
}

func (m *Momentum) Step(params, grads []float64) []float64 {
	if len(m.velocity) != len(params) {
		m.velocity = make([]float64, len(params))
	}

	out := make([]float64, len(params))
	for i := range params {
		m.velocity[i] = m.mu*m.velocity[i] - m.lr*grads[i]
		out[i] = params[i] + m.velocity[i]
	}
	return out
}

func (m *Momentum) Reset() {
	m.velocity = nil
}
