package quantum

import (
	"fmt"
	"math"
)

// EnergyFunc returns a cost function computing <psi(theta)|H|psi(theta)>.
// The returned closure is deterministic and side-effect free.
func EnergyFunc(h *Hamiltonian, a Ansatz) func([]float64) (float64, error) {
	return func(theta []float64) (float64, error) {
		s, err := a.Prepare(theta)
		if err != nil {
			return 0, fmt.Errorf("prepare trial state: %w", err)
		}
		e, err := h.Expectation(s)
		if err != nil {
			return 0, fmt.Errorf("evaluate expectation: %w", err)
		}
		return e, nil
	}
}

// ParameterShiftGradient returns a gradient function using the two-term
// parameter-shift rule:
//
//	dE/dθ_i = (E(θ + π/2·e_i) - E(θ - π/2·e_i)) / 2
//
// Exact for RY and double-excitation gates, whose expectation values are
// first-harmonic functions of each parameter.
func ParameterShiftGradient(h *Hamiltonian, a Ansatz) func([]float64) ([]float64, error) {
	energy := EnergyFunc(h, a)

	return func(theta []float64) ([]float64, error) {
		grads := make([]float64, len(theta))
		shifted := append([]float64{}, theta...)

		for i := range theta {
			shifted[i] = theta[i] + math.Pi/2
			plus, err := energy(shifted)
			if err != nil {
				return nil, err
			}

			shifted[i] = theta[i] - math.Pi/2
			minus, err := energy(shifted)
			if err != nil {
				return nil, err
			}

			shifted[i] = theta[i]
			grads[i] = (plus - minus) / 2
		}
		return grads, nil
	}
}

// FiniteDifferenceGradient returns a central-difference gradient function
// with step eps. A fallback for gates without a known shift rule.
func FiniteDifferenceGradient(h *Hamiltonian, a Ansatz, eps float64) func([]float64) ([]float64, error) {
	energy := EnergyFunc(h, a)

	return func(theta []float64) ([]float64, error) {
		grads := make([]float64, len(theta))
		shifted := append([]float64{}, theta...)

		for i := range theta {
			shifted[i] = theta[i] + eps
			plus, err := energy(shifted)
			if err != nil {
				return nil, err
			}

			shifted[i] = theta[i] - eps
			minus, err := energy(shifted)
			if err != nil {
				return nil, err
			}

			shifted[i] = theta[i]
			grads[i] = (plus - minus) / (2 * eps)
		}
		return grads, nil
	}
}
