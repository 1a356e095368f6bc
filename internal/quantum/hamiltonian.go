package quantum

import (
	"fmt"
	"math/cmplx"
	"strings"
)

// Pauli identifies a single-qubit Pauli operator.
type Pauli int

const (
	PauliI Pauli = iota
	PauliX
	PauliY
	PauliZ
)

func (p Pauli) String() string {
	switch p {
	case PauliI:
		return "I"
	case PauliX:
		return "X"
	case PauliY:
		return "Y"
	case PauliZ:
		return "Z"
	}
	return "?"
}

// Op is a Pauli operator acting on one wire.
type Op struct {
	Wire int   `json:"wire"`
	P    Pauli `json:"pauli"`
}

// Term is a weighted Pauli string. An empty Ops slice is the identity term.
type Term struct {
	Coeff float64 `json:"coeff"`
	Ops   []Op    `json:"ops,omitempty"`
}

// String renders a term like "0.1712 * Z0 Z1".
func (t Term) String() string {
	if len(t.Ops) == 0 {
		return fmt.Sprintf("%+.4f * I", t.Coeff)
	}
	parts := make([]string, len(t.Ops))
	for i, op := range t.Ops {
		parts[i] = fmt.Sprintf("%s%d", op.P, op.Wire)
	}
	return fmt.Sprintf("%+.4f * %s", t.Coeff, strings.Join(parts, " "))
}

// Hamiltonian is a real-weighted sum of Pauli strings on a fixed number
// of qubits.
type Hamiltonian struct {
	NumQubits int    `json:"numQubits"`
	Terms     []Term `json:"terms"`
}

// Validate checks wire indices and Pauli types of every term.
func (h *Hamiltonian) Validate() error {
	if h.NumQubits <= 0 {
		return fmt.Errorf("numQubits must be positive, got %d", h.NumQubits)
	}
	for i, term := range h.Terms {
		for _, op := range term.Ops {
			if op.Wire < 0 || op.Wire >= h.NumQubits {
				return fmt.Errorf("term %d: wire %d out of range for %d qubits", i, op.Wire, h.NumQubits)
			}
			if op.P < PauliI || op.P > PauliZ {
				return fmt.Errorf("term %d: invalid Pauli %d", i, op.P)
			}
		}
	}
	return nil
}

// Expectation computes <psi|H|psi> for the given state.
func (h *Hamiltonian) Expectation(s *State) (float64, error) {
	if s.NumQubits() != h.NumQubits {
		return 0, fmt.Errorf("state has %d qubits, hamiltonian has %d", s.NumQubits(), h.NumQubits)
	}

	var total float64
	for _, term := range h.Terms {
		ev, err := termExpectation(s, term)
		if err != nil {
			return 0, err
		}
		total += term.Coeff * ev
	}
	return total, nil
}

// termExpectation computes <psi|P|psi> for a single Pauli string.
//
// The string maps each basis state |z> to phase*|z'> where z' flips the
// X and Y wires. The expectation is the overlap of psi with that image.
func termExpectation(s *State, term Term) (float64, error) {
	var flipMask int
	type yz struct {
		mask  int
		pauli Pauli
	}
	var phaseOps []yz

	for _, op := range term.Ops {
		if op.Wire < 0 || op.Wire >= s.numQubits {
			return 0, fmt.Errorf("wire %d out of range for %d qubits", op.Wire, s.numQubits)
		}
		m := s.mask(op.Wire)
		switch op.P {
		case PauliI:
		case PauliX:
			flipMask |= m
		case PauliY:
			flipMask |= m
			phaseOps = append(phaseOps, yz{m, PauliY})
		case PauliZ:
			phaseOps = append(phaseOps, yz{m, PauliZ})
		default:
			return 0, fmt.Errorf("invalid Pauli %d", op.P)
		}
	}

	var sum complex128
	for i, a := range s.amps {
		if a == 0 {
			continue
		}

		// P|i> = phase |i ^ flipMask>
		phase := complex128(1)
		for _, po := range phaseOps {
			bitSet := i&po.mask != 0
			switch po.pauli {
			case PauliY:
				// Y|0> = i|1>, Y|1> = -i|0>
				if bitSet {
					phase *= complex(0, -1)
				} else {
					phase *= complex(0, 1)
				}
			case PauliZ:
				if bitSet {
					phase = -phase
				}
			}
		}

		j := i ^ flipMask
		sum += cmplx.Conj(s.amps[j]) * phase * a
	}
	return real(sum), nil
}
