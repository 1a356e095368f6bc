package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
)

// State is a statevector over n qubits: 2^n complex amplitudes.
// Wire 0 maps to the most significant bit of the basis index.
type State struct {
	numQubits int
	amps      []complex128
}

// NewZeroState creates the all-zeros computational basis state |00...0>.
func NewZeroState(numQubits int) *State {
	s := &State{
		numQubits: numQubits,
		amps:      make([]complex128, 1<<numQubits),
	}
	s.amps[0] = 1
	return s
}

// NewBasisState creates the computational basis state given by bits,
// one 0/1 value per wire.
func NewBasisState(bits []int) (*State, error) {
	index := 0
	for _, b := range bits {
		if b != 0 && b != 1 {
			return nil, fmt.Errorf("basis state bits must be 0 or 1, got %d", b)
		}
		index = index<<1 | b
	}

	s := &State{
		numQubits: len(bits),
		amps:      make([]complex128, 1<<len(bits)),
	}
	s.amps[index] = 1
	return s, nil
}

// NumQubits returns the number of qubits in the state.
func (s *State) NumQubits() int {
	return s.numQubits
}

// Amplitudes returns a copy of the statevector.
func (s *State) Amplitudes() []complex128 {
	return append([]complex128{}, s.amps...)
}

// Norm returns the L2 norm of the statevector (1.0 for a valid state).
func (s *State) Norm() float64 {
	var sum float64
	for _, a := range s.amps {
		sum += real(a)*real(a) + imag(a)*imag(a)
	}
	return math.Sqrt(sum)
}

// mask returns the basis-index bit mask for a wire.
func (s *State) mask(wire int) int {
	return 1 << (s.numQubits - 1 - wire)
}

func (s *State) checkWire(wire int) error {
	if wire < 0 || wire >= s.numQubits {
		return fmt.Errorf("wire %d out of range for %d qubits", wire, s.numQubits)
	}
	return nil
}

// ApplyX applies the Pauli-X gate to the given wire.
func (s *State) ApplyX(wire int) error {
	if err := s.checkWire(wire); err != nil {
		return err
	}

	m := s.mask(wire)
	for i := range s.amps {
		if i&m == 0 {
			j := i | m
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
	return nil
}

// ApplyRY applies the single-qubit rotation RY(theta) = exp(-i*theta*Y/2):
//
//	|0> -> cos(theta/2)|0> + sin(theta/2)|1>
//	|1> -> -sin(theta/2)|0> + cos(theta/2)|1>
func (s *State) ApplyRY(wire int, theta float64) error {
	if err := s.checkWire(wire); err != nil {
		return err
	}

	c := complex(math.Cos(theta/2), 0)
	sn := complex(math.Sin(theta/2), 0)

	m := s.mask(wire)
	for i := range s.amps {
		if i&m == 0 {
			j := i | m
			a0, a1 := s.amps[i], s.amps[j]
			s.amps[i] = c*a0 - sn*a1
			s.amps[j] = sn*a0 + c*a1
		}
	}
	return nil
}

// ApplyCNOT applies a controlled-NOT with the given control and target wires.
func (s *State) ApplyCNOT(control, target int) error {
	if err := s.checkWire(control); err != nil {
		return err
	}
	if err := s.checkWire(target); err != nil {
		return err
	}
	if control == target {
		return fmt.Errorf("control and target must differ, both are %d", control)
	}

	cm := s.mask(control)
	tm := s.mask(target)
	for i := range s.amps {
		if i&cm != 0 && i&tm == 0 {
			j := i | tm
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
	return nil
}

// ApplyDoubleExcitation applies the double-excitation gate G(theta) on four
// wires: a Givens rotation in the subspace spanned by |1100> and |0011>
// (occupation patterns on the given wires), identity elsewhere.
//
//	|1100> -> cos(theta/2)|1100> + sin(theta/2)|0011>
//	|0011> -> -sin(theta/2)|1100> + cos(theta/2)|0011>
func (s *State) ApplyDoubleExcitation(wires [4]int, theta float64) error {
	seen := map[int]bool{}
	for _, w := range wires {
		if err := s.checkWire(w); err != nil {
			return err
		}
		if seen[w] {
			return fmt.Errorf("duplicate wire %d", w)
		}
		seen[w] = true
	}

	m0 := s.mask(wires[0])
	m1 := s.mask(wires[1])
	m2 := s.mask(wires[2])
	m3 := s.mask(wires[3])
	hi := m0 | m1 // occupied pair in |1100>
	lo := m2 | m3 // occupied pair in |0011>
	all := hi | lo

	c := complex(math.Cos(theta/2), 0)
	sn := complex(math.Sin(theta/2), 0)

	for i := range s.amps {
		// Visit each coupled pair once, from its |1100>-pattern member.
		if i&all == hi {
			j := i&^hi | lo
			a, b := s.amps[i], s.amps[j]
			s.amps[i] = c*a - sn*b
			s.amps[j] = sn*a + c*b
		}
	}
	return nil
}

// InnerProduct returns <s|other>.
func (s *State) InnerProduct(other *State) (complex128, error) {
	if s.numQubits != other.numQubits {
		return 0, fmt.Errorf("qubit count mismatch: %d vs %d", s.numQubits, other.numQubits)
	}

	var sum complex128
	for i, a := range s.amps {
		sum += cmplx.Conj(a) * other.amps[i]
	}
	return sum, nil
}
