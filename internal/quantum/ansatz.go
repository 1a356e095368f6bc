package quantum

import "fmt"

// Ansatz builds a parametrized trial state.
type Ansatz interface {
	// Prepare constructs the trial state for the given parameters.
	Prepare(theta []float64) (*State, error)

	// NumParams returns the number of variational parameters.
	NumParams() int

	// NumQubits returns the width of the prepared state.
	NumQubits() int
}

// DoubleExcitationAnsatz prepares the two-electron Hartree-Fock state
// |1100> and applies a single parametrized double-excitation gate. This is
// the minimal trial circuit for H2 in a minimal basis: one parameter
// controls the weight of the doubly-excited configuration.
type DoubleExcitationAnsatz struct {
	numQubits int
}

// NewDoubleExcitationAnsatz creates the ansatz. The minimal-basis
// two-electron circuit requires exactly 4 qubits.
func NewDoubleExcitationAnsatz(numQubits int) (*DoubleExcitationAnsatz, error) {
	if numQubits != 4 {
		return nil, fmt.Errorf("double-excitation ansatz requires 4 qubits, got %d", numQubits)
	}
	return &DoubleExcitationAnsatz{numQubits: numQubits}, nil
}

func (a *DoubleExcitationAnsatz) NumParams() int { return 1 }

func (a *DoubleExcitationAnsatz) NumQubits() int { return a.numQubits }

func (a *DoubleExcitationAnsatz) Prepare(theta []float64) (*State, error) {
	if len(theta) != a.NumParams() {
		return nil, fmt.Errorf("expected %d parameters, got %d", a.NumParams(), len(theta))
	}

	// Hartree-Fock reference: electrons occupy the first two spin orbitals.
	s, err := NewBasisState([]int{1, 1, 0, 0})
	if err != nil {
		return nil, err
	}

	if err := s.ApplyDoubleExcitation([4]int{0, 1, 2, 3}, theta[0]); err != nil {
		return nil, err
	}
	return s, nil
}

// RYAnsatz applies one parametrized RY rotation per wire to the all-zeros
// state, producing a real-amplitude product state. Useful as a cheap trial
// state for spin Hamiltonians.
type RYAnsatz struct {
	numQubits int
}

// NewRYAnsatz creates an RY product ansatz over the given number of qubits.
func NewRYAnsatz(numQubits int) (*RYAnsatz, error) {
	if numQubits <= 0 {
		return nil, fmt.Errorf("numQubits must be positive, got %d", numQubits)
	}
	return &RYAnsatz{numQubits: numQubits}, nil
}

func (a *RYAnsatz) NumParams() int { return a.numQubits }

func (a *RYAnsatz) NumQubits() int { return a.numQubits }

func (a *RYAnsatz) Prepare(theta []float64) (*State, error) {
	if len(theta) != a.NumParams() {
		return nil, fmt.Errorf("expected %d parameters, got %d", a.NumParams(), len(theta))
	}

	s := NewZeroState(a.numQubits)
	for w := 0; w < a.numQubits; w++ {
		if err := s.ApplyRY(w, theta[w]); err != nil {
			return nil, err
		}
	}
	return s, nil
}
