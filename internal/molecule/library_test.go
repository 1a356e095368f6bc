package molecule

import (
	"math"
	"testing"

	"github.com/qsolve/vqefit/internal/quantum"
)

func TestLoadH2(t *testing.T) {
	m, err := Load("h2")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.NumQubits != 4 {
		t.Errorf("NumQubits = %d, want 4", m.NumQubits)
	}
	if len(m.Hamiltonian.Terms) != 15 {
		t.Errorf("Expected 15 Pauli terms, got %d", len(m.Hamiltonian.Terms))
	}
	if err := m.Hamiltonian.Validate(); err != nil {
		t.Errorf("H2 hamiltonian invalid: %v", err)
	}
}

func TestLoadUnknown(t *testing.T) {
	if _, err := Load("unobtainium"); err == nil {
		t.Error("Expected error for unknown molecule")
	}
}

func TestList(t *testing.T) {
	ids := List()
	if len(ids) == 0 {
		t.Fatal("List returned no presets")
	}

	found := false
	for _, id := range ids {
		if id == "h2" {
			found = true
		}
	}
	if !found {
		t.Error("List should include h2")
	}
}

func TestH2HartreeFockEnergy(t *testing.T) {
	// The Hartree-Fock reference |1100> diagonalizes all Z terms and has
	// zero overlap with the excitation terms; its electronic energy is the
	// signed coefficient sum -1.8300 Ha.
	m, _ := Load("h2")

	s, err := quantum.NewBasisState([]int{1, 1, 0, 0})
	if err != nil {
		t.Fatalf("NewBasisState failed: %v", err)
	}

	ev, err := m.Hamiltonian.Expectation(s)
	if err != nil {
		t.Fatalf("Expectation failed: %v", err)
	}

	if math.Abs(ev-(-1.8300)) > 1e-9 {
		t.Errorf("HF electronic energy = %.6f, want -1.8300", ev)
	}

	total := m.TotalEnergy(ev)
	if math.Abs(total-(-1.1163)) > 1e-9 {
		t.Errorf("HF total energy = %.6f, want -1.1163", total)
	}
}

func TestTransverseFieldIsing(t *testing.T) {
	h, err := TransverseFieldIsing(4, 0.5)
	if err != nil {
		t.Fatalf("TransverseFieldIsing failed: %v", err)
	}

	// 3 ZZ bonds + 4 X fields
	if len(h.Terms) != 7 {
		t.Errorf("Expected 7 terms, got %d", len(h.Terms))
	}
	if err := h.Validate(); err != nil {
		t.Errorf("Ising hamiltonian invalid: %v", err)
	}

	// At zero field the all-up state is a ground state with energy -(n-1).
	s := quantum.NewZeroState(4)
	zeroField, _ := TransverseFieldIsing(4, 0)
	ev, _ := zeroField.Expectation(s)
	if math.Abs(ev-(-3)) > 1e-12 {
		t.Errorf("Zero-field energy = %g, want -3", ev)
	}
}

func TestTransverseFieldIsing_TooSmall(t *testing.T) {
	if _, err := TransverseFieldIsing(1, 0.5); err == nil {
		t.Error("Expected error for single-spin chain")
	}
}
