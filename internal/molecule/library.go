// Package molecule provides precomputed qubit Hamiltonians for small
// benchmark systems. Chemistry presets carry Jordan-Wigner transformed
// coefficients in a minimal (STO-3G) basis.
package molecule

import (
	"fmt"
	"sort"

	"github.com/qsolve/vqefit/internal/quantum"
)

// Molecule bundles a qubit Hamiltonian with the metadata needed to
// interpret VQE results for it.
type Molecule struct {
	ID          string
	Name        string
	Formula     string
	NumQubits   int
	Hamiltonian *quantum.Hamiltonian

	// NuclearRepulsion is added to the electronic expectation value to
	// obtain the total energy (Hartree).
	NuclearRepulsion float64

	// ReferenceEnergy is the exact (FCI) ground-state energy in Hartree,
	// for reporting how close a run got.
	ReferenceEnergy float64

	Description string
}

// TotalEnergy converts an electronic energy to a total energy.
func (m *Molecule) TotalEnergy(electronic float64) float64 {
	return electronic + m.NuclearRepulsion
}

var library = map[string]*Molecule{
	"h2": {
		ID:        "h2",
		Name:      "Hydrogen molecule (equilibrium)",
		Formula:   "H2",
		NumQubits: 4,
		Hamiltonian: &quantum.Hamiltonian{
			NumQubits: 4,
			Terms: []quantum.Term{
				// H2 at 0.735 A in STO-3G, Jordan-Wigner transformed.
				{Coeff: -0.8123},
				{Coeff: 0.1712, Ops: []quantum.Op{{Wire: 0, P: quantum.PauliZ}}},
				{Coeff: 0.1712, Ops: []quantum.Op{{Wire: 1, P: quantum.PauliZ}}},
				{Coeff: -0.2227, Ops: []quantum.Op{{Wire: 2, P: quantum.PauliZ}}},
				{Coeff: -0.2227, Ops: []quantum.Op{{Wire: 3, P: quantum.PauliZ}}},
				{Coeff: 0.1686, Ops: []quantum.Op{{Wire: 0, P: quantum.PauliZ}, {Wire: 1, P: quantum.PauliZ}}},
				{Coeff: 0.1205, Ops: []quantum.Op{{Wire: 0, P: quantum.PauliZ}, {Wire: 2, P: quantum.PauliZ}}},
				{Coeff: 0.1659, Ops: []quantum.Op{{Wire: 0, P: quantum.PauliZ}, {Wire: 3, P: quantum.PauliZ}}},
				{Coeff: 0.1659, Ops: []quantum.Op{{Wire: 1, P: quantum.PauliZ}, {Wire: 2, P: quantum.PauliZ}}},
				{Coeff: 0.1205, Ops: []quantum.Op{{Wire: 1, P: quantum.PauliZ}, {Wire: 3, P: quantum.PauliZ}}},
				{Coeff: 0.1743, Ops: []quantum.Op{{Wire: 2, P: quantum.PauliZ}, {Wire: 3, P: quantum.PauliZ}}},
				// Double-excitation coupling terms
				{Coeff: -0.0453, Ops: []quantum.Op{
					{Wire: 0, P: quantum.PauliX}, {Wire: 1, P: quantum.PauliX}, {Wire: 2, P: quantum.PauliY}, {Wire: 3, P: quantum.PauliY}}},
				{Coeff: 0.0453, Ops: []quantum.Op{
					{Wire: 0, P: quantum.PauliX}, {Wire: 1, P: quantum.PauliY}, {Wire: 2, P: quantum.PauliX}, {Wire: 3, P: quantum.PauliY}}},
				{Coeff: 0.0453, Ops: []quantum.Op{
					{Wire: 0, P: quantum.PauliY}, {Wire: 1, P: quantum.PauliX}, {Wire: 2, P: quantum.PauliY}, {Wire: 3, P: quantum.PauliX}}},
				{Coeff: -0.0453, Ops: []quantum.Op{
					{Wire: 0, P: quantum.PauliY}, {Wire: 1, P: quantum.PauliY}, {Wire: 2, P: quantum.PauliX}, {Wire: 3, P: quantum.PauliX}}},
			},
		},
		NuclearRepulsion: 0.7137,
		ReferenceEnergy:  -1.1373,
		Description:      "Hydrogen molecule at equilibrium bond length (0.735 A)",
	},
}

// Load returns the preset with the given identifier.
func Load(id string) (*Molecule, error) {
	m, ok := library[id]
	if !ok {
		return nil, fmt.Errorf("unknown molecule %q (available: %v)", id, List())
	}
	return m, nil
}

// List returns the available preset identifiers, sorted.
func List() []string {
	ids := make([]string, 0, len(library))
	for id := range library {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TransverseFieldIsing builds the Hamiltonian of an open Ising chain of n
// spins with transverse field strength h:
//
//	H = -sum_i Z_i Z_{i+1} - h * sum_i X_i
//
// A non-chemistry benchmark system for the RY ansatz.
func TransverseFieldIsing(n int, h float64) (*quantum.Hamiltonian, error) {
	if n < 2 {
		return nil, fmt.Errorf("ising chain needs at least 2 spins, got %d", n)
	}

	ham := &quantum.Hamiltonian{NumQubits: n}
	for i := 0; i < n-1; i++ {
		ham.Terms = append(ham.Terms, quantum.Term{
			Coeff: -1,
			Ops: []quantum.Op{
				{Wire: i, P: quantum.PauliZ},
				{Wire: i + 1, P: quantum.PauliZ},
			},
		})
	}
	for i := 0; i < n; i++ {
		ham.Terms = append(ham.Terms, quantum.Term{
			Coeff: -h,
			Ops:   []quantum.Op{{Wire: i, P: quantum.PauliX}},
		})
	}
	return ham, nil
}
