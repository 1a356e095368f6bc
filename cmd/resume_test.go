package main

import (
	"testing"

	"github.com/qsolve/vqefit/internal/store"
)

func TestResume_ExplicitZeroOverrides(t *testing.T) {
	dir := t.TempDir()

	st, err := store.NewFSStore(dir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	config := store.RunConfig{
		Molecule:      "h2",
		Ansatz:        "double-excitation",
		Optimizer:     "gd",
		LearningRate:  0.4,
		MaxIterations: 25,
		Tolerance:     1e-6,
		Init:          "hf",
		Seed:          1,
	}
	checkpoint := store.NewCheckpoint("zero-tol", []float64{0.05}, -1.84, -1.83, 25, config)
	if err := st.SaveCheckpoint("zero-tol", checkpoint); err != nil {
		t.Fatalf("Failed to save checkpoint: %v", err)
	}

	// An explicit --tol 0 asks for exact fixed points, it must not be
	// mistaken for "keep the saved tolerance"
	rootCmd.SetArgs([]string{"resume", "zero-tol", "--data-dir", dir, "--tol", "0", "--iters", "3"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("resume failed: %v", err)
	}

	updated, err := st.LoadCheckpoint("zero-tol")
	if err != nil {
		t.Fatalf("Failed to reload checkpoint: %v", err)
	}
	if updated.Config.Tolerance != 0 {
		t.Errorf("Tolerance = %g, want 0", updated.Config.Tolerance)
	}
	if updated.Config.MaxIterations != 3 {
		t.Errorf("MaxIterations = %d, want 3", updated.Config.MaxIterations)
	}

	// Gradient descent never hits an exactly zero energy delta here, so the
	// segment runs its full budget
	if updated.Iteration != 3 {
		t.Errorf("Iteration = %d, want 3", updated.Iteration)
	}
	if updated.Energy > updated.InitialEnergy {
		t.Errorf("Energy = %g, should not regress from the segment start %g", updated.Energy, updated.InitialEnergy)
	}
}
