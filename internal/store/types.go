package store

import (
	"fmt"
	"time"
)

// RunConfig holds configuration for a VQE run (checkpoint copy).
// This avoids import cycles with the server package.
type RunConfig struct {
	Molecule           string  `json:"molecule"`
	Ansatz             string  `json:"ansatz"`    // double-excitation, ry
	Optimizer          string  `json:"optimizer"` // gd, momentum, adam, adagrad
	LearningRate       float64 `json:"learningRate"`
	MaxIterations      int     `json:"maxIterations"`
	Tolerance          float64 `json:"tolerance"`
	Init               string  `json:"init,omitempty"` // hf, random, global
	Seed               int64   `json:"seed"`
	CheckpointInterval int     `json:"checkpointInterval,omitempty"` // Checkpoint every N seconds (0 = disabled)
}

// Checkpoint represents a saved optimization state that can be resumed
// later. All fields are serialized to JSON.
//
// The checkpoint stores the latest parameters and energy, but not the
// update rule's internal state (momentum terms, accumulators). A resumed
// run restarts the rule fresh from the saved parameters: the energy can
// never get worse, but the trajectory will not exactly continue the
// original one. Persisting rule internals would tie the checkpoint format
// to specific optimizer implementations for little benefit on these small
// parameter vectors.
type Checkpoint struct {
	// RunID is the unique identifier for this optimization run
	RunID string `json:"runId"`

	// Params contains the variational parameters at checkpoint time
	Params []float64 `json:"params"`

	// Energy is the cost value achieved by Params (Hartree for molecules)
	Energy float64 `json:"energy"`

	// InitialEnergy is the cost at the initial parameters, for tracking
	// improvement
	InitialEnergy float64 `json:"initialEnergy"`

	// Iteration is the iteration count when this checkpoint was created
	Iteration int `json:"iteration"`

	// Timestamp records when this checkpoint was created
	Timestamp time.Time `json:"timestamp"`

	// Config holds the run configuration, needed for validation during
	// resume. Resumed runs must use compatible settings (same molecule
	// and ansatz).
	Config RunConfig `json:"config"`
}

// CheckpointInfo contains metadata about a checkpoint without the full
// parameter data. Used for listing checkpoints efficiently.
type CheckpointInfo struct {
	RunID     string    `json:"runId"`
	Energy    float64   `json:"energy"`
	Iteration int       `json:"iteration"`
	Timestamp time.Time `json:"timestamp"`
	Molecule  string    `json:"molecule"`
	Ansatz    string    `json:"ansatz"`
	Optimizer string    `json:"optimizer"`
}

// NewCheckpoint creates a checkpoint from run state.
func NewCheckpoint(runID string, params []float64, energy, initialEnergy float64, iteration int, config RunConfig) *Checkpoint {
	return &Checkpoint{
		RunID:         runID,
		Params:        params,
		Energy:        energy,
		InitialEnergy: initialEnergy,
		Iteration:     iteration,
		Timestamp:     time.Now(),
		Config:        config,
	}
}

// ToInfo converts a full Checkpoint to CheckpointInfo (metadata only).
func (c *Checkpoint) ToInfo() CheckpointInfo {
	return CheckpointInfo{
		RunID:     c.RunID,
		Energy:    c.Energy,
		Iteration: c.Iteration,
		Timestamp: c.Timestamp,
		Molecule:  c.Config.Molecule,
		Ansatz:    c.Config.Ansatz,
		Optimizer: c.Config.Optimizer,
	}
}

// Validate checks if the checkpoint has valid data.
func (c *Checkpoint) Validate() error {
	if c.RunID == "" {
		return &ValidationError{Field: "RunID", Reason: "cannot be empty"}
	}
	if len(c.Params) == 0 {
		return &ValidationError{Field: "Params", Reason: "cannot be empty"}
	}
	if c.Iteration < 0 {
		return &ValidationError{Field: "Iteration", Reason: "cannot be negative"}
	}
	if c.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	if c.Config.Molecule == "" {
		return &ValidationError{Field: "Config.Molecule", Reason: "cannot be empty"}
	}
	if c.Config.Ansatz == "" {
		return &ValidationError{Field: "Config.Ansatz", Reason: "cannot be empty"}
	}
	if c.Config.Optimizer == "" {
		return &ValidationError{Field: "Config.Optimizer", Reason: "cannot be empty"}
	}
	if c.Config.MaxIterations < 0 {
		return &ValidationError{Field: "Config.MaxIterations", Reason: "cannot be negative"}
	}
	if c.Config.Tolerance < 0 {
		return &ValidationError{Field: "Config.Tolerance", Reason: "cannot be negative"}
	}
	return nil
}

// ValidationError represents a checkpoint validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}

// IsCompatible checks if this checkpoint can be resumed with the given
// config. The molecule and ansatz determine the parameter space, so both
// must match.
func (c *Checkpoint) IsCompatible(config RunConfig) error {
	if c.Config.Molecule != config.Molecule {
		return &CompatibilityError{
			Field:    "Molecule",
			Expected: c.Config.Molecule,
			Actual:   config.Molecule,
		}
	}
	if c.Config.Ansatz != config.Ansatz {
		return &CompatibilityError{
			Field:    "Ansatz",
			Expected: c.Config.Ansatz,
			Actual:   config.Ansatz,
		}
	}
	return nil
}

// CompatibilityError represents a checkpoint compatibility error.
type CompatibilityError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *CompatibilityError) Error() string {
	return fmt.Sprintf("compatibility error: %s mismatch (expected %s, got %s)", e.Field, e.Expected, e.Actual)
}
