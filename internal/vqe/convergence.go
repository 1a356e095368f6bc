package vqe

import (
	"log/slog"
	"math"
)

// ConvergenceConfig defines parameters for detecting optimization convergence.
type ConvergenceConfig struct {
	// Tolerance is the absolute cost change below which an iteration counts
	// as converged: |latest_cost - previous_cost| <= Tolerance.
	Tolerance float64

	// Patience is the number of consecutive sub-tolerance iterations
	// required before stopping. A patience of 1 stops on the first one.
	Patience int
}

// ConvergenceTracker watches successive cost values and reports when the
// run has settled within tolerance.
type ConvergenceTracker struct {
	config ConvergenceConfig
	prev   float64
	seeded bool
	streak int
}

// NewConvergenceTracker creates a tracker with the given config.
// A non-positive patience is treated as 1.
func NewConvergenceTracker(config ConvergenceConfig) *ConvergenceTracker {
	if config.Patience <= 0 {
		config.Patience = 1
	}
	return &ConvergenceTracker{config: config}
}

// Update records a new cost value and returns true if convergence is
// detected. The first call seeds the tracker and never converges.
func (c *ConvergenceTracker) Update(cost float64) bool {
	if !c.seeded {
		c.prev = cost
		c.seeded = true
		return false
	}

	delta := math.Abs(cost - c.prev)
	c.prev = cost

	if delta <= c.config.Tolerance {
		c.streak++
		slog.Debug("Cost change within tolerance",
			"delta", delta,
			"tolerance", c.config.Tolerance,
			"streak", c.streak,
			"patience", c.config.Patience,
		)
		return c.streak >= c.config.Patience
	}

	c.streak = 0
	return false
}

// Reset clears the tracker's state.
func (c *ConvergenceTracker) Reset() {
	c.prev = 0
	c.seeded = false
	c.streak = 0
}
