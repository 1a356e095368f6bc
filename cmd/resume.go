package main

import (
	"fmt"
	"log/slog"

	"github.com/qsolve/vqefit/internal/store"
	"github.com/spf13/cobra"
)

var (
	resumeDataDir   string
	resumeIters     int
	resumeTolerance float64
	resumeOptimizer string
	resumeLR        float64
)

var resumeCmd = &cobra.Command{
	Use:   "resume [run-id]",
	Short: "Resume an optimization from its checkpoint",
	Long: `Loads the checkpoint for the given run and continues optimizing from
the saved parameters. The update rule restarts fresh; energy can only
improve on the checkpointed value. Iterations, tolerance and optimizer
may be overridden.`,
	Args: cobra.ExactArgs(1),
	RunE: runResume,
}

func init() {
	resumeCmd.Flags().StringVar(&resumeDataDir, "data-dir", "./data", "Base directory for run artifacts")
	resumeCmd.Flags().IntVar(&resumeIters, "iters", 0, "Max iterations for the resumed segment (unset = keep saved value)")
	resumeCmd.Flags().Float64Var(&resumeTolerance, "tol", 0, "Convergence tolerance (unset = keep saved value)")
	resumeCmd.Flags().StringVar(&resumeOptimizer, "optimizer", "", "Override update rule (empty = keep saved value)")
	resumeCmd.Flags().Float64Var(&resumeLR, "lr", 0, "Override learning rate (0 = keep saved value)")
	rootCmd.AddCommand(resumeCmd)
}

func runResume(cmd *cobra.Command, args []string) error {
	id := args[0]

	checkpointStore, err := store.NewFSStore(resumeDataDir)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint store: %w", err)
	}

	checkpoint, err := checkpointStore.LoadCheckpoint(id)
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if err := checkpoint.Validate(); err != nil {
		return fmt.Errorf("invalid checkpoint: %w", err)
	}

	// Changed distinguishes an explicit flag from the unset default, so
	// --iters 0 and --tol 0 are honored as real overrides.
	config := checkpoint.Config
	if cmd.Flags().Changed("iters") {
		config.MaxIterations = resumeIters
	}
	if cmd.Flags().Changed("tol") {
		config.Tolerance = resumeTolerance
	}
	if resumeOptimizer != "" {
		config.Optimizer = resumeOptimizer
	}
	if resumeLR > 0 {
		config.LearningRate = resumeLR
	}

	// Molecule and ansatz are fixed by the saved parameter vector
	if err := checkpoint.IsCompatible(config); err != nil {
		return err
	}

	slog.Info("Resuming from checkpoint",
		"run_id", id,
		"iteration", checkpoint.Iteration,
		"energy", checkpoint.Energy,
	)

	return executeRun(cmd.Context(), id, config, checkpoint.Params, true, resumeDataDir)
}
