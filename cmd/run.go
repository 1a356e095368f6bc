package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/qsolve/vqefit/internal/plot"
	"github.com/qsolve/vqefit/internal/store"
	"github.com/qsolve/vqefit/internal/vqe"
	"github.com/spf13/cobra"
)

var (
	runMolecule  string
	runAnsatz    string
	runOptimizer string
	runLR        float64
	runIters     int
	runTolerance float64
	runInit      string
	runSeed      int64
	runDataDir   string
	runID        string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run single-shot ground-state optimization",
	Long: `Runs the variational loop for one molecule and writes the result,
energy trace and history charts under the run directory.`,
	RunE: runOptimization,
}

func init() {
	runCmd.Flags().StringVar(&runMolecule, "molecule", "h2", "Molecule preset (see 'vqefit molecules')")
	runCmd.Flags().StringVar(&runAnsatz, "ansatz", "double-excitation", "Trial circuit: double-excitation, ry")
	runCmd.Flags().StringVar(&runOptimizer, "optimizer", "gd", "Update rule: gd, momentum, adam, adagrad")
	runCmd.Flags().Float64Var(&runLR, "lr", 0.4, "Learning rate")
	runCmd.Flags().IntVar(&runIters, "iters", 100, "Max iterations")
	runCmd.Flags().Float64Var(&runTolerance, "tol", 1e-6, "Convergence tolerance on |dE|")
	runCmd.Flags().StringVar(&runInit, "init", "hf", "Initialization: hf, random, global")
	runCmd.Flags().Int64Var(&runSeed, "seed", 42, "Random seed")
	runCmd.Flags().StringVar(&runDataDir, "data-dir", "./data", "Base directory for run artifacts")
	runCmd.Flags().StringVar(&runID, "run-id", "", "Run ID (default: random UUID)")

	rootCmd.AddCommand(runCmd)
}

// runResult is the shape of the result.json artifact.
type runResult struct {
	RunID         string          `json:"runId"`
	State         vqe.State       `json:"state"`
	Params        []float64       `json:"params"`
	Energy        float64         `json:"energy"`
	TotalEnergy   float64         `json:"totalEnergy"`
	InitialEnergy float64         `json:"initialEnergy"`
	Iterations    int             `json:"iterations"`
	Elapsed       float64         `json:"elapsedSeconds"`
	Config        store.RunConfig `json:"config"`
}

func runOptimization(cmd *cobra.Command, args []string) error {
	config := store.RunConfig{
		Molecule:      runMolecule,
		Ansatz:        runAnsatz,
		Optimizer:     runOptimizer,
		LearningRate:  runLR,
		MaxIterations: runIters,
		Tolerance:     runTolerance,
		Init:          runInit,
		Seed:          runSeed,
	}

	id := runID
	if id == "" {
		id = uuid.New().String()
	}

	return executeRun(cmd.Context(), id, config, nil, false, runDataDir)
}

// executeRun drives one optimization and persists its artifacts. When
// initial is nil the problem's own initialization is used; resume passes
// checkpoint parameters and appends to the existing trace.
func executeRun(ctx context.Context, id string, config store.RunConfig, initial []float64, appendTrace bool, dataDir string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	slog.Info("Starting optimization",
		"run_id", id,
		"molecule", config.Molecule,
		"ansatz", config.Ansatz,
		"optimizer", config.Optimizer,
		"iters", config.MaxIterations,
	)

	problem, err := vqe.BuildProblem(config)
	if err != nil {
		return err
	}
	if initial == nil {
		initial = problem.Initial
	}

	checkpointStore, err := store.NewFSStore(dataDir)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}

	trace, err := store.NewTraceWriter(dataDir, id, appendTrace)
	if err != nil {
		return fmt.Errorf("failed to create trace writer: %w", err)
	}
	defer trace.Close()

	observer := func(p vqe.Progress) {
		if err := trace.Write(store.TraceEntry{
			Iteration: p.Iteration,
			Energy:    p.Cost,
			Timestamp: time.Now(),
			Params:    p.Params,
		}); err != nil {
			slog.Warn("Failed to write trace entry", "iteration", p.Iteration, "error", err)
		}
	}

	start := time.Now()
	result, err := vqe.Run(ctx, initial, problem.Cost, problem.Grad, problem.Rule, vqe.Config{
		MaxIterations: config.MaxIterations,
		Tolerance:     config.Tolerance,
		Observer:      observer,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if err := trace.Flush(); err != nil {
		slog.Warn("Failed to flush trace", "error", err)
	}

	mol := problem.Molecule
	total := mol.TotalEnergy(result.Cost)

	checkpoint := store.NewCheckpoint(id, result.Params, result.Cost, result.CostHistory[0], result.Iterations, config)
	if err := checkpointStore.SaveCheckpoint(id, checkpoint); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}

	runDir := checkpointStore.RunDir(id)
	if err := writeRunArtifacts(runDir, runResult{
		RunID:         id,
		State:         result.State,
		Params:        result.Params,
		Energy:        result.Cost,
		TotalEnergy:   total,
		InitialEnergy: result.CostHistory[0],
		Iterations:    result.Iterations,
		Elapsed:       elapsed.Seconds(),
		Config:        config,
	}, result); err != nil {
		return err
	}

	slog.Info("Optimization complete",
		"run_id", id,
		"state", result.State,
		"elapsed", elapsed,
		"iterations", result.Iterations,
		"energy", result.Cost,
		"total_energy", total,
	)

	fmt.Printf("Run %s %s after %d iterations\n", id, result.State, result.Iterations)
	fmt.Printf("  Electronic energy: %.6f Ha\n", result.Cost)
	if mol.NuclearRepulsion != 0 {
		fmt.Printf("  Total energy:      %.6f Ha (reference %.6f Ha)\n", total, mol.ReferenceEnergy)
	}
	fmt.Printf("  Artifacts:         %s\n", runDir)

	return nil
}

// writeRunArtifacts saves result.json and the two history charts.
func writeRunArtifacts(runDir string, res runResult, result *vqe.Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}
	if err := os.WriteFile(filepath.Join(runDir, "result.json"), data, 0644); err != nil {
		return fmt.Errorf("failed to write result.json: %w", err)
	}

	if err := writeChart(filepath.Join(runDir, "energy.png"), plot.EnergyChart(result.CostHistory)); err != nil {
		return err
	}
	if err := writeChart(filepath.Join(runDir, "params.png"), plot.ParamChart(result.ParamHistory)); err != nil {
		return err
	}

	return nil
}

func writeChart(path string, chart *plot.Chart) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if err := chart.WritePNG(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
