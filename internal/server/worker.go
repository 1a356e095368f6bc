package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/qsolve/vqefit/internal/molecule"
	"github.com/qsolve/vqefit/internal/store"
	"github.com/qsolve/vqefit/internal/vqe"
)

// runJob executes an optimization job in the background.
// If checkpointStore is not nil and the job has checkpointInterval > 0,
// periodic checkpoints are saved.
func runJob(ctx context.Context, jm *JobManager, checkpointStore store.Store, jobID string) error {
	job, exists := jm.Snapshot(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateRunning
	})
	if err != nil {
		return err
	}

	slog.Info("Starting job", "job_id", jobID, "molecule", job.Config.Molecule, "optimizer", job.Config.Optimizer)

	problem, err := vqe.BuildProblem(job.Config)
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	start := time.Now()

	// Start progress monitoring goroutine
	progressDone := make(chan struct{})
	go monitorProgress(ctx, jm, jobID, problem.Molecule, start, progressDone)

	// Start checkpoint monitoring goroutine if enabled. checkpointDone is
	// closed exactly once, and only when the goroutine was started.
	checkpointing := checkpointStore != nil && job.Config.CheckpointInterval > 0
	checkpointDone := make(chan struct{})
	if checkpointing {
		go monitorCheckpoints(ctx, jm, checkpointStore, jobID, checkpointDone)
	}

	// The observer mirrors every evaluation into the job record so the
	// status, stream and chart endpoints see live state.
	observer := func(p vqe.Progress) {
		jm.UpdateJob(jobID, func(j *Job) {
			if p.Iteration == 0 {
				j.InitialEnergy = p.Cost
			}
			j.Params = append([]float64{}, p.Params...)
			j.Energy = p.Cost
			j.Iterations = p.Iteration
			j.EnergyHistory = append(j.EnergyHistory, p.Cost)
			j.ParamHistory = append(j.ParamHistory, append([]float64{}, p.Params...))
		})
	}

	result, err := vqe.Run(ctx, problem.Initial, problem.Cost, problem.Grad, problem.Rule, vqe.Config{
		MaxIterations: job.Config.MaxIterations,
		Tolerance:     job.Config.Tolerance,
		Observer:      observer,
	})

	close(progressDone)
	if checkpointing {
		close(checkpointDone)
	}
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, context.Canceled) {
			markJobCancelled(jm, jobID)
			return err
		}
		markJobFailed(jm, jobID, err)
		return err
	}

	// Update job with results
	endTime := time.Now()
	err = jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.Params = result.Params
		j.Energy = result.Cost
		j.Iterations = result.Iterations
		j.EndTime = &endTime
	})
	if err != nil {
		return err
	}

	ips := float64(result.Iterations) / elapsed.Seconds()

	slog.Info("Job completed",
		"job_id", jobID,
		"elapsed", elapsed,
		"state", result.State,
		"energy", result.Cost,
		"total_energy", problem.Molecule.TotalEnergy(result.Cost),
		"iterations", result.Iterations,
	)

	// Save a final checkpoint so completed jobs can be inspected later
	if checkpointStore != nil {
		if err := saveCheckpoint(jm, checkpointStore, jobID); err != nil {
			slog.Warn("Failed to save final checkpoint", "job_id", jobID, "error", err)
		}
	}

	// Broadcast final completion event
	jm.broadcaster.Broadcast(ProgressEvent{
		JobID:       jobID,
		State:       StateCompleted,
		Molecule:    job.Config.Molecule,
		Iterations:  result.Iterations,
		Energy:      result.Cost,
		TotalEnergy: problem.Molecule.TotalEnergy(result.Cost),
		IPS:         ips,
		Timestamp:   time.Now(),
	})

	return nil
}

// monitorProgress periodically broadcasts progress events during optimization.
// It reads job state through Snapshot so the observer can keep mutating the
// job record concurrently.
func monitorProgress(ctx context.Context, jm *JobManager, jobID string, mol *molecule.Molecule, startTime time.Time, done chan struct{}) {
	ticker := time.NewTicker(500 * time.Millisecond) // Throttle to 2 updates per second
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			job, exists := jm.Snapshot(jobID)
			if !exists {
				return
			}

			elapsed := time.Since(startTime).Seconds()
			var ips float64
			if elapsed > 0 {
				ips = float64(job.Iterations) / elapsed
			}

			jm.broadcaster.Broadcast(ProgressEvent{
				JobID:       jobID,
				State:       job.State,
				Molecule:    mol.ID,
				Iterations:  job.Iterations,
				Energy:      job.Energy,
				TotalEnergy: mol.TotalEnergy(job.Energy),
				IPS:         ips,
				Timestamp:   time.Now(),
			})
		}
	}
}

// markJobFailed marks a job as failed with an error message
func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	slog.Error("Job failed", "job_id", jobID, "error", err)
}

// markJobCancelled marks a job as cancelled
func markJobCancelled(jm *JobManager, jobID string) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCancelled
		j.EndTime = &endTime
	})
	slog.Info("Job cancelled", "job_id", jobID)
}

// monitorCheckpoints periodically saves checkpoints during optimization
func monitorCheckpoints(ctx context.Context, jm *JobManager, checkpointStore store.Store, jobID string, done chan struct{}) {
	job, exists := jm.Snapshot(jobID)
	if !exists {
		return
	}

	interval := time.Duration(job.Config.CheckpointInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := saveCheckpoint(jm, checkpointStore, jobID); err != nil {
				slog.Error("Failed to save checkpoint", "job_id", jobID, "error", err)
			}
		}
	}
}

// saveCheckpoint saves a checkpoint for the given job
func saveCheckpoint(jm *JobManager, checkpointStore store.Store, jobID string) error {
	job, exists := jm.Snapshot(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	// Skip if nothing evaluated yet
	if len(job.Params) == 0 {
		slog.Debug("Skipping checkpoint, no parameters yet", "job_id", jobID)
		return nil
	}

	checkpoint := store.NewCheckpoint(
		jobID,
		job.Params,
		job.Energy,
		job.InitialEnergy,
		job.Iterations,
		job.Config,
	)

	if err := checkpointStore.SaveCheckpoint(jobID, checkpoint); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}

	slog.Info("Checkpoint saved",
		"job_id", jobID,
		"iteration", job.Iterations,
		"energy", job.Energy,
	)

	return nil
}
