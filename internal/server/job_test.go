package server

import (
	"testing"
)

func TestJobManager_CreateJob(t *testing.T) {
	jm := NewJobManager()

	job := jm.CreateJob(testRunConfig())

	if job.ID == "" {
		t.Error("Job ID should not be empty")
	}
	if job.State != StatePending {
		t.Errorf("Expected pending state, got %s", job.State)
	}
	if job.StartTime.IsZero() {
		t.Error("StartTime should be set")
	}

	// IDs are unique
	other := jm.CreateJob(testRunConfig())
	if other.ID == job.ID {
		t.Error("Job IDs should be unique")
	}
}

func TestJobManager_GetJob(t *testing.T) {
	jm := NewJobManager()

	job := jm.CreateJob(testRunConfig())

	got, exists := jm.GetJob(job.ID)
	if !exists {
		t.Fatal("Expected job to exist")
	}
	if got.ID != job.ID {
		t.Errorf("ID = %s, want %s", got.ID, job.ID)
	}

	if _, exists := jm.GetJob("nonexistent"); exists {
		t.Error("Expected missing job to not exist")
	}
}

func TestJobManager_UpdateJob(t *testing.T) {
	jm := NewJobManager()

	job := jm.CreateJob(testRunConfig())

	err := jm.UpdateJob(job.ID, func(j *Job) {
		j.State = StateRunning
		j.Energy = -1.85
		j.Iterations = 10
	})
	if err != nil {
		t.Fatalf("UpdateJob failed: %v", err)
	}

	got, _ := jm.GetJob(job.ID)
	if got.State != StateRunning {
		t.Errorf("State = %s, want running", got.State)
	}
	if got.Energy != -1.85 {
		t.Errorf("Energy = %g, want -1.85", got.Energy)
	}

	if err := jm.UpdateJob("nonexistent", func(j *Job) {}); err == nil {
		t.Error("Expected error for missing job")
	}
}

func TestJobManager_GetRunningJobs(t *testing.T) {
	jm := NewJobManager()

	a := jm.CreateJob(testRunConfig())
	b := jm.CreateJob(testRunConfig())
	jm.CreateJob(testRunConfig())

	jm.UpdateJob(a.ID, func(j *Job) { j.State = StateRunning })
	jm.UpdateJob(b.ID, func(j *Job) { j.State = StateCompleted })

	running := jm.GetRunningJobs()
	if len(running) != 1 {
		t.Fatalf("Expected 1 running job, got %d", len(running))
	}
	if running[0].ID != a.ID {
		t.Errorf("Running job ID = %s, want %s", running[0].ID, a.ID)
	}
}

func TestJobManager_CancelJob(t *testing.T) {
	jm := NewJobManager()

	job := jm.CreateJob(testRunConfig())

	// No cancel registered yet
	if jm.CancelJob(job.ID) {
		t.Error("Expected CancelJob to fail without a registered cancel")
	}

	cancelled := false
	jm.RegisterCancel(job.ID, func() { cancelled = true })

	if !jm.CancelJob(job.ID) {
		t.Fatal("Expected CancelJob to succeed")
	}
	if !cancelled {
		t.Error("Cancel function was not invoked")
	}

	// Second cancel is a no-op
	if jm.CancelJob(job.ID) {
		t.Error("Expected repeated CancelJob to fail")
	}
}

func TestJobManager_Snapshot(t *testing.T) {
	jm := NewJobManager()

	job := jm.CreateJob(testRunConfig())
	jm.UpdateJob(job.ID, func(j *Job) {
		j.State = StateRunning
		j.Params = []float64{0.1}
		j.Energy = -1.84
		j.Iterations = 7
	})

	snap, ok := jm.Snapshot(job.ID)
	if !ok {
		t.Fatal("Expected snapshot to succeed")
	}
	if snap.State != StateRunning {
		t.Errorf("State = %s, want running", snap.State)
	}
	if snap.Energy != -1.84 {
		t.Errorf("Energy = %g, want -1.84", snap.Energy)
	}
	if snap.Iterations != 7 {
		t.Errorf("Iterations = %d, want 7", snap.Iterations)
	}

	// The snapshot is detached from the live record
	snap.Params[0] = 99
	jm.UpdateJob(job.ID, func(j *Job) { j.Energy = -1.85 })

	if snap.Energy != -1.84 {
		t.Error("Snapshot should not track later updates")
	}
	got, _ := jm.GetJob(job.ID)
	if got.Params[0] != 0.1 {
		t.Error("Snapshot params are not a copy")
	}

	if _, ok := jm.Snapshot("nonexistent"); ok {
		t.Error("Expected snapshot of missing job to fail")
	}
}

func TestJobManager_HistorySnapshot(t *testing.T) {
	jm := NewJobManager()

	job := jm.CreateJob(testRunConfig())

	jm.UpdateJob(job.ID, func(j *Job) {
		j.EnergyHistory = []float64{-1.83, -1.85}
		j.ParamHistory = [][]float64{{0}, {0.1}}
	})

	energies, params, ok := jm.HistorySnapshot(job.ID)
	if !ok {
		t.Fatal("Expected snapshot to succeed")
	}
	if len(energies) != 2 || len(params) != 2 {
		t.Fatalf("Snapshot lengths = %d, %d; want 2, 2", len(energies), len(params))
	}

	// Snapshots are copies, mutating them must not affect the job
	energies[0] = 0
	params[1][0] = 99

	got, _ := jm.GetJob(job.ID)
	if got.EnergyHistory[0] != -1.83 {
		t.Error("Energy history snapshot is not a copy")
	}
	if got.ParamHistory[1][0] != 0.1 {
		t.Error("Param history snapshot is not a copy")
	}

	if _, _, ok := jm.HistorySnapshot("nonexistent"); ok {
		t.Error("Expected snapshot of missing job to fail")
	}
}
