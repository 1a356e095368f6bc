package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/qsolve/vqefit/internal/store"
)

// JobState represents the current state of a job
type JobState string

const (
	StatePending   JobState = "pending"
	StateRunning   JobState = "running"
	StateCompleted JobState = "completed"
	StateFailed    JobState = "failed"
	StateCancelled JobState = "cancelled"
)

// RunConfig is an alias to avoid duplication with store.RunConfig
type RunConfig = store.RunConfig

// Job represents an optimization run managed by the server
type Job struct {
	ID            string     `json:"id"`
	State         JobState   `json:"state"`
	Config        RunConfig  `json:"config"`
	Params        []float64  `json:"params,omitempty"`
	Energy        float64    `json:"energy"`
	InitialEnergy float64    `json:"initialEnergy"`
	Iterations    int        `json:"iterations"`
	StartTime     time.Time  `json:"startTime"`
	EndTime       *time.Time `json:"endTime,omitempty"`
	Error         string     `json:"error,omitempty"`

	// Histories back the chart endpoints. EnergyHistory[i] and
	// ParamHistory[i] describe iteration i (0 = initial evaluation).
	EnergyHistory []float64   `json:"-"`
	ParamHistory  [][]float64 `json:"-"`
}

// JobManager manages the lifecycle of jobs
type JobManager struct {
	mu          sync.RWMutex
	jobs        map[string]*Job
	cancels     map[string]context.CancelFunc
	broadcaster *EventBroadcaster
}

// NewJobManager creates a new JobManager
func NewJobManager() *JobManager {
	return &JobManager{
		jobs:        make(map[string]*Job),
		cancels:     make(map[string]context.CancelFunc),
		broadcaster: NewEventBroadcaster(),
	}
}

// CreateJob creates a new job with the given configuration
func (jm *JobManager) CreateJob(config RunConfig) *Job {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job := &Job{
		ID:        uuid.New().String(),
		State:     StatePending,
		Config:    config,
		StartTime: time.Now(),
	}

	jm.jobs[job.ID] = job
	return job
}

// GetJob retrieves a job by ID. The returned pointer is shared with the
// running worker; callers that read mutable fields (State, Energy,
// Iterations, EndTime) while a job is live must use Snapshot instead.
func (jm *JobManager) GetJob(id string) (*Job, bool) {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	job, exists := jm.jobs[id]
	return job, exists
}

// Snapshot returns a copy of the job's fields taken under the read lock,
// safe to read while the worker mutates the job. Histories are excluded;
// HistorySnapshot serves those.
func (jm *JobManager) Snapshot(id string) (Job, bool) {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	job, exists := jm.jobs[id]
	if !exists {
		return Job{}, false
	}

	return copyJob(job), true
}

// ListJobs returns copies of all jobs, safe to read while workers run
func (jm *JobManager) ListJobs() []Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	jobs := make([]Job, 0, len(jm.jobs))
	for _, job := range jm.jobs {
		jobs = append(jobs, copyJob(job))
	}
	return jobs
}

// copyJob duplicates a job record without its histories. Callers hold at
// least the read lock.
func copyJob(job *Job) Job {
	snap := *job
	snap.Params = append([]float64{}, job.Params...)
	snap.EnergyHistory = nil
	snap.ParamHistory = nil
	return snap
}

// UpdateJob atomically updates a job using the provided function
func (jm *JobManager) UpdateJob(id string, updateFn func(*Job)) error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job, exists := jm.jobs[id]
	if !exists {
		return fmt.Errorf("job not found: %s", id)
	}

	updateFn(job)
	return nil
}

// RegisterCancel associates a cancel function with a job so it can be
// stopped through the API.
func (jm *JobManager) RegisterCancel(id string, cancel context.CancelFunc) {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	jm.cancels[id] = cancel
}

// CancelJob requests cancellation of a running job. Returns false if the
// job doesn't exist or has no registered cancel function.
func (jm *JobManager) CancelJob(id string) bool {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	cancel, ok := jm.cancels[id]
	if !ok {
		return false
	}
	delete(jm.cancels, id)
	cancel()
	return true
}

// GetRunningJobs returns copies of all jobs currently in the running state
func (jm *JobManager) GetRunningJobs() []Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	runningJobs := make([]Job, 0)
	for _, job := range jm.jobs {
		if job.State == StateRunning {
			runningJobs = append(runningJobs, copyJob(job))
		}
	}
	return runningJobs
}

// HistorySnapshot returns copies of a job's histories for chart
// rendering. Copies keep the renderer off the manager lock.
func (jm *JobManager) HistorySnapshot(id string) (energies []float64, params [][]float64, ok bool) {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	job, exists := jm.jobs[id]
	if !exists {
		return nil, nil, false
	}

	energies = append([]float64{}, job.EnergyHistory...)
	params = make([][]float64, len(job.ParamHistory))
	for i, p := range job.ParamHistory {
		params[i] = append([]float64{}, p...)
	}
	return energies, params, true
}
