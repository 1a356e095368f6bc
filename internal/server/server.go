package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/qsolve/vqefit/internal/molecule"
	"github.com/qsolve/vqefit/internal/plot"
	"github.com/qsolve/vqefit/internal/store"
)

// Server represents the HTTP server
type Server struct {
	jobManager      *JobManager
	checkpointStore store.Store
	addr            string
	server          *http.Server
}

// NewServer creates a new HTTP server. checkpointStore may be nil to
// disable checkpointing.
func NewServer(addr string, checkpointStore store.Store) *Server {
	return &Server{
		jobManager:      NewJobManager(),
		checkpointStore: checkpointStore,
		addr:            addr,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	mux := http.NewServeMux()

	// Register UI routes
	mux.HandleFunc("/", s.handleIndex)

	// Register API routes
	mux.HandleFunc("/api/v1/molecules", s.handleListMolecules)
	mux.HandleFunc("/api/v1/jobs", s.handleJobs)
	mux.HandleFunc("/api/v1/jobs/", s.handleJobsWithID)

	// Wrap with middleware
	handler := s.loggingMiddleware(s.corsMiddleware(mux))

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: handler,
	}

	slog.Info("Starting HTTP server", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down HTTP server")
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// handleJobs handles /api/v1/jobs
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateJob(w, r)
	case http.MethodGet:
		s.handleListJobs(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleJobsWithID handles /api/v1/jobs/:id/*
func (s *Server) handleJobsWithID(w http.ResponseWriter, r *http.Request) {
	// Parse job ID from path
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/jobs/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "Job ID required", http.StatusBadRequest)
		return
	}

	jobID := parts[0]

	if r.Method == http.MethodDelete && len(parts) == 1 {
		s.handleCancelJob(w, r, jobID)
		return
	}

	// Route based on subpath
	if len(parts) == 1 || parts[1] == "status" {
		s.handleGetJobStatus(w, r, jobID)
	} else if parts[1] == "stream" {
		s.handleJobStream(w, r, jobID)
	} else if parts[1] == "energy.png" {
		s.handleGetEnergyChart(w, r, jobID)
	} else if parts[1] == "params.png" {
		s.handleGetParamChart(w, r, jobID)
	} else {
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

// handleCreateJob handles POST /api/v1/jobs
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var config RunConfig
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	// Validate config
	if config.Molecule == "" {
		http.Error(w, "molecule is required", http.StatusBadRequest)
		return
	}
	if _, err := molecule.Load(config.Molecule); err != nil {
		http.Error(w, fmt.Sprintf("Unknown molecule: %s", config.Molecule), http.StatusBadRequest)
		return
	}
	if config.MaxIterations < 0 {
		http.Error(w, "maxIterations must be non-negative", http.StatusBadRequest)
		return
	}
	if config.MaxIterations == 0 {
		config.MaxIterations = 100
	}
	if config.Tolerance < 0 {
		http.Error(w, "tolerance must be non-negative", http.StatusBadRequest)
		return
	}
	if config.Tolerance == 0 {
		config.Tolerance = 1e-6
	}

	// Create job
	job := s.jobManager.CreateJob(config)

	ctx, cancel := context.WithCancel(context.Background())
	s.jobManager.RegisterCancel(job.ID, cancel)

	// Encode the response before the worker starts mutating the record
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(job)

	go runJob(ctx, s.jobManager, s.checkpointStore, job.ID)
}

// handleListJobs handles GET /api/v1/jobs
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := s.jobManager.ListJobs()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(jobs)
}

// handleCancelJob handles DELETE /api/v1/jobs/:id
func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request, jobID string) {
	if _, exists := s.jobManager.GetJob(jobID); !exists {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	if !s.jobManager.CancelJob(jobID) {
		http.Error(w, "Job is not cancellable", http.StatusConflict)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// handleGetJobStatus handles GET /api/v1/jobs/:id/status.
// It reads the job through Snapshot so responses are consistent while the
// worker's observer is mutating the job record.
func (s *Server) handleGetJobStatus(w http.ResponseWriter, r *http.Request, jobID string) {
	job, exists := s.jobManager.Snapshot(jobID)
	if !exists {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	// Compute elapsed time and iteration throughput
	var elapsed time.Duration
	if job.EndTime != nil {
		elapsed = job.EndTime.Sub(job.StartTime)
	} else {
		elapsed = time.Since(job.StartTime)
	}

	ips := float64(0)
	if elapsed.Seconds() > 0 {
		ips = float64(job.Iterations) / elapsed.Seconds()
	}

	response := map[string]interface{}{
		"id":            job.ID,
		"state":         job.State,
		"config":        job.Config,
		"energy":        job.Energy,
		"initialEnergy": job.InitialEnergy,
		"iterations":    job.Iterations,
		"elapsed":       elapsed.Seconds(),
		"ips":           ips,
		"startTime":     job.StartTime,
		"endTime":       job.EndTime,
		"error":         job.Error,
	}

	// Completed chemistry runs also report the total energy
	if mol, err := molecule.Load(job.Config.Molecule); err == nil && mol.NuclearRepulsion != 0 {
		response["totalEnergy"] = mol.TotalEnergy(job.Energy)
		response["referenceEnergy"] = mol.ReferenceEnergy
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleGetEnergyChart handles GET /api/v1/jobs/:id/energy.png
func (s *Server) handleGetEnergyChart(w http.ResponseWriter, r *http.Request, jobID string) {
	energies, _, ok := s.jobManager.HistorySnapshot(jobID)
	if !ok {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}
	if len(energies) == 0 {
		http.Error(w, "No results yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")

	if err := plot.EnergyChart(energies).WritePNG(w); err != nil {
		slog.Error("Failed to encode PNG", "error", err)
	}
}

// handleGetParamChart handles GET /api/v1/jobs/:id/params.png
func (s *Server) handleGetParamChart(w http.ResponseWriter, r *http.Request, jobID string) {
	_, params, ok := s.jobManager.HistorySnapshot(jobID)
	if !ok {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}
	if len(params) == 0 {
		http.Error(w, "No results yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")

	if err := plot.ParamChart(params).WritePNG(w); err != nil {
		slog.Error("Failed to encode PNG", "error", err)
	}
}

// handleListMolecules handles GET /api/v1/molecules
func (s *Server) handleListMolecules(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ids := molecule.List()
	systems := make([]map[string]interface{}, 0, len(ids))
	for _, id := range ids {
		mol, err := molecule.Load(id)
		if err != nil {
			continue
		}
		systems = append(systems, map[string]interface{}{
			"id":              mol.ID,
			"name":            mol.Name,
			"formula":         mol.Formula,
			"numQubits":       mol.NumQubits,
			"referenceEnergy": mol.ReferenceEnergy,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(systems)
}

// corsMiddleware adds CORS headers
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
