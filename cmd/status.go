package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var (
	serverURL string
)

var statusCmd = &cobra.Command{
	Use:   "status [job-id]",
	Short: "Query server status or specific job",
	Long: `Queries the server for job status information.
If no job-id is provided, lists all jobs.
If job-id is provided, shows detailed status for that job.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "Server URL")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	var url string

	if len(args) == 0 {
		// List all jobs
		url = fmt.Sprintf("%s/api/v1/jobs", serverURL)
		return listJobs(url)
	} else {
		// Get specific job status
		jobID := args[0]
		url = fmt.Sprintf("%s/api/v1/jobs/%s/status", serverURL, jobID)
		return getJobStatus(url, jobID)
	}
}

func listJobs(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned error: %s", string(body))
	}

	var jobs []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&jobs); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(jobs) == 0 {
		fmt.Println("No jobs found")
		return nil
	}

	fmt.Printf("Found %d job(s):\n\n", len(jobs))
	for _, job := range jobs {
		fmt.Printf("Job ID: %s\n", job["id"])
		fmt.Printf("  State: %s\n", job["state"])
		config := job["config"].(map[string]interface{})
		fmt.Printf("  Molecule: %v\n", config["molecule"])
		fmt.Printf("  Optimizer: %v\n", config["optimizer"])
		if job["energy"] != nil && job["energy"].(float64) != 0 {
			fmt.Printf("  Energy: %.6f -> %.6f\n", job["initialEnergy"], job["energy"])
		}
		fmt.Println()
	}

	return nil
}

func getJobStatus(url, jobID string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned error: %s", string(body))
	}

	var status map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	// Display status
	fmt.Printf("Job: %s\n", status["id"])
	fmt.Printf("State: %s\n", status["state"])
	fmt.Println()

	config := status["config"].(map[string]interface{})
	fmt.Println("Configuration:")
	fmt.Printf("  Molecule: %v\n", config["molecule"])
	fmt.Printf("  Ansatz: %v\n", config["ansatz"])
	fmt.Printf("  Optimizer: %v\n", config["optimizer"])
	fmt.Printf("  Learning rate: %v\n", config["learningRate"])
	fmt.Printf("  Iterations: %v\n", config["maxIterations"])
	fmt.Printf("  Tolerance: %v\n", config["tolerance"])
	fmt.Println()

	fmt.Println("Progress:")
	if status["initialEnergy"] != nil && status["initialEnergy"].(float64) != 0 {
		fmt.Printf("  Initial energy: %.6f Ha\n", status["initialEnergy"])
	}
	if status["energy"] != nil && status["energy"].(float64) != 0 {
		fmt.Printf("  Energy: %.6f Ha\n", status["energy"])
	}
	if status["totalEnergy"] != nil {
		fmt.Printf("  Total energy: %.6f Ha\n", status["totalEnergy"])
		if status["referenceEnergy"] != nil {
			fmt.Printf("  Reference: %.6f Ha\n", status["referenceEnergy"])
		}
	}
	if status["iterations"] != nil {
		fmt.Printf("  Iterations: %v\n", status["iterations"])
	}

	if status["elapsed"] != nil {
		elapsed := time.Duration(status["elapsed"].(float64) * float64(time.Second))
		fmt.Printf("  Elapsed: %s\n", elapsed.Round(time.Millisecond))
	}

	if status["ips"] != nil && status["ips"].(float64) > 0 {
		fmt.Printf("  Throughput: %.0f iterations/sec\n", status["ips"])
	}

	if status["error"] != nil && status["error"].(string) != "" {
		fmt.Printf("\nError: %s\n", status["error"])
	}

	return nil
}
