package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/visualscout/visualscout/internal/pipeline"
)

// App holds the server's collaborators.
type App struct {
	Runner *pipeline.Runner
	Jobs   *JobStore
	Logger *slog.Logger

	// OutputDir is served read-only so the labeling collaborator can fetch
	// grids and manifests over HTTP.
	OutputDir string
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createJobRequest struct {
	InputDir string `json:"input_dir"`
}

// CreateJobHandler starts an asynchronous pipeline run over a directory and
// returns the job ID immediately.
func (app *App) CreateJobHandler(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.InputDir == "" {
		writeError(w, http.StatusBadRequest, "input_dir is required")
		return
	}
	if info, err := os.Stat(req.InputDir); err != nil || !info.IsDir() {
		writeError(w, http.StatusBadRequest, "input_dir is not a readable directory")
		return
	}

	job := app.Jobs.Create(req.InputDir)
	app.Logger.Info("job created", "job_id", job.ID, "input_dir", req.InputDir)

	go func() {
		app.Jobs.SetRunning(job.ID)
		results, err := app.Runner.Run(context.Background(), req.InputDir)
		app.Jobs.Complete(job.ID, results, err)
		app.Logger.Info("job finished", "job_id", job.ID, "files", len(results))
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"id": job.ID})
}

// GetJobHandler returns the current state of a job.
func (app *App) GetJobHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, ok := app.Jobs.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
