package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/visualscout/visualscout/internal/pipeline"
)

type JobStatus string

const (
	JobPending JobStatus = "pending"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// Job tracks one asynchronous pipeline run. Results are held in memory only;
// the durable artifacts are the grid and manifest files on disk.
type Job struct {
	ID        string       `json:"id"`
	InputDir  string       `json:"input_dir"`
	Status    JobStatus    `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	Error     string       `json:"error,omitempty"`
	Files     []FileResult `json:"files,omitempty"`
}

// FileResult is the JSON view of one file's pipeline outcome.
type FileResult struct {
	Source       string   `json:"source"`
	Candidates   int      `json:"candidates"`
	Retained     int      `json:"retained"`
	GridPaths    []string `json:"grid_paths,omitempty"`
	ManifestPath string   `json:"manifest_path,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// JobStore is an in-memory registry of jobs keyed by ID.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]*Job)}
}

func (s *JobStore) Create(inputDir string) *Job {
	job := &Job{
		ID:        uuid.New().String(),
		InputDir:  inputDir,
		Status:    JobPending,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()
	return job
}

func (s *JobStore) Get(id string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

func (s *JobStore) SetRunning(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok {
		job.Status = JobRunning
	}
}

// Complete records the pipeline outcome. The job fails only when the run
// itself errored; individual file failures stay isolated in their entries.
func (s *JobStore) Complete(id string, results []pipeline.Result, runErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return
	}

	job.Files = make([]FileResult, 0, len(results))
	for _, r := range results {
		fr := FileResult{
			Source:       r.Source,
			Candidates:   r.Candidates,
			Retained:     r.Retained,
			GridPaths:    r.GridPaths,
			ManifestPath: r.ManifestPath,
		}
		if r.Err != nil {
			fr.Error = r.Err.Error()
		}
		job.Files = append(job.Files, fr)
	}

	if runErr != nil {
		job.Status = JobFailed
		job.Error = runErr.Error()
		return
	}
	job.Status = JobDone
}
