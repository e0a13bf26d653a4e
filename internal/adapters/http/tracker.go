// Package http exposes provisioning progress over HTTP while a run is in
// flight: a liveness endpoint, a JSON progress snapshot, and Prometheus
// metrics. Long native builds look like hangs from a terminal; this gives
// an operator somewhere to look.
package http

import (
	"sync"
	"time"

	"github.com/electionlab/groundwork/pkg/domain"
)

// Progress is the JSON snapshot served at /progress.
type Progress struct {
	Stage       string    `json:"stage,omitempty"`
	CurrentStep string    `json:"current_step,omitempty"`
	Applied     int       `json:"applied"`
	Skipped     int       `json:"skipped"`
	Failed      int       `json:"failed"`
	StartedAt   time.Time `json:"started_at,omitempty"`
	Done        bool      `json:"done"`
}

// Tracker accumulates progress from pipeline hooks. Safe for concurrent
// use: the pipeline writes while HTTP handlers read.
type Tracker struct {
	mu       sync.RWMutex
	progress Progress
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// RunStarted resets the snapshot for a new run.
func (t *Tracker) RunStarted(stage string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.progress = Progress{Stage: stage, StartedAt: time.Now()}
}

// StepStarted records the step currently applying.
func (t *Tracker) StepStarted(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.progress.CurrentStep = name
}

// StepFinished folds a finished step into the counters.
func (t *Tracker) StepFinished(result domain.StepResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.progress.CurrentStep = ""
	switch result.Status {
	case domain.StepApplied:
		t.progress.Applied++
	case domain.StepSkipped:
		t.progress.Skipped++
	case domain.StepFailed:
		t.progress.Failed++
	}
}

// RunFinished marks the run complete.
func (t *Tracker) RunFinished() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.progress.Done = true
}

// Snapshot returns a copy of the current progress.
func (t *Tracker) Snapshot() Progress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.progress
}
