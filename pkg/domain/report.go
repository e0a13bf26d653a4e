package domain

import "time"

// StepStatus describes the outcome of a single provisioning step.
type StepStatus string

const (
	// StepApplied means the step ran and succeeded.
	StepApplied StepStatus = "applied"
	// StepSkipped means the step's precondition was already satisfied.
	StepSkipped StepStatus = "skipped"
	// StepFailed means the step ran and returned an error.
	StepFailed StepStatus = "failed"
	// StepNotRun means an earlier step failed and the pipeline stopped
	// before reaching this step.
	StepNotRun StepStatus = "not-run"
)

// StepResult records the observable outcome of one pipeline step.
type StepResult struct {
	Name      string        `json:"name"`
	Status    StepStatus    `json:"status"`
	Reason    string        `json:"reason,omitempty"` // why the step was skipped
	Output    string        `json:"output,omitempty"` // tail of subprocess output
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// RunReport is the persistent record of one provisioning run.
type RunReport struct {
	ID         string       `json:"id"`
	Stage      string       `json:"stage"` // e.g. "toolchain", "env", "up"
	Backend    string       `json:"backend,omitempty"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Steps      []StepResult `json:"steps"`
	KeepGoing  bool         `json:"keep_going,omitempty"`
}

// Failed reports whether any step in the run failed.
func (r *RunReport) Failed() bool {
	for _, s := range r.Steps {
		if s.Status == StepFailed {
			return true
		}
	}
	return false
}

// FirstFailure returns the first failed step, if any.
func (r *RunReport) FirstFailure() (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Status == StepFailed {
			return s, true
		}
	}
	return StepResult{}, false
}

// Applied counts the steps that actually mutated the host.
func (r *RunReport) Applied() int {
	n := 0
	for _, s := range r.Steps {
		if s.Status == StepApplied {
			n++
		}
	}
	return n
}
