// Package cli implements the command logic behind cmd/groundwork: it loads
// the manifest, assembles the step pipeline for the requested stage, and
// wires the journal, lock, status server and report rendering around it.
package cli

import (
	"fmt"
	"time"
)

// Options carries every flag the commands accept.
type Options struct {
	ProjectDir string
	ConfigPath string

	// Backend overrides the manifest's install strategy.
	Backend string

	KeepGoing bool
	DryRun    bool
	Yes       bool

	// Timeout bounds the whole run. Zero means no deadline; downloads and
	// builds of this size can legitimately take hours.
	Timeout time.Duration

	// StatusAddr, when set, serves /healthz, /progress and /metrics for
	// the duration of the run.
	StatusAddr string

	LogLevel string
	JSONLog  bool
	NoInput  bool // force plain output and no prompts
}

// ExitError carries a specific process exit code to main.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Message
}

// usageError wraps configuration and flag problems as exit code 2.
func usageError(format string, args ...any) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}
