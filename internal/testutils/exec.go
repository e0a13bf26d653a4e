// Package testutils holds shared test doubles.
package testutils

import (
	"context"
	"fmt"
	"sync"

	"github.com/electionlab/groundwork/internal/adapters/process"
)

// FakeExecutor is a recording process.Executor. Tests script PATH lookups
// via Binaries and process behavior via RunFunc, and assert on the recorded
// Commands afterwards.
type FakeExecutor struct {
	mu sync.Mutex

	// Binaries maps binary name -> resolved path. Names absent from the
	// map are "not installed".
	Binaries map[string]string

	// RunFunc, when set, decides each invocation's result. Defaults to
	// success with empty output.
	RunFunc func(cmd process.Command) (process.Result, error)

	Commands []process.Command
}

var _ process.Executor = (*FakeExecutor)(nil)

// LookPath resolves a binary from the scripted Binaries map.
func (f *FakeExecutor) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if path, ok := f.Binaries[name]; ok && path != "" {
		return path, nil
	}
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
}

// Run records the command and returns the scripted result.
func (f *FakeExecutor) Run(ctx context.Context, cmd process.Command) (process.Result, error) {
	f.mu.Lock()
	f.Commands = append(f.Commands, cmd)
	run := f.RunFunc
	f.mu.Unlock()

	if run != nil {
		return run(cmd)
	}
	return process.Result{}, nil
}

// Recorded returns a copy of the recorded commands.
func (f *FakeExecutor) Recorded() []process.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]process.Command, len(f.Commands))
	copy(out, f.Commands)
	return out
}
