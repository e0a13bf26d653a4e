// Package pipeline runs ordered provisioning steps with explicit failure
// gating: the first failed step stops the run and every remaining step is
// reported as not-run instead of silently executing against a broken host.
package pipeline

import "context"

// FuncStep adapts plain functions into a ports.Step. Most steps are structs
// with real state; this is for small glue steps (cleanup, credential checks).
type FuncStep struct {
	StepName string
	Check    func(ctx context.Context) (bool, string, error)
	Do       func(ctx context.Context) (string, error)
}

// Name identifies the step.
func (f FuncStep) Name() string { return f.StepName }

// ShouldRun defers to Check; a nil Check means the step always runs.
func (f FuncStep) ShouldRun(ctx context.Context) (bool, string, error) {
	if f.Check == nil {
		return true, "", nil
	}
	return f.Check(ctx)
}

// Apply defers to Do.
func (f FuncStep) Apply(ctx context.Context) (string, error) {
	return f.Do(ctx)
}
