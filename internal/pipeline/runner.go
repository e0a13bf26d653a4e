package pipeline

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/electionlab/groundwork/pkg/domain"
	"github.com/electionlab/groundwork/pkg/ports"
)

// Hooks receive lifecycle notifications for each step. Used to feed the
// status server and metrics without coupling the runner to either.
type Hooks struct {
	OnStepStart func(name string)
	OnStepEnd   func(result domain.StepResult)
}

// Runner executes an ordered step list and produces a run report.
type Runner struct {
	logger    *slog.Logger
	hooks     Hooks
	keepGoing bool
	dryRun    bool
	now       func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithHooks registers lifecycle hooks.
func WithHooks(h Hooks) Option {
	return func(r *Runner) { r.hooks = h }
}

// WithKeepGoing disables failure gating, reproducing the legacy script
// behavior where a failed native build still attempts the manifest install.
// Only useful for diagnosing how far a broken host gets.
func WithKeepGoing(keepGoing bool) Option {
	return func(r *Runner) { r.keepGoing = keepGoing }
}

// WithDryRun evaluates ShouldRun for every step but never calls Apply.
func WithDryRun(dryRun bool) Option {
	return func(r *Runner) { r.dryRun = dryRun }
}

// WithClock overrides time for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// NewRunner creates a pipeline runner.
func NewRunner(logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the steps in order and returns the report. The report is
// always complete: every step appears exactly once, with not-run entries
// for steps behind the first failure. The returned error is the first
// step failure (nil when the run succeeded), so callers can both exit
// non-zero and persist the full report.
func (r *Runner) Run(ctx context.Context, stage string, steps []ports.Step) (*domain.RunReport, error) {
	report := &domain.RunReport{
		ID:        newRunID(r.now()),
		Stage:     stage,
		StartedAt: r.now(),
		KeepGoing: r.keepGoing,
	}

	var firstErr error
	halted := false

	for _, step := range steps {
		if halted {
			report.Steps = append(report.Steps, domain.StepResult{
				Name:   step.Name(),
				Status: domain.StepNotRun,
			})
			continue
		}

		result := r.runStep(ctx, step)
		report.Steps = append(report.Steps, result)

		if result.Status == domain.StepFailed {
			if firstErr == nil {
				firstErr = fmt.Errorf("step %q failed: %s", result.Name, result.Error)
			}
			if !r.keepGoing {
				halted = true
			}
		}

		if ctx.Err() != nil {
			halted = true
		}
	}

	report.FinishedAt = r.now()
	return report, firstErr
}

func (r *Runner) runStep(ctx context.Context, step ports.Step) domain.StepResult {
	result := domain.StepResult{
		Name:      step.Name(),
		StartedAt: r.now(),
	}

	if r.hooks.OnStepStart != nil {
		r.hooks.OnStepStart(step.Name())
	}
	defer func() {
		result.Duration = r.now().Sub(result.StartedAt)
		if r.hooks.OnStepEnd != nil {
			r.hooks.OnStepEnd(result)
		}
	}()

	run, reason, err := step.ShouldRun(ctx)
	if err != nil {
		r.logger.Error("step probe failed", "step", step.Name(), "error", err)
		result.Status = domain.StepFailed
		result.Error = err.Error()
		return result
	}
	if !run {
		r.logger.Info("step satisfied, skipping", "step", step.Name(), "reason", reason)
		result.Status = domain.StepSkipped
		result.Reason = reason
		return result
	}

	if r.dryRun {
		r.logger.Info("would apply", "step", step.Name())
		result.Status = domain.StepSkipped
		result.Reason = "dry run"
		return result
	}

	r.logger.Info("applying", "step", step.Name())
	output, err := step.Apply(ctx)
	result.Output = output
	if err != nil {
		r.logger.Error("step failed", "step", step.Name(), "error", err)
		result.Status = domain.StepFailed
		result.Error = err.Error()
		return result
	}

	result.Status = domain.StepApplied
	return result
}

// newRunID builds a sortable, unique run identifier.
func newRunID(t time.Time) string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return t.UTC().Format("20060102-150405") + "-" + hex.EncodeToString(b[:])
}
