package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	statushttp "github.com/electionlab/groundwork/internal/adapters/http"
	"github.com/electionlab/groundwork/internal/adapters/process"
	"github.com/electionlab/groundwork/internal/config"
	"github.com/electionlab/groundwork/internal/fetch"
	"github.com/electionlab/groundwork/internal/logging"
	"github.com/electionlab/groundwork/internal/pipeline"
	"github.com/electionlab/groundwork/internal/presentation/tui"
	"github.com/electionlab/groundwork/internal/pyenv"
	"github.com/electionlab/groundwork/internal/toolchain"
	"github.com/electionlab/groundwork/pkg/domain"
	"github.com/electionlab/groundwork/pkg/ports"
)

// Stage names accepted by Execute. "up" runs everything the configured
// backend needs, in dependency order.
const (
	StageUp        = "up"
	StageToolchain = "toolchain"
	StageEnv       = "env"
	StageModel     = "model"
)

// lockKey is the single host-wide lock. Two concurrent runs would race on
// the venv directory and the toolchain installers, so there is exactly one.
const lockKey = "host"

// Execute runs one provisioning stage end to end: load the manifest,
// assemble the steps, take the host lock, run the pipeline, then persist
// and render the report.
func Execute(ctx context.Context, stage string, opts Options) error {
	logger := logging.New(logging.Options{
		Level: logging.ParseLevel(opts.LogLevel),
		JSON:  opts.JSONLog,
	})

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	exec := process.NewRunner(logger)
	fetcher := fetch.New(nil, logger)
	metrics := statushttp.NewMetrics()
	tracker := statushttp.NewTracker()

	steps, err := buildSteps(stage, cfg, exec, fetcher, metrics, logger)
	if err != nil {
		return err
	}

	rich := interactive(os.Stdout) && !opts.JSONLog && !opts.NoInput
	if rich {
		tui.PrintBanner()
	}

	if !opts.Yes && !opts.DryRun {
		question := fmt.Sprintf("About to run %d step(s) for stage %q on this host. Continue?", len(steps), stage)
		if !confirm(os.Stdin, os.Stdout, question) {
			return &ExitError{Code: 1, Message: "aborted"}
		}
	}

	journal, locker, closeStores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	if !opts.DryRun {
		unlock, err := locker.Lock(ctx, lockKey, cfg.Lock.TTL)
		if err != nil {
			if errors.Is(err, domain.ErrLockHeld) {
				return &ExitError{Code: 1, Message: err.Error()}
			}
			return err
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("failed to release host lock", "error", err)
			}
		}()
	}

	if opts.StatusAddr != "" {
		srv := statushttp.NewStatusServer(opts.StatusAddr, tracker, metrics, logger)
		if err := srv.Start(); err != nil {
			return fmt.Errorf("failed to start status server: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	tracker.RunStarted(stage)
	runner := pipeline.NewRunner(logger,
		pipeline.WithKeepGoing(opts.KeepGoing),
		pipeline.WithDryRun(opts.DryRun),
		pipeline.WithHooks(pipeline.Hooks{
			OnStepStart: tracker.StepStarted,
			OnStepEnd: func(result domain.StepResult) {
				tracker.StepFinished(result)
				metrics.ObserveStep(result)
			},
		}),
	)

	report, runErr := runner.Run(ctx, stage, steps)
	report.Backend = string(cfg.Backend)
	tracker.RunFinished()

	if !opts.DryRun {
		// A run that hit its deadline still gets recorded.
		if err := journal.Save(context.WithoutCancel(ctx), report); err != nil {
			logger.Warn("failed to record run", "error", err)
		}
	}

	tui.Render(os.Stdout, report, rich)

	if runErr != nil {
		return &ExitError{Code: 1, Message: runErr.Error()}
	}
	return nil
}

func loadConfig(opts Options) (*config.Config, error) {
	projectDir := opts.ProjectDir
	if projectDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		projectDir = wd
	}

	cfg, err := config.Load(projectDir, opts.ConfigPath)
	if err != nil {
		return nil, usageError("%v", err)
	}

	if opts.Backend != "" {
		cfg.Backend = config.Backend(opts.Backend)
		if err := cfg.Validate(); err != nil {
			return nil, usageError("%v", err)
		}
	}
	return cfg, nil
}

// buildSteps assembles the ordered step list for a stage. For "up" the
// backend decides what is actually needed: only the source build requires
// a native toolchain, and the remote backend has no local model to fetch.
func buildSteps(stage string, cfg *config.Config, exec process.Executor, fetcher *fetch.Fetcher, metrics *statushttp.Metrics, logger *slog.Logger) ([]ports.Step, error) {
	toolchainSteps := func() []ports.Step {
		return toolchain.NewReconciler(exec, fetcher, logger, cfg).Steps()
	}
	envSteps := func() ([]ports.Step, error) {
		installer, err := pyenv.NewBuilder(exec, logger, cfg).Installer()
		if err != nil {
			return nil, usageError("%v", err)
		}
		return installer.Steps()
	}

	switch stage {
	case StageToolchain:
		return toolchainSteps(), nil

	case StageEnv:
		return envSteps()

	case StageModel:
		return []ports.Step{modelStep(cfg, fetcher, metrics, logger)}, nil

	case StageUp:
		var steps []ports.Step
		if cfg.Backend == config.BackendSource {
			steps = append(steps, toolchainSteps()...)
		}
		env, err := envSteps()
		if err != nil {
			return nil, err
		}
		steps = append(steps, env...)
		if cfg.Backend != config.BackendRemote {
			steps = append(steps, modelStep(cfg, fetcher, metrics, logger))
		}
		return steps, nil

	default:
		return nil, usageError("unknown stage %q", stage)
	}
}
