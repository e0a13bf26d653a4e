package groundwork

import (
	"context"
	"fmt"
	"os"

	"github.com/electionlab/groundwork/internal/adapters/process"
	"github.com/electionlab/groundwork/internal/config"
	"github.com/electionlab/groundwork/internal/fetch"
	"github.com/electionlab/groundwork/internal/logging"
	"github.com/electionlab/groundwork/internal/pipeline"
	"github.com/electionlab/groundwork/internal/pyenv"
	"github.com/electionlab/groundwork/internal/toolchain"
	"github.com/electionlab/groundwork/pkg/domain"
	"github.com/electionlab/groundwork/pkg/ports"
)

// Version is the release version, overridable at build time via
// -ldflags "-X github.com/electionlab/groundwork.Version=...".
var Version = "0.1.0"

// Plan probes projectDir against its provisioning manifest and reports
// what a real run would do, without mutating the host. It is the library
// entry point for embedding the pipeline in other tooling; the groundwork
// binary is the usual interface.
func Plan(ctx context.Context, projectDir string) (*domain.RunReport, error) {
	cfg, err := config.Load(projectDir, "")
	if err != nil {
		return nil, err
	}

	logger := logging.NewNop()
	exec := process.NewRunner(logger)
	fetcher := fetch.New(nil, logger)

	var steps []ports.Step
	if cfg.Backend == config.BackendSource {
		steps = append(steps, toolchain.NewReconciler(exec, fetcher, logger, cfg).Steps()...)
	}

	installer, err := pyenv.NewBuilder(exec, logger, cfg).Installer()
	if err != nil {
		return nil, err
	}
	envSteps, err := installer.Steps()
	if err != nil {
		return nil, err
	}
	steps = append(steps, envSteps...)

	if cfg.Backend != config.BackendRemote && cfg.Model.URL != "" {
		steps = append(steps, modelPresenceStep(cfg))
	}

	runner := pipeline.NewRunner(logger, pipeline.WithDryRun(true))
	report, err := runner.Run(ctx, "plan", steps)
	if report != nil {
		report.Backend = string(cfg.Backend)
	}
	return report, err
}

// modelPresenceStep is the probe-only shape of the model download: planning
// never fetches, it just reports whether the artifact is already there.
func modelPresenceStep(cfg *config.Config) ports.Step {
	dest := cfg.Model.Path(cfg.ProjectDir)
	return pipeline.FuncStep{
		StepName: "fetch model artifact",
		Check: func(ctx context.Context) (bool, string, error) {
			if _, err := os.Stat(dest); err == nil {
				return false, fmt.Sprintf("%s already present", cfg.Model.Name), nil
			}
			return true, "", nil
		},
		Do: func(ctx context.Context) (string, error) {
			return "", fmt.Errorf("plan does not download artifacts")
		},
	}
}
