package pyenv

import (
	"context"
	"fmt"
	"strings"

	"github.com/electionlab/groundwork/internal/adapters/process"
	"github.com/electionlab/groundwork/internal/pipeline"
	"github.com/electionlab/groundwork/pkg/ports"
)

// condaInstaller provisions through a package-manager-distributed prebuilt
// binary instead of a source build. This is the first documented fallback
// for hosts where the native build cannot succeed.
type condaInstaller struct {
	b *Builder
}

func (i *condaInstaller) Name() string { return "conda" }

func (i *condaInstaller) Steps() ([]ports.Step, error) {
	binary, err := i.b.exec.LookPath(i.b.cfg.Conda.Binary)
	if err != nil {
		return nil, fmt.Errorf("conda backend selected but %q is not on PATH: %w", i.b.cfg.Conda.Binary, err)
	}

	envName := i.b.cfg.Conda.Env
	channel := i.b.cfg.Conda.Channel

	createEnv := pipeline.FuncStep{
		StepName: "create conda env",
		Check: func(ctx context.Context) (bool, string, error) {
			res, err := i.b.exec.Run(ctx, process.Command{Path: binary, Args: []string{"env", "list"}})
			if err != nil {
				// Listing failing is unusual but not fatal; create will
				// surface the real problem.
				return true, "", nil
			}
			if strings.Contains(res.Stdout, envName) {
				return false, fmt.Sprintf("conda env %q already exists", envName), nil
			}
			return true, "", nil
		},
		Do: func(ctx context.Context) (string, error) {
			res, err := i.b.exec.Run(ctx, process.Command{
				Path: binary,
				Args: []string{"create", "-y", "-n", envName, "python"},
			})
			if err != nil {
				return res.Tail(5), err
			}
			return envName, nil
		},
	}

	installPinned := pipeline.FuncStep{
		StepName: "install pinned dependency (conda)",
		Do: func(ctx context.Context) (string, error) {
			// Conda pins with a single '='.
			spec := i.b.cfg.Python.Pinned.Package
			if v := i.b.cfg.Python.Pinned.Version; v != "" {
				spec += "=" + v
			}
			res, err := i.b.exec.Run(ctx, process.Command{
				Path: binary,
				Args: []string{"install", "-y", "-n", envName, "-c", channel, spec},
			})
			if err != nil {
				return res.Tail(10), err
			}
			return res.Tail(1), nil
		},
	}

	// Remaining declared dependencies install through pip inside the env.
	requirements := &installRequirementsStep{
		b: i.b,
		pip: func(args ...string) process.Command {
			return process.Command{
				Path: binary,
				Args: append([]string{"run", "-n", envName, "python", "-m", "pip"}, args...),
				Dir:  i.b.cfg.ProjectDir,
			}
		},
	}

	return []ports.Step{createEnv, installPinned, requirements}, nil
}
