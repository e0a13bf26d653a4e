package pyenv

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/electionlab/groundwork/internal/adapters/process"
	"github.com/electionlab/groundwork/internal/toolchain"
	"github.com/electionlab/groundwork/pkg/domain"
)

// toolchainGuardStep fails fast when the host cannot compile native
// extensions, instead of letting the pinned install die deep inside a
// compiler invocation.
type toolchainGuardStep struct {
	b *Builder
}

func (s *toolchainGuardStep) Name() string { return "verify build toolchain" }

func (s *toolchainGuardStep) ShouldRun(ctx context.Context) (bool, string, error) {
	return true, "", nil
}

func (s *toolchainGuardStep) Apply(ctx context.Context) (string, error) {
	state := toolchain.Probe(ctx, s.b.exec)
	if !state.Ready() {
		var missing []string
		if !state.Compiler.Found {
			missing = append(missing, "C/C++ compiler")
		}
		if !state.CMake.Found {
			missing = append(missing, "cmake")
		}
		return "", fmt.Errorf("build toolchain missing (%s); run `groundwork toolchain` first", strings.Join(missing, ", "))
	}
	return fmt.Sprintf("%s %s, cmake %s", state.Compiler.Name, state.Compiler.Version, state.CMake.Version), nil
}

// createVenvStep recreates the isolated environment. `--clear` empties a
// pre-existing directory, which is what makes re-provisioning converge on
// the same package set instead of accreting leftovers.
type createVenvStep struct {
	b *Builder
}

func (s *createVenvStep) Name() string { return "create venv" }

func (s *createVenvStep) ShouldRun(ctx context.Context) (bool, string, error) {
	return true, "", nil
}

func (s *createVenvStep) Apply(ctx context.Context) (string, error) {
	python, err := s.b.basePython()
	if err != nil {
		return "", err
	}

	res, err := s.b.exec.Run(ctx, process.Command{
		Path: python,
		Args: []string{"-m", "venv", "--clear", s.b.cfg.VenvPath()},
		Dir:  s.b.cfg.ProjectDir,
	})
	if err != nil {
		return res.Tail(5), err
	}
	return s.b.cfg.VenvPath(), nil
}

// upgradePipStep upgrades the package installer itself before anything is
// installed through it.
type upgradePipStep struct {
	b *Builder
}

func (s *upgradePipStep) Name() string { return "upgrade pip" }

func (s *upgradePipStep) ShouldRun(ctx context.Context) (bool, string, error) {
	return true, "", nil
}

func (s *upgradePipStep) Apply(ctx context.Context) (string, error) {
	res, err := s.b.exec.Run(ctx, s.b.pip("install", "--upgrade", "pip"))
	if err != nil {
		return res.Tail(5), err
	}
	return res.Tail(1), nil
}

// buildDepsStep installs wheel-building support and the cmake binding so
// the pinned dependency can be compiled.
type buildDepsStep struct {
	b *Builder
}

func (s *buildDepsStep) Name() string { return "install build dependencies" }

func (s *buildDepsStep) ShouldRun(ctx context.Context) (bool, string, error) {
	if len(s.b.cfg.Python.BuildDeps) == 0 {
		return false, "no build dependencies declared", nil
	}
	return true, "", nil
}

func (s *buildDepsStep) Apply(ctx context.Context) (string, error) {
	args := append([]string{"install"}, s.b.cfg.Python.BuildDeps...)
	res, err := s.b.exec.Run(ctx, s.b.pip(args...))
	if err != nil {
		return res.Tail(5), err
	}
	return res.Tail(1), nil
}

// installPinnedStep installs the exact-version native dependency. The
// BuildConfiguration variables live on this invocation only: they are read
// at build time and have no meaning before or after. Cache is disabled and
// output is verbose so a failed native build is diagnosable from the run
// report.
type installPinnedStep struct {
	b *Builder
}

func (s *installPinnedStep) Name() string {
	return "install pinned dependency"
}

func (s *installPinnedStep) ShouldRun(ctx context.Context) (bool, string, error) {
	return true, "", nil
}

func (s *installPinnedStep) Apply(ctx context.Context) (string, error) {
	cmd := s.b.pip("install", "--no-cache-dir", "-v", s.b.cfg.Python.Pinned.Spec())
	cmd.Env = s.b.cfg.Python.Pinned.Env
	cmd.Stream = true

	res, err := s.b.exec.Run(ctx, cmd)
	if err != nil {
		return res.Tail(20), err
	}
	return res.Tail(3), nil
}

// installRequirementsStep installs the remaining declared dependencies. A
// missing manifest fails the step (and therefore the run) instead of
// quietly provisioning an environment with only the native dependency.
type installRequirementsStep struct {
	b *Builder
	// pip runs inside the venv by default; the conda installer overrides
	// the command builder to run inside its env.
	pip func(args ...string) process.Command
}

func (s *installRequirementsStep) Name() string { return "install requirements" }

func (s *installRequirementsStep) ShouldRun(ctx context.Context) (bool, string, error) {
	return true, "", nil
}

func (s *installRequirementsStep) Apply(ctx context.Context) (string, error) {
	manifest := s.b.cfg.RequirementsPath()
	if _, err := os.Stat(manifest); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", domain.ErrManifestMissing, manifest)
		}
		return "", fmt.Errorf("failed to read manifest: %w", err)
	}

	pip := s.pip
	if pip == nil {
		pip = s.b.pip
	}
	res, err := s.b.exec.Run(ctx, pip("install", "-r", manifest))
	if err != nil {
		return res.Tail(10), err
	}
	return res.Tail(1), nil
}
