// Package pyenv builds the isolated Python environment: venv creation, pip
// bootstrap, the pinned build-from-source native dependency, and the
// requirements manifest. Three install strategies (compile from source,
// prebuilt conda package, or hosted model API with no native dependency)
// implement the same contract, selected by one config field.
package pyenv

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/electionlab/groundwork/internal/adapters/process"
	"github.com/electionlab/groundwork/internal/config"
	"github.com/electionlab/groundwork/pkg/domain"
	"github.com/electionlab/groundwork/pkg/ports"
)

// Builder wires the dependencies every install strategy needs.
type Builder struct {
	exec   process.Executor
	logger *slog.Logger
	cfg    *config.Config
}

// NewBuilder creates an environment builder.
func NewBuilder(exec process.Executor, logger *slog.Logger, cfg *config.Config) *Builder {
	return &Builder{exec: exec, logger: logger, cfg: cfg}
}

// Installer returns the strategy selected by the manifest.
func (b *Builder) Installer() (ports.Installer, error) {
	switch b.cfg.Backend {
	case config.BackendSource:
		return &sourceInstaller{b: b}, nil
	case config.BackendConda:
		return &condaInstaller{b: b}, nil
	case config.BackendRemote:
		return &remoteInstaller{b: b}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownBackend, b.cfg.Backend)
	}
}

// basePython resolves the interpreter used to create the venv. An explicit
// manifest override wins; otherwise python3 then python are probed.
func (b *Builder) basePython() (string, error) {
	candidates := []string{"python3", "python"}
	if runtime.GOOS == "windows" {
		candidates = []string{"python", "py"}
	}
	if b.cfg.Python.Interpreter != "" {
		candidates = []string{b.cfg.Python.Interpreter}
	}

	for _, name := range candidates {
		if path, err := b.exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no python interpreter found (tried %v)", candidates)
}

// venvPython is the interpreter inside the environment. All package
// operations go through it directly, which scopes installs to the venv
// without sourcing an activation script.
func (b *Builder) venvPython() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(b.cfg.VenvPath(), "Scripts", "python.exe")
	}
	return filepath.Join(b.cfg.VenvPath(), "bin", "python")
}

// pip builds a `<venv python> -m pip ...` invocation.
func (b *Builder) pip(args ...string) process.Command {
	return process.Command{
		Path: b.venvPython(),
		Args: append([]string{"-m", "pip"}, args...),
		Dir:  b.cfg.ProjectDir,
	}
}
