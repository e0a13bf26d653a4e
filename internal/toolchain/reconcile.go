package toolchain

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/electionlab/groundwork/internal/adapters/process"
	"github.com/electionlab/groundwork/internal/config"
	"github.com/electionlab/groundwork/internal/fetch"
	"github.com/electionlab/groundwork/pkg/domain"
	"github.com/electionlab/groundwork/pkg/ports"
)

// compilerInstallerOptions are the installer knobs carried in the manifest's
// free-form metadata block (Windows VS Build Tools invocation).
type compilerInstallerOptions struct {
	Workload           string `mapstructure:"workload"`
	IncludeRecommended bool   `mapstructure:"include_recommended"`
	InstallPath        string `mapstructure:"install_path"`
}

// Reconciler turns the desired toolchain state into ordered steps.
type Reconciler struct {
	exec    process.Executor
	fetcher *fetch.Fetcher
	logger  *slog.Logger
	cfg     *config.Config

	// scratch is where installer binaries land before invocation and is
	// emptied by the cleanup step afterwards.
	scratch string

	// elevated is swappable for tests.
	elevated func() bool
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithScratchDir overrides where installer binaries are downloaded.
func WithScratchDir(dir string) Option {
	return func(r *Reconciler) { r.scratch = dir }
}

// WithElevationCheck overrides privilege detection (tests).
func WithElevationCheck(f func() bool) Option {
	return func(r *Reconciler) { r.elevated = f }
}

// NewReconciler creates a toolchain reconciler.
func NewReconciler(exec process.Executor, fetcher *fetch.Fetcher, logger *slog.Logger, cfg *config.Config, opts ...Option) *Reconciler {
	r := &Reconciler{
		exec:     exec,
		fetcher:  fetcher,
		logger:   logger,
		cfg:      cfg,
		scratch:  filepath.Join(os.TempDir(), "groundwork-installers"),
		elevated: isElevated,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Probe re-exports the host probe for plan/status output.
func (r *Reconciler) Probe(ctx context.Context) domain.ToolchainState {
	return Probe(ctx, r.exec)
}

// Steps builds the ordered reconciliation plan: compiler, then CMake, then
// cleanup of downloaded installer artifacts.
func (r *Reconciler) Steps() []ports.Step {
	return []ports.Step{
		&installToolStep{r: r, tool: "compiler", spec: r.cfg.Toolchain.Compiler},
		&installToolStep{r: r, tool: "cmake", spec: r.cfg.Toolchain.CMake},
		&cleanupStep{r: r},
	}
}

// installToolStep reconciles one tool: skip when the probe satisfies the
// pinned minimum, otherwise fetch the pinned installer and invoke it
// non-interactively.
type installToolStep struct {
	r    *Reconciler
	tool string // "compiler" | "cmake"
	spec config.ToolSpec
}

func (s *installToolStep) Name() string {
	return "install " + s.tool
}

func (s *installToolStep) ShouldRun(ctx context.Context) (bool, string, error) {
	state := Probe(ctx, s.r.exec)
	status := state.CMake
	if s.tool == "compiler" {
		status = state.Compiler
	}

	if status.Found && versionAtLeast(status.Version, s.spec.MinVersion) {
		version := status.Version
		if version == "" {
			version = "unknown version"
		}
		return false, fmt.Sprintf("%s %s already on PATH", status.Name, version), nil
	}
	return true, "", nil
}

func (s *installToolStep) Apply(ctx context.Context) (string, error) {
	if !s.r.elevated() {
		return "", fmt.Errorf("%w: installing the %s mutates system state; re-run elevated", domain.ErrElevationRequired, s.tool)
	}

	if runtime.GOOS != "windows" {
		return s.applyUnix(ctx)
	}

	if s.spec.URL == "" {
		return "", fmt.Errorf("no installer URL pinned for %s", s.tool)
	}

	dest := filepath.Join(s.r.scratch, installerFileName(s.spec.URL))
	if _, err := s.r.fetcher.Download(ctx, s.spec.URL, dest, fetch.Options{}); err != nil {
		return "", err
	}

	cmd, err := s.installerCommand(dest)
	if err != nil {
		return "", err
	}

	res, err := s.r.exec.Run(ctx, cmd)
	if err != nil {
		return res.Tail(10), err
	}
	return res.Tail(10), nil
}

// installerCommand builds the silent invocation for the downloaded installer.
func (s *installToolStep) installerCommand(installerPath string) (process.Command, error) {
	if strings.EqualFold(filepath.Ext(installerPath), ".msi") {
		return process.Command{
			Path: "msiexec",
			Args: []string{"/i", installerPath, "/qn", "ADD_CMAKE_TO_PATH=System"},
		}, nil
	}

	if s.tool == "compiler" {
		var opts compilerInstallerOptions
		if err := config.DecodeMetadata(s.spec.Metadata, &opts); err != nil {
			return process.Command{}, err
		}
		args := []string{"--quiet", "--wait", "--norestart", "--nocache"}
		if opts.Workload != "" {
			args = append(args, "--add", opts.Workload)
		}
		if opts.IncludeRecommended {
			args = append(args, "--includeRecommended")
		}
		if opts.InstallPath != "" {
			args = append(args, "--installPath", opts.InstallPath)
		}
		return process.Command{Path: installerPath, Args: args, Stream: true}, nil
	}

	return process.Command{Path: installerPath, Args: []string{"/S"}}, nil
}

// applyUnix installs through the system package manager instead of a
// downloaded installer; the pinned URLs are Windows artifacts.
func (s *installToolStep) applyUnix(ctx context.Context) (string, error) {
	pkgs := map[string][]string{
		"compiler": {"build-essential"},
		"cmake":    {"cmake"},
	}[s.tool]

	aptGet, err := s.r.exec.LookPath("apt-get")
	if err != nil {
		return "", fmt.Errorf("no supported package manager found; install %s manually", strings.Join(pkgs, " "))
	}

	res, err := s.r.exec.Run(ctx, process.Command{
		Path: aptGet,
		Args: append([]string{"install", "-y"}, pkgs...),
		Env:  map[string]string{"DEBIAN_FRONTEND": "noninteractive"},
	})
	if err != nil {
		return res.Tail(10), err
	}
	return res.Tail(10), nil
}

// cleanupStep removes downloaded installer binaries. The success path
// verifies removal (the scripts only attempted it).
type cleanupStep struct {
	r *Reconciler
}

func (s *cleanupStep) Name() string { return "cleanup installers" }

func (s *cleanupStep) ShouldRun(ctx context.Context) (bool, string, error) {
	entries, err := os.ReadDir(s.r.scratch)
	if os.IsNotExist(err) || (err == nil && len(entries) == 0) {
		return false, "no installer artifacts to remove", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("failed to inspect scratch directory: %w", err)
	}
	return true, "", nil
}

func (s *cleanupStep) Apply(ctx context.Context) (string, error) {
	entries, err := os.ReadDir(s.r.scratch)
	if err != nil {
		return "", fmt.Errorf("failed to list scratch directory: %w", err)
	}

	var removed []string
	for _, e := range entries {
		removed = append(removed, e.Name())
	}

	if err := os.RemoveAll(s.r.scratch); err != nil {
		return "", fmt.Errorf("failed to remove installer artifacts: %w", err)
	}
	if _, err := os.Stat(s.r.scratch); !os.IsNotExist(err) {
		return "", fmt.Errorf("scratch directory still present after cleanup")
	}

	return "removed " + strings.Join(removed, ", "), nil
}

// installerFileName derives a local file name from the pinned URL.
func installerFileName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || path.Base(u.Path) == "." || path.Base(u.Path) == "/" {
		return "installer.bin"
	}
	return path.Base(u.Path)
}
