package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	statushttp "github.com/electionlab/groundwork/internal/adapters/http"
	"github.com/electionlab/groundwork/internal/config"
	"github.com/electionlab/groundwork/internal/fetch"
	"github.com/electionlab/groundwork/internal/logging"
	"github.com/electionlab/groundwork/internal/testutils"
	"github.com/electionlab/groundwork/pkg/domain"
)

func stepNames(t *testing.T, stage string, cfg *config.Config) []string {
	t.Helper()
	exec := &testutils.FakeExecutor{Binaries: map[string]string{
		"python3":    "/usr/bin/python3",
		"micromamba": "/usr/local/bin/micromamba",
	}}
	logger := logging.NewNop()
	steps, err := buildSteps(stage, cfg, exec, fetch.New(nil, logger), statushttp.NewMetrics(), logger)
	require.NoError(t, err)

	names := make([]string, 0, len(steps))
	for _, s := range steps {
		names = append(names, s.Name())
	}
	return names
}

func TestBuildStepsUpSource(t *testing.T) {
	cfg := config.Default(t.TempDir())

	names := stepNames(t, StageUp, cfg)

	assert.Equal(t, []string{
		"install compiler",
		"install cmake",
		"cleanup installers",
		"verify build toolchain",
		"create venv",
		"upgrade pip",
		"install build dependencies",
		"install pinned dependency",
		"install requirements",
		"fetch model artifact",
	}, names)
}

func TestBuildStepsUpRemoteSkipsToolchainAndModel(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Backend = config.BackendRemote

	names := stepNames(t, StageUp, cfg)

	assert.NotContains(t, names, "install compiler")
	assert.NotContains(t, names, "fetch model artifact")
	assert.Contains(t, names, "verify api credentials")
}

func TestBuildStepsUpCondaSkipsToolchainOnly(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Backend = config.BackendConda

	names := stepNames(t, StageUp, cfg)

	assert.NotContains(t, names, "install compiler")
	assert.Contains(t, names, "create conda env")
	assert.Contains(t, names, "fetch model artifact")
}

func TestBuildStepsUnknownStage(t *testing.T) {
	cfg := config.Default(t.TempDir())
	logger := logging.NewNop()

	_, err := buildSteps("deploy", cfg, &testutils.FakeExecutor{}, fetch.New(nil, logger), statushttp.NewMetrics(), logger)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestLoadConfigBackendOverride(t *testing.T) {
	cfg, err := loadConfig(Options{ProjectDir: t.TempDir(), Backend: "remote"})
	require.NoError(t, err)
	assert.Equal(t, config.BackendRemote, cfg.Backend)
}

func TestLoadConfigRejectsBadBackend(t *testing.T) {
	_, err := loadConfig(Options{ProjectDir: t.TempDir(), Backend: "docker"})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestModelStepSkipsWhenPresent(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default(dir)
	dest := cfg.Model.Path(dir)
	require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0o755))
	require.NoError(t, os.WriteFile(dest, []byte("weights"), 0o644))

	logger := logging.NewNop()
	step := modelStep(cfg, fetch.New(nil, logger), statushttp.NewMetrics(), logger)

	run, reason, err := step.ShouldRun(context.Background())
	require.NoError(t, err)
	assert.False(t, run)
	assert.Contains(t, reason, cfg.Model.Name)
}

func TestModelStepSkipsWhenUnconfigured(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Model.URL = ""

	logger := logging.NewNop()
	step := modelStep(cfg, fetch.New(nil, logger), statushttp.NewMetrics(), logger)

	run, reason, err := step.ShouldRun(context.Background())
	require.NoError(t, err)
	assert.False(t, run)
	assert.Equal(t, "no model configured", reason)
}

func TestPrintToolNamesMissingTool(t *testing.T) {
	var buf bytes.Buffer

	printTool(&buf, "compiler", domain.ToolStatus{})
	assert.Contains(t, buf.String(), "compiler")
	assert.Contains(t, buf.String(), "not found")

	buf.Reset()
	printTool(&buf, "cmake", domain.ToolStatus{
		Name: "cmake", Found: true, Version: "3.27.7", Path: "/usr/bin/cmake",
	})
	assert.Equal(t, "cmake    3.27.7 (/usr/bin/cmake)\n", buf.String())

	buf.Reset()
	printTool(&buf, "compiler", domain.ToolStatus{
		Name: "gcc", Found: true, Version: "13.2.0", Path: "/usr/bin/gcc",
	})
	assert.Equal(t, "compiler gcc 13.2.0 (/usr/bin/gcc)\n", buf.String())
}

func TestConfirmRefusesNonTTY(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	assert.False(t, confirm(r, os.Stderr, "proceed?"))
}

func TestOpenStoresFileDefault(t *testing.T) {
	cfg := config.Default(t.TempDir())

	journal, locker, closeStores, err := openStores(cfg)
	require.NoError(t, err)
	defer closeStores()

	require.NotNil(t, journal)
	require.NotNil(t, locker)

	_, err = journal.Latest(context.Background())
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}
