package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/electionlab/groundwork/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingManifestUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.Load(dir, "")
	require.NoError(t, err)

	assert.Equal(t, config.BackendSource, cfg.Backend)
	assert.Equal(t, "llama-cpp-python==0.2.11", cfg.Python.Pinned.Spec())
	assert.Equal(t, "1", cfg.Python.Pinned.Env["FORCE_CMAKE"])
	assert.Equal(t, filepath.Join(dir, ".venv"), cfg.VenvPath())
	assert.Equal(t, filepath.Join(dir, "requirements.txt"), cfg.RequirementsPath())
	assert.Equal(t, filepath.Join(dir, "models", "llama-2-7b-chat.Q4_K_M.gguf"), cfg.Model.Path(dir))
}

func TestLoad_ManifestOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	manifest := `
backend: conda
venv:
  path: env
python:
  pinned:
    package: llama-cpp-python
    version: 0.2.20
    env:
      FORCE_CMAKE: "1"
      CMAKE_ARGS: "-DGGML_CUDA=off -DGGML_AVX2=off"
requirements: deps/requirements.txt
journal:
  kind: memory
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFileName), []byte(manifest), 0644))

	cfg, err := config.Load(dir, "")
	require.NoError(t, err)

	assert.Equal(t, config.BackendConda, cfg.Backend)
	assert.Equal(t, filepath.Join(dir, "env"), cfg.VenvPath())
	assert.Equal(t, "llama-cpp-python==0.2.20", cfg.Python.Pinned.Spec())
	assert.Equal(t, "-DGGML_CUDA=off -DGGML_AVX2=off", cfg.Python.Pinned.Env["CMAKE_ARGS"])
	assert.Equal(t, filepath.Join(dir, "deps", "requirements.txt"), cfg.RequirementsPath())
	assert.Equal(t, "memory", cfg.Journal.Kind)

	// Untouched sections keep defaults.
	assert.Equal(t, "micromamba", cfg.Conda.Binary)
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFileName), []byte("backend: docker\n"), 0644))

	_, err := config.Load(dir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend must be")
}

func TestLoad_RedisJournalRequiresAddr(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFileName), []byte("journal:\n  kind: redis\n"), 0644))

	_, err := config.Load(dir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis.addr")
}

func TestDecodeMetadata(t *testing.T) {
	type installerOptions struct {
		Workload           string `mapstructure:"workload"`
		IncludeRecommended bool   `mapstructure:"include_recommended"`
		InstallPath        string `mapstructure:"install_path"`
	}

	cfg := config.Default(t.TempDir())

	var opts installerOptions
	require.NoError(t, config.DecodeMetadata(cfg.Toolchain.Compiler.Metadata, &opts))

	assert.Equal(t, "Microsoft.VisualStudio.Workload.VCTools", opts.Workload)
	assert.True(t, opts.IncludeRecommended)
	assert.Equal(t, `C:\BuildTools`, opts.InstallPath)
}

func TestLoadCredentials(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := `
# API credentials
NEWS_API_KEY=abc123
TWITTER_API_KEY="quoted-value"
EMPTY=
not a pair
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0600))

	creds, err := config.LoadCredentials(envFile)
	require.NoError(t, err)

	assert.Equal(t, "abc123", creds["NEWS_API_KEY"])
	assert.Equal(t, "quoted-value", creds["TWITTER_API_KEY"])

	missing := creds.Missing([]string{"NEWS_API_KEY", "EMPTY", "TWITTER_API_SECRET"})
	assert.Equal(t, []string{"EMPTY", "TWITTER_API_SECRET"}, missing)
}

func TestLoadCredentials_MissingFileIsEmpty(t *testing.T) {
	creds, err := config.LoadCredentials(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	assert.Empty(t, creds)
}
