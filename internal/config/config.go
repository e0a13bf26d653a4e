// Package config loads the provisioning manifest (provision.yaml) and the
// local credentials file. Defaults mirror the original setup scripts, so a
// project with no manifest still provisions the same environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend identifies the dependency-install strategy.
type Backend string

const (
	// BackendSource compiles the pinned native dependency from source.
	BackendSource Backend = "source"
	// BackendConda installs a prebuilt package via conda/micromamba.
	BackendConda Backend = "conda"
	// BackendRemote skips the native dependency entirely and points the
	// application at a hosted model API instead.
	BackendRemote Backend = "remote"
)

// Config is the parsed provisioning manifest.
type Config struct {
	// ProjectDir anchors all relative paths. Not read from YAML; set by
	// the loader from the manifest location or the CLI flag.
	ProjectDir string `yaml:"-"`

	Backend Backend `yaml:"backend"`

	Venv      VenvConfig   `yaml:"venv"`
	Python    PythonConfig `yaml:"python"`
	Toolchain Toolchain    `yaml:"toolchain"`
	Model     ModelConfig  `yaml:"model"`

	// Requirements is the dependency manifest, relative to ProjectDir.
	Requirements string `yaml:"requirements"`

	Credentials CredentialsConfig `yaml:"credentials"`
	Conda       CondaConfig       `yaml:"conda"`
	Journal     JournalConfig     `yaml:"journal"`
	Lock        LockConfig        `yaml:"lock"`
}

// VenvConfig describes the isolated interpreter environment.
type VenvConfig struct {
	Path string `yaml:"path"`
}

// PythonConfig describes the interpreter and package installs.
type PythonConfig struct {
	// Interpreter is the base interpreter used to create the venv.
	// Empty means probe python3 then python.
	Interpreter string `yaml:"interpreter"`

	// BuildDeps are installed before the pinned dependency so wheels can
	// be built from source.
	BuildDeps []string `yaml:"build_deps"`

	Pinned PinnedDep `yaml:"pinned"`
}

// PinnedDep is the build-from-source native dependency.
type PinnedDep struct {
	Package string `yaml:"package"`
	Version string `yaml:"version"`

	// Env holds the BuildConfiguration variables (force source build,
	// acceleration backend flags). They are applied to the install
	// process only, matching the install-time-only semantics of the
	// original scripts.
	Env map[string]string `yaml:"env"`
}

// Spec returns the pip requirement specifier, e.g. "llama-cpp-python==0.2.11".
func (p PinnedDep) Spec() string {
	if p.Version == "" {
		return p.Package
	}
	return p.Package + "==" + p.Version
}

// Toolchain is the desired state of the native build toolchain.
type Toolchain struct {
	Compiler ToolSpec `yaml:"compiler"`
	CMake    ToolSpec `yaml:"cmake"`
}

// ToolSpec pins one tool: the minimum acceptable version and where to get
// the installer when the host does not satisfy it.
type ToolSpec struct {
	MinVersion string `yaml:"min_version"`
	URL        string `yaml:"url"`

	// Metadata carries installer-specific options (silent-install flags,
	// workload identifiers, install paths). Decoded into typed option
	// structs with DecodeMetadata where they are consumed.
	Metadata map[string]any `yaml:"metadata"`
}

// ModelConfig describes the quantized model artifact the application expects
// at a fixed relative path.
type ModelConfig struct {
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	SHA256 string `yaml:"sha256"`
	Dir    string `yaml:"dir"`
}

// Path returns the artifact destination relative to the project root.
func (m ModelConfig) Path(projectDir string) string {
	return filepath.Join(projectDir, m.Dir, m.Name)
}

// CredentialsConfig points at the local, git-ignored credentials file the
// application reads API keys from.
type CredentialsConfig struct {
	Path string `yaml:"path"`

	// Required lists the keys the remote backend needs before it can
	// substitute a hosted API for the local model.
	Required []string `yaml:"required"`
}

// CondaConfig configures the prebuilt-package-manager backend.
type CondaConfig struct {
	Binary  string `yaml:"binary"`
	Channel string `yaml:"channel"`
	Env     string `yaml:"env"`
}

// JournalConfig selects where run reports are persisted.
type JournalConfig struct {
	Kind  string      `yaml:"kind"` // file | redis | memory
	Path  string      `yaml:"path"`
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig is the connection for the redis journal/lock adapters.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LockConfig bounds how long a crashed run can keep the host locked.
type LockConfig struct {
	TTL time.Duration `yaml:"-"`
}

// UnmarshalYAML accepts Go duration strings ("30m", "1h") for the TTL.
func (l *LockConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		TTL string `yaml:"ttl"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.TTL == "" {
		return nil
	}
	d, err := time.ParseDuration(raw.TTL)
	if err != nil {
		return fmt.Errorf("invalid lock.ttl: %w", err)
	}
	l.TTL = d
	return nil
}

// DefaultFileName is the manifest looked up under the project directory.
const DefaultFileName = "provision.yaml"

// Default returns the configuration matching the original setup scripts:
// VS Build Tools + CMake on Windows hosts, llama-cpp-python pinned and
// built from source with GPU acceleration off, requirements.txt manifest,
// and the quantized chat model under models/.
func Default(projectDir string) *Config {
	return &Config{
		ProjectDir: projectDir,
		Backend:    BackendSource,
		Venv:       VenvConfig{Path: ".venv"},
		Python: PythonConfig{
			BuildDeps: []string{"setuptools", "wheel", "cmake"},
			Pinned: PinnedDep{
				Package: "llama-cpp-python",
				Version: "0.2.11",
				Env: map[string]string{
					"FORCE_CMAKE": "1",
					"CMAKE_ARGS":  "-DLLAMA_CUBLAS=off",
				},
			},
		},
		Toolchain: Toolchain{
			Compiler: ToolSpec{
				MinVersion: "14.0",
				URL:        "https://aka.ms/vs/17/release/vs_BuildTools.exe",
				Metadata: map[string]any{
					"workload":            "Microsoft.VisualStudio.Workload.VCTools",
					"include_recommended": true,
					"install_path":        `C:\BuildTools`,
				},
			},
			CMake: ToolSpec{
				MinVersion: "3.26",
				URL:        "https://github.com/Kitware/CMake/releases/download/v3.27.7/cmake-3.27.7-windows-x86_64.msi",
			},
		},
		Model: ModelConfig{
			Name: "llama-2-7b-chat.Q4_K_M.gguf",
			URL:  "https://huggingface.co/TheBloke/Llama-2-7B-Chat-GGUF/resolve/main/llama-2-7b-chat.Q4_K_M.gguf",
			Dir:  "models",
		},
		Requirements: "requirements.txt",
		Credentials: CredentialsConfig{
			Path: ".env",
			Required: []string{
				"NEWS_API_KEY",
				"TWITTER_API_KEY",
				"TWITTER_API_SECRET",
				"TWITTER_ACCESS_TOKEN",
				"TWITTER_ACCESS_TOKEN_SECRET",
			},
		},
		Conda: CondaConfig{
			Binary:  "micromamba",
			Channel: "conda-forge",
			Env:     "election-research",
		},
		Journal: JournalConfig{
			Kind: "file",
			Path: filepath.Join(".groundwork", "runs"),
		},
		Lock: LockConfig{TTL: 30 * time.Minute},
	}
}

// Load reads the manifest at path. A missing file is not an error: the
// defaults already describe the stock environment. Values present in the
// file override defaults field by field.
func Load(projectDir, path string) (*Config, error) {
	cfg := Default(projectDir)

	if path == "" {
		path = filepath.Join(projectDir, DefaultFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	cfg.ProjectDir = projectDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the enumerated fields.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSource, BackendConda, BackendRemote:
	default:
		return fmt.Errorf("%q: backend must be source, conda or remote", c.Backend)
	}
	switch c.Journal.Kind {
	case "file", "redis", "memory":
	default:
		return fmt.Errorf("%q: journal kind must be file, redis or memory", c.Journal.Kind)
	}
	if c.Journal.Kind == "redis" && c.Journal.Redis.Addr == "" {
		return fmt.Errorf("journal kind redis requires journal.redis.addr")
	}
	if c.Python.Pinned.Package == "" {
		return fmt.Errorf("python.pinned.package must be set")
	}
	return nil
}

// RequirementsPath resolves the manifest file against the project root.
func (c *Config) RequirementsPath() string {
	return filepath.Join(c.ProjectDir, c.Requirements)
}

// VenvPath resolves the environment directory against the project root.
func (c *Config) VenvPath() string {
	return filepath.Join(c.ProjectDir, c.Venv.Path)
}

// CredentialsPath resolves the credentials file against the project root.
func (c *Config) CredentialsPath() string {
	return filepath.Join(c.ProjectDir, c.Credentials.Path)
}
