// Package toolchain reconciles the native build toolchain: it probes what
// the host already has (compiler, CMake) and installs only what is missing
// or too old, instead of unconditionally re-running installers.
package toolchain

import (
	"context"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/electionlab/groundwork/internal/adapters/process"
	"github.com/electionlab/groundwork/pkg/domain"
)

var versionRe = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// compilerCandidates are probed in order; the first one on PATH wins.
func compilerCandidates() []string {
	if runtime.GOOS == "windows" {
		return []string{"cl", "gcc", "clang"}
	}
	return []string{"cc", "gcc", "clang"}
}

// Probe inspects the host and returns the current toolchain state. It only
// reads; reconciliation steps decide what to do with the answer.
func Probe(ctx context.Context, exec process.Executor) domain.ToolchainState {
	return domain.ToolchainState{
		Compiler: probeTool(ctx, exec, compilerCandidates(), "--version"),
		CMake:    probeTool(ctx, exec, []string{"cmake"}, "--version"),
	}
}

func probeTool(ctx context.Context, exec process.Executor, candidates []string, versionArg string) domain.ToolStatus {
	for _, name := range candidates {
		path, err := exec.LookPath(name)
		if err != nil {
			continue
		}

		status := domain.ToolStatus{Name: name, Path: path, Found: true}

		// cl.exe prints its banner (with version) to stderr and rejects
		// --version, so treat a run error as acceptable when the output
		// still carries a version string.
		res, _ := exec.Run(ctx, process.Command{Path: path, Args: []string{versionArg}})
		status.Version = parseVersion(res.Stdout + "\n" + res.Stderr)
		return status
	}
	return domain.ToolStatus{}
}

// parseVersion extracts the first dotted version from tool output.
func parseVersion(output string) string {
	return versionRe.FindString(output)
}

// versionAtLeast compares dotted numeric versions. Unparseable input counts
// as "too old" so a broken tool gets reinstalled rather than trusted.
func versionAtLeast(have, want string) bool {
	if want == "" {
		return have != ""
	}
	hm := versionRe.FindStringSubmatch(have)
	wm := versionRe.FindStringSubmatch(want)
	if hm == nil {
		return false
	}
	if wm == nil {
		return true
	}
	for i := 1; i <= 3; i++ {
		h := atoiDefault(hm[i])
		w := atoiDefault(wm[i])
		if h != w {
			return h > w
		}
	}
	return true
}

func atoiDefault(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
