// Package process executes external commands (installers, interpreters,
// package managers) with captured output and context cancellation.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sort"
	"strings"
	"sync"
)

// Command describes one external process invocation.
type Command struct {
	Path string   // binary to run (resolved or on PATH)
	Args []string // arguments, not including the binary itself
	Dir  string   // working directory; empty means inherit

	// Env holds additional environment variables layered on top of the
	// parent process environment. Build-configuration flags are passed
	// here so they exist only for the process that needs them.
	Env map[string]string

	// Stream mirrors combined output to the logger at debug level while
	// the process runs. Used for long pip builds where silence looks like
	// a hang.
	Stream bool
}

// Result is the captured outcome of a finished process.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Tail returns the last n lines of combined output, for step results.
func (r Result) Tail(n int) string {
	combined := strings.TrimSpace(r.Stdout)
	if r.Stderr != "" {
		if combined != "" {
			combined += "\n"
		}
		combined += strings.TrimSpace(r.Stderr)
	}
	lines := strings.Split(combined, "\n")
	if len(lines) <= n {
		return combined
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}

// Executor runs commands. The concrete Runner shells out; tests substitute
// a recording fake.
type Executor interface {
	Run(ctx context.Context, cmd Command) (Result, error)
	LookPath(name string) (string, error)
}

// Runner is the real Executor backed by os/exec.
type Runner struct {
	logger *slog.Logger
}

// NewRunner creates a process runner.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{logger: logger}
}

// LookPath resolves a binary on PATH.
func (r *Runner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run executes the command and blocks until it exits or ctx is done.
// A non-zero exit is returned as an error carrying the stderr tail, so
// callers never have to inspect ExitCode to notice a failure.
func (r *Runner) Run(ctx context.Context, cmd Command) (Result, error) {
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = append(c.Environ(), flattenEnv(cmd.Env)...)

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	if cmd.Stream {
		lw := &lineWriter{logger: r.logger, name: cmd.Path}
		c.Stdout = io.MultiWriter(&stdout, lw)
		c.Stderr = io.MultiWriter(&stderr, lw)
	}

	r.logger.Debug("exec", "path", cmd.Path, "args", strings.Join(cmd.Args, " "), "dir", cmd.Dir)

	err := c.Run()

	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, fmt.Errorf("%s interrupted: %w", cmd.Path, ctxErr)
		}
		return res, fmt.Errorf("%s failed: %w: %s", cmd.Path, err, res.Tail(5))
	}

	return res, nil
}

func flattenEnv(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}

// lineWriter logs complete output lines at debug level as they appear.
// Write is safe for concurrent use: when streaming, it sits behind both
// the stdout and stderr pipes, which os/exec copies from separate
// goroutines.
type lineWriter struct {
	logger *slog.Logger
	name   string

	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Partial line; keep it for the next write.
			w.buf.WriteString(line)
			break
		}
		if line = strings.TrimRight(line, "\r\n"); line != "" {
			w.logger.Debug("output", "cmd", w.name, "line", line)
		}
	}
	return len(p), nil
}
