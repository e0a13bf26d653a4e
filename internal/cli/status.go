package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/electionlab/groundwork/internal/adapters/process"
	"github.com/electionlab/groundwork/internal/config"
	"github.com/electionlab/groundwork/internal/logging"
	"github.com/electionlab/groundwork/internal/presentation/tui"
	"github.com/electionlab/groundwork/internal/toolchain"
	"github.com/electionlab/groundwork/pkg/domain"
)

// Status prints the current host state: a fresh toolchain probe plus the
// most recent recorded run. It never mutates anything, so it takes no lock
// and asks no questions.
func Status(ctx context.Context, opts Options) error {
	logger := logging.New(logging.Options{
		Level: logging.ParseLevel(opts.LogLevel),
		JSON:  opts.JSONLog,
	})

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	state := toolchain.Probe(ctx, process.NewRunner(logger))
	fmt.Fprintf(os.Stdout, "Backend: %s\n", cfg.Backend)
	printTool(os.Stdout, "compiler", state.Compiler)
	printTool(os.Stdout, "cmake", state.CMake)
	if !state.Ready() && cfg.Backend == config.BackendSource {
		fmt.Fprintln(os.Stdout, "Host cannot build native extensions; run `groundwork toolchain`.")
	}
	fmt.Fprintln(os.Stdout)

	journal, _, closeStores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	report, err := journal.Latest(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrRunNotFound) {
			fmt.Fprintln(os.Stdout, "No recorded runs.")
			return nil
		}
		return err
	}

	rich := interactive(os.Stdout) && !opts.JSONLog && !opts.NoInput
	tui.Render(os.Stdout, report, rich)
	return nil
}

// printTool writes one probe line. The label is the manifest-side tool
// name; an absent tool has a zero status with nothing else to print.
func printTool(w io.Writer, label string, t domain.ToolStatus) {
	if !t.Found {
		fmt.Fprintf(w, "%-8s not found\n", label)
		return
	}
	name := t.Name
	if name == "" || name == label {
		name = ""
	} else {
		name = name + " "
	}
	fmt.Fprintf(w, "%-8s %s%s (%s)\n", label, name, t.Version, t.Path)
}
