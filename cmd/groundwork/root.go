package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/electionlab/groundwork/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "groundwork",
	Short: "Groundwork provisions the research environment",
	Long: `Groundwork reconciles a host toward the environment the research
application needs: a native build toolchain, an isolated Python environment
with the pinned inference library, and the quantized model artifact.

Every step probes before it acts, so re-running against an already
provisioned host is cheap and changes nothing.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and maps errors to process exit codes: 2 for flag
// and manifest problems, 1 for everything else.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("project-dir", "C", "", "Project directory to provision (default: current directory)")
	rootCmd.PersistentFlags().String("config", "", "Path to the provisioning manifest (default: <project-dir>/provision.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json", false, "Emit logs as JSON and disable rich output")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	rootCmd.PersistentFlags().Bool("no-input", false, "Never prompt and render plain output")
}

// addRunFlags registers the flags shared by every stage command.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("backend", "", "Override the install backend (source, conda, remote)")
	cmd.Flags().Bool("keep-going", false, "Continue past a failed step (legacy script behavior)")
	cmd.Flags().Bool("dry-run", false, "Show what would run without mutating the host")
	cmd.Flags().Duration("timeout", 0, "Abort the run after this duration (0 = no deadline)")
	cmd.Flags().String("status-addr", "", "Serve /healthz, /progress and /metrics on this address for the run")
}

// optionsFromFlags collects persistent and stage flags into cli.Options.
func optionsFromFlags(cmd *cobra.Command) cli.Options {
	projectDir, _ := cmd.Flags().GetString("project-dir")
	configPath, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")
	jsonLog, _ := cmd.Flags().GetBool("json")
	yes, _ := cmd.Flags().GetBool("yes")
	noInput, _ := cmd.Flags().GetBool("no-input")

	opts := cli.Options{
		ProjectDir: projectDir,
		ConfigPath: configPath,
		LogLevel:   logLevel,
		JSONLog:    jsonLog,
		Yes:        yes || noInput,
		NoInput:    noInput,
	}

	if cmd.Flags().Lookup("backend") != nil {
		opts.Backend, _ = cmd.Flags().GetString("backend")
		opts.KeepGoing, _ = cmd.Flags().GetBool("keep-going")
		opts.DryRun, _ = cmd.Flags().GetBool("dry-run")
		var timeout time.Duration
		timeout, _ = cmd.Flags().GetDuration("timeout")
		opts.Timeout = timeout
		opts.StatusAddr, _ = cmd.Flags().GetString("status-addr")
	}
	return opts
}
