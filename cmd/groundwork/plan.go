package main

import (
	"github.com/spf13/cobra"

	"github.com/electionlab/groundwork/internal/cli"
)

// planCmd is `up --dry-run` with a friendlier name: it probes every step
// and reports what a real run would do, without taking the lock or
// touching the host.
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what `up` would do without doing it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := optionsFromFlags(cmd)
		opts.DryRun = true
		opts.Yes = true
		return cli.Execute(cmd.Context(), cli.StageUp, opts)
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().String("backend", "", "Override the install backend (source, conda, remote)")
	planCmd.Flags().Duration("timeout", 0, "Abort probing after this duration (0 = no deadline)")
}
