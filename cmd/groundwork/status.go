package main

import (
	"github.com/spf13/cobra"

	"github.com/electionlab/groundwork/internal/cli"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the host toolchain and the most recent run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Status(cmd.Context(), optionsFromFlags(cmd))
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
