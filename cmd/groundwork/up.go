package main

import (
	"github.com/spf13/cobra"

	"github.com/electionlab/groundwork/internal/cli"
)

// upCmd runs the full provisioning sequence for the configured backend.
var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Provision everything the configured backend needs",
	Long: `Runs the full provisioning sequence in dependency order: the native
build toolchain (source backend only), the Python environment, and the
model artifact (local backends only). Steps already satisfied by the host
are skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Execute(cmd.Context(), cli.StageUp, optionsFromFlags(cmd))
	},
}

func init() {
	rootCmd.AddCommand(upCmd)
	addRunFlags(upCmd)
}
