package main

import (
	"github.com/spf13/cobra"

	"github.com/electionlab/groundwork/internal/cli"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Build the Python environment",
	Long: `Creates the virtual environment and installs the pinned inference
library plus the dependency manifest, using the strategy selected by the
backend field (source build, conda, or remote API).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Execute(cmd.Context(), cli.StageEnv, optionsFromFlags(cmd))
	},
}

func init() {
	rootCmd.AddCommand(envCmd)
	addRunFlags(envCmd)
}
