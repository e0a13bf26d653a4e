package main

import (
	"github.com/spf13/cobra"

	"github.com/electionlab/groundwork/internal/cli"
)

var toolchainCmd = &cobra.Command{
	Use:   "toolchain",
	Short: "Install the native build toolchain",
	Long: `Probes the host for a C/C++ compiler and CMake and installs whatever
is missing or too old, using the installers pinned in the manifest.
Installing system packages usually requires elevated privileges.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Execute(cmd.Context(), cli.StageToolchain, optionsFromFlags(cmd))
	},
}

func init() {
	rootCmd.AddCommand(toolchainCmd)
	addRunFlags(toolchainCmd)
}
