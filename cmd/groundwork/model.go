package main

import (
	"github.com/spf13/cobra"

	"github.com/electionlab/groundwork/internal/cli"
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Download the quantized model artifact",
	Long: `Downloads the model file pinned in the manifest to its expected
location under the project directory. An existing file satisfies the step;
pass a sha256 in the manifest to verify the download.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Execute(cmd.Context(), cli.StageModel, optionsFromFlags(cmd))
	},
}

func init() {
	rootCmd.AddCommand(modelCmd)
	addRunFlags(modelCmd)
}
