package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/electionlab/groundwork"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of groundwork",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("groundwork version %s\n", strings.TrimSpace(groundwork.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
