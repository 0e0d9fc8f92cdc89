package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/reel/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("reel %s (commit %s, %s)\n", version.GitRelease, version.GitCommit, version.GitCommitDate)
		fmt.Printf("built with %s\n", version.GoInfo)
	},
}
