package cmd

import (
	"fmt"
	"runtime"

	"github.com/spigell/hh-interviewer/internal/ai/gemini"
	"github.com/spigell/hh-interviewer/internal/interview"

	"github.com/spf13/cobra"
)

// Actual version can be specified in build command.
var version = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the built-in defaults",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("%s version: %s (%s)\n", app, version, runtime.Version())
		fmt.Printf("default model: %s, positions: %v\n", gemini.DefaultModel, interview.Positions())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
