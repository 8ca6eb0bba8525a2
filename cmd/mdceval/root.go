package main

import (
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "mdceval",
	Short: "Evaluate search algorithms against a mock data challenge",
	Long: "mdceval computes false-alarm-rate curves and Monte-Carlo sensitive\n" +
		"distance estimates for the candidate events a search code produced\n" +
		"on foreground and background data.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(whitenCmd)
	rootCmd.Version = version
}
