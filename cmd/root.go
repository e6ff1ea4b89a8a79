// Package cmd holds the vinom-maze command line.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vinom-maze",
	Short: "Adaptive maze game server",
	Long: `vinom-maze carves mazes step by step, solves them and adapts their size to each player
with a Q-learning difficulty controller.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
