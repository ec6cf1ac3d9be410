// Package cli wires the devpulse commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/openSVM/devpulse/internal/logging"
)

// Version information set via ldflags.
var (
	Version = "dev"
	Commit  = "none"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "devpulse",
	Short: "Correlate shell history, AI sessions, and commits into a productivity report",
	Long: `devpulse ingests three normalized event streams (shell command history,
AI-assistant conversation sessions, and version-control commits) and
produces a correlated report: struggle episodes, workflow patterns, session
archetypes, velocity and dependency metrics, and a 0-100 productivity score.

The correlation it reports is temporal and statistical; it does not prove
that AI assistance caused any outcome.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logging.Init("debug")
		} else {
			logging.Init("info")
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("devpulse %s (%s)\n", Version, Commit)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
