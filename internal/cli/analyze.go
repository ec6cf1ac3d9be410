package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/openSVM/devpulse/internal/config"
	"github.com/openSVM/devpulse/internal/engine"
	"github.com/openSVM/devpulse/internal/event"
	"github.com/openSVM/devpulse/internal/ingest"
	"github.com/openSVM/devpulse/internal/logging"
	"github.com/openSVM/devpulse/internal/report"
)

var (
	shellPath    string
	sessionsPath string
	commitsPath  string
	outPath      string
	compressOut  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the correlation engine over normalized event files",
	Long: `Analyze reads up to three normalized JSON event files (shell commands,
AI conversation sessions, git commits), correlates them, and writes the
aggregate report. Streams that are not provided are treated as empty.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&shellPath, "shell", "", "Normalized shell command file (JSON array)")
	analyzeCmd.Flags().StringVar(&sessionsPath, "sessions", "", "Normalized AI conversation file (JSON array)")
	analyzeCmd.Flags().StringVar(&commitsPath, "commits", "", "Normalized commit file (JSON array)")
	analyzeCmd.Flags().StringVarP(&outPath, "out", "o", "", "Report output path (default from config)")
	analyzeCmd.Flags().BoolVar(&compressOut, "compress", false, "zstd-compress the report")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if outPath == "" {
		outPath = cfg.Output.Path
	}
	if cfg.Output.Compress {
		compressOut = true
	}

	var in engine.Input
	if shellPath != "" {
		if in.Commands, err = ingest.LoadShellCommands(shellPath); err != nil {
			return err
		}
	}
	if sessionsPath != "" {
		if in.Conversations, err = ingest.LoadConversations(sessionsPath); err != nil {
			return err
		}
	}
	if commitsPath != "" {
		if in.Commits, err = ingest.LoadCommits(commitsPath); err != nil {
			return err
		}
	}
	if len(in.Commands) == 0 && len(in.Conversations) == 0 && len(in.Commits) == 0 {
		return fmt.Errorf("no input events; pass at least one of --shell, --sessions, --commits")
	}

	logging.Info().
		Int("commands", len(in.Commands)).
		Int("conversations", len(in.Conversations)).
		Int("commits", len(in.Commits)).
		Msg("analyzing")

	r := engine.Analyze(in, cfg.Thresholds, time.Now().UTC())

	written, err := report.Write(r, outPath, compressOut)
	if err != nil {
		return err
	}

	cmd.Printf("report: %s\n", written)
	cmd.Printf("score: %.1f/100 (%s)\n", r.Score.Overall, r.Score.Grade)
	cmd.Printf("struggles: %d  workflows: %d  ai helpfulness: %.1f%%\n",
		len(r.Struggles), r.Workflows.TotalWorkflows, r.Workflows.AIHelpfulnessRate)
	printSessionBreakdown(cmd, r.Sessions)

	return nil
}

func printSessionBreakdown(cmd *cobra.Command, sessions []event.ClassifiedSession) {
	if len(sessions) == 0 {
		return
	}
	counts := make(map[event.SessionArchetype]int)
	for _, s := range sessions {
		counts[s.Archetype]++
	}
	for _, a := range []event.SessionArchetype{
		event.ArchetypeIntenseCollaboration,
		event.ArchetypeGuidedRefactor,
		event.ArchetypeQuickFix,
		event.ArchetypeCopyPaste,
		event.ArchetypeLearningSession,
	} {
		if counts[a] > 0 {
			cmd.Printf("  %s: %d\n", a, counts[a])
		}
	}
}
