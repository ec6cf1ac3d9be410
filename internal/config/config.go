package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all devpulse configuration.
type Config struct {
	Output     OutputConfig `toml:"output"`
	Thresholds Thresholds   `toml:"thresholds"`
}

// OutputConfig controls report writing.
type OutputConfig struct {
	Path     string `toml:"path"`
	Compress bool   `toml:"compress"`
}

// Thresholds collects every heuristic constant the engine uses. Lifting
// them out of the code lets tests probe boundary behavior without
// recompiling and keeps the numbers in one place.
type Thresholds struct {
	CorrelationWindowMinutes int     `toml:"correlation_window_minutes"` // struggle->AI and AI->commit joins
	QuickFixWindowMinutes    int     `toml:"quick_fix_window_minutes"`   // tighter AI->commit join
	MinStruggleRun           int     `toml:"min_struggle_run"`           // runs below this are noise
	PerCommandMinutes        float64 `toml:"per_command_minutes"`        // duration estimate per retried command

	CopyPasteMaxDurationMinutes float64 `toml:"copy_paste_max_duration_minutes"`
	CopyPasteMinLines           int     `toml:"copy_paste_min_lines"`
	CollaborationMinCommits     int     `toml:"collaboration_min_commits"`
	CollaborationMinToolUses    int     `toml:"collaboration_min_tool_uses"`
	RefactorDeletionRatio       float64 `toml:"refactor_deletion_ratio"`
	RefactorMinLines            int     `toml:"refactor_min_lines"`
	QuickFixMaxLines            int     `toml:"quick_fix_max_lines"`

	MaxExamplesPerPattern   int     `toml:"max_examples_per_pattern"`
	GitConflictSuccessRate  float64 `toml:"git_conflict_success_rate"`
	BuildFailureSuccessRate float64 `toml:"build_failure_success_rate"`
	QuickFixSuccessRate     float64 `toml:"quick_fix_success_rate"`

	AIEffectivenessWeight float64 `toml:"ai_effectiveness_weight"`
	ShellEfficiencyWeight float64 `toml:"shell_efficiency_weight"`
	WorkflowQualityWeight float64 `toml:"workflow_quality_weight"`
}

// DefaultThresholds returns the engine's stock constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CorrelationWindowMinutes: 120,
		QuickFixWindowMinutes:    15,
		MinStruggleRun:           3,
		PerCommandMinutes:        2.0,

		CopyPasteMaxDurationMinutes: 5,
		CopyPasteMinLines:           50,
		CollaborationMinCommits:     3,
		CollaborationMinToolUses:    5,
		RefactorDeletionRatio:       0.3,
		RefactorMinLines:            100,
		QuickFixMaxLines:            50,

		MaxExamplesPerPattern:   5,
		GitConflictSuccessRate:  89.0,
		BuildFailureSuccessRate: 76.0,
		QuickFixSuccessRate:     95.0,

		AIEffectivenessWeight: 0.4,
		ShellEfficiencyWeight: 0.3,
		WorkflowQualityWeight: 0.3,
	}
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Output: OutputConfig{
			Path:     "devpulse-report.json",
			Compress: false,
		},
		Thresholds: DefaultThresholds(),
	}
}

// Load reads config from the standard path, falling back to defaults.
func Load() (Config, error) {
	cfg := DefaultConfig()

	paths := configPaths()
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	cfg.Output.Path = expandHome(cfg.Output.Path)

	return cfg, nil
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "devpulse", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "devpulse", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
