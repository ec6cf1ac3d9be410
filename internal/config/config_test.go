package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultThresholds(t *testing.T) {
	th := DefaultThresholds()

	if th.CorrelationWindowMinutes != 120 {
		t.Errorf("CorrelationWindowMinutes = %d, want 120", th.CorrelationWindowMinutes)
	}
	if th.QuickFixWindowMinutes != 15 {
		t.Errorf("QuickFixWindowMinutes = %d, want 15", th.QuickFixWindowMinutes)
	}
	if th.MinStruggleRun != 3 {
		t.Errorf("MinStruggleRun = %d, want 3", th.MinStruggleRun)
	}

	sum := th.AIEffectivenessWeight + th.ShellEfficiencyWeight + th.WorkflowQualityWeight
	if sum != 1.0 {
		t.Errorf("score weights sum to %v, want 1.0", sum)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.Path != "devpulse-report.json" {
		t.Errorf("Output.Path = %q, want default", cfg.Output.Path)
	}
	if cfg.Thresholds != DefaultThresholds() {
		t.Error("thresholds should be defaults when no config file exists")
	}
}

func TestLoad_Overrides(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	dir := filepath.Join(xdg, "devpulse")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := `
[output]
path = "custom.json"
compress = true

[thresholds]
correlation_window_minutes = 60
min_struggle_run = 5
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.Path != "custom.json" {
		t.Errorf("Output.Path = %q, want custom.json", cfg.Output.Path)
	}
	if !cfg.Output.Compress {
		t.Error("Compress should be true")
	}
	if cfg.Thresholds.CorrelationWindowMinutes != 60 {
		t.Errorf("CorrelationWindowMinutes = %d, want overridden 60", cfg.Thresholds.CorrelationWindowMinutes)
	}
	if cfg.Thresholds.MinStruggleRun != 5 {
		t.Errorf("MinStruggleRun = %d, want overridden 5", cfg.Thresholds.MinStruggleRun)
	}

	// Untouched keys keep their defaults.
	if cfg.Thresholds.QuickFixWindowMinutes != 15 {
		t.Errorf("QuickFixWindowMinutes = %d, want default 15", cfg.Thresholds.QuickFixWindowMinutes)
	}
}

func TestLoad_BadToml(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	dir := filepath.Join(xdg, "devpulse")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not [valid"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("expected parse error")
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got := expandHome("~/reports/out.json")
	want := filepath.Join(home, "reports", "out.json")
	if got != want {
		t.Errorf("expandHome = %q, want %q", got, want)
	}

	if got := expandHome("/abs/out.json"); got != "/abs/out.json" {
		t.Errorf("absolute path changed: %q", got)
	}
}
