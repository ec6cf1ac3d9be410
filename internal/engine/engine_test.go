package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/openSVM/devpulse/internal/config"
	"github.com/openSVM/devpulse/internal/event"
	"github.com/openSVM/devpulse/internal/ingest"
)

// endToEndInput builds the canonical scenario: a cargo build struggle, an
// AI conversation starting 10 minutes later, and four commits within the
// following hour.
func endToEndInput() Input {
	t0 := time.Date(2025, 4, 7, 10, 0, 0, 0, time.UTC)
	ts := func(d time.Duration) *time.Time {
		t := t0.Add(d)
		return &t
	}

	commands := []event.ShellCommand{
		ingest.NormalizeCommand("vim src/main.rs", ts(-2*time.Minute)),
		ingest.NormalizeCommand("cargo build", ts(0)),
		ingest.NormalizeCommand("cargo build error: mismatched types", ts(time.Minute)),
		ingest.NormalizeCommand("cargo build", ts(2*time.Minute)),
		ingest.NormalizeCommand("ls", ts(3*time.Minute)),
	}

	conv := event.AIConversation{
		ID:           "conv-1",
		Start:        t0.Add(10 * time.Minute),
		End:          t0.Add(30 * time.Minute),
		MessageCount: 12,
		ToolUseCount: 6,
		ProjectPath:  "/home/dev/project",
	}

	var commits []event.Commit
	for i, hash := range []string{"c1", "c2", "c3", "c4"} {
		commits = append(commits, event.Commit{
			Hash:       hash,
			Timestamp:  t0.Add(40*time.Minute + time.Duration(i)*10*time.Minute),
			Insertions: 25,
			Deletions:  5,
			LanguageBreakdown: map[string]int{"Rust": 30},
		})
	}

	return Input{Commands: commands, Conversations: []event.AIConversation{conv}, Commits: commits}
}

func TestAnalyze_EndToEnd(t *testing.T) {
	now := time.Date(2025, 4, 7, 12, 0, 0, 0, time.UTC)
	r := Analyze(endToEndInput(), config.DefaultThresholds(), now)

	// One build-failure struggle of three retries.
	if len(r.Struggles) != 1 {
		t.Fatalf("struggles = %d, want 1", len(r.Struggles))
	}
	st := r.Struggles[0]
	if st.Kind != event.KindBuildFailures {
		t.Errorf("Kind = %q, want build failures", st.Kind)
	}
	if st.Retries != 3 {
		t.Errorf("Retries = %d, want 3", st.Retries)
	}

	// The conversation picks up all four commits and classifies as
	// intense collaboration.
	if len(r.Sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(r.Sessions))
	}
	sess := r.Sessions[0]
	if len(sess.Commits) != 4 {
		t.Errorf("session commits = %d, want 4", len(sess.Commits))
	}
	if sess.TotalLines() != 120 {
		t.Errorf("TotalLines = %d, want 120", sess.TotalLines())
	}
	if sess.Archetype != event.ArchetypeIntenseCollaboration {
		t.Errorf("Archetype = %q, want intense collaboration", sess.Archetype)
	}

	// Correlation: build failure recovery and a full cycle.
	var kinds []event.PatternKind
	for _, p := range r.Workflows.Patterns {
		kinds = append(kinds, p.Kind)
	}
	for _, want := range []event.PatternKind{event.PatternBuildFailureRecovery, event.PatternFullCycle} {
		found := false
		for _, k := range kinds {
			if k == want {
				found = true
			}
		}
		if !found {
			t.Errorf("pattern %q missing from %v", want, kinds)
		}
	}
	if r.Workflows.AIHelpfulnessRate != 100 {
		t.Errorf("AIHelpfulnessRate = %v, want 100 (1 of 1 struggles resolved)", r.Workflows.AIHelpfulnessRate)
	}

	// Metrics see four AI commits and no solo work.
	if r.Metrics.AIAssistedCommits != 4 || r.Metrics.SoloCommits != 0 {
		t.Errorf("commit split = %d/%d, want 4/0", r.Metrics.AIAssistedCommits, r.Metrics.SoloCommits)
	}
	if r.Metrics.MostAssistedLanguage != "Rust" {
		t.Errorf("MostAssistedLanguage = %q, want Rust", r.Metrics.MostAssistedLanguage)
	}

	if r.Score.Overall < 0 || r.Score.Overall > 100 {
		t.Errorf("Overall = %v, out of bounds", r.Score.Overall)
	}
	if r.Score.Grade == "" {
		t.Error("Grade must be set")
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	now := time.Date(2025, 4, 7, 12, 0, 0, 0, time.UTC)
	in := endToEndInput()

	first := Analyze(in, config.DefaultThresholds(), now)
	for i := 0; i < 5; i++ {
		if again := Analyze(in, config.DefaultThresholds(), now); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from first run", i)
		}
	}
}

func TestAnalyze_EmptyInput(t *testing.T) {
	now := time.Date(2025, 4, 7, 12, 0, 0, 0, time.UTC)
	r := Analyze(Input{}, config.DefaultThresholds(), now)

	if len(r.Struggles) != 0 || len(r.Sessions) != 0 || r.Workflows.TotalWorkflows != 0 {
		t.Errorf("empty input should produce empty analysis")
	}
	if r.Score.WorkflowQuality != 50 {
		t.Errorf("WorkflowQuality = %v, want neutral 50", r.Score.WorkflowQuality)
	}
	if r.Score.Grade == "" {
		t.Error("Grade must be set even for empty input")
	}
}

func TestAnalyze_InputNotMutated(t *testing.T) {
	now := time.Date(2025, 4, 7, 12, 0, 0, 0, time.UTC)
	in := endToEndInput()
	before := endToEndInput()

	Analyze(in, config.DefaultThresholds(), now)

	if !reflect.DeepEqual(in.Conversations, before.Conversations) {
		t.Error("conversations were mutated")
	}
	if !reflect.DeepEqual(in.Commits, before.Commits) {
		t.Error("commits were mutated")
	}
	if !reflect.DeepEqual(in.Commands, before.Commands) {
		t.Error("commands were mutated")
	}
}
