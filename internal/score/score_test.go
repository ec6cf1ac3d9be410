package score

import (
	"testing"

	"github.com/openSVM/devpulse/internal/config"
)

func compute(in Inputs) ProductivityScore {
	return Compute(in, config.DefaultThresholds())
}

func TestCompute_ZeroInput(t *testing.T) {
	s := compute(Inputs{})
	if s.AIEffectiveness != 0 {
		t.Errorf("AIEffectiveness = %v, want 0 without AI commits", s.AIEffectiveness)
	}
	if s.ShellEfficiency != 100 {
		t.Errorf("ShellEfficiency = %v, want 100 with a clean shell", s.ShellEfficiency)
	}
	if s.WorkflowQuality != 50 {
		t.Errorf("WorkflowQuality = %v, want neutral 50 without workflows", s.WorkflowQuality)
	}
	// 0*0.4 + 100*0.3 + 50*0.3 = 45
	if s.Overall != 45 {
		t.Errorf("Overall = %v, want 45", s.Overall)
	}
	if s.Grade != "D" {
		t.Errorf("Grade = %q, want D", s.Grade)
	}
}

func TestAIEffectiveness_QualitySteps(t *testing.T) {
	cases := []struct {
		name        string
		incidents   int
		commits     int
		wantQuality float64
	}{
		{"clean", 0, 100, 50},
		{"just under 10pct", 9, 100, 50},
		{"under 20pct", 15, 100, 30},
		{"at 20pct", 20, 100, 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := aiEffectiveness(Inputs{
				AIAssistedCommits:  tc.commits,
				CopyPasteIncidents: tc.incidents,
			})
			if got != tc.wantQuality {
				t.Errorf("aiEffectiveness = %v, want %v (quality only)", got, tc.wantQuality)
			}
		})
	}
}

func TestAIEffectiveness_VelocityComponentCapped(t *testing.T) {
	got := aiEffectiveness(Inputs{
		AIAssistedCommits:      10,
		VelocityImprovementPct: 500, // would be 250 uncapped
	})
	// 50 velocity cap + 50 clean quality.
	if got != 100 {
		t.Errorf("aiEffectiveness = %v, want 100", got)
	}
}

func TestShellEfficiency_Floor(t *testing.T) {
	got := shellEfficiency(Inputs{FailureRatePct: 100, StruggleEpisodes: 50})
	// 100 - 50 - 30 = 20; push harder and it must clamp at 0, never below.
	if got != 20 {
		t.Errorf("shellEfficiency = %v, want 20", got)
	}

	got = shellEfficiency(Inputs{FailureRatePct: 200, StruggleEpisodes: 50})
	if got != 0 {
		t.Errorf("shellEfficiency = %v, must floor at 0", got)
	}
}

func TestShellEfficiency_StrugglePenaltyCapped(t *testing.T) {
	few := shellEfficiency(Inputs{StruggleEpisodes: 15})
	many := shellEfficiency(Inputs{StruggleEpisodes: 500})
	if few != 70 || many != 70 {
		t.Errorf("struggle penalty should cap at 30: few=%v many=%v", few, many)
	}
}

func TestWorkflowQuality_FullCycleBonus(t *testing.T) {
	low := workflowQuality(Inputs{TotalWorkflows: 5, AIHelpfulnessRate: 100, FullCycleInstances: 10})
	high := workflowQuality(Inputs{TotalWorkflows: 5, AIHelpfulnessRate: 100, FullCycleInstances: 11})
	if low != 80 {
		t.Errorf("workflowQuality = %v, want 80 (60 + low bonus 20)", low)
	}
	if high != 100 {
		t.Errorf("workflowQuality = %v, want 100 (60 + high bonus 40)", high)
	}
}

func TestCompute_OverallBounds(t *testing.T) {
	s := compute(Inputs{
		AIAssistedCommits:      100,
		VelocityImprovementPct: 1000,
		TotalWorkflows:         50,
		AIHelpfulnessRate:      100,
		FullCycleInstances:     20,
	})
	if s.Overall < 0 || s.Overall > 100 {
		t.Errorf("Overall = %v, must stay within [0, 100]", s.Overall)
	}
	if s.Grade != "A+" {
		t.Errorf("Grade = %q, want A+", s.Grade)
	}
}

func TestGrade_Thresholds(t *testing.T) {
	cases := []struct {
		overall float64
		want    string
	}{
		{95, "A+"}, {90, "A+"}, {89.9, "A"}, {85, "A"}, {80, "A-"},
		{75, "B+"}, {70, "B"}, {65, "B-"}, {60, "C+"}, {55, "C"},
		{50, "C-"}, {49.9, "D"}, {0, "D"},
	}
	for _, tc := range cases {
		if got := grade(tc.overall); got != tc.want {
			t.Errorf("grade(%v) = %q, want %q", tc.overall, got, tc.want)
		}
	}
}

func TestRecommend_TriggersAndOrder(t *testing.T) {
	recs := Recommend(RecommendInputs{
		Inputs: Inputs{
			CopyPasteIncidents: 25,
			AIAssistedCommits:  100,
			FailureRatePct:     30,
			StruggleEpisodes:   60,
			TotalWorkflows:     10,
			AIHelpfulnessRate:  20,
		},
		TimeWastedHours: 3.5,
		ShellEfficiency: 40,
	})

	if len(recs) != 5 {
		t.Fatalf("expected 5 recommendations, got %d", len(recs))
	}
	// Critical first, low-priority praise absent.
	if recs[0].Priority != PriorityCritical {
		t.Errorf("first priority = %q, want critical", recs[0].Priority)
	}
	for i := 1; i < len(recs); i++ {
		if priorityRank[recs[i].Priority] < priorityRank[recs[i-1].Priority] {
			t.Errorf("recommendations out of order at %d: %q after %q", i, recs[i].Priority, recs[i-1].Priority)
		}
	}
}

func TestRecommend_QuietInput(t *testing.T) {
	recs := Recommend(RecommendInputs{ShellEfficiency: 90})
	if len(recs) != 0 {
		t.Errorf("expected no recommendations, got %+v", recs)
	}
}

func TestRecommend_VelocityPraise(t *testing.T) {
	recs := Recommend(RecommendInputs{
		Inputs:          Inputs{VelocityImprovementPct: 45},
		ShellEfficiency: 90,
	})
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	if recs[0].Priority != PriorityLow || recs[0].Category != "AI Usage" {
		t.Errorf("recommendation = %+v", recs[0])
	}
}
