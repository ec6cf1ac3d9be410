package score

import (
	"fmt"
	"sort"
)

// Priority orders recommendations for display.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

var priorityRank = map[Priority]int{
	PriorityCritical: 0,
	PriorityHigh:     1,
	PriorityMedium:   2,
	PriorityLow:      3,
}

// Recommendation is one actionable suggestion derived from the metrics.
type Recommendation struct {
	Priority        Priority `json:"priority"`
	Category        string   `json:"category"`
	Issue           string   `json:"issue"`
	Action          string   `json:"action"`
	PotentialImpact string   `json:"potential_impact"`
}

// Trigger thresholds for each recommendation.
const (
	copyPasteAlertCount  = 20
	velocityPraisePct    = 30.0
	failureRateAlertPct  = 20.0
	struggleAlertCount   = 50
	helpfulnessAlertPct  = 50.0
	efficiencyAlertScore = 60.0
)

// RecommendInputs extends the scoring inputs with the figures the
// recommendation text interpolates.
type RecommendInputs struct {
	Inputs
	TimeWastedHours float64
	ShellEfficiency float64
}

// Recommend produces prioritized suggestions, most urgent first.
func Recommend(in RecommendInputs) []Recommendation {
	var recs []Recommendation

	if in.CopyPasteIncidents > copyPasteAlertCount {
		recs = append(recs, Recommendation{
			Priority:        PriorityHigh,
			Category:        "Code Quality",
			Issue:           fmt.Sprintf("Detected %d copy-paste incidents from AI sessions", in.CopyPasteIncidents),
			Action:          "Take time to understand code before committing. Ask the assistant to explain complex parts.",
			PotentialImpact: "Fewer regressions, better code understanding",
		})
	}

	if in.VelocityImprovementPct > velocityPraisePct {
		recs = append(recs, Recommendation{
			Priority:        PriorityLow,
			Category:        "AI Usage",
			Issue:           fmt.Sprintf("You're %.1f%% faster with AI assistance", in.VelocityImprovementPct),
			Action:          "Keep using AI for complex tasks. Consider sharing your workflow with the team.",
			PotentialImpact: "Team velocity could improve similarly",
		})
	}

	if in.FailureRatePct > failureRateAlertPct {
		recs = append(recs, Recommendation{
			Priority:        PriorityHigh,
			Category:        "Shell Efficiency",
			Issue:           fmt.Sprintf("High command failure rate: %.1f%%", in.FailureRatePct),
			Action:          "Use shell history search, create aliases for common commands, and debug errors with AI sooner.",
			PotentialImpact: fmt.Sprintf("Save ~%.1f hours/month", in.TimeWastedHours),
		})
	}

	if in.StruggleEpisodes > struggleAlertCount {
		recs = append(recs, Recommendation{
			Priority:        PriorityMedium,
			Category:        "Workflow",
			Issue:           fmt.Sprintf("Detected %d struggle episodes with repeated retries", in.StruggleEpisodes),
			Action:          "Ask for help earlier when stuck instead of retrying the same command.",
			PotentialImpact: "Less frustration, faster resolutions",
		})
	}

	if in.TotalWorkflows > 0 && in.AIHelpfulnessRate < helpfulnessAlertPct {
		recs = append(recs, Recommendation{
			Priority:        PriorityMedium,
			Category:        "AI Effectiveness",
			Issue:           fmt.Sprintf("AI resolves only %.1f%% of struggles end to end", in.AIHelpfulnessRate),
			Action:          "Provide more context when asking for help: error messages, relevant code, and what you've tried.",
			PotentialImpact: "Higher AI resolution rate",
		})
	}

	if in.ShellEfficiency < efficiencyAlertScore {
		recs = append(recs, Recommendation{
			Priority:        PriorityCritical,
			Category:        "Productivity",
			Issue:           fmt.Sprintf("Low shell efficiency score: %.1f/100", in.ShellEfficiency),
			Action:          "Take regular breaks and reduce context switching. Batch similar tasks into focus blocks.",
			PotentialImpact: "Substantially fewer failed command cycles",
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return priorityRank[recs[i].Priority] < priorityRank[recs[j].Priority]
	})

	return recs
}
