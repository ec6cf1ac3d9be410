// Package score combines the aggregated metrics into one weighted
// productivity score with a letter grade, plus actionable recommendations.
package score

import (
	"math"

	"github.com/openSVM/devpulse/internal/config"
)

// Sub-score components and thresholds.
const (
	velocityComponentCap = 50.0
	qualityHigh          = 50.0
	qualityMid           = 30.0
	qualityLow           = 10.0
	copyPasteRatioGood   = 0.10
	copyPasteRatioFair   = 0.20

	failurePenaltyFactor = 0.5
	strugglePenaltyEach  = 2.0
	strugglePenaltyCap   = 30.0

	helpfulnessCap      = 60.0
	fullCycleBonusHigh  = 40.0
	fullCycleBonusLow   = 20.0
	fullCycleBonusAbove = 10

	neutralWorkflowScore = 50.0
)

// Inputs carries everything the scorer reads from the other stages.
type Inputs struct {
	AIAssistedCommits      int
	VelocityImprovementPct float64
	CopyPasteIncidents     int

	FailureRatePct   float64
	StruggleEpisodes int

	TotalWorkflows     int
	AIHelpfulnessRate  float64
	FullCycleInstances int
}

// ProductivityScore is the final weighted result, all components 0-100.
type ProductivityScore struct {
	Overall         float64 `json:"overall"`
	AIEffectiveness float64 `json:"ai_effectiveness"`
	ShellEfficiency float64 `json:"shell_efficiency"`
	WorkflowQuality float64 `json:"workflow_quality"`
	Grade           string  `json:"grade"`
}

// Compute derives the three sub-scores and their weighted combination.
// Degenerate inputs fall back explicitly: no AI commits zeroes
// effectiveness, no workflows pins quality at the neutral midpoint.
func Compute(in Inputs, th config.Thresholds) ProductivityScore {
	s := ProductivityScore{
		AIEffectiveness: aiEffectiveness(in),
		ShellEfficiency: shellEfficiency(in),
		WorkflowQuality: workflowQuality(in),
	}

	s.Overall = math.Min(
		s.AIEffectiveness*th.AIEffectivenessWeight+
			s.ShellEfficiency*th.ShellEfficiencyWeight+
			s.WorkflowQuality*th.WorkflowQualityWeight,
		100)
	s.Grade = grade(s.Overall)

	return s
}

func aiEffectiveness(in Inputs) float64 {
	if in.AIAssistedCommits == 0 {
		return 0
	}

	velocity := math.Min(in.VelocityImprovementPct/100*velocityComponentCap, velocityComponentCap)

	ratio := float64(in.CopyPasteIncidents) / float64(in.AIAssistedCommits)
	quality := qualityLow
	switch {
	case ratio < copyPasteRatioGood:
		quality = qualityHigh
	case ratio < copyPasteRatioFair:
		quality = qualityMid
	}

	return velocity + quality
}

func shellEfficiency(in Inputs) float64 {
	failurePenalty := in.FailureRatePct * failurePenaltyFactor
	strugglePenalty := math.Min(float64(in.StruggleEpisodes)*strugglePenaltyEach, strugglePenaltyCap)
	return math.Max(100-failurePenalty-strugglePenalty, 0)
}

func workflowQuality(in Inputs) float64 {
	if in.TotalWorkflows == 0 {
		return neutralWorkflowScore
	}

	helpfulness := math.Min(in.AIHelpfulnessRate/100*helpfulnessCap, helpfulnessCap)
	bonus := fullCycleBonusLow
	if in.FullCycleInstances > fullCycleBonusAbove {
		bonus = fullCycleBonusHigh
	}

	return helpfulness + bonus
}

// grade maps an overall score to its letter grade.
func grade(overall float64) string {
	switch {
	case overall >= 90:
		return "A+"
	case overall >= 85:
		return "A"
	case overall >= 80:
		return "A-"
	case overall >= 75:
		return "B+"
	case overall >= 70:
		return "B"
	case overall >= 65:
		return "B-"
	case overall >= 60:
		return "C+"
	case overall >= 55:
		return "C"
	case overall >= 50:
		return "C-"
	default:
		return "D"
	}
}
