// Package engine orchestrates one batch analysis run over the three
// normalized event streams.
package engine

import (
	"sync"
	"time"

	"github.com/openSVM/devpulse/internal/config"
	"github.com/openSVM/devpulse/internal/correlate"
	"github.com/openSVM/devpulse/internal/event"
	"github.com/openSVM/devpulse/internal/metrics"
	"github.com/openSVM/devpulse/internal/report"
	"github.com/openSVM/devpulse/internal/score"
	"github.com/openSVM/devpulse/internal/sessiontype"
	"github.com/openSVM/devpulse/internal/shellscan"
)

// Input carries the three already-sorted event streams. The engine reads
// them and never mutates them.
type Input struct {
	Commands      []event.ShellCommand
	Conversations []event.AIConversation
	Commits       []event.Commit
}

// Analyze runs the full pipeline and assembles the report.
//
// Stage one (struggle detection, shell stats, per-conversation
// classification) runs in parallel: each branch reads an immutable input
// slice and writes only its own output, so the WaitGroup barrier before the
// correlator is the only synchronization. Stage two joins the streams and
// scores the result. Output is deterministic for identical inputs.
//
// now is only the fallback start for timestamp-less struggle runs.
func Analyze(in Input, th config.Thresholds, now time.Time) report.Report {
	var (
		struggles  []event.StruggleEpisode
		shellStats shellscan.Stats
		sessions   []event.ClassifiedSession
	)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		struggles = shellscan.Detect(in.Commands, th, now)
	}()
	go func() {
		defer wg.Done()
		shellStats = shellscan.ComputeStats(in.Commands)
	}()
	go func() {
		defer wg.Done()
		attached := correlate.AttachCommits(in.Conversations, in.Commits, th)
		sessions = make([]event.ClassifiedSession, len(in.Conversations))
		for i, conv := range in.Conversations {
			sessions[i] = sessiontype.Build(conv, attached[i], th)
		}
	}()
	wg.Wait()

	workflows := correlate.Correlate(struggles, in.Conversations, in.Commits, th)
	summary := metrics.Compute(sessions, in.Commits)

	scoreInputs := score.Inputs{
		AIAssistedCommits:      summary.AIAssistedCommits,
		VelocityImprovementPct: summary.VelocityImprovementPct,
		CopyPasteIncidents:     summary.CopyPasteIncidents,
		FailureRatePct:         shellStats.FailureRate,
		StruggleEpisodes:       len(struggles),
		TotalWorkflows:         workflows.TotalWorkflows,
		AIHelpfulnessRate:      workflows.AIHelpfulnessRate,
		FullCycleInstances:     workflows.FullCycleCount,
	}
	productivity := score.Compute(scoreInputs, th)

	recommendations := score.Recommend(score.RecommendInputs{
		Inputs:          scoreInputs,
		TimeWastedHours: shellStats.TimeWastedHours,
		ShellEfficiency: productivity.ShellEfficiency,
	})

	return report.Report{
		GeneratedAt:     now,
		Shell:           shellStats,
		Struggles:       struggles,
		Sessions:        sessions,
		Workflows:       workflows,
		Metrics:         summary,
		Recommendations: recommendations,
		Score:           productivity,
	}
}
