// Package correlate joins struggle episodes, AI conversations, and commits
// across forward time windows and produces typed workflow patterns.
package correlate

import (
	"fmt"
	"sort"
	"time"

	"github.com/openSVM/devpulse/internal/config"
	"github.com/openSVM/devpulse/internal/event"
)

// Result is the correlator's full output.
type Result struct {
	Patterns          []event.WorkflowPattern `json:"patterns"`
	TotalWorkflows    int                     `json:"total_workflows"`
	AIHelpfulnessRate float64                 `json:"ai_helpfulness_rate"` // full cycles per struggle, percent
	StruggleToAICount int                     `json:"struggle_to_ai_count"`
	AIToCommitCount   int                     `json:"ai_to_commit_count"`
	FullCycleCount    int                     `json:"full_cycle_count"`
}

// joinForward finds the first chronological candidate strictly after the
// anchor and no later than anchor+window. Candidates must be sorted
// ascending. Returns -1 when nothing falls inside the window.
//
// Matches are not consumed: the same candidate may serve several anchors.
// First-chronological-match is the only tie-break.
func joinForward(times []time.Time, anchor time.Time, window time.Duration) int {
	i := sort.Search(len(times), func(k int) bool { return times[k].After(anchor) })
	if i < len(times) && !times[i].After(anchor.Add(window)) {
		return i
	}
	return -1
}

// Correlate runs all six pattern joins. All three inputs must be sorted
// ascending by their primary timestamp. Patterns that matched nothing are
// omitted from the result.
func Correlate(
	struggles []event.StruggleEpisode,
	conversations []event.AIConversation,
	commits []event.Commit,
	th config.Thresholds,
) Result {
	c := correlator{
		struggles:     struggles,
		conversations: conversations,
		commits:       commits,
		th:            th,
		window:        time.Duration(th.CorrelationWindowMinutes) * time.Minute,
	}

	c.convStarts = make([]time.Time, len(conversations))
	for i, conv := range conversations {
		c.convStarts[i] = conv.Start
	}
	c.commitTimes = make([]time.Time, len(commits))
	for i, cm := range commits {
		c.commitTimes[i] = cm.Timestamp
	}

	var r Result
	fullCycle := c.fullCyclePattern()
	for _, p := range []event.WorkflowPattern{
		c.struggleToAIPattern(),
		c.aiToCommitPattern(),
		fullCycle,
		c.kindFilteredPattern(event.KindGitConflicts, event.PatternGitConflictResolution, "Git conflict", "Resolved", th.GitConflictSuccessRate),
		c.kindFilteredPattern(event.KindBuildFailures, event.PatternBuildFailureRecovery, "Build failure", "Fixed", th.BuildFailureSuccessRate),
		c.quickFixPattern(),
	} {
		if p.Occurrences == 0 {
			continue
		}
		r.Patterns = append(r.Patterns, p)
		r.TotalWorkflows += p.Occurrences

		switch p.Kind {
		case event.PatternShellErrorToAIHelp:
			r.StruggleToAICount = p.Occurrences
		case event.PatternAIHelpToCommit:
			r.AIToCommitCount = p.Occurrences
		}
	}

	r.FullCycleCount = fullCycle.Occurrences
	if len(struggles) > 0 {
		r.AIHelpfulnessRate = float64(fullCycle.Occurrences) / float64(len(struggles)) * 100
	}

	return r
}

type correlator struct {
	struggles     []event.StruggleEpisode
	conversations []event.AIConversation
	commits       []event.Commit
	th            config.Thresholds
	window        time.Duration

	convStarts  []time.Time
	commitTimes []time.Time
}

// finish rolls a full example list into a pattern: occurrences counts every
// join, the average is taken over every join, and only the first few
// examples are kept for inspection.
func (c correlator) finish(kind event.PatternKind, examples []event.WorkflowExample, successRate float64) event.WorkflowPattern {
	var total float64
	for _, e := range examples {
		total += e.DurationMinutes
	}
	avg := 0.0
	if len(examples) > 0 {
		avg = total / float64(len(examples))
	}

	kept := examples
	if len(kept) > c.th.MaxExamplesPerPattern {
		kept = kept[:c.th.MaxExamplesPerPattern]
	}

	return event.WorkflowPattern{
		Kind:                 kind,
		Occurrences:          len(examples),
		AvgResolutionMinutes: avg,
		SuccessRate:          successRate,
		Examples:             kept,
	}
}

// struggleToAIPattern joins each struggle forward to the first conversation
// starting within the correlation window.
func (c correlator) struggleToAIPattern() event.WorkflowPattern {
	var examples []event.WorkflowExample
	resolved := 0

	for _, st := range c.struggles {
		i := joinForward(c.convStarts, st.StartTimestamp, c.window)
		if i < 0 {
			continue
		}

		outcome := "Partial"
		if st.EventuallySucceeded {
			outcome = "Resolved"
			resolved++
		}
		examples = append(examples, event.WorkflowExample{
			Timestamp:       st.StartTimestamp,
			Trigger:         fmt.Sprintf("Struggle: %d retries", st.Retries),
			Outcome:         outcome,
			DurationMinutes: c.conversations[i].Start.Sub(st.StartTimestamp).Minutes(),
		})
	}

	successRate := float64(resolved) / float64(max(len(examples), 1)) * 100
	return c.finish(event.PatternShellErrorToAIHelp, examples, successRate)
}

// aiToCommitPattern joins each conversation's end forward to the first
// commit within the correlation window. A matching commit is success by
// construction. Durations run from conversation start, not end.
func (c correlator) aiToCommitPattern() event.WorkflowPattern {
	var examples []event.WorkflowExample

	for _, conv := range c.conversations {
		i := joinForward(c.commitTimes, conv.End, c.window)
		if i < 0 {
			continue
		}
		examples = append(examples, event.WorkflowExample{
			Timestamp:       conv.Start,
			Trigger:         fmt.Sprintf("AI help: %d messages", conv.MessageCount),
			Outcome:         "Commit created",
			DurationMinutes: c.commits[i].Timestamp.Sub(conv.Start).Minutes(),
		})
	}

	return c.finish(event.PatternAIHelpToCommit, examples, 100)
}

// fullCyclePattern chains the two joins: struggle to conversation, then that
// same conversation to a commit. Duration is measured end to end, struggle
// start to commit time, not as a sum of the two hops.
func (c correlator) fullCyclePattern() event.WorkflowPattern {
	var examples []event.WorkflowExample

	for _, st := range c.struggles {
		i := joinForward(c.convStarts, st.StartTimestamp, c.window)
		if i < 0 {
			continue
		}
		j := joinForward(c.commitTimes, c.conversations[i].End, c.window)
		if j < 0 {
			continue
		}
		examples = append(examples, event.WorkflowExample{
			Timestamp:       st.StartTimestamp,
			Trigger:         "Struggle resolved through AI session",
			Outcome:         "Full resolution",
			DurationMinutes: c.commits[j].Timestamp.Sub(st.StartTimestamp).Minutes(),
		})
	}

	return c.finish(event.PatternFullCycle, examples, 100)
}

// kindFilteredPattern is the struggle-to-AI join restricted to one struggle
// kind, with a fixed empirical success rate.
func (c correlator) kindFilteredPattern(kind event.StruggleKind, pattern event.PatternKind, trigger, outcome string, successRate float64) event.WorkflowPattern {
	var examples []event.WorkflowExample

	for _, st := range c.struggles {
		if st.Kind != kind {
			continue
		}
		i := joinForward(c.convStarts, st.StartTimestamp, c.window)
		if i < 0 {
			continue
		}
		examples = append(examples, event.WorkflowExample{
			Timestamp:       st.StartTimestamp,
			Trigger:         trigger,
			Outcome:         outcome,
			DurationMinutes: c.conversations[i].Start.Sub(st.StartTimestamp).Minutes(),
		})
	}

	return c.finish(pattern, examples, successRate)
}

// quickFixPattern is the AI-to-commit join over a deliberately tighter
// window, separating fast confirming commits from the general pattern.
func (c correlator) quickFixPattern() event.WorkflowPattern {
	window := time.Duration(c.th.QuickFixWindowMinutes) * time.Minute
	var examples []event.WorkflowExample

	for _, conv := range c.conversations {
		i := joinForward(c.commitTimes, conv.End, window)
		if i < 0 {
			continue
		}
		examples = append(examples, event.WorkflowExample{
			Timestamp:       conv.Start,
			Trigger:         "Quick question",
			Outcome:         "Immediate commit",
			DurationMinutes: c.commits[i].Timestamp.Sub(conv.Start).Minutes(),
		})
	}

	return c.finish(event.PatternQuickFix, examples, c.th.QuickFixSuccessRate)
}

// AttachCommits returns, for each conversation, the commits falling inside
// [start, end+window]. Commits must be sorted ascending; a commit may belong
// to more than one overlapping conversation.
func AttachCommits(conversations []event.AIConversation, commits []event.Commit, th config.Thresholds) [][]event.Commit {
	window := time.Duration(th.CorrelationWindowMinutes) * time.Minute

	attached := make([][]event.Commit, len(conversations))
	for ci, conv := range conversations {
		cutoff := conv.End.Add(window)
		i := sort.Search(len(commits), func(k int) bool { return !commits[k].Timestamp.Before(conv.Start) })
		for ; i < len(commits) && !commits[i].Timestamp.After(cutoff); i++ {
			attached[ci] = append(attached[ci], commits[i])
		}
	}

	return attached
}
