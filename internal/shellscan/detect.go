// Package shellscan analyzes a normalized shell command stream: it segments
// struggle episodes out of it and computes aggregate command analytics.
package shellscan

import (
	"fmt"
	"strings"
	"time"

	"github.com/openSVM/devpulse/internal/config"
	"github.com/openSVM/devpulse/internal/event"
)

// struggleLike reports whether a command belongs in a struggle run:
// either it carries error text or it invokes one of the retry-prone tools.
func struggleLike(cmd event.ShellCommand) bool {
	return cmd.IsErrorLike ||
		cmd.BaseCommand == "npm" ||
		cmd.BaseCommand == "cargo" ||
		cmd.BaseCommand == "git"
}

// Detect segments a chronologically-sorted command stream into struggle
// episodes. A single fold over the slice: struggle-like commands accumulate
// into a run, any ordinary command (or the end of the stream) closes it, and
// closed runs of at least th.MinStruggleRun commands become episodes.
// Shorter runs are discarded as noise.
//
// now is the fallback start for runs whose first command has no timestamp;
// such episodes are marked StartEstimated. Pure function otherwise.
func Detect(commands []event.ShellCommand, th config.Thresholds, now time.Time) []event.StruggleEpisode {
	var episodes []event.StruggleEpisode
	var run []event.ShellCommand

	flush := func(atEnd bool) {
		if len(run) >= th.MinStruggleRun {
			episodes = append(episodes, newEpisode(run, len(episodes), th, now, atEnd))
		}
		run = nil
	}

	for _, cmd := range commands {
		if struggleLike(cmd) {
			run = append(run, cmd)
			continue
		}
		flush(false)
	}
	flush(true)

	return episodes
}

// newEpisode builds an episode from a closed run. A run closed by an
// ordinary command is taken to have eventually succeeded; a run cut off by
// the end of the stream is not.
func newEpisode(run []event.ShellCommand, seq int, th config.Thresholds, now time.Time, atEnd bool) event.StruggleEpisode {
	commands := make([]event.ShellCommand, len(run))
	copy(commands, run)

	start := now
	estimated := true
	if run[0].Timestamp != nil {
		start = *run[0].Timestamp
		estimated = false
	}

	return event.StruggleEpisode{
		ID:                  fmt.Sprintf("struggle-%03d", seq+1),
		StartTimestamp:      start,
		StartEstimated:      estimated,
		Commands:            commands,
		Retries:             len(run),
		DurationMinutes:     float64(len(run)) * th.PerCommandMinutes,
		EventuallySucceeded: !atEnd,
		Kind:                classifyKind(run),
	}
}

// classifyKind labels a run by scanning its concatenated command text.
// First match wins.
func classifyKind(run []event.ShellCommand) event.StruggleKind {
	parts := make([]string, len(run))
	for i, cmd := range run {
		parts[i] = cmd.Text
	}
	text := strings.Join(parts, " ")

	switch {
	case strings.Contains(text, "cargo build") || strings.Contains(text, "cargo test"):
		return event.KindBuildFailures
	case strings.Contains(text, "git merge") || strings.Contains(text, "git rebase"):
		return event.KindGitConflicts
	case strings.Contains(text, "permission") || strings.Contains(text, "sudo"):
		return event.KindPermissionErrors
	case strings.Contains(text, "npm install") || strings.Contains(text, "yarn"):
		return event.KindDependencyIssues
	case strings.Contains(text, "test") || strings.Contains(text, "spec"):
		return event.KindTestFailures
	default:
		return event.KindUnknown
	}
}
