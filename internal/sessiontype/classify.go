// Package sessiontype labels AI-assisted sessions with a pair-programming
// archetype based on how the conversation and its correlated commits relate.
package sessiontype

import (
	"sort"

	"github.com/openSVM/devpulse/internal/config"
	"github.com/openSVM/devpulse/internal/event"
)

// Classify assigns an archetype to one conversation given the commits that
// temporally correlate to it. The rules are evaluated in fixed priority
// order and the first match wins: the two "obviously pasted" and "obviously
// trivial" shapes are checked before the broader volume heuristics, so a
// single large commit is never misread as deep collaboration.
func Classify(conv event.AIConversation, commits []event.Commit, th config.Thresholds) event.SessionArchetype {
	if len(commits) == 0 {
		return event.ArchetypeLearningSession
	}

	var totalLines, deletions int
	for _, c := range commits {
		totalLines += c.Insertions + c.Deletions
		deletions += c.Deletions
	}
	duration := conv.DurationMinutes()

	// 1. One big commit landing almost immediately.
	if len(commits) == 1 && duration < th.CopyPasteMaxDurationMinutes && totalLines > th.CopyPasteMinLines {
		return event.ArchetypeCopyPaste
	}

	// 2. Many commits with heavy tool use.
	if len(commits) >= th.CollaborationMinCommits && conv.ToolUseCount >= th.CollaborationMinToolUses {
		return event.ArchetypeIntenseCollaboration
	}

	// 3. Deletion-heavy restructuring.
	if totalLines > th.RefactorMinLines && float64(deletions)/float64(totalLines) > th.RefactorDeletionRatio {
		return event.ArchetypeGuidedRefactor
	}

	// 4. One small commit.
	if len(commits) == 1 && totalLines < th.QuickFixMaxLines {
		return event.ArchetypeQuickFix
	}

	return event.ArchetypeIntenseCollaboration
}

// Build assembles a ClassifiedSession from a conversation and its
// correlated commits, including the per-session rollups downstream
// aggregation needs. Languages are session-distinct and sorted.
func Build(conv event.AIConversation, commits []event.Commit, th config.Thresholds) event.ClassifiedSession {
	s := event.ClassifiedSession{
		Conversation: conv,
		Commits:      commits,
		Archetype:    Classify(conv, commits, th),
	}

	langSet := make(map[string]bool)
	for _, c := range commits {
		s.LinesAdded += c.Insertions
		s.LinesDeleted += c.Deletions
		s.FilesChanged += c.FilesChanged
		for lang := range c.LanguageBreakdown {
			langSet[lang] = true
		}
	}

	for lang := range langSet {
		s.Languages = append(s.Languages, lang)
	}
	sort.Strings(s.Languages)

	return s
}
