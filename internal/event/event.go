// Package event defines the normalized record types the analysis engine
// consumes and the derived types it produces. Input records are built once
// per batch by the ingest boundary and never mutated afterwards; everything
// the engine derives lives in its own output values.
package event

import "time"

// ShellCommand is one normalized shell history entry.
// BaseCommand and IsErrorLike are derived once at ingestion and are
// immutable facts about the command from then on.
type ShellCommand struct {
	Text        string     `json:"text"`
	Timestamp   *time.Time `json:"timestamp,omitempty"` // nil when the history format had none
	BaseCommand string     `json:"base_command"`
	IsErrorLike bool       `json:"is_error_like"`
}

// StruggleKind labels what a struggle episode was about.
type StruggleKind string

const (
	KindBuildFailures    StruggleKind = "build_failures"
	KindGitConflicts     StruggleKind = "git_conflicts"
	KindPermissionErrors StruggleKind = "permission_errors"
	KindDependencyIssues StruggleKind = "dependency_issues"
	KindTestFailures     StruggleKind = "test_failures"
	KindUnknown          StruggleKind = "unknown"
)

// StruggleEpisode is a maximal run of consecutive struggle-like shell
// commands. Episodes are created by the struggle detector and never merged
// or split afterwards.
//
// StartEstimated is true when the underlying history carried no timestamp
// and StartTimestamp was substituted by the detector; downstream consumers
// can then treat durations as estimates rather than measurements.
type StruggleEpisode struct {
	ID                  string         `json:"id"`
	StartTimestamp      time.Time      `json:"start_timestamp"`
	StartEstimated      bool           `json:"start_estimated,omitempty"`
	Commands            []ShellCommand `json:"commands"`
	Retries             int            `json:"retries"`
	DurationMinutes     float64        `json:"duration_minutes"`
	EventuallySucceeded bool           `json:"eventually_succeeded"`
	Kind                StruggleKind   `json:"kind"`
}

// AIConversation is one AI-assistant session, treated as a closed time
// interval [Start, End].
type AIConversation struct {
	ID           string    `json:"id"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	MessageCount int       `json:"message_count"`
	ToolUseCount int       `json:"tool_use_count"`
	ProjectPath  string    `json:"project_path"`
}

// DurationMinutes returns the conversation length in minutes.
func (c AIConversation) DurationMinutes() float64 {
	return c.End.Sub(c.Start).Minutes()
}

// Commit is one version-control commit, a point-in-time event.
type Commit struct {
	Hash              string         `json:"hash"`
	Timestamp         time.Time      `json:"timestamp"`
	Insertions        int            `json:"insertions"`
	Deletions         int            `json:"deletions"`
	FilesChanged      int            `json:"files_changed"`
	LanguageBreakdown map[string]int `json:"language_breakdown,omitempty"` // language -> lines changed
}

// PatternKind identifies one of the fixed workflow archetypes.
type PatternKind string

const (
	PatternShellErrorToAIHelp    PatternKind = "shell_error_to_ai_help"
	PatternAIHelpToCommit        PatternKind = "ai_help_to_commit"
	PatternFullCycle             PatternKind = "full_cycle"
	PatternGitConflictResolution PatternKind = "git_conflict_resolution"
	PatternBuildFailureRecovery  PatternKind = "build_failure_recovery"
	PatternQuickFix              PatternKind = "quick_fix"
)

// WorkflowExample is one concrete instance of a pattern, kept for human
// inspection.
type WorkflowExample struct {
	Timestamp       time.Time `json:"timestamp"`
	Trigger         string    `json:"trigger"`
	Outcome         string    `json:"outcome"`
	DurationMinutes float64   `json:"duration_minutes"`
}

// WorkflowPattern aggregates all instances of one workflow archetype.
type WorkflowPattern struct {
	Kind                 PatternKind       `json:"kind"`
	Occurrences          int               `json:"occurrences"`
	AvgResolutionMinutes float64           `json:"avg_resolution_minutes"`
	SuccessRate          float64           `json:"success_rate"`
	Examples             []WorkflowExample `json:"examples"`
}

// SessionArchetype labels how an AI session was used.
type SessionArchetype string

const (
	ArchetypeCopyPaste            SessionArchetype = "copy_paste"
	ArchetypeIntenseCollaboration SessionArchetype = "intense_collaboration"
	ArchetypeGuidedRefactor       SessionArchetype = "guided_refactor"
	ArchetypeQuickFix             SessionArchetype = "quick_fix"
	ArchetypeLearningSession      SessionArchetype = "learning_session"
)

// ClassifiedSession pairs a conversation with its correlated commits and
// the archetype the classifier assigned.
type ClassifiedSession struct {
	Conversation AIConversation   `json:"conversation"`
	Commits      []Commit         `json:"commits,omitempty"`
	LinesAdded   int              `json:"lines_added"`
	LinesDeleted int              `json:"lines_deleted"`
	FilesChanged int              `json:"files_changed"`
	Languages    []string         `json:"languages,omitempty"` // sorted, session-distinct
	Archetype    SessionArchetype `json:"archetype"`
}

// TotalLines returns added plus deleted lines across the session's commits.
func (s ClassifiedSession) TotalLines() int {
	return s.LinesAdded + s.LinesDeleted
}
