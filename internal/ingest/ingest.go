// Package ingest loads the engine's normalized JSON event files. This is
// the boundary with the external parsers: tool-specific on-disk formats
// (shell history files, transcript JSONL, git log output) are converted to
// these normalized arrays upstream, with secrets already redacted.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openSVM/devpulse/internal/event"
	"github.com/openSVM/devpulse/internal/logging"
)

// errorLikePatterns is the fixed, case-sensitive substring set that marks a
// command as error-like. Applied exactly once, at ingestion.
var errorLikePatterns = []string{
	"npm ERR",
	"error:",
	"Error:",
	"ERROR:",
	"fatal:",
	"FAILED",
	"failed",
	"cargo build",
	"cargo test",
	"npm install",
	"permission denied",
	"command not found",
	"No such file",
	"cannot find",
}

// rawCommand is the wire form of one shell history entry.
type rawCommand struct {
	Text      string     `json:"text"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// NormalizeCommand derives the immutable per-command facts from raw text.
func NormalizeCommand(text string, ts *time.Time) event.ShellCommand {
	base := ""
	if fields := strings.Fields(text); len(fields) > 0 {
		base = fields[0]
	}

	return event.ShellCommand{
		Text:        text,
		Timestamp:   ts,
		BaseCommand: base,
		IsErrorLike: isErrorLike(text),
	}
}

func isErrorLike(text string) bool {
	for _, p := range errorLikePatterns {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// LoadShellCommands reads a normalized shell command file. Entries with
// empty text are dropped. File order is preserved: shell history is
// chronological by construction and entries without timestamps cannot be
// re-sorted meaningfully.
func LoadShellCommands(path string) ([]event.ShellCommand, error) {
	var raw []rawCommand
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}

	commands := make([]event.ShellCommand, 0, len(raw))
	for _, rc := range raw {
		text := strings.TrimSpace(rc.Text)
		if text == "" {
			continue
		}
		commands = append(commands, NormalizeCommand(text, rc.Timestamp))
	}

	logging.Debug().Int("commands", len(commands)).Str("path", path).Msg("loaded shell commands")
	return commands, nil
}

// LoadConversations reads a normalized conversation file, assigns synthetic
// ids to entries that arrived without one, and sorts by start time.
func LoadConversations(path string) ([]event.AIConversation, error) {
	var conversations []event.AIConversation
	if err := readJSON(path, &conversations); err != nil {
		return nil, err
	}

	for i := range conversations {
		if conversations[i].ID == "" {
			conversations[i].ID = uuid.NewString()
		}
	}
	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].Start.Before(conversations[j].Start)
	})

	logging.Debug().Int("conversations", len(conversations)).Str("path", path).Msg("loaded conversations")
	return conversations, nil
}

// LoadCommits reads a normalized commit file and sorts by timestamp.
func LoadCommits(path string) ([]event.Commit, error) {
	var commits []event.Commit
	if err := readJSON(path, &commits); err != nil {
		return nil, err
	}

	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].Timestamp.Before(commits[j].Timestamp)
	})

	logging.Debug().Int("commits", len(commits)).Str("path", path).Msg("loaded commits")
	return commits, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
