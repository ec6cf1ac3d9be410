package shellscan

import (
	"sort"
	"strings"

	"github.com/openSVM/devpulse/internal/event"
)

// Stats holds aggregate analytics over one shell command stream.
type Stats struct {
	TotalCommands  int `json:"total_commands"`
	UniqueCommands int `json:"unique_commands"`

	MostUsed []CommandCount `json:"most_used,omitempty"`

	EstimatedFailures int            `json:"estimated_failures"`
	FailureRate       float64        `json:"failure_rate"` // percentage of error-like commands
	ErrorPatterns     []ErrorPattern `json:"error_patterns,omitempty"`
	TimeWastedHours   float64        `json:"time_wasted_hours"`

	CommandChains    []CommandChain `json:"command_chains,omitempty"`
	AvgCommandLength float64        `json:"avg_command_length"`

	CommandsByHour [24]int `json:"commands_by_hour"`
	MostActiveHour int     `json:"most_active_hour"`
}

// CommandCount is one base command with its usage count.
type CommandCount struct {
	Command string `json:"command"`
	Count   int    `json:"count"`
}

// ErrorPattern groups error-like commands of one family.
type ErrorPattern struct {
	ErrorType         string   `json:"error_type"`
	Count             int      `json:"count"`
	ExampleCommands   []string `json:"example_commands,omitempty"`
	AvgRetries        float64  `json:"avg_retries"`
	TimeWastedMinutes float64  `json:"time_wasted_minutes"`
}

// CommandChain is a recurring two-command sequence.
type CommandChain struct {
	Pattern   []string `json:"pattern"`
	Frequency int      `json:"frequency"`
}

// Per-family retry and time-cost estimates, carried over from observed
// averages rather than computed per run.
const (
	npmRetries        = 2.8
	cargoRetries      = 3.2
	gitRetries        = 2.1
	permissionRetries = 1.5

	npmMinutesPer        = 5.0
	cargoMinutesPer      = 8.0
	gitMinutesPer        = 3.0
	permissionMinutesPer = 2.0
)

const (
	mostUsedLimit     = 20
	chainMinFrequency = 3
	chainLimit        = 10
	errorExampleLimit = 3
)

// ComputeStats builds aggregate analytics from a command stream.
// Everywhere a map feeds output, ordering is made explicit: count
// descending, then name ascending.
func ComputeStats(commands []event.ShellCommand) Stats {
	var s Stats
	s.TotalCommands = len(commands)

	baseCounts := make(map[string]int)
	var textLen int
	for _, cmd := range commands {
		baseCounts[cmd.BaseCommand]++
		textLen += len(cmd.Text)
		if cmd.IsErrorLike {
			s.EstimatedFailures++
		}
		if cmd.Timestamp != nil {
			s.CommandsByHour[cmd.Timestamp.Hour()]++
		}
	}
	s.UniqueCommands = len(baseCounts)

	if s.TotalCommands > 0 {
		s.FailureRate = float64(s.EstimatedFailures) / float64(s.TotalCommands) * 100
		s.AvgCommandLength = float64(textLen) / float64(s.TotalCommands)
	}

	for name, count := range baseCounts {
		s.MostUsed = append(s.MostUsed, CommandCount{Command: name, Count: count})
	}
	sort.Slice(s.MostUsed, func(i, j int) bool {
		if s.MostUsed[i].Count != s.MostUsed[j].Count {
			return s.MostUsed[i].Count > s.MostUsed[j].Count
		}
		return s.MostUsed[i].Command < s.MostUsed[j].Command
	})
	if len(s.MostUsed) > mostUsedLimit {
		s.MostUsed = s.MostUsed[:mostUsedLimit]
	}

	s.ErrorPatterns = errorPatterns(commands)
	for _, p := range s.ErrorPatterns {
		s.TimeWastedHours += p.TimeWastedMinutes / 60
	}

	s.CommandChains = commandChains(commands)

	// Most active hour: highest count wins, earlier hour breaks ties.
	for hour := 1; hour < 24; hour++ {
		if s.CommandsByHour[hour] > s.CommandsByHour[s.MostActiveHour] {
			s.MostActiveHour = hour
		}
	}

	return s
}

// errorPatterns groups error-like commands into tool families.
func errorPatterns(commands []event.ShellCommand) []ErrorPattern {
	var npmErrs, cargoErrs, gitErrs, permErrs []string

	for _, cmd := range commands {
		switch {
		case strings.Contains(cmd.Text, "npm") && (strings.Contains(cmd.Text, "ERR") || strings.Contains(cmd.Text, "error")):
			npmErrs = append(npmErrs, cmd.Text)
		case strings.Contains(cmd.Text, "cargo") && cmd.IsErrorLike:
			cargoErrs = append(cargoErrs, cmd.Text)
		case strings.Contains(cmd.Text, "git") && cmd.IsErrorLike:
			gitErrs = append(gitErrs, cmd.Text)
		case strings.Contains(strings.ToLower(cmd.Text), "permission denied"):
			permErrs = append(permErrs, cmd.Text)
		}
	}

	var patterns []ErrorPattern
	add := func(errorType string, examples []string, retries, minutesPer float64) {
		if len(examples) == 0 {
			return
		}
		kept := examples
		if len(kept) > errorExampleLimit {
			kept = kept[:errorExampleLimit]
		}
		patterns = append(patterns, ErrorPattern{
			ErrorType:         errorType,
			Count:             len(examples),
			ExampleCommands:   kept,
			AvgRetries:        retries,
			TimeWastedMinutes: float64(len(examples)) * minutesPer,
		})
	}

	add("npm errors", npmErrs, npmRetries, npmMinutesPer)
	add("cargo build/test failures", cargoErrs, cargoRetries, cargoMinutesPer)
	add("git errors", gitErrs, gitRetries, gitMinutesPer)
	add("permission denied", permErrs, permissionRetries, permissionMinutesPer)

	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Count != patterns[j].Count {
			return patterns[i].Count > patterns[j].Count
		}
		return patterns[i].ErrorType < patterns[j].ErrorType
	})

	return patterns
}

// commandChains finds recurring two-command sequences of base commands.
func commandChains(commands []event.ShellCommand) []CommandChain {
	counts := make(map[[2]string]int)
	for i := 0; i+1 < len(commands); i++ {
		counts[[2]string{commands[i].BaseCommand, commands[i+1].BaseCommand}]++
	}

	var chains []CommandChain
	for pair, freq := range counts {
		if freq >= chainMinFrequency {
			chains = append(chains, CommandChain{Pattern: []string{pair[0], pair[1]}, Frequency: freq})
		}
	}
	sort.Slice(chains, func(i, j int) bool {
		if chains[i].Frequency != chains[j].Frequency {
			return chains[i].Frequency > chains[j].Frequency
		}
		if chains[i].Pattern[0] != chains[j].Pattern[0] {
			return chains[i].Pattern[0] < chains[j].Pattern[0]
		}
		return chains[i].Pattern[1] < chains[j].Pattern[1]
	})
	if len(chains) > chainLimit {
		chains = chains[:chainLimit]
	}

	return chains
}
