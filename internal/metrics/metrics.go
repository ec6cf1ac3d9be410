// Package metrics aggregates classified sessions and commits into velocity,
// volume, language, and dependency measurements.
package metrics

import (
	"math"
	"sort"

	"github.com/openSVM/devpulse/internal/event"
)

// Summary holds every aggregate the engine derives from sessions and commits.
type Summary struct {
	TotalSessions     int     `json:"total_sessions"` // commit-bearing AI sessions
	LearningSessions  int     `json:"learning_sessions"`
	AIAssistedCommits int     `json:"ai_assisted_commits"`
	SoloCommits       int     `json:"solo_commits"`
	AIAssistanceRate  float64 `json:"ai_assistance_rate"` // percent of commits made with AI

	AIVelocity             float64 `json:"ai_velocity"`   // commits per session-hour
	SoloVelocity           float64 `json:"solo_velocity"` // commits per hour across the solo span
	VelocityImprovementPct float64 `json:"velocity_improvement_pct"`

	LinesWithAI       int     `json:"lines_with_ai"`
	LinesSolo         int     `json:"lines_solo"`
	AIContributionPct float64 `json:"ai_contribution_pct"`

	AvgFilesPerCommitAI   float64 `json:"avg_files_per_commit_ai"`
	AvgFilesPerCommitSolo float64 `json:"avg_files_per_commit_solo"`

	RefactorSessions   int `json:"refactor_sessions"`
	CopyPasteIncidents int `json:"copy_paste_incidents"`
	DeepCollaborations int `json:"deep_collaborations"`

	MostAssistedLanguage string `json:"most_assisted_language"`
	MostProductiveHour   int    `json:"most_productive_hour"`

	MonthlyDependency  []MonthlyDependency `json:"monthly_dependency,omitempty"`
	DependencyTrend    string              `json:"dependency_trend"` // "rising", "falling", "stable"
	DependencyDeltaPct float64             `json:"dependency_delta_pct"`
}

// MonthlyDependency is one point on the monthly AI-dependency curve.
type MonthlyDependency struct {
	Month         string  `json:"month"` // YYYY-MM
	AICommits     int     `json:"ai_commits"`
	SoloCommits   int     `json:"solo_commits"`
	DependencyPct float64 `json:"dependency_pct"`
}

const (
	minSessionHours  = 0.1 // velocity denominator floor
	minSoloSpanHours = 1.0
	trendWindow      = 4    // months compared on each side
	trendDeadBandPct = 10.0 // deltas inside this are "stable"
)

// Compute aggregates classified sessions and the full commit stream.
// Sessions must be sorted by conversation start; commits by timestamp.
// Every map-backed aggregation breaks ties explicitly so output is
// deterministic for identical input.
func Compute(sessions []event.ClassifiedSession, commits []event.Commit) Summary {
	var s Summary

	// Ownership: a commit counts as AI-assisted when any session holds it;
	// the earliest owning session decides its dependency-curve month.
	ownerMonth := make(map[string]string)
	var sessionHours float64
	var sessionCommits int
	langSessions := make(map[string]int)
	var commitsByHour [24]int

	for _, sess := range sessions {
		if len(sess.Commits) == 0 {
			s.LearningSessions++
			continue
		}

		s.TotalSessions++
		sessionCommits += len(sess.Commits)
		sessionHours += sess.Conversation.End.Sub(sess.Conversation.Start).Hours()
		s.LinesWithAI += sess.TotalLines()
		commitsByHour[sess.Conversation.Start.Hour()] += len(sess.Commits)

		month := sess.Conversation.Start.Format("2006-01")
		for _, c := range sess.Commits {
			if _, seen := ownerMonth[c.Hash]; !seen {
				ownerMonth[c.Hash] = month
			}
		}

		for _, lang := range sess.Languages {
			langSessions[lang]++
		}

		switch sess.Archetype {
		case event.ArchetypeCopyPaste:
			s.CopyPasteIncidents++
		case event.ArchetypeIntenseCollaboration:
			s.DeepCollaborations++
		case event.ArchetypeGuidedRefactor:
			s.RefactorSessions++
		}
	}

	// Split the commit stream into AI-assisted and solo.
	var soloCommits []event.Commit
	var aiFiles, soloFiles int
	monthly := make(map[string]*MonthlyDependency)
	for _, c := range commits {
		if month, ok := ownerMonth[c.Hash]; ok {
			s.AIAssistedCommits++
			aiFiles += c.FilesChanged
			monthlyBucket(monthly, month).AICommits++
			continue
		}
		soloCommits = append(soloCommits, c)
		soloFiles += c.FilesChanged
		s.LinesSolo += c.Insertions + c.Deletions
		monthlyBucket(monthly, c.Timestamp.Format("2006-01")).SoloCommits++
	}
	s.SoloCommits = len(soloCommits)

	if total := s.AIAssistedCommits + s.SoloCommits; total > 0 {
		s.AIAssistanceRate = float64(s.AIAssistedCommits) / float64(total) * 100
	}
	if total := s.LinesWithAI + s.LinesSolo; total > 0 {
		s.AIContributionPct = float64(s.LinesWithAI) / float64(total) * 100
	}
	if s.AIAssistedCommits > 0 {
		s.AvgFilesPerCommitAI = float64(aiFiles) / float64(s.AIAssistedCommits)
	}
	if len(soloCommits) > 0 {
		s.AvgFilesPerCommitSolo = float64(soloFiles) / float64(len(soloCommits))
	}

	// Velocities.
	if s.TotalSessions > 0 {
		s.AIVelocity = float64(sessionCommits) / math.Max(sessionHours, minSessionHours)
	}
	if len(soloCommits) >= 2 {
		span := soloCommits[len(soloCommits)-1].Timestamp.Sub(soloCommits[0].Timestamp).Hours()
		s.SoloVelocity = float64(len(soloCommits)) / math.Max(span, minSoloSpanHours)
	}
	if s.SoloVelocity > 0 {
		s.VelocityImprovementPct = math.Max((s.AIVelocity-s.SoloVelocity)/s.SoloVelocity*100, 0)
	}

	// Most-assisted language: session occurrences, alphabetical tie-break.
	s.MostAssistedLanguage = "Unknown"
	best := 0
	var names []string
	for name := range langSessions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if langSessions[name] > best {
			best = langSessions[name]
			s.MostAssistedLanguage = name
		}
	}

	// Most-productive hour: highest commit total, earlier hour on ties.
	for hour := 1; hour < 24; hour++ {
		if commitsByHour[hour] > commitsByHour[s.MostProductiveHour] {
			s.MostProductiveHour = hour
		}
	}

	// Monthly dependency curve, oldest first.
	for _, m := range monthly {
		if total := m.AICommits + m.SoloCommits; total > 0 {
			m.DependencyPct = float64(m.AICommits) / float64(total) * 100
		}
		s.MonthlyDependency = append(s.MonthlyDependency, *m)
	}
	sort.Slice(s.MonthlyDependency, func(i, j int) bool {
		return s.MonthlyDependency[i].Month < s.MonthlyDependency[j].Month
	})

	s.DependencyTrend, s.DependencyDeltaPct = dependencyTrend(s.MonthlyDependency)

	return s
}

func monthlyBucket(monthly map[string]*MonthlyDependency, month string) *MonthlyDependency {
	m, ok := monthly[month]
	if !ok {
		m = &MonthlyDependency{Month: month}
		monthly[month] = m
	}
	return m
}

// dependencyTrend compares the dependency percentage over the last
// trendWindow months against the previous trendWindow. Small deltas are
// reported as stable.
func dependencyTrend(curve []MonthlyDependency) (string, float64) {
	if len(curve) < 2*trendWindow {
		return "stable", 0
	}

	avg := func(points []MonthlyDependency) float64 {
		var sum float64
		for _, p := range points {
			sum += p.DependencyPct
		}
		return sum / float64(len(points))
	}

	n := len(curve)
	recent := avg(curve[n-trendWindow:])
	prev := avg(curve[n-2*trendWindow : n-trendWindow])
	if prev == 0 {
		return "stable", 0
	}

	delta := (recent - prev) / prev * 100
	if math.Abs(delta) < trendDeadBandPct {
		return "stable", delta
	}
	if delta > 0 {
		return "rising", delta
	}
	return "falling", delta
}
