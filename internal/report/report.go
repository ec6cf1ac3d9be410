// Package report defines the aggregate analysis report and its writers.
package report

import (
	"time"

	"github.com/openSVM/devpulse/internal/correlate"
	"github.com/openSVM/devpulse/internal/event"
	"github.com/openSVM/devpulse/internal/metrics"
	"github.com/openSVM/devpulse/internal/score"
	"github.com/openSVM/devpulse/internal/shellscan"
)

// Report is the single aggregate value one engine run produces. It is
// rebuilt from scratch on every run and carries no state between runs.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`

	Shell     shellscan.Stats         `json:"shell"`
	Struggles []event.StruggleEpisode `json:"struggles,omitempty"`

	Sessions  []event.ClassifiedSession `json:"sessions,omitempty"`
	Workflows correlate.Result          `json:"workflows"`
	Metrics   metrics.Summary           `json:"metrics"`

	Recommendations []score.Recommendation  `json:"recommendations,omitempty"`
	Score           score.ProductivityScore `json:"score"`
}
