package filtering

import (
	"strconv"

	"github.com/spigell/resume-matcher/internal/results"
)

type minScoreFilter struct {
	min      float64
	disabled bool
	reason   string
}

// NewMinScore creates a filter dropping records whose match score is below min.
func NewMinScore(min float64) Filter {
	return &minScoreFilter{min: min}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *minScoreFilter) IsEnabled() bool { return !f.disabled }

func (f *minScoreFilter) Apply(items []results.CandidateMatch) ([]results.CandidateMatch, Step) {
	return keep(items, func(c *results.CandidateMatch) bool {
		return c.MatchScore >= f.min
	})
}

func (f *minScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"min": strconv.FormatFloat(f.min, 'f', -1, 64)},
	}
}
