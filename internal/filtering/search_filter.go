package filtering

import (
	"strings"

	"github.com/spigell/resume-matcher/internal/results"
)

const emptySearchMsg = "empty search term"

type searchFilter struct {
	term     string
	disabled bool
	reason   string
}

// NewSearch creates a filter keeping records whose name, email or any skill
// contains term, ignoring case. An empty term disables the step.
func NewSearch(term string) Filter {
	f := &searchFilter{term: strings.ToLower(term)}
	if term == "" {
		f.Disable(emptySearchMsg)
	}
	return f
}

func (f *searchFilter) Name() string { return "search" }

func (f *searchFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *searchFilter) IsEnabled() bool { return !f.disabled }

func (f *searchFilter) Apply(items []results.CandidateMatch) ([]results.CandidateMatch, Step) {
	return keep(items, f.matches)
}

func (f *searchFilter) matches(c *results.CandidateMatch) bool {
	if strings.Contains(strings.ToLower(c.NameOrEmpty()), f.term) {
		return true
	}
	if strings.Contains(strings.ToLower(c.EmailOrEmpty()), f.term) {
		return true
	}
	for _, skill := range c.Skills {
		if strings.Contains(strings.ToLower(skill), f.term) {
			return true
		}
	}
	return false
}

func (f *searchFilter) Status() Status {
	details := map[string]string{}
	if f.term != "" {
		details["term"] = f.term
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
