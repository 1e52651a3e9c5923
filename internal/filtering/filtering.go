package filtering

import (
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/spigell/resume-matcher/internal/results"
)

// Filter represents a single filtering step applied to candidate records.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Apply(items []results.CandidateMatch) ([]results.CandidateMatch, Step)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// Query holds the view parameters picked in the dashboard.
type Query struct {
	Search   string
	MinScore float64
	Sort     results.SortKey
	// Language drives name collation. The zero value uses English.
	Language language.Tag
}

// Steps builds the filter chain for q.
func (q Query) Steps() []Filter {
	return []Filter{
		NewSearch(q.Search),
		NewMinScore(q.MinScore),
	}
}

// FilterAndSort returns the records of items matching q, ordered by q.Sort.
// items is never modified.
func FilterAndSort(items []results.CandidateMatch, q Query, logger *zap.Logger) ([]results.CandidateMatch, error) {
	key, err := results.ParseSortKey(string(q.Sort))
	if err != nil {
		return nil, err
	}

	lang := q.Language
	if lang == language.Und {
		lang = language.English
	}

	filtered := Run(logger, q.Steps(), items)
	return results.Sorted(filtered, key, lang), nil
}

// Run executes the supplied filters sequentially and returns the records left.
func Run(logger *zap.Logger, steps []Filter, items []results.CandidateMatch) []results.CandidateMatch {
	current := items
	applied := false
	for _, step := range steps {
		if !step.IsEnabled() {
			if logger != nil {
				logger.Debug("filter disabled", zap.String("name", step.Name()))
			}
			continue
		}

		next, info := step.Apply(current)

		if logger != nil {
			logger.Debug("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		current = next
		applied = true
	}

	if !applied {
		// never hand the caller's slice back
		current, _ = keep(items, func(*results.CandidateMatch) bool { return true })
	}

	return current
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// keep returns a new slice with the records accepted by pred.
func keep(items []results.CandidateMatch, pred func(*results.CandidateMatch) bool) ([]results.CandidateMatch, Step) {
	out := make([]results.CandidateMatch, 0, len(items))
	for i := range items {
		if pred(&items[i]) {
			out = append(out, items[i].Clone())
		}
	}
	return out, Step{Initial: len(items), Dropped: len(items) - len(out), Left: len(out)}
}
