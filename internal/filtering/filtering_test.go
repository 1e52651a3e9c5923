package filtering

import (
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-matcher/internal/results"
)

func sample() []results.CandidateMatch {
	return []results.CandidateMatch{
		{Name: results.Optional("A"), MatchScore: 90, Skills: []string{"Go", "SQL"}},
		{Name: results.Optional("B"), MatchScore: 40, Skills: []string{"SQL"}},
	}
}

func namesOf(items []results.CandidateMatch) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.NameOrEmpty())
	}
	return out
}

func TestFilterAndSortScenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{name: "min score drops the weak match", query: Query{MinScore: 50, Sort: results.SortByScore}, want: []string{"A"}},
		{name: "skill search sorted by name", query: Query{Search: "sql", Sort: results.SortByName}, want: []string{"A", "B"}},
		{name: "search is case insensitive", query: Query{Search: "gO"}, want: []string{"A"}},
		{name: "no match", query: Query{Search: "rust"}, want: []string{}},
		{name: "threshold is inclusive", query: Query{MinScore: 40}, want: []string{"A", "B"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := FilterAndSort(sample(), tt.query, zap.NewNop())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if names := namesOf(got); !reflect.DeepEqual(names, tt.want) {
				t.Fatalf("got %v, want %v", names, tt.want)
			}
		})
	}
}

func TestFilterAndSortMatchesEmail(t *testing.T) {
	t.Parallel()

	items := []results.CandidateMatch{
		{Email: results.Optional("jane@example.com"), MatchScore: 10},
		{Name: results.Optional("John"), MatchScore: 20},
	}

	got, err := FilterAndSort(items, Query{Search: "EXAMPLE"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].EmailOrEmpty() != "jane@example.com" {
		t.Fatalf("expected only the email match, got %+v", got)
	}
}

func TestFilterAndSortIsPermutationWithoutFilters(t *testing.T) {
	t.Parallel()

	items := []results.CandidateMatch{
		{Name: results.Optional("c"), MatchScore: 10},
		{Name: results.Optional("a"), MatchScore: 70},
		{Name: results.Optional("b"), MatchScore: 70},
	}
	before := namesOf(items)

	got, err := FilterAndSort(items, Query{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(namesOf(got), want) {
		t.Fatalf("got %v, want %v", namesOf(got), want)
	}
	if !reflect.DeepEqual(namesOf(items), before) {
		t.Fatalf("input was reordered: %v", namesOf(items))
	}

	got[0].Skills = append(got[0].Skills, "x")
	if items[1].Skills != nil {
		t.Fatalf("view aliases the input")
	}
}

func TestFilterAndSortRejectsUnknownSort(t *testing.T) {
	t.Parallel()

	_, err := FilterAndSort(sample(), Query{Sort: "salary"}, nil)
	if err == nil {
		t.Fatal("expected an error for an unknown sort key")
	}
	if _, ok := err.(*results.ValidationError); !ok {
		t.Fatalf("expected a validation error, got %T", err)
	}
}

func TestRunLogsSteps(t *testing.T) {
	t.Parallel()

	core, recorded := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	q := Query{MinScore: 50}
	got := Run(logger, q.Steps(), sample())
	if len(got) != 1 {
		t.Fatalf("expected one record left, got %d", len(got))
	}

	if n := recorded.FilterMessage("filter disabled").FilterField(zap.String("name", "search")).Len(); n != 1 {
		t.Fatalf("expected the search step to be reported disabled, got %d entries", n)
	}

	steps := recorded.FilterMessage("filter step").All()
	if len(steps) != 1 {
		t.Fatalf("expected one applied step, got %d", len(steps))
	}
	fields := steps[0].ContextMap()
	if fields["name"] != "min_score" || fields["initial"] != int64(2) || fields["dropped"] != int64(1) || fields["left"] != int64(1) {
		t.Fatalf("unexpected step fields: %v", fields)
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	statuses := Describe(Query{Search: "Go", MinScore: 62.5}.Steps())
	if len(statuses) != 2 {
		t.Fatalf("expected two statuses, got %d", len(statuses))
	}

	search, minScore := statuses[0], statuses[1]
	if !search.Enabled || search.Details["term"] != "go" {
		t.Fatalf("unexpected search status: %+v", search)
	}
	if !minScore.Enabled || minScore.Details["min"] != "62.5" {
		t.Fatalf("unexpected min score status: %+v", minScore)
	}

	disabled := Describe([]Filter{NewSearch("")})[0]
	if disabled.Enabled || disabled.Reason != emptySearchMsg {
		t.Fatalf("expected a disabled search step, got %+v", disabled)
	}
}
