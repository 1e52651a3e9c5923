package results

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the ordering of a result view.
type SortKey string

const (
	SortByScore  SortKey = "score"
	SortByName   SortKey = "name"
	SortBySkills SortKey = "skills"
)

// SortKeys lists the accepted keys in menu order.
var SortKeys = []SortKey{SortByScore, SortByName, SortBySkills}

// ParseSortKey accepts the key case-insensitively; an empty key means score.
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if key == "" {
		return SortByScore, nil
	}
	if !slices.Contains(SortKeys, key) {
		return "", &ValidationError{
			Field:  "sort",
			Reason: fmt.Sprintf("unknown sort key %q (want one of score, name, skills)", s),
		}
	}
	return key, nil
}

// Sorted returns a stably sorted copy of items. Names are compared with the
// collation rules of lang; language.Und falls back to the root collation.
func Sorted(items []CandidateMatch, key SortKey, lang language.Tag) []CandidateMatch {
	out := cloneAll(items)

	switch key {
	case SortByName:
		col := collate.New(lang)
		slices.SortStableFunc(out, func(a, b CandidateMatch) int {
			return col.CompareString(a.NameOrEmpty(), b.NameOrEmpty())
		})
	case SortBySkills:
		slices.SortStableFunc(out, func(a, b CandidateMatch) int {
			return b.SkillCount() - a.SkillCount()
		})
	default:
		slices.SortStableFunc(out, func(a, b CandidateMatch) int {
			switch {
			case a.MatchScore > b.MatchScore:
				return -1
			case a.MatchScore < b.MatchScore:
				return 1
			default:
				return 0
			}
		})
	}

	return out
}
