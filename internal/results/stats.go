package results

import "math"

// Statistics is the summary panel shown above a result list.
type Statistics struct {
	Total               int     `json:"total"`
	AvgScore            float64 `json:"avg_score"`
	TopScore            float64 `json:"top_score"`
	TotalDistinctSkills int     `json:"total_distinct_skills"`
}

// Empty reports whether the panel should be hidden.
func (s Statistics) Empty() bool { return s.Total == 0 }

// ComputeStatistics summarises items. Empty input yields the zero value.
func ComputeStatistics(items []CandidateMatch) Statistics {
	if len(items) == 0 {
		return Statistics{}
	}

	var sum float64
	top := items[0].MatchScore
	skills := make(map[string]struct{})

	for _, item := range items {
		sum += item.MatchScore
		top = math.Max(top, item.MatchScore)
		for _, skill := range item.Skills {
			skills[skill] = struct{}{}
		}
	}

	return Statistics{
		Total:               len(items),
		AvgScore:            roundTo(sum/float64(len(items)), 1),
		TopScore:            top,
		TotalDistinctSkills: len(skills),
	}
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
