package results

import (
	"math"
	"sort"
)

// TopSkillsLimit caps the skill frequency table.
const TopSkillsLimit = 10

// Band is a score bucket of the distribution chart.
type Band string

const (
	BandExcellent Band = "excellent"
	BandGood      Band = "good"
	BandFair      Band = "fair"
	BandPoor      Band = "poor"
)

// BandOf places score into [80,100], [60,80), [40,60) or [0,40).
func BandOf(score float64) Band {
	switch {
	case score >= 80:
		return BandExcellent
	case score >= 60:
		return BandGood
	case score >= 40:
		return BandFair
	default:
		return BandPoor
	}
}

type Distribution struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Fair      int `json:"fair"`
	Poor      int `json:"poor"`
}

func (d Distribution) Total() int {
	return d.Excellent + d.Good + d.Fair + d.Poor
}

func (d *Distribution) add(b Band) {
	switch b {
	case BandExcellent:
		d.Excellent++
	case BandGood:
		d.Good++
	case BandFair:
		d.Fair++
	default:
		d.Poor++
	}
}

type ScoreStats struct {
	Avg float64 `json:"avg"`
	Max float64 `json:"max"`
	Min float64 `json:"min"`
}

// SkillCount is one row of the top skills table. Percent is relative to the
// number of candidates, not to the number of skill mentions.
type SkillCount struct {
	Skill   string  `json:"skill"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type Analytics struct {
	Candidates   int          `json:"candidates"`
	Distribution Distribution `json:"distribution"`
	ScoreStats   ScoreStats   `json:"score_stats"`
	TopSkills    []SkillCount `json:"top_skills"`
}

// ComputeAnalytics buckets scores and ranks skills across items.
func ComputeAnalytics(items []CandidateMatch) Analytics {
	a := Analytics{Candidates: len(items), TopSkills: []SkillCount{}}
	if len(items) == 0 {
		return a
	}

	var sum float64
	a.ScoreStats.Max = math.Inf(-1)
	a.ScoreStats.Min = math.Inf(1)

	counts := make(map[string]int)
	var order []string

	for _, item := range items {
		a.Distribution.add(BandOf(item.MatchScore))

		sum += item.MatchScore
		a.ScoreStats.Max = math.Max(a.ScoreStats.Max, item.MatchScore)
		a.ScoreStats.Min = math.Min(a.ScoreStats.Min, item.MatchScore)

		for _, skill := range item.Skills {
			if _, seen := counts[skill]; !seen {
				order = append(order, skill)
			}
			counts[skill]++
		}
	}
	a.ScoreStats.Avg = sum / float64(len(items))

	ranked := make([]SkillCount, 0, len(order))
	for _, skill := range order {
		ranked = append(ranked, SkillCount{
			Skill:   skill,
			Count:   counts[skill],
			Percent: float64(counts[skill]) / float64(len(items)) * 100,
		})
	}
	// first-seen order survives among equal counts
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > TopSkillsLimit {
		ranked = ranked[:TopSkillsLimit]
	}
	a.TopSkills = ranked

	return a
}
