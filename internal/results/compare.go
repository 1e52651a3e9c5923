package results

// Outcome is the verdict for one side of a head-to-head metric.
type Outcome string

const (
	Better Outcome = "better"
	Worse  Outcome = "worse"
	Same   Outcome = "same"
)

// Metric names a compared quantity. Higher always wins.
type Metric string

const (
	MetricMatchScore  Metric = "match_score"
	MetricSkillsMatch Metric = "skills_match"
	MetricSkillCount  Metric = "skill_count"
)

type MetricComparison struct {
	Metric       Metric  `json:"metric"`
	Left         float64 `json:"left"`
	Right        float64 `json:"right"`
	LeftOutcome  Outcome `json:"left_outcome"`
	RightOutcome Outcome `json:"right_outcome"`
}

type Comparison struct {
	Left    CandidateMatch     `json:"left"`
	Right   CandidateMatch     `json:"right"`
	Metrics []MetricComparison `json:"metrics"`
}

// CompareTwo compares a and b metric by metric. Both must be present and
// must not be the same record.
func CompareTwo(a, b *CandidateMatch) (*Comparison, error) {
	if a == nil || b == nil || a == b {
		return nil, ErrInvalidSelection
	}

	return &Comparison{
		Left:  a.Clone(),
		Right: b.Clone(),
		Metrics: []MetricComparison{
			compareMetric(MetricMatchScore, a.MatchScore, b.MatchScore),
			compareMetric(MetricSkillsMatch, a.SkillsMatch, b.SkillsMatch),
			compareMetric(MetricSkillCount, float64(a.SkillCount()), float64(b.SkillCount())),
		},
	}, nil
}

// Metric looks up the comparison row for m.
func (c *Comparison) Metric(m Metric) (MetricComparison, bool) {
	for _, row := range c.Metrics {
		if row.Metric == m {
			return row, true
		}
	}
	return MetricComparison{}, false
}

func compareMetric(m Metric, left, right float64) MetricComparison {
	return MetricComparison{
		Metric:       m,
		Left:         left,
		Right:        right,
		LeftOutcome:  outcome(left, right),
		RightOutcome: outcome(right, left),
	}
}

func outcome(mine, theirs float64) Outcome {
	switch {
	case mine > theirs:
		return Better
	case mine < theirs:
		return Worse
	default:
		return Same
	}
}
