package results

import (
	"math"
	"strings"
)

const (
	// MinScore and MaxScore bound every percentage carried by a candidate record.
	MinScore = 0.0
	MaxScore = 100.0

	unknownName = "Unknown"
)

// CandidateMatch is the result of evaluating one resume against one job description.
// Optional fields are nil when the API omitted them.
type CandidateMatch struct {
	Name        *string  `json:"name,omitempty" yaml:"name,omitempty"`
	Email       *string  `json:"email,omitempty" yaml:"email,omitempty"`
	MatchScore  float64  `json:"match_score" yaml:"match_score"`
	SkillsMatch float64  `json:"skills_match" yaml:"skills_match"`
	Skills      []string `json:"skills" yaml:"skills"`
	Experience  *string  `json:"experience,omitempty" yaml:"experience,omitempty"`
	Education   *string  `json:"education,omitempty" yaml:"education,omitempty"`
	Filename    string   `json:"filename,omitempty" yaml:"filename,omitempty"`
}

// Optional returns a pointer to s, for building records with optional fields.
func Optional(s string) *string {
	return &s
}

func (c *CandidateMatch) NameOrEmpty() string { return deref(c.Name) }

func (c *CandidateMatch) EmailOrEmpty() string { return deref(c.Email) }

func (c *CandidateMatch) ExperienceOrEmpty() string { return deref(c.Experience) }

func (c *CandidateMatch) EducationOrEmpty() string { return deref(c.Education) }

// DisplayName is the name shown to users; records without a name read as "Unknown".
func (c *CandidateMatch) DisplayName() string {
	if name := strings.TrimSpace(c.NameOrEmpty()); name != "" {
		return name
	}
	return unknownName
}

func (c *CandidateMatch) SkillCount() int {
	return len(c.Skills)
}

// Clamp forces both scores into [MinScore, MaxScore].
func (c *CandidateMatch) Clamp() {
	c.MatchScore = ClampScore(c.MatchScore)
	c.SkillsMatch = ClampScore(c.SkillsMatch)
}

// Clone returns a copy that shares no slice storage with c.
func (c CandidateMatch) Clone() CandidateMatch {
	if c.Skills != nil {
		c.Skills = append([]string(nil), c.Skills...)
	}
	return c
}

// ClampScore maps NaN to zero and limits v to the percentage range.
func ClampScore(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return MinScore
	case v < MinScore:
		return MinScore
	case v > MaxScore:
		return MaxScore
	default:
		return v
	}
}

func cloneAll(items []CandidateMatch) []CandidateMatch {
	out := make([]CandidateMatch, 0, len(items))
	for _, item := range items {
		out = append(out, item.Clone())
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
