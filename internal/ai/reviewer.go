package ai

import (
	"context"

	"github.com/spigell/resume-matcher/internal/results"
)

// BriefKind says what a Brief asks the reviewer to comment on.
type BriefKind string

const (
	BriefComparison BriefKind = "comparison"
	BriefAnalytics  BriefKind = "analytics"
)

// Brief is the material handed to a reviewer. Exactly one of Comparison and
// Analytics is set, matching Kind.
type Brief struct {
	Kind           BriefKind
	JobDescription string
	Comparison     *results.Comparison
	Analytics      *results.Analytics
}

// Review is a short recruiter note. It never changes any score.
type Review struct {
	Summary        string
	Recommendation string
	Raw            string
}

type Reviewer interface {
	Review(ctx context.Context, brief Brief) (*Review, error)
}
