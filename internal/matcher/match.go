package matcher

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/results"
)

const (
	apiMatchPath = "/match"

	DefaultTopN = 10
)

// MatchRequest asks the API to rank uploaded resumes against a job description.
type MatchRequest struct {
	JobDescription string   `json:"job_description" validate:"required"`
	Filenames      []string `json:"filenames" validate:"min=1"`
	TopN           int      `json:"top_n" validate:"gte=1"`
	MinScore       float64  `json:"min_score" validate:"gte=0,lte=100"`
}

type matchResponse struct {
	Results      []any `json:"results"`
	TotalMatched int   `json:"total_matched"`
}

// Match sends req and returns the ranked candidates with scores clamped to [0,100].
func (c *Client) Match(ctx context.Context, req MatchRequest) ([]results.CandidateMatch, error) {
	req.JobDescription = strings.TrimSpace(req.JobDescription)
	if req.TopN == 0 {
		req.TopN = DefaultTopN
	}

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var resp matchResponse
	if err := c.postJSON(ctx, "match", apiMatchPath, req, &resp); err != nil {
		return nil, err
	}

	candidates, err := decodeCandidates(resp.Results)
	if err != nil {
		return nil, &ApplicationError{Operation: "match", Message: err.Error()}
	}

	c.logger.Debug("matched candidates",
		zap.Int("files", len(req.Filenames)),
		zap.Int("results", len(candidates)),
	)

	return candidates, nil
}

func decodeCandidates(items []any) ([]results.CandidateMatch, error) {
	candidates := make([]results.CandidateMatch, 0, len(items))
	if len(items) == 0 {
		return candidates, nil
	}

	if err := decodeItems(items, &candidates); err != nil {
		return nil, err
	}

	for i := range candidates {
		candidates[i].Clamp()
		if candidates[i].Skills == nil {
			candidates[i].Skills = []string{}
		}
	}

	return candidates, nil
}
