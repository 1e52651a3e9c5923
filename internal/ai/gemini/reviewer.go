package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength  = 200
	maxJobDescriptionLen = 4000
)

// Reviewer writes recruiter notes with Gemini.
type Reviewer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewReviewer(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Reviewer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Reviewer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (r *Reviewer) Review(ctx context.Context, brief ai.Brief) (*ai.Review, error) {
	payload, err := briefPayload(brief)
	if err != nil {
		return nil, err
	}

	payloadJSON, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal brief payload: %w", err)
	}

	prompt := buildPrompt(brief.Kind, brief.JobDescription, string(payloadJSON))

	r.logger.Debug("gemini generate content request",
		zap.String("brief", string(brief.Kind)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, r.maxLogLen)),
	)

	raw, err := r.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("gemini generate content response",
		zap.String("brief", string(brief.Kind)),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, r.maxLogLen)),
	)

	review, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	review.Raw = raw
	return review, nil
}

func briefPayload(brief ai.Brief) (any, error) {
	switch brief.Kind {
	case ai.BriefComparison:
		if brief.Comparison == nil {
			return nil, fmt.Errorf("comparison brief without comparison")
		}
		return brief.Comparison, nil
	case ai.BriefAnalytics:
		if brief.Analytics == nil {
			return nil, fmt.Errorf("analytics brief without analytics")
		}
		return brief.Analytics, nil
	default:
		return nil, fmt.Errorf("unknown brief kind %q", brief.Kind)
	}
}

func buildPrompt(kind ai.BriefKind, jobDescription, payloadJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Job description:\n{{JOB_DESCRIPTION}}\n\n{{KIND}}:\n{{PAYLOAD_JSON}}\n\nJSON Response:"
	}

	job := utils.Truncate(jobDescription, maxJobDescriptionLen)
	if job == "" {
		job = "not provided"
	}

	prompt := strings.ReplaceAll(template, "{{KIND}}", string(kind))
	prompt = strings.ReplaceAll(prompt, "{{JOB_DESCRIPTION}}", job)
	prompt = strings.ReplaceAll(prompt, "{{PAYLOAD_JSON}}", payloadJSON)
	return prompt
}

func parseResponse(raw string) (*ai.Review, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	review := &ai.Review{
		Summary:        coerceString(data["summary"]),
		Recommendation: coerceString(data["recommendation"]),
	}
	if review.Summary == "" {
		return nil, fmt.Errorf("parse gemini response: summary is empty")
	}

	return review, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}
