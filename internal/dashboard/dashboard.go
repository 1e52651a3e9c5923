package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/filtering"
	"github.com/spigell/resume-matcher/internal/matcher"
	"github.com/spigell/resume-matcher/internal/results"
)

// ErrReviewerDisabled is returned by Review when no AI reviewer is configured.
var ErrReviewerDisabled = errors.New("ai review is disabled (set ai.enabled in the config)")

// API is the part of the matching API client the dashboard drives.
type API interface {
	UploadAll(ctx context.Context, paths []string, concurrency int) []matcher.UploadResult
	Delete(ctx context.Context, filename string) error
	Parse(ctx context.Context, filename string) (*matcher.ParsedResume, error)
	Match(ctx context.Context, req matcher.MatchRequest) ([]results.CandidateMatch, error)
	Export(ctx context.Context, items []results.CandidateMatch) (*matcher.Export, error)
}

// Options holds the defaults of the match and view parameters.
type Options struct {
	TopN              int
	MinScore          float64
	UploadConcurrency int
	ExportDir         string
	Language          language.Tag
	// BaseURL is only used in user-facing hints.
	BaseURL string
}

// Dashboard owns the session state: uploaded files and the result store.
type Dashboard struct {
	api      API
	store    *results.Store
	reviewer ai.Reviewer
	logger   *zap.Logger
	render   *Renderer
	opts     Options

	uploaded       []matcher.UploadedFile
	jobDescription string
}

// Deps aggregates the collaborators of a Dashboard.
type Deps struct {
	API      API
	Store    *results.Store
	Reviewer ai.Reviewer
	Logger   *zap.Logger
	Out      io.Writer
}

func New(deps Deps, opts Options) *Dashboard {
	if deps.Store == nil {
		deps.Store = results.NewStore()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	if opts.TopN <= 0 {
		opts.TopN = matcher.DefaultTopN
	}
	if opts.Language == language.Und {
		opts.Language = language.English
	}

	return &Dashboard{
		api:      deps.API,
		store:    deps.Store,
		reviewer: deps.Reviewer,
		logger:   deps.Logger,
		render:   NewRenderer(deps.Out),
		opts:     opts,
	}
}

// Uploaded returns the files uploaded in this session, oldest first.
func (d *Dashboard) Uploaded() []matcher.UploadedFile {
	return append([]matcher.UploadedFile(nil), d.uploaded...)
}

// Results returns the canonical result set of the last match.
func (d *Dashboard) Results() []results.CandidateMatch {
	return d.store.Results()
}

// UploadFiles uploads paths and remembers the successful ones. Failures are
// reported per file and joined into the returned error.
func (d *Dashboard) UploadFiles(ctx context.Context, paths []string) error {
	var errs []error
	var added []matcher.UploadedFile

	for _, res := range d.api.UploadAll(ctx, paths, d.opts.UploadConcurrency) {
		if res.Err != nil {
			d.logger.Warn("upload failed", zap.String("path", res.Path), zap.Error(res.Err))
			d.render.Error(UserMessage(ActionUpload, res.Err, d.opts.BaseURL))
			errs = append(errs, fmt.Errorf("%s: %w", res.Path, res.Err))
			continue
		}

		d.logger.Info("uploaded resume", zap.String("path", res.Path), zap.String("filename", res.File.Filename))
		d.uploaded = append(d.uploaded, *res.File)
		added = append(added, *res.File)
	}

	if len(added) > 0 {
		d.render.Uploaded(added)
	}

	return errors.Join(errs...)
}

// RemoveFile deletes an uploaded resume on the server and forgets it.
func (d *Dashboard) RemoveFile(ctx context.Context, filename string) error {
	if err := d.api.Delete(ctx, filename); err != nil {
		return err
	}

	kept := d.uploaded[:0]
	for _, f := range d.uploaded {
		if f.Filename != filename {
			kept = append(kept, f)
		}
	}
	d.uploaded = kept

	d.logger.Info("removed resume", zap.String("filename", filename))
	return nil
}

// ViewFile shows what the API extracted from an uploaded resume.
func (d *Dashboard) ViewFile(ctx context.Context, filename string) error {
	parsed, err := d.api.Parse(ctx, filename)
	if err != nil {
		return err
	}

	d.render.ParsedResume(filename, parsed)
	return nil
}

// Match ranks every uploaded resume against jobDescription, replaces the
// canonical result set and renders the full ranking.
func (d *Dashboard) Match(ctx context.Context, jobDescription string) error {
	items, err := d.Rank(ctx, jobDescription)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		d.render.NoResults()
		return nil
	}

	d.render.Statistics(results.ComputeStatistics(items))
	d.render.Candidates(items, "Sorted by match score (highest first)")
	return nil
}

// Rank is Match without rendering. It returns the new canonical set.
func (d *Dashboard) Rank(ctx context.Context, jobDescription string) ([]results.CandidateMatch, error) {
	jobDescription = strings.TrimSpace(jobDescription)
	if jobDescription == "" {
		return nil, &results.ValidationError{Field: "job description", Reason: "please enter a job description first"}
	}
	if len(d.uploaded) == 0 {
		return nil, &results.ValidationError{Field: "resumes", Reason: "please upload at least one resume"}
	}

	filenames := make([]string, 0, len(d.uploaded))
	for _, f := range d.uploaded {
		filenames = append(filenames, f.Filename)
	}

	matched, err := d.api.Match(ctx, matcher.MatchRequest{
		JobDescription: jobDescription,
		Filenames:      filenames,
		TopN:           d.opts.TopN,
		MinScore:       d.opts.MinScore,
	})
	if err != nil {
		return nil, err
	}

	d.store.Set(matched)
	d.jobDescription = jobDescription

	d.logger.Info("matched candidates", zap.Int("resumes", len(filenames)), zap.Int("results", len(matched)))

	return d.store.Results(), nil
}

// View renders the canonical set filtered and sorted by q.
func (d *Dashboard) View(q filtering.Query) ([]results.CandidateMatch, error) {
	if q.Language == language.Und {
		q.Language = d.opts.Language
	}

	view, err := filtering.FilterAndSort(d.store.Results(), q, d.logger)
	if err != nil {
		return nil, err
	}

	d.render.Filters(filtering.Describe(q.Steps()))
	d.render.Candidates(view, fmt.Sprintf("Sorted by %s", sortLabel(q.Sort)))
	return view, nil
}

// Statistics renders the summary panel; an empty set renders nothing.
func (d *Dashboard) Statistics() results.Statistics {
	stats := results.ComputeStatistics(d.store.Results())
	d.render.Statistics(stats)
	return stats
}

// Analytics renders the score distribution and top skills.
func (d *Dashboard) Analytics() (*results.Analytics, error) {
	items := d.store.Results()
	if len(items) == 0 {
		return nil, &results.ValidationError{Field: "results", Reason: "no results to analyze"}
	}

	a := results.ComputeAnalytics(items)
	d.render.Analytics(a)
	return &a, nil
}

// ShowCandidate renders every field of one selected candidate.
func (d *Dashboard) ShowCandidate(sel results.Selection) (*results.CandidateMatch, error) {
	c, err := d.store.At(sel)
	if err != nil {
		return nil, err
	}

	d.render.Candidate(c)
	return c, nil
}

// Compare renders a head-to-head of two selected candidates.
func (d *Dashboard) Compare(a, b results.Selection) (*results.Comparison, error) {
	cmp, err := d.store.Compare(a, b)
	if err != nil {
		return nil, err
	}

	d.render.Comparison(cmp)
	return cmp, nil
}

// Export asks the API for a CSV of the current results and writes it to the export dir.
func (d *Dashboard) Export(ctx context.Context) (string, error) {
	items := d.store.Results()
	if len(items) == 0 {
		return "", &results.ValidationError{Field: "results", Reason: "no results to export"}
	}

	exp, err := d.api.Export(ctx, items)
	if err != nil {
		return "", err
	}

	path, err := exp.WriteTo(d.opts.ExportDir)
	if err != nil {
		return "", err
	}

	d.render.Info(fmt.Sprintf("Exported %d candidates to %s", len(items), path))
	return path, nil
}

// Dump writes the current results to a temporary file.
func (d *Dashboard) Dump(format results.DumpFormat) (string, error) {
	items := d.store.Results()
	if len(items) == 0 {
		return "", &results.ValidationError{Field: "results", Reason: "no results to dump"}
	}

	path, err := results.DumpToTmpFile(items, format)
	if err != nil {
		return "", fmt.Errorf("dump results to file: %w", err)
	}

	d.render.Info(fmt.Sprintf("Dumped %d candidates to %s", len(items), path))
	return path, nil
}

// ReviewComparison asks the AI reviewer for a note on two selected candidates.
func (d *Dashboard) ReviewComparison(ctx context.Context, a, b results.Selection) (*ai.Review, error) {
	if d.reviewer == nil {
		return nil, ErrReviewerDisabled
	}

	cmp, err := d.store.Compare(a, b)
	if err != nil {
		return nil, err
	}

	return d.review(ctx, ai.Brief{Kind: ai.BriefComparison, JobDescription: d.jobDescription, Comparison: cmp})
}

// ReviewAnalytics asks the AI reviewer for a note on the whole candidate pool.
func (d *Dashboard) ReviewAnalytics(ctx context.Context) (*ai.Review, error) {
	if d.reviewer == nil {
		return nil, ErrReviewerDisabled
	}

	items := d.store.Results()
	if len(items) == 0 {
		return nil, &results.ValidationError{Field: "results", Reason: "no results to analyze"}
	}

	a := results.ComputeAnalytics(items)
	return d.review(ctx, ai.Brief{Kind: ai.BriefAnalytics, JobDescription: d.jobDescription, Analytics: &a})
}

func (d *Dashboard) review(ctx context.Context, brief ai.Brief) (*ai.Review, error) {
	review, err := d.reviewer.Review(ctx, brief)
	if err != nil {
		return nil, fmt.Errorf("ai review: %w", err)
	}

	d.render.Review(review)
	return review, nil
}

func sortLabel(key results.SortKey) string {
	switch key {
	case results.SortByName:
		return "name (A-Z)"
	case results.SortBySkills:
		return "skills found (most first)"
	default:
		return "match score (highest first)"
	}
}
