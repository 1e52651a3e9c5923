package dashboard

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/filtering"
	"github.com/spigell/resume-matcher/internal/matcher"
	"github.com/spigell/resume-matcher/internal/results"
	"github.com/spigell/resume-matcher/internal/utils"
)

const (
	previewSkills  = 6
	compareSkills  = 10
	previewTextLen = 100
)

var (
	heading   = color.New(color.FgCyan, color.Bold)
	errorText = color.New(color.FgRed)
	infoText  = color.New(color.FgGreen)
)

// Renderer draws dashboard views as terminal tables.
type Renderer struct {
	out io.Writer
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

func (r *Renderer) table(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(r.out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	return table
}

func (r *Renderer) Heading(title string) {
	heading.Fprintf(r.out, "\n%s\n", title)
}

func (r *Renderer) Error(msg string) {
	errorText.Fprintln(r.out, msg)
}

func (r *Renderer) Info(msg string) {
	infoText.Fprintln(r.out, msg)
}

func (r *Renderer) NoResults() {
	r.Info("No candidates matched the criteria. Try lowering the minimum score threshold.")
}

func (r *Renderer) Uploaded(files []matcher.UploadedFile) {
	r.Heading("Uploaded Resumes")
	table := r.table([]string{"#", "File", "Stored As", "Size"})
	for i, f := range files {
		table.Append([]string{strconv.Itoa(i + 1), f.OriginalName, f.Filename, FormatFileSize(f.Size)})
	}
	table.Render()
}

func (r *Renderer) Candidates(items []results.CandidateMatch, subtitle string) {
	if len(items) == 0 {
		r.NoResults()
		return
	}

	plural := "s"
	if len(items) == 1 {
		plural = ""
	}
	r.Heading(fmt.Sprintf("Found %d Matching Candidate%s", len(items), plural))
	if subtitle != "" {
		fmt.Fprintln(r.out, subtitle)
	}

	table := r.table([]string{"#", "Name", "Email", "Match", "Skills", "Skills Found", "Key Skills"})
	for i, c := range items {
		table.Append([]string{
			strconv.Itoa(i + 1),
			c.DisplayName(),
			orDefault(c.EmailOrEmpty(), "No email"),
			ScoreColor(c.MatchScore).Sprint(FormatPercent(c.MatchScore)),
			FormatPercent(c.SkillsMatch),
			strconv.Itoa(c.SkillCount()),
			skillPreview(c.Skills, previewSkills),
		})
	}
	table.Render()
}

// Candidate renders the full record of one candidate.
func (r *Renderer) Candidate(c *results.CandidateMatch) {
	r.Heading(c.DisplayName())
	table := r.table([]string{"Field", "Value"})
	table.Append([]string{"Email", orDefault(c.EmailOrEmpty(), "Not provided")})
	table.Append([]string{"Match Score", ScoreColor(c.MatchScore).Sprint(FormatPercent(c.MatchScore))})
	table.Append([]string{"Skills Match", FormatPercent(c.SkillsMatch)})
	table.Append([]string{"Experience", orDefault(c.ExperienceOrEmpty(), "Not available")})
	table.Append([]string{"Education", orDefault(c.EducationOrEmpty(), "Not available")})
	table.Append([]string{"File", orDefault(c.Filename, "Unknown")})
	table.Append([]string{
		fmt.Sprintf("Skills (%d)", c.SkillCount()),
		orDefault(strings.Join(c.Skills, ", "), "No skills found"),
	})
	table.Render()
}

// Statistics renders the summary panel. Empty statistics render nothing.
func (r *Renderer) Statistics(s results.Statistics) {
	if s.Empty() {
		return
	}

	r.Heading("Statistics")
	table := r.table([]string{"Candidates", "Average Score", "Top Score", "Unique Skills"})
	table.Append([]string{
		strconv.Itoa(s.Total),
		FormatPercent(s.AvgScore),
		FormatPercent(s.TopScore),
		strconv.Itoa(s.TotalDistinctSkills),
	})
	table.Render()
}

func (r *Renderer) Analytics(a results.Analytics) {
	r.Heading("Score Distribution")
	dist := r.table([]string{"Excellent (80%+)", "Good (60-79%)", "Fair (40-59%)", "Poor (<40%)"})
	dist.Append([]string{
		strconv.Itoa(a.Distribution.Excellent),
		strconv.Itoa(a.Distribution.Good),
		strconv.Itoa(a.Distribution.Fair),
		strconv.Itoa(a.Distribution.Poor),
	})
	dist.Render()

	r.Heading("Score Statistics")
	stats := r.table([]string{"Average", "Highest", "Lowest"})
	stats.Append([]string{
		FormatPercent(a.ScoreStats.Avg),
		FormatPercent(a.ScoreStats.Max),
		FormatPercent(a.ScoreStats.Min),
	})
	stats.Render()

	r.Heading("Top Skills Found")
	if len(a.TopSkills) == 0 {
		fmt.Fprintln(r.out, "No skills found")
		return
	}
	skills := r.table([]string{"Skill", "Candidates", "Share"})
	for _, s := range a.TopSkills {
		skills.Append([]string{s.Skill, strconv.Itoa(s.Count), FormatPercent(s.Percent)})
	}
	skills.Render()
}

func (r *Renderer) Comparison(c *results.Comparison) {
	r.Heading("Candidate Comparison")
	table := r.table([]string{"Metric", c.Left.DisplayName(), c.Right.DisplayName()})

	for _, row := range c.Metrics {
		table.Append([]string{
			metricLabel(row.Metric),
			formatMetric(row.Metric, row.Left) + " " + outcomeBadge(row.Metric, row.LeftOutcome),
			formatMetric(row.Metric, row.Right) + " " + outcomeBadge(row.Metric, row.RightOutcome),
		})
	}
	table.Append([]string{"Email", orDefault(c.Left.EmailOrEmpty(), "N/A"), orDefault(c.Right.EmailOrEmpty(), "N/A")})
	table.Append([]string{"Skills", skillPreview(c.Left.Skills, compareSkills), skillPreview(c.Right.Skills, compareSkills)})
	table.Render()
}

func (r *Renderer) ParsedResume(filename string, p *matcher.ParsedResume) {
	r.Heading(orDefault(p.Name, "Unknown Candidate"))
	table := r.table([]string{"Field", "Value"})
	table.Append([]string{"File", filename})
	table.Append([]string{"Email", orDefault(p.Email, "Not provided")})
	table.Append([]string{"Phone", orDefault(p.Phone, "Not provided")})
	table.Append([]string{"Skills", orDefault(strings.Join(p.Skills, ", "), "No skills extracted")})
	table.Append([]string{"Experience", orDefault(utils.Truncate(p.Experience, previewTextLen), "Not available")})
	table.Append([]string{"Education", orDefault(utils.Truncate(p.Education, previewTextLen), "Not available")})
	table.Render()
}

func (r *Renderer) Filters(statuses []filtering.Status) {
	parts := make([]string, 0, len(statuses))
	for _, s := range statuses {
		if !s.Enabled {
			continue
		}
		keys := make([]string, 0, len(s.Details))
		for k := range s.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s.%s=%s", s.Name, k, s.Details[k]))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(r.out, "Filters: %s\n", strings.Join(parts, ", "))
	}
}

func (r *Renderer) Review(review *ai.Review) {
	r.Heading("AI Review")
	fmt.Fprintln(r.out, review.Summary)
	if review.Recommendation != "" {
		infoText.Fprintf(r.out, "Recommendation: %s\n", review.Recommendation)
	}
}

// ScoreColor picks the colour of a match score by its distribution band.
func ScoreColor(score float64) *color.Color {
	switch results.BandOf(score) {
	case results.BandExcellent:
		return color.New(color.FgGreen)
	case results.BandGood:
		return color.New(color.FgBlue)
	case results.BandFair:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

// FormatPercent prints v with one decimal and a percent sign.
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// FormatFileSize prints a byte count as B, KB or MB.
func FormatFileSize(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
}

func skillPreview(skills []string, limit int) string {
	if len(skills) <= limit {
		return strings.Join(skills, ", ")
	}
	return fmt.Sprintf("%s, +%d more", strings.Join(skills[:limit], ", "), len(skills)-limit)
}

func metricLabel(m results.Metric) string {
	switch m {
	case results.MetricMatchScore:
		return "Match Score"
	case results.MetricSkillsMatch:
		return "Skills Match"
	case results.MetricSkillCount:
		return "Skills Count"
	default:
		return string(m)
	}
}

func formatMetric(m results.Metric, v float64) string {
	if m == results.MetricSkillCount {
		return strconv.Itoa(int(v))
	}
	return FormatPercent(v)
}

func outcomeBadge(m results.Metric, o results.Outcome) string {
	if m == results.MetricSkillCount {
		switch o {
		case results.Better:
			return "(More)"
		case results.Worse:
			return "(Less)"
		}
		return "(Same)"
	}

	switch o {
	case results.Better:
		return "(Better)"
	case results.Worse:
		return "(Worse)"
	}
	return "(Same)"
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
