package cmd

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/dashboard"
	"github.com/spigell/resume-matcher/internal/filtering"
	"github.com/spigell/resume-matcher/internal/results"
)

const (
	PromptMatch         = "Match candidates"
	PromptResults       = "Show results"
	PromptDetails       = "Candidate details"
	PromptSearch        = "Search, filter and sort"
	PromptStatistics    = "Statistics"
	PromptAnalytics     = "Analytics"
	PromptCompare       = "Compare two candidates"
	PromptReviewCompare = "AI review of two candidates"
	PromptReviewPool    = "AI review of all candidates"
	PromptExport        = "Export to CSV"
	PromptDump          = "Dump results to file"
	PromptUpload        = "Upload more resumes"
	PromptFiles         = "Manage uploaded files"
	PromptJob           = "Change job description"
	PromptExit          = "Exit"

	PromptBack       = "back"
	PromptViewFile   = "View details"
	PromptRemoveFile = "Remove"
)

var errExit = errors.New("exit requested")

var menu = promptui.Select{
	Label: "What next?",
	Items: []string{
		PromptMatch, PromptResults, PromptDetails, PromptSearch, PromptStatistics, PromptAnalytics,
		PromptCompare, PromptReviewCompare, PromptReviewPool, PromptExport, PromptDump,
		PromptUpload, PromptFiles, PromptJob, PromptExit,
	},
	Size: 15,
}

var runCmd = &cobra.Command{
	Use:   "run [resume files...]",
	Short: "Upload resumes and open the interactive matching dashboard",
	Run: func(cmd *cobra.Command, args []string) {
		run(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	addJobFlags(runCmd)
}

// interactive is the state of one dashboard session.
type interactive struct {
	*session
	job string
}

func run(cmd *cobra.Command, paths []string) {
	ctx, stop := interruptible(cmd)
	defer stop()

	s := newSession(ctx)
	defer s.logger.Sync()

	s.logger.Info("starting the resume-matcher", zap.String("version", version), zap.String("api", s.client.BaseURL))

	job, err := readJobDescription(cmd)
	if err != nil {
		s.logger.Fatal("reading job description", zap.Error(err))
	}

	state := &interactive{session: s, job: job}

	if len(paths) > 0 {
		if err := s.dashboard.UploadFiles(ctx, paths); err != nil {
			s.logger.Warn("some resumes were not uploaded", zap.Error(err))
		}
	}

	for {
		_, action, err := menu.Run()
		if err != nil {
			s.logger.Info("exiting", zap.Error(err))
			return
		}

		if err := state.handleAction(ctx, action); err != nil {
			if errors.Is(err, errExit) {
				s.logger.Info("exiting", zap.String("reason", "exit requested"))
				return
			}
			fmt.Fprintln(os.Stdout, dashboard.UserMessage(actionFor(action), err, s.client.BaseURL))
		}
	}
}

func (st *interactive) handleAction(ctx context.Context, action string) error {
	d := st.dashboard

	switch action {
	case PromptMatch:
		if strings.TrimSpace(st.job) == "" {
			job, err := promptJobDescription(st.job)
			if err != nil {
				return err
			}
			st.job = job
		}
		return d.Match(ctx, st.job)
	case PromptResults:
		_, err := d.View(filtering.Query{Sort: st.defaultSort()})
		return err
	case PromptDetails:
		items := d.Results()
		if len(items) == 0 {
			return &results.ValidationError{Field: "results", Reason: "no results yet, run a match first"}
		}
		sel, err := promptCandidate("Select a candidate", items)
		if err != nil || !sel.IsSet() {
			return err
		}
		_, err = d.ShowCandidate(sel)
		return err
	case PromptSearch:
		q, err := promptQuery(st.config.Match.MinScore, st.defaultSort())
		if err != nil {
			return err
		}
		_, err = d.View(q)
		return err
	case PromptStatistics:
		if d.Statistics().Empty() {
			return &results.ValidationError{Field: "results", Reason: "no results yet, run a match first"}
		}
		return nil
	case PromptAnalytics:
		_, err := d.Analytics()
		return err
	case PromptCompare:
		a, b, err := promptPair(d.Results())
		if err != nil {
			return err
		}
		_, err = d.Compare(a, b)
		return err
	case PromptReviewCompare:
		a, b, err := promptPair(d.Results())
		if err != nil {
			return err
		}
		_, err = d.ReviewComparison(ctx, a, b)
		return err
	case PromptReviewPool:
		_, err := d.ReviewAnalytics(ctx)
		return err
	case PromptExport:
		_, err := d.Export(ctx)
		return err
	case PromptDump:
		format, err := promptSelect("Format", []string{string(results.DumpJSON), string(results.DumpYAML)})
		if err != nil {
			return err
		}
		f, err := results.ParseDumpFormat(format)
		if err != nil {
			return err
		}
		_, err = d.Dump(f)
		return err
	case PromptUpload:
		paths, err := promptPaths()
		if err != nil {
			return err
		}
		return d.UploadFiles(ctx, paths)
	case PromptFiles:
		return st.manageFiles(ctx)
	case PromptJob:
		job, err := promptJobDescription(st.job)
		if err != nil {
			return err
		}
		st.job = job
		return nil
	case PromptExit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (st *interactive) manageFiles(ctx context.Context) error {
	d := st.dashboard

	for {
		files := d.Uploaded()
		if len(files) == 0 {
			return &results.ValidationError{Field: "resumes", Reason: "no uploaded resumes"}
		}

		items := make([]string, 0, len(files)+1)
		for _, f := range files {
			items = append(items, fmt.Sprintf("%s (%s)", f.OriginalName, f.Filename))
		}

		idx, _, err := (&promptui.Select{
			Label: "Choose a resume and press ENTER",
			Items: append(items, PromptBack),
		}).Run()
		if err != nil {
			return err
		}
		if idx == len(files) {
			return nil
		}

		filename := files[idx].Filename
		action, err := promptSelect("Action", []string{PromptViewFile, PromptRemoveFile, PromptBack})
		if err != nil {
			return err
		}

		switch action {
		case PromptViewFile:
			err = d.ViewFile(ctx, filename)
		case PromptRemoveFile:
			if !confirm("Remove this file from the list") {
				continue
			}
			err = d.RemoveFile(ctx, filename)
		}
		if err != nil {
			fmt.Fprintln(os.Stdout, dashboard.UserMessage(actionFor(action), err, st.client.BaseURL))
		}
	}
}

func promptSelect(label string, items []string) (string, error) {
	_, selected, err := (&promptui.Select{Label: label, Items: items}).Run()
	return selected, err
}

// promptPair asks for two candidates. Choosing "back" yields NoSelection,
// which the comparison rejects.
func promptPair(items []results.CandidateMatch) (results.Selection, results.Selection, error) {
	if len(items) == 0 {
		return results.NoSelection, results.NoSelection, &results.ValidationError{Field: "results", Reason: "no results to compare"}
	}

	first, err := promptCandidate("Select first candidate", items)
	if err != nil {
		return results.NoSelection, results.NoSelection, err
	}
	second, err := promptCandidate("Select second candidate", items)
	if err != nil {
		return results.NoSelection, results.NoSelection, err
	}
	return first, second, nil
}

func promptCandidate(label string, items []results.CandidateMatch) (results.Selection, error) {
	labels := candidateLabels(items)
	idx, _, err := (&promptui.Select{Label: label, Items: append(labels, PromptBack)}).Run()
	if err != nil {
		return results.NoSelection, err
	}
	if idx >= len(items) {
		return results.NoSelection, nil
	}
	return results.Selection(idx), nil
}

func candidateLabels(items []results.CandidateMatch) []string {
	labels := make([]string, 0, len(items))
	for i, c := range items {
		labels = append(labels, fmt.Sprintf("#%d %s (%s)", i+1, c.DisplayName(), dashboard.FormatPercent(c.MatchScore)))
	}
	return labels
}

func promptQuery(minScore float64, sortKey results.SortKey) (filtering.Query, error) {
	search, err := (&promptui.Prompt{Label: "Search (name, email or skill)", AllowEdit: true}).Run()
	if err != nil {
		return filtering.Query{}, err
	}

	rawMin, err := (&promptui.Prompt{
		Label:    "Minimum score",
		Default:  strconv.FormatFloat(minScore, 'f', -1, 64),
		Validate: validateScore,
	}).Run()
	if err != nil {
		return filtering.Query{}, err
	}
	minScore, _ = strconv.ParseFloat(strings.TrimSpace(rawMin), 64)

	keys := make([]string, 0, len(results.SortKeys))
	keys = append(keys, string(sortKey))
	for _, k := range results.SortKeys {
		if k != sortKey {
			keys = append(keys, string(k))
		}
	}
	selected, err := promptSelect("Sort by", keys)
	if err != nil {
		return filtering.Query{}, err
	}

	return filtering.Query{Search: search, MinScore: minScore, Sort: results.SortKey(selected)}, nil
}

func validateScore(input string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil {
		return errors.New("enter a number")
	}
	return checkScore(v)
}

func checkScore(v float64) error {
	if math.IsNaN(v) || v < results.MinScore || v > results.MaxScore {
		return errors.New("score must be between 0 and 100")
	}
	return nil
}

func promptPaths() ([]string, error) {
	raw, err := (&promptui.Prompt{Label: "Resume paths (comma separated)"}).Run()
	if err != nil {
		return nil, err
	}
	return splitList(raw), nil
}

func promptJobDescription(current string) (string, error) {
	return (&promptui.Prompt{
		Label:     "Job description",
		Default:   current,
		AllowEdit: true,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("please enter a job description")
			}
			return nil
		},
	}).Run()
}

func confirm(label string) bool {
	_, err := (&promptui.Prompt{Label: label, IsConfirm: true}).Run()
	return err == nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func actionFor(prompt string) dashboard.Action {
	switch prompt {
	case PromptMatch:
		return dashboard.ActionMatch
	case PromptCompare:
		return dashboard.ActionCompare
	case PromptReviewCompare, PromptReviewPool:
		return dashboard.ActionReview
	case PromptExport:
		return dashboard.ActionExport
	case PromptUpload:
		return dashboard.ActionUpload
	case PromptViewFile:
		return dashboard.ActionParse
	case PromptRemoveFile:
		return dashboard.ActionRemove
	default:
		return dashboard.ActionOther
	}
}
