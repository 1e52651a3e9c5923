package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/dashboard"
	"github.com/spigell/resume-matcher/internal/filtering"
	"github.com/spigell/resume-matcher/internal/results"
)

var matchCmd = &cobra.Command{
	Use:   "match [resume files...]",
	Short: "Upload resumes, match them against a job description and print the ranking",
	Args:  cobra.MinimumNArgs(1),
	RunE:  match,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	addJobFlags(matchCmd)
	matchCmd.Flags().String("search", "", "keep candidates whose name, email or skills contain the term")
	matchCmd.Flags().Float64("min", 0, "keep candidates scoring at least this much (0-100)")
	matchCmd.Flags().String("sort", "", "sort by score, name or skills (default from view.sort)")
	matchCmd.Flags().Bool("analytics", false, "print the score distribution and top skills")
	matchCmd.Flags().Bool("export", false, "export the results to CSV in export-dir")
	matchCmd.Flags().String("dump", "", "dump the results to a temp file (json or yaml)")
}

func addJobFlags(cmd *cobra.Command) {
	cmd.Flags().String("job", "", "the job description text")
	cmd.Flags().String("job-file", "", "a file with the job description")
}

func readJobDescription(cmd *cobra.Command) (string, error) {
	job, _ := cmd.Flags().GetString("job")
	file, _ := cmd.Flags().GetString("job-file")

	if job != "" && file != "" {
		return "", errors.New("--job and --job-file are mutually exclusive")
	}
	if file == "" {
		return strings.TrimSpace(job), nil
	}

	content, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read job description: %w", err)
	}
	return strings.TrimSpace(string(content)), nil
}

func match(cmd *cobra.Command, paths []string) error {
	ctx, stop := interruptible(cmd)
	defer stop()

	s := newSession(ctx)
	defer s.logger.Sync()

	job, err := readJobDescription(cmd)
	if err != nil {
		return err
	}

	search, _ := cmd.Flags().GetString("search")
	minScore, _ := cmd.Flags().GetFloat64("min")
	rawSort, _ := cmd.Flags().GetString("sort")
	showAnalytics, _ := cmd.Flags().GetBool("analytics")
	export, _ := cmd.Flags().GetBool("export")
	rawDump, _ := cmd.Flags().GetString("dump")

	if err := checkScore(minScore); err != nil {
		return &results.ValidationError{Field: "--min", Reason: err.Error()}
	}

	sortKey := s.defaultSort()
	if rawSort != "" {
		if sortKey, err = results.ParseSortKey(rawSort); err != nil {
			return err
		}
	}

	var dumpFormat results.DumpFormat
	if rawDump != "" {
		if dumpFormat, err = results.ParseDumpFormat(rawDump); err != nil {
			return err
		}
	}

	d := s.dashboard

	if err := d.UploadFiles(ctx, paths); err != nil {
		s.logger.Warn("some resumes were not uploaded", zap.Error(err))
	}

	if isFiltered(search, minScore, sortKey) {
		// only the filtered view is printed
		if _, err := d.Rank(ctx, job); err != nil {
			return userError(s, dashboard.ActionMatch, err)
		}
		d.Statistics()
		if _, err := d.View(filtering.Query{Search: search, MinScore: minScore, Sort: sortKey}); err != nil {
			return err
		}
	} else if err := d.Match(ctx, job); err != nil {
		return userError(s, dashboard.ActionMatch, err)
	}

	if showAnalytics && len(d.Results()) > 0 {
		if _, err := d.Analytics(); err != nil {
			return err
		}
	}

	if export {
		if _, err := d.Export(ctx); err != nil {
			return userError(s, dashboard.ActionExport, err)
		}
	}

	if dumpFormat != "" {
		if _, err := d.Dump(dumpFormat); err != nil {
			return err
		}
	}

	return nil
}

// interruptible derives a context that is cancelled on Ctrl-C, so in-flight
// API calls stop with the command.
func interruptible(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt)
}

func isFiltered(search string, minScore float64, sortKey results.SortKey) bool {
	return search != "" || minScore > 0 || sortKey != results.SortByScore
}

// userError turns err into the message a dashboard user would see.
func userError(s *session, action dashboard.Action, err error) error {
	s.logger.Debug("action failed", zap.String("action", string(action)), zap.Error(err))
	return errors.New(dashboard.UserMessage(action, err, s.client.BaseURL))
}
