package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/dashboard"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [stored filenames...]",
	Short: "Delete uploaded resumes from the server",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, filenames []string) error {
		s := newSession(cmd.Context())
		defer s.logger.Sync()

		for _, name := range filenames {
			if err := s.client.Delete(cmd.Context(), name); err != nil {
				return userError(s, dashboard.ActionRemove, err)
			}
			s.logger.Info("removed resume", zap.String("filename", name))
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", name)
		}
		return nil
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse [stored filename]",
	Short: "Show what the API extracts from an uploaded resume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession(cmd.Context())
		defer s.logger.Sync()

		if err := s.dashboard.ViewFile(cmd.Context(), args[0]); err != nil {
			return userError(s, dashboard.ActionParse, err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(parseCmd)
}
