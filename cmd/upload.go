package cmd

import (
	"github.com/spf13/cobra"

	"github.com/spigell/resume-matcher/internal/dashboard"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [resume files...]",
	Short: "Upload resumes and print their server-side names",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, paths []string) error {
		s := newSession(cmd.Context())
		defer s.logger.Sync()

		// Per-file failures are already printed by the dashboard.
		if err := s.dashboard.UploadFiles(cmd.Context(), paths); err != nil {
			return userError(s, dashboard.ActionUpload, err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
