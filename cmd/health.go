package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/dashboard"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the matching API is reachable",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s := newSession(cmd.Context())
		defer s.logger.Sync()

		h, err := s.client.Health(cmd.Context())
		if err != nil {
			return userError(s, dashboard.ActionOther, err)
		}

		s.logger.Debug("health check", zap.String("status", h.Status), zap.String("service", h.Service))
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", h.Service, h.Status, s.client.BaseURL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
