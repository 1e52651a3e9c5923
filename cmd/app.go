package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/ai/gemini"
	"github.com/spigell/resume-matcher/internal/dashboard"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/matcher"
	"github.com/spigell/resume-matcher/internal/results"
	"github.com/spigell/resume-matcher/internal/secrets"
)

// session bundles what every command needs.
type session struct {
	config    *Config
	logger    *zap.Logger
	client    *matcher.Client
	dashboard *dashboard.Dashboard
}

// newSession builds the logger, config, API client and dashboard. Failures
// here are fatal, like any start-up misconfiguration.
func newSession(ctx context.Context) *session {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("starting with config",
		zap.String("api_url", config.API.URL),
		zap.Int("top_n", config.Match.TopN),
		zap.Float64("min_score", config.Match.MinScore),
		zap.Int("upload_concurrency", config.Upload.Concurrency),
		zap.Bool("ai_enabled", config.AI != nil && config.AI.Enabled),
	)

	token, err := secrets.Load(secrets.Source{
		Name:     "api token",
		File:     config.API.TokenFile,
		Env:      envPrefix + "_API_TOKEN",
		Optional: true,
	})
	if err != nil {
		logger.Fatal("loading api token",
			zap.Error(err),
			zap.String("hint", "fix api.token-file or unset it for an open backend"),
		)
	}

	client := matcher.New(logger, matcher.Config{
		BaseURL:   config.API.URL,
		Token:     token,
		UserAgent: config.API.UserAgent,
		Timeout:   config.API.Timeout,
	})

	reviewer, err := newReviewer(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("skipping ai review", zap.Error(err))
	}

	lang, err := language.Parse(config.View.Language)
	if err != nil {
		lang = language.English
	}

	d := dashboard.New(dashboard.Deps{
		API:      client,
		Store:    results.NewStore(),
		Reviewer: reviewer,
		Logger:   logger,
		Out:      os.Stdout,
	}, dashboard.Options{
		TopN:              config.Match.TopN,
		MinScore:          config.Match.MinScore,
		UploadConcurrency: config.Upload.Concurrency,
		ExportDir:         config.ExportDir,
		Language:          lang,
		BaseURL:           client.BaseURL,
	})

	return &session{config: config, logger: logger, client: client, dashboard: d}
}

// newReviewer returns nil without error when ai review is disabled.
func newReviewer(ctx context.Context, cfg *AIConfig, base *zap.Logger) (ai.Reviewer, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	genLogger := logger.WithAIFields(base, "gemini", cfg.Gemini.Model).With(
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	reviewerLogger := logger.WithAIFields(base, "gemini", generator.Model())

	return gemini.NewReviewer(generator, cfg.Gemini.MaxLogLength, reviewerLogger), nil
}

// defaultSort returns the configured sort key, falling back to score.
func (s *session) defaultSort() results.SortKey {
	key, err := results.ParseSortKey(s.config.View.Sort)
	if err != nil {
		return results.SortByScore
	}
	return key
}
