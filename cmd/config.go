package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/spigell/resume-matcher/internal/matcher"
)

type Config struct {
	API       *APIConfig    `mapstructure:"api" validate:"required"`
	Match     *MatchConfig  `mapstructure:"match" validate:"required"`
	Upload    *UploadConfig `mapstructure:"upload" validate:"required"`
	View      *ViewConfig   `mapstructure:"view" validate:"required"`
	ExportDir string        `mapstructure:"export-dir"`
	AI        *AIConfig     `mapstructure:"ai"`
}

type APIConfig struct {
	URL       string        `mapstructure:"url" validate:"required,url"`
	TokenFile string        `mapstructure:"token-file"`
	UserAgent string        `mapstructure:"user-agent"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type MatchConfig struct {
	TopN     int     `mapstructure:"top-n" validate:"gte=1"`
	MinScore float64 `mapstructure:"min-score" validate:"gte=0,lte=100"`
}

type UploadConfig struct {
	Concurrency int `mapstructure:"concurrency" validate:"gte=1,lte=16"`
}

type ViewConfig struct {
	Sort     string `mapstructure:"sort" validate:"omitempty,oneof=score name skills"`
	Language string `mapstructure:"language" validate:"omitempty,bcp47_language_tag"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider" validate:"omitempty,oneof=gemini"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries" validate:"gte=0"`
	MaxLogLength int    `mapstructure:"max-log-length" validate:"gte=0"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.url", matcher.DefaultBaseURL)
	v.SetDefault("api.token-file", "")
	v.SetDefault("api.user-agent", "")
	v.SetDefault("api.timeout", "2m")
	v.SetDefault("match.top-n", matcher.DefaultTopN)
	v.SetDefault("match.min-score", 0)
	v.SetDefault("upload.concurrency", 1)
	v.SetDefault("view.sort", "score")
	v.SetDefault("view.language", "en")
	v.SetDefault("export-dir", ".")
	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.model", "")
	v.SetDefault("ai.gemini.max-retries", 2)
	v.SetDefault("ai.gemini.max-log-length", 200)
}

func getConfig() (*Config, error) {
	return loadConfig(viper.GetViper())
}

func loadConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if config == nil {
		return nil, errors.New("config is required")
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, configError(err)
	}

	if config.AI != nil && config.AI.Enabled && config.AI.Gemini == nil {
		return nil, errors.New("invalid config: ai.gemini is required when ai is enabled")
	}

	return config, nil
}

func configError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid config: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
