// Package config resolves the benchmark configuration from flags, environment
// variables and defaults. It is the only package that reads the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	// DefaultAPIBase is the LiteLLM proxy the benchmark targets when nothing else is set.
	DefaultAPIBase = "http://homelab-nuc.lan:4000/v1"
	// DefaultTargetPromptTokens is the approximate prompt size of every trial.
	DefaultTargetPromptTokens = 8000
	// DefaultTrialsPerModel is the number of measured trials after warmup.
	DefaultTrialsPerModel = 5
	// DefaultMaxOutputTokens caps generation per trial.
	DefaultMaxOutputTokens = 100

	EnvAPIBase = "LITELLM_API_BASE"
	EnvAPIKey  = "LITELLM_MASTER_KEY"
	EnvModels  = "LLMCOMPARE_MODELS"
)

// Viper keys. They double as the CLI flag names so BindPFlags lines them up.
const (
	KeyAPIBase      = "base-url"
	KeyAPIKey       = "api-key"
	KeyModels       = "models"
	KeyPromptTokens = "prompt-tokens"
	KeyTrials       = "trials"
	KeyMaxTokens    = "max-tokens"
	KeyTrialTimeout = "trial-timeout"
)

// DefaultModels is the comparison pair benchmarked when no model list is given.
var DefaultModels = []string{"GPT-OSS-20B-vLLM", "GPT-OSS-20B-F16"}

// ErrMissingAPIKey is returned by Load when no API key was supplied.
var ErrMissingAPIKey = errors.New(EnvAPIKey + " environment variable is not set")

var validate = validator.New()

// BenchmarkConfig is built once at startup and passed by value afterwards.
type BenchmarkConfig struct {
	APIBase            string        `json:"api_base" yaml:"api-base" validate:"required,url"`
	APIKey             string        `json:"-" yaml:"-"`
	Models             []string      `json:"models" yaml:"models" validate:"min=1,dive,required"`
	TargetPromptTokens int           `json:"target_prompt_tokens" yaml:"target-prompt-tokens" validate:"gt=0"`
	TrialsPerModel     int           `json:"trials_per_model" yaml:"trials-per-model" validate:"gt=0"`
	MaxOutputTokens    int           `json:"max_output_tokens" yaml:"max-output-tokens" validate:"gt=0"`
	TrialTimeout       time.Duration `json:"trial_timeout" yaml:"trial-timeout" validate:"gte=0"`
}

// NewViper returns a viper instance with defaults and environment bindings set.
// Callers bind their flag set on top of it.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyAPIBase, DefaultAPIBase)
	v.SetDefault(KeyModels, DefaultModels)
	v.SetDefault(KeyPromptTokens, DefaultTargetPromptTokens)
	v.SetDefault(KeyTrials, DefaultTrialsPerModel)
	v.SetDefault(KeyMaxTokens, DefaultMaxOutputTokens)
	v.SetDefault(KeyTrialTimeout, time.Duration(0))

	_ = v.BindEnv(KeyAPIBase, EnvAPIBase)
	_ = v.BindEnv(KeyAPIKey, EnvAPIKey)
	_ = v.BindEnv(KeyModels, EnvModels)

	return v
}

// Load materializes and validates a BenchmarkConfig from v.
func Load(v *viper.Viper) (BenchmarkConfig, error) {
	cfg := BenchmarkConfig{
		APIBase:            strings.TrimSpace(v.GetString(KeyAPIBase)),
		APIKey:             strings.TrimSpace(v.GetString(KeyAPIKey)),
		Models:             splitList(v.GetStringSlice(KeyModels)),
		TargetPromptTokens: v.GetInt(KeyPromptTokens),
		TrialsPerModel:     v.GetInt(KeyTrials),
		MaxOutputTokens:    v.GetInt(KeyMaxTokens),
		TrialTimeout:       v.GetDuration(KeyTrialTimeout),
	}

	if cfg.APIKey == "" {
		return BenchmarkConfig{}, ErrMissingAPIKey
	}
	if err := cfg.Validate(); err != nil {
		return BenchmarkConfig{}, err
	}
	return cfg, nil
}

// Validate checks field constraints. The API key is checked separately by Load.
func (c BenchmarkConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// splitList flattens comma separated entries. Environment values arrive as a
// single whitespace-split string, flag values as proper slices.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
