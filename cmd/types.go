package main

import (
	"io"
	"time"

	"github.com/Yoosu-L/llmcompare/internal/config"
	"github.com/Yoosu-L/llmcompare/internal/utils"
)

type Benchmark struct {
	Config config.BenchmarkConfig
	Format string
	Runner *utils.Runner
	// Stdout receives the final table or report document.
	Stdout io.Writer
	// Log receives progress lines; stderr when stdout carries json or yaml.
	Log io.Writer
}

type BenchmarkResult struct {
	RunID              string               `json:"run_id" yaml:"run-id"`
	StartedAt          time.Time            `json:"started_at" yaml:"started-at"`
	APIBase            string               `json:"api_base" yaml:"api-base"`
	Models             []string             `json:"models" yaml:"models"`
	TargetPromptTokens int                  `json:"target_prompt_tokens" yaml:"target-prompt-tokens"`
	TrialsPerModel     int                  `json:"trials_per_model" yaml:"trials-per-model"`
	MaxOutputTokens    int                  `json:"max_output_tokens" yaml:"max-output-tokens"`
	Summaries          []utils.ModelSummary `json:"summaries" yaml:"summaries"`
	Trials             []utils.TrialResult  `json:"trials" yaml:"trials"`
}
