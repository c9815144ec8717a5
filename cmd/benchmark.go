package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Yoosu-L/llmcompare/internal/utils"
	"github.com/google/uuid"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func (benchmark *Benchmark) runCli(ctx context.Context) error {
	result := benchmark.run(ctx)

	switch benchmark.Format {
	case formatJSON:
		out, err := result.Json()
		if err != nil {
			return err
		}
		fmt.Fprintln(benchmark.Stdout, out)
	case formatYAML:
		out, err := result.Yaml()
		if err != nil {
			return err
		}
		fmt.Fprint(benchmark.Stdout, out)
	default:
		fmt.Fprint(benchmark.Stdout, utils.RenderTable(result.Summaries))
	}
	return nil
}

func (benchmark *Benchmark) run(ctx context.Context) BenchmarkResult {
	cfg := benchmark.Config
	result := BenchmarkResult{
		RunID:              uuid.NewString(),
		StartedAt:          time.Now().UTC(),
		APIBase:            cfg.APIBase,
		Models:             cfg.Models,
		TargetPromptTokens: cfg.TargetPromptTokens,
		TrialsPerModel:     cfg.TrialsPerModel,
		MaxOutputTokens:    cfg.MaxOutputTokens,
	}

	utils.PrintBenchmarkHeader(benchmark.Log, cfg.APIBase, cfg.TrialsPerModel, cfg.TargetPromptTokens)

	run := benchmark.Runner.BenchmarkAll(ctx)
	for _, summary := range run.Summaries {
		result.Summaries = append(result.Summaries, summary.Rounded())
	}
	result.Trials = run.Trials

	return result
}

func validFormat(format string) bool {
	switch format {
	case formatText, formatJSON, formatYAML:
		return true
	}
	return false
}
