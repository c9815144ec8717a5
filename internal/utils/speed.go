package utils

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/Yoosu-L/llmcompare/internal/config"
)

// Prober runs one trial. Errors mean the trial produced no result.
type Prober interface {
	Run(ctx context.Context, model, prompt string, warmup bool) (TrialResult, error)
}

// ModelSummary is the mean of every successful trial of one model.
type ModelSummary struct {
	Model           string  `json:"model" yaml:"model"`
	AvgTTFTMillis   float64 `json:"avg_ttft_ms" yaml:"avg-ttft-ms"`
	AvgPrefillTPS   float64 `json:"avg_prefill_tps" yaml:"avg-prefill-tps"`
	AvgDecodeTPS    float64 `json:"avg_decode_tps" yaml:"avg-decode-tps"`
	AvgTotalSeconds float64 `json:"avg_total_s" yaml:"avg-total-s"`
	Trials          int     `json:"trials" yaml:"trials"`
	Failures        int     `json:"failures" yaml:"failures"`
}

// Rounded returns a copy with every average rounded to two decimals.
func (s ModelSummary) Rounded() ModelSummary {
	s.AvgTTFTMillis = roundToTwoDecimals(s.AvgTTFTMillis)
	s.AvgPrefillTPS = roundToTwoDecimals(s.AvgPrefillTPS)
	s.AvgDecodeTPS = roundToTwoDecimals(s.AvgDecodeTPS)
	s.AvgTotalSeconds = roundToTwoDecimals(s.AvgTotalSeconds)
	return s
}

// RunResult collects everything a full run produced, in model-list order.
type RunResult struct {
	Summaries []ModelSummary
	Trials    []TrialResult
}

func roundToTwoDecimals(f float64) float64 {
	return math.Round(f*100) / 100
}

// Runner drives warmup and measured trials one model at a time. Trials never
// overlap: concurrent requests would share backend capacity and skew throughput.
type Runner struct {
	probe Prober
	cfg   config.BenchmarkConfig
	out   io.Writer
}

// NewRunner returns a runner that prints progress lines to out.
func NewRunner(probe Prober, cfg config.BenchmarkConfig, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{probe: probe, cfg: cfg, out: out}
}

// BenchmarkAll benchmarks every configured model in order. Models without a
// successful trial are left out of the summaries. A cancelled context stops
// the run before the next trial.
func (r *Runner) BenchmarkAll(ctx context.Context) RunResult {
	var result RunResult
	for _, model := range r.cfg.Models {
		if ctx.Err() != nil {
			break
		}
		summary, trials, ok := r.runModel(ctx, model)
		result.Trials = append(result.Trials, trials...)
		if ok {
			result.Summaries = append(result.Summaries, summary)
		}
	}
	return result
}

// BenchmarkModel runs one warmup and the configured number of measured trials
// for model. ok is false when every measured trial failed.
func (r *Runner) BenchmarkModel(ctx context.Context, model string) (ModelSummary, bool) {
	summary, _, ok := r.runModel(ctx, model)
	return summary, ok
}

func (r *Runner) runModel(ctx context.Context, model string) (ModelSummary, []TrialResult, bool) {
	printSection(r.out, "=== Testing %s ===\n", model)

	fmt.Fprintf(r.out, "Warming up %s...\n", model)
	// The warmup result is discarded whether or not it succeeded.
	_, _ = r.probe.Run(ctx, model, SynthesizePrompt(r.cfg.TargetPromptTokens, "warmup"), true)

	var (
		results  []TrialResult
		failures int
	)
	for i := 0; i < r.cfg.TrialsPerModel; i++ {
		if ctx.Err() != nil {
			break
		}
		prompt := SynthesizePrompt(r.cfg.TargetPromptTokens, fmt.Sprintf("iter_%d", i))
		fmt.Fprintf(r.out, "Iteration %d/%d...\n", i+1, r.cfg.TrialsPerModel)

		result, err := r.probe.Run(ctx, model, prompt, false)
		if err != nil {
			failures++
			continue
		}
		results = append(results, result)
	}

	summary, ok := Summarize(model, results, failures)
	return summary, results, ok
}

// Summarize averages the successful trials of a model. It returns false when
// there are none, so a model is never reported with zero-filled values.
func Summarize(model string, results []TrialResult, failures int) (ModelSummary, bool) {
	if len(results) == 0 {
		return ModelSummary{}, false
	}

	summary := ModelSummary{
		Model:    model,
		Trials:   len(results),
		Failures: failures,
	}
	for _, r := range results {
		summary.AvgTTFTMillis += r.TTFTMillis
		summary.AvgPrefillTPS += r.PrefillTPS
		summary.AvgDecodeTPS += r.DecodeTPS
		summary.AvgTotalSeconds += r.TotalSeconds
	}

	count := float64(len(results))
	summary.AvgTTFTMillis /= count
	summary.AvgPrefillTPS /= count
	summary.AvgDecodeTPS /= count
	summary.AvgTotalSeconds /= count

	return summary, true
}
