package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Yoosu-L/llmcompare/internal/api"
	"github.com/Yoosu-L/llmcompare/internal/config"
	"github.com/schollz/progressbar/v3"
)

// Short fragments mentioning "loading" are provider keep-alive/status chunks, not output.
const (
	noiseMarker    = "loading"
	noiseMaxLength = 50
)

// TrialResult holds the metrics of one successful streamed request.
type TrialResult struct {
	Model        string  `json:"model" yaml:"model"`
	TTFTMillis   float64 `json:"ttft_ms" yaml:"ttft-ms"`
	PrefillTPS   float64 `json:"prefill_tps" yaml:"prefill-tps"`
	DecodeTPS    float64 `json:"decode_tps" yaml:"decode-tps"`
	TotalSeconds float64 `json:"total_s" yaml:"total-s"`
	// Chunks counts surviving stream fragments; decode throughput treats each as one token.
	Chunks int    `json:"chunks" yaml:"chunks"`
	Output string `json:"-" yaml:"-"`
}

// Degenerate reports whether the stream finished without a single surviving fragment.
func (r TrialResult) Degenerate() bool {
	return r.Chunks == 0
}

// TransportError is a failed trial: the request could not be sent, the server
// rejected it, or the stream broke before completing.
type TransportError struct {
	Model string
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("trial for %s failed: %v", e.Model, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Probe runs single streamed trials and derives their latency and throughput.
type Probe struct {
	streamer  api.ChatStreamer
	maxTokens int
	timeout   time.Duration
	out       io.Writer
	progress  io.Writer
	now       func() time.Time
}

// ProbeOption customizes a Probe.
type ProbeOption func(*Probe)

// WithOutput sets where per-trial summary and error lines are written.
func WithOutput(w io.Writer) ProbeOption {
	return func(p *Probe) { p.out = w }
}

// WithProgress enables a fragment progress bar written to w.
func WithProgress(w io.Writer) ProbeOption {
	return func(p *Probe) { p.progress = w }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ProbeOption {
	return func(p *Probe) { p.now = now }
}

// NewProbe returns a probe issuing requests through streamer with the limits from cfg.
func NewProbe(streamer api.ChatStreamer, cfg config.BenchmarkConfig, opts ...ProbeOption) *Probe {
	p := &Probe{
		streamer:  streamer,
		maxTokens: cfg.MaxOutputTokens,
		timeout:   cfg.TrialTimeout,
		out:       io.Discard,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one trial. A failed trial returns a *TransportError and no result.
// Warmup trials are measured the same way but print nothing.
func (p *Probe) Run(ctx context.Context, model, prompt string, warmup bool) (TrialResult, error) {
	if !warmup {
		fmt.Fprintf(p.out, "\n--- Benchmarking %s ---\n", model)
	}

	result, err := p.measure(ctx, model, prompt, warmup)
	if err != nil {
		if !warmup {
			PrintTrialError(p.out, model, err)
		}
		return TrialResult{}, &TransportError{Model: model, Err: err}
	}

	if !warmup {
		fmt.Fprintln(p.out, FormatTrialLine(result))
	}
	return result, nil
}

func (p *Probe) measure(ctx context.Context, model, prompt string, warmup bool) (TrialResult, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	var bar *progressbar.ProgressBar
	if p.progress != nil && !warmup {
		bar = progressbar.NewOptions(p.maxTokens,
			progressbar.OptionSetWriter(p.progress),
			progressbar.OptionSetDescription(fmt.Sprintf("[%s]", model)),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
	}

	trial := trialState{start: p.now()}

	stream, err := p.streamer.OpenStream(ctx, api.NewStreamRequest(model, prompt, p.maxTokens))
	if err != nil {
		return TrialResult{}, err
	}
	defer stream.Close()

	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return TrialResult{}, fmt.Errorf("stream error: %w", err)
		}

		fragment := api.FragmentFromChunk(chunk)
		if fragment.IsEmpty() || isNoise(fragment.Text) {
			continue
		}
		trial.observe(fragment.Text, p.now)
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	return trial.result(model, prompt, p.now()), nil
}

// isNoise reports whether a fragment is a short status chunk such as "loading...".
func isNoise(text string) bool {
	return utf8.RuneCountInString(text) < noiseMaxLength &&
		strings.Contains(strings.ToLower(text), noiseMarker)
}

// trialState is the accumulator of a single trial; never shared between trials.
type trialState struct {
	start      time.Time
	firstToken time.Time
	seen       bool
	chunks     int
	output     strings.Builder
}

func (t *trialState) observe(text string, now func() time.Time) {
	if !t.seen {
		t.firstToken = now()
		t.seen = true
	}
	t.output.WriteString(text)
	t.chunks++
}

func (t *trialState) result(model, prompt string, end time.Time) TrialResult {
	totalTime := end.Sub(t.start).Seconds()

	var ttft, generationTime float64
	if t.seen {
		ttft = t.firstToken.Sub(t.start).Seconds()
		generationTime = end.Sub(t.firstToken).Seconds()
	}

	var prefillTPS, decodeTPS float64
	if ttft > 0 {
		prefillTPS = approxTokens(prompt) / ttft
	}
	if generationTime > 0 {
		decodeTPS = float64(t.chunks) / generationTime
	}

	return TrialResult{
		Model:        model,
		TTFTMillis:   ttft * 1000,
		PrefillTPS:   prefillTPS,
		DecodeTPS:    decodeTPS,
		TotalSeconds: totalTime,
		Chunks:       t.chunks,
		Output:       t.output.String(),
	}
}
