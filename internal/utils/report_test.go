package utils

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTableKeepsOrder(t *testing.T) {
	table := RenderTable([]ModelSummary{
		{Model: "GPT-OSS-20B-vLLM", AvgTTFTMillis: 812.25, AvgPrefillTPS: 9850.5, AvgDecodeTPS: 41.25, AvgTotalSeconds: 3.5},
		{Model: "GPT-OSS-20B-F16", AvgTTFTMillis: 1500, AvgPrefillTPS: 5333.33, AvgDecodeTPS: 30, AvgTotalSeconds: 4.75},
	})

	lines := strings.Split(strings.TrimSpace(table), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, strings.Repeat("=", tableWidth), lines[0])
	assert.Equal(t, "Model                | Avg TTFT   | Prefill T/s  | Decode T/s   | Total (s) ", lines[1])
	assert.Equal(t, strings.Repeat("-", tableWidth), lines[2])
	assert.Equal(t, "GPT-OSS-20B-vLLM     | 812.25     | 9850.50      | 41.25        | 3.50      ", lines[3])
	assert.Equal(t, "GPT-OSS-20B-F16      | 1500.00    | 5333.33      | 30.00        | 4.75      ", lines[4])
	assert.Equal(t, strings.Repeat("=", tableWidth), lines[5])
}

func TestRenderTableWithoutSummaries(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(RenderTable(nil)), "\n")
	assert.Len(t, lines, 4, "header and rules only")
}

func TestFormatTrialLine(t *testing.T) {
	line := FormatTrialLine(TrialResult{Model: "m", TTFTMillis: 100, PrefillTPS: 4300, DecodeTPS: 20})
	assert.Equal(t, "[m] Prefill: 4300.00 t/s | Decode: 20.00 t/s | TTFT: 100.00 ms", line)
}

func TestPrintBenchmarkHeader(t *testing.T) {
	var buf bytes.Buffer
	PrintBenchmarkHeader(&buf, "http://homelab-nuc.lan:4000/v1", 5, 8000)
	assert.Equal(t, "Comparing models at http://homelab-nuc.lan:4000/v1 with 5 iterations (approx 8000 tokens)..\n\n", buf.String())
}

func TestPrintTrialError(t *testing.T) {
	previous := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = previous })

	var buf bytes.Buffer
	PrintTrialError(&buf, "m", errors.New("connection refused"))
	assert.Equal(t, "[m] Error: connection refused\n", buf.String())
}
