package utils

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const tableWidth = 85

var (
	errorLine   = color.New(color.FgRed)
	sectionLine = color.New(color.Bold)
)

// PrintBenchmarkHeader announces the run before any model is tested.
func PrintBenchmarkHeader(w io.Writer, apiBase string, trials, targetTokens int) {
	fmt.Fprintf(w, "Comparing models at %s with %d iterations (approx %d tokens)..\n\n", apiBase, trials, targetTokens)
}

// FormatTrialLine renders the inline summary printed after each measured trial.
func FormatTrialLine(r TrialResult) string {
	return fmt.Sprintf("[%s] Prefill: %.2f t/s | Decode: %.2f t/s | TTFT: %.2f ms",
		r.Model, r.PrefillTPS, r.DecodeTPS, r.TTFTMillis)
}

// PrintTrialError reports a failed trial.
func PrintTrialError(w io.Writer, model string, err error) {
	errorLine.Fprintf(w, "[%s] Error: %v\n", model, err)
}

func printSection(w io.Writer, format string, args ...any) {
	sectionLine.Fprintf(w, format, args...)
}

// RenderTable formats the per-model averages as a fixed-width comparison table.
// Rows keep the order of summaries; models without a summary simply have no row.
func RenderTable(summaries []ModelSummary) string {
	var b strings.Builder
	rule := strings.Repeat("=", tableWidth)

	b.WriteString("\n" + rule + "\n")
	fmt.Fprintf(&b, "%-20s | %-10s | %-12s | %-12s | %-10s\n", "Model", "Avg TTFT", "Prefill T/s", "Decode T/s", "Total (s)")
	b.WriteString(strings.Repeat("-", tableWidth) + "\n")
	for _, s := range summaries {
		fmt.Fprintf(&b, "%-20s | %-10.2f | %-12.2f | %-12.2f | %-10.2f\n",
			s.Model, s.AvgTTFTMillis, s.AvgPrefillTPS, s.AvgDecodeTPS, s.AvgTotalSeconds)
	}
	b.WriteString(rule + "\n")

	return b.String()
}
