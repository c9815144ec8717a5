package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// charsPerToken is the rough tokenizer ratio used for prompt sizing and prefill throughput.
const charsPerToken = 4

// SynthesizePrompt builds a prompt of at least targetTokens*4 characters by
// repeating a seed sentence. Varying seedWord per trial keeps backends from
// serving a cached prefix.
func SynthesizePrompt(targetTokens int, seedWord string) string {
	targetChars := max(targetTokens, 0) * charsPerToken
	seedText := strings.Repeat(fmt.Sprintf("The quick brown %s jumps over the lazy dog. ", seedWord), 10)
	repeats := targetChars/utf8.RuneCountInString(seedText) + 1
	return strings.Repeat(seedText, repeats)
}

// approxTokens converts a character count to the approximate token count.
func approxTokens(text string) float64 {
	return float64(utf8.RuneCountInString(text)) / charsPerToken
}
