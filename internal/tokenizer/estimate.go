package tokenizer

import (
	"strings"
	"unicode"
)

// Estimate approximates the token count of text without an encoding:
// roughly 1.3 tokens per word plus a share of the punctuation. Used as a
// fallback when no tiktoken encoding is available (for example in
// air-gapped environments where the BPE files cannot be fetched).
func Estimate(text string) int {
	if text == "" {
		return 0
	}

	wordCount := len(strings.Fields(text))

	punctCount := 0
	for _, r := range text {
		if unicode.IsPunct(r) {
			punctCount++
		}
	}

	return int(float64(wordCount)*1.3) + punctCount/2
}

// EstimateIDs returns placeholder token ids matching the Estimate count,
// for collaborators that expect a token sequence rather than a count.
func EstimateIDs(text string) []int {
	return make([]int, Estimate(text))
}
