// Package moderation implements sensitive-word checking and masking.
package moderation

import "strings"

const maskRune = '*'

// Result is the outcome of masking a text against a word list.
type Result struct {
	Hits       []string `json:"hits"`
	MaskedText string   `json:"maskedText"`
	Allowed    bool     `json:"allowed"`
}

// Mask replaces every occurrence of each listed word with an equal-length
// run of mask characters. Matching is case-sensitive and processed in list
// order against the progressively masked text, so a word that only appears
// inside an already-masked region does not re-match. Empty words are
// skipped.
func Mask(text string, words []string) Result {
	hits := []string{}
	masked := text
	for _, w := range words {
		if w == "" {
			continue
		}
		if strings.Contains(masked, w) {
			hits = append(hits, w)
			masked = strings.ReplaceAll(masked, w, strings.Repeat(string(maskRune), len([]rune(w))))
		}
	}
	return Result{Hits: hits, MaskedText: masked, Allowed: len(hits) == 0}
}
