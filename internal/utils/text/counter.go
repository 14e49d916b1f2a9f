// Package text provides rune-aware helpers for text passed to and returned
// from the research providers.
package text

import (
	"strings"
	"unicode/utf8"
)

// CountRunes counts Unicode characters rather than bytes.
//
// Examples:
//
//	CountRunes("hello")    // 5
//	CountRunes("日本語")    // 3
//	CountRunes("Hello👋")  // 6
func CountRunes(text string) int {
	return utf8.RuneCountInString(text)
}

// Truncate shortens text to at most maxRunes characters, cutting at the last
// whitespace when one falls in the final fifth and appending "…". A
// non-positive maxRunes returns text unchanged.
func Truncate(text string, maxRunes int) string {
	if maxRunes <= 0 || CountRunes(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:maxRunes])
	if i := strings.LastIndexAny(cut, " \n\t"); i > 0 && CountRunes(cut[:i]) >= maxRunes*4/5 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "…"
}

// CollapseWhitespace replaces runs of blank lines and spaces with a single
// newline or space.
func CollapseWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
