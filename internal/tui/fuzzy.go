package tui

import (
	"unicode"
)

// Match reports whether every rune of query appears in target in order,
// ignoring case, and scores the match. Higher scores mean runs of adjacent
// runes, a hit on the first rune, or hits at the start of a word.
func Match(query, target string) (bool, int) {
	if query == "" {
		return true, 0
	}
	q := []rune(query)
	qi, score, run := 0, 0, 0
	prev := rune(0)
	for ti, r := range []rune(target) {
		if qi == len(q) {
			break
		}
		if unicode.ToLower(r) == unicode.ToLower(q[qi]) {
			qi++
			run++
			score += run
			switch {
			case ti == 0:
				score += 3
			case isWordBreak(prev):
				score += 2
			}
		} else {
			run = 0
		}
		prev = r
	}
	return qi == len(q), score
}

func isWordBreak(r rune) bool {
	return unicode.IsSpace(r) || r == '-' || r == '_' || r == '/' || r == '.' || r == '('
}
