// Package fixation computes per-word emphasis boundaries.
package fixation

import (
	"math"
	"strings"
)

// Common morpheme lists. Order matters: the first match wins.
var prefixes = []string{
	"un", "re", "pre", "dis", "in", "im", "ir", "il", "anti", "auto",
	"bio", "co", "de", "ex", "fore", "inter", "micro", "mid", "mono",
	"non", "over", "post", "pro", "sub", "super", "trans", "tri", "under",
}

var suffixes = []string{
	"ing", "ed", "ly", "tion", "sion", "able", "ible", "al", "ent",
	"ence", "ive", "ize", "ise", "ment", "ness", "ous", "ful", "less",
}

// Point returns the rune index where emphasis ends for the given word.
// For words of length > 1 the result is always within [1, len-1]; shorter
// words return their own length.
func Point(word string, level float64) int {
	runes := []rune(word)
	n := len(runes)
	if n <= 1 {
		return n
	}

	point := int(math.Ceil(float64(n) * level))
	lower := strings.ToLower(word)

	matched := false
	for _, p := range prefixes {
		if len(p) < n && strings.HasPrefix(lower, p) {
			if point > len(p) {
				point = len(p)
			}
			matched = true
			break
		}
	}
	if !matched {
		for _, s := range suffixes {
			if len(s) < n && strings.HasSuffix(lower, s) {
				if limit := n - len(s); point > limit {
					point = limit
				}
				break
			}
		}
	}

	switch {
	case n <= 3:
		point = 1
	case n > 8:
		if point+1 <= n-1 {
			point++
		} else {
			point = n - 1
		}
	}

	if point < 1 {
		point = 1
	}
	if point > n-1 {
		point = n - 1
	}
	return point
}

// Split divides a word at its fixation point into an emphasized prefix and
// the remaining suffix.
func Split(word string, level float64) (bold, normal string) {
	runes := []rune(word)
	point := Point(word, level)
	if point >= len(runes) {
		return word, ""
	}
	return string(runes[:point]), string(runes[point:])
}
