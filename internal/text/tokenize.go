// Package text segments raw text into fixation-ready reading chunks.
package text

import (
	"strings"
	"unicode"

	"github.com/pacer-tui/pacer/internal/model"
)

// Sentence and clause punctuation recognized by the tokenizer.
const punctRunes = ".,!?;:—-"

// Title abbreviations whose trailing period belongs to the word itself, so
// "Dr. Smith" does not end a sentence. Matched case-insensitively but only
// for capitalized words.
var abbreviations = map[string]struct{}{
	"dr": {}, "mr": {}, "mrs": {}, "ms": {}, "prof": {}, "st": {},
	"jr": {}, "sr": {}, "rev": {}, "gen": {}, "sgt": {}, "capt": {},
	"lt": {}, "col": {}, "mt": {}, "ft": {}, "inc": {}, "ltd": {}, "fig": {},
}

// SplitParagraphs divides a document on runs of two or more line breaks and
// drops paragraphs that are empty after trimming.
func SplitParagraphs(raw string) []string {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	parts := splitOnBlankLines(normalized)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func splitOnBlankLines(s string) []string {
	var parts []string
	start := 0
	i := 0
	for i < len(s) {
		if s[i] != '\n' {
			i++
			continue
		}
		j := i + 1
		breaks := 1
		for j < len(s) {
			if s[j] == '\n' {
				breaks++
				j++
				continue
			}
			if s[j] == ' ' || s[j] == '\t' {
				j++
				continue
			}
			break
		}
		if breaks >= 2 {
			parts = append(parts, s[start:i])
			start = j
			i = j
			continue
		}
		i = j
	}
	parts = append(parts, s[start:])
	return parts
}

// Tokenize produces the ordered token stream for one paragraph. Characters
// outside the word, punctuation, and whitespace classes are dropped.
func Tokenize(paragraph string) []model.Token {
	runes := []rune(paragraph)
	var tokens []model.Token
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case isWordRune(r):
			j := scanWord(runes, i)
			word := string(runes[i:j])
			if j < len(runes) && runes[j] == '.' && isAbbreviation(word) {
				word += "."
				j++
			}
			tokens = append(tokens, model.Token{Kind: model.TokenWord, Text: word})
			i = j
		case isPunctRune(r):
			j := i + 1
			for j < len(runes) && isPunctRune(runes[j]) {
				j++
			}
			tokens = append(tokens, model.Token{Kind: model.TokenPunct, Text: string(runes[i:j])})
			i = j
		case unicode.IsSpace(r):
			j := i + 1
			for j < len(runes) && unicode.IsSpace(runes[j]) {
				j++
			}
			tokens = append(tokens, model.Token{Kind: model.TokenSpace, Text: string(runes[i:j])})
			i = j
		default:
			i++
		}
	}
	return tokens
}

// scanWord consumes a word run starting at i, allowing one internal
// apostrophe so contractions stay whole.
func scanWord(runes []rune, i int) int {
	j := i + 1
	sawApostrophe := false
	for j < len(runes) {
		if isWordRune(runes[j]) {
			j++
			continue
		}
		if (runes[j] == '\'' || runes[j] == '’') && !sawApostrophe &&
			j+1 < len(runes) && isWordRune(runes[j+1]) {
			sawApostrophe = true
			j += 2
			continue
		}
		break
	}
	return j
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isPunctRune(r rune) bool {
	return strings.ContainsRune(punctRunes, r)
}

func isAbbreviation(word string) bool {
	runes := []rune(word)
	if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
		return false
	}
	_, ok := abbreviations[strings.ToLower(word)]
	return ok
}

// CountWords returns the number of word tokens across the whole document.
func CountWords(raw string) int {
	total := 0
	for _, p := range SplitParagraphs(raw) {
		for _, tok := range Tokenize(p) {
			if tok.Kind == model.TokenWord {
				total++
			}
		}
	}
	return total
}
