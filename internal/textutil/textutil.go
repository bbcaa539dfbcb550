// Package textutil provides tokenization helpers for corpus preparation.
package textutil

import (
	"regexp"
	"strings"
)

var tokenizeRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize extracts word tokens from text (Unicode-aware). Punctuation
// separates tokens and is dropped; underscores bind.
func Tokenize(text string) []string {
	return tokenizeRe.FindAllString(text, -1)
}

var (
	newlineRe    = regexp.MustCompile(`[\n\r]`)
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
)

// NormalizeWhitespaces replaces newlines with spaces and collapses
// whitespace runs to single spaces.
func NormalizeWhitespaces(text string) string {
	text = newlineRe.ReplaceAllString(text, " ")
	return multiSpaceRe.ReplaceAllString(text, " ")
}

// Normalize lowercases text and normalizes its whitespace.
func Normalize(text string) string {
	return NormalizeWhitespaces(strings.ToLower(text))
}

// Words normalizes text and splits it into word tokens, the shape the
// embedding trainer consumes.
func Words(text string) []string {
	return Tokenize(Normalize(text))
}
