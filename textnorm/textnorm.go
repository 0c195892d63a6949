package textnorm

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/jdkato/prose/v2"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize canonicalizes text for search and comparison: lower-case, trim,
// and collapse whitespace runs (tabs and newlines included) to a single space.
// It is deterministic and idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(strings.TrimSpace(text))
	text = whitespaceRun.ReplaceAllString(text, " ")

	return text
}

// Fingerprint returns the SHA-256 of the normalized text as a 64-character
// lowercase hex string. Any two inputs that normalize identically fingerprint
// identically, which makes it usable as a cache key.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(Normalize(text)))
	return hex.EncodeToString(sum[:])
}

// Truncate shortens text for logs and prompt context. The result is at most
// maxLen characters and ends with "..." when anything was cut.
func Truncate(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen-3]) + "..."
}

// Tokens splits normalized text into comparable tokens. It runs the prose
// tokenizer so that punctuation-attached words split cleanly; if tokenization
// fails the plain whitespace split is used instead, never an error.
func Tokens(text string) []string {
	norm := Normalize(text)
	if norm == "" {
		return nil
	}

	doc, err := prose.NewDocument(norm,
		prose.WithTagging(false),
		prose.WithExtraction(false),
		prose.WithSegmentation(false))
	if err != nil {
		return strings.Fields(norm)
	}

	tokens := make([]string, 0, len(doc.Tokens()))
	for _, tok := range doc.Tokens() {
		t := strings.TrimFunc(tok.Text, func(r rune) bool {
			return !isWordRune(r)
		})
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	if len(tokens) == 0 {
		return strings.Fields(norm)
	}
	return tokens
}

func isWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r >= 0x80: // keep non-ASCII letters (cyrillic etc.)
		return true
	}
	return false
}
