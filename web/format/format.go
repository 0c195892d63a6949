package format

import (
	"strings"

	"github.com/gomarkdown/markdown"
)

// AnswerToHTML renders an answer's markdown to HTML for API clients that
// display rich text. Curly quotes are flattened first; some models emit them
// and they render inconsistently.
func AnswerToHTML(text string) string {
	if text == "" {
		return ""
	}

	text = strings.NewReplacer(
		"“", "\"", // "
		"”", "\"", // "
		"‘", "'", // '
		"’", "'", // '
	).Replace(text)

	return strings.TrimSpace(string(markdown.ToHTML([]byte(text), nil, nil)))
}
