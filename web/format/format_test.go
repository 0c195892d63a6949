package format

import (
	"strings"
	"testing"
)

func TestAnswerToHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "plain_paragraph", input: "Pick an item and checkout.", want: "<p>Pick an item and checkout.</p>"},
		{name: "bold", input: "Use the **Orders** page.", want: "<p>Use the <strong>Orders</strong> page.</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnswerToHTML(tt.input)
			if got != tt.want {
				t.Errorf("AnswerToHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAnswerToHTMLFlattensCurlyQuotes(t *testing.T) {
	got := AnswerToHTML("Say “hello”")
	if strings.Contains(got, "“") || strings.Contains(got, "”") {
		t.Errorf("curly quotes survived: %q", got)
	}
}
