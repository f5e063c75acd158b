package synthesize

import (
	"strings"

	"github.com/albapepper/scoracle-query/internal/apperr"
)

// unsupportedToken is the exact reply the system prompt instructs the
// model to give when a question can't be answered from the schema.
const unsupportedToken = "UNSUPPORTED"

// Parse extracts a single SQL statement from a raw model reply: it strips
// a surrounding code fence if present, trims whitespace, drops a trailing
// semicolon, and takes only the first statement if the model ignored the
// single-statement instruction.
func Parse(reply string) (string, error) {
	text := strings.TrimSpace(reply)

	if text == unsupportedToken {
		return "", apperr.New(apperr.KindUnsupportedQuery, "model reported the question cannot be answered from the schema")
	}

	text = stripCodeFence(text)
	text = firstStatement(text)
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), ";"))

	if text == "" {
		return "", apperr.New(apperr.KindLLMInvalidOutput, "model reply contained no SQL statement")
	}
	if text == unsupportedToken {
		return "", apperr.New(apperr.KindUnsupportedQuery, "model reported the question cannot be answered from the schema")
	}
	return text, nil
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return text
	}
	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// firstStatement returns everything up to (not including) the first
// semicolon that isn't inside a quoted string literal, or the whole text
// if there's no semicolon.
func firstStatement(text string) string {
	inSingle := false
	for i, r := range text {
		switch r {
		case '\'':
			inSingle = !inSingle
		case ';':
			if !inSingle {
				return text[:i]
			}
		}
	}
	return text
}
