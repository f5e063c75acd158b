// Package synthesize is the pipeline's SQL synthesizer (C8): it builds the
// grounded prompt C4's SQL role answers and parses the statement back out
// of the model's reply.
package synthesize

import (
	"fmt"
	"strings"

	"github.com/albapepper/scoracle-query/internal/knowledge"
	"github.com/albapepper/scoracle-query/internal/model"
)

const systemPrompt = `You translate a basketball statistics question into a single PostgreSQL SELECT statement.

Rules:
- Output exactly one SQL statement, nothing else: no explanation, no markdown fence, no trailing semicolon commentary.
- Only SELECT. Never write, alter, or drop anything.
- Only reference the tables and columns described in the schema context below.
- Always filter player_stats and players by a season code (e.g. 'E2025') unless the question is explicitly about all seasons.
- Always add a LIMIT clause bounding the result to a reasonable number of rows.
- If the question cannot be answered with the schema below, reply with exactly: UNSUPPORTED`

// BuildPrompt assembles the system and user prompt for one synthesis call,
// grounding it in C5's retrieved schema/exemplar snippets and the last few
// turns of conversation history.
func BuildPrompt(question string, snippets []knowledge.Snippet, history []model.Turn) (system, user string) {
	var ctx strings.Builder
	ctx.WriteString("Schema and exemplar context:\n")
	for _, s := range snippets {
		ctx.WriteString("- ")
		ctx.WriteString(s.Content)
		ctx.WriteString("\n")
	}

	var hist strings.Builder
	if len(history) > 0 {
		hist.WriteString("\nRecent conversation:\n")
		for _, t := range history {
			hist.WriteString(t.Role)
			hist.WriteString(": ")
			hist.WriteString(t.Content)
			hist.WriteString("\n")
		}
	}

	user = fmt.Sprintf("%s%s\nQuestion: %s", ctx.String(), hist.String(), question)
	return systemPrompt, user
}
