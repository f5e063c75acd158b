package synthesize

import (
	"strings"
	"testing"

	"github.com/albapepper/scoracle-query/internal/apperr"
	"github.com/albapepper/scoracle-query/internal/knowledge"
	"github.com/albapepper/scoracle-query/internal/model"
)

func TestParsePlainSQL(t *testing.T) {
	got, err := Parse("SELECT 1")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got != "SELECT 1" {
		t.Errorf("Parse() = %q", got)
	}
}

func TestParseStripsCodeFence(t *testing.T) {
	got, err := Parse("```sql\nSELECT 1\n```")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got != "SELECT 1" {
		t.Errorf("Parse() = %q", got)
	}
}

func TestParseStripsTrailingSemicolon(t *testing.T) {
	got, err := Parse("SELECT 1;")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got != "SELECT 1" {
		t.Errorf("Parse() = %q", got)
	}
}

func TestParseTakesFirstStatement(t *testing.T) {
	got, err := Parse("SELECT 1; DROP TABLE teams;")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got != "SELECT 1" {
		t.Errorf("Parse() = %q", got)
	}
}

func TestParseSemicolonInsideStringLiteral(t *testing.T) {
	got, err := Parse("SELECT 'a;b' AS x")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got != "SELECT 'a;b' AS x" {
		t.Errorf("Parse() = %q", got)
	}
}

func TestParseUnsupported(t *testing.T) {
	_, err := Parse("UNSUPPORTED")
	if apperr.KindOf(err) != apperr.KindUnsupportedQuery {
		t.Errorf("Parse(UNSUPPORTED) kind = %v, want %v", apperr.KindOf(err), apperr.KindUnsupportedQuery)
	}
}

func TestParseEmptyReply(t *testing.T) {
	_, err := Parse("   ")
	if apperr.KindOf(err) != apperr.KindLLMInvalidOutput {
		t.Errorf("Parse empty kind = %v, want %v", apperr.KindOf(err), apperr.KindLLMInvalidOutput)
	}
}

func TestBuildPromptIncludesSnippetsAndHistory(t *testing.T) {
	snippets := []knowledge.Snippet{{Content: "Table teams(...)"}}
	history := []model.Turn{{Role: "user", Content: "who won last night"}}
	system, user := BuildPrompt("top scorer this season", snippets, history)
	if system == "" {
		t.Error("expected non-empty system prompt")
	}
	if !strings.Contains(user, "Table teams") || !strings.Contains(user, "who won last night") || !strings.Contains(user, "top scorer this season") {
		t.Errorf("user prompt missing expected content: %s", user)
	}
}
