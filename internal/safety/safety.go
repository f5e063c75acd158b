// Package safety is the pipeline's SQL safety validator (C9): the last
// gate a synthesized statement passes through before it ever reaches C2.
// It has no library grounding — no SQL parser anywhere in the reference
// pack is importable as a module (the one tokenizer found, ha1tch's
// tsqlparser, ships only as a standalone file with no go.mod) — so every
// check here is a deliberately conservative regexp/string scan, not a
// real parse. It is stricter than it needs to be on purpose: anything it
// can't convince itself is a safe single SELECT, it rejects.
package safety

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/albapepper/scoracle-query/internal/apperr"
)

var blacklistTokens = []string{
	// The spec §4.8 required set, verbatim.
	"insert", "update", "delete", "drop", "alter", "create", "truncate",
	"grant", "revoke", "copy", "call", "merge", "replace", "attach", "detach",
	// Defense-in-depth additions beyond the required set.
	"vacuum", "execute", "do",
	"pg_sleep", "pg_read_file", "pg_ls_dir", "dblink", "lo_import", "lo_export",
	"information_schema", "pg_catalog", "pg_proc", "pg_shadow", "pg_authid",
}

var commentStripPattern = regexp.MustCompile(`(?s)(--[^\n]*|/\*.*?\*/)`)
var leadingKeywordPattern = regexp.MustCompile(`(?i)^\s*(with|select)\b`)
var limitPattern = regexp.MustCompile(`(?i)\blimit\s+\d+\s*$`)
var tokenPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// Validate runs every ordered check against sql and, if it passes, returns
// a rewritten statement with a LIMIT clause enforcing rowCap. It never
// mutates sql except to strip comments and append/replace LIMIT.
func Validate(sql string, rowCap int) (string, error) {
	stripped := strings.TrimSpace(commentStripPattern.ReplaceAllString(sql, " "))
	if stripped == "" {
		return "", apperr.New(apperr.KindSQLUnsafe, "statement is empty after removing comments")
	}

	if err := singleStatement(stripped); err != nil {
		return "", err
	}

	if !leadingKeywordPattern.MatchString(stripped) {
		return "", apperr.New(apperr.KindSQLUnsafe, "statement must start with SELECT or WITH")
	}

	if err := blacklistScan(stripped); err != nil {
		return "", err
	}

	return enforceLimit(stripped, rowCap), nil
}

// singleStatement rejects a statement containing a semicolon that isn't
// inside a quoted string literal — the same scan rule C8's parser uses,
// applied here as a second, independent check.
func singleStatement(sql string) error {
	inSingle := false
	for _, r := range sql {
		switch r {
		case '\'':
			inSingle = !inSingle
		case ';':
			if !inSingle {
				return apperr.New(apperr.KindSQLUnsafe, "statement must be a single SQL statement")
			}
		}
	}
	return nil
}

// blacklistScan tokenizes the statement (ignoring quoted string contents)
// and rejects it if any token matches a forbidden keyword or catalog
// reference, including inside a CTE.
func blacklistScan(sql string) error {
	withoutLiterals := stripStringLiterals(sql)
	lower := strings.ToLower(withoutLiterals)
	for _, tok := range tokenPattern.FindAllString(lower, -1) {
		for _, bad := range blacklistTokens {
			if tok == bad {
				return apperr.New(apperr.KindSQLUnsafe, "statement contains a forbidden keyword: "+tok)
			}
		}
	}
	return nil
}

func stripStringLiterals(sql string) string {
	var b strings.Builder
	inSingle := false
	for _, r := range sql {
		if r == '\'' {
			inSingle = !inSingle
			continue
		}
		if inSingle {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// enforceLimit appends a LIMIT clause if the statement doesn't end with
// one, or leaves an existing LIMIT in place if it is between 1 and rowCap.
// A LIMIT of 0 or larger than rowCap is replaced with LIMIT rowCap — the
// pipeline's row cap always wins over whatever the model asked for.
func enforceLimit(sql string, rowCap int) string {
	if m := limitPattern.FindStringIndex(sql); m != nil {
		existing := limitPattern.FindString(sql)
		n := extractLimitValue(existing)
		if n > 0 && n <= rowCap {
			return sql
		}
		return strings.TrimSpace(sql[:m[0]]) + limitClause(rowCap)
	}
	return strings.TrimSpace(sql) + limitClause(rowCap)
}

var limitValuePattern = regexp.MustCompile(`\d+`)

func extractLimitValue(limitClauseText string) int {
	n, _ := strconv.Atoi(limitValuePattern.FindString(limitClauseText))
	return n
}

func limitClause(rowCap int) string {
	return " LIMIT " + strconv.Itoa(rowCap)
}
