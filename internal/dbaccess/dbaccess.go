// Package dbaccess is the pipeline's only door to Postgres. Unlike
// scoracle-data's internal/db, which keeps a long-lived pgxpool.Pool alive
// for a always-on API server, this pipeline may scale to zero between
// questions, so it opens one pgx.Conn per request and closes it when the
// request is done — no pool, no idle connections sitting around a
// serverless instance that might not exist a minute from now.
package dbaccess

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sethvargo/go-retry"

	"github.com/albapepper/scoracle-query/internal/apperr"
	"github.com/albapepper/scoracle-query/internal/provider"
)

// Session wraps a single pgx.Conn for the lifetime of one pipeline step.
// Callers must Close it.
type Session struct {
	conn *pgx.Conn
}

// connectRetry bounds the one reconnect-after-backoff attempt spec §4.1
// allows before a connect failure is reported as DB_UNREACHABLE.
var connectRetry = provider.RetryConfig{MaxRetries: 1, BaseDelay: 100 * time.Millisecond}

// Acquire opens a new connection to databaseURL. It retries once after a
// short backoff on a transient dial failure before giving up.
func Acquire(ctx context.Context, databaseURL string) (*Session, error) {
	var conn *pgx.Conn
	err := provider.WithRetry(ctx, connectRetry, func(ctx context.Context) error {
		c, err := pgx.Connect(ctx, databaseURL)
		if err != nil {
			return retry.RetryableError(err)
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDBUnreachable, "connect to database", scrub(err, databaseURL))
	}
	return &Session{conn: conn}, nil
}

// ReadOnlySession opens a connection pinned read-only for the given
// statement timeout — every SQL execution path in this pipeline (C2, C9,
// C10, C12) goes through this, never a read-write session.
func ReadOnlySession(ctx context.Context, databaseURL string, statementTimeout time.Duration) (*Session, error) {
	s, err := Acquire(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	setup := fmt.Sprintf(
		"SET default_transaction_read_only = on; SET statement_timeout = %d",
		statementTimeout.Milliseconds(),
	)
	if _, err := s.conn.Exec(ctx, setup); err != nil {
		s.Close(ctx)
		return nil, apperr.Wrap(apperr.KindDBUnreachable, "configure read-only session", scrub(err, databaseURL))
	}
	return s, nil
}

// Close releases the underlying connection. Safe to call on a nil Session.
func (s *Session) Close(ctx context.Context) {
	if s == nil || s.conn == nil {
		return
	}
	_ = s.conn.Close(ctx)
}

// ResultSet is the shape every query in this pipeline returns: column
// names in order plus rows of column->value maps, ready for C11 shaping.
type ResultSet struct {
	Columns []string
	Rows    []map[string]any
}

// Execute runs sql with args and caps the number of rows returned at
// rowCap, reporting whether the result was truncated. It classifies every
// failure into an apperr.Kind so the orchestrator can branch without
// inspecting driver-specific error types.
func (s *Session) Execute(ctx context.Context, sql string, args []any, rowCap int) (*ResultSet, bool, error) {
	rows, err := s.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, false, classify(err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = string(f.Name)
	}

	result := &ResultSet{Columns: columns}
	truncated := false
	for rows.Next() {
		if len(result.Rows) >= rowCap {
			truncated = true
			break
		}
		vals, err := rows.Values()
		if err != nil {
			return nil, false, apperr.Wrap(apperr.KindDBExecError, "read row", err)
		}
		row := make(map[string]any, len(columns))
		for i, c := range columns {
			row[c] = vals[i]
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, false, classify(err)
	}
	// Drain any remaining rows past the cap so the connection can be reused
	// cleanly, without counting them towards the result.
	if truncated {
		for rows.Next() {
		}
	}

	return result, truncated, nil
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "context deadline exceeded"), strings.Contains(msg, "canceling statement due to statement timeout"):
		return apperr.Wrap(apperr.KindDBTimeout, "query timed out", err)
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "no such host"), strings.Contains(msg, "EOF"):
		return apperr.Wrap(apperr.KindDBUnreachable, "database unreachable", err)
	default:
		return apperr.Wrap(apperr.KindDBExecError, "query execution failed", err)
	}
}

// scrub strips a raw database URL (which may carry a password) out of an
// error message before it is wrapped, so secrets never reach a log line.
func scrub(err error, databaseURL string) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if databaseURL != "" {
		msg = strings.ReplaceAll(msg, databaseURL, "[redacted]")
	}
	if idx := strings.Index(databaseURL, "@"); idx > 0 {
		if schemeIdx := strings.Index(databaseURL, "://"); schemeIdx >= 0 && schemeIdx < idx {
			credentials := databaseURL[schemeIdx+3 : idx]
			if credentials != "" {
				msg = strings.ReplaceAll(msg, credentials, "[redacted]")
			}
		}
	}
	return fmt.Errorf("%s", msg)
}
