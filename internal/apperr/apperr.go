// Package apperr provides the tagged error values the pipeline pattern
// matches on, instead of sniffing error strings across layer boundaries.
package apperr

import (
	"github.com/go-faster/errors"
)

// Kind is one of the short error codes surfaced in a ResultEnvelope's
// error field (spec §7).
type Kind string

const (
	KindUnsupportedQuery    Kind = "UNSUPPORTED_QUERY"
	KindLLMUnavailable      Kind = "LLM_UNAVAILABLE"
	KindLLMRateLimit        Kind = "LLM_RATE_LIMIT"
	KindLLMTimeout          Kind = "LLM_TIMEOUT"
	KindLLMInvalidOutput    Kind = "LLM_INVALID_OUTPUT"
	KindEmbeddingUnavailable Kind = "EMBEDDING_UNAVAILABLE"
	KindSQLUnsafe           Kind = "SQL_UNSAFE"
	KindDBUnreachable       Kind = "DB_UNREACHABLE"
	KindDBTimeout           Kind = "DB_TIMEOUT"
	KindDBExecError         Kind = "DB_EXEC_ERROR"
	KindPipelineTimeout     Kind = "PIPELINE_TIMEOUT"
	KindInternal            Kind = "INTERNAL"
)

// Error is a tagged application error: a Kind plus a human sentence and an
// optional wrapped cause. Only Kind and Message ever reach the caller —
// the wrapped cause is for logs.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.cause.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a tagged error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap tags an existing error with a Kind, preserving it as the cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: errors.Wrap(cause, message)}
}

// As extracts the tagged *Error from err, if any.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, else "".
func KindOf(err error) Kind {
	if ae, ok := As(err); ok {
		return ae.Kind
	}
	return ""
}
