package llm

import (
	"errors"
	"testing"

	"github.com/albapepper/scoracle-query/internal/apperr"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want apperr.Kind
	}{
		{"rate limited", errors.New("429 rate limit exceeded"), apperr.KindLLMRateLimit},
		{"overloaded", errors.New("overloaded_error"), apperr.KindLLMRateLimit},
		{"timeout", errors.New("context deadline exceeded"), apperr.KindLLMTimeout},
		{"other", errors.New("internal server error"), apperr.KindLLMUnavailable},
		{"bad request", errors.New("400 invalid request"), apperr.KindLLMUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appErr, _ := classify(tc.err)
			if got := apperr.KindOf(appErr); got != tc.want {
				t.Errorf("classify(%v) kind = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestClassifyRetryability(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limited", errors.New("429 rate limit exceeded"), true},
		{"overloaded", errors.New("overloaded_error"), true},
		{"timeout", errors.New("context deadline exceeded"), true},
		{"internal server error", errors.New("internal server error"), true},
		{"bad request", errors.New("400 invalid request"), false},
		{"unauthorized", errors.New("401 unauthorized"), false},
		{"not found", errors.New("404 model not found"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, retryable := classify(tc.err)
			if retryable != tc.want {
				t.Errorf("classify(%v) retryable = %v, want %v", tc.err, retryable, tc.want)
			}
		})
	}
}
