package embedding

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
		{"rate limited", errors.New("429 Too Many Requests"), apperr.KindLLMRateLimit},
		{"timeout", errors.New("context deadline exceeded"), apperr.KindLLMTimeout},
		{"other", errors.New("connection reset by peer"), apperr.KindEmbeddingUnavailable},
		{"bad request", errors.New("400 Bad Request"), apperr.KindEmbeddingUnavailable},
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
		{"rate limited", errors.New("429 Too Many Requests"), true},
		{"timeout", errors.New("context deadline exceeded"), true},
		{"transport failure", errors.New("connection reset by peer"), true},
		{"bad request", errors.New("400 Bad Request"), false},
		{"unauthorized", errors.New("401 Unauthorized"), false},
		{"not found", errors.New("404 Not Found"), false},
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
