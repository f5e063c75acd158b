// Package embedding is the pipeline's connection to the text-embedding
// provider (C3). It wraps tmc/langchaingo's OpenAI-compatible embedder —
// the same dependency jordigilh-kubernaut pulls in for retrieval — behind
// a circuit breaker and rate limiter, following the resilience shape in
// internal/provider.
package embedding

import (
	"context"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sony/gobreaker"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"

	"github.com/albapepper/scoracle-query/internal/apperr"
	"github.com/albapepper/scoracle-query/internal/cache"
	"github.com/albapepper/scoracle-query/internal/provider"
)

// Provider embeds query and schema text into fixed-dimension vectors.
type Provider struct {
	embedder embeddings.Embedder
	breaker  *gobreaker.CircuitBreaker
	limiter  *rate.Limiter
	dim      cache.OnceInt
	retry    provider.RetryConfig
}

// Config configures the embedding provider's upstream client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// New builds a Provider. A burst-of-5, 2-per-second rate limiter and a
// 3-consecutive-failure circuit breaker guard every outbound call.
func New(cfg Config) (*Provider, error) {
	llm, err := openai.New(
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
		openai.WithEmbeddingModel(cfg.Model),
		openai.WithBaseURL(cfg.BaseURL),
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindEmbeddingUnavailable, "construct embedding client", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindEmbeddingUnavailable, "construct embedder", err)
	}
	return &Provider{
		embedder: embedder,
		breaker:  provider.NewBreaker("embedding"),
		limiter:  rate.NewLimiter(rate.Limit(2), 5),
		retry:    provider.RetryConfig{MaxRetries: 2, BaseDelay: 200 * time.Millisecond},
	}, nil
}

// Embed returns the embedding vector for a single piece of text.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, apperr.Wrap(apperr.KindEmbeddingUnavailable, "rate limit wait", err)
	}

	var vec []float32
	_, err := p.breaker.Execute(func() (any, error) {
		return nil, provider.WithRetry(ctx, p.retry, func(ctx context.Context) error {
			vecs, err := p.embedder.EmbedDocuments(ctx, []string{text})
			if err != nil {
				appErr, retryable := classify(err)
				if retryable {
					return retry.RetryableError(appErr)
				}
				return appErr
			}
			if len(vecs) == 0 {
				return apperr.New(apperr.KindEmbeddingUnavailable, "embedding provider returned no vectors")
			}
			vec = vecs[0]
			return nil
		})
	})
	if err != nil {
		return nil, toAppErr(err)
	}
	p.dim.Set(len(vec))
	return vec, nil
}

// Dimension reports the embedding vector width, discovering it from a
// short probe call the first time it's needed and caching it for the
// lifetime of the process.
func (p *Provider) Dimension(ctx context.Context) (int, error) {
	if d, ok := p.dim.Get(); ok {
		return d, nil
	}
	vec, err := p.Embed(ctx, "dimension probe")
	if err != nil {
		return 0, err
	}
	return len(vec), nil
}

// classify tags err with a Kind and reports whether it's worth retrying.
// Only rate limits, timeouts, and anything that isn't a recognized 4xx are
// retryable — a genuine 4xx other than 429 (bad request, auth, not found)
// means retrying would just fail the same way again.
func classify(err error) (*apperr.Error, bool) {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"), strings.Contains(msg, "rate limit"):
		return apperr.Wrap(apperr.KindLLMRateLimit, "embedding provider rate limited", err), true
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline"):
		return apperr.Wrap(apperr.KindLLMTimeout, "embedding provider timed out", err), true
	case isNonRetryableClientError(msg):
		return apperr.Wrap(apperr.KindEmbeddingUnavailable, "embedding provider rejected request", err), false
	default:
		return apperr.Wrap(apperr.KindEmbeddingUnavailable, "embedding provider call failed", err), true
	}
}

// isNonRetryableClientError reports whether msg names an HTTP 4xx status
// other than 429 (rate limit, handled separately and retryable).
func isNonRetryableClientError(msg string) bool {
	for _, code := range []string{"400", "401", "403", "404", "405", "409", "410", "422"} {
		if strings.Contains(msg, code) {
			return true
		}
	}
	return false
}

func toAppErr(err error) error {
	if err == nil {
		return nil
	}
	if ae, ok := apperr.As(err); ok {
		return ae
	}
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return apperr.Wrap(apperr.KindEmbeddingUnavailable, "embedding circuit open", err)
	}
	return apperr.Wrap(apperr.KindEmbeddingUnavailable, "embedding provider call failed", err)
}
