// Package llm is the pipeline's connection to the chat-completion provider
// (C4). It shares one anthropic-sdk-go client between the two roles the
// pipeline needs — correcting user text (C6) and synthesizing SQL (C8) —
// grounded on claude-ops's Messages.New usage, generalized from a one-shot
// summarizer call to a resilient, role-aware client.
package llm

import (
	"context"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sethvargo/go-retry"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/albapepper/scoracle-query/internal/apperr"
	"github.com/albapepper/scoracle-query/internal/provider"
)

const correctSystemPrompt = "You correct spelling, grammar, and basketball player/team name errors in a user's question without changing its meaning or intent. Reply with only the corrected question, nothing else."

// Config configures the Anthropic client and the two model roles this
// pipeline uses it for.
type Config struct {
	APIKey       string
	ModelCorrect string
	ModelSQL     string
	CallTimeout  time.Duration
}

// Provider issues chat-completion calls for both pipeline roles.
type Provider struct {
	client       anthropic.Client
	modelCorrect string
	modelSQL     string
	callTimeout  time.Duration
	breaker      *gobreaker.CircuitBreaker
	limiter      *rate.Limiter
	retry        provider.RetryConfig
}

// New builds a Provider sharing one underlying HTTP client across roles.
func New(cfg Config) *Provider {
	timeout := cfg.CallTimeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	return &Provider{
		client:       anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		modelCorrect: cfg.ModelCorrect,
		modelSQL:     cfg.ModelSQL,
		callTimeout:  timeout,
		breaker:      provider.NewBreaker("llm"),
		limiter:      rate.NewLimiter(rate.Limit(3), 10),
		retry:        provider.RetryConfig{MaxRetries: 2, BaseDelay: 300 * time.Millisecond},
	}
}

// Correct asks the low-cost model to fix spelling/grammar/name errors in a
// user's question, preserving its intent (C6).
func (p *Provider) Correct(ctx context.Context, text string) (string, error) {
	return p.complete(ctx, p.modelCorrect, correctSystemPrompt, text, 300, 0.2)
}

// SynthesizeSQL asks the stronger model to turn a grounded prompt (built by
// C8 from retrieved schema context) into a single SQL statement.
func (p *Provider) SynthesizeSQL(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return p.complete(ctx, p.modelSQL, systemPrompt, userPrompt, 1024, 0.0)
}

func (p *Provider) complete(ctx context.Context, model, system, user string, maxTokens int64, temperature float64) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", apperr.Wrap(apperr.KindLLMUnavailable, "rate limit wait", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()

	var out string
	_, err := p.breaker.Execute(func() (any, error) {
		return nil, provider.WithRetry(callCtx, p.retry, func(ctx context.Context) error {
			msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
				Model:       anthropic.Model(model),
				MaxTokens:   maxTokens,
				Temperature: anthropic.Float(temperature),
				System: []anthropic.TextBlockParam{
					{Text: system},
				},
				Messages: []anthropic.MessageParam{
					anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
				},
			})
			if err != nil {
				appErr, retryable := classify(err)
				if retryable {
					return retry.RetryableError(appErr)
				}
				return appErr
			}
			for _, block := range msg.Content {
				if block.Type == "text" {
					out = block.Text
					return nil
				}
			}
			return apperr.New(apperr.KindLLMInvalidOutput, "no text block in response")
		})
	})
	if err != nil {
		return "", toAppErr(err)
	}
	return out, nil
}

// classify tags err with a Kind and reports whether it's worth retrying.
// Only rate limits, timeouts, and anything that isn't a recognized 4xx are
// retryable — a genuine 4xx other than 429 (bad request, auth, not found)
// means retrying would just fail the same way again.
func classify(err error) (*apperr.Error, bool) {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"), strings.Contains(msg, "rate limit"), strings.Contains(msg, "overloaded"):
		return apperr.Wrap(apperr.KindLLMRateLimit, "llm provider rate limited", err), true
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline"):
		return apperr.Wrap(apperr.KindLLMTimeout, "llm provider timed out", err), true
	case isNonRetryableClientError(msg):
		return apperr.Wrap(apperr.KindLLMUnavailable, "llm provider rejected request", err), false
	default:
		return apperr.Wrap(apperr.KindLLMUnavailable, "llm provider call failed", err), true
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
		return apperr.Wrap(apperr.KindLLMUnavailable, "llm circuit open", err)
	}
	if err == context.DeadlineExceeded {
		return apperr.Wrap(apperr.KindLLMTimeout, "llm call deadline exceeded", err)
	}
	return apperr.Wrap(apperr.KindLLMUnavailable, "llm provider call failed", err)
}
