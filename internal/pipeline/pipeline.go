// Package pipeline is the orchestrator (C12) that drives one question
// through normalization, routing, synthesis or the deterministic path,
// safety validation, execution, and result shaping — producing exactly
// one ResultEnvelope, success or failure. Its shape (a struct holding
// every collaborator, one Answer/Execute entry point, step-by-step
// structured logging) is grounded on pgedge-rag-server's Orchestrator.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/albapepper/scoracle-query/internal/apperr"
	"github.com/albapepper/scoracle-query/internal/config"
	"github.com/albapepper/scoracle-query/internal/dbaccess"
	"github.com/albapepper/scoracle-query/internal/deterministic"
	"github.com/albapepper/scoracle-query/internal/knowledge"
	"github.com/albapepper/scoracle-query/internal/metrics"
	"github.com/albapepper/scoracle-query/internal/model"
	"github.com/albapepper/scoracle-query/internal/normalize"
	"github.com/albapepper/scoracle-query/internal/router"
	"github.com/albapepper/scoracle-query/internal/safety"
	"github.com/albapepper/scoracle-query/internal/shape"
	"github.com/albapepper/scoracle-query/internal/synthesize"
)

// Embedder is the subset of embedding.Provider the orchestrator needs.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// LLM is the subset of llm.Provider the orchestrator needs.
type LLM interface {
	Correct(ctx context.Context, text string) (string, error)
	SynthesizeSQL(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Orchestrator coordinates one end-to-end Answer call.
type Orchestrator struct {
	cfg      *config.Config
	embedder Embedder
	llm      LLM
	logger   *slog.Logger
}

// New builds an Orchestrator. logger defaults to slog.Default() if nil.
func New(cfg *config.Config, embedder Embedder, llmProvider LLM, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{cfg: cfg, embedder: embedder, llm: llmProvider, logger: logger}
}

// step runs fn, logging its duration and outcome and recording it in
// StepDuration, then recovers any panic into an INTERNAL apperr so one
// misbehaving step can't crash the whole pipeline.
func (o *Orchestrator) step(name string, fn func() error) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = apperr.New(apperr.KindInternal, "panic in step "+name)
		}
		outcome := "ok"
		if err != nil {
			outcome = "error"
			metrics.ErrorsTotal.WithLabelValues(string(apperr.KindOf(err))).Inc()
		}
		metrics.StepDuration.WithLabelValues(name, outcome).Observe(time.Since(start).Seconds())
		o.logger.Info("pipeline step", "step", name, "outcome", outcome, "duration_ms", time.Since(start).Milliseconds())
	}()
	return fn()
}

// Answer runs the full pipeline for one question and always returns a
// ResultEnvelope — errors are reported inside it, never as a Go error,
// so callers (cmd/query) have one uniform shape to render.
func (o *Orchestrator) Answer(ctx context.Context, question string, history []model.Turn) model.ResultEnvelope {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.PipelineBudget)
	defer cancel()

	fail := func(err error) model.ResultEnvelope {
		if ctx.Err() == context.DeadlineExceeded {
			err = apperr.Wrap(apperr.KindPipelineTimeout, "pipeline time budget exceeded", err)
		}
		return errorEnvelope(err)
	}

	normalized := question
	_ = o.step("normalize", func() error {
		normalized = normalize.Normalize(ctx, o.llm, question)
		return nil
	})

	family := router.Classify(normalized)
	metrics.FamilyTotal.WithLabelValues(string(family)).Inc()

	if family == model.FamilyUnsupported || family == model.FamilyGameLevel {
		return fail(apperr.New(apperr.KindUnsupportedQuery, "this question is outside what the assistant can answer from season statistics"))
	}

	if season, ok := router.ExtractSeason(normalized); ok && season != o.cfg.DefaultSeasonCode {
		return fail(apperr.New(apperr.KindUnsupportedQuery,
			"only the "+o.cfg.DefaultSeasonCode+" season is populated; "+season+" cannot be answered"))
	}

	sess, err := dbaccess.ReadOnlySession(ctx, o.cfg.DatabaseURL, o.cfg.StatementTimeout)
	if err != nil {
		return fail(err)
	}
	defer sess.Close(ctx)

	var sql string
	var args []any

	if family == model.FamilyAggregateStats {
		params := router.ExtractAggregateParams(normalized, o.cfg.DefaultSeasonCode)
		var buildErr error
		_ = o.step("deterministic_build", func() error {
			sql, args, buildErr = deterministic.BuildAggregateQuery(params, config.TeamsTable, config.PlayersTable, config.PlayerSeasonStatsTable)
			return buildErr
		})
		if buildErr != nil {
			family = model.FamilyGeneralSQL
		}
	}

	if family == model.FamilyGeneralSQL && sql == "" {
		var synthErr error
		_ = o.step("synthesize", func() error {
			sql, synthErr = o.synthesizeSQL(ctx, sess, normalized, history)
			return synthErr
		})
		if synthErr != nil {
			return fail(synthErr)
		}
		args = nil
	}

	var validated string
	validateErr := o.step("validate", func() error {
		v, err := safety.Validate(sql, o.cfg.RowCap)
		validated = v
		return err
	})
	if validateErr != nil {
		return fail(validateErr)
	}

	var result *dbaccess.ResultSet
	var truncated bool
	execErr := o.step("execute", func() error {
		r, t, err := sess.Execute(ctx, validated, args, o.cfg.RowCap)
		result, truncated = r, t
		return err
	})
	if execErr != nil {
		return fail(execErr)
	}

	var visualization model.Visualization
	var rows []map[string]any
	_ = o.step("shape", func() error {
		visualization, rows = shape.Shape(result.Rows, result.Columns, family)
		return nil
	})

	envelope := model.ResultEnvelope{
		SQL:           &validated,
		Data:          rows,
		Visualization: &visualization,
	}
	if truncated {
		msg := "results were truncated to the row cap"
		envelope.Message = &msg
	}
	return envelope
}

// synthesizeSQL retrieves schema context (falling back to the hard-coded
// corpus if retrieval fails) and asks C4's SQL role to produce one
// statement, parsing and returning it.
func (o *Orchestrator) synthesizeSQL(ctx context.Context, sess *dbaccess.Session, question string, history []model.Turn) (string, error) {
	vec, err := o.embedder.Embed(ctx, question)
	var snippets []knowledge.Snippet
	if err == nil {
		snippets, err = knowledge.Retrieve(ctx, sess, config.SchemaEmbeddingsTable, vec, o.cfg.RAGTopK, o.cfg.RAGMinSimilarity)
	}
	if err != nil || len(snippets) == 0 {
		snippets = knowledge.Fallback()
	}

	systemPrompt, userPrompt := synthesize.BuildPrompt(question, snippets, history)
	reply, err := o.llm.SynthesizeSQL(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", err
	}

	sql, err := synthesize.Parse(reply)
	if err != nil {
		// One corrective retry: tell the model its reply didn't parse and
		// ask again, per spec's single-retry-with-hint rule for synthesis.
		hint := userPrompt + "\n\nYour previous reply could not be parsed as a single SQL statement. Reply with exactly one SELECT statement and nothing else."
		reply, retryErr := o.llm.SynthesizeSQL(ctx, systemPrompt, hint)
		if retryErr != nil {
			return "", retryErr
		}
		return synthesize.Parse(reply)
	}
	return sql, nil
}

func errorEnvelope(err error) model.ResultEnvelope {
	kind := apperr.KindOf(err)
	if kind == "" {
		kind = apperr.KindInternal
	}
	msg := err.Error()
	if ae, ok := apperr.As(err); ok {
		msg = ae.Message
	}
	kindStr := string(kind)
	return model.ResultEnvelope{Error: &kindStr, Message: &msg}
}
