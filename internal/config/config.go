// Package config provides centralized configuration loaded from environment
// variables. Shared by cmd/query and cmd/seed.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// --------------------------------------------------------------------------
// Table names — single source of truth, matches the scoracle-data schema
// this pipeline reads (read-only) and the schema_embeddings table it owns.
// --------------------------------------------------------------------------

const (
	TeamsTable             = "teams"
	PlayersTable           = "players"
	PlayerSeasonStatsTable = "player_stats"
	SchemaEmbeddingsTable  = "schema_embeddings"
)

// Config struct — populated from environment variables.
type Config struct {
	// Database (C2)
	DatabaseURL string `validate:"required"`

	// Embedding provider (C3)
	EmbeddingAPIKey string
	EmbeddingModel  string `validate:"required"`
	EmbeddingURL    string `validate:"required"`

	// LLM provider (C4)
	LLMAPIKey       string
	LLMModelCorrect string `validate:"required"`
	LLMModelSQL     string `validate:"required"`

	// Limits (C2, C9, C5, C12)
	RowCap            int           `validate:"gte=1,lte=100000"`
	StatementTimeout  time.Duration `validate:"required"`
	PipelineBudget    time.Duration `validate:"required"`
	RAGTopK           int           `validate:"gte=1,lte=100"`
	RAGMinSimilarity  float64       `validate:"gte=0,lte=1"`
	DefaultSeasonCode string        `validate:"required"`

	// Conversation history window (Turn, §3)
	HistoryTurns int `validate:"gte=0,lte=50"`

	LogLevel string
}

// Load reads configuration from environment variables with sensible
// defaults, then validates it.
func Load() (*Config, error) {
	dbURL := envOr("DATABASE_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	cfg := &Config{
		DatabaseURL: dbURL,

		EmbeddingAPIKey: envOr("EMBEDDING_API_KEY", ""),
		EmbeddingModel:  envOr("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingURL:    envOr("EMBEDDING_BASE_URL", "https://api.openai.com/v1"),

		LLMAPIKey:       envOr("LLM_API_KEY", ""),
		LLMModelCorrect: envOr("LLM_MODEL_CORRECT", "claude-haiku-4-5"),
		LLMModelSQL:     envOr("LLM_MODEL_SQL", "claude-sonnet-4-5"),

		RowCap:            envInt("ROW_CAP", 1000),
		StatementTimeout:  time.Duration(envInt("STATEMENT_TIMEOUT_S", 5)) * time.Second,
		PipelineBudget:    time.Duration(envInt("PIPELINE_BUDGET_S", 30)) * time.Second,
		RAGTopK:           envInt("RAG_TOP_K", 10),
		RAGMinSimilarity:  envFloat("RAG_MIN_SIMILARITY", 0.3),
		DefaultSeasonCode: envOr("DEFAULT_SEASON_CODE", "E2025"),

		HistoryTurns: envInt("HISTORY_TURNS", 6),

		LogLevel: envOr("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

var validate = validator.New()

// Validate checks struct tags on the loaded config. Kept separate from
// Load so tests can build a Config by hand and still validate it.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// SeasonCode maps a bare year to the league's season-code convention
// (e.g. 2025 -> "E2025"), matching scoracle-data's SportRegistry style.
func SeasonCode(year int) string {
	return fmt.Sprintf("E%d", year)
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
