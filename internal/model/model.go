// Package model holds the domain entities the pipeline reads (never
// writes) plus the ephemeral types that live for one request.
package model

import "time"

// Team is owned by the external ingestion pipeline; the query pipeline
// only ever reads it.
type Team struct {
	ID      int64
	Code    string
	Name    string
	LogoURL string
}

// Player is owned by the external ingestion pipeline.
type Player struct {
	ID         int64
	PlayerCode string
	TeamID     int64
	Name       string
	Position   string
	Season     string
}

// PlayerSeasonStats is owned by the external ingestion pipeline.
type PlayerSeasonStats struct {
	ID              int64
	PlayerID        int64
	Season          string
	GamesPlayed     int
	Points          int
	Rebounds        int
	Assists         int
	ThreePointsMade int
	PIR             int
}

// SchemaEmbedding is the one table this module owns: schema descriptions
// and SQL exemplars, stored as text plus a fixed-dimension vector.
type SchemaEmbedding struct {
	ID        int64
	Content   string
	Embedding []float32
}

// Turn is one message in the conversation history passed into Answer.
// Only user/assistant text is ever used, never tool output.
type Turn struct {
	Role    string // "user" | "assistant"
	Content string
}

// QueryFamily is one of the four router classes.
type QueryFamily string

const (
	FamilyAggregateStats QueryFamily = "AGGREGATE_STATS"
	FamilyGameLevel      QueryFamily = "GAME_LEVEL"
	FamilyGeneralSQL     QueryFamily = "GENERAL_SQL"
	FamilyUnsupported    QueryFamily = "UNSUPPORTED"
)

// AggregateParams is the structured parameter set extracted for the
// AGGREGATE_STATS family.
type AggregateParams struct {
	Season   string
	Stat     string // column name, chosen from a fixed whitelist
	TopN     int
	TeamCode string // empty = no team filter
}

// QueryPlan is what the router produces for one request.
type QueryPlan struct {
	Family          QueryFamily
	CanonicalQuery  string
	AggregateParams AggregateParams
	UnsupportedWhy  string // human explanation when Family is UNSUPPORTED/GAME_LEVEL
}

// Visualization is the shape C11 picks for a result set.
type Visualization string

const (
	VisualizationBar   Visualization = "bar"
	VisualizationLine  Visualization = "line"
	VisualizationTable Visualization = "table"
)

// ResultEnvelope is the pipeline's single wire-format output.
type ResultEnvelope struct {
	SQL           *string          `json:"sql"`
	Data          []map[string]any `json:"data"`
	Visualization *Visualization   `json:"visualization"`
	Error         *string          `json:"error"`
	Message       *string          `json:"message"`
}

// RequestMeta carries per-request tracing data through the orchestrator.
type RequestMeta struct {
	RequestID string
	StartedAt time.Time
}
