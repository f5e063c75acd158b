// Package deterministic is the pipeline's deterministic path (C10): a
// fixed, parameterized query builder for the AGGREGATE_STATS family that
// never touches the LLM. It still passes through C9 before execution —
// the whitelist here bounds what can be asked, not what's trusted.
package deterministic

import (
	"fmt"

	"github.com/albapepper/scoracle-query/internal/apperr"
	"github.com/albapepper/scoracle-query/internal/model"
)

// defaultTopN and the [minTopN, maxTopN] clamp mirror router's spec §4.6/§8
// rule: a TopN outside [1, 100] falls back to the default of 10 rather
// than being passed through to LIMIT unclamped. Enforced again here, not
// just at extraction, since BuildAggregateQuery has no other caller to
// rely on for that guarantee.
const (
	defaultTopN = 10
	minTopN     = 1
	maxTopN     = 100
)

// statColumns whitelists the exact player_stats columns the deterministic
// path may select by, so a router-extracted Stat can never be used to
// reference an arbitrary column.
var statColumns = map[string]string{
	"points":            "ps.points",
	"rebounds":          "ps.rebounds",
	"assists":           "ps.assists",
	"three_points_made": "ps.three_points_made",
	"pir":               "ps.pir",
}

// BuildAggregateQuery renders a parameterized SELECT for an AGGREGATE_STATS
// query plan, using only whitelisted columns and bound arguments — no
// value from params is ever interpolated directly into the SQL text.
func BuildAggregateQuery(params model.AggregateParams, teamsTable, playersTable, statsTable string) (string, []any, error) {
	column, ok := statColumns[params.Stat]
	if !ok {
		return "", nil, apperr.New(apperr.KindUnsupportedQuery, "unrecognized aggregate stat: "+params.Stat)
	}
	if params.Season == "" {
		return "", nil, apperr.New(apperr.KindUnsupportedQuery, "no season specified")
	}
	topN := params.TopN
	if topN < minTopN || topN > maxTopN {
		topN = defaultTopN
	}

	args := []any{params.Season}
	sql := fmt.Sprintf(
		`SELECT p.name, t.code AS team_code, %s AS value
		 FROM %s ps
		 JOIN %s p ON p.id = ps.player_id
		 JOIN %s t ON t.id = p.team_id
		 WHERE ps.season = $1`,
		column, statsTable, playersTable, teamsTable,
	)

	if params.TeamCode != "" {
		args = append(args, params.TeamCode)
		sql += fmt.Sprintf(" AND t.code = $%d", len(args))
	}

	args = append(args, topN)
	sql += fmt.Sprintf(" ORDER BY %s DESC LIMIT $%d", column, len(args))

	return sql, args, nil
}
