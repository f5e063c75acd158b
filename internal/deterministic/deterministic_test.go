package deterministic

import (
	"strings"
	"testing"

	"github.com/albapepper/scoracle-query/internal/apperr"
	"github.com/albapepper/scoracle-query/internal/model"
)

func TestBuildAggregateQuery(t *testing.T) {
	sql, args, err := BuildAggregateQuery(model.AggregateParams{
		Season: "E2025", Stat: "points", TopN: 10, TeamCode: "LAL",
	}, "teams", "players", "player_stats")
	if err != nil {
		t.Fatalf("BuildAggregateQuery() error = %v", err)
	}
	if !strings.Contains(sql, "ps.points AS value") {
		t.Errorf("sql missing stat column: %s", sql)
	}
	if !strings.Contains(sql, "t.code = $2") {
		t.Errorf("sql missing team filter: %s", sql)
	}
	if len(args) != 3 {
		t.Fatalf("args = %v, want 3 elements", args)
	}
	if args[0] != "E2025" || args[1] != "LAL" || args[2] != 10 {
		t.Errorf("args = %v", args)
	}
}

func TestBuildAggregateQueryNoTeamFilter(t *testing.T) {
	sql, args, err := BuildAggregateQuery(model.AggregateParams{
		Season: "E2025", Stat: "assists", TopN: 5,
	}, "teams", "players", "player_stats")
	if err != nil {
		t.Fatalf("BuildAggregateQuery() error = %v", err)
	}
	if strings.Contains(sql, "t.code = ") {
		t.Errorf("expected no team filter in sql: %s", sql)
	}
	if len(args) != 2 {
		t.Fatalf("args = %v, want 2 elements", args)
	}
}

func TestBuildAggregateQueryRejectsUnknownStat(t *testing.T) {
	_, _, err := BuildAggregateQuery(model.AggregateParams{Season: "E2025", Stat: "turnovers"}, "teams", "players", "player_stats")
	if apperr.KindOf(err) != apperr.KindUnsupportedQuery {
		t.Errorf("kind = %v, want %v", apperr.KindOf(err), apperr.KindUnsupportedQuery)
	}
}

func TestBuildAggregateQueryRequiresSeason(t *testing.T) {
	_, _, err := BuildAggregateQuery(model.AggregateParams{Stat: "points"}, "teams", "players", "player_stats")
	if apperr.KindOf(err) != apperr.KindUnsupportedQuery {
		t.Errorf("kind = %v, want %v", apperr.KindOf(err), apperr.KindUnsupportedQuery)
	}
}

func TestBuildAggregateQueryClampsOutOfRangeTopN(t *testing.T) {
	_, args, err := BuildAggregateQuery(model.AggregateParams{Season: "E2025", Stat: "points", TopN: 500}, "teams", "players", "player_stats")
	if err != nil {
		t.Fatalf("BuildAggregateQuery() error = %v", err)
	}
	if got := args[len(args)-1]; got != defaultTopN {
		t.Errorf("LIMIT arg = %v, want fallback to default %d", got, defaultTopN)
	}
}

func TestBuildAggregateQueryClampsNonPositiveTopN(t *testing.T) {
	_, args, err := BuildAggregateQuery(model.AggregateParams{Season: "E2025", Stat: "points", TopN: 0}, "teams", "players", "player_stats")
	if err != nil {
		t.Fatalf("BuildAggregateQuery() error = %v", err)
	}
	if got := args[len(args)-1]; got != defaultTopN {
		t.Errorf("LIMIT arg = %v, want fallback to default %d", got, defaultTopN)
	}
}
