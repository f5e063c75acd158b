package router

import (
	"testing"

	"github.com/albapepper/scoracle-query/internal/model"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		question string
		want     model.QueryFamily
	}{
		{"who led the league in points last season", model.FamilyAggregateStats},
		{"top 5 rebounders in E2025", model.FamilyAggregateStats},
		{"show me the box score from last game", model.FamilyGameLevel},
		{"show me the shot chart for that game", model.FamilyUnsupported},
		{"list every team and their logo url", model.FamilyGeneralSQL},
	}
	for _, tc := range cases {
		t.Run(tc.question, func(t *testing.T) {
			if got := Classify(tc.question); got != tc.want {
				t.Errorf("Classify(%q) = %v, want %v", tc.question, got, tc.want)
			}
		})
	}
}

func TestExtractAggregateParams(t *testing.T) {
	params := ExtractAggregateParams("top 10 scorers on LAL", "E2025")
	if params.Stat != "points" {
		t.Errorf("Stat = %q, want points", params.Stat)
	}
	if params.TopN != 10 {
		t.Errorf("TopN = %d, want 10", params.TopN)
	}
	if params.TeamCode != "LAL" {
		t.Errorf("TeamCode = %q, want LAL", params.TeamCode)
	}
	if params.Season != "E2025" {
		t.Errorf("Season = %q, want default E2025 (only the current season is ever populated)", params.Season)
	}
}

func TestExtractAggregateParamsDefaultsTopN(t *testing.T) {
	params := ExtractAggregateParams("who has the most assists", "E2025")
	if params.TopN != defaultTopN {
		t.Errorf("TopN = %d, want default %d", params.TopN, defaultTopN)
	}
	if params.Stat != "assists" {
		t.Errorf("Stat = %q, want assists", params.Stat)
	}
}

func TestExtractAggregateParamsClampsOutOfRangeTopN(t *testing.T) {
	params := ExtractAggregateParams("top 500 scorers", "E2025")
	if params.TopN != defaultTopN {
		t.Errorf("TopN = %d, want fallback to default %d for an out-of-range value", params.TopN, defaultTopN)
	}
}

func TestExtractAggregateParamsClampsZeroTopN(t *testing.T) {
	params := ExtractAggregateParams("top 0 scorers", "E2025")
	if params.TopN != defaultTopN {
		t.Errorf("TopN = %d, want fallback to default %d", params.TopN, defaultTopN)
	}
}

func TestExtractAggregateParamsAcceptsBoundaryTopN(t *testing.T) {
	if got := ExtractAggregateParams("top 100 scorers", "E2025").TopN; got != 100 {
		t.Errorf("TopN = %d, want 100", got)
	}
	if got := ExtractAggregateParams("top 1 scorer", "E2025").TopN; got != 1 {
		t.Errorf("TopN = %d, want 1", got)
	}
}

func TestClassifyDiacriticInsensitive(t *testing.T) {
	got := Classify("how many points has Dončić scored")
	if got != model.FamilyAggregateStats {
		t.Errorf("Classify with diacritic = %v, want AGGREGATE_STATS", got)
	}
}

func TestExtractSeason(t *testing.T) {
	season, ok := ExtractSeason("who led the league in points in 2019")
	if !ok || season != "E2019" {
		t.Errorf("ExtractSeason = (%q, %v), want (E2019, true)", season, ok)
	}
}

func TestExtractSeasonAbsent(t *testing.T) {
	if _, ok := ExtractSeason("who led the league in points"); ok {
		t.Error("ExtractSeason found a season where none was named")
	}
}
