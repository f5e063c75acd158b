package shape

import (
	"testing"

	"github.com/albapepper/scoracle-query/internal/model"
)

func TestShapeRoundsFloats(t *testing.T) {
	rows := []map[string]any{{"value": 12.3456}}
	_, out := Shape(rows, []string{"value"}, model.FamilyGeneralSQL)
	if out[0]["value"] != 12.35 {
		t.Errorf("value = %v, want 12.35", out[0]["value"])
	}
}

func TestShapePicksBarForRankedAggregate(t *testing.T) {
	rows := []map[string]any{
		{"name": "A", "value": 30.0},
		{"name": "B", "value": 25.0},
	}
	viz, _ := Shape(rows, []string{"name", "value"}, model.FamilyAggregateStats)
	if viz != model.VisualizationBar {
		t.Errorf("viz = %v, want bar", viz)
	}
}

func TestShapePicksTableForSingleRow(t *testing.T) {
	rows := []map[string]any{{"name": "A", "value": 30.0}}
	viz, _ := Shape(rows, []string{"name", "value"}, model.FamilyAggregateStats)
	if viz != model.VisualizationTable {
		t.Errorf("viz = %v, want table", viz)
	}
}

func TestShapePicksLineForSeasonSeries(t *testing.T) {
	rows := []map[string]any{
		{"season": "E2023", "points": 20.0},
		{"season": "E2024", "points": 22.0},
	}
	viz, _ := Shape(rows, []string{"season", "points"}, model.FamilyGeneralSQL)
	if viz != model.VisualizationLine {
		t.Errorf("viz = %v, want line", viz)
	}
}

func TestShapePreservesNull(t *testing.T) {
	rows := []map[string]any{{"value": nil}, {"value": nil}}
	_, out := Shape(rows, []string{"value"}, model.FamilyGeneralSQL)
	if out[0]["value"] != nil {
		t.Errorf("value = %v, want nil", out[0]["value"])
	}
}
