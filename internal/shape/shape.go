// Package shape is the pipeline's result shaper (C11): it picks a
// visualization hint for a result set and rounds floating-point values to
// two decimal places for display, leaving nulls and non-numeric values
// untouched.
package shape

import (
	"math"

	"github.com/albapepper/scoracle-query/internal/model"
)

// Shape picks a Visualization for family/columns and rounds numeric
// values in rows to two decimal places.
func Shape(rows []map[string]any, columns []string, family model.QueryFamily) (model.Visualization, []map[string]any) {
	rounded := make([]map[string]any, len(rows))
	for i, row := range rows {
		r := make(map[string]any, len(row))
		for k, v := range row {
			r[k] = roundValue(v)
		}
		rounded[i] = r
	}
	return pickVisualization(rows, columns, family), rounded
}

func roundValue(v any) any {
	switch n := v.(type) {
	case float32:
		return math.Round(float64(n)*100) / 100
	case float64:
		return math.Round(n*100) / 100
	default:
		return v
	}
}

// pickVisualization chooses bar for a ranked single-metric list, line for a
// time/season series, and table as the default for everything else,
// including a result with only one row or more than one metric column.
func pickVisualization(rows []map[string]any, columns []string, family model.QueryFamily) model.Visualization {
	if len(rows) <= 1 {
		return model.VisualizationTable
	}

	numericCols := 0
	hasSeasonColumn := false
	for _, c := range columns {
		if c == "season" || c == "year" {
			hasSeasonColumn = true
		}
	}
	if len(rows) > 0 {
		for _, c := range columns {
			if c == "season" || c == "year" {
				continue
			}
			switch rows[0][c].(type) {
			case float32, float64, int, int32, int64:
				numericCols++
			}
		}
	}

	switch {
	case family == model.FamilyAggregateStats && numericCols == 1:
		return model.VisualizationBar
	case hasSeasonColumn && numericCols == 1:
		return model.VisualizationLine
	default:
		return model.VisualizationTable
	}
}
