// Package router is the pipeline's query router (C7): pure, dependency-free
// functions that classify a normalized question into one of four families
// and, for AGGREGATE_STATS, extract its structured parameters. Routing
// never fails — an ambiguous question falls through to GENERAL_SQL, which
// C8 can still attempt to synthesize.
package router

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/albapepper/scoracle-query/internal/model"
)

var unsupportedTerms = []string{
	"play-by-play", "playbyplay", "shot chart", "shot location", "video", "highlight",
	"predict", "forecast", "odds", "betting line", "injury report", "trade rumor",
}

var aggregateStatWords = map[string]string{
	"point":     "points",
	"points":    "points",
	"scor":      "points",
	"rebound":   "rebounds",
	"assist":    "assists",
	"three":     "three_points_made",
	"3-point":   "three_points_made",
	"3 point":   "three_points_made",
	"pir":       "pir",
	"efficienc": "pir",
}

var gameLevelTerms = []string{
	"last game", "box score", "yesterday's game", "this game", "that game", "game log",
}

var topNPattern = regexp.MustCompile(`\btop\s+(\d+)\b`)
var teamCodePattern = regexp.MustCompile(`\b([A-Z]{2,4})\b`)

// Classify assigns a query family to a normalized question. It is pure and
// never errors: every input maps to exactly one family.
func Classify(question string) model.QueryFamily {
	normalized := normalizeForMatch(question)

	for _, term := range unsupportedTerms {
		if strings.Contains(normalized, term) {
			return model.FamilyUnsupported
		}
	}
	for _, term := range gameLevelTerms {
		if strings.Contains(normalized, term) {
			return model.FamilyGameLevel
		}
	}
	for word := range aggregateStatWords {
		if strings.Contains(normalized, word) {
			return model.FamilyAggregateStats
		}
	}
	return model.FamilyGeneralSQL
}

// defaultTopN and the [minTopN, maxTopN] range bound the "top N" count:
// only an integer written right after "top" is read as the count, and one
// outside 1..100 falls back to the default instead of being clamped to an
// edge. Other integers in the question are never taken as the count.
const (
	defaultTopN = 10
	minTopN     = 1
	maxTopN     = 100
)

// ExtractAggregateParams pulls the stat, team code, and "top N" count out
// of a normalized AGGREGATE_STATS question. Fields it can't find are left
// at their zero value. Season is always defaultSeason: only the current
// season is populated (spec §9), so a season named in the question is
// handled by ExtractSeason and the UNSUPPORTED_QUERY short-circuit in the
// orchestrator, never by overriding Season here.
func ExtractAggregateParams(question, defaultSeason string) model.AggregateParams {
	normalized := normalizeForMatch(question)

	params := model.AggregateParams{
		Season: defaultSeason,
		TopN:   defaultTopN,
	}

	for word, column := range aggregateStatWords {
		if strings.Contains(normalized, word) {
			params.Stat = column
			break
		}
	}

	if m := topNPattern.FindStringSubmatch(normalized); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= minTopN && n <= maxTopN {
			params.TopN = n
		}
	}

	if m := teamCodePattern.FindStringSubmatch(question); m != nil {
		params.TeamCode = strings.ToUpper(m[1])
	}

	return params
}

var seasonPattern = regexp.MustCompile(`\b(19|20)(\d{2})\b`)

// ExtractSeason returns the season code explicitly named in question, if
// any, regardless of query family — used by the orchestrator to route a
// question about a season other than the current one to UNSUPPORTED_QUERY
// per spec §9, since only the current season is populated.
func ExtractSeason(question string) (string, bool) {
	if m := seasonPattern.FindString(normalizeForMatch(question)); m != "" {
		return "E" + m, true
	}
	return "", false
}

// normalizeForMatch lowercases and strips diacritics so keyword matching
// is accent- and case-insensitive (e.g. "Dončić" and "doncic" both match).
func normalizeForMatch(s string) string {
	lower := strings.ToLower(s)
	var b strings.Builder
	iter := norm.NFD.String(lower)
	for _, r := range iter {
		if r >= 0x0300 && r <= 0x036f { // combining diacritical marks
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
