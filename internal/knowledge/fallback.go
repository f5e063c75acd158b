package knowledge

// Fallback returns the hard-coded schema/exemplar corpus used when the
// schema_embeddings table can't be reached or hasn't been seeded yet.
// Covers the same tables and a representative spread of query shapes the
// live corpus is seeded with, so degraded mode can still synthesize SQL
// for the common cases.
func Fallback() []Snippet {
	return []Snippet{
		{Content: "Table teams(id bigint, code text, name text, logo_url text) — one row per franchise.", Similarity: 1},
		{Content: "Table players(id bigint, player_code text, team_id bigint references teams(id), name text, position text, season text) — one row per player per season.", Similarity: 1},
		{Content: "Table player_stats(id bigint, player_id bigint references players(id), season text, games_played int, points int, rebounds int, assists int, three_points_made int, pir int) — season aggregate totals per player. season is a code like 'E2025'.", Similarity: 1},
		{Content: "Exemplar: top N scorers in a season -> SELECT p.name, ps.points FROM player_stats ps JOIN players p ON p.id = ps.player_id WHERE ps.season = 'E2025' ORDER BY ps.points DESC LIMIT 10", Similarity: 1},
		{Content: "Exemplar: a team's roster for a season -> SELECT p.name, p.position FROM players p JOIN teams t ON t.id = p.team_id WHERE t.code = 'LAL' AND p.season = 'E2025'", Similarity: 1},
		{Content: "Exemplar: assist leaders on one team -> SELECT p.name, ps.assists FROM player_stats ps JOIN players p ON p.id = ps.player_id JOIN teams t ON t.id = p.team_id WHERE t.code = 'BOS' AND ps.season = 'E2025' ORDER BY ps.assists DESC LIMIT 5", Similarity: 1},
		{Content: "Exemplar: league-wide rebound total -> SELECT SUM(ps.rebounds) FROM player_stats ps WHERE ps.season = 'E2025'", Similarity: 1},
		{Content: "Exemplar: a single player's season line -> SELECT ps.points, ps.rebounds, ps.assists, ps.games_played FROM player_stats ps JOIN players p ON p.id = ps.player_id WHERE p.name ILIKE '%stephen curry%' AND ps.season = 'E2025'", Similarity: 1},
		{Content: "pir is the player's per-game efficiency index; a higher pir means a stronger all-round statistical season.", Similarity: 1},
	}
}
