// Package knowledge is the pipeline's schema knowledge base (C5): the
// retrieval-augmented-generation context fed into C8's SQL synthesis
// prompt. Retrieve finds the k nearest schema/exemplar snippets by
// pgvector cosine distance; Fallback serves a hard-coded corpus when the
// embeddings table is empty or unreachable.
package knowledge

import (
	"context"
	"fmt"
	"time"

	"github.com/albapepper/scoracle-query/internal/apperr"
	"github.com/albapepper/scoracle-query/internal/cache"
	"github.com/albapepper/scoracle-query/internal/dbaccess"
	"github.com/albapepper/scoracle-query/internal/metrics"
)

// Snippet is one retrieved piece of schema or exemplar text.
type Snippet struct {
	Content    string
	Similarity float64
}

// retrievalCacheTTL bounds how long an identical retrieval is served from
// memory instead of re-querying pgvector — short enough that a newly
// seeded corpus entry shows up quickly, long enough to absorb repeated or
// near-identical questions within one burst of traffic.
const retrievalCacheTTL = 5 * time.Minute

var retrievalCache = cache.NewTTL()

// Retrieve finds the k schema/exemplar snippets whose embedding is
// closest to queryVector by cosine distance, above minSimilarity. pgvector's
// <=> operator returns cosine *distance*; similarity is 1 - distance. Ties
// in similarity break on row id, so repeated retrievals are deterministic.
// Results are memoized in an in-memory TTL cache keyed by the query vector,
// since the same question (or a paraphrase embedding to the same vector)
// is common within one session.
func Retrieve(ctx context.Context, sess *dbaccess.Session, tableName string, queryVector []float32, k int, minSimilarity float64) ([]Snippet, error) {
	vecLiteral := vectorLiteral(queryVector)
	cacheKey := fmt.Sprintf("%s|%s|%d|%g", tableName, vecLiteral, k, minSimilarity)
	if cached, ok := retrievalCache.Get(cacheKey); ok {
		return cached.([]Snippet), nil
	}

	sql := fmt.Sprintf(
		`SELECT content, 1 - (embedding <=> $1) AS similarity
		 FROM %s
		 WHERE 1 - (embedding <=> $1) >= $2
		 ORDER BY embedding <=> $1, id
		 LIMIT $3`,
		tableName,
	)
	result, _, err := sess.Execute(ctx, sql, []any{vecLiteral, minSimilarity, k}, k)
	if err != nil {
		return nil, err
	}

	snippets := make([]Snippet, 0, len(result.Rows))
	for _, row := range result.Rows {
		content, _ := row["content"].(string)
		similarity, _ := row["similarity"].(float64)
		snippets = append(snippets, Snippet{Content: content, Similarity: similarity})
	}
	if len(snippets) == 0 {
		metrics.RAGFallbackTotal.Inc()
		return nil, apperr.New(apperr.KindInternal, "no schema snippets retrieved")
	}
	retrievalCache.Set(cacheKey, snippets, retrievalCacheTTL)
	return snippets, nil
}

// vectorLiteral renders a float32 vector as the pgvector text literal
// "[0.1,0.2,...]" pgx passes through as a plain string parameter — this
// pipeline takes no dependency on a dedicated pgvector driver package,
// since the extension's wire format is plain text.
func vectorLiteral(v []float32) string {
	s := "["
	for i, f := range v {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf("%g", f)
	}
	return s + "]"
}
