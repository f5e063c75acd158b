// Package seed is the one-shot job that (re)populates schema_embeddings
// from a text corpus. Its worker-pool shape is grounded on scoracle-data's
// fixture.ProcessPending: a channel of work handed to N goroutines,
// results collected under a mutex — generalized here from "seed one
// fixture per group" to "embed one corpus entry per worker".
package seed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/albapepper/scoracle-query/internal/dbaccess"
)

// Embedder is the subset of embedding.Provider the seeder needs.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Result summarizes one seeding run.
type Result struct {
	Entries   int
	Inserted  int
	Unchanged int
	Errors    []string
	Duration  time.Duration
}

// Run embeds every entry in corpus and upserts it into tableName, keyed by
// the SHA-256 hash of its content so re-running the seeder against
// unchanged text is a no-op.
func Run(ctx context.Context, sess *dbaccess.Session, tableName string, embedder Embedder, corpus []string, workers int, logger *slog.Logger) Result {
	start := time.Now()
	var result Result
	result.Entries = len(corpus)
	if len(corpus) == 0 {
		result.Duration = time.Since(start)
		return result
	}

	if workers < 1 {
		workers = 1
	}
	if workers > len(corpus) {
		workers = len(corpus)
	}

	ch := make(chan string, len(corpus))
	for _, c := range corpus {
		ch <- c
	}
	close(ch)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for content := range ch {
				inserted, err := upsertOne(ctx, sess, tableName, embedder, content)
				mu.Lock()
				if err != nil {
					result.Errors = append(result.Errors, err.Error())
					logger.Error("seed entry failed", "error", err)
				} else if inserted {
					result.Inserted++
				} else {
					result.Unchanged++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	result.Duration = time.Since(start)
	return result
}

// upsertOne embeds content and inserts it if its content hash isn't
// already present, leaving existing rows untouched.
func upsertOne(ctx context.Context, sess *dbaccess.Session, tableName string, embedder Embedder, content string) (bool, error) {
	hash := contentHash(content)

	checkSQL := fmt.Sprintf("SELECT 1 FROM %s WHERE content_hash = $1 LIMIT 1", tableName)
	existing, _, err := sess.Execute(ctx, checkSQL, []any{hash}, 1)
	if err != nil {
		return false, err
	}
	if len(existing.Rows) > 0 {
		return false, nil
	}

	vec, err := embedder.Embed(ctx, content)
	if err != nil {
		return false, err
	}

	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (content, content_hash, embedding) VALUES ($1, $2, $3) ON CONFLICT (content_hash) DO NOTHING",
		tableName,
	)
	if _, _, err := sess.Execute(ctx, insertSQL, []any{content, hash, vectorLiteral(vec)}, 0); err != nil {
		return false, err
	}
	return true, nil
}

func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

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
