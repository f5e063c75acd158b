// Command seed (re)populates the schema_embeddings table the query
// pipeline's RAG step reads from. It applies pending migrations, then
// embeds and upserts a fixed schema/exemplar corpus.
//
// Usage:
//
//	scoracle-query-seed run --workers 4
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/scoracle-query/internal/config"
	"github.com/albapepper/scoracle-query/internal/dbaccess"
	"github.com/albapepper/scoracle-query/internal/embedding"
	"github.com/albapepper/scoracle-query/internal/knowledge"
	"github.com/albapepper/scoracle-query/internal/knowledge/seed"
	"github.com/albapepper/scoracle-query/internal/migrations"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "scoracle-query-seed",
		Short: "Seed the schema_embeddings table used by the query pipeline",
	}
	root.AddCommand(runCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Apply migrations and upsert the schema/exemplar corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if err := migrations.Up(cfg.DatabaseURL); err != nil {
				return err
			}

			embedder, err := embedding.New(embedding.Config{
				APIKey:  cfg.EmbeddingAPIKey,
				Model:   cfg.EmbeddingModel,
				BaseURL: cfg.EmbeddingURL,
			})
			if err != nil {
				return err
			}

			sess, err := dbaccess.Acquire(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer sess.Close(ctx)

			result := seed.Run(ctx, sess, config.SchemaEmbeddingsTable, embedder, corpusText(), workers, logger)
			logger.Info("seed finished",
				"entries", result.Entries,
				"inserted", result.Inserted,
				"unchanged", result.Unchanged,
				"errors", len(result.Errors),
				"duration", result.Duration,
			)
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 4, "number of concurrent embedding workers")
	return cmd
}

// corpusText flattens the fallback schema/exemplar corpus into the plain
// text entries the seeder embeds — the same content the pipeline falls
// back to if this table is ever empty or unreachable.
func corpusText() []string {
	snippets := knowledge.Fallback()
	out := make([]string, len(snippets))
	for i, s := range snippets {
		out[i] = s.Content
	}
	return out
}
