// Command query runs one natural-language question through the pipeline
// and prints the resulting ResultEnvelope as JSON. It stands in for the
// HTTP transport this module doesn't own — a way to exercise and
// demonstrate the pipeline from a terminal.
//
// Usage:
//
//	scoracle-query ask "who led the league in rebounds last season"
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/scoracle-query/internal/config"
	"github.com/albapepper/scoracle-query/internal/embedding"
	"github.com/albapepper/scoracle-query/internal/llm"
	"github.com/albapepper/scoracle-query/internal/model"
	"github.com/albapepper/scoracle-query/internal/pipeline"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "scoracle-query",
		Short: "Ask a natural-language basketball statistics question",
	}
	root.AddCommand(askCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func askCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Run one question through the pipeline and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
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

			llmProvider := llm.New(llm.Config{
				APIKey:       cfg.LLMAPIKey,
				ModelCorrect: cfg.LLMModelCorrect,
				ModelSQL:     cfg.LLMModelSQL,
			})

			orch := pipeline.New(cfg, embedder, llmProvider, logger)
			envelope := orch.Answer(context.Background(), args[0], []model.Turn{})

			out, err := json.MarshalIndent(envelope, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	return cmd
}
