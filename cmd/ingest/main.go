package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"notes-ingest/internal/config"
	"notes-ingest/internal/entity"
	"notes-ingest/internal/pkg/logger"
	"notes-ingest/internal/repository/contract"
	"notes-ingest/internal/repository/implementation"
	"notes-ingest/internal/service"
	"notes-ingest/internal/staging"
	"notes-ingest/pkg/database"
	"notes-ingest/pkg/embedding"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
)

func run(ctx context.Context, cmd *cli.Command) error {
	dryRun := cmd.Bool("dry-run")

	cfg := config.Load()
	if err := cfg.ValidateForIngest(dryRun); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	appLog := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer appLog.Sync()

	notes, err := staging.LoadParsedNotes(cmd.String("parsed-path"), int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	var client contract.PersistenceClient
	var embedder embedding.Provider

	if dryRun {
		client = implementation.NewDryRunClient()
		embedder = embedding.NewDeterministicProvider()
	} else {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		client = implementation.NewGormClient(db)
		embedder = buildEmbedder(cfg)
	}

	svc := service.NewIngestionService(client, embedder, appLog)

	report, err := svc.Ingest(ctx, notes, dryRun)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	printSummary(report, dryRun)
	return nil
}

func buildEmbedder(cfg *config.Config) embedding.Provider {
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		return embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	default:
		return embedding.NewDeterministicProvider()
	}
}

func printSummary(report *entity.IngestionReport, dryRun bool) {
	if dryRun {
		color.Yellow("=== Ingestion Summary (dry run) ===")
	} else {
		color.Cyan("=== Ingestion Summary ===")
	}

	fmt.Printf("notes_processed: %d\n", report.NotesProcessed)
	fmt.Printf("notes_inserted: %d\n", report.NotesInserted)
	fmt.Printf("notes_updated: %d\n", report.NotesUpdated)
	fmt.Printf("notes_skipped: %d\n", report.NotesSkipped)
	fmt.Printf("tags_inserted: %d\n", report.TagsInserted)
	fmt.Printf("relationships_created: %d\n", report.RelationshipsCreated)

	if len(report.Failures) == 0 {
		color.Green("failures: none")
		return
	}
	color.Red("failures: %d", len(report.Failures))
	for _, failure := range report.Failures {
		color.Red("  %s: %s", failure.Id, failure.Error)
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "notes-ingest",
		Usage:  "Ingest parsed notes into Postgres as notebooks, tags, notes, and note-tag relationships",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "parsed-path",
				Value:   "parsed_notes.json",
				Usage:   "Path to the parsed notes JSON file",
				Sources: cli.EnvVars("PARSED_NOTES_PATH"),
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Run the full pipeline without writing to the database",
			},
			&cli.IntFlag{
				Name:  "limit",
				Value: -1,
				Usage: "Truncate the input batch to N notes",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the ingestion report as JSON",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
