package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/comparison"
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/config"
	stripeintegration "github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/integration/stripe"
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/logger"
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/mapping"
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/migration"
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/types"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	// Parse command line flags
	finalize := flag.Bool("finalize", false, "Finalize migrated invoices instead of voiding them (default is a dry run)")
	check := flag.Bool("check", false, "Verify both account keys and exit")
	mappingsFile := flag.String("mappings", "", "Override the configured mappings file path")
	outputDir := flag.String("output", "", "Override the configured output directory")
	flag.Parse()

	// Missing .env is fine, keys may come from the environment directly
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *mappingsFile != "" {
		cfg.Migration.MappingsFile = *mappingsFile
	}
	if *outputDir != "" {
		cfg.Migration.OutputDirectory = *outputDir
	}

	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	mode := types.ModeDryRun
	if *finalize {
		mode = types.ModeFinalize
	}

	ctx := context.Background()
	clients := stripeintegration.NewClients(cfg, logger)

	if *check {
		if err := clients.Source.Ping(ctx); err != nil {
			logger.Fatalw("source account check failed", "error", err)
		}
		if err := clients.Destination.Ping(ctx); err != nil {
			logger.Fatalw("destination account check failed", "error", err)
		}
		logger.Infow("both accounts reachable")
		return
	}

	mappings, err := mapping.LoadFromFile(cfg.Migration.MappingsFile)
	if err != nil {
		logger.Fatalw("failed to load migration mappings",
			"path", cfg.Migration.MappingsFile,
			"error", err)
	}

	resolver := mapping.NewResolver(mappings)
	comparator := comparison.NewComparator(resolver)
	recorder := migration.NewRecorder(comparator, logger)

	service := migration.NewService(migration.ServiceParams{
		Logger:      logger,
		Source:      clients.Source,
		Destination: clients.Destination,
		Resolver:    resolver,
		Recorder:    recorder,
		Mode:        mode,
	})

	logger.Infow("starting invoice migration",
		"run_id", recorder.RunID(),
		"mode", mode,
		"customers", len(mappings.Customers))

	if err := service.MigrateAllForCustomers(ctx); err != nil {
		logger.Fatalw("migration run aborted", "error", err)
	}

	outputDirectory := cfg.Migration.OutputDirectory
	if err := recorder.WriteResults(outputDirectory); err != nil {
		logger.Fatalw("failed to write migration results", "error", err)
	}
	if err := recorder.WriteSummary(outputDirectory); err != nil {
		logger.Fatalw("failed to write comparison summary", "error", err)
	}
	if err := recorder.WriteLedger(outputDirectory); err != nil {
		logger.Fatalw("failed to write run ledger", "error", err)
	}

	logger.Infow("migration run completed",
		"run_id", recorder.RunID(),
		"migrated", len(recorder.Results()),
		"failed", len(recorder.Failures()),
		"output_directory", outputDirectory)
}
