package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/hookeddocs/hookeddocs/constants"
	"github.com/hookeddocs/hookeddocs/internal/common"
	"github.com/hookeddocs/hookeddocs/internal/entity"
	"github.com/hookeddocs/hookeddocs/internal/pipeline"
	"github.com/hookeddocs/hookeddocs/internal/repository"
	"github.com/hookeddocs/hookeddocs/internal/source"
	"github.com/hookeddocs/hookeddocs/internal/watch"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		inmem    = flag.Bool("inmem", false, "use in-memory SQLite database")
		category = flag.String("category", "", "document category to process (required): "+strings.Join(constants.AsStringSlice(), ", "))
		folder   = flag.String("folder", "", "source folder (overrides the category's configured folder)")
		watchDir = flag.Bool("watch", false, "keep running and re-process when new files land")
	)
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cat, ok := constants.Parse(*category)
	if !ok {
		printError("Error: --category must be one of: %s\n", strings.Join(constants.AsStringSlice(), ", "))
		os.Exit(1)
	}

	cfg, err := common.LoadConfig()
	if err != nil {
		printError("Error: loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(*inmem); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	dir := *folder
	if dir == "" {
		dir = cfg.Folders.For(cat)
	}
	if dir == "" {
		printError("Error: no folder configured for %s; pass --folder\n", cat)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, pool, err := repository.Connect(ctx, cfg.Database, *inmem, logger)
	if err != nil {
		logger.Error("main.db_open_failed", "error", err)
		os.Exit(1)
	}
	defer repository.Close(db, pool, logger)

	acquirer := &source.Acquirer{
		PDF:     source.NewPDFExtractor(logger),
		Tabular: source.NewExcelReader(logger),
	}
	if cfg.OCR.AzureEndpoint != "" {
		acquirer.Image = source.NewAzureOCRExtractor(cfg.OCR.AzureEndpoint, cfg.OCR.AzureKey, cfg.OCR.Language, logger)
	}

	p := pipeline.New(logger,
		acquirer,
		repository.NewInvoiceRepository(db, logger),
		repository.NewTicketRepository(db, logger))

	summary, err := runBatch(ctx, p, cat, dir)
	if err != nil {
		logger.Error("main.batch_failed", "error", err)
		os.Exit(1)
	}

	if *watchDir {
		ticks, err := watch.Start(ctx, watch.Config{
			Folder:   dir,
			Category: cat,
			Debounce: 2 * time.Second,
		}, logger)
		if err != nil {
			logger.Error("main.watch_failed", "error", err)
			os.Exit(1)
		}
		for range ticks {
			if _, err := runBatch(ctx, p, cat, dir); err != nil {
				logger.Error("main.batch_failed", "error", err)
			}
		}
		return
	}

	if summary.Failed > 0 {
		os.Exit(1)
	}
}

func runBatch(ctx context.Context, p *pipeline.Pipeline, cat constants.Category, dir string) (entity.BatchSummary, error) {
	results, summary, err := p.ProcessCategory(ctx, cat, dir)
	if err != nil {
		return summary, err
	}
	for _, res := range results {
		if res.Status == entity.StatusFailed {
			fmt.Printf("FAILED   %s: %s\n", res.SourcePath, res.Err)
		} else {
			fmt.Printf("ARCHIVED %s -> %s\n", res.SourcePath, res.ArchivedPath)
		}
	}
	fmt.Printf("scanned=%d matched=%d processed=%d failed=%d\n",
		summary.Scanned, summary.Matched, summary.Processed, summary.Failed)
	return summary, nil
}

func newLogger(format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
