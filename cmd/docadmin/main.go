package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/hookeddocs/hookeddocs/constants"
	"github.com/hookeddocs/hookeddocs/internal/common"
	"github.com/hookeddocs/hookeddocs/internal/export"
	"github.com/hookeddocs/hookeddocs/internal/repository"
)

// docadmin runs the maintenance operations that live outside the batch
// pipeline: reading the audit log, inspecting one loaded record, and
// deleting a record together with its audit trail.
func main() {
	var (
		inmem    = flag.Bool("inmem", false, "use in-memory SQLite database")
		op       = flag.String("op", "", "operation: audit, get, delete, export")
		category = flag.String("category", "", "document category ("+strings.Join(constants.AsStringSlice(), ", ")+")")
		id       = flag.String("id", "", "record identifier (invoice number or folio)")
		out      = flag.String("out", "", "output XLSX path for --op export")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := common.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(*inmem); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := context.Background()

	db, pool, err := repository.Connect(ctx, cfg.Database, *inmem, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening database: %v\n", err)
		os.Exit(1)
	}
	defer repository.Close(db, pool, logger)

	maint := repository.NewMaintenanceRepository(db, logger)

	switch *op {
	case "audit":
		entries, err := maint.ReadAuditLog(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		for _, e := range entries {
			fmt.Printf("%s\t%s\t%s\t%s\t%s\n", e.Process, e.DocumentID, e.IssueDate, e.IssuerName, e.Message)
		}
	case "get":
		cat, recID := requireTarget(*category, *id)
		record, err := maint.GetRecord(ctx, cat, recID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		for col, val := range record {
			fmt.Printf("%s: %v\n", col, val)
		}
	case "delete":
		cat, recID := requireTarget(*category, *id)
		if err := maint.DeleteRecord(ctx, cat, recID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("deleted %s %s\n", cat, recID)
	case "export":
		cat, ok := constants.Parse(*category)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: --category must be one of: %s\n", strings.Join(constants.AsStringSlice(), ", "))
			os.Exit(1)
		}
		if *out == "" {
			fmt.Fprintln(os.Stderr, "Error: --out is required for export")
			os.Exit(1)
		}
		blob, err := export.NewService(maint, logger).ExportCategoryXLSX(ctx, cat)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, blob, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: writing %s: %v\n", *out, err)
			os.Exit(1)
		}
		fmt.Printf("exported %s to %s\n", cat, *out)
	default:
		fmt.Fprintln(os.Stderr, "Error: --op must be one of: audit, get, delete, export")
		os.Exit(1)
	}
}

func requireTarget(category, id string) (constants.Category, string) {
	cat, ok := constants.Parse(category)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: --category must be one of: %s\n", strings.Join(constants.AsStringSlice(), ", "))
		os.Exit(1)
	}
	if id == "" {
		fmt.Fprintln(os.Stderr, "Error: --id is required")
		os.Exit(1)
	}
	return cat, id
}
