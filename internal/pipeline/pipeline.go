package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hookeddocs/hookeddocs/constants"
	"github.com/hookeddocs/hookeddocs/internal/common"
	"github.com/hookeddocs/hookeddocs/internal/entity"
	"github.com/hookeddocs/hookeddocs/internal/grammar"
	"github.com/hookeddocs/hookeddocs/internal/repository"
	"github.com/hookeddocs/hookeddocs/internal/source"
	"github.com/hookeddocs/hookeddocs/internal/tabular"
	"github.com/hookeddocs/hookeddocs/internal/validate"
)

// Pipeline drives one category's batch: scan a folder, run every eligible
// file through acquire → classify → extract/normalize → validate → load,
// and archive the survivors. A failing file is logged and left in place;
// the batch keeps going.
type Pipeline struct {
	Logger   *slog.Logger
	Acquirer *source.Acquirer
	Invoices repository.InvoiceStore
	Tickets  repository.TicketStore
}

func New(logger *slog.Logger, acquirer *source.Acquirer, invoices repository.InvoiceStore, tickets repository.TicketStore) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{Logger: logger, Acquirer: acquirer, Invoices: invoices, Tickets: tickets}
}

// ProcessCategory processes every pending file of one category directly
// under folder. Files inside the archive subfolder are never re-scanned,
// so a second run over a drained folder is a no-op.
func (p *Pipeline) ProcessCategory(ctx context.Context, category constants.Category, folder string) ([]entity.ProcessingResult, entity.BatchSummary, error) {
	var summary entity.BatchSummary

	dirEntries, err := os.ReadDir(folder)
	if err != nil {
		return nil, summary, fmt.Errorf("read folder %s: %w", folder, err)
	}

	var registry *grammar.Registry
	if !category.Tabular() {
		registry, err = grammar.ForCategory(category)
		if err != nil {
			return nil, summary, err
		}
	}

	var results []entity.ProcessingResult
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		summary.Scanned++

		name := de.Name()
		ext := constants.NormalizeExt(filepath.Ext(name))
		if !constants.AllowedExt(category, ext) {
			p.Logger.Debug("pipeline.file_skipped",
				slog.String("file", name),
				slog.String("category", string(category)))
			continue
		}
		summary.Matched++

		path := filepath.Join(folder, name)
		archived, err := p.processFile(ctx, category, registry, path, ext)
		if err != nil {
			summary.Failed++
			p.Logger.Error("pipeline.file_failed",
				slog.String("file", path),
				slog.String("error", err.Error()))
			results = append(results, entity.ProcessingResult{
				SourcePath: path,
				Status:     entity.StatusFailed,
				Err:        err.Error(),
			})
			continue
		}
		summary.Processed++
		p.Logger.Info("pipeline.file_archived",
			slog.String("file", path),
			slog.String("archived", archived))
		results = append(results, entity.ProcessingResult{
			SourcePath:   path,
			Status:       entity.StatusArchived,
			ArchivedPath: archived,
		})
	}

	p.Logger.Info("pipeline.batch_done",
		slog.String("category", string(category)),
		slog.String("folder", folder),
		slog.Uint64("scanned", uint64(summary.Scanned)),
		slog.Uint64("matched", uint64(summary.Matched)),
		slog.Uint64("processed", uint64(summary.Processed)),
		slog.Uint64("failed", uint64(summary.Failed)))
	return results, summary, nil
}

// processFile runs one file end to end and archives it on success.
func (p *Pipeline) processFile(ctx context.Context, category constants.Category, registry *grammar.Registry, path, ext string) (string, error) {
	raw, err := p.Acquirer.Acquire(ctx, path, ext)
	if err != nil {
		return "", common.WrapError(err, "acquire")
	}

	fileName := filepath.Base(path)
	if category.Tabular() {
		if err := p.loadTabular(ctx, category, raw.Grid, fileName); err != nil {
			return "", err
		}
	} else {
		if err := p.loadInvoice(ctx, registry, raw.Text, ext, fileName); err != nil {
			return "", err
		}
	}
	return Archive(path)
}

func (p *Pipeline) loadInvoice(ctx context.Context, registry *grammar.Registry, text, ext, fileName string) error {
	g, err := registry.Classify(text, ext)
	if err != nil {
		return err
	}
	rec, err := g.Extract(text, grammar.SeenLines{})
	if err != nil {
		return fmt.Errorf("grammar %s: %w", g.ID(), err)
	}
	if err := validate.Invoice(rec); err != nil {
		return err
	}
	return p.Invoices.InsertInvoice(ctx, rec, fileName)
}

func (p *Pipeline) loadTabular(ctx context.Context, category constants.Category, grid [][]string, fileName string) error {
	switch category {
	case constants.PhysicalTickets:
		rows, err := tabular.NormalizePhysical(grid)
		if err != nil {
			return err
		}
		for i := range rows {
			if err := validate.PhysicalRow(&rows[i]); err != nil {
				return err
			}
		}
		return p.Tickets.InsertPhysical(ctx, rows, fileName)
	case constants.ElectronicTickets:
		rows, err := tabular.NormalizeElectronic(grid)
		if err != nil {
			return err
		}
		for i := range rows {
			if err := validate.ElectronicRow(&rows[i]); err != nil {
				return err
			}
		}
		return p.Tickets.InsertElectronic(ctx, rows, fileName)
	default:
		return fmt.Errorf("category %q is not tabular: %w", category, common.ErrInvalidInput)
	}
}

// Archive moves a processed file into the archive subfolder next to it,
// creating the subfolder on first use.
func Archive(path string) (string, error) {
	dir := filepath.Dir(path)
	archiveDir := filepath.Join(dir, constants.ProcessedFolder)
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", common.WrapError(err, "create archive folder")
	}
	dest := filepath.Join(archiveDir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		return "", common.WrapError(err, "archive file")
	}
	return dest, nil
}
