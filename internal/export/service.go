package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hookeddocs/hookeddocs/constants"
	"github.com/hookeddocs/hookeddocs/internal/repository"
)

// Service is a tiny façade over the maintenance repository that produces
// XLSX bytes for exports of loaded records.
type Service struct {
	maint  *repository.MaintenanceRepository
	logger *slog.Logger
}

func NewService(maint *repository.MaintenanceRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{maint: maint, logger: logger}
}

// ExportCategoryXLSX returns an XLSX workbook (as bytes) holding every
// validated record of the category, one column per destination field.
func (s *Service) ExportCategoryXLSX(ctx context.Context, category constants.Category) ([]byte, error) {
	start := time.Now()

	cols, records, err := s.maint.ListRecords(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	f := excelize.NewFile()
	sheet := string(category)
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, col := range cols {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, col)
	}

	row := 2
	for _, record := range records {
		for i, col := range cols {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheet, cell, record[col])
		}
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.xlsx_built",
		slog.String("category", string(category)),
		slog.Int("rows", len(records)),
		slog.Duration("took", time.Since(start)))
	return buf.Bytes(), nil
}
