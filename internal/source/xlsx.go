package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/hookeddocs/hookeddocs/internal/common"
)

// ExcelReader reads the first sheet of a spreadsheet export as raw strings.
type ExcelReader struct {
	logger *slog.Logger
}

func NewExcelReader(logger *slog.Logger) *ExcelReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelReader{logger: logger}
}

func (r *ExcelReader) ReadGrid(ctx context.Context, path string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, common.WrapError(err, "open spreadsheet")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			r.logger.Warn("source.spreadsheet_close_failed", "path", path, "error", cerr)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets in %s: %w", path, common.ErrInvalidInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, common.WrapError(err, "read sheet rows")
	}

	r.logger.Debug("source.grid_read", "path", path, "sheet", sheets[0], "rows", len(rows))
	return rows, nil
}
