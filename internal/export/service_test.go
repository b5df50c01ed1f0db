package export

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hookeddocs/hookeddocs/constants"
	"github.com/hookeddocs/hookeddocs/internal/entity"
	"github.com/hookeddocs/hookeddocs/internal/repository"
)

func TestExportCategoryXLSX(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := repository.OpenInMemory(ctx, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	total := 29726.0
	rec := &entity.InvoiceRecord{
		Category:      constants.InvoicesReceived,
		InvoiceNumber: "4512",
		IssueDate:     "15032024",
		Total:         &total,
		Issuer:        entity.Party{Name: "PESCA PROFESIONAL LTDA"},
	}
	require.NoError(t, repository.NewInvoiceRepository(db, logger).InsertInvoice(ctx, rec, "a.pdf"))

	blob, err := NewService(repository.NewMaintenanceRepository(db, logger), logger).
		ExportCategoryXLSX(ctx, constants.InvoicesReceived)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(blob))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	sheet := string(constants.InvoicesReceived)
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Contains(t, rows[0], "invoice_number")
	require.Contains(t, rows[1], "4512")
	require.Contains(t, rows[1], "PESCA PROFESIONAL LTDA")
}
