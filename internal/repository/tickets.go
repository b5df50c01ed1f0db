package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/hookeddocs/hookeddocs/internal/common"
	"github.com/hookeddocs/hookeddocs/internal/entity"
)

// TicketStore persists normalized ticket export rows.
type TicketStore interface {
	InsertPhysical(ctx context.Context, rows []entity.PhysicalTicketRow, fileName string) error
	InsertElectronic(ctx context.Context, rows []entity.ElectronicTicketRow, fileName string) error
}

// TicketRepository loads the rows of one spreadsheet in a single
// transaction: a file either lands whole or not at all.
type TicketRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewTicketRepository(db *sql.DB, logger *slog.Logger) *TicketRepository {
	return &TicketRepository{db: db, logger: logger}
}

func (r *TicketRepository) InsertPhysical(ctx context.Context, rows []entity.PhysicalTicketRow, fileName string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w: %w", err, common.ErrStorageFailure)
	}
	defer func() { _ = tx.Rollback() }()

	for _, row := range rows {
		if _, err := tx.ExecContext(ctx, `INSERT INTO physical_tickets
			(folio, neto, iva, total, dte, fecha, rut_vendedor, sucursal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			row.Folio, row.Net, row.Tax, row.Total,
			row.TaxCode, row.IssueDate, row.SellerRUT, row.BranchName); err != nil {
			return fmt.Errorf("insert physical ticket %s: %w: %w", row.Folio, err, common.ErrStorageFailure)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w: %w", fileName, err, common.ErrStorageFailure)
	}

	r.logger.Info("repository.physical_tickets_inserted",
		slog.String("file", fileName),
		slog.Int("rows", len(rows)))
	return nil
}

func (r *TicketRepository) InsertElectronic(ctx context.Context, rows []entity.ElectronicTicketRow, fileName string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w: %w", err, common.ErrStorageFailure)
	}
	defer func() { _ = tx.Rollback() }()

	for _, row := range rows {
		if _, err := tx.ExecContext(ctx, `INSERT INTO electronic_tickets
			(tipo, tipo_documento, folio, razon_social_receptor, fecha_publicacion, emision,
			 monto_neto, monto_exento, monto_iva, monto_total, fecha_sii, estado_sii)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			row.TaxCode, row.DocumentType, row.Folio, row.ReceiverName,
			row.PublishedAt, row.IssueDate,
			row.Net, row.Exempt, row.Tax, row.Total,
			row.DeclaredAt, row.SIIStatus); err != nil {
			return fmt.Errorf("insert electronic ticket %s: %w: %w", row.Folio, err, common.ErrStorageFailure)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w: %w", fileName, err, common.ErrStorageFailure)
	}

	r.logger.Info("repository.electronic_tickets_inserted",
		slog.String("file", fileName),
		slog.Int("rows", len(rows)))
	return nil
}
