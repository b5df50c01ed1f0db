package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hookeddocs/hookeddocs/constants"
	"github.com/hookeddocs/hookeddocs/internal/common"
	"github.com/hookeddocs/hookeddocs/internal/entity"
)

// InvoiceStore persists canonical invoice records.
type InvoiceStore interface {
	InsertInvoice(ctx context.Context, rec *entity.InvoiceRecord, fileName string) error
}

// InvoiceRepository writes a validated invoice to its category's staging
// table and expands it into the matching flat table plus an audit row.
// All three writes share one transaction so a failed expansion never
// leaves a staged blob behind.
type InvoiceRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewInvoiceRepository(db *sql.DB, logger *slog.Logger) *InvoiceRepository {
	return &InvoiceRepository{db: db, logger: logger}
}

func (r *InvoiceRepository) InsertInvoice(ctx context.Context, rec *entity.InvoiceRecord, fileName string) error {
	staging := rec.Category.StagingTable()
	flat := rec.Category.FlatTable()
	if staging == "" || flat == "" {
		return fmt.Errorf("category %q has no invoice tables: %w", rec.Category, common.ErrInvalidInput)
	}

	blob, err := json.Marshal(rec)
	if err != nil {
		return common.WrapError(err, "marshal invoice record")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w: %w", err, common.ErrStorageFailure)
	}
	defer func() { _ = tx.Rollback() }()

	stagingID := uuid.New().String()
	stageStmt := fmt.Sprintf(`INSERT INTO %s (id, file_name, invoice_data) VALUES ($1, $2, $3)`, staging)
	if _, err := tx.ExecContext(ctx, stageStmt, stagingID, fileName, string(blob)); err != nil {
		return fmt.Errorf("stage invoice %s: %w: %w", rec.InvoiceNumber, err, common.ErrStorageFailure)
	}

	if err := r.expandFlat(ctx, tx, rec); err != nil {
		return err
	}
	if err := insertAudit(ctx, tx, entity.AuditEntry{
		IssuerName: rec.Issuer.Name,
		Process:    flat,
		DocumentID: rec.InvoiceNumber,
		IssueDate:  rec.IssueDate,
		Message:    "OK",
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit invoice %s: %w: %w", rec.InvoiceNumber, err, common.ErrStorageFailure)
	}

	r.logger.Info("repository.invoice_inserted",
		slog.String("category", string(rec.Category)),
		slog.String("invoice_number", rec.InvoiceNumber),
		slog.String("file", fileName))
	return nil
}

func (r *InvoiceRepository) expandFlat(ctx context.Context, tx *sql.Tx, rec *entity.InvoiceRecord) error {
	var err error
	if rec.Category == constants.InvoicesIssued {
		stmt := fmt.Sprintf(`INSERT INTO %s
			(invoice_number, invoice_type, issuer_name, issuer_rut, issue_date, pay_method, buyer_name, buyer_rut, subtotal, tax, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`, rec.Category.FlatTable())
		var buyerName, buyerRUT string
		if rec.Buyer != nil {
			buyerName = rec.Buyer.Name
			buyerRUT = rec.Buyer.RUT
		}
		_, err = tx.ExecContext(ctx, stmt,
			rec.InvoiceNumber, rec.InvoiceType, rec.Issuer.Name, rec.Issuer.RUT,
			rec.IssueDate, rec.PayMethod, buyerName, buyerRUT,
			nullableAmount(rec.Subtotal), nullableAmount(rec.Tax), nullableAmount(rec.Total))
	} else {
		stmt := fmt.Sprintf(`INSERT INTO %s
			(invoice_number, issuer_name, issuer_rut, issue_date, pay_method, subtotal, tax, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, rec.Category.FlatTable())
		_, err = tx.ExecContext(ctx, stmt,
			rec.InvoiceNumber, rec.Issuer.Name, rec.Issuer.RUT,
			rec.IssueDate, rec.PayMethod,
			nullableAmount(rec.Subtotal), nullableAmount(rec.Tax), nullableAmount(rec.Total))
	}
	if err != nil {
		return fmt.Errorf("expand invoice %s into %s: %w: %w",
			rec.InvoiceNumber, rec.Category.FlatTable(), err, common.ErrStorageFailure)
	}
	return nil
}

func insertAudit(ctx context.Context, tx *sql.Tx, e entity.AuditEntry) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO invoice_audit_log
		(issuer_name, process, invoice_id, issue_date, validation_message)
		VALUES ($1, $2, $3, $4, $5)`,
		e.IssuerName, e.Process, e.DocumentID, e.IssueDate, e.Message)
	if err != nil {
		return fmt.Errorf("audit invoice %s: %w: %w", e.DocumentID, err, common.ErrStorageFailure)
	}
	return nil
}

// nullableAmount maps an absent optional amount to SQL NULL.
func nullableAmount(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
