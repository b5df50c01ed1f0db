package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hookeddocs/hookeddocs/constants"
	"github.com/hookeddocs/hookeddocs/internal/common"
	"github.com/hookeddocs/hookeddocs/internal/entity"
)

// MaintenanceRepository serves the companion operations that run outside
// the batch pipeline: audit-log reads, single-record lookups and deletes.
type MaintenanceRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewMaintenanceRepository(db *sql.DB, logger *slog.Logger) *MaintenanceRepository {
	return &MaintenanceRepository{db: db, logger: logger}
}

// ReadAuditLog returns every audit row, oldest first.
func (r *MaintenanceRepository) ReadAuditLog(ctx context.Context) ([]entity.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT issuer_name, process, invoice_id, issue_date, validation_message
		FROM invoice_audit_log ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("read audit log: %w: %w", err, common.ErrStorageFailure)
	}
	defer rows.Close()

	var entries []entity.AuditEntry
	for rows.Next() {
		var e entity.AuditEntry
		var issuer, issueDate sql.NullString
		if err := rows.Scan(&issuer, &e.Process, &e.DocumentID, &issueDate, &e.Message); err != nil {
			return nil, fmt.Errorf("scan audit row: %w: %w", err, common.ErrStorageFailure)
		}
		e.IssuerName = issuer.String
		e.IssueDate = issueDate.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read audit log: %w: %w", err, common.ErrStorageFailure)
	}
	return entries, nil
}

// GetRecord reads the validated flat fields of one record. Field names
// follow the destination schema of the record's category.
func (r *MaintenanceRepository) GetRecord(ctx context.Context, category constants.Category, id string) (map[string]any, error) {
	cols := flatColumns(category)
	if cols == nil {
		return nil, fmt.Errorf("category %q: %w", category, common.ErrInvalidInput)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		joinColumns(cols), category.FlatTable(), category.IDColumn())

	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(ptrs...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s %q: %w", category.IDColumn(), id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("read %s %q: %w: %w", category.FlatTable(), id, err, common.ErrStorageFailure)
	}

	record := make(map[string]any, len(cols))
	for i, col := range cols {
		// Drivers disagree on whether TEXT scans as string or []byte.
		if b, ok := values[i].([]byte); ok {
			record[col] = string(b)
		} else {
			record[col] = values[i]
		}
	}
	return record, nil
}

// ListRecords reads every validated record of one category, in insertion
// order, as column→value maps. The export service feeds sheets from this.
func (r *MaintenanceRepository) ListRecords(ctx context.Context, category constants.Category) ([]string, []map[string]any, error) {
	cols := flatColumns(category)
	if cols == nil {
		return nil, nil, fmt.Errorf("category %q: %w", category, common.ErrInvalidInput)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s`, joinColumns(cols), category.FlatTable())
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("list %s: %w: %w", category.FlatTable(), err, common.ErrStorageFailure)
	}
	defer rows.Close()

	var records []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scan %s row: %w: %w", category.FlatTable(), err, common.ErrStorageFailure)
		}
		record := make(map[string]any, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				record[col] = string(b)
			} else {
				record[col] = values[i]
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("list %s: %w: %w", category.FlatTable(), err, common.ErrStorageFailure)
	}
	return cols, records, nil
}

// DeleteRecord removes one flat or ticket record together with its audit
// rows, then purges audit rows whose record no longer exists in any table.
// The whole depuration runs in one transaction.
func (r *MaintenanceRepository) DeleteRecord(ctx context.Context, category constants.Category, id string) error {
	if category.FlatTable() == "" {
		return fmt.Errorf("category %q: %w", category, common.ErrInvalidInput)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w: %w", err, common.ErrStorageFailure)
	}
	defer func() { _ = tx.Rollback() }()

	stmt := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, category.FlatTable(), category.IDColumn())
	res, err := tx.ExecContext(ctx, stmt, id)
	if err != nil {
		return fmt.Errorf("delete %s %q: %w: %w", category.FlatTable(), id, err, common.ErrStorageFailure)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s %q: %w: %w", category.FlatTable(), id, err, common.ErrStorageFailure)
	}
	if affected == 0 {
		return fmt.Errorf("%s %q: %w", category.IDColumn(), id, common.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_audit_log WHERE invoice_id = $1`, id); err != nil {
		return fmt.Errorf("delete audit rows for %q: %w: %w", id, err, common.ErrStorageFailure)
	}
	if err := depurateAuditLog(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete %q: %w: %w", id, err, common.ErrStorageFailure)
	}

	r.logger.Info("repository.record_deleted",
		slog.String("category", string(category)),
		slog.String("id", id))
	return nil
}

// depurateAuditLog drops audit rows left orphaned by earlier deletes.
func depurateAuditLog(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM invoice_audit_log
		WHERE invoice_id NOT IN (SELECT invoice_number FROM flat_invoices_received)
		  AND invoice_id NOT IN (SELECT invoice_number FROM flat_invoices_issued)
		  AND invoice_id NOT IN (SELECT folio FROM physical_tickets)
		  AND invoice_id NOT IN (SELECT folio FROM electronic_tickets)`)
	if err != nil {
		return fmt.Errorf("depurate audit log: %w: %w", err, common.ErrStorageFailure)
	}
	return nil
}

func flatColumns(category constants.Category) []string {
	switch category {
	case constants.InvoicesReceived:
		return []string{"subtotal", "tax", "total", "pay_method", "issuer_name", "issuer_rut", "invoice_number"}
	case constants.InvoicesIssued:
		return []string{"subtotal", "tax", "total", "pay_method", "issuer_name", "issuer_rut", "invoice_number", "invoice_type", "buyer_name", "buyer_rut"}
	case constants.PhysicalTickets:
		return []string{"folio", "neto", "iva", "total", "fecha", "rut_vendedor", "sucursal"}
	case constants.ElectronicTickets:
		return []string{"tipo_documento", "folio", "emision", "monto_neto", "monto_exento", "monto_iva", "monto_total"}
	default:
		return nil
	}
}

func joinColumns(cols []string) string {
	out := cols[0]
	for _, c := range cols[1:] {
		out += ", " + c
	}
	return out
}
