package repository

import (
	"context"
	"database/sql"

	"github.com/hookeddocs/hookeddocs/internal/common"
)

// bootstrapDDL creates the destination schema: staging tables holding the
// raw canonical blobs, flat tables holding the expanded validated fields,
// ticket tables, and the audit log. Dates are stored canonical (YYYYMMDD
// for tickets, DDMMYYYY for invoices) to keep the DDL portable between
// Postgres and the in-memory SQLite mode.
var bootstrapDDL = []string{
	`CREATE TABLE IF NOT EXISTS invoices_received (
		id TEXT PRIMARY KEY,
		file_name TEXT NOT NULL,
		invoice_data TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS invoices_issued (
		id TEXT PRIMARY KEY,
		file_name TEXT NOT NULL,
		invoice_data TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS flat_invoices_received (
		invoice_number TEXT PRIMARY KEY,
		issuer_name TEXT NOT NULL,
		issuer_rut TEXT,
		issue_date TEXT NOT NULL,
		pay_method TEXT,
		subtotal REAL,
		tax REAL,
		total REAL NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS flat_invoices_issued (
		invoice_number TEXT PRIMARY KEY,
		invoice_type TEXT,
		issuer_name TEXT NOT NULL,
		issuer_rut TEXT,
		issue_date TEXT NOT NULL,
		pay_method TEXT,
		buyer_name TEXT,
		buyer_rut TEXT,
		subtotal REAL,
		tax REAL,
		total REAL NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS physical_tickets (
		folio TEXT NOT NULL,
		neto REAL NOT NULL,
		iva REAL NOT NULL,
		total REAL NOT NULL,
		dte TEXT NOT NULL,
		fecha TEXT NOT NULL,
		rut_vendedor TEXT NOT NULL,
		sucursal TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS electronic_tickets (
		tipo TEXT NOT NULL,
		tipo_documento TEXT NOT NULL,
		folio TEXT NOT NULL,
		razon_social_receptor TEXT NOT NULL,
		fecha_publicacion TEXT NOT NULL,
		emision TEXT NOT NULL,
		monto_neto REAL NOT NULL,
		monto_exento REAL NOT NULL,
		monto_iva REAL NOT NULL,
		monto_total REAL NOT NULL,
		fecha_sii TEXT NOT NULL,
		estado_sii TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS invoice_audit_log (
		issuer_name TEXT,
		process TEXT NOT NULL,
		invoice_id TEXT NOT NULL,
		issue_date TEXT,
		validation_message TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// Bootstrap creates the schema if it does not exist.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	for _, stmt := range bootstrapDDL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return common.WrapError(err, "bootstrap schema")
		}
	}
	return nil
}
