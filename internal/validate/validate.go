// Package validate holds the pure pre-persistence checks for canonical
// records and normalized ticket rows.
package validate

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/hookeddocs/hookeddocs/internal/common"
	"github.com/hookeddocs/hookeddocs/internal/entity"
)

// totalTolerance absorbs rounding in source documents when checking that
// subtotal + tax adds up to the total. Amounts are whole pesos.
const totalTolerance = 1.0

// Invoice checks a canonical invoice record before it is staged. The checks
// report inconsistencies; they never repair the record.
func Invoice(rec *entity.InvoiceRecord) error {
	if rec.InvoiceNumber == "" {
		return common.FieldMissingError("invoice_number")
	}
	if rec.Total == nil {
		return common.FieldMissingError("total")
	}
	if err := checkDate(rec.IssueDate, "02012006", "issue_date"); err != nil {
		return err
	}
	if err := checkNonNegative("total", *rec.Total); err != nil {
		return err
	}
	if rec.Subtotal != nil {
		if err := checkNonNegative("subtotal", *rec.Subtotal); err != nil {
			return err
		}
	}
	if rec.Tax != nil {
		if err := checkNonNegative("tax", *rec.Tax); err != nil {
			return err
		}
	}
	for i, item := range rec.Items {
		if item.Quantity < 0 {
			return fmt.Errorf("item %d quantity %d: %w", i, item.Quantity, common.ErrValidation)
		}
		if err := checkNonNegative(fmt.Sprintf("item %d unit_price", i), item.UnitPrice); err != nil {
			return err
		}
		if err := checkNonNegative(fmt.Sprintf("item %d subtotal", i), item.Subtotal); err != nil {
			return err
		}
	}
	if rec.Subtotal != nil && rec.Tax != nil {
		if diff := math.Abs(*rec.Subtotal + *rec.Tax - *rec.Total); diff > totalTolerance {
			return fmt.Errorf("subtotal %v + tax %v != total %v: %w",
				*rec.Subtotal, *rec.Tax, *rec.Total, common.ErrValidation)
		}
	}

	blob, err := json.Marshal(rec)
	if err != nil {
		return common.WrapError(err, "marshal record")
	}
	if err := JSONAgainstSchema(BuildInvoiceJSONSchema(), blob); err != nil {
		return fmt.Errorf("record shape: %w: %w", err, common.ErrValidation)
	}
	return nil
}

// PhysicalRow checks one normalized physical-ticket row.
func PhysicalRow(row *entity.PhysicalTicketRow) error {
	if row.Folio == "" {
		return common.FieldMissingError("numero_documento")
	}
	if err := checkDate(row.IssueDate, "20060102", "fecha_emision"); err != nil {
		return err
	}
	for _, c := range []struct {
		name string
		v    float64
	}{{"monto_neto", row.Net}, {"monto_impuestos", row.Tax}, {"monto_total", row.Total}} {
		if err := checkNonNegative(c.name, c.v); err != nil {
			return err
		}
	}
	if diff := math.Abs(row.Net + row.Tax - row.Total); diff > totalTolerance {
		return fmt.Errorf("neto %v + impuestos %v != total %v: %w",
			row.Net, row.Tax, row.Total, common.ErrValidation)
	}
	return nil
}

// ElectronicRow checks one normalized electronic-ticket row.
func ElectronicRow(row *entity.ElectronicTicketRow) error {
	if row.Folio == "" {
		return common.FieldMissingError("folio")
	}
	if row.DocumentType == "" {
		return common.FieldMissingError("tipo_documento")
	}
	for _, d := range []struct {
		name string
		v    string
	}{{"publicacion", row.PublishedAt}, {"fecha_emision", row.IssueDate}, {"fecha_sii", row.DeclaredAt}} {
		if err := checkDate(d.v, "20060102", d.name); err != nil {
			return err
		}
	}
	for _, c := range []struct {
		name string
		v    float64
	}{{"monto_neto", row.Net}, {"monto_exento", row.Exempt}, {"monto_impuestos", row.Tax}, {"monto_total", row.Total}} {
		if err := checkNonNegative(c.name, c.v); err != nil {
			return err
		}
	}
	return nil
}

func checkDate(raw, layout, field string) error {
	if _, err := time.Parse(layout, raw); err != nil {
		return common.MalformedDateError(field, raw)
	}
	return nil
}

func checkNonNegative(field string, v float64) error {
	if v < 0 {
		return fmt.Errorf("field %q value %v: %w", field, v, common.ErrValidation)
	}
	return nil
}
