// Package tabular normalizes spreadsheet exports of ticket data into
// canonical rows. Input is the raw cell grid of the first sheet; the first
// row is the header.
package tabular

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/hookeddocs/hookeddocs/internal/common"
	"github.com/hookeddocs/hookeddocs/internal/entity"
)

// Source column labels as they appear in the point-of-sale exports. Header
// lookup folds accents and case, so "Fecha Emisión" and "FECHA EMISION"
// resolve identically.
const (
	colDocumentNumber = "Nº DOCUMENTO"
	colIssueDate      = "FECHA EMISION"
	colTaxCode        = "CODIGO TRIBUTARIO"
	colNet            = "MONTO NETO DOCUMENTO"
	colExempt         = "MONTO EXENTO DOCUMENTO"
	colTax            = "MONTO IMPUESTOS DOCUMENTO"
	colTotal          = "MONTO DOCUMENTO"
	colSeller         = "VENDEDOR"
	colBranch         = "SUCURSAL"
	colCash           = "EFECTIVO"
	colClient         = "CLIENTE"
	colPublishedAt    = "FECHA DE GENERACION"
	colDeclaredAt     = "FECHA DE DECLARACION"
	colSIIStatus      = "INFORMADO SII"

	colCredit   = "TARJETA CREDITO"
	colDebit    = "TARJETA DEBITO"
	colTransfer = "TRANSFERENCIA BANCARIA"
	colWebpay   = "WEBPAY"
)

// paymentIndicators in declared order; a tie between several non-zero
// indicators resolves to the earliest.
var paymentIndicators = []struct {
	column   string
	document string
}{
	{colCredit, "credito"},
	{colDebit, "debito"},
	{colTransfer, "transferencia"},
	{colWebpay, "webpay"},
}

// header maps folded column labels to their cell index.
type header map[string]int

func indexHeader(row []string) header {
	h := make(header, len(row))
	for i, label := range row {
		h[foldLabel(label)] = i
	}
	return h
}

func (h header) require(labels ...string) error {
	for _, label := range labels {
		if _, ok := h[label]; !ok {
			return fmt.Errorf("column %q: %w", label, common.ErrFieldMissing)
		}
	}
	return nil
}

// cell returns the trimmed value at the labeled column, tolerating rows the
// reader truncated at the last non-empty cell.
func (h header) cell(row []string, label string) string {
	i, ok := h[label]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func foldLabel(label string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, label)
	if err != nil {
		folded = label
	}
	folded = strings.ToUpper(strings.TrimSpace(folded))
	folded = strings.ReplaceAll(folded, "N°", "Nº")
	return folded
}

// NormalizePhysical turns a physical-ticket export grid into canonical rows.
// Rows paid by means other than cash and rows missing any required value are
// dropped; they are not errors.
func NormalizePhysical(grid [][]string) ([]entity.PhysicalTicketRow, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("empty sheet: %w", common.ErrInvalidInput)
	}
	h := indexHeader(grid[0])
	if err := h.require(colDocumentNumber, colIssueDate, colTaxCode, colNet,
		colTax, colTotal, colSeller, colBranch, colCash); err != nil {
		return nil, err
	}

	var out []entity.PhysicalTicketRow
	for _, row := range grid[1:] {
		if isCashless(h.cell(row, colCash)) {
			continue
		}
		required := []string{
			h.cell(row, colDocumentNumber),
			h.cell(row, colIssueDate),
			h.cell(row, colTaxCode),
			h.cell(row, colNet),
			h.cell(row, colTax),
			h.cell(row, colTotal),
			h.cell(row, colSeller),
			h.cell(row, colBranch),
		}
		if hasEmpty(required) {
			continue
		}

		date, err := normalizeCellDate(required[1])
		if err != nil {
			return nil, err
		}
		net, err := cellAmount(colNet, required[3])
		if err != nil {
			return nil, err
		}
		tax, err := cellAmount(colTax, required[4])
		if err != nil {
			return nil, err
		}
		total, err := cellAmount(colTotal, required[5])
		if err != nil {
			return nil, err
		}

		out = append(out, entity.PhysicalTicketRow{
			Folio:      required[0],
			IssueDate:  date,
			TaxCode:    required[2],
			Net:        net,
			Tax:        tax,
			Total:      total,
			SellerRUT:  required[6],
			BranchName: required[7],
		})
	}
	return out, nil
}

// NormalizeElectronic turns an electronic-ticket export grid into canonical
// rows. Each kept row derives its document type from the first non-zero
// payment indicator; rows with no indicator set are dropped.
func NormalizeElectronic(grid [][]string) ([]entity.ElectronicTicketRow, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("empty sheet: %w", common.ErrInvalidInput)
	}
	h := indexHeader(grid[0])
	if err := h.require(colTaxCode, colDocumentNumber, colClient, colPublishedAt,
		colIssueDate, colNet, colTax, colTotal, colDeclaredAt, colSIIStatus,
		colCredit, colDebit, colTransfer, colWebpay); err != nil {
		return nil, err
	}

	var out []entity.ElectronicTicketRow
	for _, row := range grid[1:] {
		docType := deriveDocumentType(h, row)
		if docType == "" {
			continue
		}
		required := []string{
			h.cell(row, colTaxCode),
			h.cell(row, colDocumentNumber),
			h.cell(row, colClient),
			h.cell(row, colPublishedAt),
			h.cell(row, colIssueDate),
			h.cell(row, colNet),
			h.cell(row, colTax),
			h.cell(row, colTotal),
			h.cell(row, colDeclaredAt),
			h.cell(row, colSIIStatus),
		}
		if hasEmpty(required) {
			continue
		}

		published, err := normalizeCellDate(required[3])
		if err != nil {
			return nil, err
		}
		issued, err := normalizeCellDate(required[4])
		if err != nil {
			return nil, err
		}
		declared, err := normalizeCellDate(required[8])
		if err != nil {
			return nil, err
		}
		net, err := cellAmount(colNet, required[5])
		if err != nil {
			return nil, err
		}
		tax, err := cellAmount(colTax, required[6])
		if err != nil {
			return nil, err
		}
		total, err := cellAmount(colTotal, required[7])
		if err != nil {
			return nil, err
		}
		// The exempt amount column is absent from older exports.
		exempt := 0.0
		if raw := h.cell(row, colExempt); raw != "" {
			exempt, err = cellAmount(colExempt, raw)
			if err != nil {
				return nil, err
			}
		}

		out = append(out, entity.ElectronicTicketRow{
			TaxCode:      required[0],
			DocumentType: docType,
			Folio:        required[1],
			ReceiverName: required[2],
			PublishedAt:  published,
			IssueDate:    issued,
			Net:          net,
			Exempt:       exempt,
			Tax:          tax,
			Total:        total,
			DeclaredAt:   declared,
			SIIStatus:    required[9],
		})
	}
	return out, nil
}

func deriveDocumentType(h header, row []string) string {
	for _, ind := range paymentIndicators {
		raw := h.cell(row, ind.column)
		if raw == "" {
			continue
		}
		v, err := parseCellNumber(raw)
		if err != nil || v == 0 {
			continue
		}
		return ind.document
	}
	return ""
}

// isCashless reports whether the cash indicator is a literal zero. An empty
// or unreadable indicator keeps the row, mirroring how a null compares
// unequal to zero.
func isCashless(raw string) bool {
	if raw == "" {
		return false
	}
	v, err := parseCellNumber(raw)
	return err == nil && v == 0
}

func hasEmpty(values []string) bool {
	for _, v := range values {
		if v == "" {
			return true
		}
	}
	return false
}

func cellAmount(column, raw string) (float64, error) {
	v, err := parseCellNumber(raw)
	if err != nil {
		return 0, common.MalformedNumberError(strings.ToLower(column), raw)
	}
	return v, nil
}

// parseCellNumber accepts both plain decimal cells and locale-formatted
// ones ("1.234,56").
func parseCellNumber(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(s, 64)
}

// cellDateLayouts covers the shapes spreadsheet readers emit for date cells.
var cellDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"01-02-06",
}

// normalizeCellDate converts a date cell to canonical YYYYMMDD. An already
// canonical value passes through.
func normalizeCellDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if len(s) == 8 && isDigits(s) {
		return s, nil
	}
	for _, layout := range cellDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("20060102"), nil
		}
	}
	return "", common.MalformedDateError("fecha", raw)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
