package constants

import "strings"

// Category identifies one document category handled by the pipeline.
type Category string

// Stable values (used in folder config keys and log fields).
const (
	InvoicesReceived  Category = "INVOICES_RECEIVED"
	InvoicesIssued    Category = "INVOICES_ISSUED"
	PhysicalTickets   Category = "PHYSICAL_TICKETS"
	ElectronicTickets Category = "ELECTRONIC_TICKETS"
)

var allCategories = []Category{
	InvoicesReceived,
	InvoicesIssued,
	PhysicalTickets,
	ElectronicTickets,
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// Parse resolves a user-supplied category label to its canonical value.
func Parse(input string) (Category, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(input))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	normalized = strings.ReplaceAll(normalized, " ", "_")

	synonyms := map[string]Category{
		"RECEIVED":             InvoicesReceived,
		"FACTURAS_RECIBIDAS":   InvoicesReceived,
		"ISSUED":               InvoicesIssued,
		"FACTURAS_EMITIDAS":    InvoicesIssued,
		"PHYSICAL":             PhysicalTickets,
		"BOLETAS_FISICAS":      PhysicalTickets,
		"ELECTRONIC":           ElectronicTickets,
		"BOLETAS_ELECTRONICAS": ElectronicTickets,
	}
	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}
	for _, cat := range allCategories {
		if normalized == string(cat) {
			return cat, true
		}
	}
	return "", false
}

// Tabular reports whether the category is fed from spreadsheet exports
// rather than free-text documents.
func (c Category) Tabular() bool {
	return c == PhysicalTickets || c == ElectronicTickets
}

// StagingTable is the staging destination for free-text categories.
func (c Category) StagingTable() string {
	switch c {
	case InvoicesReceived:
		return "invoices_received"
	case InvoicesIssued:
		return "invoices_issued"
	default:
		return ""
	}
}

// FlatTable and IDColumn locate the normalized record for the maintenance
// operations (lookup, update, delete).
func (c Category) FlatTable() string {
	switch c {
	case InvoicesReceived:
		return "flat_invoices_received"
	case InvoicesIssued:
		return "flat_invoices_issued"
	case PhysicalTickets:
		return "physical_tickets"
	case ElectronicTickets:
		return "electronic_tickets"
	default:
		return ""
	}
}

func (c Category) IDColumn() string {
	switch c {
	case InvoicesReceived, InvoicesIssued:
		return "invoice_number"
	default:
		return "folio"
	}
}
