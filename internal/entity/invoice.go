package entity

import "github.com/hookeddocs/hookeddocs/constants"

// Party is an issuer or buyer on an invoice.
type Party struct {
	Name             string `json:"name"`
	RUT              string `json:"rut,omitempty"`
	EconomicActivity string `json:"economic_activity,omitempty"`
	Address          string `json:"address,omitempty"`
	Commune          string `json:"commune,omitempty"`
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
}

// LineItem is one row of an invoice item table.
type LineItem struct {
	SKU         string  `json:"sku,omitempty"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Discount    float64 `json:"discount"`
	Subtotal    float64 `json:"subtotal"`
}

// InvoiceRecord is the canonical record produced by a free-text grammar,
// independent of the source layout. It is serialized as-is into the
// category's staging table.
type InvoiceRecord struct {
	Category      constants.Category `json:"-"`
	InvoiceNumber string             `json:"invoice_number"`
	InvoiceType   string             `json:"invoice_type,omitempty"`
	// IssueDate is canonical DDMMYYYY, never a locale-ambiguous form.
	IssueDate string     `json:"issue_date"`
	PayMethod string     `json:"pay_method,omitempty"`
	Items     []LineItem `json:"items"`
	Subtotal  *float64   `json:"subtotal,omitempty"`
	Tax       *float64   `json:"tax,omitempty"`
	Total     *float64   `json:"total,omitempty"`
	Issuer    Party      `json:"issuer"`
	Buyer     *Party     `json:"buyer,omitempty"`
}
