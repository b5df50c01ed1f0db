package validate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hookeddocs/hookeddocs/constants"
	"github.com/hookeddocs/hookeddocs/internal/common"
	"github.com/hookeddocs/hookeddocs/internal/entity"
)

func amount(v float64) *float64 { return &v }

func validInvoice() *entity.InvoiceRecord {
	return &entity.InvoiceRecord{
		Category:      constants.InvoicesReceived,
		InvoiceNumber: "4512",
		IssueDate:     "15032024",
		PayMethod:     "TRANSFERENCIA",
		Items: []entity.LineItem{
			{SKU: "AN-14", Description: "ANZUELO MUSTAD", Quantity: 10, UnitPrice: 1500, Subtotal: 15000},
		},
		Subtotal: amount(24980),
		Tax:      amount(4746),
		Total:    amount(29726),
		Issuer:   entity.Party{Name: "PROFESSIONAL FISHING SPA", RUT: "761234567"},
	}
}

func TestInvoiceValid(t *testing.T) {
	require.NoError(t, Invoice(validInvoice()))
}

func TestInvoiceMissingIdentifier(t *testing.T) {
	rec := validInvoice()
	rec.InvoiceNumber = ""
	require.ErrorIs(t, Invoice(rec), common.ErrFieldMissing)
}

func TestInvoiceMissingTotal(t *testing.T) {
	rec := validInvoice()
	rec.Total = nil
	require.ErrorIs(t, Invoice(rec), common.ErrFieldMissing)
}

func TestInvoiceBadDate(t *testing.T) {
	rec := validInvoice()
	rec.IssueDate = "2024-03-15"
	require.ErrorIs(t, Invoice(rec), common.ErrMalformedDate)

	rec.IssueDate = "32132024" // day 32, month 13
	require.ErrorIs(t, Invoice(rec), common.ErrMalformedDate)
}

func TestInvoiceNegativeAmount(t *testing.T) {
	rec := validInvoice()
	rec.Tax = amount(-1)
	require.ErrorIs(t, Invoice(rec), common.ErrValidation)
}

func TestInvoiceTotalsOutOfTolerance(t *testing.T) {
	rec := validInvoice()
	rec.Total = amount(30000)
	require.ErrorIs(t, Invoice(rec), common.ErrValidation)
}

func TestInvoiceTotalsWithinTolerance(t *testing.T) {
	rec := validInvoice()
	rec.Total = amount(29726.4)
	require.NoError(t, Invoice(rec))
}

func TestInvoiceNilItemsAllowed(t *testing.T) {
	rec := validInvoice()
	rec.Items = nil
	require.NoError(t, Invoice(rec))
}

func TestPhysicalRow(t *testing.T) {
	row := &entity.PhysicalTicketRow{
		Folio: "1001", IssueDate: "20240502", TaxCode: "39",
		Net: 10000, Tax: 1900, Total: 11900,
		SellerRUT: "11.111.111-1", BranchName: "CENTRO",
	}
	require.NoError(t, PhysicalRow(row))

	bad := *row
	bad.Folio = ""
	require.ErrorIs(t, PhysicalRow(&bad), common.ErrFieldMissing)

	bad = *row
	bad.IssueDate = "02052024" // DDMMYYYY is not canonical for rows
	require.ErrorIs(t, PhysicalRow(&bad), common.ErrMalformedDate)

	bad = *row
	bad.Total = 20000
	require.ErrorIs(t, PhysicalRow(&bad), common.ErrValidation)
}

func TestElectronicRow(t *testing.T) {
	row := &entity.ElectronicTicketRow{
		TaxCode: "39", DocumentType: "credito", Folio: "2001",
		ReceiverName: "CLIENTE UNO", PublishedAt: "20240601",
		IssueDate: "20240601", Net: 10000, Tax: 1900, Total: 11900,
		DeclaredAt: "20240602", SIIStatus: "SI",
	}
	require.NoError(t, ElectronicRow(row))

	bad := *row
	bad.DocumentType = ""
	require.ErrorIs(t, ElectronicRow(&bad), common.ErrFieldMissing)

	bad = *row
	bad.Net = -5
	require.ErrorIs(t, ElectronicRow(&bad), common.ErrValidation)
}
