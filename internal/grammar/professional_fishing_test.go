package grammar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hookeddocs/hookeddocs/internal/common"
)

const pfSample = `PROFESSIONAL FISHING SPA
R.U.T: 76.123.456-7
DIRECCION: CALLE LOS PESCADORES 123
EMAIL: VENTAS@PROFISHING.CL
TELEFONO(S): 9 8765 4321
N° 4512
FECHA EMISION: 15 DE MARZO DEL 2024
FORMA PAGO: TRANSFERENCIA
CODIGO DESCRIPCION CANTIDAD PRECIO UNITARIO SUBTOTAL
AN-14 ANZUELO MUSTAD 10 1.500 AFECTO 15.000
AN-14 ANZUELO MUSTAD 10 1.500 AFECTO 15.000
LI-20 LINEA MONOFILAMENTO 2 4.990 AFECTO 9.980
N° LINEAS: 2
MONTO NETO: $ 24.980
IVA (19%): $ 4.746
TOTAL: $ 29.726
`

func TestProfessionalFishingExtract(t *testing.T) {
	rec, err := NewProfessionalFishing().Extract(pfSample, SeenLines{})
	require.NoError(t, err)

	require.Equal(t, "PROFESSIONAL FISHING SPA", rec.Issuer.Name)
	require.Equal(t, "761234567", rec.Issuer.RUT)
	require.Equal(t, "CALLE LOS PESCADORES 123", rec.Issuer.Address)
	require.Equal(t, "VENTAS@PROFISHING.CL", rec.Issuer.Email)
	require.Equal(t, "987654321", rec.Issuer.Phone)
	require.Equal(t, "4512", rec.InvoiceNumber)
	require.Equal(t, "15032024", rec.IssueDate)
	require.Equal(t, "TRANSFERENCIA", rec.PayMethod)

	// The duplicated OCR row collapses to one item.
	require.Len(t, rec.Items, 2)
	require.Equal(t, "AN-14", rec.Items[0].SKU)
	require.Equal(t, "ANZUELO MUSTAD", rec.Items[0].Description)
	require.Equal(t, 10, rec.Items[0].Quantity)
	require.InDelta(t, 1500, rec.Items[0].UnitPrice, 1e-9)
	require.InDelta(t, 15000, rec.Items[0].Subtotal, 1e-9)
	require.Equal(t, "LI-20", rec.Items[1].SKU)

	require.NotNil(t, rec.Subtotal)
	require.InDelta(t, 24980, *rec.Subtotal, 1e-9)
	require.NotNil(t, rec.Tax)
	require.InDelta(t, 4746, *rec.Tax, 1e-9)
	require.NotNil(t, rec.Total)
	require.InDelta(t, 29726, *rec.Total, 1e-9)
}

func TestProfessionalFishingMissingInvoiceNumber(t *testing.T) {
	text := strings.ReplaceAll(pfSample, "N° 4512\n", "")
	_, err := NewProfessionalFishing().Extract(text, SeenLines{})
	require.ErrorIs(t, err, common.ErrFieldMissing)
	require.Contains(t, err.Error(), "invoice_number")
}

func TestProfessionalFishingMissingTotal(t *testing.T) {
	text := strings.ReplaceAll(pfSample, "TOTAL: $ 29.726\n", "")
	_, err := NewProfessionalFishing().Extract(text, SeenLines{})
	require.ErrorIs(t, err, common.ErrFieldMissing)
	require.Contains(t, err.Error(), "total")
}
