package grammar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hookeddocs/hookeddocs/internal/common"
)

const raSample = `R.U.T.: 76.214.117-5
FACTURA ELECTRONICA
N° 1024
FECHA EMISION : 5 - ENERO DE 2025
PAGO : CONTADO
CODIGO DESCRIPCION CANTIDAD UNIDAD PRECIO DESC % MONTO TOTAL
RA-01 SENUELO COUNTDOWN 3 UN 8.900 0 % 0 26.700
RA-01 SENUELO COUNTDOWN 3 UN 8.900 0 % 0 26.700
NETO 26.700
I.V.A. 19% 5.073
TOTAL 31.773
`

func TestRapalaExtract(t *testing.T) {
	rec, err := NewRapala().Extract(raSample, SeenLines{})
	require.NoError(t, err)

	require.Equal(t, rapalaName, rec.Issuer.Name)
	require.Equal(t, "762141175", rec.Issuer.RUT)
	require.Equal(t, rapalaAddress, rec.Issuer.Address)
	require.Equal(t, rapalaPhone, rec.Issuer.Phone)
	require.Equal(t, "1024", rec.InvoiceNumber)
	require.Equal(t, "05012025", rec.IssueDate)
	require.Equal(t, "CONTADO", rec.PayMethod)

	require.Len(t, rec.Items, 1)
	require.Equal(t, "RA-01", rec.Items[0].SKU)
	require.Equal(t, "SENUELO COUNTDOWN", rec.Items[0].Description)
	require.Equal(t, 3, rec.Items[0].Quantity)
	require.InDelta(t, 8900, rec.Items[0].UnitPrice, 1e-9)
	require.InDelta(t, 26700, rec.Items[0].Subtotal, 1e-9)

	require.NotNil(t, rec.Subtotal)
	require.InDelta(t, 26700, *rec.Subtotal, 1e-9)
	require.NotNil(t, rec.Tax)
	require.InDelta(t, 5073, *rec.Tax, 1e-9)
	require.NotNil(t, rec.Total)
	require.InDelta(t, 31773, *rec.Total, 1e-9)
}

func TestRapalaCorrectionsRepairFolioMarker(t *testing.T) {
	// OCR renders the folio marker as "N*"; the correction table restores it.
	text := strings.ReplaceAll(raSample, "N° 1024", "N* 1024")
	rec, err := NewRapala().Extract(text, SeenLines{})
	require.NoError(t, err)
	require.Equal(t, "1024", rec.InvoiceNumber)
}

func TestRapalaMissingInvoiceNumber(t *testing.T) {
	text := `R.U.T.: 76.214.117-5
FACTURA ELECTRONICA
FECHA EMISION : 5 - ENERO DE 2025
NETO 26.700
I.V.A. 19% 5.073
TOTAL 31.773
`
	_, err := NewRapala().Extract(text, SeenLines{})
	require.ErrorIs(t, err, common.ErrFieldMissing)
	require.Contains(t, err.Error(), "invoice_number")
}
