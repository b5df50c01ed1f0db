package grammar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hookeddocs/hookeddocs/internal/common"
)

const isSample = `CHRISTIAN JONATHAN POZO OVALLE
R.U.T.: 77.111.222-3
GIRO: VENTA DE ARTICULOS DE PESCA
BLANCO 1145- VALPARAISO
EMAIL : CPOZOOGMAIL
TELEFONO : 32-2123456
FACTURA ELECTRONICA
N 88145
FECHA EMISION: 9 DE JUNIO DEL 2024
SEÑOR(ES): PESCA SUR LTDA
R.U.T. : 76.999.888-7
DIRECCION: AVENIDA COSTANERA 45
COMUNA — PUERTO MONTT CIUDAD: PUERTO MONTT
ARTICULOS DE PESCA 4 12.500 50.000
MONTO NETO $ 50.000
I.V.A. 19% $ 9.500
TOTAL $ 59.500
FORMA DE PAGO : CONTADO
`

func TestIssuedScanExtract(t *testing.T) {
	rec, err := NewIssuedScan().Extract(isSample, SeenLines{})
	require.NoError(t, err)

	require.Equal(t, issuedScanIssuerName, rec.Issuer.Name)
	require.Equal(t, "771112223", rec.Issuer.RUT)
	require.Equal(t, "VENTA DE ARTICULOS DE PESCA", rec.Issuer.EconomicActivity)
	require.Equal(t, "BLANCO 1145- VALPARAISO", rec.Issuer.Address)
	// The correction table restores the at-sign the OCR drops.
	require.Equal(t, "CPOZO@GMAIL.COM", rec.Issuer.Email)
	require.Equal(t, "322123456", rec.Issuer.Phone)
	require.Equal(t, "FACTURA ELECTRONICA", rec.InvoiceType)
	// The printed folio is the trailing three digits of the OCR blob.
	require.Equal(t, "145", rec.InvoiceNumber)
	require.Equal(t, "09062024", rec.IssueDate)
	require.Equal(t, "CONTADO", rec.PayMethod)

	require.NotNil(t, rec.Buyer)
	require.Equal(t, "PESCA SUR LTDA", rec.Buyer.Name)
	require.Equal(t, "769998887", rec.Buyer.RUT)
	require.Equal(t, "AVENIDA COSTANERA 45", rec.Buyer.Address)
	require.Equal(t, "PUERTO MONTT", rec.Buyer.Commune)

	require.Len(t, rec.Items, 1)
	require.Equal(t, "ARTICULOS DE PESCA", rec.Items[0].Description)
	require.Equal(t, 4, rec.Items[0].Quantity)
	require.InDelta(t, 12500, rec.Items[0].UnitPrice, 1e-9)
	require.InDelta(t, 50000, rec.Items[0].Subtotal, 1e-9)

	require.NotNil(t, rec.Subtotal)
	require.InDelta(t, 50000, *rec.Subtotal, 1e-9)
	require.NotNil(t, rec.Tax)
	require.InDelta(t, 9500, *rec.Tax, 1e-9)
	require.NotNil(t, rec.Total)
	require.InDelta(t, 59500, *rec.Total, 1e-9)
}

func TestIssuedScanImplausibleFolioIsMissing(t *testing.T) {
	// A trailing group outside 100-999 cannot be a printed folio.
	text := strings.Replace(isSample, "N 88145", "N 88099", 1)
	_, err := NewIssuedScan().Extract(text, SeenLines{})
	require.ErrorIs(t, err, common.ErrFieldMissing)
	require.Contains(t, err.Error(), "invoice_number")
}
