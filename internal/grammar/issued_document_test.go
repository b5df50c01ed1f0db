package grammar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const idSample = `R.U.T.: 77.111.222-3
COMERCIALIZADORA POZO E HIJOS LTDA
FACTURA ELECTRONICA
Nº 145
GIRO: VENTA DE ARTICULOS DE PESCA
BLANCO 1145, VALPARAISO
EMAIL : VENTAS@POZO.CL
TELEFONO : 32 212 3456
FECHA EMISION: 4 DE ABRIL DEL 2024
SEÑOR(ES): PESCA SUR LTDA
R.U.T.: 76.999.888-7
GIRO: COMERCIO
DIRECCION: AVENIDA COSTANERA 45
COMUNA PUERTO MONTT CIUDAD: PUERTO MONTT
TIPO DE COMPRA: DEL GIRO
CODIGO DESCRIPCION CANTIDAD PRECIO UNITARIO VALOR
ITEM DESCUENTO SUBTOTAL
- SENUELO RAPALA ORIGINAL 2 8.900 17.800
- LINEA TRENZADA 1 15.990 15.990
FORMA DE PAGO: TRANSFERENCIA
MONTO NETO $ 33.790
I.V.A. 19% $ 6.420
TOTAL $ 40.210
`

func TestIssuedDocumentExtract(t *testing.T) {
	rec, err := NewIssuedDocument().Extract(idSample, SeenLines{})
	require.NoError(t, err)

	require.Equal(t, "771112223", rec.Issuer.RUT)
	require.Equal(t, "COMERCIALIZADORA POZO E HIJOS LTDA", rec.Issuer.Name)
	require.Equal(t, "FACTURA ELECTRONICA", rec.InvoiceType)
	require.Equal(t, "145", rec.InvoiceNumber)
	require.Equal(t, "VENTA DE ARTICULOS DE PESCA", rec.Issuer.EconomicActivity)
	require.Equal(t, "BLANCO 1145, VALPARAISO", rec.Issuer.Address)
	require.Equal(t, "VENTAS@POZO.CL", rec.Issuer.Email)
	require.Equal(t, "322123456", rec.Issuer.Phone)
	require.Equal(t, "04042024", rec.IssueDate)
	require.Equal(t, "TRANSFERENCIA", rec.PayMethod)

	require.NotNil(t, rec.Buyer)
	require.Equal(t, "PESCA SUR LTDA", rec.Buyer.Name)
	require.Equal(t, "769998887", rec.Buyer.RUT)
	require.Equal(t, "COMERCIO", rec.Buyer.EconomicActivity)
	require.Equal(t, "AVENIDA COSTANERA 45", rec.Buyer.Address)
	require.Equal(t, "PUERTO MONTT", rec.Buyer.Commune)

	require.Len(t, rec.Items, 2)
	require.Equal(t, "SENUELO RAPALA ORIGINAL", rec.Items[0].Description)
	require.Equal(t, 2, rec.Items[0].Quantity)
	require.InDelta(t, 8900, rec.Items[0].UnitPrice, 1e-9)
	require.InDelta(t, 17800, rec.Items[0].Subtotal, 1e-9)
	require.Equal(t, "LINEA TRENZADA", rec.Items[1].Description)

	require.NotNil(t, rec.Subtotal)
	require.InDelta(t, 33790, *rec.Subtotal, 1e-9)
	require.NotNil(t, rec.Tax)
	require.InDelta(t, 6420, *rec.Tax, 1e-9)
	require.NotNil(t, rec.Total)
	require.InDelta(t, 40210, *rec.Total, 1e-9)
}

func TestIssuedDocumentSplitQuantityDigits(t *testing.T) {
	// Layout extraction occasionally splits a quantity across a space.
	text := idSample
	text = replaceOnce(t, text,
		"- SENUELO RAPALA ORIGINAL 2 8.900 17.800",
		"- SENUELO RAPALA ORIGINAL 1 2 8.900 17.800")
	rec, err := NewIssuedDocument().Extract(text, SeenLines{})
	require.NoError(t, err)
	require.Equal(t, 12, rec.Items[0].Quantity)
}

func replaceOnce(t *testing.T, text, old, new string) string {
	t.Helper()
	require.Contains(t, text, old)
	return strings.Replace(text, old, new, 1)
}
