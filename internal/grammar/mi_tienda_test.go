package grammar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hookeddocs/hookeddocs/internal/common"
)

const mtSample = `MI TIENDA SPA
RUT: 77.456.789-0
AV PROVIDENCIA 1234, PROVIDENCIA
MAIL: CONTACTO@MITIENDA.CL
FACTURA ELECTRONICA N° 889
FECHA EMISION: 02/05/2024
TELEFONO: 22 345 6789
FORMA DE PAGO:
CREDITO 30 DIAS
SENOR(ES): PESCADERIA DEL PUERTO
RUT: 76.555.444-3
CANTIDAD SKU ITEM VALOR UNITARIO % DESCT. SUBTOTAL
2 RE-88 REEL SPINNING
SERIE PLATA $ 25.990 10 % $ 46.782
1 CA-10 CANA TELESCOPICA $ 12.500 0 % $ 12.500
NOTA: ENTREGA EN TIENDA
NETO ($) $ 59.282
I.V.A. 19% $ 11.264
TOTAL ($) $ 70.546
`

func TestMiTiendaExtract(t *testing.T) {
	rec, err := NewMiTienda().Extract(mtSample, SeenLines{})
	require.NoError(t, err)

	require.Equal(t, "MI TIENDA SPA", rec.Issuer.Name)
	require.Equal(t, "774567890", rec.Issuer.RUT)
	require.Equal(t, "AV PROVIDENCIA 1234, PROVIDENCIA", rec.Issuer.Address)
	require.Equal(t, "CONTACTO@MITIENDA.CL", rec.Issuer.Email)
	require.Equal(t, "223456789", rec.Issuer.Phone)
	require.Equal(t, "889", rec.InvoiceNumber)
	require.Equal(t, "02052024", rec.IssueDate)
	require.Equal(t, "CREDITO 30 DIAS", rec.PayMethod)

	// The wrapped description line folds back into its opening row.
	require.Len(t, rec.Items, 2)
	require.Equal(t, 2, rec.Items[0].Quantity)
	require.Equal(t, "RE-88", rec.Items[0].SKU)
	require.Equal(t, "REEL SPINNING SERIE PLATA", rec.Items[0].Description)
	require.InDelta(t, 25990, rec.Items[0].UnitPrice, 1e-9)
	require.InDelta(t, 10, rec.Items[0].Discount, 1e-9)
	require.InDelta(t, 46782, rec.Items[0].Subtotal, 1e-9)
	require.Equal(t, "CA-10", rec.Items[1].SKU)
	require.InDelta(t, 0, rec.Items[1].Discount, 1e-9)

	require.NotNil(t, rec.Subtotal)
	require.InDelta(t, 59282, *rec.Subtotal, 1e-9)
	require.NotNil(t, rec.Tax)
	require.InDelta(t, 11264, *rec.Tax, 1e-9)
	require.NotNil(t, rec.Total)
	require.InDelta(t, 70546, *rec.Total, 1e-9)
}

func TestMiTiendaBuyerRUTDoesNotOverwriteIssuer(t *testing.T) {
	rec, err := NewMiTienda().Extract(mtSample, SeenLines{})
	require.NoError(t, err)
	// The buyer block repeats the RUT label; only the first occurrence counts.
	require.Equal(t, "774567890", rec.Issuer.RUT)
}

func TestMiTiendaMissingTotal(t *testing.T) {
	text := strings.ReplaceAll(mtSample, "TOTAL ($) $ 70.546\n", "")
	_, err := NewMiTienda().Extract(text, SeenLines{})
	require.ErrorIs(t, err, common.ErrFieldMissing)
	require.Contains(t, err.Error(), "total")
}
