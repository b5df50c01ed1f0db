package grammar

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hookeddocs/hookeddocs/constants"
	"github.com/hookeddocs/hookeddocs/internal/common"
)

func TestSeenLines(t *testing.T) {
	seen := SeenLines{}
	require.False(t, seen.Seen("AN-14 ANZUELO 10 1.500 15.000"))
	require.True(t, seen.Seen("AN-14 ANZUELO 10 1.500 15.000"))
	require.False(t, seen.Seen("LI-20 LINEA 2 4.990 9.980"))
}

func TestClassifyReceivedByMarker(t *testing.T) {
	reg, err := ForCategory(constants.InvoicesReceived)
	require.NoError(t, err)

	g, err := reg.Classify("FACTURA\nPROFESSIONAL FISHING SPA\nR.U.T: 76.123.456-7", "pdf")
	require.NoError(t, err)
	require.Equal(t, "professional_fishing", g.ID())

	g, err = reg.Classify("MI TIENDA SPA\nRUT: 77.456.789-0", "pdf")
	require.NoError(t, err)
	require.Equal(t, "mi_tienda", g.ID())

	g, err = reg.Classify("FACTURA ELECTRONICA\nR.U.T.: 76.214.117-5", "pdf")
	require.NoError(t, err)
	require.Equal(t, "rapala", g.ID())
}

func TestClassifyMarkerPriorityIsRegistrationOrder(t *testing.T) {
	reg, err := ForCategory(constants.InvoicesReceived)
	require.NoError(t, err)

	// A document carrying two markers resolves to the earlier registration.
	text := "PROFESSIONAL FISHING SPA\nDESPACHO VIA MI TIENDA SPA"
	g, err := reg.Classify(text, "pdf")
	require.NoError(t, err)
	require.Equal(t, "professional_fishing", g.ID())
}

func TestClassifyUnrecognizedVendor(t *testing.T) {
	reg, err := ForCategory(constants.InvoicesReceived)
	require.NoError(t, err)

	_, err = reg.Classify("FACTURA ELECTRONICA\nCOMERCIAL DESCONOCIDA LTDA", "pdf")
	require.ErrorIs(t, err, common.ErrVendorUnrecognized)
}

func TestClassifyIssuedByExtension(t *testing.T) {
	reg, err := ForCategory(constants.InvoicesIssued)
	require.NoError(t, err)

	g, err := reg.Classify("anything", "pdf")
	require.NoError(t, err)
	require.Equal(t, "issued_document", g.ID())

	for _, ext := range []string{"png", "jpg", "jpeg", ".JPG"} {
		g, err = reg.Classify("anything", ext)
		require.NoError(t, err, ext)
		require.Equal(t, "issued_scan", g.ID(), ext)
	}

	_, err = reg.Classify("anything", "xlsx")
	require.ErrorIs(t, err, common.ErrVendorUnrecognized)
}

func TestForCategoryRejectsTabular(t *testing.T) {
	_, err := ForCategory(constants.PhysicalTickets)
	require.ErrorIs(t, err, common.ErrInvalidInput)
	_, err = ForCategory(constants.ElectronicTickets)
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestApplyCorrectionsUppercasesAndRepairs(t *testing.T) {
	out := ApplyCorrections("issued_document", "email: cpozoOGMAIL")
	require.Equal(t, "EMAIL: CPOZO@GMAIL", out)

	out = ApplyCorrections("issued_scan", "N* 145")
	require.Equal(t, "Nº 145", out)
}

func TestFoldAccents(t *testing.T) {
	require.Equal(t, "DIRECCION CANA NUNOA", FoldAccents("DIRECCIÓN CAÑA ÑUÑOA"))
}
