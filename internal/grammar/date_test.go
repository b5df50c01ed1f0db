package grammar

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hookeddocs/hookeddocs/internal/common"
)

func TestNormalizeDateLongForm(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"15 DE MARZO DEL 2024", "15032024"},
		{"4 DE ABRIL DEL 2024", "04042024"},
		{"9 DE JUNIO DEL 2024", "09062024"},
		{"5 - ENERO DE 2025", "05012025"},
		{"31 DE DICIEMBRE DEL 2023", "31122023"},
	}
	for _, tc := range cases {
		got, err := NormalizeDate(tc.raw)
		require.NoError(t, err, tc.raw)
		require.Equal(t, tc.want, got, tc.raw)
	}
}

func TestNormalizeDateSlashForm(t *testing.T) {
	got, err := NormalizeDate("02/05/2024")
	require.NoError(t, err)
	require.Equal(t, "02052024", got)
}

func TestNormalizeDateFormsConverge(t *testing.T) {
	long, err := NormalizeDate("15 DE MARZO DEL 2024")
	require.NoError(t, err)
	slash, err := NormalizeDate("15/03/2024")
	require.NoError(t, err)
	require.Equal(t, "15032024", long)
	require.Equal(t, long, slash)
}

func TestNormalizeDateUnknownMonth(t *testing.T) {
	// A month name outside the table is an error, never a silent placeholder.
	_, err := NormalizeDate("15 DE MARZZO DEL 2024")
	require.ErrorIs(t, err, common.ErrMalformedDate)
}

func TestNormalizeDateUnrecognizedShape(t *testing.T) {
	_, err := NormalizeDate("2024-03-15")
	require.ErrorIs(t, err, common.ErrMalformedDate)
}
