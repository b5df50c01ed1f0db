package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hookeddocs/hookeddocs/constants"
	"github.com/hookeddocs/hookeddocs/internal/common"
)

type fakeText struct{ text string }

func (f *fakeText) ExtractText(_ context.Context, _ string) (string, error) {
	return f.text, nil
}

type fakeTabular struct{ grid [][]string }

func (f *fakeTabular) ReadGrid(_ context.Context, _ string) ([][]string, error) {
	return f.grid, nil
}

func TestAcquireDispatchesByKind(t *testing.T) {
	a := &Acquirer{
		PDF:     &fakeText{text: "pdf text"},
		Image:   &fakeText{text: "ocr text"},
		Tabular: &fakeTabular{grid: [][]string{{"H"}, {"1"}}},
	}
	ctx := context.Background()

	doc, err := a.Acquire(ctx, "a.pdf", "pdf")
	require.NoError(t, err)
	require.Equal(t, constants.KindPDF, doc.Kind)
	require.Equal(t, "pdf text", doc.Text)

	doc, err = a.Acquire(ctx, "b.JPG", ".JPG")
	require.NoError(t, err)
	require.Equal(t, constants.KindImage, doc.Kind)
	require.Equal(t, "ocr text", doc.Text)

	doc, err = a.Acquire(ctx, "c.xlsx", "xlsx")
	require.NoError(t, err)
	require.Equal(t, constants.KindTabular, doc.Kind)
	require.Len(t, doc.Grid, 2)
}

func TestAcquireUnknownExtension(t *testing.T) {
	a := &Acquirer{}
	_, err := a.Acquire(context.Background(), "a.docx", "docx")
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestAcquireMissingAdapter(t *testing.T) {
	a := &Acquirer{PDF: &fakeText{}}
	_, err := a.Acquire(context.Background(), "b.png", "png")
	require.ErrorIs(t, err, common.ErrInvalidInput)
}
