// Package source acquires raw document content: text from PDFs and scanned
// images, cell grids from spreadsheet exports.
package source

import (
	"context"
	"fmt"

	"github.com/hookeddocs/hookeddocs/constants"
	"github.com/hookeddocs/hookeddocs/internal/common"
)

// RawDocument is the transient content of one source file before extraction.
// Exactly one of Text or Grid is populated, per Kind.
type RawDocument struct {
	Path string
	Ext  string
	Kind constants.DocumentKind
	Text string
	Grid [][]string
}

// TextExtractor turns one document file into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// TabularReader turns one spreadsheet file into a raw cell grid.
type TabularReader interface {
	ReadGrid(ctx context.Context, path string) ([][]string, error)
}

// Acquirer dispatches a file to the adapter for its kind.
type Acquirer struct {
	PDF     TextExtractor
	Image   TextExtractor
	Tabular TabularReader
}

// Acquire reads the file's content according to its kind.
func (a *Acquirer) Acquire(ctx context.Context, path, ext string) (*RawDocument, error) {
	kind := constants.MapExtToKind(ext)
	if kind == "" {
		return nil, fmt.Errorf("extension %q: %w", ext, common.ErrInvalidInput)
	}
	doc := &RawDocument{Path: path, Ext: ext, Kind: kind}

	var err error
	switch kind {
	case constants.KindPDF:
		if a.PDF == nil {
			return nil, fmt.Errorf("no pdf extractor configured: %w", common.ErrInvalidInput)
		}
		doc.Text, err = a.PDF.ExtractText(ctx, path)
	case constants.KindImage:
		if a.Image == nil {
			return nil, fmt.Errorf("no image extractor configured: %w", common.ErrInvalidInput)
		}
		doc.Text, err = a.Image.ExtractText(ctx, path)
	case constants.KindTabular:
		if a.Tabular == nil {
			return nil, fmt.Errorf("no tabular reader configured: %w", common.ErrInvalidInput)
		}
		doc.Grid, err = a.Tabular.ReadGrid(ctx, path)
	default:
		return nil, fmt.Errorf("kind %q: %w", kind, common.ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}
