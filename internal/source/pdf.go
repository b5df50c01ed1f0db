package source

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/hookeddocs/hookeddocs/internal/common"
)

// PDFExtractor extracts the embedded text layer of a PDF, all pages
// concatenated in order.
type PDFExtractor struct {
	logger *slog.Logger
}

func NewPDFExtractor(logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{logger: logger}
}

func (e *PDFExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", common.WrapError(err, "open pdf")
	}
	defer doc.Close()

	var sb strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := doc.Text(i)
		if err != nil {
			return "", common.WrapError(err, "read pdf page")
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	e.logger.Debug("source.pdf_extracted", "path", path, "pages", doc.NumPage(), "chars", sb.Len())
	return sb.String(), nil
}
