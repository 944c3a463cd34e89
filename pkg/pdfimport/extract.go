// Package pdfimport converts PDF files into paginated notes.
package pdfimport

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
	"seehuhn.de/go/pdf/tools/pdf-extract/text"
)

// Extractor pulls the raw text of every page out of a PDF, in page order.
// progress, when non-nil, is called after each page with the number of
// pages done and the total.
type Extractor interface {
	ExtractPages(ctx context.Context, r io.ReadSeeker, progress func(done, total int)) ([]string, error)
}

// PDFExtractor extracts text with seehuhn.de/go/pdf.
type PDFExtractor struct {
	// UseActualText prefers /ActualText replacements over glyph decoding.
	UseActualText bool
}

// ExtractPages implements Extractor. Pages are cleaned with CleanPage.
func (e PDFExtractor) ExtractPages(ctx context.Context, r io.ReadSeeker, progress func(done, total int)) ([]string, error) {
	doc, err := pdf.NewReader(r, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer doc.Close()

	total, err := pagetree.NumPages(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}

	var buf bytes.Buffer
	extractor := text.New(doc, &buf)
	extractor.UseActualText = e.UseActualText

	pages := make([]string, 0, total)
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		_, pageDict, err := pagetree.GetPage(doc, i)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d: %w", i+1, err)
		}

		buf.Reset()
		if err := extractor.ExtractPage(pageDict); err != nil {
			return nil, fmt.Errorf("failed to extract page %d: %w", i+1, err)
		}
		pages = append(pages, CleanPage(buf.String()))

		if progress != nil {
			progress(i+1, total)
		}
	}
	return pages, nil
}

var _ Extractor = PDFExtractor{}
