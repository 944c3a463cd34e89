package pdfimport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/folio/pkg/core"
)

var (
	// ErrNotPDF is returned for input that does not start with a PDF header.
	ErrNotPDF = errors.New("not a pdf file")

	// ErrImportFailed wraps any failure after the input was accepted.
	ErrImportFailed = errors.New("pdf import failed")
)

var pdfMagic = []byte("%PDF-")

// Importer turns PDF files into PDF notes on a store.
type Importer struct {
	store     *core.Store
	extractor Extractor
	logger    *slog.Logger
	progress  func(percent int)
}

// Option configures an Importer.
type Option func(*Importer)

// WithExtractor replaces the default seehuhn-based extractor.
func WithExtractor(e Extractor) Option {
	return func(i *Importer) {
		if e != nil {
			i.extractor = e
		}
	}
}

// WithLogger sets the importer logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithProgress registers a callback receiving percentages from 10 to 100.
func WithProgress(fn func(percent int)) Option {
	return func(i *Importer) {
		i.progress = fn
	}
}

// NewImporter returns an importer writing to store.
func NewImporter(store *core.Store, opts ...Option) *Importer {
	i := &Importer{
		store:     store,
		extractor: PDFExtractor{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Importer) report(percent int) {
	if i.progress != nil {
		i.progress(percent)
	}
}

// Import reads a PDF from r and stores it as a new active note titled after
// fileName. Nothing is stored when any step fails.
func (i *Importer) Import(ctx context.Context, fileName string, r io.ReadSeeker) (core.Note, error) {
	head := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(r, head); err != nil || !bytes.Equal(head, pdfMagic) {
		return core.Note{}, fmt.Errorf("%w: %s", ErrNotPDF, fileName)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return core.Note{}, fmt.Errorf("%w: %s: %w", ErrImportFailed, fileName, err)
	}

	i.report(10)
	i.logger.Debug("importing pdf", "file", fileName)
	i.report(20)

	pages, err := i.extractor.ExtractPages(ctx, r, func(done, total int) {
		if total > 0 {
			i.report(30 + done*50/total)
		}
	})
	if err != nil {
		i.logger.Error("pdf extraction failed", "file", fileName, "error", err)
		return core.Note{}, fmt.Errorf("%w: %s: %w", ErrImportFailed, fileName, err)
	}
	if len(pages) == 0 {
		i.report(30)
	}
	i.report(80)

	note, err := i.store.CreatePDFNote(ctx, core.PDFNoteInput{
		Title:            TitleFromFileName(fileName),
		Content:          BuildContent(pages),
		Pages:            pages,
		OriginalFileName: filepath.Base(fileName),
	})
	if err != nil {
		return core.Note{}, fmt.Errorf("%w: %s: %w", ErrImportFailed, fileName, err)
	}

	i.report(100)
	i.logger.Info("pdf imported", "file", fileName, "note", note.ID, "pages", len(pages))
	return note, nil
}

// ImportFile opens path and imports it.
func (i *Importer) ImportFile(ctx context.Context, path string) (core.Note, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.Note{}, fmt.Errorf("%w: %w", ErrImportFailed, err)
	}
	defer f.Close()
	return i.Import(ctx, filepath.Base(path), f)
}

// Result is the outcome of importing one file of a batch.
type Result struct {
	Path string
	Note core.Note
	Err  error
}

// ImportGlob imports every file matching pattern (doublestar syntax, e.g.
// "papers/**/*.pdf"). Per-file failures are recorded in the results; only a
// bad pattern or a cancelled context aborts the batch.
func (i *Importer) ImportGlob(ctx context.Context, pattern string) ([]Result, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	results := make([]Result, 0, len(matches))
	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		note, err := i.ImportFile(ctx, path)
		if err != nil {
			i.logger.Warn("skipping file", "path", path, "error", err)
		}
		results = append(results, Result{Path: path, Note: note, Err: err})
	}
	return results, nil
}
