package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/aretw0/folio"
	"github.com/aretw0/folio/pkg/annotate"
	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/render"
)

const defaultWidth = 80

// openWorkspace opens the configured store.
func openWorkspace(ctx context.Context) (*folio.Workspace, error) {
	ws, err := folio.Open(ctx, cfg.Storage.Path,
		folio.WithBackend(cfg.Storage.Backend),
		folio.WithVersioning(cfg.Storage.Versioning),
		folio.WithLogger(slog.Default()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open folio: %w", err)
	}
	return ws, nil
}

// resolveNote returns the note with id, or the active note when id is empty.
func resolveNote(store *core.Store, id string) (core.Note, error) {
	if id == "" {
		n, ok := store.ActiveNote()
		if !ok {
			return core.Note{}, fmt.Errorf("no active note; pass a note id or run 'folio open'")
		}
		return n, nil
	}
	n, ok := store.Note(id)
	if !ok {
		return core.Note{}, fmt.Errorf("note not found: %s", id)
	}
	return n, nil
}

// newEngine builds the engine matching the kind of note.
func newEngine(store *core.Store, n core.Note, preview bool) *annotate.Engine {
	var view annotate.View
	if n.IsPDF {
		view = annotate.NewPDFView(store, n.ID)
	} else {
		view = annotate.NewNoteView(n.ID, render.NewMarkdownRenderer())
	}
	return annotate.NewEngine(store, view,
		annotate.WithLogger(slog.Default()),
		annotate.WithCache(render.NewCache(cfg.Render.CacheSize)),
		annotate.WithPreview(preview),
	)
}

// findOccurrence returns the rune range of the n-th (1-based) occurrence of
// text in source.
func findOccurrence(source, text string, n int) (start, end int, ok bool) {
	if text == "" || n < 1 {
		return 0, 0, false
	}
	offset := 0
	for i := 1; ; i++ {
		idx := strings.Index(source[offset:], text)
		if idx < 0 {
			return 0, 0, false
		}
		pos := offset + idx
		if i == n {
			start = utf8.RuneCountInString(source[:pos])
			return start, start + utf8.RuneCountInString(text), true
		}
		offset = pos + len(text)
	}
}

// terminalWidth reports the stdout width, or defaultWidth when stdout is not
// a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// readContent returns value, or stdin when value is "-".
func readContent(value string) (string, error) {
	if value != "-" {
		return value, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}
