// Package folio is the Composition Root for the Folio annotation engine.
//
// It connects the note store (pkg/core) with its persistence adapters and
// exposes the engine pieces that sit on top of it.
//
// Folio keeps markdown notes and imported PDF documents in one persisted
// record and lets users highlight or underline passages, pick a color and
// attach tags. Annotations are stored as plain text plus offsets and are
// re-applied to the rendered document every time it is drawn.
//
// Features:
//
//   - **Single Record Store**: every mutation persists the whole state atomically.
//   - **Pluggable Storage**: JSON or YAML files (optionally git-versioned), SQLite, or memory.
//   - **Annotation Rendering**: markdown and PDF pages decorated by text matching.
//   - **Editor Popup**: color and tag editing with autocomplete.
//   - **PDF Import**: per-page text extraction into navigable notes.
//
// Usage:
//
//	ws, err := folio.Open(ctx, ".folio",
//		folio.WithVersioning(true),
//		folio.WithLogger(logger),
//	)
//
//	note, err := ws.Store.CreateNote(ctx)
package folio
