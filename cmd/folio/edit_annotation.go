package main

import (
	"context"
	"fmt"

	"github.com/aretw0/folio/pkg/annotate"
	"github.com/aretw0/folio/pkg/core"
)

// findAnnotation locates an annotation by id across all notes.
func findAnnotation(store *core.Store, annotationID string) (core.Note, core.Annotation, error) {
	for _, n := range store.Notes() {
		if a, ok := n.Annotation(annotationID); ok {
			return n, a, nil
		}
	}
	return core.Note{}, core.Annotation{}, fmt.Errorf("annotation not found: %s", annotationID)
}

// openEditPopup returns an engine whose popup is bound to annotationID.
// PDF notes are moved to the annotation's page first.
func openEditPopup(ctx context.Context, store *core.Store, annotationID string) (*annotate.Engine, error) {
	note, a, err := findAnnotation(store, annotationID)
	if err != nil {
		return nil, err
	}
	engine := newEngine(store, note, true)
	if note.IsPDF && a.Page != 0 && a.Page != note.Page() {
		if err := engine.GoToPage(ctx, a.Page); err != nil {
			engine.Close()
			return nil, err
		}
	}
	if !engine.Click(annotationID, annotate.Point{}) {
		engine.Close()
		return nil, fmt.Errorf("annotation %s cannot be edited", annotationID)
	}
	return engine, nil
}
