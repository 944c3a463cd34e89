package annotate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/aretw0/folio/pkg/core"
)

// Mode is the popup's current purpose.
type Mode int

const (
	ModeClosed Mode = iota
	ModeCreate
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	default:
		return "closed"
	}
}

// Popup is the headless annotation popup. In create mode it holds a pending
// selection; in edit mode it is bound to an existing annotation by id and
// exposes color, tag and delete actions.
//
// A Popup is not safe for concurrent use; it is driven by a single view.
type Popup struct {
	store  *core.Store
	logger *slog.Logger

	mode   Mode
	noteID string
	anchor Point

	capture Capture
	page    int

	annotationID string

	input       string
	suggestions []string
}

func newPopup(store *core.Store, logger *slog.Logger) *Popup {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Popup{store: store, logger: logger}
}

// Mode returns the current mode.
func (p *Popup) Mode() Mode { return p.mode }

// Anchor returns where the popup was opened.
func (p *Popup) Anchor() Point { return p.anchor }

// Capture returns the pending selection in create mode.
func (p *Popup) Capture() (Capture, bool) {
	return p.capture, p.mode == ModeCreate
}

// AnnotationID returns the bound annotation in edit mode.
func (p *Popup) AnnotationID() (string, bool) {
	return p.annotationID, p.mode == ModeEdit
}

// Annotation returns the current stored value of the bound annotation.
func (p *Popup) Annotation() (core.Annotation, bool) {
	if p.mode != ModeEdit {
		return core.Annotation{}, false
	}
	return p.store.Annotation(p.noteID, p.annotationID)
}

// Input returns the tag input field.
func (p *Popup) Input() string { return p.input }

// Suggestions returns the tags currently offered for the input.
func (p *Popup) Suggestions() []string {
	return slices.Clone(p.suggestions)
}

// CreateTagOffer returns the tag a "create tag" action would add. It is
// offered when the input is not blank and no known tag matches.
func (p *Popup) CreateTagOffer() (string, bool) {
	if p.mode != ModeEdit || len(p.suggestions) > 0 {
		return "", false
	}
	return NormalizeTag(p.input)
}

func (p *Popup) openCreate(noteID string, c Capture, page int) {
	p.reset()
	p.mode = ModeCreate
	p.noteID = noteID
	p.capture = c
	p.page = page
	p.anchor = c.Anchor
}

func (p *Popup) openEdit(noteID, annotationID string, anchor Point) {
	p.reset()
	p.mode = ModeEdit
	p.noteID = noteID
	p.annotationID = annotationID
	p.anchor = anchor
}

// Close dismisses the popup without side effects.
func (p *Popup) Close() {
	p.reset()
}

// Escape is the keyboard form of Close.
func (p *Popup) Escape() {
	p.Close()
}

func (p *Popup) reset() {
	*p = Popup{store: p.store, logger: p.logger}
}

// Apply picks a type and color. In create mode the pending selection is
// stored as a new annotation and the popup closes. In edit mode the bound
// annotation's color changes and the popup stays open; the type cannot
// change there.
func (p *Popup) Apply(ctx context.Context, t core.AnnotationType, color string) error {
	if !t.Valid() || !core.InPalette(t, color) {
		return fmt.Errorf("%w: %s %q", ErrColorType, t, color)
	}

	switch p.mode {
	case ModeCreate:
		in := core.AnnotationInput{
			Type:        t,
			Color:       color,
			Text:        p.capture.Text,
			StartOffset: p.capture.Range.Start,
			EndOffset:   p.capture.Range.End,
			Tags:        []string{},
			Page:        p.page,
		}
		a, err := p.store.AddAnnotation(ctx, p.noteID, in)
		if err != nil {
			return fmt.Errorf("failed to create annotation: %w", err)
		}
		p.logger.Debug("annotation created", "note", p.noteID, "annotation", a.ID, "class", a.Class())
		p.Close()
		return nil

	case ModeEdit:
		a, ok := p.Annotation()
		if !ok {
			p.Close()
			return nil
		}
		if a.Type != t {
			return fmt.Errorf("%w: annotation is a %s", ErrColorType, a.Type)
		}
		if err := p.store.UpdateAnnotation(ctx, p.noteID, p.annotationID, core.AnnotationPatch{Color: &color}); err != nil {
			return fmt.Errorf("failed to update annotation: %w", err)
		}
		return nil

	default:
		return ErrNoPopup
	}
}

// SetInput updates the tag input and recomputes suggestions.
func (p *Popup) SetInput(s string) {
	p.input = s
	p.refresh()
}

// SubmitTag adds the trimmed input as a tag.
func (p *Popup) SubmitTag(ctx context.Context) error {
	return p.addTag(ctx, p.input)
}

// SelectSuggestion adds one of the offered tags.
func (p *Popup) SelectSuggestion(ctx context.Context, tag string) error {
	return p.addTag(ctx, tag)
}

func (p *Popup) addTag(ctx context.Context, raw string) error {
	a, err := p.editTarget()
	if err != nil {
		return err
	}
	tag, ok := NormalizeTag(raw)
	if !ok || a.HasTag(tag) {
		return nil
	}
	tags := append(slices.Clone(a.Tags), tag)
	if err := p.store.UpdateAnnotation(ctx, p.noteID, p.annotationID, core.AnnotationPatch{Tags: &tags}); err != nil {
		return fmt.Errorf("failed to add tag: %w", err)
	}
	p.input = ""
	p.refresh()
	return nil
}

// RemoveTag drops tag from the bound annotation.
func (p *Popup) RemoveTag(ctx context.Context, tag string) error {
	a, err := p.editTarget()
	if err != nil {
		return err
	}
	if !a.HasTag(tag) {
		return nil
	}
	tags := slices.DeleteFunc(slices.Clone(a.Tags), func(t string) bool { return t == tag })
	if err := p.store.UpdateAnnotation(ctx, p.noteID, p.annotationID, core.AnnotationPatch{Tags: &tags}); err != nil {
		return fmt.Errorf("failed to remove tag: %w", err)
	}
	p.refresh()
	return nil
}

// Delete removes the bound annotation and closes the popup.
func (p *Popup) Delete(ctx context.Context) error {
	if _, err := p.editTarget(); err != nil {
		return err
	}
	if err := p.store.DeleteAnnotation(ctx, p.noteID, p.annotationID); err != nil {
		return fmt.Errorf("failed to delete annotation: %w", err)
	}
	p.logger.Debug("annotation deleted", "note", p.noteID, "annotation", p.annotationID)
	p.Close()
	return nil
}

func (p *Popup) editTarget() (core.Annotation, error) {
	switch p.mode {
	case ModeClosed:
		return core.Annotation{}, ErrNoPopup
	case ModeCreate:
		return core.Annotation{}, ErrWrongMode
	}
	a, ok := p.Annotation()
	if !ok {
		p.Close()
		return core.Annotation{}, ErrNoPopup
	}
	return a, nil
}

// refresh recomputes suggestions from the store. An edit popup whose
// annotation disappeared closes itself.
func (p *Popup) refresh() {
	if p.mode != ModeEdit {
		p.suggestions = nil
		return
	}
	a, ok := p.Annotation()
	if !ok {
		p.Close()
		return
	}
	p.suggestions = Suggest(p.store.Tags(), p.input, a.Tags)
}
