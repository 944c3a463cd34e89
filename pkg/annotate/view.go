package annotate

import (
	"context"

	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/render"
)

// View adapts one kind of note display to the Engine.
type View interface {
	// NoteID is the note being displayed.
	NoteID() string
	// Accepts reports whether the view can display n.
	Accepts(n core.Note) bool
	// EmptyState is shown when the note is missing or not accepted.
	EmptyState() string
	// Source is the canonical text selections are mapped against.
	Source(n core.Note) string
	// Page is the displayed page, 0 when the view is not paginated.
	Page(n core.Note) int
	// Annotations are the annotations in scope for the display.
	Annotations(n core.Note) []core.Annotation
	// Base is the undecorated render tree.
	Base(n core.Note) (*render.Node, error)
	// PreviewOnly reports whether the view lacks a plain-text editor.
	PreviewOnly() bool
}

// NoteView displays a Markdown note.
type NoteView struct {
	noteID string
	md     *render.MarkdownRenderer
}

// NewNoteView returns a view of the Markdown note noteID. A nil renderer
// gets a default one.
func NewNoteView(noteID string, md *render.MarkdownRenderer) *NoteView {
	if md == nil {
		md = render.NewMarkdownRenderer()
	}
	return &NoteView{noteID: noteID, md: md}
}

func (v *NoteView) NoteID() string { return v.noteID }

func (v *NoteView) Accepts(n core.Note) bool { return !n.IsPDF }

func (v *NoteView) EmptyState() string {
	return `<div class="empty-state">No note selected or create a new one.</div>`
}

func (v *NoteView) Source(n core.Note) string { return n.Content }

func (v *NoteView) Page(core.Note) int { return 0 }

func (v *NoteView) Annotations(n core.Note) []core.Annotation { return n.Annotations }

func (v *NoteView) Base(n core.Note) (*render.Node, error) { return v.md.Tree(n.Content) }

func (v *NoteView) PreviewOnly() bool { return false }

// NoPagesText is shown for a PDF note that has no pages.
const NoPagesText = "This PDF document has no pages."

// PDFView displays the current page of a PDF note.
type PDFView struct {
	noteID string
	store  *core.Store
}

// NewPDFView returns a view of the PDF note noteID. Page navigation goes
// through store.
func NewPDFView(store *core.Store, noteID string) *PDFView {
	return &PDFView{noteID: noteID, store: store}
}

func (v *PDFView) NoteID() string { return v.noteID }

func (v *PDFView) Accepts(n core.Note) bool { return n.IsPDF }

func (v *PDFView) EmptyState() string {
	return `<div class="empty-state">This note is not a PDF document.</div>`
}

func (v *PDFView) Source(n core.Note) string { return n.PageText(n.Page()) }

func (v *PDFView) Page(n core.Note) int { return n.Page() }

func (v *PDFView) Annotations(n core.Note) []core.Annotation {
	return n.PageAnnotations(n.Page())
}

func (v *PDFView) Base(n core.Note) (*render.Node, error) {
	if len(n.Pages) == 0 {
		return render.Document(render.Element("div",
			[]render.Attr{{Key: "class", Val: "empty-state"}},
			render.Text(NoPagesText))), nil
	}
	page := n.Page()
	return render.PDFPage(page, len(n.Pages), n.PageText(page)), nil
}

func (v *PDFView) PreviewOnly() bool { return true }

// GoToPage moves the reader. Out of range pages are ignored by the store.
func (v *PDFView) GoToPage(ctx context.Context, page int) error {
	return v.store.SetCurrentPage(ctx, v.noteID, page)
}

// NextPage advances one page.
func (v *PDFView) NextPage(ctx context.Context) error {
	n, ok := v.store.Note(v.noteID)
	if !ok {
		return nil
	}
	return v.GoToPage(ctx, n.Page()+1)
}

// PrevPage goes back one page.
func (v *PDFView) PrevPage(ctx context.Context) error {
	n, ok := v.store.Note(v.noteID)
	if !ok {
		return nil
	}
	return v.GoToPage(ctx, n.Page()-1)
}

var (
	_ View = (*NoteView)(nil)
	_ View = (*PDFView)(nil)
)
