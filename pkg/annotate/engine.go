package annotate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/render"
)

// Engine ties a View to the store: it turns selections and clicks into popup
// state and renders the view with its annotations applied.
type Engine struct {
	store  *core.Store
	view   View
	popup  *Popup
	cache  *render.Cache
	logger *slog.Logger

	preview     bool
	unsubscribe func()
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithCache shares a render cache between engines.
func WithCache(c *render.Cache) EngineOption {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithPreview sets the initial display mode.
func WithPreview(preview bool) EngineOption {
	return func(e *Engine) {
		e.preview = preview
	}
}

// NewEngine binds view to store. Call Close to detach from the store.
func NewEngine(store *core.Store, view View, opts ...EngineOption) *Engine {
	e := &Engine{
		store:  store,
		view:   view,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	if view.PreviewOnly() {
		e.preview = true
	}
	if e.cache == nil {
		e.cache = render.NewCache(render.DefaultCacheSize)
	}
	e.popup = newPopup(store, e.logger)
	e.unsubscribe = store.Subscribe(func(core.State) {
		e.popup.refresh()
	})
	return e
}

// Close detaches the engine from store notifications.
func (e *Engine) Close() {
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
}

// View returns the bound view.
func (e *Engine) View() View { return e.view }

// Popup returns the popup controller.
func (e *Engine) Popup() *Popup { return e.popup }

// Preview reports whether the rendered display is shown.
func (e *Engine) Preview() bool { return e.preview }

// SetPreview switches between editor and rendered display. Any pending
// popup state is discarded.
func (e *Engine) SetPreview(preview bool) {
	if e.view.PreviewOnly() {
		preview = true
	}
	if preview != e.preview {
		e.preview = preview
		e.popup.Close()
	}
}

func (e *Engine) note() (core.Note, bool) {
	n, ok := e.store.Note(e.view.NoteID())
	if !ok || !e.view.Accepts(n) {
		return core.Note{}, false
	}
	return n, true
}

// SelectInEditor handles a selection in the plain-text editor. It opens the
// create popup and reports whether a selection was captured.
func (e *Engine) SelectInEditor(sel EditorSelection) bool {
	if e.preview {
		return false
	}
	n, ok := e.note()
	if !ok {
		return false
	}
	c, ok := CaptureEditor(sel)
	if !ok {
		return false
	}
	e.popup.openCreate(n.ID, c, e.view.Page(n))
	return true
}

// SelectInPreview handles a selection in the rendered display. A selection
// anchored inside a marker is treated as a click on that marker.
func (e *Engine) SelectInPreview(sel PreviewSelection) bool {
	if !e.preview {
		return false
	}
	if sel.OnMarker != "" {
		return e.Click(sel.OnMarker, sel.Anchor)
	}
	n, ok := e.note()
	if !ok {
		return false
	}
	c, ok := CapturePreview(e.view.Source(n), sel)
	if !ok {
		return false
	}
	if !c.Exact {
		e.logger.Debug("selection not found in source", "note", n.ID, "text", c.Text)
	}
	e.popup.openCreate(n.ID, c, e.view.Page(n))
	return true
}

// Click opens the edit popup for a marker. Unknown ids are ignored.
func (e *Engine) Click(annotationID string, anchor Point) bool {
	if !e.preview {
		return false
	}
	n, ok := e.note()
	if !ok {
		return false
	}
	if _, ok := n.Annotation(annotationID); !ok {
		return false
	}
	e.popup.openEdit(n.ID, annotationID, anchor)
	return true
}

// ClearSelection drops a pending creation. An open edit popup stays.
func (e *Engine) ClearSelection() {
	if e.popup.Mode() == ModeCreate {
		e.popup.Close()
	}
}

// GoToPage navigates a paginated view and discards popup state.
func (e *Engine) GoToPage(ctx context.Context, page int) error {
	return e.navigate(func(v *PDFView) error { return v.GoToPage(ctx, page) })
}

// NextPage navigates forward in a paginated view.
func (e *Engine) NextPage(ctx context.Context) error {
	return e.navigate(func(v *PDFView) error { return v.NextPage(ctx) })
}

// PrevPage navigates backward in a paginated view.
func (e *Engine) PrevPage(ctx context.Context) error {
	return e.navigate(func(v *PDFView) error { return v.PrevPage(ctx) })
}

func (e *Engine) navigate(fn func(*PDFView) error) error {
	v, ok := e.view.(*PDFView)
	if !ok {
		return nil
	}
	e.popup.Close()
	return fn(v)
}

// Render returns the HTML of the view with annotations applied. A missing
// or unsuitable note renders the view's empty state.
func (e *Engine) Render(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	n, ok := e.note()
	if !ok {
		return e.view.EmptyState(), nil
	}

	source := e.view.Source(n)
	anns := e.view.Annotations(n)
	tag := strconv.Itoa(e.view.Page(n)) + "/" + strconv.Itoa(len(n.Pages))
	key := render.Key(tag, source, anns)
	if out, ok := e.cache.Get(key); ok {
		return out, nil
	}

	base, err := e.view.Base(n)
	if err != nil {
		return "", fmt.Errorf("failed to build render tree: %w", err)
	}
	tree, skipped := render.DecorateReport(base, anns)
	for _, id := range skipped {
		e.logger.Debug("annotation not placed", "note", n.ID, "annotation", id)
	}

	out, err := render.RenderHTML(tree)
	if err != nil {
		return "", err
	}
	e.cache.Put(key, out)
	return out, nil
}
