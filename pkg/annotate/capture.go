// Package annotate drives annotation creation and editing on top of a
// core.Store: it maps text selections to source ranges, runs the headless
// editor popup, and renders a view with its annotations applied.
package annotate

import (
	"strings"
	"unicode/utf8"
)

// Point is a screen position used to anchor the popup.
type Point struct {
	X, Y int
}

// Range is a half-open rune range into a source text.
type Range struct {
	Start, End int
}

// Len returns the number of runes covered.
func (r Range) Len() int {
	return r.End - r.Start
}

// Capture is a selection resolved against the canonical source text.
type Capture struct {
	Text   string
	Range  Range
	Anchor Point
	// Exact is false when the selected text could not be located in the
	// source and Range is a placeholder.
	Exact bool
}

// EditorSelection is a selection made in the plain-text editor. Start and
// End are rune offsets into Value as reported by the control.
type EditorSelection struct {
	Value      string
	Start, End int
	Anchor     Point
}

// PreviewSelection is a selection made in rendered markup. OnMarker holds the
// annotation id when the selection was anchored inside an existing marker.
type PreviewSelection struct {
	Text     string
	OnMarker string
	Anchor   Point
}

// CaptureEditor resolves an editor selection. Empty, reversed or out of
// range selections produce no capture. The text is not trimmed.
func CaptureEditor(sel EditorSelection) (Capture, bool) {
	n := utf8.RuneCountInString(sel.Value)
	if sel.Start < 0 || sel.End > n || sel.Start >= sel.End {
		return Capture{}, false
	}
	runes := []rune(sel.Value)
	return Capture{
		Text:   string(runes[sel.Start:sel.End]),
		Range:  Range{Start: sel.Start, End: sel.End},
		Anchor: sel.Anchor,
		Exact:  true,
	}, true
}

// CapturePreview resolves a preview selection against source. The selected
// text is trimmed and located by its first occurrence; when it is not found
// the range falls back to [0, len(text)).
func CapturePreview(source string, sel PreviewSelection) (Capture, bool) {
	if sel.OnMarker != "" {
		return Capture{}, false
	}
	text := strings.TrimSpace(sel.Text)
	if text == "" {
		return Capture{}, false
	}

	c := Capture{Text: text, Anchor: sel.Anchor}
	length := utf8.RuneCountInString(text)
	if i := strings.Index(source, text); i >= 0 {
		start := utf8.RuneCountInString(source[:i])
		c.Range = Range{Start: start, End: start + length}
		c.Exact = true
	} else {
		c.Range = Range{Start: 0, End: length}
	}
	return c, true
}
