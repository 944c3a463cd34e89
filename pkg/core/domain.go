// Package core holds the folio domain: notes, their annotations, the
// persisted state layout and the Store that owns them.
package core

import (
	"slices"
	"time"
)

// AnnotationType is the visual kind of an annotation.
type AnnotationType string

const (
	Highlight AnnotationType = "highlight"
	Underline AnnotationType = "underline"
)

// DefaultNoteTitle is the title given to blank notes.
const DefaultNoteTitle = "Untitled Note"

// Palette lists the colors reachable through the standard UI for each type.
// The data layer does not enforce it; see InPalette.
var Palette = map[AnnotationType][]string{
	Highlight: {"yellow", "green", "blue", "pink"},
	Underline: {"red", "blue", "green", "orange"},
}

// InPalette reports whether color belongs to the palette of t.
func InPalette(t AnnotationType, color string) bool {
	return slices.Contains(Palette[t], color)
}

// Valid reports whether t is a known annotation type.
func (t AnnotationType) Valid() bool {
	return t == Highlight || t == Underline
}

// Annotation is a highlight or underline over a literal span of a note.
// Text is authoritative for rendering; the offsets are advisory and are
// never recomputed after creation.
type Annotation struct {
	ID          string         `json:"id" yaml:"id"`
	Type        AnnotationType `json:"type" yaml:"type"`
	Color       string         `json:"color" yaml:"color"`
	Text        string         `json:"text" yaml:"text"`
	StartOffset int            `json:"startOffset" yaml:"startOffset"`
	EndOffset   int            `json:"endOffset" yaml:"endOffset"`
	Tags        []string       `json:"tags" yaml:"tags"`
	// Page is the 1-based page of a PDF note. Zero means absent.
	Page int `json:"page,omitempty" yaml:"page,omitempty"`
}

// HasTag reports whether tag is already on the annotation.
func (a Annotation) HasTag(tag string) bool {
	return slices.Contains(a.Tags, tag)
}

// Class is the marker style class derived from type and color,
// e.g. "highlight-yellow".
func (a Annotation) Class() string {
	return string(a.Type) + "-" + a.Color
}

func (a Annotation) clone() Annotation {
	a.Tags = slices.Clone(a.Tags)
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return a
}

// Note is either a plain Markdown note or a PDF-derived, paginated one.
type Note struct {
	ID          string       `json:"id" yaml:"id"`
	Title       string       `json:"title" yaml:"title"`
	Content     string       `json:"content" yaml:"content"`
	CreatedAt   time.Time    `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt" yaml:"updatedAt"`
	Annotations []Annotation `json:"annotations" yaml:"annotations"`

	IsPDF            bool     `json:"isPdf,omitempty" yaml:"isPdf,omitempty"`
	Pages            []string `json:"pages,omitempty" yaml:"pages,omitempty"`
	OriginalFileName string   `json:"originalFileName,omitempty" yaml:"originalFileName,omitempty"`
	CurrentPage      int      `json:"currentPage,omitempty" yaml:"currentPage,omitempty"`
}

// Page returns the reader position of a PDF note, treating an unset
// position as the first page. A PDF note without pages has no position
// and reports 0.
func (n Note) Page() int {
	if n.IsPDF && len(n.Pages) == 0 {
		return 0
	}
	if n.CurrentPage < 1 {
		return 1
	}
	return n.CurrentPage
}

// PageText returns the stored text of the given 1-based page, or "" when the
// page does not exist.
func (n Note) PageText(page int) string {
	if page < 1 || page > len(n.Pages) {
		return ""
	}
	return n.Pages[page-1]
}

// Annotation looks up one of the note's annotations by id.
func (n Note) Annotation(id string) (Annotation, bool) {
	for _, a := range n.Annotations {
		if a.ID == id {
			return a.clone(), true
		}
	}
	return Annotation{}, false
}

// PageAnnotations returns the annotations anchored to the given page.
func (n Note) PageAnnotations(page int) []Annotation {
	var out []Annotation
	for _, a := range n.Annotations {
		if a.Page == page {
			out = append(out, a.clone())
		}
	}
	return out
}

func (n Note) clone() Note {
	n.Pages = slices.Clone(n.Pages)
	anns := make([]Annotation, len(n.Annotations))
	for i, a := range n.Annotations {
		anns[i] = a.clone()
	}
	n.Annotations = anns
	return n
}

// Tags returns every tag used by any annotation across notes, in first-seen
// order (notes, then annotations, then tags).
func Tags(notes []Note) []string {
	seen := make(map[string]bool)
	var out []string
	for _, n := range notes {
		for _, a := range n.Annotations {
			for _, t := range a.Tags {
				if !seen[t] {
					seen[t] = true
					out = append(out, t)
				}
			}
		}
	}
	return out
}

// dedupeTags drops repeated tags, keeping the first occurrence.
func dedupeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}
