package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// MarkdownRenderer converts Markdown source into HTML and markup trees.
// It is safe for concurrent use. Raw HTML in the source is omitted.
type MarkdownRenderer struct {
	md goldmark.Markdown
}

// NewMarkdownRenderer returns a renderer with GitHub-flavoured Markdown
// enabled.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Render converts source to an HTML fragment.
func (r *MarkdownRenderer) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// Tree renders source and parses the result into a tree.
func (r *MarkdownRenderer) Tree(source string) (*Node, error) {
	out, err := r.Render(source)
	if err != nil {
		return nil, err
	}
	return ParseHTML(out)
}
