package render

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseHTML parses an HTML fragment (as produced by a Markdown renderer) into
// a document tree. Comments and doctypes are dropped.
func ParseHTML(fragment string) (*Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	doc := Document()
	for _, n := range nodes {
		if c := fromHTML(n); c != nil {
			doc.Children = append(doc.Children, c)
		}
	}
	return doc, nil
}

func fromHTML(n *html.Node) *Node {
	switch n.Type {
	case html.TextNode:
		return Text(n.Data)
	case html.ElementNode:
		el := &Node{Type: ElementNode, Tag: n.Data}
		for _, a := range n.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + a.Key
			}
			el.Attrs = append(el.Attrs, Attr{Key: key, Val: a.Val})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := fromHTML(c); child != nil {
				el.Children = append(el.Children, child)
			}
		}
		return el
	case html.DocumentNode:
		doc := Document()
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := fromHTML(c); child != nil {
				doc.Children = append(doc.Children, child)
			}
		}
		return doc
	default:
		return nil
	}
}

// RenderHTML serializes the tree. Output is deterministic: attributes keep
// their order and text is escaped by the html package.
func RenderHTML(n *Node) (string, error) {
	var buf bytes.Buffer
	if n == nil {
		return "", nil
	}
	roots := []*Node{n}
	if n.Type == DocumentNode {
		roots = n.Children
	}
	for _, r := range roots {
		if err := html.Render(&buf, toHTML(r)); err != nil {
			return "", fmt.Errorf("failed to render html: %w", err)
		}
	}
	return buf.String(), nil
}

func toHTML(n *Node) *html.Node {
	var out *html.Node
	switch n.Type {
	case TextNode:
		return &html.Node{Type: html.TextNode, Data: n.Text}
	case DocumentNode:
		out = &html.Node{Type: html.DocumentNode}
	default:
		out = &html.Node{Type: html.ElementNode, Data: n.Tag, DataAtom: atom.Lookup([]byte(n.Tag))}
		for _, a := range n.Attrs {
			out.Attr = append(out.Attr, html.Attribute{Key: a.Key, Val: a.Val})
		}
	}
	for _, c := range n.Children {
		out.AppendChild(toHTML(c))
	}
	return out
}
