// Package render turns note sources into markup trees and re-injects stored
// annotations into them as marker elements.
//
// The tree is deliberately small: a document root, elements with ordered
// attributes, and text leaves. It is produced either by parsing HTML (see
// ParseHTML) or by literal construction (see PDFPage), and serialized back
// with RenderHTML.
package render

import "strings"

// NodeType discriminates tree nodes.
type NodeType int

const (
	DocumentNode NodeType = iota
	ElementNode
	TextNode
)

func (t NodeType) String() string {
	switch t {
	case DocumentNode:
		return "document"
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	default:
		return "unknown"
	}
}

// Attr is a single element attribute.
type Attr struct {
	Key string
	Val string
}

// Node is an element of the abstract markup tree.
type Node struct {
	Type     NodeType
	Tag      string
	Attrs    []Attr
	Text     string
	Children []*Node
}

// Document returns a root node holding children.
func Document(children ...*Node) *Node {
	return &Node{Type: DocumentNode, Children: children}
}

// Element returns an element node.
func Element(tag string, attrs []Attr, children ...*Node) *Node {
	return &Node{Type: ElementNode, Tag: tag, Attrs: attrs, Children: children}
}

// Text returns a text leaf.
func Text(s string) *Node {
	return &Node{Type: TextNode, Text: s}
}

// Attr returns the value of key, if present.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{Type: n.Type, Tag: n.Tag, Text: n.Text}
	if n.Attrs != nil {
		c.Attrs = append([]Attr(nil), n.Attrs...)
	}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// TextContent concatenates every text leaf below n in document order.
func (n *Node) TextContent() string {
	var sb strings.Builder
	n.walk(func(node *Node) {
		if node.Type == TextNode {
			sb.WriteString(node.Text)
		}
	})
	return sb.String()
}

// Find returns every node below n (inclusive) for which match returns true,
// in document order.
func (n *Node) Find(match func(*Node) bool) []*Node {
	var out []*Node
	n.walk(func(node *Node) {
		if match(node) {
			out = append(out, node)
		}
	})
	return out
}

func (n *Node) walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.walk(fn)
	}
}
