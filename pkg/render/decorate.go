package render

import (
	"slices"
	"strings"
	"unicode"

	"github.com/aretw0/folio/pkg/core"
)

const (
	// MarkerTag is the element that wraps annotated text.
	MarkerTag = "span"
	// MarkerIDAttr carries the annotation id on a marker.
	MarkerIDAttr = "data-annotation-id"
)

// leaf is a candidate text node together with the element that holds it.
type leaf struct {
	parent *Node
	node   *Node
}

// Decorate returns a copy of base in which the first occurrence of each
// annotation's text is wrapped in a marker element. base is never modified.
func Decorate(base *Node, annotations []core.Annotation) *Node {
	out, _ := DecorateReport(base, annotations)
	return out
}

// DecorateReport is Decorate that also returns the ids of the annotations
// that could not be placed.
//
// Annotations are applied in order. Each one scans the remaining candidate
// leaves (non-blank text nodes outside existing markers) and consumes the
// first leaf containing its text. When two annotations overlap the earlier
// one wins and the later one falls through to the next matching leaf, if any.
func DecorateReport(base *Node, annotations []core.Annotation) (*Node, []string) {
	root := base.Clone()
	if root == nil || len(annotations) == 0 {
		return root, nil
	}

	leaves := collectLeaves(root)
	var skipped []string

	for _, ann := range annotations {
		if ann.Text == "" {
			skipped = append(skipped, ann.ID)
			continue
		}

		idx := slices.IndexFunc(leaves, func(l leaf) bool {
			return strings.Contains(l.node.Text, ann.Text)
		})
		if idx < 0 {
			skipped = append(skipped, ann.ID)
			continue
		}

		l := leaves[idx]
		text := l.node.Text
		at := strings.Index(text, ann.Text)
		prefix := text[:at]
		suffix := text[at+len(ann.Text):]

		var pieces []*Node
		var remaining []leaf
		if prefix != "" {
			p := Text(prefix)
			pieces = append(pieces, p)
			remaining = append(remaining, leaf{parent: l.parent, node: p})
		}
		pieces = append(pieces, Marker(ann))
		if suffix != "" {
			s := Text(suffix)
			pieces = append(pieces, s)
			remaining = append(remaining, leaf{parent: l.parent, node: s})
		}

		pos := slices.Index(l.parent.Children, l.node)
		l.parent.Children = slices.Replace(l.parent.Children, pos, pos+1, pieces...)
		leaves = slices.Replace(leaves, idx, idx+1, remaining...)
	}

	return root, skipped
}

// Marker builds the marker element for ann.
func Marker(ann core.Annotation) *Node {
	return Element(MarkerTag, []Attr{
		{Key: "class", Val: ann.Class()},
		{Key: MarkerIDAttr, Val: ann.ID},
	}, Text(ann.Text))
}

// MarkerID reports the annotation id carried by n when n is a marker.
func MarkerID(n *Node) (string, bool) {
	if n == nil || n.Type != ElementNode || n.Tag != MarkerTag {
		return "", false
	}
	return n.Attr(MarkerIDAttr)
}

// Markers returns every marker below n in document order.
func Markers(n *Node) []*Node {
	return n.Find(func(node *Node) bool {
		_, ok := MarkerID(node)
		return ok
	})
}

func collectLeaves(root *Node) []leaf {
	var out []leaf
	var visit func(parent *Node)
	visit = func(parent *Node) {
		for _, c := range parent.Children {
			if c.Type == TextNode {
				if !isBlank(c.Text) {
					out = append(out, leaf{parent: parent, node: c})
				}
				continue
			}
			if _, ok := MarkerID(c); ok {
				continue
			}
			visit(c)
		}
	}
	visit(root)
	return out
}

func isBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}
