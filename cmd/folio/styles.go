package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/folio/pkg/core"
)

var colorCodes = map[string]lipgloss.Color{
	"yellow": lipgloss.Color("#FDE047"),
	"green":  lipgloss.Color("#86EFAC"),
	"blue":   lipgloss.Color("#93C5FD"),
	"pink":   lipgloss.Color("#F9A8D4"),
	"red":    lipgloss.Color("#EF4444"),
	"orange": lipgloss.Color("#F97316"),
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	tagStyle    = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E5E7EB")).
			Background(lipgloss.Color("#374151")).
			Padding(0, 1)
)

// annotationStyle renders a passage the way the marker class would.
func annotationStyle(a core.Annotation) lipgloss.Style {
	c, ok := colorCodes[a.Color]
	if !ok {
		c = lipgloss.Color("#9CA3AF")
	}
	if a.Type == core.Underline {
		return lipgloss.NewStyle().Underline(true).Foreground(c)
	}
	return lipgloss.NewStyle().Background(c).Foreground(lipgloss.Color("#111827"))
}

// chips renders tags as inline badges.
func chips(tags []string) string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, tagStyle.Render(t))
	}
	return strings.Join(out, " ")
}

// truncate shortens s to at most width runes.
func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if width <= 1 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
