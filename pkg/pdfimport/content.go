package pdfimport

import (
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
)

// CleanPage normalizes extracted page text: runs of horizontal whitespace
// become one space, lines are trimmed, empty lines dropped, and the
// remaining lines are separated by a blank line.
func CleanPage(raw string) string {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.FieldsFunc(line, isHorizontalSpace), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n\n")
}

func isHorizontalSpace(r rune) bool {
	return r != '\n' && unicode.IsSpace(r)
}

// BuildContent synthesizes the Markdown body of a PDF note, one
// "## Page N" section per page.
func BuildContent(pages []string) string {
	var sb strings.Builder
	for i, p := range pages {
		sb.WriteString("## Page ")
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString("\n\n")
		sb.WriteString(p)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// TitleFromFileName derives a note title from an uploaded file name.
func TitleFromFileName(name string) string {
	base := filepath.Base(name)
	if ext := filepath.Ext(base); strings.EqualFold(ext, ".pdf") {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
