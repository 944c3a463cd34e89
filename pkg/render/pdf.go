package render

import "strconv"

// PDFPageClass is the class of the element holding a page's text.
const PDFPageClass = "pdf-page-content"

// PDFPage builds the tree for one page of a PDF note:
//
//	<h2>Page N of M</h2><div class="pdf-page-content">text</div>
//
// text becomes a single text leaf and is never interpreted as markup.
func PDFPage(page, total int, text string) *Node {
	heading := "Page " + strconv.Itoa(page) + " of " + strconv.Itoa(total)
	return Document(
		Element("h2", nil, Text(heading)),
		Element("div", []Attr{{Key: "class", Val: PDFPageClass}}, Text(text)),
	)
}
