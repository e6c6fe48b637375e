package tenk

import "golang.org/x/net/html"

// Document is a filing document: its raw markup and, when the markup could be
// parsed, the structural tree. A Document is never modified by extraction and
// may be shared between goroutines.
type Document struct {
	Markup string
	Tree   *html.Node
}

// HasTree reports whether structural strategies can run on the document.
func (d *Document) HasTree() bool {
	return d != nil && d.Tree != nil
}

// Candidate is a located boundary marker.
//
// In text mode Offset is a byte offset into the raw markup and Node is nil.
// In structural mode Node is the matched element and Offset is its position
// in document order.
type Candidate struct {
	Offset int
	Node   *html.Node
	Rule   string
	Rank   int
	Text   string
}

// Span is a resolved start/end pair and the content strictly between them.
// End is nil when no end marker was found and the content is a bounded chunk
// following the start.
type Span struct {
	Start   Candidate
	End     *Candidate
	Content string
}
