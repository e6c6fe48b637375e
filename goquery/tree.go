package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/tenk"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NewDocument parses markup into a document. When the markup cannot be parsed
// the document carries no tree and only text strategies apply.
func NewDocument(markup string) *tenk.Document {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return &tenk.Document{Markup: markup}
	}
	return &tenk.Document{Markup: markup, Tree: root}
}

// tree indexes a parsed document for one extraction.
type tree struct {
	def   *tenk.SectionDefinition
	doc   *goquery.Document
	order map[*html.Node]int

	// headers are the header-like elements in document order.
	headers []*html.Node
	texts   map[*html.Node]string

	maxHeading int
}

func newTree(doc *tenk.Document, def *tenk.SectionDefinition) (*tree, error) {
	if !doc.HasTree() {
		return nil, tenk.Errorf(tenk.ENOTFOUND, "no structural tree")
	}

	selector := def.HeaderSelector
	if selector == "" {
		selector = tenk.DefaultHeaderSelector
	}
	matcher, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, tenk.Errorf(tenk.EINVALID, "invalid header selector %q: %v", selector, err)
	}

	t := &tree{
		def:        def,
		doc:        goquery.NewDocumentFromNode(doc.Tree),
		order:      make(map[*html.Node]int),
		texts:      make(map[*html.Node]string),
		maxHeading: def.HeadingMaxLength,
	}
	if t.maxHeading <= 0 {
		t.maxHeading = tenk.DefaultHeadingMaxLength
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		t.order[n] = len(t.order)
		if n.Type == html.ElementNode && matcher.Match(n) {
			if text, ok := t.headingText(n); ok {
				t.texts[n] = text
				t.headers = append(t.headers, n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc.Tree)

	return t, nil
}

// headingText returns the cleaned text of n if it is short enough to be a
// heading.
func (t *tree) headingText(n *html.Node) (string, bool) {
	raw, ok := boundedText(n, 8*t.maxHeading)
	if !ok {
		return "", false
	}
	text := tenk.CleanText(raw)
	if text == "" || len(text) > t.maxHeading {
		return "", false
	}
	return text, true
}

// text returns the cleaned text of a header-like element.
func (t *tree) text(n *html.Node) string {
	if s, ok := t.texts[n]; ok {
		return s
	}
	s, _ := t.headingText(n)
	return s
}

// block climbs from n to the outermost ancestor carrying the same text, so
// that wrappers around a heading are treated as part of it.
func (t *tree) block(n *html.Node) *html.Node {
	text := t.text(n)
	for p := n.Parent; p != nil && p.Type == html.ElementNode; p = p.Parent {
		if p.DataAtom == atom.Body || p.DataAtom == atom.Html {
			break
		}
		pt, ok := t.headingText(p)
		if !ok || pt != text {
			break
		}
		n = p
	}
	return n
}

// last returns the final node of n's subtree in document order.
func last(n *html.Node) *html.Node {
	for n.LastChild != nil {
		n = n.LastChild
	}
	return n
}

// follows reports whether n comes after ref's subtree in document order.
func (t *tree) follows(n, ref *html.Node) bool {
	return t.order[n] > t.order[last(ref)]
}

func contains(ancestor, n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// boundedText concatenates the text nodes under n. It gives up once the raw
// text exceeds limit bytes.
func boundedText(n *html.Node, limit int) (string, bool) {
	var b strings.Builder
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return b.Len() <= limit
		case html.ElementNode:
			if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	if !walk(n) {
		return "", false
	}
	return b.String(), true
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
