package goquery

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/fwojciec/tenk"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// IsTOC reports whether n belongs to a table of contents and, if so, why.
//
// An element is a contents entry when it is, is wrapped by, or wraps an
// in-document hyperlink; when it or an ancestor is a navigation container or
// carries a contents class or id; or when it is a bare item label such as
// "Item 7." in a table, or sits in a table listing several items.
func IsTOC(n *html.Node, cfg *tenk.TOCConfig) (bool, string) {
	if isLink(n) {
		return true, "is a hyperlink"
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if isLink(p) {
			return true, "inside a hyperlink"
		}
	}
	if hasFragmentLink(n) {
		return true, "contains an in-document link"
	}

	for p := n; p != nil && p.Type == html.ElementNode; p = p.Parent {
		if p.DataAtom == atom.Nav {
			return true, "inside nav"
		}
		if role, _ := attr(p, "role"); role == "navigation" || role == "doc-toc" {
			return true, fmt.Sprintf("inside role %q", role)
		}
		for _, key := range []string{"class", "id"} {
			v, ok := attr(p, key)
			if !ok {
				continue
			}
			if kw := containerKeyword(v, cfg.ContainerKeywords); kw != "" {
				return true, fmt.Sprintf("inside %s %q", key, v)
			}
		}
	}

	if table := enclosingTable(n); table != nil {
		if cfg.BareItem != nil {
			raw, ok := boundedText(n, 256)
			if ok && cfg.BareItem.MatchString(tenk.CleanText(raw)) {
				return true, "bare item label in a table"
			}
		}
		if cfg.ItemLabel != nil && itemRows(table, cfg.ItemLabel, 2) >= 2 {
			return true, "in a table listing several items"
		}
	}

	return false, ""
}

// itemRows counts the rows of table whose text begins with an item label,
// stopping at max.
func itemRows(table *html.Node, label *regexp.Regexp, max int) int {
	var count int
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil && count < max; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if c.DataAtom == atom.Tr {
				if raw, ok := boundedText(c, 1024); ok && label.MatchString(tenk.CleanText(raw)) {
					count++
				}
				continue
			}
			walk(c)
		}
	}
	walk(table)
	return count
}

// containerKeyword returns the keyword matching a word of an attribute value.
// Words are split on anything but letters and digits, so "toc-list" matches
// "toc" while "stockholders" does not.
func containerKeyword(v string, keywords []string) string {
	words := strings.FieldsFunc(strings.ToLower(v), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, kw := range keywords {
		for _, w := range words {
			if w == strings.ToLower(kw) {
				return kw
			}
		}
	}
	return ""
}

func isLink(n *html.Node) bool {
	if n.Type != html.ElementNode || n.DataAtom != atom.A {
		return false
	}
	_, ok := attr(n, "href")
	return ok
}

func hasFragmentLink(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.DataAtom == atom.A {
			if href, ok := attr(c, "href"); ok && strings.Contains(href, "#") {
				return true
			}
		}
		if hasFragmentLink(c) {
			return true
		}
	}
	return false
}

func enclosingTable(n *html.Node) *html.Node {
	for p := n; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == atom.Table {
			return p
		}
	}
	return nil
}
