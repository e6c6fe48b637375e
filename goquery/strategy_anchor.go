package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/tenk"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// anchorScan is how many header-like elements after a link target are
// searched for the section heading.
const anchorScan = 12

// Ensure AnchorStrategy implements tenk.Strategy.
var _ tenk.Strategy = (*AnchorStrategy)(nil)

// AnchorStrategy follows the table of contents. A contents link naming the
// section points at an anchor in the document which marks the start; the
// target of the next contents link naming a following section marks the end.
type AnchorStrategy struct {
	validator tenk.ContentValidator
}

// NewAnchorStrategy creates an AnchorStrategy.
func NewAnchorStrategy(validator tenk.ContentValidator) *AnchorStrategy {
	return &AnchorStrategy{validator: validator}
}

// Name returns the strategy name.
func (s *AnchorStrategy) Name() string {
	return "toc-anchor"
}

type link struct {
	sel      *goquery.Selection
	fragment string
}

// Extract locates the span.
func (s *AnchorStrategy) Extract(doc *tenk.Document, def *tenk.SectionDefinition) (*tenk.Span, error) {
	t, err := newTree(doc, def)
	if err != nil {
		return nil, err
	}

	links := t.fragmentLinks()
	if len(links) == 0 {
		return nil, tenk.Errorf(tenk.ENOTFOUND, "no in-document links")
	}
	targets := t.anchors()

	var named, missing, rejected int
	for i, l := range links {
		if !t.names(l.sel, def.StartRules) {
			continue
		}
		named++
		target, ok := targets[l.fragment]
		if !ok {
			missing++
			continue
		}

		b, cand := t.anchorStart(target)
		if !t.confirm(b, s.validator) {
			rejected++
			continue
		}

		var next end
		for _, nl := range links[i+1:] {
			if nl.fragment == l.fragment || !t.names(nl.sel, def.EndRules) {
				continue
			}
			nt, ok := targets[nl.fragment]
			if !ok || !t.precedes(b, nt) {
				continue
			}
			next = end{
				node: nt,
				cand: &tenk.Candidate{Offset: t.order[nt], Node: nt, Rule: "toc-link", Text: tenk.CleanText(nl.sel.Text())},
			}
			break
		}

		return t.span(b, cand, t.resolveEnd(b, next)), nil
	}

	if named == 0 {
		return nil, tenk.Errorf(tenk.ENOTFOUND, "no contents link names the section")
	}
	return nil, tenk.Errorf(tenk.ENOTFOUND, "%d contents links: %d without a target, %d failed lookahead validation",
		named, missing, rejected)
}

// fragmentLinks returns the in-document links in document order.
func (t *tree) fragmentLinks() []link {
	var links []link
	t.doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		_, frag, ok := strings.Cut(href, "#")
		if !ok || frag == "" {
			return
		}
		if unescaped, err := url.PathUnescape(frag); err == nil {
			frag = unescaped
		}
		links = append(links, link{sel: sel, fragment: frag})
	})
	return links
}

// anchors maps id and name attributes to their first element.
func (t *tree) anchors() map[string]*html.Node {
	targets := make(map[string]*html.Node)
	add := func(key string, n *html.Node) {
		if key == "" {
			return
		}
		if _, ok := targets[key]; !ok {
			targets[key] = n
		}
	}
	t.doc.Find("[id], a[name]").Each(func(_ int, sel *goquery.Selection) {
		n := sel.Get(0)
		id, _ := attr(n, "id")
		add(id, n)
		name, _ := attr(n, "name")
		add(name, n)
	})
	return targets
}

// names reports whether a contents link, or the row or line holding it,
// names a section described by rules.
func (t *tree) names(sel *goquery.Selection, rules []tenk.Rule) bool {
	texts := []string{tenk.CleanText(sel.Text())}
	ctx := sel.Closest("tr")
	if ctx.Length() == 0 {
		ctx = sel.Parent()
	}
	if ctx.Length() > 0 {
		if raw, ok := boundedText(ctx.Get(0), 8*t.maxHeading); ok {
			texts = append(texts, tenk.CleanText(raw))
		}
	}
	for _, rule := range rules {
		if rule.Text == nil {
			continue
		}
		for _, text := range texts {
			if rule.Text.MatchString(text) {
				return true
			}
		}
	}
	return false
}

// anchorStart settles where content begins for a link target. A target that
// is, sits in, or is followed closely by the section heading starts after the
// heading. Otherwise an empty anchor starts after itself and a container
// starts at its first child.
func (t *tree) anchorStart(target *html.Node) (boundary, tenk.Candidate) {
	rules := t.def.StartRules
	n := target
	for depth := 0; n != nil && n.Type == html.ElementNode && n.DataAtom != atom.Body && depth < 3; depth++ {
		if text, ok := t.headingText(n); ok && matchesAny(rules, text) {
			return boundary{node: t.block(n)}, t.candidate(n, rules, "anchor")
		}
		n = n.Parent
	}

	scanned := 0
	for _, h := range t.headers {
		if t.order[h] < t.order[target] {
			continue
		}
		if scanned++; scanned > anchorScan {
			break
		}
		if matchesAny(rules, t.text(h)) {
			return boundary{node: t.block(h)}, t.candidate(h, rules, "anchor")
		}
	}

	cand := tenk.Candidate{Offset: t.order[target], Node: target, Rule: "anchor"}
	if raw, ok := boundedText(target, 0); ok && raw == "" {
		return boundary{node: target}, cand
	}
	return boundary{node: target, into: true}, cand
}

func (t *tree) candidate(n *html.Node, rules []tenk.Rule, fallback string) tenk.Candidate {
	text := t.text(n)
	for rank, rule := range rules {
		if rule.Text != nil && rule.Text.MatchString(text) {
			return tenk.Candidate{Offset: t.order[n], Node: n, Rule: rule.Name, Rank: rank, Text: text}
		}
	}
	return tenk.Candidate{Offset: t.order[n], Node: n, Rule: fallback, Text: text}
}

func matchesAny(rules []tenk.Rule, text string) bool {
	for _, rule := range rules {
		if rule.Text != nil && rule.Text.MatchString(text) {
			return true
		}
	}
	return false
}
