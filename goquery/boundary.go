package goquery

import (
	"strings"

	"github.com/fwojciec/tenk"
	"golang.org/x/net/html"
)

// boundary is where content begins: after node's subtree, at node's first
// child when into is set, or at node itself when at is set.
type boundary struct {
	node *html.Node
	into bool
	at   bool
}

// precedes reports whether n lies within the content that starts at b.
func (t *tree) precedes(b boundary, n *html.Node) bool {
	if b.into || b.at {
		return t.order[n] > t.order[b.node]
	}
	return t.follows(n, b.node)
}

// end is a resolved end boundary. A nil node means the content runs to a
// bounded chunk.
type end struct {
	node *html.Node
	cand *tenk.Candidate
}

// ResolveEnd finds the earliest end marker after the start boundary. Every end
// rule is searched and the match closest to the start wins, whatever its
// rank. Extra nodes, such as a scope limit or a contents link target, compete
// on the same terms.
func (t *tree) resolveEnd(start boundary, extra ...end) end {
	var best end
	for rank, rule := range t.def.EndRules {
		if rule.Text == nil {
			continue
		}
		for _, h := range t.headers {
			if !t.precedes(start, h) || !rule.Text.MatchString(t.text(h)) {
				continue
			}
			b := t.block(h)
			if !t.precedes(start, b) {
				b = h
			}
			if best.node == nil || t.order[b] < t.order[best.node] {
				best = end{
					node: b,
					cand: &tenk.Candidate{
						Offset: t.order[h],
						Node:   h,
						Rule:   rule.Name,
						Rank:   rank,
						Text:   t.text(h),
					},
				}
			}
			break
		}
	}
	for _, e := range extra {
		if e.node == nil || !t.precedes(start, e.node) {
			continue
		}
		if best.node == nil || t.order[e.node] < t.order[best.node] {
			best = e
		}
	}
	return best
}

// render serializes the nodes between start and stop in document order. A nil
// stop renders to the end of the document. Rendering halts once limit bytes
// have been written when limit is positive.
func (t *tree) render(start boundary, stop *html.Node, limit int) string {
	r := &renderer{stop: stop, limit: limit}
	if start.at && r.node(start.node) {
		return r.b.String()
	}
	if start.into {
		for c := start.node.FirstChild; c != nil; c = c.NextSibling {
			if r.node(c) {
				return r.b.String()
			}
		}
	}
	for n := start.node; n != nil; n = n.Parent {
		for s := n.NextSibling; s != nil; s = s.NextSibling {
			if r.node(s) {
				return r.b.String()
			}
		}
	}
	return r.b.String()
}

type renderer struct {
	b     strings.Builder
	stop  *html.Node
	limit int
}

// node renders n, descending into it when it holds the stop node. It reports
// whether rendering is finished.
func (r *renderer) node(n *html.Node) bool {
	if n == r.stop {
		return true
	}
	if r.stop != nil && contains(n, r.stop) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if r.node(c) {
				return true
			}
		}
		return true
	}
	if err := html.Render(&r.b, n); err != nil {
		return true
	}
	return r.limit > 0 && r.b.Len() >= r.limit
}

// span renders the content between start and e. Without an end node the
// content is the chunk of at most MaxChunkSize bytes following the start.
func (t *tree) span(start boundary, cand tenk.Candidate, e end) *tenk.Span {
	if e.node != nil {
		return &tenk.Span{Start: cand, End: e.cand, Content: t.render(start, e.node, 0)}
	}
	content := t.render(start, nil, t.def.MaxChunkSize)
	return &tenk.Span{Start: cand, Content: truncate(content, t.def.MaxChunkSize)}
}

// lookahead renders the window following start used to confirm a candidate.
func (t *tree) lookahead(start boundary) string {
	size := t.def.LookaheadSize
	if size <= 0 {
		size = tenk.DefaultLookaheadSize
	}
	return truncate(t.render(start, nil, size), size)
}
