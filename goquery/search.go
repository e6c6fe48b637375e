package goquery

import (
	"fmt"

	"github.com/fwojciec/tenk"
	"golang.org/x/net/html"
)

// region bounds a search. A nil after searches from the document start; a nil
// before searches to the document end.
type region struct {
	after  *html.Node
	before *html.Node
}

func (t *tree) inRegion(r region, n *html.Node) bool {
	if r.after != nil && !t.follows(n, r.after) {
		return false
	}
	if r.before != nil && t.order[n] >= t.order[r.before] {
		return false
	}
	return true
}

// start is an accepted start marker.
type start struct {
	boundary boundary
	cand     tenk.Candidate
}

// tally counts rejected start candidates for diagnostics.
type tally struct {
	matched   int
	toc       int
	lookahead int
}

func (c tally) reason(what string) string {
	if c.matched == 0 {
		return fmt.Sprintf("no %s matched", what)
	}
	return fmt.Sprintf("%d %s candidates: %d in table of contents, %d failed lookahead validation",
		c.matched, what, c.toc, c.lookahead)
}

// findStart returns the first candidate, in rank order and then document
// order, that is outside any table of contents and whose lookahead window
// passes validation. Broad rules are skipped unless broad is set.
func (t *tree) findStart(rules []tenk.Rule, broad bool, r region, v tenk.ContentValidator) (*start, tally) {
	var c tally
	seen := make(map[*html.Node]bool)
	tried := make(map[*html.Node]bool)
	for rank, rule := range rules {
		if rule.Text == nil || (rule.Broad && !broad) {
			continue
		}
		for _, h := range t.headers {
			if seen[h] || !t.inRegion(r, h) || !rule.Text.MatchString(t.text(h)) {
				continue
			}
			seen[h] = true
			c.matched++
			if ok, _ := IsTOC(h, &t.def.TOC); ok {
				c.toc++
				continue
			}
			b := boundary{node: t.block(h)}
			if tried[b.node] {
				continue
			}
			tried[b.node] = true
			if !t.confirm(b, v) {
				c.lookahead++
				continue
			}
			return &start{
				boundary: b,
				cand: tenk.Candidate{
					Offset: t.order[h],
					Node:   h,
					Rule:   rule.Name,
					Rank:   rank,
					Text:   t.text(h),
				},
			}, c
		}
	}
	return nil, c
}

// firstMatch returns the first header in r, outside any table of contents,
// matching any of rules.
func (t *tree) firstMatch(rules []tenk.Rule, r region) *html.Node {
	for _, h := range t.headers {
		if !t.inRegion(r, h) {
			continue
		}
		for _, rule := range rules {
			if rule.Text == nil || !rule.Text.MatchString(t.text(h)) {
				continue
			}
			if ok, _ := IsTOC(h, &t.def.TOC); ok {
				break
			}
			return h
		}
	}
	return nil
}

// confirm validates the lookahead window following b. Without a validator
// every candidate is accepted.
func (t *tree) confirm(b boundary, v tenk.ContentValidator) bool {
	if v == nil {
		return true
	}
	return v.Validate(t.lookahead(b), &t.def.Indicators).OK
}
