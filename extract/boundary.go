package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/tenk"
	"golang.org/x/net/html"
)

var (
	tags = regexp.MustCompile(`<[^>]*>`)

	// trailer is the rest of a heading after its start pattern: the remaining
	// text and any closing tags.
	trailer = regexp.MustCompile(`^[^<]*(?:\s|</[^>]+>)*`)

	// closers are whitespace, entities, closing tags and void elements.
	closers = regexp.MustCompile(`(?i)^(?:\s|&nbsp;|&#160;|&#xa0;|</[^>]*>|<(?:br|hr|img|wbr)\b[^>]*>)*`)
)

// ResolveEnd finds the earliest end marker at or after from. Every end rule
// is searched and the match closest to from wins, whatever its rank. The
// returned offset is the start of the tag that opens the end heading. It
// returns -1 and a nil candidate when no end rule matches.
func ResolveEnd(markup string, from int, def *tenk.SectionDefinition) (int, *tenk.Candidate) {
	if from < 0 || from > len(markup) {
		return -1, nil
	}
	best := -1
	var cand *tenk.Candidate
	for rank, rule := range def.EndRules {
		if rule.Markup == nil {
			continue
		}
		loc := rule.Markup.FindStringIndex(markup[from:])
		if loc == nil {
			continue
		}
		s, e := from+loc[0], from+loc[1]
		offset := headStart(markup, s, from)
		if best < 0 || offset < best {
			best = offset
			cand = &tenk.Candidate{Offset: offset, Rule: rule.Name, Rank: rank, Text: markupText(markup[s:e])}
		}
	}
	return best, cand
}

// headStart returns the offset of the element holding the heading matched at
// s. A match opens on the ">" of whatever tag precedes the heading text, which
// may close the previous element, so closing tags are skipped first.
func headStart(markup string, s, floor int) int {
	if markup[s] != '>' {
		return s
	}
	i := s + 1 + len(closers.FindString(markup[s+1:]))
	if i < len(markup) && markup[i] == '<' {
		return i
	}
	return tagStart(markup, s, floor)
}

// tagStart returns the offset of the tag holding the ">" at pos, or pos when
// that tag begins before floor.
func tagStart(markup string, pos, floor int) int {
	i := strings.LastIndexByte(markup[:pos+1], '<')
	if i < floor || i < 0 {
		return pos
	}
	return i
}

// contentStart returns where content begins after a start match ending at e:
// past the rest of the heading text and its closing tags.
func contentStart(markup string, e int) int {
	if e > 0 && markup[e-1] == '<' {
		e--
	}
	return e + len(trailer.FindString(markup[e:]))
}

// chunkEnd returns the end of a fallback chunk of at most size bytes starting
// at from, clamped to the markup and never splitting a UTF-8 sequence.
func chunkEnd(markup string, from, size int) int {
	end := from + size
	if end >= len(markup) {
		return len(markup)
	}
	for end > from && !utf8.RuneStart(markup[end]) {
		end--
	}
	return end
}

// markupText returns the cleaned text of a matched markup fragment. Matches
// begin with the ">" closing the previous tag and may end with the "<" of the
// next one.
func markupText(s string) string {
	s = strings.TrimSuffix(strings.TrimPrefix(s, ">"), "<")
	return tenk.CleanText(html.UnescapeString(tags.ReplaceAllString(s, " ")))
}
