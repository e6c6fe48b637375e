package extract

import (
	"regexp"
	"strings"

	"github.com/fwojciec/tenk"
)

// linkWindow is how far before a candidate an unclosed hyperlink is looked
// for.
const linkWindow = 2048

var openLink = regexp.MustCompile(`(?is)<a\s[^>]*\bhref\s*=`)

// IsTOC reports whether the candidate whose text begins at offset in raw
// markup lies in a table of contents and, if so, why.
//
// A candidate inside an unclosed hyperlink is a contents entry. Otherwise a
// candidate in the leading region of the document, within the first
// WindowPercent of the markup or before MinOffset bytes, is a contents entry
// unless a contents indicator precedes it and an end-of-contents marker lies
// in between. A leading candidate with no indicator before it is a contents
// entry too, unless RequireIndicator is set.
func IsTOC(markup string, offset int, cfg *tenk.TOCConfig) (bool, string) {
	if offset < 0 || offset > len(markup) {
		return false, ""
	}

	if insideLink(markup, offset) {
		return true, "inside a hyperlink"
	}

	if !leading(len(markup), offset, cfg) {
		return false, ""
	}

	head := markup[:offset]
	indicator := -1
	for _, re := range cfg.Indicators {
		locs := re.FindAllStringIndex(head, -1)
		if len(locs) > 0 && locs[len(locs)-1][0] > indicator {
			indicator = locs[len(locs)-1][0]
		}
	}
	if indicator < 0 {
		if cfg.RequireIndicator {
			return false, ""
		}
		return true, "within the leading region"
	}

	between := markup[indicator:offset]
	for _, re := range cfg.EndMarkers {
		if re.MatchString(between) {
			return false, ""
		}
	}
	return true, "within a contents listing"
}

func insideLink(markup string, offset int) bool {
	from := max(0, offset-linkWindow)
	window := markup[from:offset]
	locs := openLink.FindAllStringIndex(window, -1)
	if len(locs) == 0 {
		return false
	}
	open := locs[len(locs)-1][0]
	return strings.LastIndex(strings.ToLower(window), "</a") < open
}

func leading(size, offset int, cfg *tenk.TOCConfig) bool {
	if cfg.MinOffset > 0 && offset < cfg.MinOffset {
		return true
	}
	return cfg.WindowPercent > 0 && offset < size*cfg.WindowPercent/100
}
