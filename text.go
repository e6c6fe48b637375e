package tenk

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var invisible = strings.NewReplacer(
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\ufeff", "",
	"\u00ad", "",
)

// CleanText normalizes element text for pattern matching. Compatibility
// characters such as non-breaking spaces and full-width digits are folded,
// invisible characters are dropped and whitespace runs collapse to a single
// space.
func CleanText(s string) string {
	s = norm.NFKC.String(s)
	s = invisible.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
