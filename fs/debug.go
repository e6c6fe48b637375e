package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/tenk"
)

// Ensure DebugWriter implements tenk.DebugStore at compile time.
var _ tenk.DebugStore = (*DebugWriter)(nil)

// DebugWriter keeps diagnostic artifacts under baseDir/TICKER/YEAR/debug.
type DebugWriter struct {
	baseDir string
}

// NewDebugWriter creates a DebugWriter rooted at baseDir.
func NewDebugWriter(baseDir string) *DebugWriter {
	return &DebugWriter{baseDir: baseDir}
}

// Dir returns the debug directory of a filing.
func (w *DebugWriter) Dir(f *tenk.Filing) string {
	return filepath.Join(SectionDir(w.baseDir, f.Ticker, f.Year()), "debug")
}

// SaveFiling writes the raw filing and a copy with every start and end
// marker match highlighted.
func (w *DebugWriter) SaveFiling(ctx context.Context, f *tenk.Filing, markup string, def *tenk.SectionDefinition) error {
	dir := w.Dir(f)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	stem := filepath.Join(dir, accessionStem(f))
	if err := writeFile(stem+"_raw.html", []byte(markup)); err != nil {
		return fmt.Errorf("write raw filing: %w", err)
	}
	if err := writeFile(stem+"_annotated.html", []byte(Annotate(markup, def))); err != nil {
		return fmt.Errorf("write annotated filing: %w", err)
	}
	return nil
}

// SaveFailure writes extraction_failure.txt with the reason extraction
// failed and, for extraction errors, every strategy's outcome.
func (w *DebugWriter) SaveFailure(ctx context.Context, f *tenk.Filing, err error) error {
	dir := w.Dir(f)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, "extraction_failure.txt"), []byte(FailureReport(f, err)))
}

// FailureReport renders a failure for humans.
func FailureReport(f *tenk.Filing, err error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ticker: %s\n", f.Ticker)
	fmt.Fprintf(&b, "company: %s\n", f.CompanyName)
	fmt.Fprintf(&b, "accession: %s\n", f.AccessionNumber)
	fmt.Fprintf(&b, "url: %s\n", f.DocumentURL)
	fmt.Fprintf(&b, "code: %s\n", tenk.ErrorCode(err))
	fmt.Fprintf(&b, "error: %s\n", tenk.ErrorMessage(err))

	var xerr *tenk.ExtractionError
	switch {
	case errors.As(err, &xerr):
		b.WriteString("\nattempts:\n")
		for _, a := range xerr.Attempts {
			fmt.Fprintf(&b, "  %s [%s] %s\n", a.Strategy, a.Code, a.Reason)
		}
	case tenk.ErrorCode(err) == tenk.EINTERNAL:
		fmt.Fprintf(&b, "detail: %v\n", err)
	}
	return b.String()
}

type highlight struct {
	start, end int
	kind       string
	rule       string
}

// Annotate returns markup wrapped in a page that highlights the heading text
// of every match of the definition's start and end markup patterns. Matches
// whose text is split by tags are left unmarked.
func Annotate(markup string, def *tenk.SectionDefinition) string {
	var hs []highlight
	collect := func(rules []tenk.Rule, kind string) {
		for _, r := range rules {
			if r.Markup == nil {
				continue
			}
			for _, loc := range r.Markup.FindAllStringIndex(markup, -1) {
				start, end, ok := tenk.MatchedText(markup, loc)
				if !ok {
					continue
				}
				hs = append(hs, highlight{start: start, end: end, kind: kind, rule: r.Name})
			}
		}
	}
	collect(def.StartRules, "start")
	collect(def.EndRules, "end")
	sort.SliceStable(hs, func(i, j int) bool { return hs[i].start < hs[j].start })

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<style>\n")
	b.WriteString(".highlight-start { background-color: #FFFF00; }\n")
	b.WriteString(".highlight-end { background-color: #FFA500; }\n")
	b.WriteString("</style>\n</head>\n<body>\n")

	last := 0
	for _, h := range hs {
		// Overlapping matches keep the earlier highlight.
		if h.start < last {
			continue
		}
		b.WriteString(markup[last:h.start])
		fmt.Fprintf(&b, `<span class="highlight-%s" title="%s %d-%d">`, h.kind, h.rule, h.start, h.end)
		b.WriteString(markup[h.start:h.end])
		b.WriteString("</span>")
		last = h.end
	}
	b.WriteString(markup[last:])
	b.WriteString("\n</body>\n</html>")
	return b.String()
}

func accessionStem(f *tenk.Filing) string {
	if f.AccessionNumber == "" {
		return "filing"
	}
	return strings.ReplaceAll(f.AccessionNumber, "-", "")
}
