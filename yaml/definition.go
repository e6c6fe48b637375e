// Package yaml loads section definitions from YAML files.
//
// A file overrides the built-in Item 8 definition. Scalars that are absent
// keep their default; a list that is present replaces the default list.
// Patterns are case-insensitive. A rule's markup pattern is either a raw
// expression or a list of words joined by the same tag-and-entity gap the
// built-in rules use.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/fwojciec/tenk"
	"gopkg.in/yaml.v3"
)

// Definition is the YAML form of a section definition.
type Definition struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title"`

	StartRules []Rule `yaml:"start_rules"`
	EndRules   []Rule `yaml:"end_rules"`
	Statements []Rule `yaml:"statements"`

	Scope      *Scope      `yaml:"scope"`
	TOC        *TOC        `yaml:"toc"`
	Indicators *Indicators `yaml:"indicators"`

	HeaderSelector   string `yaml:"header_selector"`
	HeadingMaxLength *int   `yaml:"heading_max_length"`
	MinSize          *int   `yaml:"min_size"`
	LookaheadSize    *int   `yaml:"lookahead_size"`
	SkipSize         *int   `yaml:"skip_size"`
	MaxChunkSize     *int   `yaml:"max_chunk_size"`
}

// Rule is the YAML form of a boundary rule.
type Rule struct {
	Name string `yaml:"name"`

	// Text is matched against cleaned header text.
	Text string `yaml:"text"`

	// Markup is a raw-markup expression. Words is the alternative form.
	Markup string   `yaml:"markup"`
	Words  []string `yaml:"words"`

	Broad bool `yaml:"broad"`
}

// Scope is the YAML form of the scoped strategy's region.
type Scope struct {
	Start []Rule `yaml:"start"`
	End   []Rule `yaml:"end"`
}

// TOC is the YAML form of the table-of-contents configuration.
type TOC struct {
	ContainerKeywords []string `yaml:"container_keywords"`
	BareItem          string   `yaml:"bare_item"`
	ItemLabel         string   `yaml:"item_label"`
	Indicators        []string `yaml:"indicators"`
	EndMarkers        []string `yaml:"end_markers"`
	WindowPercent     *int     `yaml:"window_percent"`
	MinOffset         *int     `yaml:"min_offset"`
	RequireIndicator  *bool    `yaml:"require_indicator"`
}

// Indicators is the YAML form of the content validator's signals.
type Indicators struct {
	Phrases       []Rule   `yaml:"phrases"`
	TableKeywords []string `yaml:"table_keywords"`
	MinWindow     *int     `yaml:"min_window"`
}

// LoadDefinition reads the file at path and applies it to the Item 8
// definition.
func LoadDefinition(path string) (*tenk.SectionDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition %s: %w", path, err)
	}
	def, err := ParseDefinition(data)
	if err != nil {
		return nil, fmt.Errorf("definition %s: %w", path, err)
	}
	return def, nil
}

// ParseDefinition applies YAML data to the Item 8 definition. Unknown keys
// and invalid patterns are reported as EINVALID.
func ParseDefinition(data []byte) (*tenk.SectionDefinition, error) {
	var d Definition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return nil, tenk.Errorf(tenk.EINVALID, "parse definition: %v", err)
	}

	def := tenk.Item8()
	if err := d.Apply(def); err != nil {
		return nil, err
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// Apply overrides fields of def with the values present in d.
func (d *Definition) Apply(def *tenk.SectionDefinition) error {
	setString(&def.Name, d.Name)
	setString(&def.Title, d.Title)
	setString(&def.HeaderSelector, d.HeaderSelector)
	setInt(&def.HeadingMaxLength, d.HeadingMaxLength)
	setInt(&def.MinSize, d.MinSize)
	setInt(&def.LookaheadSize, d.LookaheadSize)
	setInt(&def.SkipSize, d.SkipSize)
	setInt(&def.MaxChunkSize, d.MaxChunkSize)

	var err error
	if d.StartRules != nil {
		if def.StartRules, err = compileRules("start_rules", d.StartRules); err != nil {
			return err
		}
	}
	if d.EndRules != nil {
		if def.EndRules, err = compileRules("end_rules", d.EndRules); err != nil {
			return err
		}
	}
	if d.Statements != nil {
		if def.Statements, err = compileRules("statements", d.Statements); err != nil {
			return err
		}
	}

	if d.Scope != nil {
		scope := &tenk.Scope{}
		if def.Scope != nil {
			*scope = *def.Scope
		}
		if d.Scope.Start != nil {
			if scope.Start, err = compileRules("scope.start", d.Scope.Start); err != nil {
				return err
			}
		}
		if d.Scope.End != nil {
			if scope.End, err = compileRules("scope.end", d.Scope.End); err != nil {
				return err
			}
		}
		def.Scope = scope
	}

	if d.TOC != nil {
		if err := d.TOC.apply(&def.TOC); err != nil {
			return err
		}
	}

	if d.Indicators != nil {
		if d.Indicators.Phrases != nil {
			if def.Indicators.Phrases, err = compileRules("indicators.phrases", d.Indicators.Phrases); err != nil {
				return err
			}
		}
		if d.Indicators.TableKeywords != nil {
			def.Indicators.TableKeywords = d.Indicators.TableKeywords
		}
		setInt(&def.Indicators.MinWindow, d.Indicators.MinWindow)
	}
	return nil
}

func (t *TOC) apply(cfg *tenk.TOCConfig) error {
	var err error
	if t.ContainerKeywords != nil {
		cfg.ContainerKeywords = t.ContainerKeywords
	}
	if t.BareItem != "" {
		if cfg.BareItem, err = compileText("toc.bare_item", t.BareItem); err != nil {
			return err
		}
	}
	if t.ItemLabel != "" {
		if cfg.ItemLabel, err = compileText("toc.item_label", t.ItemLabel); err != nil {
			return err
		}
	}
	if t.Indicators != nil {
		if cfg.Indicators, err = compileAll("toc.indicators", t.Indicators); err != nil {
			return err
		}
	}
	if t.EndMarkers != nil {
		if cfg.EndMarkers, err = compileAll("toc.end_markers", t.EndMarkers); err != nil {
			return err
		}
	}
	setInt(&cfg.WindowPercent, t.WindowPercent)
	setInt(&cfg.MinOffset, t.MinOffset)
	if t.RequireIndicator != nil {
		cfg.RequireIndicator = *t.RequireIndicator
	}
	return nil
}

func compileRules(field string, rules []Rule) ([]tenk.Rule, error) {
	out := make([]tenk.Rule, 0, len(rules))
	for i, r := range rules {
		name := r.Name
		if name == "" {
			name = fmt.Sprintf("%s[%d]", field, i)
		}
		if r.Text == "" && r.Markup == "" && len(r.Words) == 0 {
			return nil, tenk.Errorf(tenk.EINVALID, "rule %s has no pattern", name)
		}
		if r.Markup != "" && len(r.Words) > 0 {
			return nil, tenk.Errorf(tenk.EINVALID, "rule %s sets both markup and words", name)
		}

		rule := tenk.Rule{Name: name, Broad: r.Broad}
		var err error
		if r.Text != "" {
			if rule.Text, err = compileText(name, r.Text); err != nil {
				return nil, err
			}
		}
		switch {
		case r.Markup != "":
			rule.Markup, err = compileText(name, r.Markup)
		case len(r.Words) > 0:
			rule.Markup, err = tenk.CompileMarkup(r.Words...)
			if err != nil {
				err = tenk.Errorf(tenk.EINVALID, "rule %s: %v", name, err)
			}
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, nil
}

func compileAll(field string, exprs []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for i, expr := range exprs {
		re, err := compileText(fmt.Sprintf("%s[%d]", field, i), expr)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}

func compileText(name, expr string) (*regexp.Regexp, error) {
	re, err := tenk.CompileText(expr)
	if err != nil {
		return nil, tenk.Errorf(tenk.EINVALID, "rule %s: %v", name, err)
	}
	return re, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
