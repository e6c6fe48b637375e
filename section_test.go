package tenk_test

import (
	"testing"

	"github.com/fwojciec/tenk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionDefinition_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts the default definition", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, tenk.Item8().Validate())
	})

	t.Run("requires a name", func(t *testing.T) {
		t.Parallel()

		def := tenk.Item8()
		def.Name = ""

		assert.Equal(t, tenk.EINVALID, tenk.ErrorCode(def.Validate()))
	})

	t.Run("requires start and end rules", func(t *testing.T) {
		t.Parallel()

		noStart := tenk.Item8()
		noStart.StartRules = nil
		noEnd := tenk.Item8()
		noEnd.EndRules = nil

		assert.Equal(t, tenk.EINVALID, tenk.ErrorCode(noStart.Validate()))
		assert.Equal(t, tenk.EINVALID, tenk.ErrorCode(noEnd.Validate()))
	})

	t.Run("rejects a negative minimum size", func(t *testing.T) {
		t.Parallel()

		def := tenk.Item8()
		def.MinSize = -1

		assert.Equal(t, tenk.EINVALID, tenk.ErrorCode(def.Validate()))
	})

	t.Run("requires a positive chunk size", func(t *testing.T) {
		t.Parallel()

		def := tenk.Item8()
		def.MaxChunkSize = 0

		assert.Equal(t, tenk.EINVALID, tenk.ErrorCode(def.Validate()))
	})
}

func TestSectionDefinition_WithMetadata(t *testing.T) {
	t.Parallel()

	base := tenk.Item8()
	meta := tenk.Metadata{FilingYear: 2024, CompanyName: "Apple Inc.", Ticker: "AAPL"}

	def := base.WithMetadata(meta)

	assert.Equal(t, meta, def.Metadata)
	assert.Empty(t, base.Metadata.Ticker)
	assert.Equal(t, base.StartRules, def.StartRules)
}

func TestSectionDefinition_TitleFrom(t *testing.T) {
	t.Parallel()

	def := tenk.Item8()

	tests := []struct {
		name    string
		heading string
		want    string
	}{
		{"strips item label", "Item 8. Financial Statements and Supplementary Data", "Financial Statements and Supplementary Data"},
		{"handles missing space and dash", "ITEM 8\u2014Financial Statements", "Financial Statements"},
		{"normalizes non-breaking spaces", "Item\u00a08.\u00a0Financial Statements", "Financial Statements"},
		{"falls back for bare label", "Item 8.", "Financial Statements and Supplementary Data"},
		{"falls back for other headings", "Report of Independent Registered Public Accounting Firm", "Financial Statements and Supplementary Data"},
		{"does not strip other items", "Item 80 Something", "Financial Statements and Supplementary Data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, def.TitleFrom(tt.heading))
		})
	}
}

func TestExtractedSection_Size(t *testing.T) {
	t.Parallel()

	s := &tenk.ExtractedSection{Content: "<p>abc</p>"}

	assert.Equal(t, 10, s.Size())
}

func TestExtractedSection_Hash(t *testing.T) {
	t.Parallel()

	a := &tenk.ExtractedSection{Content: "<p>Total assets</p>"}
	b := &tenk.ExtractedSection{Content: "<p>Total liabilities</p>"}

	assert.Equal(t, a.Hash(), (&tenk.ExtractedSection{Content: a.Content}).Hash())
	assert.NotEqual(t, a.Hash(), b.Hash())
	assert.Regexp(t, `^[0-9a-f]{1,16}$`, a.Hash())
}
