package extract_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/tenk"
	"github.com/fwojciec/tenk/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEnd(t *testing.T) {
	t.Parallel()

	const markup = `<p>Notes to Consolidated Financial Statements</p>
<h2>SIGNATURES</h2>
<p>Pursuant to the requirements of the Securities Exchange Act.</p>
<h2>Item 9. Changes in and Disagreements with Accountants</h2>
<h2>PART III</h2>`

	t.Run("returns the earliest end marker regardless of rank", func(t *testing.T) {
		t.Parallel()

		offset, cand := extract.ResolveEnd(markup, 0, tenk.Item8())

		require.NotNil(t, cand)
		assert.Equal(t, strings.Index(markup, "<h2>SIGNATURES"), offset)
		assert.Equal(t, offset, cand.Offset)
		assert.Equal(t, "signatures", cand.Rule)
		assert.Equal(t, 4, cand.Rank)
		assert.Equal(t, "SIGNATURES", cand.Text)
	})

	t.Run("prefers the higher ranked rule at the same position", func(t *testing.T) {
		t.Parallel()

		offset, cand := extract.ResolveEnd(markup, strings.Index(markup, "Pursuant"), tenk.Item8())

		require.NotNil(t, cand)
		assert.Equal(t, strings.Index(markup, "<h2>Item 9"), offset)
		assert.Equal(t, "item-9-changes", cand.Rule)
		assert.Equal(t, "Item 9. Changes", cand.Text)
	})

	t.Run("returns no candidate when nothing matches", func(t *testing.T) {
		t.Parallel()

		offset, cand := extract.ResolveEnd(markup, strings.Index(markup, "<h2>PART III")+5, tenk.Item8())

		assert.Equal(t, -1, offset)
		assert.Nil(t, cand)
	})

	t.Run("rejects a start beyond the markup", func(t *testing.T) {
		t.Parallel()

		offset, cand := extract.ResolveEnd(markup, len(markup)+1, tenk.Item8())

		assert.Equal(t, -1, offset)
		assert.Nil(t, cand)
	})
}
