package categorize_test

import (
	"testing"

	"newsforge/internal/categorize"
	"newsforge/internal/feed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(title, summary string) feed.Item {
	return feed.Item{Title: title, Summary: summary}
}

func TestClassify_TaxonomyOrderWins(t *testing.T) {
	// Matches both Research ("paper") and Industry ("openai") keywords;
	// Research is evaluated first.
	it := item("OpenAI publishes a new paper", "details inside")
	assert.Equal(t, categorize.Research, categorize.Classify(it))
}

func TestClassify_Buckets(t *testing.T) {
	cases := []struct {
		item feed.Item
		want categorize.Category
	}{
		{item("New training breakthrough", ""), categorize.Research},
		{item("Startup raises funding round", ""), categorize.Industry},
		{item("Alignment concerns raised", ""), categorize.SafetyEthics},
		{item("Company ships new tool", ""), categorize.ProductsTools},
		{item("Senate hearing scheduled", ""), categorize.PolicyRegulation},
		{item("Weather report", "sunny today"), categorize.Other},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, categorize.Classify(tc.item), "item %q", tc.item.Title)
	}
}

func TestCategorize_OmitsEmptyBucketsPreservesOrder(t *testing.T) {
	items := []feed.Item{
		item("Senate passes AI law", ""),
		item("New arxiv study", ""),
		item("Another research paper", ""),
	}

	batch := categorize.Categorize(items)

	require.Len(t, batch, 2)
	// Taxonomy order, not arrival order: Research before Policy & Regulation.
	assert.Equal(t, categorize.Research, batch[0].Category)
	assert.Len(t, batch[0].Items, 2)
	assert.Equal(t, categorize.PolicyRegulation, batch[1].Category)
	assert.Len(t, batch[1].Items, 1)

	assert.Equal(t, 3, batch.Items())
}

func TestCategorize_Empty(t *testing.T) {
	assert.Empty(t, categorize.Categorize(nil))
}
