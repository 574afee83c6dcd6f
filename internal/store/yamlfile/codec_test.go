package yamlfile

import (
	"testing"
	"time"

	"newsforge/internal/models"
	"newsforge/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleArticle() *models.Article {
	return &models.Article{
		Slug:        "2025-11-17.1400EST-ai-daily-digest",
		Title:       "Models Everywhere",
		Author:      "Claude",
		Readtime:    "6 minutes",
		Tags:        []string{"AI News", "Daily Digest", "OpenAI"},
		Content:     "## Opening\n\nFirst paragraph.\n\nSecond paragraph.",
		PublishedAt: time.Date(2025, 11, 17, 14, 0, 0, 0, time.UTC),
	}
}

func TestEncodeDocument_PositionalContract(t *testing.T) {
	data, err := EncodeDocument(sampleArticle())
	require.NoError(t, err)

	// Readers index by array position; the document must be exactly five
	// single-key entries in the documented order.
	var doc []map[string]string
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.Len(t, doc, 5)

	for i, key := range []string{"title", "author", "readtime", "tags", "content"} {
		require.Len(t, doc[i], 1, "entry %d must have a single key", i)
		_, ok := doc[i][key]
		assert.True(t, ok, "entry %d must be %q", i, key)
	}

	assert.Equal(t, "AI News, Daily Digest, OpenAI", doc[3]["tags"])
	assert.Contains(t, string(data), "content: |", "multi-line content uses a literal block scalar")
}

func TestDocumentRoundTrip(t *testing.T) {
	original := sampleArticle()
	data, err := EncodeDocument(original)
	require.NoError(t, err)

	decoded, err := DecodeDocument(data, original.Slug)
	require.NoError(t, err)

	assert.Equal(t, original.Title, decoded.Title)
	assert.Equal(t, original.Author, decoded.Author)
	assert.Equal(t, original.Readtime, decoded.Readtime)
	assert.Equal(t, original.Tags, decoded.Tags)
	assert.Equal(t, original.Content, decoded.Content)
	// Publish date comes from the slug prefix, at day granularity.
	assert.Equal(t, original.PublishedAt.Truncate(24*time.Hour), decoded.PublishedAt)
}

func TestDecodeDocument_Malformed(t *testing.T) {
	slug := "2025-11-17.1400EST-ai-daily-digest"
	cases := map[string]string{
		"not yaml":        "\t{{{",
		"wrong length":    "- title: x\n- author: y\n",
		"wrong key order": "- author: y\n- title: x\n- readtime: z\n- tags: a\n- content: c\n",
	}
	for name, doc := range cases {
		_, err := DecodeDocument([]byte(doc), slug)
		require.Error(t, err, name)
		assert.ErrorIs(t, err, store.ErrMalformedDocument, name)
	}

	// A well-formed document under a slug with no date prefix is also malformed.
	data, err := EncodeDocument(sampleArticle())
	require.NoError(t, err)
	_, err = DecodeDocument(data, "no-date-slug")
	assert.ErrorIs(t, err, store.ErrMalformedDocument)
}
