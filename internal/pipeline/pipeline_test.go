package pipeline_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"newsforge/internal/feed"
	"newsforge/internal/pipeline"
	"newsforge/internal/store"
	"newsforge/internal/store/yamlfile"
	"newsforge/internal/synthesis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type scriptedLLM struct {
	responses []string
	prompts   []string
}

func (s *scriptedLLM) Complete(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.prompts) > len(s.responses) {
		return "", fmt.Errorf("unexpected call %d", len(s.prompts))
	}
	return s.responses[len(s.prompts)-1], nil
}

func rssServer(t *testing.T, feedTitle string, items ...string) *httptest.Server {
	t.Helper()
	body := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>%s</title><link>http://example.com</link>
<description>test feed</description>
%s
</channel></rss>`, feedTitle, joinItems(items))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func joinItems(items []string) string {
	out := ""
	for _, it := range items {
		out += it + "\n"
	}
	return out
}

func rssItem(title, link string, pub time.Time) string {
	return fmt.Sprintf(`<item><title>%s</title><link>%s</link><guid>%s</guid>
<pubDate>%s</pubDate><description>summary of %s</description></item>`,
		title, link, link, pub.Format(time.RFC1123Z), title)
}

func TestRun_EndToEnd(t *testing.T) {
	now := time.Now()
	one := rssServer(t, "Feed One",
		rssItem("New Research Paper on Transformers", "http://a/1", now.Add(-time.Hour)),
		rssItem("Ancient Story", "http://a/2", now.Add(-30*time.Hour)),
	)
	two := rssServer(t, "Feed Two",
		rssItem("OpenAI Announces Funding Round", "http://b/1", now.Add(-2*time.Hour)),
	)
	three := rssServer(t, "Feed Three",
		rssItem("new research paper on transformers!", "http://c/1", now.Add(-3*time.Hour)),
	)

	llm := &scriptedLLM{responses: []string{
		"## Overview\n\nToday was busy in AI land.",
		`"Transformers and Money: Today in AI"`,
	}}

	baseDir := t.TempDir()
	p := pipeline.New(
		feed.NewAggregator([]string{one.URL, two.URL, three.URL}),
		synthesis.New(llm, "Claude"),
		yamlfile.New(baseDir),
	)

	article, err := p.Run(context.Background(), pipeline.Options{Lookback: 24 * time.Hour})
	require.NoError(t, err)
	require.NotNil(t, article)

	// Two LLM calls: digest body then title.
	require.Len(t, llm.prompts, 2)
	// Duplicate title folded into one entry; stale story filtered out.
	assert.Contains(t, llm.prompts[0], "New Research Paper on Transformers")
	assert.NotContains(t, llm.prompts[0], "Ancient Story")
	assert.Contains(t, llm.prompts[0], "## AI Research")
	assert.Contains(t, llm.prompts[0], "## Industry News")

	assert.Equal(t, "Transformers and Money: Today in AI", article.Title)
	assert.Equal(t, "Claude", article.Author)
	assert.Contains(t, article.Slug, "-ai-daily-digest")
	assert.Contains(t, article.Tags, "AI News")
	assert.Contains(t, article.Tags, "Daily Digest")

	// Saved under {base}/{author-slug}/{slug}.yml as a 5-entry document.
	path := filepath.Join(baseDir, "claude", article.Slug+".yml")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc []map[string]string
	require.NoError(t, yaml.Unmarshal(raw, &doc))
	require.Len(t, doc, 5)
	assert.Equal(t, article.Title, doc[0]["title"])
	assert.Equal(t, "Claude", doc[1]["author"])
}

func TestRun_NoItemsIsFatal(t *testing.T) {
	now := time.Now()
	stale := rssServer(t, "Feed", rssItem("Old News", "http://a/1", now.Add(-48*time.Hour)))

	llm := &scriptedLLM{}
	p := pipeline.New(
		feed.NewAggregator([]string{stale.URL}),
		synthesis.New(llm, "Claude"),
		yamlfile.New(t.TempDir()),
	)

	_, err := p.Run(context.Background(), pipeline.Options{Lookback: 24 * time.Hour})
	require.ErrorIs(t, err, pipeline.ErrNoItems)
	assert.Empty(t, llm.prompts)
}

func TestRun_DryRunSkipsSave(t *testing.T) {
	now := time.Now()
	srv := rssServer(t, "Feed", rssItem("Fresh Story", "http://a/1", now.Add(-time.Hour)))

	llm := &scriptedLLM{responses: []string{"digest body text", "A Title"}}
	baseDir := t.TempDir()
	st := yamlfile.New(baseDir)
	p := pipeline.New(feed.NewAggregator([]string{srv.URL}), synthesis.New(llm, "Claude"), st)

	article, err := p.Run(context.Background(), pipeline.Options{Lookback: 24 * time.Hour, DryRun: true})
	require.NoError(t, err)
	require.NotNil(t, article)

	listed, err := st.List(context.Background(), store.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestRun_BodyFailureIsFatal(t *testing.T) {
	now := time.Now()
	srv := rssServer(t, "Feed", rssItem("Fresh Story", "http://a/1", now.Add(-time.Hour)))

	llm := &scriptedLLM{} // no responses scripted; first call errors
	p := pipeline.New(feed.NewAggregator([]string{srv.URL}), synthesis.New(llm, "Claude"), yamlfile.New(t.TempDir()))

	article, err := p.Run(context.Background(), pipeline.Options{Lookback: 24 * time.Hour})
	require.Error(t, err)
	assert.Nil(t, article)
	assert.Contains(t, err.Error(), "synthesize digest")
	// Body failed, so the title call never happened.
	assert.Len(t, llm.prompts, 1)
}
