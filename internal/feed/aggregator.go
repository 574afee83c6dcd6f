package feed

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"newsforge/internal/util"
)

// Item is a normalized entry from one of the configured feed sources. Items
// are ephemeral: created per fetch cycle and discarded after categorization.
type Item struct {
	Title      string
	Link       string
	Published  time.Time
	Source     string
	Content    string
	Summary    string
	Categories []string
	GUID       string
}

// Aggregator fetches every configured source concurrently and reduces the
// results to a recent, deduplicated, newest-first batch.
type Aggregator struct {
	sources []string
}

// NewAggregator copies the source list; callers cannot mutate the set after
// construction. Extra feeds are merged by building a new Aggregator.
func NewAggregator(sources []string) *Aggregator {
	return &Aggregator{sources: append([]string(nil), sources...)}
}

// Sources returns a copy of the configured feed URLs.
func (a *Aggregator) Sources() []string {
	return append([]string(nil), a.sources...)
}

// FetchAll pulls all sources concurrently and returns items published within
// the lookback window, deduplicated by normalized title and sorted by publish
// time descending. A failing source contributes nothing; it never aborts the
// batch. There is no per-feed concurrency cap or timeout beyond what the
// underlying HTTP client enforces, so one slow source can stall the batch.
func (a *Aggregator) FetchAll(ctx context.Context, lookback time.Duration) []Item {
	results := make([][]Item, len(a.sources))

	var wg sync.WaitGroup
	for i, url := range a.sources {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			items, err := fetchSource(ctx, url)
			if err != nil {
				log.WithError(err).WithField("feed", url).Warn("skipping feed source")
				return
			}
			results[i] = items
		}(i, url)
	}
	wg.Wait()

	cutoff := time.Now().Add(-lookback)

	// Flatten in configured source order so dedup survivors are deterministic.
	var all []Item
	for _, items := range results {
		for _, it := range items {
			if it.Published.Before(cutoff) {
				continue
			}
			all = append(all, it)
		}
	}

	unique := lo.UniqBy(all, func(it Item) string { return NormalizeTitle(it.Title) })

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Published.After(unique[j].Published)
	})
	return unique
}

// fetchSource retrieves and normalizes a single feed. Entries without a
// parseable publish date are dropped here (fail closed); recency filtering
// happens in FetchAll.
func fetchSource(ctx context.Context, url string) ([]Item, error) {
	parser := gofeed.NewParser()
	parsed, err := parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		published := publishedTime(entry)
		if published == nil {
			continue
		}
		items = append(items, Item{
			Title:      entry.Title,
			Link:       entry.Link,
			Published:  *published,
			Source:     parsed.Title,
			Content:    entryContent(entry),
			Summary:    entrySummary(entry),
			Categories: append([]string(nil), entry.Categories...),
			GUID:       entry.GUID,
		})
	}
	return items, nil
}

func publishedTime(entry *gofeed.Item) *time.Time {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed
	}
	return entry.UpdatedParsed
}

// entryContent prefers the encoded content block (gofeed maps content:encoded
// into Item.Content) and falls back to the plain description.
func entryContent(entry *gofeed.Item) string {
	if entry.Content != "" {
		return entry.Content
	}
	return entry.Description
}

// entrySummary is what the prompt builder excerpts, so it comes out cleaned
// of markup and smart punctuation.
func entrySummary(entry *gofeed.Item) string {
	if entry.Description != "" {
		return util.CleanText(entry.Description)
	}
	return util.CleanText(entry.Content)
}

var nonWordRe = regexp.MustCompile(`[^\w\s]`)

// NormalizeTitle is the dedup key: lowercase, strip non-word/non-space
// characters, collapse whitespace. Intentionally exact-match, not fuzzy.
func NormalizeTitle(title string) string {
	stripped := nonWordRe.ReplaceAllString(strings.ToLower(title), "")
	return strings.Join(strings.Fields(stripped), " ")
}
