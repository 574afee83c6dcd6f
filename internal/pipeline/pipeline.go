// Package pipeline runs the end-to-end digest flow: fetch feeds, bucket the
// items by topic, synthesize the digest article and persist it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"newsforge/internal/categorize"
	"newsforge/internal/feed"
	"newsforge/internal/models"
	"newsforge/internal/store"
	"newsforge/internal/synthesis"
)

// ErrNoItems means no feed entry survived the recency filter; there is
// nothing to write a digest about.
var ErrNoItems = errors.New("no recent items found across configured feeds")

type Options struct {
	RunID    string
	Lookback time.Duration
	// DryRun synthesizes the article but skips persistence.
	DryRun bool
}

type Pipeline struct {
	aggregator  *feed.Aggregator
	synthesizer *synthesis.Synthesizer
	store       store.ArticleStore

	// now is swappable for tests.
	now func() time.Time
}

func New(aggregator *feed.Aggregator, synthesizer *synthesis.Synthesizer, st store.ArticleStore) *Pipeline {
	return &Pipeline{
		aggregator:  aggregator,
		synthesizer: synthesizer,
		store:       st,
		now:         time.Now,
	}
}

// Run executes one digest generation cycle and returns the resulting
// article. In dry-run mode the article is returned unsaved.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*models.Article, error) {
	runID := opts.RunID
	if runID == "" {
		runID = uuid.New().String()
	}
	logger := log.WithField("run_id", runID)

	logger.WithFields(log.Fields{
		"feeds":    len(p.aggregator.Sources()),
		"lookback": opts.Lookback.String(),
	}).Info("Starting digest run")

	items := p.aggregator.FetchAll(ctx, opts.Lookback)
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	logger.WithField("items", len(items)).Info("Fetched recent items")

	batch := categorize.Categorize(items)
	for _, bucket := range batch {
		logger.WithFields(log.Fields{
			"category": bucket.Category,
			"items":    len(bucket.Items),
		}).Debug("Categorized bucket")
	}

	article, err := p.synthesizer.Synthesize(ctx, batch, p.now())
	if err != nil {
		return nil, fmt.Errorf("synthesize digest: %w", err)
	}
	logger.WithFields(log.Fields{
		"slug":  article.Slug,
		"title": article.Title,
		"tags":  article.Tags,
	}).Info("Synthesized digest article")

	if opts.DryRun {
		logger.Info("Dry run; skipping save")
		return article, nil
	}

	saved, err := p.store.Save(ctx, article)
	if err != nil {
		return nil, fmt.Errorf("save digest: %w", err)
	}
	logger.WithField("id", saved.ID).Info("Saved digest article")
	return saved, nil
}
