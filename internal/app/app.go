package app

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"newsforge/internal/config"
	"newsforge/internal/feed"
	"newsforge/internal/store"
	"newsforge/internal/store/hybrid"
	"newsforge/internal/store/postgres"
	"newsforge/internal/store/yamlfile"
	"newsforge/internal/synthesis"
)

type App struct {
	Config *config.Config
	Store  store.ArticleStore
	LLM    synthesis.Completer
}

func NewApp(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	if err := app.initStore(); err != nil {
		return nil, err
	}
	app.LLM = synthesis.NewClient(cfg.LLM.Endpoint, cfg.LLM.APIKey, cfg.LLM.Model)

	log.WithField("storage_mode", cfg.Storage.Mode).Debug("Application initialization complete")
	return app, nil
}

func (a *App) initStore() error {
	cfg := a.Config.Storage
	switch cfg.Mode {
	case "postgres":
		st, err := postgres.New(context.Background(), cfg.Postgres.DSN())
		if err != nil {
			return fmt.Errorf("init postgres store: %w", err)
		}
		a.Store = st
	case "file":
		a.Store = yamlfile.New(cfg.BaseDir)
	case "hybrid", "":
		a.Store = hybrid.New(func(ctx context.Context) (store.ArticleStore, error) {
			return postgres.New(ctx, cfg.Postgres.DSN())
		}, yamlfile.New(cfg.BaseDir))
	default:
		return fmt.Errorf("unknown storage mode %q", cfg.Mode)
	}
	return nil
}

// NewAggregator builds the feed aggregator from the configured sources plus
// any extra feeds given on the command line.
func (a *App) NewAggregator(extraFeeds []string) *feed.Aggregator {
	sources := lo.Uniq(append(append([]string{}, a.Config.Feeds.Sources...), extraFeeds...))
	return feed.NewAggregator(sources)
}

func (a *App) NewSynthesizer() *synthesis.Synthesizer {
	return synthesis.New(a.LLM, a.Config.Digest.Author)
}

func (a *App) Close() {
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			log.WithError(err).Warn("Error closing article store")
		}
	}
}
