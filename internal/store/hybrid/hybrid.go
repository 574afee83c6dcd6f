// Package hybrid composes the relational and file-tree backends behind the
// uniform store contract with one-way failover: once the relational side
// fails, the gateway latches onto the file backend for its lifetime.
package hybrid

import (
	"context"
	"errors"

	"newsforge/internal/models"
	"newsforge/internal/store"

	log "github.com/sirupsen/logrus"
)

type mode int

const (
	modeUninitialized mode = iota
	modePrimary
	modeFallback
)

// OpenPrimary lazily constructs the relational backend. It must probe the
// connection and fail when the database is unreachable.
type OpenPrimary func(ctx context.Context) (store.ArticleStore, error)

// Store probes the relational backend on first use. Probe failure, or any
// relational call failing mid-flight, downgrades permanently to the file
// backend; there is no re-probe or recovery path. The mode flag is mutable
// shared state with no locking: a gateway instance assumes a single
// in-process caller at a time.
type Store struct {
	openPrimary OpenPrimary
	primary     store.ArticleStore
	fallback    store.ArticleStore
	mode        mode
}

func New(openPrimary OpenPrimary, fallback store.ArticleStore) *Store {
	return &Store{openPrimary: openPrimary, fallback: fallback}
}

// ensure runs the lazy first-use probe.
func (s *Store) ensure(ctx context.Context) {
	if s.mode != modeUninitialized {
		return
	}
	primary, err := s.openPrimary(ctx)
	if err != nil {
		log.WithError(err).Warn("relational backend unavailable, using file backend")
		s.mode = modeFallback
		return
	}
	s.primary = primary
	s.mode = modePrimary
	log.Info("relational backend initialized")
}

// degrade latches onto the file backend after a mid-flight relational failure.
func (s *Store) degrade(op string, err error) {
	log.WithError(err).WithField("op", op).Warn("relational backend failed, falling back to file backend")
	s.mode = modeFallback
}

// expected reports errors that are results of the operation rather than
// backend failures; they are returned as-is and never trigger failover.
func expected(err error) bool {
	return errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrValidation)
}

func (s *Store) Save(ctx context.Context, article *models.Article) (*models.Article, error) {
	s.ensure(ctx)
	if s.mode == modePrimary {
		saved, err := s.primary.Save(ctx, article)
		if err == nil || expected(err) {
			return saved, err
		}
		s.degrade("save", err)
	}
	return s.fallback.Save(ctx, article)
}

func (s *Store) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	s.ensure(ctx)
	if s.mode == modePrimary {
		article, err := s.primary.GetBySlug(ctx, slug)
		if err == nil || expected(err) {
			return article, err
		}
		s.degrade("getBySlug", err)
	}
	return s.fallback.GetBySlug(ctx, slug)
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.Article, error) {
	s.ensure(ctx)
	if s.mode == modePrimary {
		article, err := s.primary.GetByID(ctx, id)
		if err == nil || expected(err) {
			return article, err
		}
		s.degrade("getById", err)
	}
	return s.fallback.GetByID(ctx, id)
}

func (s *Store) List(ctx context.Context, opts store.ListOptions) ([]*models.Article, error) {
	s.ensure(ctx)
	if s.mode == modePrimary {
		articles, err := s.primary.List(ctx, opts)
		if err == nil {
			return articles, nil
		}
		s.degrade("list", err)
	}
	return s.fallback.List(ctx, opts)
}

func (s *Store) Update(ctx context.Context, slug string, update store.ArticleUpdate) (*models.Article, error) {
	s.ensure(ctx)
	if s.mode == modePrimary {
		article, err := s.primary.Update(ctx, slug, update)
		if err == nil || expected(err) {
			return article, err
		}
		s.degrade("update", err)
	}
	return s.fallback.Update(ctx, slug, update)
}

func (s *Store) Delete(ctx context.Context, slug string) (bool, error) {
	s.ensure(ctx)
	if s.mode == modePrimary {
		deleted, err := s.primary.Delete(ctx, slug)
		if err == nil {
			return deleted, nil
		}
		s.degrade("delete", err)
	}
	return s.fallback.Delete(ctx, slug)
}

func (s *Store) Ping(ctx context.Context) error {
	s.ensure(ctx)
	if s.mode == modePrimary {
		return s.primary.Ping(ctx)
	}
	return s.fallback.Ping(ctx)
}

func (s *Store) Close() error {
	var err error
	if s.primary != nil {
		err = s.primary.Close()
	}
	if cerr := s.fallback.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

var _ store.ArticleStore = (*Store)(nil)
