// Package yamlfile implements the file-tree storage backend: one positional
// YAML document per article at {base}/{author-slug}/{slug}.yml.
package yamlfile

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"newsforge/internal/models"
	"newsforge/internal/store"

	log "github.com/sirupsen/logrus"
)

// Store persists articles as YAML documents under a base directory.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Save writes the article document, creating the author directory on demand.
// Saving an existing slug overwrites the document (upsert).
func (s *Store) Save(ctx context.Context, article *models.Article) (*models.Article, error) {
	if err := store.ValidateArticle(article); err != nil {
		return nil, err
	}

	dir := filepath.Join(s.baseDir, models.AuthorSlug(article.Author))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create article directory: %w", err)
	}

	data, err := EncodeDocument(article)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, article.Slug+".yml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write article document: %w", err)
	}

	saved := *article
	saved.ID = article.Slug // the file backend has no surrogate key
	return &saved, nil
}

func (s *Store) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	path, err := s.findDocument(slug)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, store.ErrNotFound
	}

	article, err := s.readDocument(path)
	if err != nil {
		// Malformed documents are treated as absent, not as errors.
		log.WithError(err).WithField("path", path).Warn("skipping malformed article document")
		return nil, store.ErrNotFound
	}
	return article, nil
}

// GetByID resolves by slug; the file backend's id is the slug.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Article, error) {
	return s.GetBySlug(ctx, id)
}

// List scans the whole tree, decodes every document, filters by author
// equality and sorts by the slug-derived date descending. Tag filtering is
// not supported on this backend.
func (s *Store) List(ctx context.Context, opts store.ListOptions) ([]*models.Article, error) {
	paths, err := s.allDocuments()
	if err != nil {
		return nil, err
	}

	articles := make([]*models.Article, 0, len(paths))
	for _, path := range paths {
		article, err := s.readDocument(path)
		if err != nil {
			log.WithError(err).WithField("path", path).Warn("skipping malformed article document")
			continue
		}
		if opts.Author != "" && article.Author != opts.Author {
			continue
		}
		articles = append(articles, article)
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})

	return paginate(articles, opts.Offset, opts.Limit), nil
}

// Update is read-merge-write: load the existing article, apply the partial
// fields and re-save under the same slug.
func (s *Store) Update(ctx context.Context, slug string, update store.ArticleUpdate) (*models.Article, error) {
	article, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		article.Title = *update.Title
	}
	if update.Content != nil {
		article.Content = *update.Content
	}
	if update.Readtime != nil {
		article.Readtime = *update.Readtime
	}
	if update.Tags != nil {
		article.Tags = update.Tags
	}

	return s.Save(ctx, article)
}

func (s *Store) Delete(ctx context.Context, slug string) (bool, error) {
	path, err := s.findDocument(slug)
	if err != nil {
		return false, err
	}
	if path == "" {
		return false, nil
	}
	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("delete article document: %w", err)
	}
	return true, nil
}

// Ping always succeeds; the directory is created lazily on first save.
func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) readDocument(path string) (*models.Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read article document: %w", err)
	}
	slug := strings.TrimSuffix(filepath.Base(path), ".yml")
	return DecodeDocument(data, slug)
}

func (s *Store) findDocument(slug string) (string, error) {
	paths, err := s.allDocuments()
	if err != nil {
		return "", err
	}
	for _, path := range paths {
		if strings.TrimSuffix(filepath.Base(path), ".yml") == slug {
			return path, nil
		}
	}
	return "", nil
}

func (s *Store) allDocuments() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".yml") {
			paths = append(paths, path)
		}
		return nil
	})
	if os.IsNotExist(err) {
		return nil, nil // base directory not created yet
	}
	if err != nil {
		return nil, fmt.Errorf("scan article directory: %w", err)
	}
	return paths, nil
}

func paginate(articles []*models.Article, offset, limit int) []*models.Article {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(articles) {
		return []*models.Article{}
	}
	end := len(articles)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return articles[offset:end]
}

var _ store.ArticleStore = (*Store)(nil)
