package store

import (
	"context"
	"fmt"

	"newsforge/internal/models"
)

// ListOptions filters and paginates List calls. The file backend honors only
// Author, OrderBy and pagination; tag filtering is a relational-only
// capability (a known asymmetry between backends).
type ListOptions struct {
	Limit   int
	Offset  int
	Author  string
	Tags    []string
	OrderBy string // published_at, created_at, updated_at, title
	Order   string // ASC or DESC
}

// ArticleUpdate holds the fields of a partial update. Nil pointers (and a nil
// tag slice) leave the stored value untouched.
type ArticleUpdate struct {
	Title    *string
	Content  *string
	Readtime *string
	Tags     []string
}

// IsEmpty reports whether the update carries no changes.
func (u ArticleUpdate) IsEmpty() bool {
	return u.Title == nil && u.Content == nil && u.Readtime == nil && u.Tags == nil
}

// ArticleStore is the uniform persistence contract over the relational and
// file-tree backends. Save is an upsert keyed by slug. GetBySlug, GetByID and
// Update return ErrNotFound for missing records.
type ArticleStore interface {
	Save(ctx context.Context, article *models.Article) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	GetByID(ctx context.Context, id string) (*models.Article, error)
	List(ctx context.Context, opts ListOptions) ([]*models.Article, error)
	Update(ctx context.Context, slug string, update ArticleUpdate) (*models.Article, error)
	Delete(ctx context.Context, slug string) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}

// ValidateArticle checks the fields every backend requires before a save.
func ValidateArticle(a *models.Article) error {
	required := []struct {
		name  string
		value string
	}{
		{"slug", a.Slug},
		{"title", a.Title},
		{"author", a.Author},
		{"content", a.Content},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%w: missing required field %q", ErrValidation, f.name)
		}
	}
	return nil
}
