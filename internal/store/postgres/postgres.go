// Package postgres implements the relational storage backend on pgx. One row
// per article, keyed by unique slug; Save is an insert-or-update-on-conflict.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"newsforge/internal/models"
	"newsforge/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const articleColumns = "id, slug, title, author, content, readtime, tags, published_at, created_at, updated_at"

type Store struct {
	db *pgxpool.Pool
}

// New opens a connection pool and issues a probe query. A failed probe fails
// construction; the hybrid gateway relies on that to decide its backend.
func New(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("database DSN cannot be empty")
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &Store{db: pool}, nil
}

// Save upserts by slug, refreshing title/content/readtime/tags and updated_at
// on conflict while leaving slug and created_at untouched.
func (s *Store) Save(ctx context.Context, article *models.Article) (*models.Article, error) {
	if err := store.ValidateArticle(article); err != nil {
		return nil, err
	}

	publishedAt := article.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = time.Now()
	}

	query := `
		INSERT INTO articles (slug, title, author, content, readtime, tags, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (slug)
		DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			readtime = EXCLUDED.readtime,
			tags = EXCLUDED.tags,
			updated_at = CURRENT_TIMESTAMP
		RETURNING ` + articleColumns

	row := s.db.QueryRow(ctx, query,
		article.Slug, article.Title, article.Author, article.Content,
		article.Readtime, article.Tags, publishedAt,
	)
	return scanArticle(row)
}

func (s *Store) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	row := s.db.QueryRow(ctx, `SELECT `+articleColumns+` FROM articles WHERE slug = $1`, slug)
	article, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get article by slug %q: %w", slug, err)
	}
	return article, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.Article, error) {
	numeric, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, store.ErrNotFound
	}
	row := s.db.QueryRow(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, numeric)
	article, scanErr := scanArticle(row)
	if scanErr != nil {
		if errors.Is(scanErr, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get article by id %s: %w", id, scanErr)
	}
	return article, nil
}

// List filters by exact author match and tag-set overlap (tags && $n), with
// whitelisted order-by and limit/offset pagination.
func (s *Store) List(ctx context.Context, opts store.ListOptions) ([]*models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE 1=1`
	args := []interface{}{}
	argID := 1

	if opts.Author != "" {
		query += fmt.Sprintf(" AND author = $%d", argID)
		args = append(args, opts.Author)
		argID++
	}
	if len(opts.Tags) > 0 {
		query += fmt.Sprintf(" AND tags && $%d", argID)
		args = append(args, opts.Tags)
		argID++
	}

	query += fmt.Sprintf(" ORDER BY %s %s", orderColumn(opts.OrderBy), orderDirection(opts.Order))

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, limit, offset)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var articles []*models.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article row: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate article rows: %w", err)
	}
	return articles, nil
}

// Update applies the partial fields and bumps updated_at.
func (s *Store) Update(ctx context.Context, slug string, update store.ArticleUpdate) (*models.Article, error) {
	sets := []string{}
	args := []interface{}{}
	argID := 1

	appendSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if update.Title != nil {
		appendSet("title", *update.Title)
	}
	if update.Content != nil {
		appendSet("content", *update.Content)
	}
	if update.Readtime != nil {
		appendSet("readtime", *update.Readtime)
	}
	if update.Tags != nil {
		appendSet("tags", update.Tags)
	}
	if len(sets) == 0 {
		return s.GetBySlug(ctx, slug)
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")

	query := fmt.Sprintf(
		"UPDATE articles SET %s WHERE slug = $%d RETURNING %s",
		strings.Join(sets, ", "), argID, articleColumns,
	)
	args = append(args, slug)

	article, err := scanArticle(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("update article %q: %w", slug, err)
	}
	return article, nil
}

func (s *Store) Delete(ctx context.Context, slug string) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM articles WHERE slug = $1`, slug)
	if err != nil {
		return false, fmt.Errorf("delete article %q: %w", slug, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) Close() error {
	s.db.Close()
	return nil
}

func scanArticle(row pgx.Row) (*models.Article, error) {
	var (
		a  models.Article
		id int64
	)
	err := row.Scan(
		&id, &a.Slug, &a.Title, &a.Author, &a.Content, &a.Readtime,
		&a.Tags, &a.PublishedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.ID = strconv.FormatInt(id, 10)
	return &a, nil
}

var validOrderColumns = map[string]bool{
	"published_at": true,
	"created_at":   true,
	"updated_at":   true,
	"title":        true,
	"slug":         true,
}

func orderColumn(column string) string {
	if validOrderColumns[column] {
		return column
	}
	return "published_at"
}

func orderDirection(direction string) string {
	if strings.EqualFold(direction, "ASC") {
		return "ASC"
	}
	return "DESC"
}

var _ store.ArticleStore = (*Store)(nil)
