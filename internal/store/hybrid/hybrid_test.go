package hybrid_test

import (
	"context"
	"errors"
	"testing"

	"newsforge/internal/models"
	"newsforge/internal/store"
	"newsforge/internal/store/hybrid"
	"newsforge/internal/store/yamlfile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("connection refused")

// failingStore simulates a relational backend that dies after construction.
type failingStore struct {
	saves int
}

func (f *failingStore) Save(ctx context.Context, a *models.Article) (*models.Article, error) {
	f.saves++
	return nil, errDown
}
func (f *failingStore) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	return nil, errDown
}
func (f *failingStore) GetByID(ctx context.Context, id string) (*models.Article, error) {
	return nil, errDown
}
func (f *failingStore) List(ctx context.Context, opts store.ListOptions) ([]*models.Article, error) {
	return nil, errDown
}
func (f *failingStore) Update(ctx context.Context, slug string, u store.ArticleUpdate) (*models.Article, error) {
	return nil, errDown
}
func (f *failingStore) Delete(ctx context.Context, slug string) (bool, error) {
	return false, errDown
}
func (f *failingStore) Ping(ctx context.Context) error { return errDown }
func (f *failingStore) Close() error                   { return nil }

// notFoundStore is a healthy relational backend with no rows.
type notFoundStore struct {
	failingStore
	lookups int
}

func (n *notFoundStore) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	n.lookups++
	return nil, store.ErrNotFound
}

func digest(slug string) *models.Article {
	published, _ := models.ParseDateFromSlug(slug)
	return &models.Article{
		Slug:        slug,
		Title:       "Digest",
		Author:      "Claude",
		Readtime:    "4 minutes",
		Tags:        []string{"AI News", "Daily Digest"},
		Content:     "Body",
		PublishedAt: published,
	}
}

func TestProbeFailureUsesFallback(t *testing.T) {
	fallback := yamlfile.New(t.TempDir())
	opens := 0
	s := hybrid.New(func(ctx context.Context) (store.ArticleStore, error) {
		opens++
		return nil, errDown
	}, fallback)
	ctx := context.Background()

	a := digest("2025-11-17.1400EST-ai-daily-digest")
	saved, err := s.Save(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, a.Slug, saved.Slug)

	got, err := s.GetBySlug(ctx, a.Slug)
	require.NoError(t, err)
	assert.Equal(t, a.Title, got.Title)
	assert.Equal(t, a.Tags, got.Tags)

	// The failed probe never repeats.
	_, _ = s.List(ctx, store.ListOptions{})
	assert.Equal(t, 1, opens)
}

func TestMidFlightFailureRetriesCurrentCall(t *testing.T) {
	primary := &failingStore{}
	fallback := yamlfile.New(t.TempDir())
	s := hybrid.New(func(ctx context.Context) (store.ArticleStore, error) {
		return primary, nil
	}, fallback)
	ctx := context.Background()

	// Probe succeeds, the save itself fails: the same call must be retried
	// against the file backend and succeed.
	a := digest("2025-11-17.1400EST-ai-daily-digest")
	saved, err := s.Save(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, a.Slug, saved.ID)
	assert.Equal(t, 1, primary.saves)

	// The latch is permanent: later calls skip the relational backend.
	_, err = s.GetBySlug(ctx, a.Slug)
	require.NoError(t, err)
	assert.Equal(t, 1, primary.saves)
}

func TestNotFoundDoesNotTriggerFailover(t *testing.T) {
	primary := &notFoundStore{}
	fallback := yamlfile.New(t.TempDir())
	s := hybrid.New(func(ctx context.Context) (store.ArticleStore, error) {
		return primary, nil
	}, fallback)
	ctx := context.Background()

	_, err := s.GetBySlug(ctx, "2025-11-17.1400EST-missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Still on the relational side.
	_, err = s.GetBySlug(ctx, "2025-11-17.1400EST-missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, 2, primary.lookups)
}

func TestValidationErrorSurfaces(t *testing.T) {
	fallback := yamlfile.New(t.TempDir())
	s := hybrid.New(func(ctx context.Context) (store.ArticleStore, error) {
		return nil, errDown
	}, fallback)

	invalid := digest("2025-11-17.1400EST-ai-daily-digest")
	invalid.Title = ""
	_, err := s.Save(context.Background(), invalid)
	assert.ErrorIs(t, err, store.ErrValidation)
}
