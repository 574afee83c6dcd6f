package models

import (
	"regexp"
	"strings"
	"time"
)

// Article is the digest document produced by one pipeline run. Slug is the
// stable identity key across both storage backends; re-saving an existing
// slug is an update, never a duplicate insert.
type Article struct {
	ID          string    `db:"id"`
	Slug        string    `db:"slug"`
	Title       string    `db:"title"`
	Author      string    `db:"author"`
	Content     string    `db:"content"`
	Readtime    string    `db:"readtime"`
	Tags        []string  `db:"tags"`
	PublishedAt time.Time `db:"published_at"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// AuthorSlug converts an author display name into the directory name used by
// the file backend ("Jane Doe" -> "jane-doe").
func AuthorSlug(author string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(author)), "-")
}
