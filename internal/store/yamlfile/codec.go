package yamlfile

import (
	"fmt"
	"strings"

	"newsforge/internal/models"
	"newsforge/internal/store"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// The on-disk document is a strict, order-dependent 5-element array:
//
//	- title: ...
//	- author: ...
//	- readtime: ...
//	- tags: comma, separated, list
//	- content: |
//	    markdown body
//
// Readers index by array position. This positional wire contract predates
// this implementation and must not change; the codec below is the only place
// that knows about it.

var documentKeys = [5]string{"title", "author", "readtime", "tags", "content"}

// EncodeDocument renders an article as the positional YAML document.
// Multi-line values use literal block scalar style.
func EncodeDocument(a *models.Article) ([]byte, error) {
	values := [5]string{a.Title, a.Author, a.Readtime, strings.Join(a.Tags, ", "), a.Content}

	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for i, key := range documentKeys {
		entry := &yaml.Node{Kind: yaml.MappingNode}
		entry.Content = append(entry.Content, scalarNode(key, false), scalarNode(values[i], true))
		seq.Content = append(seq.Content, entry)
	}

	out, err := yaml.Marshal(seq)
	if err != nil {
		return nil, fmt.Errorf("encode article document: %w", err)
	}
	return out, nil
}

func scalarNode(value string, literalIfMultiline bool) *yaml.Node {
	node := &yaml.Node{Kind: yaml.ScalarNode, Value: value}
	if literalIfMultiline && strings.Contains(value, "\n") {
		node.Style = yaml.LiteralStyle
	}
	return node
}

// DecodeDocument parses a positional document back into an article. The slug
// is not stored in the document; it is supplied from the filename, and the
// publish date is recovered from its leading YYYY-MM-DD prefix.
func DecodeDocument(data []byte, slug string) (*models.Article, error) {
	var doc []map[string]string
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrMalformedDocument, err)
	}
	if len(doc) != len(documentKeys) {
		return nil, fmt.Errorf("%w: expected %d entries, got %d", store.ErrMalformedDocument, len(documentKeys), len(doc))
	}

	values := [5]string{}
	for i, key := range documentKeys {
		v, ok := doc[i][key]
		if !ok {
			return nil, fmt.Errorf("%w: entry %d is not %q", store.ErrMalformedDocument, i, key)
		}
		values[i] = v
	}

	published, ok := models.ParseDateFromSlug(slug)
	if !ok {
		return nil, fmt.Errorf("%w: slug %q has no date prefix", store.ErrMalformedDocument, slug)
	}

	tags := lo.FilterMap(strings.Split(values[3], ","), func(t string, _ int) (string, bool) {
		trimmed := strings.TrimSpace(t)
		return trimmed, trimmed != ""
	})

	return &models.Article{
		ID:          slug,
		Slug:        slug,
		Title:       strings.TrimSpace(values[0]),
		Author:      values[1],
		Readtime:    values[2],
		Tags:        tags,
		Content:     strings.TrimRight(values[4], "\n"),
		PublishedAt: published,
		CreatedAt:   published,
		UpdatedAt:   published,
	}, nil
}
