// Package synthesis turns a categorized news batch into a finished digest
// article via two sequential LLM calls: one for the body, one for the title.
package synthesis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"newsforge/internal/categorize"
	"newsforge/internal/models"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// FallbackTitle is substituted when the title call fails. Only the title call
// degrades gracefully; a failed body call aborts the run.
const FallbackTitle = "AI Daily Digest: Key Developments in Artificial Intelligence"

const (
	wordsPerMinute = 200
	maxTags        = 6
)

// baseTags always open the tag list when any input items exist.
var baseTags = []string{"AI News", "Daily Digest"}

// categoryTags maps taxonomy buckets to article tags. Buckets without an
// entry contribute no tag.
var categoryTags = map[categorize.Category]string{
	categorize.Research:         "AI Research",
	categorize.SafetyEthics:     "AI Safety",
	categorize.PolicyRegulation: "AI Policy",
	categorize.Industry:         "Industry",
}

// companyTags are added when the body mentions the company by name.
var companyTags = []string{"OpenAI", "Anthropic", "Google", "Microsoft", "Meta", "DeepMind"}

type Synthesizer struct {
	llm    Completer
	author string
}

func New(llm Completer, author string) *Synthesizer {
	return &Synthesizer{llm: llm, author: author}
}

// Synthesize generates the digest article for the given batch and publication
// date. A body-generation failure is fatal and propagated; a title-generation
// failure substitutes FallbackTitle.
func (s *Synthesizer) Synthesize(ctx context.Context, batch categorize.Batch, date time.Time) (*models.Article, error) {
	body, err := s.llm.Complete(ctx, BuildPrompt(batch))
	if err != nil {
		return nil, fmt.Errorf("generate digest body: %w", err)
	}
	body = strings.TrimSpace(body)

	return &models.Article{
		Slug:        models.GenerateSlug(date),
		Title:       s.generateTitle(ctx, body),
		Author:      s.author,
		Content:     body,
		Readtime:    EstimateReadtime(body),
		Tags:        DeriveTags(body, batch),
		PublishedAt: date,
	}, nil
}

func (s *Synthesizer) generateTitle(ctx context.Context, body string) string {
	raw, err := s.llm.Complete(ctx, buildTitlePrompt(body))
	if err != nil {
		log.WithError(err).Warn("title generation failed, using fallback title")
		return FallbackTitle
	}
	title := strings.Trim(strings.TrimSpace(raw), `"'`)
	if title == "" {
		return FallbackTitle
	}
	return title
}

// EstimateReadtime is ceiling(words/200) formatted as "N minutes".
func EstimateReadtime(body string) string {
	words := len(strings.Fields(body))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d minutes", minutes)
}

// DeriveTags builds the tag list: the two base tags, one tag per non-empty
// taxonomy bucket, then company names mentioned in the body. Duplicates keep
// their first position and the result is capped at six entries.
func DeriveTags(body string, batch categorize.Batch) []string {
	tags := append([]string(nil), baseTags...)

	for _, category := range batch.Categories() {
		if tag, ok := categoryTags[category]; ok {
			tags = append(tags, tag)
		}
	}

	for _, company := range companyTags {
		if strings.Contains(body, company) {
			tags = append(tags, company)
		}
	}

	tags = lo.Uniq(tags)
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return tags
}
