// Package categorize partitions feed items into a fixed, ordered taxonomy of
// topic buckets using keyword rules. It is a pure function with no state.
package categorize

import (
	"regexp"
	"strings"

	"newsforge/internal/feed"
)

// Category is one of the six fixed taxonomy labels.
type Category string

const (
	Research         Category = "AI Research"
	Industry         Category = "Industry News"
	SafetyEthics     Category = "AI Safety & Ethics"
	ProductsTools    Category = "Products & Tools"
	PolicyRegulation Category = "Policy & Regulation"
	Other            Category = "Other"
)

// Taxonomy is the fixed evaluation and output order of the buckets.
var Taxonomy = []Category{Research, Industry, SafetyEthics, ProductsTools, PolicyRegulation, Other}

type rule struct {
	category Category
	keywords *regexp.Regexp
}

// Rules are evaluated in taxonomy order, first match wins. An item matching
// both Research and Industry keywords is Research because Research comes
// first. Items matching none of the five predicates fall into Other.
var rules = []rule{
	{Research, regexp.MustCompile(`research|paper|study|breakthrough|model|training|arxiv`)},
	{Industry, regexp.MustCompile(`openai|anthropic|google|microsoft|meta|startup|funding|acquisition`)},
	{SafetyEthics, regexp.MustCompile(`safety|ethics|bias|regulation|risk|alignment`)},
	{ProductsTools, regexp.MustCompile(`product|tool|app|feature|release|launch`)},
	{PolicyRegulation, regexp.MustCompile(`policy|law|government|regulation|senate|congress`)},
}

// Bucket pairs a taxonomy label with its (non-empty) items.
type Bucket struct {
	Category Category
	Items    []feed.Item
}

// Batch is the ordered set of non-empty buckets. Empty buckets are omitted;
// the relative order of survivors follows the taxonomy, not item arrival.
type Batch []Bucket

// Categories lists the labels present in the batch, in taxonomy order.
func (b Batch) Categories() []Category {
	out := make([]Category, len(b))
	for i, bucket := range b {
		out[i] = bucket.Category
	}
	return out
}

// Items counts every item across all buckets.
func (b Batch) Items() int {
	n := 0
	for _, bucket := range b {
		n += len(bucket.Items)
	}
	return n
}

// Categorize assigns each item to exactly one bucket.
func Categorize(items []feed.Item) Batch {
	grouped := make(map[Category][]feed.Item, len(Taxonomy))
	for _, item := range items {
		c := Classify(item)
		grouped[c] = append(grouped[c], item)
	}

	batch := make(Batch, 0, len(Taxonomy))
	for _, category := range Taxonomy {
		if len(grouped[category]) == 0 {
			continue
		}
		batch = append(batch, Bucket{Category: category, Items: grouped[category]})
	}
	return batch
}

// Classify evaluates the keyword rules against the item's lowercased
// title+summary text.
func Classify(item feed.Item) Category {
	text := strings.ToLower(item.Title + " " + item.Summary)
	for _, r := range rules {
		if r.keywords.MatchString(text) {
			return r.category
		}
	}
	return Other
}
