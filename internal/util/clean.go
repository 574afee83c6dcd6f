// Package util holds small text helpers shared across the pipeline.
package util

import (
	"html"
	"regexp"
	"strings"
)

// charReplacementMap maps typographic characters that show up in feed
// excerpts to plain ASCII equivalents.
var charReplacementMap = map[string]string{
	"‘": "'", "’": "'", "“": "\"", "”": "\"",
	"–": "-", "—": "--", "…": "...", " ": " ",
	"": "'", "": "'", "": "\"", "": "\"",
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// CleanText strips HTML markup, decodes entities and normalizes
// typographic punctuation so feed excerpts read cleanly in prompts.
// Whitespace is collapsed to single spaces.
func CleanText(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	for bad, good := range charReplacementMap {
		s = strings.ReplaceAll(s, bad, good)
	}
	return strings.Join(strings.Fields(s), " ")
}
