package synthesis

import (
	"fmt"
	"strings"

	"newsforge/internal/categorize"
)

const digestPromptTemplate = `You are writing a daily digest article for a technical blog about AI developments.

Your task is to synthesize the following AI news from the past 24 hours into a compelling article that:

1. Has a strong narrative voice - engaging but technical, analytical but accessible
2. Identifies the most important trends and developments
3. Connects the dots between different stories
4. Provides critical analysis and context
5. Makes sharp observations with no hype, focusing on what matters
6. Is structured with clear sections (##)
7. Uses markdown hyperlinks in the format [text](url) for references
8. Avoids buzzword bingo - be precise and substantive
9. Includes a compelling closing thought

Target length: 800-1200 words (about 6-8 minutes reading time)

Here are today's AI news stories:
%s

Please write the article content in markdown format. Do NOT include the title or metadata - only the article body starting with the opening paragraph.

Focus on synthesis rather than summarization. What's the real story here? What patterns emerge? What should readers actually care about?`

const titlePromptTemplate = `Based on the following article about AI developments, generate a compelling, specific title that:
- Is 8-12 words long
- Captures the main theme or most important development
- Uses active voice
- Avoids clickbait or vague language
- Follows the format of technical journalism

Article excerpt:
%s...

Respond with ONLY the title, nothing else.`

const (
	summaryLimit = 200 // runes of item summary included per story
	excerptLimit = 500 // runes of body fed to the title prompt
)

// BuildPrompt renders the categorized batch into the digest instruction
// template: buckets in taxonomy order, items listed with a 1-based index,
// source, human-formatted date, link and a truncated summary.
func BuildPrompt(batch categorize.Batch) string {
	var context strings.Builder

	for _, bucket := range batch {
		fmt.Fprintf(&context, "\n## %s\n\n", bucket.Category)
		for i, item := range bucket.Items {
			fmt.Fprintf(&context, "%d. **%s**\n", i+1, item.Title)
			fmt.Fprintf(&context, "   Source: %s\n", item.Source)
			fmt.Fprintf(&context, "   Published: %s\n", item.Published.Format("January 2, 2006"))
			fmt.Fprintf(&context, "   Link: %s\n", item.Link)
			if item.Summary != "" {
				fmt.Fprintf(&context, "   Summary: %s...\n", truncateRunes(item.Summary, summaryLimit))
			}
			context.WriteString("\n")
		}
	}

	return fmt.Sprintf(digestPromptTemplate, context.String())
}

// buildTitlePrompt asks for a headline from the opening of the generated body.
func buildTitlePrompt(body string) string {
	return fmt.Sprintf(titlePromptTemplate, truncateRunes(body, excerptLimit))
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
