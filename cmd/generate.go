package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"newsforge/internal/pipeline"
	"newsforge/internal/store/yamlfile"
)

var (
	generateHours  int
	generateDryRun bool
	generateFeeds  []string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Fetch recent AI news and generate a digest article",
	Long: `Fetches the configured RSS feeds, buckets recent items by topic,
asks the LLM to write a digest article and saves it to the configured
storage backend. Use --dry-run to preview the article without saving.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		p := pipeline.New(
			appInstance.NewAggregator(generateFeeds),
			appInstance.NewSynthesizer(),
			appInstance.Store,
		)

		article, err := p.Run(cmd.Context(), pipeline.Options{
			Lookback: time.Duration(generateHours) * time.Hour,
			DryRun:   generateDryRun,
		})
		if err != nil {
			return fmt.Errorf("digest generation failed: %w", err)
		}

		if generateDryRun {
			fmt.Printf("%s digest was not saved\n\n", color.YellowString("Dry run:"))
			doc, err := yamlfile.EncodeDocument(article)
			if err != nil {
				return fmt.Errorf("failed to render article preview: %w", err)
			}
			fmt.Println(string(doc))
			return nil
		}

		fmt.Printf("%s %s\n", color.GreenString("Saved digest:"), article.Slug)
		fmt.Printf("  Title:    %s\n", article.Title)
		fmt.Printf("  Readtime: %s\n", article.Readtime)
		fmt.Printf("  Tags:     %v\n", article.Tags)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntVar(&generateHours, "hours", 24, "How many hours back to look for news items")
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Generate the digest but do not save it")
	generateCmd.Flags().StringSliceVar(&generateFeeds, "feed", nil, "Additional feed URLs to fetch (repeatable or comma separated)")
}
