package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"newsforge/internal/store"
)

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "Inspect and manage saved digest articles",
}

var (
	articlesListLimit  int
	articlesListOffset int
	articlesListAuthor string
	articlesListTags   []string
	articlesListOrder  string
)

var articlesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		articles, err := appInstance.Store.List(cmd.Context(), store.ListOptions{
			Limit:   articlesListLimit,
			Offset:  articlesListOffset,
			Author:  articlesListAuthor,
			Tags:    articlesListTags,
			OrderBy: articlesListOrder,
		})
		if err != nil {
			return fmt.Errorf("failed to list articles: %w", err)
		}

		if len(articles) == 0 {
			fmt.Println("No articles found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Slug", "Title", "Author", "Readtime", "Published"})
		table.SetBorder(true)
		table.SetRowLine(true)

		for _, a := range articles {
			table.Append([]string{
				a.Slug,
				a.Title,
				a.Author,
				a.Readtime,
				a.PublishedAt.Format(time.RFC3339),
			})
		}
		table.Render()
		return nil
	},
}

var articlesGetCmd = &cobra.Command{
	Use:   "get <slug>",
	Short: "Print a saved article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		article, err := appInstance.Store.GetBySlug(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get article: %w", err)
		}

		fmt.Printf("%s %s\n", color.CyanString("Title:"), article.Title)
		fmt.Printf("%s %s\n", color.CyanString("Author:"), article.Author)
		fmt.Printf("%s %s\n", color.CyanString("Readtime:"), article.Readtime)
		fmt.Printf("%s %s\n", color.CyanString("Tags:"), strings.Join(article.Tags, ", "))
		fmt.Printf("%s %s\n\n", color.CyanString("Published:"), article.PublishedAt.Format(time.RFC3339))
		fmt.Println(article.Content)
		return nil
	},
}

var (
	articlesUpdateTitle    string
	articlesUpdateContent  string
	articlesUpdateReadtime string
	articlesUpdateTags     []string
)

var articlesUpdateCmd = &cobra.Command{
	Use:   "update <slug>",
	Short: "Update fields of a saved article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		var update store.ArticleUpdate
		if cmd.Flags().Changed("title") {
			update.Title = &articlesUpdateTitle
		}
		if cmd.Flags().Changed("content") {
			update.Content = &articlesUpdateContent
		}
		if cmd.Flags().Changed("readtime") {
			update.Readtime = &articlesUpdateReadtime
		}
		if cmd.Flags().Changed("tag") {
			update.Tags = articlesUpdateTags
		}
		if update.IsEmpty() {
			return fmt.Errorf("nothing to update; pass at least one of --title, --content, --readtime, --tag")
		}

		article, err := appInstance.Store.Update(cmd.Context(), args[0], update)
		if err != nil {
			return fmt.Errorf("failed to update article: %w", err)
		}

		fmt.Printf("%s %s\n", color.GreenString("Updated:"), article.Slug)
		return nil
	},
}

var articlesDeleteCmd = &cobra.Command{
	Use:   "delete <slug>",
	Short: "Delete a saved article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		deleted, err := appInstance.Store.Delete(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to delete article: %w", err)
		}
		if !deleted {
			fmt.Printf("Article %q not found.\n", args[0])
			return nil
		}
		fmt.Printf("%s %s\n", color.GreenString("Deleted:"), args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(articlesCmd)
	articlesCmd.AddCommand(articlesListCmd)
	articlesCmd.AddCommand(articlesGetCmd)
	articlesCmd.AddCommand(articlesUpdateCmd)
	articlesCmd.AddCommand(articlesDeleteCmd)

	articlesListCmd.Flags().IntVarP(&articlesListLimit, "limit", "n", 20, "Maximum number of articles to list")
	articlesListCmd.Flags().IntVarP(&articlesListOffset, "offset", "o", 0, "Number of articles to skip")
	articlesListCmd.Flags().StringVar(&articlesListAuthor, "author", "", "Filter by author")
	articlesListCmd.Flags().StringArrayVar(&articlesListTags, "tag", nil, "Filter by tag (repeatable)")
	articlesListCmd.Flags().StringVar(&articlesListOrder, "order-by", "", "Order column (published_at, created_at, title)")

	articlesUpdateCmd.Flags().StringVar(&articlesUpdateTitle, "title", "", "New title")
	articlesUpdateCmd.Flags().StringVar(&articlesUpdateContent, "content", "", "New content")
	articlesUpdateCmd.Flags().StringVar(&articlesUpdateReadtime, "readtime", "", "New readtime")
	articlesUpdateCmd.Flags().StringArrayVar(&articlesUpdateTags, "tag", nil, "New tag set (repeatable)")
}
