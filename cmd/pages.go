package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anonymoize/madokami/internal/config"
	"github.com/anonymoize/madokami/internal/source"
)

func init() {
	pagesCmd := &cobra.Command{
		Use:   "pages <chapter-key>",
		Short: "Print the page image URLs of a chapter",
		Args:  cobra.ExactArgs(1),
		RunE:  runPages,
	}

	rootCmd.AddCommand(pagesCmd)
}

func runPages(cmd *cobra.Command, args []string) error {
	_, _, src, err := buildSource(config.Options{})
	if err != nil {
		return err
	}

	key := args[0]
	if !strings.HasPrefix(key, "/") {
		key = "/" + key
	}

	pages, err := src.Pages(cmd.Context(), source.Manga{}, source.Chapter{Key: key})
	if err != nil {
		return err
	}

	if len(pages) == 0 {
		fmt.Println("No pages found (not a reader page, or the reader element carries no file list).")
		return nil
	}

	for i, p := range pages {
		fmt.Printf("%3d  %s\n", i+1, p.URL)
	}
	return nil
}
