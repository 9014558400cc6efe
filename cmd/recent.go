package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anonymoize/madokami/internal/config"
	"github.com/anonymoize/madokami/internal/source"
)

var flagRecentPage int

func init() {
	recentCmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently updated series",
		RunE:  runRecent,
	}
	recentCmd.Flags().IntVar(&flagRecentPage, "page", 1, "listing page number")

	rootCmd.AddCommand(recentCmd)
}

func runRecent(cmd *cobra.Command, _ []string) error {
	_, _, src, err := buildSource(config.Options{})
	if err != nil {
		return err
	}

	result, err := src.MangaList(cmd.Context(), source.Listing{ID: "recent", Name: "Recent"}, flagRecentPage)
	if err != nil {
		return err
	}

	if len(result.Entries) == 0 {
		fmt.Println("Nothing recent on this page.")
		return nil
	}

	printEntries(result)
	return nil
}
