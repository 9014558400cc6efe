package cmd

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/anonymoize/madokami/internal/config"
)

var flagSearchSelect bool

func init() {
	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the site for series",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSearch,
	}
	searchCmd.Flags().BoolVar(&flagSearchSelect, "select", false, "pick a result interactively and show its details")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	_, _, src, err := buildSource(config.Options{})
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	result, err := src.Search(cmd.Context(), query, 1, nil)
	if err != nil {
		return err
	}

	if len(result.Entries) == 0 {
		fmt.Println("No results.")
		return nil
	}

	if !flagSearchSelect {
		printEntries(result)
		return nil
	}

	items := make([]string, len(result.Entries))
	for i, m := range result.Entries {
		items[i] = m.Title
	}

	prompt := promptui.Select{
		Label: "Select series",
		Items: items,
		Size:  15,
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return fmt.Errorf("selection cancelled")
	}

	manga, err := src.Update(cmd.Context(), result.Entries[idx], true, true)
	if err != nil {
		return err
	}

	printDetails(manga)
	printChapters(manga.Chapters)
	return nil
}
