package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anonymoize/madokami/internal/config"
	"github.com/anonymoize/madokami/internal/source"
)

func init() {
	resolveCmd := &cobra.Command{
		Use:   "resolve <url>",
		Short: "Classify an absolute site URL as a series or chapter link",
		Args:  cobra.ExactArgs(1),
		RunE:  runResolve,
	}

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	_, _, src, err := buildSource(config.Options{})
	if err != nil {
		return err
	}

	link, err := src.ResolveLink(args[0])
	if err != nil {
		return err
	}

	switch link.Kind {
	case source.LinkManga:
		fmt.Println("series:", link.MangaKey)
	case source.LinkChapter:
		fmt.Println("chapter:", link.ChapterKey)
	default:
		fmt.Println("no match (URL is outside the site origin)")
	}
	return nil
}
