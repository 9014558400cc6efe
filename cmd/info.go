package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/anonymoize/madokami/internal/config"
	"github.com/anonymoize/madokami/internal/source"
)

var flagInfoNoChapters bool

func init() {
	infoCmd := &cobra.Command{
		Use:   "info <series-key>",
		Short: "Show series details and its chapter list",
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo,
	}
	infoCmd.Flags().BoolVar(&flagInfoNoChapters, "no-chapters", false, "skip the chapter list")

	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	_, _, src, err := buildSource(config.Options{})
	if err != nil {
		return err
	}

	key := args[0]
	if !strings.HasPrefix(key, "/") {
		key = "/" + key
	}

	manga, err := src.Update(cmd.Context(), source.Manga{Key: key}, true, !flagInfoNoChapters)
	if err != nil {
		return err
	}

	printDetails(manga)
	if !flagInfoNoChapters {
		printChapters(manga.Chapters)
	}
	return nil
}
