package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anonymoize/madokami/internal/chapters"
	"github.com/anonymoize/madokami/internal/config"
	"github.com/anonymoize/madokami/internal/downloader"
	"github.com/anonymoize/madokami/internal/source"
	"github.com/anonymoize/madokami/internal/source/madokami"
	"github.com/anonymoize/madokami/internal/ui"
	"github.com/anonymoize/madokami/internal/util"
)

var (
	// selection
	flagChapter string
	flagRange   string
	flagList    string

	// runtime
	flagOutput       string
	flagImageWorkers int
	flagKeepFolders  bool
	flagDryRun       bool
	flagSkipBroken   bool
)

func init() {
	downloadCmd := &cobra.Command{
		Use:   "download <series-key>",
		Short: "Download chapters of a series and produce CBZ files",
		Args:  cobra.ExactArgs(1),
		RunE:  runDownload,
	}

	// selection
	downloadCmd.Flags().StringVar(&flagChapter, "chapter", "", "download a single chapter by index or number (e.g. 5 or 28.5)")
	downloadCmd.Flags().StringVar(&flagRange, "range", "", "download a range of chapters by index (e.g. 5-12)")
	downloadCmd.Flags().StringVar(&flagList, "list", "", "download specific chapter indices (e.g. 1,3,5)")

	// runtime
	downloadCmd.Flags().StringVar(&flagOutput, "output", "", "output folder for CBZ files")
	downloadCmd.Flags().IntVar(&flagImageWorkers, "image-workers", 0, "parallel page downloads per chapter")
	downloadCmd.Flags().BoolVar(&flagKeepFolders, "keep-folders", false, "keep temporary page folders")
	downloadCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "show what would be downloaded, don't download")
	downloadCmd.Flags().BoolVar(&flagSkipBroken, "skip-broken", false, "skip failed pages instead of failing the whole chapter")

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, log, src, err := buildSource(config.Options{
		Output:       flagOutput,
		ImageWorkers: flagImageWorkers,
	})
	if err != nil {
		return err
	}

	key := args[0]
	if !strings.HasPrefix(key, "/") {
		key = "/" + key
	}

	ctx := cmd.Context()

	manga, err := src.Update(ctx, source.Manga{Key: key}, true, true)
	if err != nil {
		return fmt.Errorf("refresh series: %w", err)
	}
	if len(manga.Chapters) == 0 {
		return fmt.Errorf("no chapters found under %s", manga.Key)
	}

	all := chapters.Wrap(manga.Chapters)
	selected := chapters.Filter(all, flagChapter, flagRange, flagList)
	if len(selected) == 0 {
		return fmt.Errorf("selection matched no chapters (have %d)", len(all))
	}

	log.Infof("%s: %d of %d chapters selected\n", manga.Title, len(selected), len(all))

	if flagDryRun {
		for _, ch := range selected {
			fmt.Printf("  [%s] %s -> %s\n", ch.Label(), ch.Title, ch.OutputCBZ())
		}
		return nil
	}

	outDir := filepath.Join(cfg.Output, sanitizeDirName(manga.Title))
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	util.SetupInterruptHandler(outDir)

	// separate client without a client-level timeout: each page download
	// is bounded by its own request context instead
	client, err := util.NewHTTPClient(util.HTTPClientOptions{
		UserAgent:   util.PickUserAgent(cfg.UserAgent),
		CFBypass:    cfg.CFBypass,
		DebugLogger: log,
	})
	if err != nil {
		return err
	}

	d := downloader.New(client, cfg, flagSkipBroken)
	pm := ui.NewProgressManager()
	stats := &ui.Stats{}

	var failed int
	for _, ch := range selected {
		pages, err := src.Pages(ctx, manga, ch.Chapter)
		if err != nil {
			log.Errorf("%s: page list: %v\n", ch.Label(), err)
			failed++
			continue
		}
		if len(pages) == 0 {
			log.Warnf("%s: no pages, skipping\n", ch.Label())
			continue
		}

		folder := filepath.Join(outDir, ch.FolderName())
		ph := pm.Register("ch " + ch.Label())

		files, bytes, err := d.DownloadPages(ctx, pages, folder, madokami.BaseURL+ch.Key, cfg.ImageWorkers, ph)
		if err != nil {
			log.Errorf("%s: %v\n", ch.Label(), err)
			util.CleanupFolder(folder)
			failed++
			continue
		}

		if err := util.CreateCBZ(files, ch.OutputCBZPath(outDir)); err != nil {
			log.Errorf("%s: %v\n", ch.Label(), err)
			failed++
		} else {
			stats.TotalChapters.Add(1)
			stats.TotalPages.Add(int64(len(files)))
			stats.TotalBytes.Add(bytes)
		}

		if !flagKeepFolders {
			util.CleanupFolder(folder)
		}
	}
	pm.Close()

	fmt.Printf("\nDone: %d chapters, %d pages, %s\n",
		stats.TotalChapters.Load(), stats.TotalPages.Load(), util.Human(stats.TotalBytes.Load()))
	if failed > 0 {
		return fmt.Errorf("%d chapters failed", failed)
	}
	return nil
}

func sanitizeDirName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
