package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/anonymoize/madokami/internal/source"
)

func printEntries(result source.MangaPageResult) {
	for i, m := range result.Entries {
		fmt.Printf("%3d. %s\n     %s\n", i+1, m.Title, m.Key)
	}
	if result.HasNextPage {
		fmt.Println("\n(more pages available)")
	}
}

func printDetails(m source.Manga) {
	fmt.Println(m.Title)
	fmt.Println(strings.Repeat("=", len(m.Title)))
	fmt.Println(" key:   ", m.Key)
	fmt.Println(" status:", m.Status)
	if m.Cover != "" {
		fmt.Println(" cover: ", m.Cover)
	}
	if len(m.Authors) > 0 {
		fmt.Println(" author:", strings.Join(m.Authors, ", "))
	}
	if len(m.Artists) > 0 {
		fmt.Println(" artist:", strings.Join(m.Artists, ", "))
	}
	if len(m.Tags) > 0 {
		fmt.Println(" tags:  ", strings.Join(m.Tags, ", "))
	}
	if m.Description != "" {
		fmt.Println()
		fmt.Println(m.Description)
	}
}

func printChapters(chs []source.Chapter) {
	if len(chs) == 0 {
		fmt.Println("\nNo chapters.")
		return
	}
	fmt.Printf("\nChapters (%d, oldest first):\n", len(chs))
	for i, ch := range chs {
		num := "?"
		if ch.Number >= 0 {
			num = fmt.Sprintf("%g", ch.Number)
		}
		fmt.Printf("%4d. [%s] %s%s\n", i+1, num, ch.Title, formatUpload(ch.DateUploaded))
	}
}

// formatUpload renders a best-effort upload date. Negative values are
// relative offsets the adapter could not anchor, so anchor them here.
func formatUpload(ts int64) string {
	switch {
	case ts == 0:
		return ""
	case ts < 0:
		return "  (" + time.Now().Add(time.Duration(ts)*time.Second).Format("2006-01-02 15:04") + ")"
	default:
		return "  (" + time.Unix(ts, 0).UTC().Format("2006-01-02 15:04") + ")"
	}
}
