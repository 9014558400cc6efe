// Package chapters wraps the host-model chapter with naming and selection
// helpers for the download workflow.
package chapters

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/anonymoize/madokami/internal/source"
)

type Chapter struct {
	source.Chapter
}

func Wrap(list []source.Chapter) []Chapter {
	out := make([]Chapter, len(list))
	for i, ch := range list {
		out[i] = Chapter{ch}
	}
	return out
}

// Label is the human-facing chapter identifier: the parsed number when
// known, otherwise the raw title.
func (c Chapter) Label() string {
	if c.Number >= 0 {
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	}
	return c.Title
}

func sanitize(s string) string {
	s = strings.ToLower(s)

	repl := []string{
		"•", "_",
		"-", "_",
		"—", "_",
		"–", "_",
		"/", "_",
		"\\", "_",
		" ", "_",
		"(", "",
		")", "",
	}
	for i := 0; i < len(repl); i += 2 {
		s = strings.ReplaceAll(s, repl[i], repl[i+1])
	}

	clean := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' {
			clean = append(clean, r)
		}
	}
	s = string(clean)

	s = regexp.MustCompile(`_+`).ReplaceAllString(s, "_")

	return strings.Trim(s, "_")
}

func (c Chapter) baseName() string {
	lbl := sanitize(c.Label())
	title := sanitize(c.Title)

	if title != "" && title != lbl {
		return lbl + "_" + title
	}
	if lbl == "" {
		return sanitize(filepath.Base(c.Key))
	}
	return lbl
}

func (c Chapter) FolderName() string {
	return c.baseName() + "_tmp"
}

func (c Chapter) OutputCBZ() string {
	return c.baseName() + ".cbz"
}

func (c Chapter) OutputCBZPath(out string) string {
	return filepath.Join(out, c.OutputCBZ())
}
