package madokami

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/anonymoize/madokami/internal/source"
)

// percentDecode decodes %XX triplets and maps '+' to space. A '%' not
// followed by two hex digits passes through literally.
func percentDecode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		switch {
		case s[i] == '%' && i+2 < len(s):
			hi, ok1 := hexVal(s[i+1])
			lo, ok2 := hexVal(s[i+2])
			if ok1 && ok2 {
				b.WriteByte(hi<<4 | lo)
				i += 3
			} else {
				b.WriteByte('%')
				i++
			}
		case s[i] == '+':
			b.WriteByte(' ')
			i++
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// encodeComponent percent-encodes every byte except unreserved URL
// characters, strict enough for query components.
func encodeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
			c == '-' || c == '_' || c == '.' || c == '~' {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

// deriveFromPath derives a display title and description from a directory
// path. The description is the decoded last segment; the title is the
// nearest segment from the end that does not start with '!' (such segments
// are annotations like scan-group tags). An empty path yields empty both.
func deriveFromPath(path string) (title, description string) {
	var segs []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	if len(segs) == 0 {
		return "", ""
	}
	description = percentDecode(segs[len(segs)-1])
	for i := len(segs) - 1; i >= 0; i-- {
		if dec := percentDecode(segs[i]); !strings.HasPrefix(dec, "!") {
			title = dec
			break
		}
	}
	return title, description
}

// normalizeChapterHref makes a scraped reader href site-relative.
func normalizeChapterHref(raw string) string {
	if strings.HasPrefix(raw, "/") {
		return raw
	}
	return "/" + raw
}

// chapterNumber extracts the first whitespace-delimited token of title that
// parses as a number, or UnknownNumber.
func chapterNumber(title string) float64 {
	for _, tok := range strings.Fields(title) {
		if n, err := strconv.ParseFloat(tok, 64); err == nil {
			return n
		}
	}
	return source.UnknownNumber
}

// parseChapterDate handles the two date shapes the site renders.
//
// Relative ("5 min ago") returns a negative offset in seconds: the adapter
// has no reliable clock, so the caller anchors the offset against real now.
// Absolute ("yyyy-MM-dd HH:mm") is parsed by fixed offsets into Unix
// seconds; malformed numeric fields fall back to epoch-start components.
// Anything else yields 0.
func parseChapterDate(raw string) int64 {
	if raw == "" {
		return 0
	}
	if strings.HasSuffix(raw, "ago") {
		parts := strings.Split(raw, " ")
		if len(parts) >= 2 {
			if n, err := strconv.ParseInt(parts[0], 10, 64); err == nil {
				return relativeOffset(parts[1], n)
			}
		}
		return 0
	}
	if len(raw) >= 16 {
		year := atoiOr(raw[0:4], 1970)
		month := atoiOr(raw[5:7], 1)
		day := atoiOr(raw[8:10], 1)
		hour := atoiOr(raw[11:13], 0)
		minute := atoiOr(raw[14:16], 0)
		return int64(daysFromCivil(year, month, day))*86400 + int64(hour)*3600 + int64(minute)*60
	}
	return 0
}

func relativeOffset(unit string, n int64) int64 {
	switch {
	case strings.HasPrefix(unit, "min"):
		return -n * 60
	case strings.HasPrefix(unit, "hour"):
		return -n * 3600
	case strings.HasPrefix(unit, "sec"):
		return -n
	}
	return 0
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// daysFromCivil counts days between a Gregorian civil date and 1970-01-01
// (Howard Hinnant's days_from_civil).
func daysFromCivil(y, m, d int) int {
	if m <= 2 {
		y--
	}
	era := y
	if y < 0 {
		era = y - 399
	}
	era /= 400
	yoe := y - era*400
	mp := m - 3
	if m <= 2 {
		mp = m + 9
	}
	doy := (153*mp+2)/5 + d - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}
