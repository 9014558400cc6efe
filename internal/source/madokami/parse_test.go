package madokami

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/anonymoize/madokami/internal/source"
)

func TestParseChapterDate_Relative(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
	}{
		{"5 sec ago", -5},
		{"1 secs ago", -1},
		{"5 min ago", -300},
		{"42 mins ago", -2520},
		{"2 hour ago", -7200},
		{"3 hours ago", -10800},
		{"7 days ago", 0},  // unrecognized unit
		{"x min ago", 0},   // no leading number
		{"ago", 0},         // nothing before the suffix
		{"", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, parseChapterDate(tc.raw), "raw=%q", tc.raw)
	}
}

func TestParseChapterDate_Absolute(t *testing.T) {
	want := time.Date(2020, 6, 15, 12, 30, 0, 0, time.UTC).Unix()
	assert.Equal(t, want, parseChapterDate("2020-06-15 12:30"))

	// trailing characters beyond the fixed offsets are ignored
	assert.Equal(t, want, parseChapterDate("2020-06-15 12:30:59"))

	// malformed numeric fields fall back to epoch-start components
	assert.Equal(t, time.Date(1970, 6, 15, 12, 30, 0, 0, time.UTC).Unix(), parseChapterDate("yyyy-06-15 12:30"))
	assert.Equal(t, time.Date(2020, 1, 15, 12, 30, 0, 0, time.UTC).Unix(), parseChapterDate("2020-xx-15 12:30"))

	// too short for the absolute shape
	assert.Equal(t, int64(0), parseChapterDate("2020-06-15"))
	assert.Equal(t, int64(0), parseChapterDate("yesterday maybe"))
}

func TestParseChapterDate_Monotonic(t *testing.T) {
	base := parseChapterDate("2020-06-15 12:30")
	for _, later := range []string{
		"2020-06-15 12:31",
		"2020-06-15 13:30",
		"2020-06-16 12:30",
		"2020-07-15 12:30",
		"2021-06-15 12:30",
	} {
		assert.Greater(t, parseChapterDate(later), base, "raw=%q", later)
	}
}

func TestDaysFromCivil(t *testing.T) {
	assert.Equal(t, 0, daysFromCivil(1970, 1, 1))
	assert.Equal(t, 1, daysFromCivil(1970, 1, 2))
	assert.Equal(t, -1, daysFromCivil(1969, 12, 31))
	assert.Equal(t, 10957, daysFromCivil(2000, 1, 1))
	// leap day handling
	assert.Equal(t, 11016, daysFromCivil(2000, 2, 29))
	assert.Equal(t, 11017, daysFromCivil(2000, 3, 1))
}

func TestPercentDecode(t *testing.T) {
	assert.Equal(t, "One Piece", percentDecode("One%20Piece"))
	assert.Equal(t, "One Piece", percentDecode("One+Piece"))
	assert.Equal(t, "a%b", percentDecode("a%b"))     // malformed escape passes '%' through
	assert.Equal(t, "a%zzb", percentDecode("a%zzb")) // non-hex digits
	assert.Equal(t, "100%", percentDecode("100%"))   // trailing '%'
	assert.Equal(t, "", percentDecode(""))
}

func TestEncodeComponent(t *testing.T) {
	assert.Equal(t, "one%20piece", encodeComponent("one piece"))
	assert.Equal(t, "a-b_c.d~e", encodeComponent("a-b_c.d~e"))
	assert.Equal(t, "%2FManga%2FS", encodeComponent("/Manga/S"))
	assert.Equal(t, "%26%3D%3F%23", encodeComponent("&=?#"))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	// decode is the left inverse of encode on printable ASCII
	inputs := []string{
		"plain",
		"with space",
		"/Manga/S/Series Name!/ch 1",
		"a+b=c&d?e#f%g",
		"!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~",
	}
	for _, s := range inputs {
		assert.Equal(t, s, percentDecode(encodeComponent(s)), "s=%q", s)
	}
}

func TestDeriveFromPath(t *testing.T) {
	title, desc := deriveFromPath("/Manga/S/Series-Name/!Group/Chapter-1/")
	// '!' segments are skipped for the title only, never for the description
	assert.Equal(t, "Chapter-1", title)
	assert.Equal(t, "Chapter-1", desc)

	title, desc = deriveFromPath("/Manga/S/Series-Name/!Group/")
	assert.Equal(t, "Series-Name", title)
	assert.Equal(t, "!Group", desc)

	title, desc = deriveFromPath("/Manga/One%20Piece")
	assert.Equal(t, "One Piece", title)
	assert.Equal(t, "One Piece", desc)

	title, desc = deriveFromPath("/!A/!B")
	assert.Equal(t, "", title)
	assert.Equal(t, "!B", desc)

	title, desc = deriveFromPath("")
	assert.Equal(t, "", title)
	assert.Equal(t, "", desc)

	title, desc = deriveFromPath("///")
	assert.Equal(t, "", title)
	assert.Equal(t, "", desc)
}

func TestNormalizeChapterHref(t *testing.T) {
	assert.Equal(t, "/reader/x", normalizeChapterHref("reader/x"))
	assert.Equal(t, "/reader/x", normalizeChapterHref("/reader/x"))
}

func TestChapterNumber(t *testing.T) {
	assert.Equal(t, 12.0, chapterNumber("Series ch 12 something"))
	assert.Equal(t, 28.5, chapterNumber("28.5 extras"))
	assert.Equal(t, 3.0, chapterNumber("Vol Two 3"))
	assert.Equal(t, source.UnknownNumber, chapterNumber("Oneshot"))
	assert.Equal(t, source.UnknownNumber, chapterNumber(""))
}
