package source

// Status is the publication status of a series.
type Status int

const (
	StatusUnknown Status = iota
	StatusOngoing
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusOngoing:
		return "Ongoing"
	case StatusCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// UnknownNumber is the Chapter.Number sentinel for chapters whose title
// carries no parsable number.
const UnknownNumber = -1.0

// Manga is one series as known to the origin site. Key is a site-relative
// path starting with "/" and is the identity of the series.
type Manga struct {
	Key         string
	Title       string
	Description string
	Cover       string
	Authors     []string
	Artists     []string
	Status      Status
	Tags        []string

	// Chapters is populated by Provider.Update when requested, ordered
	// oldest first.
	Chapters []Chapter
}

// Chapter is one chapter of a series. Key is the site-relative path of the
// reader page. DateUploaded is best-effort Unix seconds, 0 when unknown;
// relative dates ("5 min ago") come back as negative offsets for the host
// to anchor against its own clock.
type Chapter struct {
	Key          string
	Title        string
	Number       float64
	DateUploaded int64
}

// Page is a single chapter page, addressed by a direct image URL.
type Page struct {
	URL string
}

// MangaPageResult is one page of a listing or search result.
type MangaPageResult struct {
	Entries     []Manga
	HasNextPage bool
}

// HomeComponent is one titled shelf of a home layout.
type HomeComponent struct {
	Title   string
	Entries []Manga
}

// HomeLayout is a source's home screen. Sources without one return the
// zero value.
type HomeLayout struct {
	Components []HomeComponent
}

// LinkKind tags a DeepLink result.
type LinkKind int

const (
	LinkNone LinkKind = iota
	LinkManga
	LinkChapter
)

func (k LinkKind) String() string {
	switch k {
	case LinkManga:
		return "manga"
	case LinkChapter:
		return "chapter"
	default:
		return "none"
	}
}

// DeepLink is the result of resolving an absolute URL. The zero value
// means the URL did not match the source.
type DeepLink struct {
	Kind       LinkKind
	MangaKey   string
	ChapterKey string
}
