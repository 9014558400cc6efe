// Package madokami implements a source adapter for manga.madokami.al, a
// directory-style archive behind optional HTTP Basic auth. All metadata is
// scraped from server-rendered pages; page images come from the reader
// endpoint addressed by a data-path plus per-page file names embedded in a
// chapter page attribute.
package madokami

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/anonymoize/madokami/internal/source"
)

// BaseURL is the site origin; every request targets it.
const BaseURL = "https://manga.madokami.al"

var (
	_ source.Provider        = (*Madokami)(nil)
	_ source.ListingProvider = (*Madokami)(nil)
	_ source.HomeProvider    = (*Madokami)(nil)
	_ source.DeepLinkHandler = (*Madokami)(nil)
)

type Madokami struct {
	client   *http.Client
	settings source.Settings
	baseURL  string
}

func New(client *http.Client, settings source.Settings) *Madokami {
	if client == nil {
		client = http.DefaultClient
	}
	return &Madokami{
		client:   client,
		settings: settings,
		baseURL:  BaseURL,
	}
}

func (m *Madokami) Info() source.Info {
	return source.Info{ID: "madokami", Name: "Madokami", BaseURL: m.baseURL}
}

// fetch issues one authenticated GET and parses the body. Credentials are
// read from settings on every call so password changes take effect
// immediately; with both empty the request goes out unauthenticated.
func (m *Madokami) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var user, pass string
	if m.settings != nil {
		user = m.settings.Get("username")
		pass = m.settings.Get("password")
	}
	if user != "" || pass != "" {
		cred := base64.StdEncoding.EncodeToString([]byte(user + ":" + pass))
		req.Header.Set("Authorization", "Basic "+cred)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &source.HTTPStatusError{URL: url, StatusCode: resp.StatusCode}
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

// Search queries the site-wide search. The origin does not paginate search
// results, so page is ignored and HasNextPage is always false. Filters are
// only consulted for a "title" value when the free-text query is empty.
func (m *Madokami) Search(ctx context.Context, query string, _ int, filters []source.FilterValue) (source.MangaPageResult, error) {
	if query == "" {
		for _, f := range filters {
			if f.ID == "title" {
				query = f.Value
				break
			}
		}
	}

	doc, err := m.fetch(ctx, m.baseURL+"/search?q="+encodeComponent(query))
	if err != nil {
		return source.MangaPageResult{}, err
	}

	return source.MangaPageResult{
		Entries:     scrapeDirectoryRows(doc, "div.container table tbody tr"),
		HasNextPage: false,
	}, nil
}

// scrapeDirectoryRows turns file-listing table rows into manga entries.
// The first anchor of the first cell carries the series path; title and
// description are derived from it. Rows without a derivable title (pure
// annotation paths) are dropped.
func scrapeDirectoryRows(doc *goquery.Document, selector string) []source.Manga {
	var out []source.Manga
	doc.Find(selector).Each(func(_ int, row *goquery.Selection) {
		key, ok := row.Find("td:nth-child(1) a:nth-child(1)").First().Attr("href")
		if !ok {
			return
		}
		title, description := deriveFromPath(key)
		if title == "" {
			return
		}
		out = append(out, source.Manga{
			Key:         key,
			Title:       title,
			Description: description,
		})
	})
	return out
}

// Update fetches the series page once and populates details and/or the
// chapter list from the same document. Missing page elements leave fields
// at their zero value rather than failing the call.
func (m *Madokami) Update(ctx context.Context, manga source.Manga, needsDetails, needsChapters bool) (source.Manga, error) {
	doc, err := m.fetch(ctx, m.baseURL+manga.Key)
	if err != nil {
		return manga, err
	}

	if needsDetails {
		if src, ok := doc.Find("div.manga-info img[itemprop='image']").First().Attr("src"); ok {
			manga.Cover = src
		}
		if manga.Title == "" {
			title, description := deriveFromPath(manga.Key)
			if title != "" {
				manga.Title = title
			}
			if manga.Description == "" {
				manga.Description = description
			}
		}
		if t := strings.TrimSpace(doc.Find("div.manga-info-title h1").First().Text()); t != "" {
			manga.Title = t
		}
		manga.Authors = selectTexts(doc, "a[itemprop='author']")
		manga.Artists = selectTexts(doc, "a[itemprop='artist']")
		if synopsis := strings.TrimSpace(doc.Find("div.manga-info-synopsis").Text()); synopsis != "" {
			manga.Description = synopsis
		}
		switch strings.TrimSpace(doc.Find("span.scanstatus").Text()) {
		case "Yes":
			manga.Status = source.StatusCompleted
		case "No":
			manga.Status = source.StatusOngoing
		default:
			manga.Status = source.StatusUnknown
		}
		manga.Tags = selectTexts(doc, "div.genres a.tag")
	}

	if needsChapters {
		manga.Chapters = scrapeChapters(doc)
	}

	return manga, nil
}

func selectTexts(doc *goquery.Document, selector string) []string {
	var out []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if t := strings.TrimSpace(sel.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

// scrapeChapters reads the index table. The reader link lives in the 6th
// cell; rows without it are dropped. The site lists newest first, the host
// model wants oldest first, so the slice is reversed before returning.
func scrapeChapters(doc *goquery.Document) []source.Chapter {
	var out []source.Chapter
	doc.Find("table#index-table > tbody > tr").Each(func(_ int, row *goquery.Selection) {
		href, ok := row.Find("td:nth-child(6) a").First().Attr("href")
		if !ok {
			return
		}
		title := strings.TrimSpace(row.Find("td:nth-child(1) a").First().Text())
		out = append(out, source.Chapter{
			Key:          normalizeChapterHref(href),
			Title:        title,
			Number:       chapterNumber(title),
			DateUploaded: parseChapterDate(strings.TrimSpace(row.Find("td:nth-child(3)").Text())),
		})
	})
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Pages reads the reader element of a chapter page and builds one image
// URL per embedded file name. A missing reader element, missing attributes
// or malformed embedded JSON all degrade to an empty page list.
func (m *Madokami) Pages(ctx context.Context, _ source.Manga, chapter source.Chapter) ([]source.Page, error) {
	doc, err := m.fetch(ctx, m.baseURL+chapter.Key)
	if err != nil {
		return nil, err
	}

	reader := doc.Find("div#reader").First()
	dataPath := reader.AttrOr("data-path", "")
	filesJSON := reader.AttrOr("data-files", "")
	if dataPath == "" || filesJSON == "" {
		return nil, nil
	}

	var files []string
	if err := json.Unmarshal([]byte(filesJSON), &files); err != nil {
		return nil, nil
	}

	pages := make([]source.Page, 0, len(files))
	for _, file := range files {
		pages = append(pages, source.Page{
			URL: m.baseURL + "/reader/image?path=" + encodeComponent(dataPath) + "&file=" + encodeComponent(file),
		})
	}
	return pages, nil
}

// MangaList serves the "recent" listing. Unlike search, recent is
// paginated; HasNextPage reflects the presence of a pagination-next anchor.
func (m *Madokami) MangaList(ctx context.Context, listing source.Listing, page int) (source.MangaPageResult, error) {
	if listing.ID != "recent" {
		return source.MangaPageResult{}, fmt.Errorf("%w: %q", source.ErrUnsupportedListing, listing.ID)
	}

	doc, err := m.fetch(ctx, fmt.Sprintf("%s/recent?page=%d", m.baseURL, page))
	if err != nil {
		return source.MangaPageResult{}, err
	}

	return source.MangaPageResult{
		Entries:     scrapeDirectoryRows(doc, "table.mobile-files-table tbody tr"),
		HasNextPage: doc.Find("a.pagination-next").Length() > 0,
	}, nil
}

// Home returns an empty layout; the site has no curated home page.
func (m *Madokami) Home(_ context.Context) (source.HomeLayout, error) {
	return source.HomeLayout{}, nil
}

// ResolveLink classifies an absolute URL. URLs outside the origin resolve
// to no match, not an error. Paths through the reader are chapter links,
// everything else is a series directory.
func (m *Madokami) ResolveLink(rawURL string) (source.DeepLink, error) {
	if !strings.HasPrefix(rawURL, m.baseURL) {
		return source.DeepLink{}, nil
	}
	key := strings.TrimPrefix(rawURL, m.baseURL)
	if strings.HasPrefix(key, "reader/") || strings.Contains(key, "/reader/") {
		return source.DeepLink{Kind: source.LinkChapter, ChapterKey: key}, nil
	}
	return source.DeepLink{Kind: source.LinkManga, MangaKey: key}, nil
}
