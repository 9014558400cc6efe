// Package source defines the host-facing data model and the capability
// interfaces a site adapter can implement. A concrete adapter implements
// Provider and, optionally, any of the narrower interfaces; callers check
// for the extra capabilities with type assertions instead of relying on a
// single fat interface.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Settings is host-managed settings storage. Adapters read credentials
// through it on every request instead of caching them.
type Settings interface {
	// Get returns the stored value for key, or "" when unset.
	Get(key string) string
}

// FilterValue is one search filter as handed over by the host.
type FilterValue struct {
	ID    string
	Value string
}

// Listing identifies a named browse listing (e.g. "recent").
type Listing struct {
	ID   string
	Name string
}

// Info describes an adapter to the host.
type Info struct {
	ID      string
	Name    string
	BaseURL string
}

// Provider is the core capability: search, detail/chapter refresh and
// page-list fetch. Every call issues at most one outbound request.
type Provider interface {
	Info() Info

	// Search runs a free-text query. Page and filters may be ignored by
	// sources without paginated or filtered search.
	Search(ctx context.Context, query string, page int, filters []FilterValue) (MangaPageResult, error)

	// Update refreshes details and/or the chapter list for a manga whose
	// Key is populated. Both concerns share a single fetch.
	Update(ctx context.Context, manga Manga, needsDetails, needsChapters bool) (Manga, error)

	// Pages returns the page image URLs for a chapter whose Key is populated.
	Pages(ctx context.Context, manga Manga, chapter Chapter) ([]Page, error)
}

// ListingProvider serves named listings.
type ListingProvider interface {
	MangaList(ctx context.Context, listing Listing, page int) (MangaPageResult, error)
}

// HomeProvider serves the source's home layout.
type HomeProvider interface {
	Home(ctx context.Context) (HomeLayout, error)
}

// DeepLinkHandler resolves absolute URLs into manga or chapter references.
type DeepLinkHandler interface {
	// ResolveLink classifies rawURL. A URL outside the source's origin is
	// not an error: the zero DeepLink (Kind == LinkNone) is returned.
	ResolveLink(rawURL string) (DeepLink, error)
}

// ErrUnsupportedListing reports a listing ID the adapter does not serve.
var ErrUnsupportedListing = errors.New("unsupported listing")

// HTTPStatusError reports a non-2xx response from the origin site.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	if strings.TrimSpace(e.URL) == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}
