// Package downloader fetches chapter page images concurrently. Retry and
// backoff live here, on the host side of the adapter boundary.
package downloader

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/anonymoize/madokami/internal/source"
	"github.com/anonymoize/madokami/internal/ui"
	"github.com/anonymoize/madokami/internal/util"
)

type Downloader struct {
	client     *http.Client
	settings   source.Settings
	skipBroken bool
}

func New(c *http.Client, settings source.Settings, skipBroken bool) *Downloader {
	return &Downloader{
		client:     c,
		settings:   settings,
		skipBroken: skipBroken,
	}
}

type chapterState struct {
	mu         sync.Mutex
	donePages  int
	totalPages int
	doneBytes  int64
}

// DownloadPages fetches every page image into folder with maxParallel
// workers. It returns the written file paths and total bytes; with
// skipBroken unset, any failed page fails the whole chapter.
func (d *Downloader) DownloadPages(
	ctx context.Context,
	pages []source.Page,
	folder string,
	referer string,
	maxParallel int,
	ph *ui.ProgressHandle,
) ([]string, int64, error) {

	if err := os.MkdirAll(folder, 0755); err != nil {
		return nil, 0, err
	}

	total := len(pages)
	if maxParallel < 1 {
		maxParallel = 1
	}
	if maxParallel > total && total > 0 {
		maxParallel = total
	}

	cs := &chapterState{totalPages: total}
	ph.Update(0, total, 0)

	var filesMu sync.Mutex
	files := make([]string, 0, len(pages))
	errs := make([]error, 0, 4)

	jobs := make(chan int)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for i := range jobs {
			p := pages[i]
			out := filepath.Join(folder, fmt.Sprintf("page_%03d%s", i+1, pageExt(p.URL)))

			var last int64
			progress := func(done int64) {
				delta := done - last
				if delta <= 0 {
					return
				}
				last = done
				cs.mu.Lock()
				cs.doneBytes += delta
				ph.Update(cs.donePages, cs.totalPages, cs.doneBytes)
				cs.mu.Unlock()
			}

			if err := d.downloadWithRetry(ctx, p.URL, out, referer, progress); err != nil {
				cs.mu.Lock()
				errs = append(errs, fmt.Errorf("page %d: %v", i+1, err))
				cs.donePages++
				ph.Update(cs.donePages, cs.totalPages, cs.doneBytes)
				cs.mu.Unlock()
				continue
			}

			filesMu.Lock()
			files = append(files, out)
			filesMu.Unlock()

			cs.mu.Lock()
			cs.donePages++
			ph.Update(cs.donePages, cs.totalPages, cs.doneBytes)
			cs.mu.Unlock()
		}
	}

	wg.Add(maxParallel)
	for w := 0; w < maxParallel; w++ {
		go worker()
	}

	for i := range pages {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			ph.MarkDone()
			return files, cs.doneBytes, ctx.Err()
		case jobs <- i:
		}
	}

	close(jobs)
	wg.Wait()
	ph.MarkDone()

	if len(errs) > 0 && !d.skipBroken {
		return files, cs.doneBytes, fmt.Errorf("failed %d/%d pages (use --skip-broken to continue)", len(errs), total)
	}

	return files, cs.doneBytes, nil
}

// pageExt recovers the image extension from the file query parameter of a
// reader image URL; the URL path itself carries none.
func pageExt(raw string) string {
	u, err := url.Parse(raw)
	if err == nil {
		if file := u.Query().Get("file"); file != "" {
			if ext := path.Ext(file); ext != "" {
				return ext
			}
		}
		if ext := path.Ext(u.Path); ext != "" {
			return ext
		}
	}
	return ".jpg"
}

func (d *Downloader) downloadWithRetry(
	ctx context.Context,
	url string,
	output string,
	referer string,
	progress func(done int64),
) error {
	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		err = d.download(ctx, url, output, referer, progress)
		if err == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}

	return err
}

func (d *Downloader) download(
	ctx context.Context,
	u, output, referer string,
	progress func(done int64),
) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	req.Header.Set("Referer", referer)
	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")

	// the reader image endpoint sits behind the same Basic auth as the pages
	if d.settings != nil {
		user := d.settings.Get("username")
		pass := d.settings.Get("password")
		if user != "" || pass != "" {
			cred := base64.StdEncoding.EncodeToString([]byte(user + ":" + pass))
			req.Header.Set("Authorization", "Basic "+cred)
		}
	}

	// transport errors and 5xx are retried at the request level; a page
	// that fails past that is retried whole by downloadWithRetry
	resp, err := util.DoWithRetry(d.client, req, 3, time.Second)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if mt, _, _ := mime.ParseMediaType(ct); !strings.HasPrefix(mt, "image/") {
			return fmt.Errorf("unexpected MIME: %s", mt)
		}
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}

	written, err := copyWithProgress(f, resp.Body, progress)
	if err != nil {
		_ = f.Close()
		return err
	}

	if progress != nil && resp.ContentLength > 0 && written < resp.ContentLength {
		progress(resp.ContentLength)
	}

	return f.Close()
}
