package downloader

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSettings map[string]string

func (m mapSettings) Get(key string) string { return m[key] }

func TestPageExt(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://x.example/reader/image?path=%2FManga%2FB&file=001.png", ".png"},
		{"https://x.example/reader/image?path=p&file=002%20b.jpg", ".jpg"},
		{"https://x.example/img/scan.webp", ".webp"},
		{"https://x.example/reader/image?path=p&file=noext", ".jpg"},
		{"://not a url", ".jpg"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, pageExt(tc.url), "url=%q", tc.url)
	}
}

func TestCopyWithProgress(t *testing.T) {
	src := strings.NewReader(strings.Repeat("x", 100_000))
	var dst bytes.Buffer

	var calls int
	var last int64
	n, err := copyWithProgress(&dst, src, func(done int64) {
		calls++
		assert.GreaterOrEqual(t, done, last)
		last = done
	})
	require.NoError(t, err)

	assert.Equal(t, int64(100_000), n)
	assert.Equal(t, int64(100_000), last)
	assert.Greater(t, calls, 1)
	assert.Equal(t, 100_000, dst.Len())
}

func TestDownloadRecoversFromTransientError(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Basic YWRtaW46aHVudGVyMg==", r.Header.Get("Authorization"))
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpegbytes"))
	}))
	defer srv.Close()

	d := New(srv.Client(), mapSettings{"username": "admin", "password": "hunter2"}, false)
	out := filepath.Join(t.TempDir(), "page_001.jpg")

	err := d.download(context.Background(), srv.URL+"/reader/image?path=p&file=001.jpg", out, srv.URL, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(2), hits.Load())
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "jpegbytes", string(data))
}

func TestCopyWithProgress_NilCallback(t *testing.T) {
	var dst bytes.Buffer
	n, err := copyWithProgress(&dst, strings.NewReader("abc"), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
