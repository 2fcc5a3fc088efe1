package ogtags

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestExtractor() *Extractor {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewExtractor(2*time.Second, "shortlink-preview/1.0", logger)
}

func serveHTML(t testing.TB, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestExtractor_Extract(t *testing.T) {
	t.Run("full og markup", func(t *testing.T) {
		srv := serveHTML(t, `<!DOCTYPE html>
<html>
<head>
<title>Fallback Title</title>
<meta property="og:title" content="My Project">
<meta property="og:description" content="A thing I built">
<meta property="og:image" content="https://example.com/cover.png">
<meta property="og:site_name" content="example.com">
<meta property="og:type" content="article">
</head>
<body><p>hello</p></body>
</html>`)

		got := newTestExtractor().Extract(context.Background(), srv.URL)

		assert.Equal(t, Data{
			Title:       "My Project",
			Description: "A thing I built",
			Image:       "https://example.com/cover.png",
			SiteName:    "example.com",
			Type:        "article",
		}, got)
	})

	t.Run("falls back to title and meta description", func(t *testing.T) {
		srv := serveHTML(t, `<html>
<head>
<title>Plain Page</title>
<meta name="description" content="No og tags here">
</head>
<body></body>
</html>`)

		got := newTestExtractor().Extract(context.Background(), srv.URL)

		assert.Equal(t, "Plain Page", got.Title)
		assert.Equal(t, "No og tags here", got.Description)
		assert.Empty(t, got.Image)
	})

	t.Run("og tags win over fallbacks", func(t *testing.T) {
		srv := serveHTML(t, `<html>
<head>
<title>Fallback</title>
<meta name="description" content="fallback description">
<meta property="og:title" content="OG Title">
<meta property="og:description" content="OG description">
</head>
</html>`)

		got := newTestExtractor().Extract(context.Background(), srv.URL)

		assert.Equal(t, "OG Title", got.Title)
		assert.Equal(t, "OG description", got.Description)
	})

	t.Run("self-closing meta tags", func(t *testing.T) {
		srv := serveHTML(t, `<html><head>
<meta property="og:title" content="Closed"/>
</head></html>`)

		got := newTestExtractor().Extract(context.Background(), srv.URL)

		assert.Equal(t, "Closed", got.Title)
	})

	t.Run("truncated markup yields partial data", func(t *testing.T) {
		srv := serveHTML(t, `<html><head><meta property="og:title" content="Partial"><met`)

		got := newTestExtractor().Extract(context.Background(), srv.URL)

		assert.Equal(t, "Partial", got.Title)
		assert.Empty(t, got.Description)
	})

	t.Run("non-success status yields empty data", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		t.Cleanup(srv.Close)

		got := newTestExtractor().Extract(context.Background(), srv.URL)

		assert.Equal(t, Data{}, got)
	})

	t.Run("unreachable host yields empty data", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		got := newTestExtractor().Extract(context.Background(), url)

		assert.Equal(t, Data{}, got)
	})

	t.Run("invalid url yields empty data", func(t *testing.T) {
		got := newTestExtractor().Extract(context.Background(), "://not-a-url")

		assert.Equal(t, Data{}, got)
	})

	t.Run("sends configured user agent", func(t *testing.T) {
		var gotUA string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			io.WriteString(w, "<html><head></head></html>")
		}))
		t.Cleanup(srv.Close)

		newTestExtractor().Extract(context.Background(), srv.URL)

		assert.Equal(t, "shortlink-preview/1.0", gotUA)
	})
}
