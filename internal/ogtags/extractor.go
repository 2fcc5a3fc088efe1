// Package ogtags fetches and parses link-preview metadata from remote
// pages. It serves the cold path only: a missing preview is acceptable, so
// every failure degrades to empty or partial data instead of an error.
package ogtags

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// maxBodyBytes caps how much of a remote page is read while looking for
// meta tags. OG tags live in <head>, so anything past this is waste.
const maxBodyBytes = 1 << 20

// Data holds the link-preview metadata extracted from a page.
type Data struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	SiteName    string `json:"siteName,omitempty"`
	Type        string `json:"type,omitempty"`
}

// Extractor performs a single bounded outbound fetch per Extract call.
type Extractor struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

func NewExtractor(timeout time.Duration, userAgent string, logger *slog.Logger) *Extractor {
	return &Extractor{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		logger:    logger,
	}
}

// Extract fetches rawURL and returns whatever preview metadata the page
// carries. Network failures, non-2xx statuses and malformed markup all
// yield a zero or partial Data, never an error.
func (e *Extractor) Extract(ctx context.Context, rawURL string) Data {
	const op = "ogtags.Extractor.Extract"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		e.logger.Debug("failed to build metadata request", slog.Group(op, slog.Any("err", err)))
		return Data{}
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Debug("metadata fetch failed", slog.Group(op, slog.String("url", rawURL), slog.Any("err", err)))
		return Data{}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e.logger.Debug("metadata fetch returned non-success status",
			slog.Group(op, slog.String("url", rawURL), slog.Int("status", resp.StatusCode)))
		return Data{}
	}

	return parse(io.LimitReader(resp.Body, maxBodyBytes))
}

// parse walks the document looking for og:* meta properties, falling back
// to <title> and <meta name="description"> when the page carries no OG
// markup. The tokenizer stops at </head>; OG tags below it are ignored by
// crawlers anyway.
func parse(r io.Reader) Data {
	var (
		data     Data
		fallback struct{ title, description string }
		inTitle  bool
	)

	z := html.NewTokenizer(r)

	for {
		switch z.Next() {
		case html.ErrorToken:
			// Malformed markup or EOF: keep whatever was collected.
			return merge(data, fallback.title, fallback.description)

		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "title":
				inTitle = false
			case "head":
				return merge(data, fallback.title, fallback.description)
			}

		case html.TextToken:
			if inTitle && fallback.title == "" {
				fallback.title = strings.TrimSpace(string(z.Text()))
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			switch string(name) {
			case "title":
				inTitle = true
			case "meta":
				if !hasAttr {
					continue
				}

				var prop, metaName, content string
				for {
					key, val, more := z.TagAttr()
					switch string(key) {
					case "property":
						prop = string(val)
					case "name":
						metaName = string(val)
					case "content":
						content = string(val)
					}
					if !more {
						break
					}
				}

				switch prop {
				case "og:title":
					data.Title = content
				case "og:description":
					data.Description = content
				case "og:image":
					data.Image = content
				case "og:site_name":
					data.SiteName = content
				case "og:type":
					data.Type = content
				}

				if metaName == "description" && fallback.description == "" {
					fallback.description = content
				}
			}
		}
	}
}

func merge(data Data, titleFallback, descriptionFallback string) Data {
	if data.Title == "" {
		data.Title = titleFallback
	}
	if data.Description == "" {
		data.Description = descriptionFallback
	}
	return data
}
