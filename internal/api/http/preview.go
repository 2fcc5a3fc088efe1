package http

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"

	"github.com/imalyshev/shortlink/internal/database"
	"github.com/imalyshev/shortlink/internal/ogtags"
	"github.com/imalyshev/shortlink/internal/service"
)

// previewTmpl is the content-bearing page served to crawlers and explicit
// preview requests. It carries the OG markup link unfurlers look for and a
// plain anchor for anyone landing on it in a browser.
var previewTmpl = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{- if .Description}}
<meta name="description" content="{{.Description}}">
{{- end}}
<meta property="og:title" content="{{.Title}}">
{{- if .Description}}
<meta property="og:description" content="{{.Description}}">
{{- end}}
<meta property="og:url" content="{{.OriginalURL}}">
{{- if .OGData.Image}}
<meta property="og:image" content="{{.OGData.Image}}">
{{- end}}
{{- if .OGData.SiteName}}
<meta property="og:site_name" content="{{.OGData.SiteName}}">
{{- end}}
{{- if .OGData.Type}}
<meta property="og:type" content="{{.OGData.Type}}">
{{- else}}
<meta property="og:type" content="website">
{{- end}}
</head>
<body>
<p>This short link points to <a href="{{.OriginalURL}}" rel="noopener">{{.OriginalURL}}</a>.</p>
</body>
</html>
`))

type previewPage struct {
	Title       string
	Description string
	OriginalURL string
	OGData      ogtags.Data
}

// handlePreviewPage renders the bot-facing preview page for a slug. It is
// reached only through the classifier, never by the hot path, so the extra
// outbound fetch is acceptable here.
func handlePreviewPage(svc URLService, extractor ogtags.MetadataExtractor) http.HandlerFunc {
	const op = "api.http.handlePreviewPage"

	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		url, err := svc.Metadata(r.Context(), slug)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrEmptySlug):
				w.WriteHeader(http.StatusBadRequest)
			case errors.Is(err, database.ErrURLNotFound):
				w.WriteHeader(http.StatusNotFound)
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})
				w.WriteHeader(http.StatusInternalServerError)
			}
			return
		}

		og := extractor.Extract(r.Context(), url.OriginalURL)

		page := previewPage{
			Title:       url.Title,
			Description: url.Description,
			OriginalURL: url.OriginalURL,
			OGData:      og,
		}
		if page.Title == "" {
			page.Title = og.Title
		}
		if page.Title == "" {
			page.Title = url.Slug
		}
		if page.Description == "" {
			page.Description = og.Description
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)

		if err := previewTmpl.Execute(w, page); err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})
		}
	}
}
