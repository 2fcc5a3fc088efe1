package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
)

// botSignatures is the closed set of crawler tokens matched against the
// user agent. Ordered roughly by hit frequency; generic tokens first, then
// the named social-preview agents.
var botSignatures = []string{
	"bot",
	"crawler",
	"spider",
	"facebookexternalhit",
	"twitterbot",
	"telegrambot",
	"whatsapp",
	"slackbot",
	"linkedinbot",
	"discordbot",
	"pinterest",
	"vkshare",
	"skypeuripreview",
	"embedly",
	"quora link preview",
}

// isBot reports whether the user agent belongs to a known crawler or
// social-preview agent. Case-insensitive substring match; the rule set is
// small and closed by design.
func isBot(userAgent string) bool {
	ua := strings.ToLower(userAgent)

	for _, sig := range botSignatures {
		if strings.Contains(ua, sig) {
			return true
		}
	}

	return false
}

// securityHeaders attaches the fixed hardening header set to every
// response, regardless of classification outcome.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")

		next.ServeHTTP(w, r)
	})
}

// staticCache marks responses under the static-asset prefix as immutable
// for a year. Asset URLs are fingerprinted, so they never change in place.
func staticCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/static/") {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		}

		next.ServeHTTP(w, r)
	})
}

// classifyShortURL dispatches an inbound short-URL request. Crawlers and
// explicit preview requests fall through to the preview page so link
// unfurlers see content-bearing HTML; everyone else gets a redirect
// instruction to the fast-resolver endpoint, dropping all other query
// parameters. Never touches persistence.
func classifyShortURL(m *metrics, preview http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case isBot(r.UserAgent()):
			m.classifier.WithLabelValues(decisionBot).Inc()
			preview(w, r)

		case r.URL.Query().Get("preview") != "":
			m.classifier.WithLabelValues(decisionPreview).Inc()
			preview(w, r)

		default:
			m.classifier.WithLabelValues(decisionRedirect).Inc()

			slug := chi.URLParam(r, "slug")
			w.Header().Set("Location", "/redirect/fast/"+url.PathEscape(slug))
			w.WriteHeader(http.StatusMovedPermanently)
		}
	}
}
