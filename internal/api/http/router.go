// Package http provides the HTTP delivery layer for the short-URL
// redirection service: the request classifier, the redirect hot path and
// the cold preview/analytics endpoints.
package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/imalyshev/shortlink/internal/models"
	"github.com/imalyshev/shortlink/internal/ogtags"
)

// URLService is the resolver surface the delivery layer depends on.
type URLService interface {
	Resolve(ctx context.Context, slug string) (*models.ShortURL, error)
	ResolveFast(ctx context.Context, slug string) (destination string, fromTable bool, err error)
	Metadata(ctx context.Context, slug string) (*models.ShortURL, error)
	Stats(ctx context.Context, slug string) (*models.ShortURL, error)
}

// RouterOptions carries the per-route cache directives. Zero values fall
// back to sensible defaults.
type RouterOptions struct {
	RedirectMaxAge  int
	FastTableMaxAge int
	FastStoreMaxAge int
}

func (o *RouterOptions) setDefaults() {
	if o.RedirectMaxAge <= 0 {
		o.RedirectMaxAge = 60
	}
	if o.FastTableMaxAge <= 0 {
		o.FastTableMaxAge = 3600
	}
	if o.FastStoreMaxAge <= 0 {
		o.FastStoreMaxAge = 300
	}
}

func NewRouter(logger *httplog.Logger, urlSvc URLService, extractor ogtags.MetadataExtractor, opts RouterOptions) *chi.Mux {
	opts.setDefaults()

	reg := prometheus.NewRegistry()
	m := newMetrics(reg)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(securityHeaders)
	r.Use(staticCache)

	r.Get("/ping", handlePing)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Get("/s/{slug}", classifyShortURL(m, handlePreviewPage(urlSvc, extractor)))

	r.Route("/redirect", func(r chi.Router) {
		r.Get("/", handleMissingSlug(m))
		r.Get("/{slug}", handleRedirect(urlSvc, m, opts.RedirectMaxAge))

		r.Route("/fast", func(r chi.Router) {
			r.Get("/", handleMissingSlug(m))
			r.Get("/{slug}", handleFastRedirect(urlSvc, m, opts.FastTableMaxAge, opts.FastStoreMaxAge))
		})
	})

	r.Get("/meta/{slug}", handleMeta(urlSvc, extractor))
	r.Get("/analytics", handleAnalytics(urlSvc))

	return r
}
