package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"

	"github.com/imalyshev/shortlink/internal/database"
	"github.com/imalyshev/shortlink/internal/models"
	"github.com/imalyshev/shortlink/internal/ogtags"
	"github.com/imalyshev/shortlink/internal/service"
	"github.com/imalyshev/shortlink/pkg/response"
)

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "pong")
}

// writeResolveStatus maps a resolution failure to its empty-body status.
// The hot path answers in raw bytes: failures carry no payload, and
// diagnosability comes from the request log instead.
func writeResolveStatus(w http.ResponseWriter, r *http.Request, op string, m *metrics, err error) {
	switch {
	case errors.Is(err, service.ErrEmptySlug):
		m.redirects.WithLabelValues(outcomeBadRequest).Inc()
		w.WriteHeader(http.StatusBadRequest)

	case errors.Is(err, database.ErrURLNotFound):
		m.redirects.WithLabelValues(outcomeNotFound).Inc()
		w.WriteHeader(http.StatusNotFound)

	default:
		httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

		m.redirects.WithLabelValues(outcomeStoreError).Inc()
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// handleMissingSlug answers requests that reached a redirect route without
// a slug segment. The store is never consulted.
func handleMissingSlug(m *metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.redirects.WithLabelValues(outcomeBadRequest).Inc()
		w.WriteHeader(http.StatusBadRequest)
	}
}

// handleRedirect is the hot path: one indexed lookup, a fire-and-forget
// click increment, and a 301 with a moderate cache directive. No retries;
// the endpoint's whole value is latency.
func handleRedirect(svc URLService, m *metrics, maxAge int) http.HandlerFunc {
	const op = "api.http.handleRedirect"

	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		url, err := svc.Resolve(r.Context(), slug)
		if err != nil {
			writeResolveStatus(w, r, op, m, err)
			return
		}

		m.redirects.WithLabelValues(outcomeRedirect).Inc()

		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
		w.Header().Set("Location", url.OriginalURL)
		w.WriteHeader(http.StatusMovedPermanently)
	}
}

// handleFastRedirect is the degraded variant that consults the static
// slug table before the store. Table hits are immutable configuration and
// get a much longer edge cache.
func handleFastRedirect(svc URLService, m *metrics, tableMaxAge, storeMaxAge int) http.HandlerFunc {
	const op = "api.http.handleFastRedirect"

	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		destination, fromTable, err := svc.ResolveFast(r.Context(), slug)
		if err != nil {
			writeResolveStatus(w, r, op, m, err)
			return
		}

		m.redirects.WithLabelValues(outcomeRedirect).Inc()

		maxAge := storeMaxAge
		if fromTable {
			maxAge = tableMaxAge
		}

		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
		w.Header().Set("Location", destination)
		w.WriteHeader(http.StatusMovedPermanently)
	}
}

type metaResponse struct {
	OriginalURL string      `json:"originalUrl"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Slug        string      `json:"slug"`
	OGData      ogtags.Data `json:"ogData"`
}

// handleMeta serves preview metadata for a slug: the stored record fields
// plus OG tags extracted from the destination page. Cold path; extraction
// failures degrade to empty ogData rather than an error.
func handleMeta(svc URLService, extractor ogtags.MetadataExtractor) http.HandlerFunc {
	const op = "api.http.handleMeta"

	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		url, err := svc.Metadata(r.Context(), slug)
		if err != nil {
			writeEnvelopeError(w, r, op, err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, metaResponse{
			OriginalURL: url.OriginalURL,
			Title:       url.Title,
			Description: url.Description,
			Slug:        url.Slug,
			OGData:      extractor.Extract(r.Context(), url.OriginalURL),
		})
	}
}

type statsResponse struct {
	ID          int64      `json:"id"`
	Slug        string     `json:"slug"`
	OriginalURL string     `json:"original_url"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	IsActive    bool       `json:"is_active"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Clicks      int64      `json:"clicks"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toStatsResponse(url *models.ShortURL) statsResponse {
	return statsResponse{
		ID:          url.ID,
		Slug:        url.Slug,
		OriginalURL: url.OriginalURL,
		Title:       url.Title,
		Description: url.Description,
		IsActive:    url.IsActive,
		ExpiresAt:   url.ExpiresAt,
		Clicks:      url.Clicks,
		CreatedAt:   url.CreatedAt,
		UpdatedAt:   url.UpdatedAt,
	}
}

// handleAnalytics returns the raw record for dashboard consumption,
// including inert records and their click counts.
func handleAnalytics(svc URLService) http.HandlerFunc {
	const op = "api.http.handleAnalytics"
	const successMsg = "The URL record was retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		slug := r.URL.Query().Get("slug")

		url, err := svc.Stats(r.Context(), slug)
		if err != nil {
			writeEnvelopeError(w, r, op, err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, toStatsResponse(url)))
	}
}

// writeEnvelopeError is the JSON counterpart of writeResolveStatus, used by
// the cold endpoints that speak the envelope format.
func writeEnvelopeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, service.ErrEmptySlug):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.MissingSlugResponse)

	case errors.Is(err, database.ErrURLNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.ResourceNotFoundResponse)

	default:
		httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.ServerErrorResponse)
	}
}
