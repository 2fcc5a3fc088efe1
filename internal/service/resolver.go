package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/imalyshev/shortlink/internal/models"
)

// ErrEmptySlug is returned when a resolution is attempted with an empty slug.
// The store is never queried in that case.
var ErrEmptySlug = errors.New("empty slug")

// URLRepository defines the interface for working with short-URL records at
// the business logic layer.
type URLRepository interface {
	// FindActiveBySlug retrieves a resolvable record by its slug.
	// Returns database.ErrURLNotFound for missing, inactive and expired
	// records alike.
	FindActiveBySlug(ctx context.Context, slug string) (*models.ShortURL, error)

	// FindBySlug retrieves a record by its slug regardless of state.
	FindBySlug(ctx context.Context, slug string) (*models.ShortURL, error)

	// IncrementClicks atomically bumps the click counter for a slug.
	IncrementClicks(ctx context.Context, slug string) error
}

// ClickTracker records a click without blocking the caller.
type ClickTracker interface {
	Track(slug string)
}

// Resolver turns slugs into destinations. It is the single source of truth
// for activation and expiration enforcement and the only component that
// initiates click tracking.
type Resolver struct {
	repo         URLRepository
	tracker      ClickTracker
	staticRoutes map[string]string
}

// NewResolver creates a Resolver. staticRoutes is an optional fixed
// slug-to-destination table consulted by ResolveFast before the store;
// it may be nil or empty.
func NewResolver(repo URLRepository, tracker ClickTracker, staticRoutes map[string]string) *Resolver {
	return &Resolver{
		repo:         repo,
		tracker:      tracker,
		staticRoutes: staticRoutes,
	}
}

// Resolve returns the resolvable record for slug and schedules a click
// increment as a fire-and-forget side effect. The increment never delays
// or fails the resolution.
func (s *Resolver) Resolve(ctx context.Context, slug string) (*models.ShortURL, error) {
	const op = "service.Resolver.Resolve"

	if slug == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptySlug)
	}

	url, err := s.repo.FindActiveBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve slug: %w", op, err)
	}

	s.tracker.Track(slug)

	return url, nil
}

// ResolveFast resolves slug against the static table first, falling back to
// the store. Table hits skip the database round trip entirely and are not
// click-tracked, since they have no backing record.
func (s *Resolver) ResolveFast(ctx context.Context, slug string) (destination string, fromTable bool, err error) {
	const op = "service.Resolver.ResolveFast"

	if dest, ok := s.staticRoutes[slug]; ok {
		return dest, true, nil
	}

	url, err := s.Resolve(ctx, slug)
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}

	return url.OriginalURL, false, nil
}

// Metadata returns the resolvable record for slug without counting a click.
// It shares the store query with Resolve, so a record invisible to the hot
// path is reported as not found here as well.
func (s *Resolver) Metadata(ctx context.Context, slug string) (*models.ShortURL, error) {
	const op = "service.Resolver.Metadata"

	if slug == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptySlug)
	}

	url, err := s.repo.FindActiveBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get metadata: %w", op, err)
	}

	return url, nil
}

// Stats returns the raw record for slug, including inert ones, for
// dashboard consumption.
func (s *Resolver) Stats(ctx context.Context, slug string) (*models.ShortURL, error) {
	const op = "service.Resolver.Stats"

	if slug == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptySlug)
	}

	url, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get stats: %w", op, err)
	}

	return url, nil
}
