package models

import "time"

// ShortURL represents a short-URL record and its click statistics.
type ShortURL struct {
	// ID is the unique identifier for the short-URL record.
	ID int64
	// Slug is the short, immutable path segment that identifies the record.
	// Lookups are by exact, case-sensitive match.
	Slug string
	// OriginalURL is the absolute destination URL the slug resolves to.
	OriginalURL string
	// Title is an optional human-readable title used for link previews.
	Title string
	// Description is an optional human-readable description used for link previews.
	Description string
	// IsActive is the administrator-controlled kill switch.
	IsActive bool
	// ExpiresAt, when set and in the past, makes the record inert
	// regardless of IsActive. Nil means the record never expires.
	ExpiresAt *time.Time
	// Clicks is the number of times the slug has been resolved. It is a
	// best-effort, monotonically non-decreasing counter.
	Clicks int64
	// CreatedAt is the timestamp indicating when the record was created.
	CreatedAt time.Time
	// UpdatedAt is refreshed on every successful click.
	UpdatedAt time.Time
}

// ResolvableAt reports whether the record may be resolved at the given
// instant. Callers take a single now snapshot per evaluation so the
// predicate and the store-level filter agree.
func (u *ShortURL) ResolvableAt(now time.Time) bool {
	return u.IsActive && (u.ExpiresAt == nil || u.ExpiresAt.After(now))
}
