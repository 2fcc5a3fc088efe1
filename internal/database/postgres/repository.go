package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/imalyshev/shortlink/internal/database"
	"github.com/imalyshev/shortlink/internal/models"
)

type urlRecord struct {
	ID          int64      `db:"id"`
	Slug        string     `db:"slug"`
	OriginalURL string     `db:"original_url"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	IsActive    bool       `db:"is_active"`
	ExpiresAt   *time.Time `db:"expires_at"`
	Clicks      int64      `db:"clicks"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func (r *urlRecord) ToShortURL() *models.ShortURL {
	return &models.ShortURL{
		ID:          r.ID,
		Slug:        r.Slug,
		OriginalURL: r.OriginalURL,
		Title:       r.Title,
		Description: r.Description,
		IsActive:    r.IsActive,
		ExpiresAt:   r.ExpiresAt,
		Clicks:      r.Clicks,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// URLRepository provides access to short-URL records stored in PostgreSQL.
type URLRepository struct {
	db *sqlx.DB
}

func NewURLRepository(db *sqlx.DB) *URLRepository {
	return &URLRepository{
		db: db,
	}
}

// FindActiveBySlug returns the record for slug only if it is resolvable:
// active and either non-expiring or not yet expired. The expiration
// condition is evaluated at the database layer so inert records are never
// fetched at all.
func (r *URLRepository) FindActiveBySlug(ctx context.Context, slug string) (*models.ShortURL, error) {
	const op = "database.postgres.URLRepository.FindActiveBySlug"

	rec := new(urlRecord)
	query := `SELECT * FROM short_urls
		WHERE slug = $1
			AND is_active = TRUE
			AND (expires_at IS NULL OR expires_at > now())`

	err := r.db.GetContext(ctx, rec, query, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get url record: %w", op, err)
	}

	return rec.ToShortURL(), nil
}

// FindBySlug returns the record for slug regardless of its activation or
// expiration state. Used by the dashboard analytics endpoint only.
func (r *URLRepository) FindBySlug(ctx context.Context, slug string) (*models.ShortURL, error) {
	const op = "database.postgres.URLRepository.FindBySlug"

	rec := new(urlRecord)
	query := `SELECT * FROM short_urls WHERE slug = $1`

	err := r.db.GetContext(ctx, rec, query, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get url record: %w", op, err)
	}

	return rec.ToShortURL(), nil
}

// IncrementClicks atomically bumps the click counter and refreshes
// updated_at for the matching slug.
func (r *URLRepository) IncrementClicks(ctx context.Context, slug string) error {
	const op = "database.postgres.URLRepository.IncrementClicks"

	query := `UPDATE short_urls
		SET clicks = clicks + 1, updated_at = now()
		WHERE slug = $1`

	res, err := r.db.ExecContext(ctx, query, slug)
	if err != nil {
		return fmt.Errorf("%s: failed to increment clicks: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get affected rows: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
	}

	return nil
}
