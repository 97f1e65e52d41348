package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/relink-dev/relink/internal/paths"
)

// Redirect is one stored redirect rule. OldPath is always held in normalized
// form (see internal/paths). SiteID is null for rules that apply to every
// site; the unique index on (site_id, old_path) does not constrain those, so
// the null-site case is checked at the form layer instead.
type Redirect struct {
	ID             string         `db:"id"`
	OldPath        string         `db:"old_path"`
	SiteID         sql.NullString `db:"site_id"`
	IsPermanent    bool           `db:"is_permanent"`
	RedirectPageID sql.NullString `db:"redirect_page_id"`
	RedirectLink   string         `db:"redirect_link"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

// RedirectAttrs carries the writable attributes of a redirect rule. Empty
// SiteID and RedirectPageID are stored as NULL.
type RedirectAttrs struct {
	OldPath        string
	SiteID         string
	IsPermanent    bool
	RedirectPageID string
	RedirectLink   string
}

type RedirectStore struct {
	db *sqlx.DB
}

func NewRedirectStore(db *sqlx.DB) *RedirectStore {
	return &RedirectStore{db: db}
}

func (s *RedirectStore) GetByID(ctx context.Context, id string) (*Redirect, error) {
	var r Redirect
	err := s.db.GetContext(ctx, &r, `SELECT * FROM redirects WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *RedirectStore) ListAll(ctx context.Context) ([]*Redirect, error) {
	var redirects []*Redirect
	err := s.db.SelectContext(ctx, &redirects, `SELECT * FROM redirects ORDER BY old_path ASC`)
	if err != nil {
		return nil, err
	}
	return redirects, nil
}

func (s *RedirectStore) Create(ctx context.Context, attrs RedirectAttrs) (*Redirect, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO redirects (id, old_path, site_id, is_permanent, redirect_page_id, redirect_link, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, paths.Normalize(attrs.OldPath), nullable(attrs.SiteID), attrs.IsPermanent,
		nullable(attrs.RedirectPageID), attrs.RedirectLink, now, now)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *RedirectStore) Update(ctx context.Context, id string, attrs RedirectAttrs) (*Redirect, error) {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		UPDATE redirects
		SET old_path = ?, site_id = ?, is_permanent = ?, redirect_page_id = ?, redirect_link = ?, updated_at = ?
		WHERE id = ?
	`, paths.Normalize(attrs.OldPath), nullable(attrs.SiteID), attrs.IsPermanent,
		nullable(attrs.RedirectPageID), attrs.RedirectLink, now, id)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *RedirectStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM redirects WHERE id = ?`, id)
	return err
}

// CountNullSite counts stored rules that match normalizedPath and have no
// site scope, optionally excluding one record (the one being edited).
// The caller is responsible for normalizing the path first so the comparison
// matches what Create and Update persist.
func (s *RedirectStore) CountNullSite(ctx context.Context, normalizedPath, excludeID string) (int, error) {
	var n int
	if excludeID != "" {
		err := s.db.GetContext(ctx, &n,
			`SELECT COUNT(*) FROM redirects WHERE old_path = ? AND site_id IS NULL AND id != ?`,
			normalizedPath, excludeID)
		return n, err
	}
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM redirects WHERE old_path = ? AND site_id IS NULL`,
		normalizedPath)
	return n, err
}

func nullable(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
