package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// Site is one site served by the installation. Redirect rules may be scoped
// to a single site or, with a null site reference, apply to all of them.
type Site struct {
	ID        string    `db:"id"`
	Hostname  string    `db:"hostname"`
	Port      int       `db:"port"`
	SiteName  string    `db:"site_name"`
	IsDefault bool      `db:"is_default"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Label returns the human-readable name shown in site selection fields.
func (s *Site) Label() string {
	if s.SiteName != "" {
		return s.SiteName
	}
	return s.Hostname
}

type SiteStore struct {
	db *sqlx.DB
}

func NewSiteStore(db *sqlx.DB) *SiteStore {
	return &SiteStore{db: db}
}

func (s *SiteStore) ListAll(ctx context.Context) ([]*Site, error) {
	var sites []*Site
	err := s.db.SelectContext(ctx, &sites, `SELECT * FROM sites ORDER BY hostname ASC`)
	if err != nil {
		return nil, err
	}
	return sites, nil
}

func (s *SiteStore) GetByID(ctx context.Context, id string) (*Site, error) {
	var site Site
	err := s.db.GetContext(ctx, &site, `SELECT * FROM sites WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &site, nil
}
