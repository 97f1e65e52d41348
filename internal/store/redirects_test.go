package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/relink-dev/relink/internal/testutil"
)

// seedSite inserts a site row directly; site provisioning is outside the
// admin surface under test.
func seedSite(t *testing.T, db *sqlx.DB, hostname string) string {
	t.Helper()
	id := uuid.New().String()
	now := time.Now().UTC()
	_, err := db.Exec(`
		INSERT INTO sites (id, hostname, port, site_name, is_default, created_at, updated_at)
		VALUES (?, ?, 80, ?, FALSE, ?, ?)
	`, id, hostname, hostname, now, now)
	if err != nil {
		t.Fatalf("seed site %q: %v", hostname, err)
	}
	return id
}

func TestRedirectStoreCreateNormalizesPath(t *testing.T) {
	db := testutil.NewTestDB(t)
	rs := NewRedirectStore(db)

	r, err := rs.Create(context.Background(), RedirectAttrs{OldPath: "/hello/", RedirectLink: "https://example.com"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.OldPath != "/hello" {
		t.Errorf("stored OldPath = %q, want normalized %q", r.OldPath, "/hello")
	}
	if r.SiteID.Valid {
		t.Errorf("SiteID = %v, want NULL", r.SiteID)
	}
}

func TestRedirectStoreCountNullSite(t *testing.T) {
	db := testutil.NewTestDB(t)
	rs := NewRedirectStore(db)
	siteID := seedSite(t, db, "blog.example.com")
	ctx := context.Background()

	allSites, err := rs.Create(ctx, RedirectAttrs{OldPath: "/hello"})
	if err != nil {
		t.Fatalf("create all-sites rule: %v", err)
	}
	if _, err := rs.Create(ctx, RedirectAttrs{OldPath: "/hello", SiteID: siteID}); err != nil {
		t.Fatalf("create site-scoped rule: %v", err)
	}

	n, err := rs.CountNullSite(ctx, "/hello", "")
	if err != nil {
		t.Fatalf("CountNullSite: %v", err)
	}
	if n != 1 {
		t.Errorf("CountNullSite = %d, want 1 (site-scoped rule must not count)", n)
	}

	n, err = rs.CountNullSite(ctx, "/hello", allSites.ID)
	if err != nil {
		t.Fatalf("CountNullSite excluding self: %v", err)
	}
	if n != 0 {
		t.Errorf("CountNullSite excluding self = %d, want 0", n)
	}

	n, err = rs.CountNullSite(ctx, "/other", "")
	if err != nil {
		t.Fatalf("CountNullSite other path: %v", err)
	}
	if n != 0 {
		t.Errorf("CountNullSite for unused path = %d, want 0", n)
	}
}

func TestRedirectStoreSiteScopedUniqueConstraint(t *testing.T) {
	db := testutil.NewTestDB(t)
	rs := NewRedirectStore(db)
	siteID := seedSite(t, db, "blog.example.com")
	ctx := context.Background()

	if _, err := rs.Create(ctx, RedirectAttrs{OldPath: "/hello", SiteID: siteID}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := rs.Create(ctx, RedirectAttrs{OldPath: "/hello", SiteID: siteID}); err == nil {
		t.Fatal("second create with same (site, path) succeeded, want unique violation")
	}
}

func TestRedirectStoreUpdate(t *testing.T) {
	db := testutil.NewTestDB(t)
	rs := NewRedirectStore(db)
	ctx := context.Background()

	r, err := rs.Create(ctx, RedirectAttrs{OldPath: "/old", IsPermanent: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := rs.Update(ctx, r.ID, RedirectAttrs{OldPath: "/newer/", RedirectLink: "https://example.com/n"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.OldPath != "/newer" {
		t.Errorf("OldPath = %q, want %q", updated.OldPath, "/newer")
	}
	if updated.IsPermanent {
		t.Error("IsPermanent kept true after update cleared it")
	}
}

func TestRedirectStoreGetByIDNotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	rs := NewRedirectStore(db)

	if _, err := rs.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByID(missing) err = %v, want ErrNotFound", err)
	}
}

func TestSiteStore(t *testing.T) {
	db := testutil.NewTestDB(t)
	ss := NewSiteStore(db)
	id := seedSite(t, db, "blog.example.com")
	ctx := context.Background()

	site, err := ss.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if site.Hostname != "blog.example.com" {
		t.Errorf("Hostname = %q", site.Hostname)
	}

	if _, err := ss.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(missing) err = %v, want ErrNotFound", err)
	}

	sites, err := ss.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(sites) != 1 {
		t.Errorf("ListAll returned %d sites, want 1", len(sites))
	}
}

func TestSiteLabel(t *testing.T) {
	s := &Site{Hostname: "blog.example.com"}
	if s.Label() != "blog.example.com" {
		t.Errorf("Label() = %q", s.Label())
	}
	s.SiteName = "Blog"
	if s.Label() != "Blog" {
		t.Errorf("Label() = %q, want site name when set", s.Label())
	}
}
