package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// RedirectStoreIface exposes all redirect-rule data operations.
// Handlers never query the DB directly; all access goes through this interface.
type RedirectStoreIface interface {
	Create(ctx context.Context, attrs RedirectAttrs) (*Redirect, error)
	GetByID(ctx context.Context, id string) (*Redirect, error)
	ListAll(ctx context.Context) ([]*Redirect, error)
	Update(ctx context.Context, id string, attrs RedirectAttrs) (*Redirect, error)
	Delete(ctx context.Context, id string) error
	CountNullSite(ctx context.Context, normalizedPath, excludeID string) (int, error)
}

// SiteStoreIface exposes site-registry operations.
type SiteStoreIface interface {
	ListAll(ctx context.Context) ([]*Site, error)
	GetByID(ctx context.Context, id string) (*Site, error)
}
