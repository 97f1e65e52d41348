package forms

import (
	"context"
	"net/url"
	"strings"

	"github.com/relink-dev/relink/internal/paths"
	"github.com/relink-dev/relink/internal/store"
)

// RedirectForm validates one redirect rule. InstanceID is the id of the rule
// being edited, or empty when creating, so the uniqueness check does not flag
// a rule against itself.
type RedirectForm struct {
	OldPath        string
	SiteID         string
	IsPermanent    bool
	RedirectPageID string
	RedirectLink   string
	InstanceID     string
}

// BindRedirectForm populates a RedirectForm from submitted values.
func BindRedirectForm(v url.Values, instanceID string) *RedirectForm {
	return &RedirectForm{
		OldPath:        strings.TrimSpace(v.Get("old_path")),
		SiteID:         v.Get("site"),
		IsPermanent:    boolField(v.Get("is_permanent")),
		RedirectPageID: v.Get("redirect_page"),
		RedirectLink:   strings.TrimSpace(v.Get("redirect_link")),
		InstanceID:     instanceID,
	}
}

// FromRedirect populates a RedirectForm from a stored rule, for rendering the
// edit page before any submission.
func FromRedirect(r *store.Redirect) *RedirectForm {
	return &RedirectForm{
		OldPath:        r.OldPath,
		SiteID:         r.SiteID.String,
		IsPermanent:    r.IsPermanent,
		RedirectPageID: r.RedirectPageID.String,
		RedirectLink:   r.RedirectLink,
		InstanceID:     r.ID,
	}
}

// Validate runs per-field checks, then — only when those pass — the
// whole-form uniqueness pass. The DB's unique constraint on (site, path)
// ignores rows with a null site, so the all-sites case is checked here: the
// candidate path is normalized with the same rule the store applies on write,
// matched against existing all-sites rules, and the record being edited is
// excluded from the match set. The conflict comes from the combination of
// path and site, so it is reported as a whole-form error.
//
// The returned error is for lookup failures only; validation outcomes are in
// *Errors.
func (f *RedirectForm) Validate(ctx context.Context, sites SiteDirectory, dupes DuplicateLookup) (store.RedirectAttrs, *Errors, error) {
	errs := NewErrors()

	if f.OldPath == "" {
		errs.AddField("old_path", ErrRequired.Error())
	}

	ok, err := validSiteChoice(ctx, sites, f.SiteID)
	if err != nil {
		return store.RedirectAttrs{}, nil, err
	}
	if !ok {
		errs.AddField("site", ErrInvalidChoice.Error())
	}

	// The uniqueness pass is skipped when old_path already failed its
	// required check: a second error about an absent value helps nobody.
	if errs.Empty() && f.SiteID == "" {
		n, err := dupes.CountNullSite(ctx, paths.Normalize(f.OldPath), f.InstanceID)
		if err != nil {
			return store.RedirectAttrs{}, nil, err
		}
		if n > 0 {
			errs.AddForm(DuplicateRedirectMessage)
		}
	}

	if !errs.Empty() {
		return store.RedirectAttrs{}, errs, nil
	}

	return store.RedirectAttrs{
		OldPath:        f.OldPath,
		SiteID:         f.SiteID,
		IsPermanent:    f.IsPermanent,
		RedirectPageID: f.RedirectPageID,
		RedirectLink:   f.RedirectLink,
	}, nil, nil
}
