// Package forms implements the admin form validation for redirect rules:
// the single-rule edit form and the two-step bulk-import form pair. Each form
// follows the same contract: bind raw request values, validate, and return
// either typed data or a set of per-field and whole-form errors suitable for
// re-rendering alongside the form.
package forms

import (
	"context"
	"errors"
	"strconv"

	"github.com/relink-dev/relink/internal/store"
)

var (
	// ErrRequired is the message for a missing required field.
	ErrRequired = errors.New("this field is required")

	// ErrInvalidChoice is the message for a value outside a field's choices.
	ErrInvalidChoice = errors.New("select a valid choice")
)

// DuplicateRedirectMessage is the whole-form error raised when an all-sites
// rule would collide with an existing all-sites rule on the same path.
const DuplicateRedirectMessage = "A redirect with this path already exists."

// Errors collects validation failures for one form submission. Field maps a
// field name to its messages; Form holds errors that arise from a combination
// of fields and cannot be pinned to one of them.
type Errors struct {
	Field map[string][]string
	Form  []string
}

func NewErrors() *Errors {
	return &Errors{Field: make(map[string][]string)}
}

func (e *Errors) AddField(field, msg string) {
	e.Field[field] = append(e.Field[field], msg)
}

func (e *Errors) AddForm(msg string) {
	e.Form = append(e.Form, msg)
}

// HasField reports whether the named field already failed validation. Used to
// skip dependent checks rather than stacking a second error on a value that
// does not exist.
func (e *Errors) HasField(field string) bool {
	return len(e.Field[field]) > 0
}

func (e *Errors) Empty() bool {
	return len(e.Field) == 0 && len(e.Form) == 0
}

// Choice is one selectable option: the value submitted by the browser and the
// label shown to the user.
type Choice struct {
	Value string
	Label string
}

// placeholderLabel marks the no-selection choice forced in front of column
// selectors when more than one column exists.
const placeholderLabel = "---"

// ColumnChoices builds the selector choices for a list of column headers as
// (stringified zero-based index, header text) pairs. With more than one
// header a placeholder choice is prepended so the user must pick explicitly;
// a single header needs no such nudge.
func ColumnChoices(headers []string) []Choice {
	choices := make([]Choice, 0, len(headers)+1)
	if len(headers) > 1 {
		choices = append(choices, Choice{Value: "", Label: placeholderLabel})
	}
	for i, h := range headers {
		choices = append(choices, Choice{Value: strconv.Itoa(i), Label: h})
	}
	return choices
}

// SiteDirectory is the slice of the site registry the forms need: resolving a
// submitted site choice. Satisfied by store.SiteStore.
type SiteDirectory interface {
	GetByID(ctx context.Context, id string) (*store.Site, error)
}

// DuplicateLookup answers "how many all-sites rules already use this
// normalized path", optionally excluding the record being edited. Satisfied
// by store.RedirectStore; kept narrow so the uniqueness rule stays
// independent of the persistence technology.
type DuplicateLookup interface {
	CountNullSite(ctx context.Context, normalizedPath, excludeID string) (int, error)
}

// boolField interprets a submitted checkbox value. An absent checkbox
// submits nothing and reads as false.
func boolField(v string) bool {
	switch v {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// validSiteChoice resolves a submitted site id against the registry. The
// empty value is the explicit "All sites" choice and is always valid.
func validSiteChoice(ctx context.Context, sites SiteDirectory, id string) (bool, error) {
	if id == "" {
		return true, nil
	}
	_, err := sites.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
