package forms

import (
	"context"
	"net/url"
	"strconv"

	"github.com/relink-dev/relink/internal/signing"
)

// ConfirmImportForm is the base of step two of the bulk import. It carries
// the stored upload's file name and detected input format through the client
// as hidden fields. Both are signed at construction time and unsigned at
// validation time: the values round-trip through the browser, so only a
// matching signature lets the server trust them again. The form exists on
// its own so import flows that need no column mapping can reuse it.
type ConfirmImportForm struct {
	signer *signing.Signer

	// ImportFileName and InputFormat hold the signed initial values for
	// rendering into the hidden fields.
	ImportFileName string
	InputFormat    string
}

// ImportState is the verified outcome of the base confirm form.
type ImportState struct {
	FileName string
	Format   string
}

// NewConfirmImportForm signs the initial values supplied by the upload
// preview step. Either may be empty when the form is only being bound for
// validation rather than rendered.
func NewConfirmImportForm(signer *signing.Signer, fileName, format string) *ConfirmImportForm {
	f := &ConfirmImportForm{signer: signer}
	if fileName != "" {
		f.ImportFileName = signer.Sign(fileName)
	}
	if format != "" {
		f.InputFormat = signer.Sign(format)
	}
	return f
}

// Validate unsigns both hidden fields. A signature failure is a whole-form
// error carrying the signer's own message — not a generic one — so stale and
// forged resubmissions stay diagnosable.
func (f *ConfirmImportForm) Validate(v url.Values) (*ImportState, *Errors) {
	errs := NewErrors()

	fileName, err := f.signer.Unsign(v.Get("import_file_name"))
	if err != nil {
		errs.AddForm(err.Error())
	}
	format, err := f.signer.Unsign(v.Get("input_format"))
	if err != nil {
		errs.AddForm(err.Error())
	}

	if !errs.Empty() {
		return nil, errs
	}
	return &ImportState{FileName: fileName, Format: format}, nil
}

// ConfirmMappingForm is the full step-two form: the signed state of the base
// plus the user's column mapping, site scope, and permanence choice. Its
// column choices are built from the caller's current header list at
// construction time — different uploads have different columns, so the choice
// set can never be fixed at definition time.
type ConfirmMappingForm struct {
	*ConfirmImportForm

	// Choices is shared by the from and to column selectors.
	Choices []Choice

	// Permanent is the initial value for rendering; permanent redirects are
	// the default.
	Permanent bool
}

// ImportOptions is the verified outcome of the full confirm form, ready for
// the import engine.
type ImportOptions struct {
	ImportState
	FromIndex int
	ToIndex   int
	SiteID    string
	Permanent bool
}

func NewConfirmMappingForm(signer *signing.Signer, fileName, format string, headers []string) *ConfirmMappingForm {
	return &ConfirmMappingForm{
		ConfirmImportForm: NewConfirmImportForm(signer, fileName, format),
		Choices:           ColumnChoices(headers),
		Permanent:         true,
	}
}

// Validate verifies the signed state first — an integrity failure returns
// immediately so no field error can mask it — then checks the column and site
// choices. The returned error is for site lookup failures only.
func (f *ConfirmMappingForm) Validate(ctx context.Context, v url.Values, sites SiteDirectory) (*ImportOptions, *Errors, error) {
	state, errs := f.ConfirmImportForm.Validate(v)
	if errs != nil {
		return nil, errs, nil
	}

	errs = NewErrors()

	fromIndex := f.columnChoice(errs, "from_index", v.Get("from_index"))
	toIndex := f.columnChoice(errs, "to_index", v.Get("to_index"))

	siteID := v.Get("site")
	ok, err := validSiteChoice(ctx, sites, siteID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		errs.AddField("site", ErrInvalidChoice.Error())
	}

	if !errs.Empty() {
		return nil, errs, nil
	}

	return &ImportOptions{
		ImportState: *state,
		FromIndex:   fromIndex,
		ToIndex:     toIndex,
		SiteID:      siteID,
		Permanent:   boolField(v.Get("permanent")),
	}, nil, nil
}

// columnChoice validates one column selector value against the form's
// choices. The placeholder's empty value counts as no selection.
func (f *ConfirmMappingForm) columnChoice(errs *Errors, field, value string) int {
	if value == "" {
		errs.AddField(field, ErrRequired.Error())
		return 0
	}
	for _, c := range f.Choices {
		if c.Value == value {
			i, _ := strconv.Atoi(value)
			return i
		}
	}
	errs.AddField(field, ErrInvalidChoice.Error())
	return 0
}
