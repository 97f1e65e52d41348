package forms

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ImportForm is step one of the bulk import: a single required file field.
// The set of accepted file extensions is supplied by the caller, so deploys
// can narrow or widen the supported formats without a code change.
type ImportForm struct {
	allowedExtensions []string
}

func NewImportForm(allowedExtensions []string) *ImportForm {
	exts := make([]string, 0, len(allowedExtensions))
	for _, e := range allowedExtensions {
		exts = append(exts, strings.ToLower(strings.TrimPrefix(e, ".")))
	}
	return &ImportForm{allowedExtensions: exts}
}

// Accept renders the upload control's accept attribute, e.g. ".csv,.tsv".
func (f *ImportForm) Accept() string {
	parts := make([]string, 0, len(f.allowedExtensions))
	for _, e := range f.allowedExtensions {
		parts = append(parts, "."+e)
	}
	return strings.Join(parts, ",")
}

// HelpText renders the human-readable list of accepted formats, uppercase and
// comma-separated, e.g. "Supported formats: CSV, TSV."
func (f *ImportForm) HelpText() string {
	parts := make([]string, 0, len(f.allowedExtensions))
	for _, e := range f.allowedExtensions {
		parts = append(parts, strings.ToUpper(e))
	}
	return fmt.Sprintf("Supported formats: %s.", strings.Join(parts, ", "))
}

// Validate checks that a file was submitted and carries an accepted
// extension. filename is the client-reported name of the upload, empty when
// no file was attached.
func (f *ImportForm) Validate(filename string) *Errors {
	errs := NewErrors()

	if filename == "" {
		errs.AddField("import_file", ErrRequired.Error())
		return errs
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	for _, allowed := range f.allowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	errs.AddField("import_file", fmt.Sprintf("%s: %s", ErrInvalidChoice, f.HelpText()))
	return errs
}
