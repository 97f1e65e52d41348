package forms

import "testing"

func TestImportFormAccept(t *testing.T) {
	form := NewImportForm([]string{"csv", "xlsx"})
	if got := form.Accept(); got != ".csv,.xlsx" {
		t.Errorf("Accept() = %q, want %q", got, ".csv,.xlsx")
	}
}

func TestImportFormHelpText(t *testing.T) {
	form := NewImportForm([]string{"csv", "xlsx"})
	if got := form.HelpText(); got != "Supported formats: CSV, XLSX." {
		t.Errorf("HelpText() = %q, want %q", got, "Supported formats: CSV, XLSX.")
	}
}

func TestImportFormValidate(t *testing.T) {
	form := NewImportForm([]string{"csv", "tsv"})

	tests := []struct {
		name      string
		filename  string
		wantField string // empty means valid
	}{
		{name: "missing file", filename: "", wantField: "import_file"},
		{name: "allowed csv", filename: "redirects.csv", wantField: ""},
		{name: "allowed tsv", filename: "redirects.tsv", wantField: ""},
		{name: "uppercase extension allowed", filename: "REDIRECTS.CSV", wantField: ""},
		{name: "disallowed extension", filename: "redirects.xlsx", wantField: "import_file"},
		{name: "no extension", filename: "redirects", wantField: "import_file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := form.Validate(tt.filename)
			if tt.wantField == "" {
				if errs != nil {
					t.Errorf("Validate(%q) = %+v, want nil", tt.filename, errs)
				}
				return
			}
			if errs == nil || !errs.HasField(tt.wantField) {
				t.Errorf("Validate(%q) = %+v, want error on %q", tt.filename, errs, tt.wantField)
			}
		})
	}
}

func TestImportFormNormalizesConfiguredExtensions(t *testing.T) {
	// Callers may configure extensions with stray dots or case.
	form := NewImportForm([]string{".CSV"})
	if got := form.Accept(); got != ".csv" {
		t.Errorf("Accept() = %q, want %q", got, ".csv")
	}
	if errs := form.Validate("file.csv"); errs != nil {
		t.Errorf("Validate(file.csv) = %+v, want nil", errs)
	}
}
