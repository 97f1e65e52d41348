package forms

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/relink-dev/relink/internal/signing"
)

const testKey = "confirm-test-key"

func TestColumnChoices(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    []Choice
	}{
		{
			name:    "two headers get placeholder",
			headers: []string{"a", "b"},
			want:    []Choice{{"", "---"}, {"0", "a"}, {"1", "b"}},
		},
		{
			name:    "single header has no placeholder",
			headers: []string{"a"},
			want:    []Choice{{"0", "a"}},
		},
		{
			name:    "no headers",
			headers: nil,
			want:    []Choice{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ColumnChoices(tt.headers)
			if len(got) != len(tt.want) {
				t.Fatalf("ColumnChoices(%v) = %v, want %v", tt.headers, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("choice %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// echo simulates the browser resubmitting the rendered hidden fields.
func echo(f *ConfirmImportForm) url.Values {
	v := url.Values{}
	v.Set("import_file_name", f.ImportFileName)
	v.Set("input_format", f.InputFormat)
	return v
}

func TestConfirmImportFormRoundTrip(t *testing.T) {
	signer := signing.New(testKey)
	form := NewConfirmImportForm(signer, "stash-42.csv", "csv")

	state, errs := form.Validate(echo(form))
	if errs != nil {
		t.Fatalf("Validate errors: %+v", errs)
	}
	if state.FileName != "stash-42.csv" || state.Format != "csv" {
		t.Errorf("state = %+v", state)
	}
}

func TestConfirmImportFormSignsInitialValues(t *testing.T) {
	signer := signing.New(testKey)
	form := NewConfirmImportForm(signer, "stash-42.csv", "csv")

	if form.ImportFileName == "stash-42.csv" {
		t.Error("ImportFileName rendered unsigned")
	}
	if got, err := signer.Unsign(form.ImportFileName); err != nil || got != "stash-42.csv" {
		t.Errorf("ImportFileName = %q, not a valid signature of the initial value", form.ImportFileName)
	}
}

func TestConfirmImportFormTamperedField(t *testing.T) {
	signer := signing.New(testKey)
	form := NewConfirmImportForm(signer, "stash-42.csv", "csv")

	v := echo(form)
	signed := v.Get("import_file_name")
	v.Set("import_file_name", "stush"+signed[5:]) // any byte changed after signing

	state, errs := form.Validate(v)
	if state != nil {
		t.Fatal("tampered submission produced state")
	}
	if errs == nil || len(errs.Form) == 0 {
		t.Fatalf("errors = %+v, want whole-form integrity error", errs)
	}
	// The signer's own message surfaces, not a generic one.
	if !strings.Contains(errs.Form[0], "does not match") {
		t.Errorf("form error = %q, want the signer's message", errs.Form[0])
	}
}

func TestConfirmImportFormUnsignedSubmission(t *testing.T) {
	signer := signing.New(testKey)
	form := NewConfirmImportForm(signer, "", "")

	v := values("import_file_name", "plain.csv", "input_format", "csv")
	if state, errs := form.Validate(v); state != nil || errs == nil {
		t.Fatalf("unsigned values accepted: state=%+v errs=%+v", state, errs)
	}
}

func TestConfirmMappingFormValid(t *testing.T) {
	signer := signing.New(testKey)
	sites := &fakeSites{ids: map[string]bool{"site-1": true}}
	form := NewConfirmMappingForm(signer, "stash-42.csv", "csv", []string{"from", "to"})

	v := echo(form.ConfirmImportForm)
	v.Set("from_index", "0")
	v.Set("to_index", "1")
	v.Set("site", "site-1")
	v.Set("permanent", "on")

	opts, errs, err := form.Validate(context.Background(), v, sites)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if errs != nil {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if opts.FileName != "stash-42.csv" || opts.Format != "csv" {
		t.Errorf("state = %+v", opts.ImportState)
	}
	if opts.FromIndex != 0 || opts.ToIndex != 1 {
		t.Errorf("mapping = (%d, %d), want (0, 1)", opts.FromIndex, opts.ToIndex)
	}
	if opts.SiteID != "site-1" || !opts.Permanent {
		t.Errorf("opts = %+v", opts)
	}
}

func TestConfirmMappingFormPlaceholderNotASelection(t *testing.T) {
	signer := signing.New(testKey)
	sites := &fakeSites{ids: map[string]bool{}}
	form := NewConfirmMappingForm(signer, "stash-42.csv", "csv", []string{"from", "to"})

	v := echo(form.ConfirmImportForm)
	v.Set("from_index", "") // the "---" placeholder
	v.Set("to_index", "1")

	_, errs, err := form.Validate(context.Background(), v, sites)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if errs == nil || !errs.HasField("from_index") {
		t.Fatalf("errors = %+v, want required error on from_index", errs)
	}
}

func TestConfirmMappingFormIndexOutsideChoices(t *testing.T) {
	signer := signing.New(testKey)
	sites := &fakeSites{ids: map[string]bool{}}
	form := NewConfirmMappingForm(signer, "stash-42.csv", "csv", []string{"from", "to"})

	v := echo(form.ConfirmImportForm)
	v.Set("from_index", "0")
	v.Set("to_index", "7")

	_, errs, err := form.Validate(context.Background(), v, sites)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if errs == nil || !errs.HasField("to_index") {
		t.Fatalf("errors = %+v, want invalid-choice error on to_index", errs)
	}
}

func TestConfirmMappingFormIntegrityFailureMasksNothing(t *testing.T) {
	signer := signing.New(testKey)
	sites := &fakeSites{ids: map[string]bool{}}
	form := NewConfirmMappingForm(signer, "stash-42.csv", "csv", []string{"from", "to"})

	// Tampered state and a missing column selection at once: only the
	// integrity error may surface.
	v := echo(form.ConfirmImportForm)
	v.Set("import_file_name", "forged:value")
	v.Set("from_index", "")

	_, errs, err := form.Validate(context.Background(), v, sites)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if errs == nil || len(errs.Form) == 0 {
		t.Fatalf("errors = %+v, want whole-form integrity error", errs)
	}
	if len(errs.Field) != 0 {
		t.Errorf("field errors = %+v, want none alongside an integrity failure", errs.Field)
	}
}

func TestConfirmMappingFormAbsentPermanentIsFalse(t *testing.T) {
	signer := signing.New(testKey)
	sites := &fakeSites{ids: map[string]bool{}}
	form := NewConfirmMappingForm(signer, "stash-42.csv", "csv", []string{"a"})

	if !form.Permanent {
		t.Error("initial Permanent = false, want default true")
	}

	v := echo(form.ConfirmImportForm)
	v.Set("from_index", "0")
	v.Set("to_index", "0")
	// permanent checkbox left unchecked: absent from the submission.

	opts, errs, err := form.Validate(context.Background(), v, sites)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if errs != nil {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if opts.Permanent {
		t.Error("bound Permanent = true for an unchecked box, want false")
	}
}
