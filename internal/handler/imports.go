package handler

import (
	"log"
	"net/http"

	"github.com/relink-dev/relink/internal/auth"
	"github.com/relink-dev/relink/internal/forms"
	"github.com/relink-dev/relink/internal/metrics"
	"github.com/relink-dev/relink/internal/signing"
	"github.com/relink-dev/relink/internal/store"
)

// maxUploadBytes bounds the in-memory portion of a multipart upload.
const maxUploadBytes = 32 << 20

// ImportsHandler provides the two-step bulk import flow: upload a file, then
// confirm the column mapping. State between the steps travels through the
// client inside signed hidden fields, never server-side session storage.
type ImportsHandler struct {
	engine  ImportEngine
	sites   store.SiteStoreIface
	signer  *signing.Signer
	formats []string
}

func NewImportsHandler(engine ImportEngine, ss store.SiteStoreIface, signer *signing.Signer, formats []string) *ImportsHandler {
	return &ImportsHandler{engine: engine, sites: ss, signer: signer, formats: formats}
}

type importUploadPage struct {
	BasePage
	Form   *forms.ImportForm
	Errors *forms.Errors
}

type importConfirmPage struct {
	BasePage
	Confirm *forms.ConfirmMappingForm
	Errors  *forms.Errors
	Sites   []*store.Site
}

type importDonePage struct {
	BasePage
	Report *ImportReport
}

// Show renders the upload form.
func (h *ImportsHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.renderUpload(w, r, forms.NewErrors())
}

// Upload accepts the file, stashes it through the import engine, and renders
// the confirm form seeded with the stash's signed identity and its headers.
func (h *ImportsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	form := forms.NewImportForm(h.formats)
	file, header, err := r.FormFile("import_file")
	filename := ""
	if err == nil {
		defer func() { _ = file.Close() }()
		filename = header.Filename
	}

	if errs := form.Validate(filename); errs != nil {
		metrics.FormErrorsTotal.WithLabelValues("import").Inc()
		h.renderUpload(w, r, errs)
		return
	}

	stash, err := h.engine.Stash(r.Context(), file, filename)
	if err != nil {
		log.Printf("stash import upload: %v", err)
		errs := forms.NewErrors()
		errs.AddField("import_file", "The file could not be read.")
		h.renderUpload(w, r, errs)
		return
	}

	confirm := forms.NewConfirmMappingForm(h.signer, stash.FileName, stash.Format, stash.Headers)
	h.renderConfirm(w, r, confirm, forms.NewErrors())
}

// Confirm verifies the signed state, validates the column mapping against the
// stashed file's current headers, and hands the result to the import engine.
func (h *ImportsHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	// Unsign first: the header list needed to rebuild the mapping choices can
	// only be read once the stash identity is trusted.
	state, errs := forms.NewConfirmImportForm(h.signer, "", "").Validate(r.PostForm)
	if errs != nil {
		metrics.IntegrityFailuresTotal.Inc()
		metrics.FormErrorsTotal.WithLabelValues("confirm_import").Inc()
		h.renderUpload(w, r, errs)
		return
	}

	headers, err := h.engine.Headers(r.Context(), state.FileName, state.Format)
	if err != nil {
		log.Printf("read stashed headers: %v", err)
		formErrs := forms.NewErrors()
		formErrs.AddForm("The uploaded file is no longer available. Upload it again.")
		h.renderUpload(w, r, formErrs)
		return
	}

	confirm := forms.NewConfirmMappingForm(h.signer, state.FileName, state.Format, headers)
	opts, errs, err := confirm.Validate(r.Context(), r.PostForm, h.sites)
	if err != nil {
		http.Error(w, "validate import: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if errs != nil {
		metrics.FormErrorsTotal.WithLabelValues("confirm_import").Inc()
		h.renderConfirm(w, r, confirm, errs)
		return
	}

	report, err := h.engine.Run(r.Context(), *opts)
	if err != nil {
		http.Error(w, "run import: "+err.Error(), http.StatusInternalServerError)
		return
	}
	metrics.ImportsConfirmedTotal.Inc()
	metrics.RedirectsTotal.Add(float64(report.Created))

	render(w, "imports/done.html", importDonePage{
		BasePage: BasePage{User: auth.UserFromContext(r.Context())},
		Report:   report,
	})
}

func (h *ImportsHandler) renderUpload(w http.ResponseWriter, r *http.Request, errs *forms.Errors) {
	render(w, "imports/upload.html", importUploadPage{
		BasePage: BasePage{User: auth.UserFromContext(r.Context())},
		Form:     forms.NewImportForm(h.formats),
		Errors:   errs,
	})
}

func (h *ImportsHandler) renderConfirm(w http.ResponseWriter, r *http.Request, confirm *forms.ConfirmMappingForm, errs *forms.Errors) {
	sites, err := h.sites.ListAll(r.Context())
	if err != nil {
		http.Error(w, "list sites: "+err.Error(), http.StatusInternalServerError)
		return
	}
	render(w, "imports/confirm.html", importConfirmPage{
		BasePage: BasePage{User: auth.UserFromContext(r.Context())},
		Confirm:  confirm,
		Errors:   errs,
		Sites:    sites,
	})
}
