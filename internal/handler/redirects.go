package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/relink-dev/relink/internal/auth"
	"github.com/relink-dev/relink/internal/forms"
	"github.com/relink-dev/relink/internal/metrics"
	"github.com/relink-dev/relink/internal/store"
)

// RedirectsHandler provides the CRUD pages for redirect rules.
type RedirectsHandler struct {
	redirects     store.RedirectStoreIface
	sites         store.SiteStoreIface
	importEnabled bool
}

func NewRedirectsHandler(rs store.RedirectStoreIface, ss store.SiteStoreIface, importEnabled bool) *RedirectsHandler {
	return &RedirectsHandler{redirects: rs, sites: ss, importEnabled: importEnabled}
}

type redirectListPage struct {
	BasePage
	Redirects     []*store.Redirect
	ImportEnabled bool
}

type redirectFormPage struct {
	BasePage
	Form   *forms.RedirectForm
	Errors *forms.Errors
	Sites  []*store.Site
	Action string
}

// List renders all redirect rules.
func (h *RedirectsHandler) List(w http.ResponseWriter, r *http.Request) {
	redirects, err := h.redirects.ListAll(r.Context())
	if err != nil {
		http.Error(w, "list redirects: "+err.Error(), http.StatusInternalServerError)
		return
	}
	render(w, "redirects/index.html", redirectListPage{
		BasePage:      BasePage{User: auth.UserFromContext(r.Context())},
		Redirects:     redirects,
		ImportEnabled: h.importEnabled,
	})
}

// New renders the empty create form.
func (h *RedirectsHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, &forms.RedirectForm{IsPermanent: true}, forms.NewErrors(), "/redirects")
}

// Create processes the create form submission.
func (h *RedirectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	form := forms.BindRedirectForm(r.PostForm, "")
	h.save(w, r, form, "/redirects")
}

// Edit renders the edit form for one rule.
func (h *RedirectsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	redirect, err := h.redirects.GetByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "load redirect: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.renderForm(w, r, forms.FromRedirect(redirect), forms.NewErrors(), "/redirects/"+redirect.ID)
}

// Update processes the edit form submission.
func (h *RedirectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.redirects.GetByID(r.Context(), id); errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	form := forms.BindRedirectForm(r.PostForm, id)
	h.save(w, r, form, "/redirects/"+id)
}

// Delete removes one rule.
func (h *RedirectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.redirects.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		http.Error(w, "delete redirect: "+err.Error(), http.StatusInternalServerError)
		return
	}
	metrics.RedirectsTotal.Dec()
	http.Redirect(w, r, "/redirects", http.StatusSeeOther)
}

// save validates the bound form and persists it, re-rendering with errors on
// any validation failure. An insert/update conflict on the DB's (site, path)
// constraint is reported the same way as the form-level duplicate check.
func (h *RedirectsHandler) save(w http.ResponseWriter, r *http.Request, form *forms.RedirectForm, action string) {
	attrs, errs, err := form.Validate(r.Context(), h.sites, h.redirects)
	if err != nil {
		http.Error(w, "validate redirect: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if errs != nil {
		metrics.FormErrorsTotal.WithLabelValues("redirect").Inc()
		h.renderForm(w, r, form, errs, action)
		return
	}

	if form.InstanceID == "" {
		_, err = h.redirects.Create(r.Context(), attrs)
	} else {
		_, err = h.redirects.Update(r.Context(), form.InstanceID, attrs)
	}
	if err != nil {
		metrics.FormErrorsTotal.WithLabelValues("redirect").Inc()
		errs = forms.NewErrors()
		errs.AddForm(forms.DuplicateRedirectMessage)
		h.renderForm(w, r, form, errs, action)
		return
	}
	if form.InstanceID == "" {
		metrics.RedirectsTotal.Inc()
	}

	http.Redirect(w, r, "/redirects", http.StatusSeeOther)
}

func (h *RedirectsHandler) renderForm(w http.ResponseWriter, r *http.Request, form *forms.RedirectForm, errs *forms.Errors, action string) {
	sites, err := h.sites.ListAll(r.Context())
	if err != nil {
		http.Error(w, "list sites: "+err.Error(), http.StatusInternalServerError)
		return
	}
	render(w, "redirects/form.html", redirectFormPage{
		BasePage: BasePage{User: auth.UserFromContext(r.Context())},
		Form:     form,
		Errors:   errs,
		Sites:    sites,
		Action:   action,
	})
}
