package handler

import (
	"io/fs"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/relink-dev/relink/internal/auth"
	"github.com/relink-dev/relink/internal/signing"
	"github.com/relink-dev/relink/internal/store"
	"github.com/relink-dev/relink/web"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	SessionManager *scs.SessionManager
	AuthHandlers   *auth.Handlers
	AuthMiddleware *auth.Middleware
	RedirectStore  store.RedirectStoreIface
	SiteStore      store.SiteStoreIface
	Signer         *signing.Signer
	ImportFormats  []string

	// ImportEngine may be nil; the bulk-import routes mount only when an
	// engine is wired in.
	ImportEngine ImportEngine
}

// NewRouter assembles the full chi router with all middleware and routes.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(deps.SessionManager.LoadAndSave)

	// Static assets (embedded). fs.Sub so the file server sees css/app.css
	// directly, not static/css/app.css.
	staticSub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("sub static FS: " + err.Error())
	}
	r.Handle("/static/*", http.StripPrefix("/static", http.FileServerFS(staticSub)))

	r.Get("/auth/login", deps.AuthHandlers.Login)
	r.Get("/auth/callback", deps.AuthHandlers.Callback)
	r.Post("/auth/logout", deps.AuthHandlers.Logout)

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/redirects", http.StatusFound)
	})

	redirects := NewRedirectsHandler(deps.RedirectStore, deps.SiteStore, deps.ImportEngine != nil)

	r.Group(func(r chi.Router) {
		r.Use(deps.AuthMiddleware.RequireUser)

		r.Get("/redirects", redirects.List)
		r.Get("/redirects/new", redirects.New)
		r.Post("/redirects", redirects.Create)

		// The import routes precede /{id} so "import" is never read as an id.
		if deps.ImportEngine != nil {
			imports := NewImportsHandler(deps.ImportEngine, deps.SiteStore, deps.Signer, deps.ImportFormats)
			r.Get("/redirects/import", imports.Show)
			r.Post("/redirects/import", imports.Upload)
			r.Post("/redirects/import/confirm", imports.Confirm)
		}

		r.Get("/redirects/{id}/edit", redirects.Edit)
		r.Post("/redirects/{id}", redirects.Update)
		r.Post("/redirects/{id}/delete", redirects.Delete)
	})

	return r
}
