package handler

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/relink-dev/relink/internal/store"
	"github.com/relink-dev/relink/web"
)

// BasePage carries layout-level data available to every template.
type BasePage struct {
	User *store.User
}

// pageCache maps a page path relative to templates/pages (e.g.
// "redirects/index.html") to a compiled set of base.html plus that page.
// Each page gets its own set so {{define "content"}} blocks don't collide.
var pageCache map[string]*template.Template

func init() {
	pageCache = make(map[string]*template.Template)
	err := fs.WalkDir(web.TemplateFS, "templates/pages", func(p string, d fs.DirEntry, e error) error {
		if e != nil || d.IsDir() || !strings.HasSuffix(p, ".html") {
			return e
		}
		t, err := template.New("").ParseFS(web.TemplateFS, "templates/base.html", p)
		if err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		rel, _ := strings.CutPrefix(p, "templates/pages/")
		pageCache[rel] = t
		return nil
	})
	if err != nil {
		panic("parse templates: " + err.Error())
	}
}

func render(w http.ResponseWriter, page string, data any) {
	t, ok := pageCache[page]
	if !ok {
		http.Error(w, "template not found: "+page, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
	}
}
