package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"event-storefront/internal/middleware"
	"event-storefront/internal/models"
	"event-storefront/internal/utils"

	"github.com/sirupsen/logrus"
)

// PageData is what every page template receives.
type PageData struct {
	Title     string
	User      *models.User
	CSRFToken string
	Flashes   []middleware.Flash
	CartCount int
	Path      string
	Data      any
}

// Renderer executes the embedded page templates. Each page is parsed into its
// own copy of the layout so that every page can define "content".
type Renderer struct {
	base   *template.Template
	pages  map[string]*template.Template
	logger *logrus.Logger
}

// TemplateFuncs are the helpers available to every template.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatCurrency": utils.FormatCurrency,
		"formatDate":     utils.FormatDate,
		"formatDateTime": utils.FormatDateTime,
		"formatTime":     utils.FormatTime,
		"truncate":       utils.TruncateText,
	}
}

// NewRenderer parses templates/layout.html, templates/partials.html and every
// templates/pages/*.html found in fsys.
func NewRenderer(fsys fs.FS, logger *logrus.Logger) (*Renderer, error) {
	base, err := template.New("base").Funcs(TemplateFuncs()).ParseFS(fsys, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	files, err := fs.Glob(fsys, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout: %w", err)
		}
		tmpl, err := clone.ParseFS(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		pages[strings.TrimSuffix(path.Base(file), ".html")] = tmpl
	}

	return &Renderer{base: base, pages: pages, logger: logger}, nil
}

// Page renders a full page inside the layout.
func (r *Renderer) Page(w http.ResponseWriter, status int, name string, data *PageData) {
	tmpl, ok := r.pages[name]
	if !ok {
		r.logger.WithField("page", name).Error("render: unknown page")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	r.execute(w, status, tmpl, "layout", data)
}

// Partial renders one named block from partials.html, for HTMX swaps.
func (r *Renderer) Partial(w http.ResponseWriter, status int, name string, data any) {
	r.execute(w, status, r.base, name, data)
}

func (r *Renderer) execute(w http.ResponseWriter, status int, tmpl *template.Template, name string, data any) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		r.logger.WithError(err).WithField("template", name).Error("render: template failed")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
