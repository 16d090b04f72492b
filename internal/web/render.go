package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"church-site/internal/content"
	"church-site/internal/logger"
	"church-site/internal/model"
	"church-site/internal/sanity"
)

//go:embed templates/*.html
var templates embed.FS

//go:embed static
var static embed.FS

var pageNames = []string{
	"home", "about", "ministries", "ministry", "events", "sermons",
	"gallery", "contact", "give", "privacy", "terms", "notfound", "error",
}

type pages struct {
	byName map[string]*template.Template
}

func parsePages(funcs template.FuncMap) (*pages, error) {
	p := &pages{byName: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templates,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		p.byName[name] = t
	}
	return p, nil
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// pageData is passed to every template.
type pageData struct {
	Title    string
	Path     string
	Settings model.SiteSettings
	Year     int
	Data     any
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	t, ok := h.pages.byName[name]
	if !ok {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	pd := pageData{
		Title:    title,
		Path:     r.URL.Path,
		Settings: h.settings(r),
		Year:     h.now().Year(),
		Data:     data,
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, pd); err != nil {
		logger.FromContext(r.Context()).Error("Rendering template failed",
			logger.String("page", name), logger.Err(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "notfound", "Page Not Found", nil)
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).Error("Request failed",
		logger.String("path", r.URL.Path), logger.Err(err))
	h.render(w, r, http.StatusInternalServerError, "error", "Something Went Wrong", nil)
}

func (h *Handler) funcs() template.FuncMap {
	return template.FuncMap{
		"imgURL":     h.imageURL,
		"excerpt":    content.Excerpt,
		"plain":      content.PlainText,
		"longDate":   func(t time.Time) string { return t.Format("Monday, January 2, 2006") },
		"clock":      func(t time.Time) string { return t.Format("3:04 PM") },
		"isoDate":    func(t time.Time) string { return t.Format(time.RFC3339) },
		"dayDate":    formatDay,
		"paragraphs": paragraphs,
		"active": func(current, href string) bool {
			if href == "/" {
				return current == "/"
			}
			return current == href || strings.HasPrefix(current, href+"/")
		},
	}
}

// imageURL resolves a model.Image or *model.Image to a URL, preferring an
// explicit URL over an asset reference. It returns "" when neither resolves.
func (h *Handler) imageURL(v any, width int) string {
	var img model.Image
	switch i := v.(type) {
	case model.Image:
		img = i
	case *model.Image:
		if i == nil {
			return ""
		}
		img = *i
	default:
		return ""
	}
	if img.URL != "" {
		return img.URL
	}
	if img.AssetRef == "" || h.images == nil {
		return ""
	}
	u, err := h.images.ImageURL(img.AssetRef, sanity.ImageOptions{Width: width, Auto: true})
	if err != nil {
		h.log.Debug("Unresolvable image reference", logger.String("ref", img.AssetRef), logger.Err(err))
		return ""
	}
	return u
}

// formatDay renders a YYYY-MM-DD date for display, passing other values through.
func formatDay(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format("January 2, 2006")
}

// paragraphs splits text on blank lines.
func paragraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
