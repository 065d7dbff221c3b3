package server

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/jrsteele09/go-inventory-dashboard/inventory"
	"github.com/jrsteele09/go-inventory-dashboard/users"
	"github.com/rs/zerolog/log"
)

const contentTypeHTML = "text/html; charset=utf-8"

//go:embed templates/*
var templateFiles embed.FS

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// pages are parsed with the shared layout and navbar
var pages = []string{
	"login.html",
	"dashboard.html",
	"products.html",
	"product_form.html",
	"movements.html",
	"movement_form.html",
	"categories.html",
	"profile.html",
}

var templateFuncs = template.FuncMap{
	"price":    formatPrice,
	"count":    formatCount,
	"date":     formatDate,
	"datetime": formatDateTime,
	"id":       func(id int64) string { return strconv.FormatInt(id, 10) },
	"movementTypes": func() []inventory.MovementType {
		return []inventory.MovementType{inventory.MovementIn, inventory.MovementOut}
	},
}

// ParseTemplate parses a page from the embedded filesystem together with
// the layout it renders into
func ParseTemplate(name string) (*template.Template, error) {
	return template.New("layout.html").Funcs(templateFuncs).ParseFS(TemplateFilesFS(), "layout.html", "navbar.html", name)
}

func parsePages() (map[string]*template.Template, error) {
	parsed := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		tmpl, err := ParseTemplate(name)
		if err != nil {
			return nil, err
		}
		parsed[name] = tmpl
	}
	return parsed, nil
}

// Page is the data every template receives
type Page struct {
	AppName string
	Title   string
	Active  string
	User    *users.Profile
	Error   string
	Flash   string
}

func (s *Server) page(r *http.Request, title, active string) Page {
	p := Page{
		AppName: s.appName,
		Title:   title,
		Active:  active,
		Flash:   r.URL.Query().Get("flash"),
	}
	if store := sessionFromContext(r.Context()); store != nil {
		snap := store.Snapshot()
		if snap.IsAuthenticated() {
			p.User = snap.User
		}
	}
	return p
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	tmpl, ok := s.templates[name]
	if !ok {
		log.Ctx(r.Context()).Error().Str("template", name).Msg("unknown template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		log.Ctx(r.Context()).Err(err).Str("template", name).Msg("Failed to render template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
