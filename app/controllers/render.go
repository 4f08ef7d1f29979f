package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/Samdami/Altsamdamiblog/app/logging"
	"github.com/Samdami/Altsamdamiblog/app/middleware"
	"github.com/Samdami/Altsamdamiblog/app/models"
	"github.com/Samdami/Altsamdamiblog/app/views"
)

// ViewData is the data every page template is executed with.
type ViewData struct {
	CurrentUser  *models.User
	Posts        []*models.Post
	Post         *models.Post
	DatePosted   string
	UserOwnsPost bool
	Form         map[string]string
	Errors       map[string]string
	ErrorMsg     string
}

// pages lists the template files parsed for each page, after layout.html.
var pages = map[string][]string{
	"index":        {"index.html"},
	"post":         {"post.html"},
	"about":        {"about.html"},
	"contact":      {"contact.html"},
	"404":          {"404.html"},
	"post_deleted": {"post_deleted.html"},
	"protected":    {"protected.html"},
	"add":          {"add.html", "post_form.html"},
	"edit_post":    {"edit_post.html", "post_form.html"},
	"login":        {"login.html"},
	"signup":       {"signup.html"},
}

// Renderer executes the embedded page templates.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses every page together with the shared layout.
func NewRenderer() (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for name, files := range pages {
		tmpl, err := template.ParseFS(views.FS, append([]string{"layout.html"}, files...)...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		templates[name] = tmpl
	}
	return &Renderer{templates: templates}, nil
}

// Render writes the named page with status. The current user is filled in
// from the request context.
func (rn *Renderer) Render(w http.ResponseWriter, r *http.Request, name string, status int, data ViewData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		serverError(w, r, fmt.Errorf("unknown template %q", name))
		return
	}

	data.CurrentUser = middleware.CurrentUser(r.Context())

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		serverError(w, r, fmt.Errorf("template %s: %w", name, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// NotFound renders the not-found page with a 404 status.
func (rn *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rn.Render(w, r, "404", http.StatusNotFound, ViewData{})
}

// Helper methods for consistent response handling

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func serverError(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Error("request failed", "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
