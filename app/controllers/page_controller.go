package controllers

import "net/http"

// PageController serves the static informational pages
type PageController struct {
	render *Renderer
}

// NewPageController creates a page controller rendering through render
func NewPageController(render *Renderer) *PageController {
	return &PageController{render: render}
}

// About renders the about page
func (pc *PageController) About(w http.ResponseWriter, r *http.Request) {
	pc.render.Render(w, r, "about", http.StatusOK, ViewData{})
}

// Contact renders the contact page
func (pc *PageController) Contact(w http.ResponseWriter, r *http.Request) {
	pc.render.Render(w, r, "contact", http.StatusOK, ViewData{})
}

// PostDeleted confirms a post was removed
func (pc *PageController) PostDeleted(w http.ResponseWriter, r *http.Request) {
	pc.render.Render(w, r, "post_deleted", http.StatusOK, ViewData{})
}

// Protected is visible to logged-in users only.
func (pc *PageController) Protected(w http.ResponseWriter, r *http.Request) {
	pc.render.Render(w, r, "protected", http.StatusOK, ViewData{})
}

// NotFound renders the not-found page for unknown paths.
func (pc *PageController) NotFound(w http.ResponseWriter, r *http.Request) {
	pc.render.NotFound(w, r)
}
