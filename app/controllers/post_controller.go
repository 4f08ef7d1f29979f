package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Samdami/Altsamdamiblog/app/logging"
	"github.com/Samdami/Altsamdamiblog/app/middleware"
	"github.com/Samdami/Altsamdamiblog/app/models"
	"github.com/Samdami/Altsamdamiblog/app/repositories"
	"github.com/Samdami/Altsamdamiblog/app/services"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	postService *services.PostService
	render      *Renderer
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, render *Renderer) *PostController {
	return &PostController{
		postService: postService,
		render:      render,
	}
}

// Index lists every post on the home page
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListAll(r.Context())
	if err != nil {
		serverError(w, r, err)
		return
	}
	pc.render.Render(w, r, "index", http.StatusOK, ViewData{Posts: posts})
}

// Show displays a single post
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	post, ok := pc.loadPost(w, r)
	if !ok {
		return
	}

	pc.render.Render(w, r, "post", http.StatusOK, ViewData{
		Post:         post,
		DatePosted:   post.DisplayDate(),
		UserOwnsPost: post.OwnedBy(middleware.CurrentUser(r.Context())),
	})
}

// New displays the form for creating a new post
func (pc *PostController) New(w http.ResponseWriter, r *http.Request) {
	pc.render.Render(w, r, "add", http.StatusOK, ViewData{})
}

// Create stores a post written by the logged-in user
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}
	in := postInput(r)

	_, err := pc.postService.Create(r.Context(), in, middleware.CurrentUser(r.Context()))
	if fields, ok := services.AsValidationError(err); ok {
		pc.render.Render(w, r, "add", http.StatusUnprocessableEntity, ViewData{Form: formValues(in), Errors: fields})
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Edit displays the edit form pre-filled with the post. Author only.
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	post, ok := pc.authorizedPost(w, r)
	if !ok {
		return
	}

	pc.render.Render(w, r, "edit_post", http.StatusOK, ViewData{
		Post: post,
		Form: formValues(services.PostInput{Title: post.Title, Subtitle: post.Subtitle, Content: post.Content}),
	})
}

// Update applies the submitted edit form. Author only.
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	post, ok := pc.authorizedPost(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}
	in := postInput(r)

	_, err := pc.postService.Update(r.Context(), post.ID, in)
	if fields, ok := services.AsValidationError(err); ok {
		pc.render.Render(w, r, "edit_post", http.StatusUnprocessableEntity, ViewData{Post: post, Form: formValues(in), Errors: fields})
		return
	}
	if errors.Is(err, repositories.ErrNotFound) {
		pc.render.NotFound(w, r)
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}

	http.Redirect(w, r, "/post/"+strconv.Itoa(post.ID), http.StatusSeeOther)
}

// Delete removes the post. Author only.
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	post, ok := pc.authorizedPost(w, r)
	if !ok {
		return
	}

	err := pc.postService.Delete(r.Context(), post.ID)
	if errors.Is(err, repositories.ErrNotFound) {
		pc.render.NotFound(w, r)
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}

	http.Redirect(w, r, "/post_deleted", http.StatusSeeOther)
}

// loadPost fetches the post named by the {id} route variable, writing the
// not-found page or a 500 when it cannot.
func (pc *PostController) loadPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pc.render.NotFound(w, r)
		return nil, false
	}

	post, err := pc.postService.GetByID(r.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		pc.render.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		serverError(w, r, err)
		return nil, false
	}
	return post, true
}

// authorizedPost is loadPost plus the author check shared by edit and delete.
// Anonymous and non-author callers are sent to the login page.
func (pc *PostController) authorizedPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	post, ok := pc.loadPost(w, r)
	if !ok {
		return nil, false
	}

	if access := services.Authorize(middleware.CurrentUser(r.Context()), post); access != services.Allowed {
		logging.FromContext(r.Context()).Info("post access denied", "post_id", post.ID, "access", access.String())
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil, false
	}
	return post, true
}

func postInput(r *http.Request) services.PostInput {
	return services.PostInput{
		Title:    r.PostFormValue("title"),
		Subtitle: r.PostFormValue("subtitle"),
		Content:  r.PostFormValue("content"),
	}
}

func formValues(in services.PostInput) map[string]string {
	return map[string]string{
		"title":    in.Title,
		"subtitle": in.Subtitle,
		"content":  in.Content,
	}
}
