package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Samdami/Altsamdamiblog/app/logging"
	"github.com/Samdami/Altsamdamiblog/app/services"
)

const msgLoginFailed = "Invalid username or password. Try again."

// CookieConfig describes the session cookie handed to browsers.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthController handles signup, login and logout
type AuthController struct {
	auth     *services.AuthService
	sessions *services.SessionService
	render   *Renderer
	cookie   CookieConfig
}

// NewAuthController creates a new AuthController
func NewAuthController(auth *services.AuthService, sessions *services.SessionService, render *Renderer, cookie CookieConfig) *AuthController {
	return &AuthController{
		auth:     auth,
		sessions: sessions,
		render:   render,
		cookie:   cookie,
	}
}

// LoginForm displays the login page
func (ac *AuthController) LoginForm(w http.ResponseWriter, r *http.Request) {
	ac.render.Render(w, r, "login", http.StatusOK, ViewData{})
}

// Login checks the submitted credentials and starts a session
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	user, err := ac.auth.Authenticate(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if errors.Is(err, services.ErrInvalidCredentials) {
		logging.FromContext(r.Context()).Info("login failed")
		ac.render.Render(w, r, "login", http.StatusUnauthorized, ViewData{ErrorMsg: msgLoginFailed})
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}

	token, err := ac.sessions.Login(r.Context(), user)
	if err != nil {
		serverError(w, r, err)
		return
	}

	http.SetCookie(w, ac.sessionCookie(token, ac.sessions.TTL()))
	logging.FromContext(r.Context()).Info("user logged in", "user_id", user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout ends the session and returns to the login page
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(ac.cookie.Name); err == nil {
		if err := ac.sessions.Logout(r.Context(), cookie.Value); err != nil {
			logging.FromContext(r.Context()).Warn("failed to end session", "error", err)
		}
	}

	http.SetCookie(w, ac.sessionCookie("", -1))
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// SignupForm displays the registration page
func (ac *AuthController) SignupForm(w http.ResponseWriter, r *http.Request) {
	ac.render.Render(w, r, "signup", http.StatusOK, ViewData{})
}

// Signup creates an account and sends the user to log in
func (ac *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	user, err := ac.auth.Register(r.Context(), services.Registration{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Confirm:  r.PostFormValue("confirm"),
	})
	if fields, ok := services.AsValidationError(err); ok {
		ac.render.Render(w, r, "signup", http.StatusUnprocessableEntity, ViewData{Errors: fields})
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("user registered", "user_id", user.ID)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// sessionCookie builds the session cookie; a negative ttl deletes it.
func (ac *AuthController) sessionCookie(value string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     ac.cookie.Name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   ac.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		cookie.MaxAge = -1
		return cookie
	}
	cookie.MaxAge = int(ttl.Seconds())
	cookie.Expires = time.Now().Add(ttl)
	return cookie
}
