package routes

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Samdami/Altsamdamiblog/app/controllers"
	"github.com/Samdami/Altsamdamiblog/app/middleware"
	"github.com/Samdami/Altsamdamiblog/app/views"
)

// Deps are the collaborators the router dispatches to.
type Deps struct {
	Logger     *slog.Logger
	Posts      *controllers.PostController
	Auth       *controllers.AuthController
	Pages      *controllers.PageController
	Health     *controllers.HealthController
	Metrics    *middleware.Metrics
	Sessions   middleware.SessionResolver
	CookieName string
	LoginLimit middleware.RateLimitConfig
}

// SetupRoutes defines the application's routes and returns the root handler.
// Logging, panic recovery and session resolution wrap every request,
// including ones that match no route.
func SetupRoutes(d Deps) http.Handler {
	router := mux.NewRouter()
	router.Use(d.Metrics.Middleware)

	// Serve static files
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(views.Static()))))

	// Operational endpoints
	router.HandleFunc("/livez", d.Health.Livez).Methods("GET")
	router.HandleFunc("/readyz", d.Health.Readyz).Methods("GET")
	router.Handle("/metrics", d.Metrics.Handler()).Methods("GET")

	// Public pages
	router.HandleFunc("/", d.Posts.Index).Methods("GET")
	router.HandleFunc("/about", d.Pages.About).Methods("GET")
	router.HandleFunc("/contact", d.Pages.Contact).Methods("GET")
	router.HandleFunc("/post/{id:[0-9]+}", d.Posts.Show).Methods("GET")
	router.HandleFunc("/post_deleted", d.Pages.PostDeleted).Methods("GET")

	// Login required
	router.Handle("/add", middleware.RequireLogin(http.HandlerFunc(d.Posts.New))).Methods("GET")
	router.Handle("/addpost", middleware.RequireLogin(http.HandlerFunc(d.Posts.Create))).Methods("POST")
	router.Handle("/protected", middleware.RequireLogin(http.HandlerFunc(d.Pages.Protected))).Methods("GET")

	// Author only; the controller sends everyone else to /login
	posts := router.PathPrefix("/posts/{id:[0-9]+}").Subrouter()
	posts.Use(middleware.NoStore)
	posts.HandleFunc("/edit", d.Posts.Edit).Methods("GET")
	posts.HandleFunc("/edit", d.Posts.Update).Methods("POST")
	posts.HandleFunc("/delete", d.Posts.Delete).Methods("GET")

	// Authentication
	limit := middleware.RateLimitByIP(d.LoginLimit)
	router.HandleFunc("/login", d.Auth.LoginForm).Methods("GET")
	router.Handle("/login", limit(http.HandlerFunc(d.Auth.Login))).Methods("POST")
	router.HandleFunc("/logout", d.Auth.Logout).Methods("GET")
	router.HandleFunc("/signup", d.Auth.SignupForm).Methods("GET")
	router.Handle("/signup", limit(http.HandlerFunc(d.Auth.Signup))).Methods("POST")

	router.NotFoundHandler = http.HandlerFunc(d.Pages.NotFound)

	var handler http.Handler = router
	handler = middleware.Sessions(d.Sessions, d.CookieName)(handler)
	handler = middleware.Recoverer(handler)
	handler = middleware.Logger(d.Logger)(handler)
	return handler
}
