package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Samdami/Altsamdamiblog/app/middleware"
	"github.com/Samdami/Altsamdamiblog/app/models"
	"github.com/Samdami/Altsamdamiblog/app/repositories/mock"
	"github.com/Samdami/Altsamdamiblog/app/services"
)

const testCookie = "blog_session"

type testEnv struct {
	router   *mux.Router
	users    *mock.UserRepository
	posts    *mock.PostRepository
	auth     *services.AuthService
	sessions *services.SessionService
	postSvc  *services.PostService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	render, err := NewRenderer()
	require.NoError(t, err)

	env := &testEnv{
		users: mock.NewUserRepository(),
		posts: mock.NewPostRepository(),
	}
	env.auth = services.NewAuthService(env.users)
	env.auth.SetHashCost(bcrypt.MinCost)
	env.sessions = services.NewSessionService(mock.NewSessionRepository(), env.auth, time.Hour)
	env.postSvc = services.NewPostService(env.posts)

	pc := NewPostController(env.postSvc, render)
	ac := NewAuthController(env.auth, env.sessions, render, CookieConfig{Name: testCookie})
	pages := NewPageController(render)

	router := mux.NewRouter()
	router.Use(middleware.Sessions(env.sessions, testCookie))
	router.HandleFunc("/", pc.Index).Methods("GET")
	router.HandleFunc("/about", pages.About).Methods("GET")
	router.HandleFunc("/post/{id:[0-9]+}", pc.Show).Methods("GET")
	router.Handle("/add", middleware.RequireLogin(http.HandlerFunc(pc.New))).Methods("GET")
	router.Handle("/addpost", middleware.RequireLogin(http.HandlerFunc(pc.Create))).Methods("POST")
	router.HandleFunc("/posts/{id:[0-9]+}/edit", pc.Edit).Methods("GET")
	router.HandleFunc("/posts/{id:[0-9]+}/edit", pc.Update).Methods("POST")
	router.HandleFunc("/posts/{id:[0-9]+}/delete", pc.Delete).Methods("GET")
	router.HandleFunc("/login", ac.LoginForm).Methods("GET")
	router.HandleFunc("/login", ac.Login).Methods("POST")
	router.HandleFunc("/logout", ac.Logout).Methods("GET")
	router.HandleFunc("/signup", ac.SignupForm).Methods("GET")
	router.HandleFunc("/signup", ac.Signup).Methods("POST")
	router.NotFoundHandler = http.HandlerFunc(pages.NotFound)
	env.router = router

	return env
}

// login registers username and returns a valid session cookie for it.
func (e *testEnv) login(t *testing.T, username string) (*models.User, *http.Cookie) {
	t.Helper()
	user, err := e.auth.Register(context.Background(), services.Registration{
		Username: username,
		Email:    username + "@example.com",
		Password: "password",
		Confirm:  "password",
	})
	require.NoError(t, err)

	token, err := e.sessions.Login(context.Background(), user)
	require.NoError(t, err)
	return user, &http.Cookie{Name: testCookie, Value: token}
}

func (e *testEnv) do(method, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createPost(t *testing.T, author *models.User, title string) *models.Post {
	t.Helper()
	post, err := e.postSvc.Create(context.Background(), services.PostInput{Title: title, Subtitle: "sub", Content: "body"}, author)
	require.NoError(t, err)
	return post
}

func postURL(id int, action string) string {
	return "/posts/" + strconv.Itoa(id) + "/" + action
}
