package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/Samdami/Altsamdamiblog/app/logging"
	"github.com/Samdami/Altsamdamiblog/app/models"
	"github.com/Samdami/Altsamdamiblog/app/services"
)

type userKey struct{}

// SessionResolver maps a session token to its user.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

// WithUser returns a copy of ctx carrying user as the current user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// CurrentUser returns the logged-in user, or nil for anonymous requests.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey{}).(*models.User)
	return user
}

// Sessions resolves the session cookie into the current user. Requests without
// a valid session continue anonymously.
func Sessions(resolver SessionResolver, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := resolver.Resolve(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, services.ErrNoSession) {
					logging.FromContext(r.Context()).Warn("session lookup failed", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithUser(r.Context(), user)
			ctx = logging.WithContext(ctx, logging.FromContext(ctx).With("user_id", user.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLogin redirects anonymous callers to the login page.
func RequireLogin(next http.Handler) http.Handler {
	return NoStore(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r.Context()) == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}))
}
