package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Samdami/Altsamdamiblog/app/models"
	"github.com/Samdami/Altsamdamiblog/app/repositories"
)

// UserLookup resolves a session's user id to a user.
type UserLookup interface {
	Lookup(ctx context.Context, id int) (*models.User, error)
}

// SessionService issues, resolves and ends login sessions
type SessionService struct {
	sessions repositories.SessionRepository
	users    UserLookup
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionService creates a new SessionService
func NewSessionService(sessions repositories.SessionRepository, users UserLookup, ttl time.Duration) *SessionService {
	return &SessionService{
		sessions: sessions,
		users:    users,
		ttl:      ttl,
		now:      time.Now,
	}
}

// TTL is how long a new session stays valid.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Login starts a session for user and returns the token for the client cookie.
func (s *SessionService) Login(ctx context.Context, user *models.User) (string, error) {
	token, err := GenerateToken(SessionTokenSize)
	if err != nil {
		return "", err
	}

	now := s.now()
	session := &models.Session{
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, FingerprintToken(token), session, s.ttl); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// Resolve returns the user behind token. Unknown or expired tokens and sessions
// whose user no longer exists yield ErrNoSession; stale sessions are removed.
func (s *SessionService) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	key := FingerprintToken(token)

	session, err := s.sessions.Get(ctx, key)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.Expired(s.now()) {
		_ = s.sessions.Delete(ctx, key)
		return nil, ErrNoSession
	}

	user, err := s.users.Lookup(ctx, session.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		_ = s.sessions.Delete(ctx, key)
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	return user, nil
}

// Logout ends the session behind token. An empty token is a no-op.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, FingerprintToken(token)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
