package mock

import (
	"context"
	"sync"
	"time"

	"github.com/Samdami/Altsamdamiblog/app/models"
	"github.com/Samdami/Altsamdamiblog/app/repositories"
)

type UserRepository struct {
	users  map[int]*models.User
	nextID int
	mutex  sync.RWMutex
}

type PostRepository struct {
	posts  map[int]*models.Post
	nextID int
	mutex  sync.RWMutex
}

type sessionEntry struct {
	session   models.Session
	expiresAt time.Time
}

type SessionRepository struct {
	sessions map[string]sessionEntry
	now      func() time.Time
	mutex    sync.RWMutex
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:  make(map[int]*models.User),
		nextID: 1,
	}
}

func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts:  make(map[int]*models.Post),
		nextID: 1,
	}
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]sessionEntry),
		now:      time.Now,
	}
}

// SetClock overrides the time source used for TTL checks.
func (m *SessionRepository) SetClock(now func() time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.now = now
}

func (m *PostRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.posts = make(map[int]*models.Post)
	m.nextID = 1
}

// UserRepository implementation
func (m *UserRepository) Create(_ context.Context, user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repositories.ErrAlreadyExists
		}
	}

	user.ID = m.nextID
	m.nextID++
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *UserRepository) GetByID(_ context.Context, id int) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	out := *user
	return &out, nil
}

func (m *UserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Username == username })
}

func (m *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Email == email })
}

// Remove drops a user, simulating an account that disappeared under a live session.
func (m *UserRepository) Remove(id int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.users, id)
}

func (m *UserRepository) find(match func(*models.User) bool) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, u := range m.users {
		if match(u) {
			out := *u
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// PostRepository implementation
func (m *PostRepository) Create(_ context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post.ID = m.nextID
	m.nextID++
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *PostRepository) GetByID(_ context.Context, id int) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	out := *post
	return &out, nil
}

func (m *PostRepository) Update(_ context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	existing, exists := m.posts[post.ID]
	if !exists {
		return repositories.ErrNotFound
	}
	existing.Title = post.Title
	existing.Subtitle = post.Subtitle
	existing.Content = post.Content
	return nil
}

func (m *PostRepository) Delete(_ context.Context, id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *PostRepository) List(_ context.Context) ([]*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	posts := []*models.Post{}
	for id := 1; id < m.nextID; id++ {
		if post, exists := m.posts[id]; exists {
			out := *post
			posts = append(posts, &out)
		}
	}
	return posts, nil
}

// SessionRepository implementation
func (m *SessionRepository) Create(_ context.Context, key string, session *models.Session, ttl time.Duration) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.sessions[key] = sessionEntry{session: *session, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *SessionRepository) Get(_ context.Context, key string) (*models.Session, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	entry, exists := m.sessions[key]
	if !exists || !m.now().Before(entry.expiresAt) {
		return nil, repositories.ErrNotFound
	}
	out := entry.session
	return &out, nil
}

func (m *SessionRepository) Delete(_ context.Context, key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.sessions, key)
	return nil
}

// Len returns the number of stored sessions, expired or not.
func (m *SessionRepository) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}
