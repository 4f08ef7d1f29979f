package repositories

import (
	"context"
	"time"

	"github.com/Samdami/Altsamdamiblog/app/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id int) error
}

// SessionRepository stores sessions under an opaque key until ttl elapses.
type SessionRepository interface {
	Create(ctx context.Context, key string, session *models.Session, ttl time.Duration) error
	Get(ctx context.Context, key string) (*models.Session, error)
	Delete(ctx context.Context, key string) error
}
