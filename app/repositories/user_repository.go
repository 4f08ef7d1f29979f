package repositories

import (
	"context"
	"fmt"

	"github.com/Samdami/Altsamdamiblog/app/models"
)

const userColumns = `id, username, email, password_hash`

// SQLiteUserRepository implements UserRepository using SQLite
type SQLiteUserRepository struct {
	db *DB
}

// NewSQLiteUserRepository creates a new SQLiteUserRepository
func NewSQLiteUserRepository(db *DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

// Create inserts the user and sets its ID. Duplicate usernames or emails yield
// ErrAlreadyExists.
func (r *SQLiteUserRepository) Create(ctx context.Context, user *models.User) error {
	res, err := r.db.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`,
		user.Username, user.Email, user.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", mapConstraint(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	user.ID = int(id)
	return nil
}

// GetByID retrieves a user by ID
func (r *SQLiteUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetByUsername retrieves a user by exact username
func (r *SQLiteUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

// GetByEmail retrieves a user by exact email
func (r *SQLiteUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *SQLiteUserRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	err := r.db.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &u, nil
}
