package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Samdami/Altsamdamiblog/app/models"
)

const postSelect = `SELECT p.id, p.title, p.subtitle, p.content, p.author_id, u.username, p.date_posted
FROM posts p JOIN users u ON u.id = p.author_id`

// SQLitePostRepository implements PostRepository using SQLite
type SQLitePostRepository struct {
	db *DB
}

// NewSQLitePostRepository creates a new SQLitePostRepository
func NewSQLitePostRepository(db *DB) *SQLitePostRepository {
	return &SQLitePostRepository{db: db}
}

// Create creates a new post
func (r *SQLitePostRepository) Create(ctx context.Context, post *models.Post) error {
	res, err := r.db.db.ExecContext(ctx,
		`INSERT INTO posts (title, subtitle, content, author_id, date_posted) VALUES (?, ?, ?, ?, ?)`,
		post.Title, post.Subtitle, post.Content, post.AuthorID, post.DatePosted.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read post id: %w", err)
	}
	post.ID = int(id)
	return nil
}

// GetByID retrieves a post by ID
func (r *SQLitePostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	row := r.db.db.QueryRowContext(ctx, postSelect+` WHERE p.id = ?`, id)
	post, err := scanPost(row)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return post, nil
}

// List retrieves every post in id order
func (r *SQLitePostRepository) List(ctx context.Context) ([]*models.Post, error) {
	rows, err := r.db.db.QueryContext(ctx, postSelect+` ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}

// Update writes the editable fields of an existing post
func (r *SQLitePostRepository) Update(ctx context.Context, post *models.Post) error {
	res, err := r.db.db.ExecContext(ctx,
		`UPDATE posts SET title = ?, subtitle = ?, content = ? WHERE id = ?`,
		post.Title, post.Subtitle, post.Content, post.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return requireAffected(res)
}

// Delete deletes a post by ID
func (r *SQLitePostRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return requireAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		post   models.Post
		millis int64
	)
	if err := row.Scan(&post.ID, &post.Title, &post.Subtitle, &post.Content, &post.AuthorID, &post.Author, &millis); err != nil {
		return nil, err
	}
	post.DatePosted = time.UnixMilli(millis)
	return &post, nil
}
