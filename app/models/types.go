package models

import "time"

// User is a registered account.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username" validate:"required,max=255"`
	Email        string `json:"email" validate:"required,max=255"`
	PasswordHash string `json:"-" validate:"required"`
}

// Post represents a blog post. Author is the owning user's username, resolved from
// AuthorID on every read.
type Post struct {
	ID         int       `json:"id" validate:"gte=0"`
	Title      string    `json:"title" validate:"required,max=50"`
	Subtitle   string    `json:"subtitle" validate:"max=50"`
	Content    string    `json:"content" validate:"required"`
	AuthorID   int       `json:"author_id" validate:"required,gt=0"`
	Author     string    `json:"author" validate:"-"`
	DatePosted time.Time `json:"date_posted" validate:"required"`
}

// Session is the server-side record behind a session cookie.
type Session struct {
	UserID    int       `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
