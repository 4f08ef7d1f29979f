package models

import (
	"errors"
	"time"
)

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.DatePosted.IsZero() {
		return errors.New("date_posted cannot be zero")
	}

	return nil
}

// BeforeCreate stamps the creation date with now unless one is already set.
func (p *Post) BeforeCreate(now time.Time) {
	if p.DatePosted.IsZero() {
		p.DatePosted = now
	}
}

// SetAuthor records u as the owner of the post.
func (p *Post) SetAuthor(u *User) error {
	if u == nil {
		return errors.New("author cannot be nil")
	}

	p.AuthorID = u.ID
	p.Author = u.Username
	return nil
}

// OwnedBy reports whether u wrote the post. A nil user owns nothing.
func (p *Post) OwnedBy(u *User) bool {
	return u != nil && u.ID != 0 && p.AuthorID == u.ID
}

// DisplayDate formats the creation date the way post pages show it.
func (p *Post) DisplayDate() string {
	return p.DatePosted.Format("January 02, 2006")
}
