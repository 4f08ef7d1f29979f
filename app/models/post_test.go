package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostValidation(t *testing.T) {
	tests := []struct {
		name    string
		post    *Post
		wantErr bool
	}{
		{
			name: "valid post",
			post: &Post{
				Title:      "Valid Title",
				Subtitle:   "A subtitle",
				Content:    "Body",
				AuthorID:   1,
				DatePosted: time.Now(),
			},
			wantErr: false,
		},
		{
			name: "empty subtitle is allowed",
			post: &Post{
				Title:      "Valid Title",
				Content:    "Body",
				AuthorID:   1,
				DatePosted: time.Now(),
			},
			wantErr: false,
		},
		{
			name: "missing title",
			post: &Post{
				Content:    "Body",
				AuthorID:   1,
				DatePosted: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "title too long",
			post: &Post{
				Title:      strings.Repeat("t", 51),
				Content:    "Body",
				AuthorID:   1,
				DatePosted: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "subtitle too long",
			post: &Post{
				Title:      "Valid Title",
				Subtitle:   strings.Repeat("s", 51),
				Content:    "Body",
				AuthorID:   1,
				DatePosted: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "missing author",
			post: &Post{
				Title:      "Valid Title",
				Content:    "Body",
				DatePosted: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "zero date posted",
			post: &Post{
				Title:    "Valid Title",
				Content:  "Body",
				AuthorID: 1,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.post.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPostBeforeCreate(t *testing.T) {
	post := &Post{Title: "Test Post", Content: "Test Content"}

	first := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

	assert.True(t, post.DatePosted.IsZero())
	post.BeforeCreate(first)
	assert.Equal(t, first, post.DatePosted)

	post.BeforeCreate(first.Add(time.Hour))
	assert.Equal(t, first, post.DatePosted)
}

func TestPostOwnership(t *testing.T) {
	post := &Post{ID: 1, Title: "Test Post", Content: "Test Content"}
	alice := &User{ID: 7, Username: "alice"}
	bob := &User{ID: 8, Username: "bob"}

	t.Run("set author", func(t *testing.T) {
		require.NoError(t, post.SetAuthor(alice))
		assert.Equal(t, 7, post.AuthorID)
		assert.Equal(t, "alice", post.Author)
	})

	t.Run("set nil author", func(t *testing.T) {
		assert.Error(t, post.SetAuthor(nil))
	})

	t.Run("owned by", func(t *testing.T) {
		assert.True(t, post.OwnedBy(alice))
		assert.False(t, post.OwnedBy(bob))
		assert.False(t, post.OwnedBy(nil))
	})
}

func TestPostDisplayDate(t *testing.T) {
	post := &Post{DatePosted: time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)}
	assert.Equal(t, "March 05, 2024", post.DisplayDate())
}

func TestFieldErrors(t *testing.T) {
	form := struct {
		Title    string `validate:"required,max=5"`
		Subtitle string `validate:"max=3"`
	}{Subtitle: "toolong"}

	errs := FieldErrors(Validate(form))
	assert.Equal(t, "Title is required.", errs["title"])
	assert.Equal(t, "Subtitle must be at most 3 characters.", errs["subtitle"])
	assert.Nil(t, FieldErrors(nil))
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	s := &Session{UserID: 1, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}

	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(time.Hour)))
	assert.False(t, (&Session{}).Expired(now))
}
