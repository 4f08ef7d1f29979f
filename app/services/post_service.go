package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Samdami/Altsamdamiblog/app/models"
	"github.com/Samdami/Altsamdamiblog/app/repositories"
)

// Access is the outcome of an authorization check on a post.
type Access int

const (
	Unauthenticated Access = iota
	Forbidden
	Allowed
)

func (a Access) String() string {
	switch a {
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case Allowed:
		return "allowed"
	default:
		return fmt.Sprintf("Access(%d)", int(a))
	}
}

// PostInput is the editable part of a post as submitted by a form.
type PostInput struct {
	Title    string `validate:"required,max=50"`
	Subtitle string `validate:"max=50"`
	Content  string `validate:"required"`
}

// PostService handles business logic for blog posts
type PostService struct {
	postRepo repositories.PostRepository
	now      func() time.Time
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		now:      time.Now,
	}
}

// Authorize decides whether viewer may change post. Only the author may.
func Authorize(viewer *models.User, post *models.Post) Access {
	switch {
	case viewer == nil:
		return Unauthenticated
	case post.OwnedBy(viewer):
		return Allowed
	default:
		return Forbidden
	}
}

// ListAll retrieves every post in id order
func (s *PostService) ListAll(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.List(ctx)
}

// GetByID retrieves a post by ID
func (s *PostService) GetByID(ctx context.Context, id int) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// Create stamps and stores a new post written by author
func (s *PostService) Create(ctx context.Context, in PostInput, author *models.User) (*models.Post, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:    in.Title,
		Subtitle: in.Subtitle,
		Content:  in.Content,
	}
	post.BeforeCreate(s.now())
	if err := post.SetAuthor(author); err != nil {
		return nil, err
	}
	if err := post.Validate(); err != nil {
		return nil, fmt.Errorf("invalid post: %w", err)
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// Update applies in to the post with the given id. The caller must have been
// authorized against the stored post.
func (s *PostService) Update(ctx context.Context, id int, in PostInput) (*models.Post, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	post.Title = in.Title
	post.Subtitle = in.Subtitle
	post.Content = in.Content

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes the post with the given id
func (s *PostService) Delete(ctx context.Context, id int) error {
	return s.postRepo.Delete(ctx, id)
}

func validateInput(in PostInput) error {
	if err := models.Validate(in); err != nil {
		return &ValidationError{Fields: models.FieldErrors(err)}
	}
	return nil
}
