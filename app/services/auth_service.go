package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Samdami/Altsamdamiblog/app/models"
	"github.com/Samdami/Altsamdamiblog/app/repositories"
)

const (
	msgUsernameTaken    = "This Username is already being used by another user."
	msgEmailTaken       = "This Email is already being used by another user."
	msgPasswordMismatch = "The two passwords must match"
)

// Registration is the submitted signup form.
type Registration struct {
	Username string `validate:"required,max=255"`
	Email    string `validate:"required,max=255"`
	Password string `validate:"required,max=72"`
	Confirm  string
}

// AuthService handles account registration and credential checks
type AuthService struct {
	users repositories.UserRepository
	cost  int
}

// NewAuthService creates a new AuthService
func NewAuthService(users repositories.UserRepository) *AuthService {
	return &AuthService{
		users: users,
		cost:  bcrypt.DefaultCost,
	}
}

// SetHashCost overrides the bcrypt cost used for new passwords.
func (s *AuthService) SetHashCost(cost int) {
	s.cost = cost
}

// Register creates a new account. Any conflict reports the username and email
// messages together, plus the mismatch message when the passwords differ.
func (s *AuthService) Register(ctx context.Context, reg Registration) (*models.User, error) {
	if err := models.Validate(reg); err != nil {
		return nil, &ValidationError{Fields: models.FieldErrors(err)}
	}

	mismatch := reg.Confirm != reg.Password

	usernameTaken, err := s.exists(ctx, s.users.GetByUsername, reg.Username)
	if err != nil {
		return nil, err
	}
	emailTaken, err := s.exists(ctx, s.users.GetByEmail, reg.Email)
	if err != nil {
		return nil, err
	}

	if usernameTaken || emailTaken || mismatch {
		return nil, conflictError(mismatch)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, &ValidationError{Fields: map[string]string{"password": "Password must be at most 72 bytes."}}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     reg.Username,
		Email:        reg.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrAlreadyExists) {
			return nil, conflictError(false)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate returns the user only if it exists and the password matches.
// Every failure is ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Lookup retrieves a user by ID
func (s *AuthService) Lookup(ctx context.Context, id int) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *AuthService) exists(ctx context.Context, get func(context.Context, string) (*models.User, error), value string) (bool, error) {
	_, err := get(ctx, value)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repositories.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check existing users: %w", err)
	}
}

func conflictError(mismatch bool) *ValidationError {
	fields := map[string]string{
		"username": msgUsernameTaken,
		"email":    msgEmailTaken,
	}
	if mismatch {
		fields["password"] = msgPasswordMismatch
	}
	return &ValidationError{Fields: fields}
}
