// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"context"

	"chirp/internal/auth"
	"chirp/internal/media"
	"chirp/internal/models"
	"chirp/internal/repository"
	"chirp/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// FileInput is an uploaded file passed through to the media collaborator.
type FileInput struct {
	Name    string
	Content []byte
}

// AuthService handles registration and login.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
	media  media.Store
}

// RegisterInput carries the addUser mutation arguments.
type RegisterInput struct {
	Username string
	Password string
	Name     string
	Bio      string
	Avatar   *FileInput
}

// NewAuthService creates an AuthService. The media store may be nil when no
// object store is configured; avatar uploads then fail with a validation error.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenService, mediaStore media.Store) *AuthService {
	return &AuthService{users: users, tokens: tokens, media: mediaStore}
}

// Register creates a new account and issues an identity token. The password
// is stored only as a bcrypt hash. A taken username yields Conflict.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, "", models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, "", models.NewValidationError(err.Error())
	}
	if err := validation.ValidateName(in.Name); err != nil {
		return nil, "", models.NewValidationError(err.Error())
	}
	if err := validation.ValidateBio(in.Bio); err != nil {
		return nil, "", models.NewValidationError(err.Error())
	}

	existing, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", models.NewConflictError("Username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", models.NewStorageError(err)
	}

	user := &models.User{
		Username: in.Username,
		Name:     in.Name,
		Password: string(hashed),
		Bio:      in.Bio,
	}

	if in.Avatar != nil {
		obj, uploadErr := s.uploadAvatar(ctx, in.Avatar)
		if uploadErr != nil {
			return nil, "", uploadErr
		}
		user.AvatarURL = obj.URL
		user.AvatarKey = obj.Key
	}

	// The unique constraint still guards against a concurrent registration
	// racing past the existence check above.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", models.NewStorageError(err)
	}

	return user, token, nil
}

// Login verifies credentials and issues a token. Unknown usernames and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", models.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", models.NewInvalidCredentialsError()
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", models.NewStorageError(err)
	}

	return user, token, nil
}

func (s *AuthService) uploadAvatar(ctx context.Context, file *FileInput) (media.Object, error) {
	if s.media == nil {
		return media.Object{}, models.NewValidationError("Media uploads are not configured")
	}
	return s.media.Upload(ctx, file.Name, file.Content)
}
