package service

import (
	"context"
	"log/slog"

	"chirp/internal/media"
	"chirp/internal/middleware"
	"chirp/internal/models"
	"chirp/internal/repository"
	"chirp/internal/validation"
)

// UserService handles profile reads/updates and social-graph edits.
type UserService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
	media   media.Store
}

// UpdateProfileInput carries the updateUser mutation arguments. Empty
// strings leave the corresponding field unchanged.
type UpdateProfileInput struct {
	UserID            uint
	Name              string
	Bio               string
	Avatar            *FileInput
	FollowingToAdd    []uint
	FollowingToRemove []uint
}

// NewUserService creates a UserService.
func NewUserService(users repository.UserRepository, follows repository.FollowRepository, mediaStore media.Store) *UserService {
	return &UserService{users: users, follows: follows, media: mediaStore}
}

// Get returns the user with the given ID.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetByUsername returns the user with the given username or NotFound.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return user, nil
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// ListNotFollowing returns all users the given user does not yet follow,
// excluding the user itself.
func (s *UserService) ListNotFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.users.ListNotFollowedBy(ctx, userID)
}

// Followers returns the users following userID.
func (s *UserService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.follows.Followers(ctx, userID)
}

// Following returns the users userID follows.
func (s *UserService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	return s.follows.Following(ctx, userID)
}

// UpdateProfile applies profile field changes and follow-list edits for the
// user. Follow edits are idempotent set operations on the edge relation;
// every target must exist and self-follow is rejected.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	changed := false
	if in.Name != "" {
		if err := validation.ValidateName(in.Name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Name = in.Name
		changed = true
	}
	if in.Bio != "" {
		if err := validation.ValidateBio(in.Bio); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Bio = in.Bio
		changed = true
	}
	if in.Avatar != nil {
		if s.media == nil {
			return nil, models.NewValidationError("Media uploads are not configured")
		}
		obj, uploadErr := s.media.Upload(ctx, in.Avatar.Name, in.Avatar.Content)
		if uploadErr != nil {
			return nil, uploadErr
		}
		if user.AvatarKey != "" {
			// Replacing the avatar orphans the previous object; clean it up
			// best-effort, the profile update itself must not fail on it.
			if delErr := s.media.Delete(ctx, user.AvatarKey); delErr != nil {
				middleware.Logger.WarnContext(ctx, "stale avatar cleanup failed",
					slog.String("key", user.AvatarKey),
					slog.String("error", delErr.Error()),
				)
			}
		}
		user.AvatarURL = obj.URL
		user.AvatarKey = obj.Key
		changed = true
	}

	if changed {
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	for _, targetID := range in.FollowingToAdd {
		if targetID == in.UserID {
			return nil, models.NewValidationError("Cannot follow yourself")
		}
		if _, err := s.users.GetByID(ctx, targetID); err != nil {
			return nil, err
		}
		if err := s.follows.Add(ctx, in.UserID, targetID); err != nil {
			return nil, err
		}
	}

	for _, targetID := range in.FollowingToRemove {
		if _, err := s.users.GetByID(ctx, targetID); err != nil {
			return nil, err
		}
		if err := s.follows.Remove(ctx, in.UserID, targetID); err != nil {
			return nil, err
		}
	}

	return user, nil
}
