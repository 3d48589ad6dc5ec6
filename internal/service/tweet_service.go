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

// TweetService handles tweet CRUD and feed queries. Ownership of existing
// tweets is always checked against the stored author, never against
// caller-supplied identifiers.
type TweetService struct {
	tweets  repository.TweetRepository
	follows repository.FollowRepository
	users   repository.UserRepository
	media   media.Store
}

// CreateTweetInput carries the addTweet mutation arguments.
type CreateTweetInput struct {
	AuthorID uint
	Content  string
	File     *FileInput
}

// UpdateTweetInput carries the updateTweet mutation arguments.
type UpdateTweetInput struct {
	ViewerID uint
	TweetID  uint
	Content  string
	File     *FileInput
}

// NewTweetService creates a TweetService.
func NewTweetService(
	tweets repository.TweetRepository,
	follows repository.FollowRepository,
	users repository.UserRepository,
	mediaStore media.Store,
) *TweetService {
	return &TweetService{tweets: tweets, follows: follows, users: users, media: mediaStore}
}

// Get returns the tweet with the given ID.
func (s *TweetService) Get(ctx context.Context, id uint) (*models.Tweet, error) {
	return s.tweets.GetByID(ctx, id)
}

// ListByAuthor returns the author's tweets, newest first.
func (s *TweetService) ListByAuthor(ctx context.Context, authorID uint) ([]models.Tweet, error) {
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		return nil, err
	}
	return s.tweets.ListByAuthor(ctx, authorID)
}

// ListByFollowing returns tweets authored by users the given user follows,
// newest first. The result reflects the follow set at query time.
func (s *TweetService) ListByFollowing(ctx context.Context, userID uint) ([]models.Tweet, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	followed, err := s.follows.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.tweets.ListByAuthors(ctx, followed)
}

// Create persists a new tweet for the author, uploading any attached file
// to the media collaborator first.
func (s *TweetService) Create(ctx context.Context, in CreateTweetInput) (*models.Tweet, error) {
	if err := validation.ValidateContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if _, err := s.users.GetByID(ctx, in.AuthorID); err != nil {
		return nil, err
	}

	tweet := &models.Tweet{
		Content:  in.Content,
		AuthorID: in.AuthorID,
	}

	if in.File != nil {
		obj, err := s.uploadMedia(ctx, in.File)
		if err != nil {
			return nil, err
		}
		tweet.MediaURL = obj.URL
		tweet.MediaKey = obj.Key
	}

	if err := s.tweets.Create(ctx, tweet); err != nil {
		return nil, err
	}
	return tweet, nil
}

// Update replaces the tweet's content and, when a file is attached, its
// media. Only the stored author may update.
func (s *TweetService) Update(ctx context.Context, in UpdateTweetInput) (*models.Tweet, error) {
	tweet, err := s.tweets.GetByID(ctx, in.TweetID)
	if err != nil {
		return nil, err
	}
	if tweet.AuthorID != in.ViewerID {
		return nil, models.NewUnauthorizedError("")
	}

	if err := validation.ValidateContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	tweet.Content = in.Content

	if in.File != nil {
		obj, uploadErr := s.uploadMedia(ctx, in.File)
		if uploadErr != nil {
			return nil, uploadErr
		}
		if tweet.MediaKey != "" {
			s.deleteMedia(ctx, tweet.MediaKey)
		}
		tweet.MediaURL = obj.URL
		tweet.MediaKey = obj.Key
	}

	if err := s.tweets.Update(ctx, tweet); err != nil {
		return nil, err
	}
	return tweet, nil
}

// Delete removes the tweet and its attached media object, if any. Only the
// stored author may delete. Tweets without media never touch the
// collaborator.
func (s *TweetService) Delete(ctx context.Context, viewerID, tweetID uint) (*models.Tweet, error) {
	tweet, err := s.tweets.GetByID(ctx, tweetID)
	if err != nil {
		return nil, err
	}
	if tweet.AuthorID != viewerID {
		return nil, models.NewUnauthorizedError("")
	}

	if tweet.HasMedia() {
		s.deleteMedia(ctx, tweet.MediaKey)
	}

	if err := s.tweets.Delete(ctx, tweetID); err != nil {
		return nil, err
	}
	return tweet, nil
}

func (s *TweetService) uploadMedia(ctx context.Context, file *FileInput) (media.Object, error) {
	if s.media == nil {
		return media.Object{}, models.NewValidationError("Media uploads are not configured")
	}
	return s.media.Upload(ctx, file.Name, file.Content)
}

// deleteMedia removes an object best-effort. The collaborator is external;
// its unavailability must not block record mutations, so failures are only
// logged.
func (s *TweetService) deleteMedia(ctx context.Context, key string) {
	if s.media == nil {
		return
	}
	if err := s.media.Delete(ctx, key); err != nil {
		middleware.Logger.WarnContext(ctx, "media cleanup failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}
