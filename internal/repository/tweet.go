package repository

import (
	"context"
	"errors"

	"chirp/internal/models"

	"gorm.io/gorm"
)

// TweetRepository defines persistence operations for tweets.
type TweetRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Tweet, error)
	Create(ctx context.Context, tweet *models.Tweet) error
	Update(ctx context.Context, tweet *models.Tweet) error
	Delete(ctx context.Context, id uint) error
	ListByAuthor(ctx context.Context, authorID uint) ([]models.Tweet, error)
	ListByAuthors(ctx context.Context, authorIDs []uint) ([]models.Tweet, error)
}

type tweetRepository struct {
	db *gorm.DB
}

// NewTweetRepository returns a new TweetRepository implementation.
func NewTweetRepository(db *gorm.DB) TweetRepository {
	return &tweetRepository{db: db}
}

func (r *tweetRepository) GetByID(ctx context.Context, id uint) (*models.Tweet, error) {
	var tweet models.Tweet
	if err := r.db.WithContext(ctx).First(&tweet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Tweet", id)
		}
		return nil, storageError(ctx, "get tweet by id", err)
	}
	return &tweet, nil
}

func (r *tweetRepository) Create(ctx context.Context, tweet *models.Tweet) error {
	if err := r.db.WithContext(ctx).Create(tweet).Error; err != nil {
		return storageError(ctx, "create tweet", err)
	}
	return nil
}

func (r *tweetRepository) Update(ctx context.Context, tweet *models.Tweet) error {
	if err := r.db.WithContext(ctx).Save(tweet).Error; err != nil {
		return storageError(ctx, "update tweet", err)
	}
	return nil
}

func (r *tweetRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Tweet{}, id).Error; err != nil {
		return storageError(ctx, "delete tweet", err)
	}
	return nil
}

// ListByAuthor returns the author's tweets newest first. The id tiebreak
// keeps ordering stable when timestamps collide within clock resolution.
func (r *tweetRepository) ListByAuthor(ctx context.Context, authorID uint) ([]models.Tweet, error) {
	var tweets []models.Tweet
	if err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Find(&tweets).Error; err != nil {
		return nil, storageError(ctx, "list tweets by author", err)
	}
	return tweets, nil
}

// ListByAuthors returns tweets by any of the given authors, newest first.
// An empty author set yields an empty feed without touching the database.
func (r *tweetRepository) ListByAuthors(ctx context.Context, authorIDs []uint) ([]models.Tweet, error) {
	if len(authorIDs) == 0 {
		return []models.Tweet{}, nil
	}
	var tweets []models.Tweet
	if err := r.db.WithContext(ctx).
		Where("author_id IN ?", authorIDs).
		Order("created_at DESC, id DESC").
		Find(&tweets).Error; err != nil {
		return nil, storageError(ctx, "list tweets by authors", err)
	}
	return tweets, nil
}
