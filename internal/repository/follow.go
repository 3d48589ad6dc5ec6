package repository

import (
	"context"
	"errors"

	"chirp/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines persistence operations for social-graph edges.
// Add and Remove are idempotent: re-following an already-followed target and
// unfollowing a non-followed one are both no-ops, so retries and concurrent
// duplicates converge to the same edge set.
type FollowRepository interface {
	Add(ctx context.Context, followerID, followeeID uint) error
	Remove(ctx context.Context, followerID, followeeID uint) error
	IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error)
	Followers(ctx context.Context, userID uint) ([]models.User, error)
	Following(ctx context.Context, userID uint) ([]models.User, error)
	FollowingIDs(ctx context.Context, userID uint) ([]uint, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Add creates the edge follower -> followee. The edge is a single row, so
// there is no second denormalized side that could be left half-written.
func (r *followRepository) Add(ctx context.Context, followerID, followeeID uint) error {
	if followerID == followeeID {
		return models.NewValidationError("Cannot follow yourself")
	}
	edge := models.Follow{FollowerID: followerID, FolloweeID: followeeID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&edge).Error; err != nil {
		// Some drivers still surface the conflict instead of swallowing it.
		if isUniqueConstraintError(err) {
			return nil
		}
		return storageError(ctx, "add follow edge", err)
	}
	return nil
}

func (r *followRepository) Remove(ctx context.Context, followerID, followeeID uint) error {
	if err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{}).Error; err != nil {
		return storageError(ctx, "remove follow edge", err)
	}
	return nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var edge models.Follow
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		First(&edge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, storageError(ctx, "check follow edge", err)
	}
	return true, nil
}

// Followers returns the users following userID (the inbound view of the
// edge set).
func (r *followRepository) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN follows f ON f.follower_id = users.id").
		Where("f.followee_id = ? AND users.deleted_at IS NULL", userID).
		Order("users.id ASC").
		Find(&users).Error; err != nil {
		return nil, storageError(ctx, "list followers", err)
	}
	return users, nil
}

// Following returns the users userID follows (the outbound view).
func (r *followRepository) Following(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN follows f ON f.followee_id = users.id").
		Where("f.follower_id = ? AND users.deleted_at IS NULL", userID).
		Order("users.id ASC").
		Find(&users).Error; err != nil {
		return nil, storageError(ctx, "list following", err)
	}
	return users, nil
}

func (r *followRepository) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("followee_id", &ids).Error; err != nil {
		return nil, storageError(ctx, "list following ids", err)
	}
	return ids, nil
}
