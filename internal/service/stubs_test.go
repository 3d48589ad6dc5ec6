package service

import (
	"context"
	"errors"
	"testing"

	"chirp/internal/media"
	"chirp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn           func(context.Context, uint) (*models.User, error)
	getByUsernameFn     func(context.Context, string) (*models.User, error)
	createFn            func(context.Context, *models.User) error
	updateFn            func(context.Context, *models.User) error
	deleteFn            func(context.Context, uint) error
	listFn              func(context.Context) ([]models.User, error)
	listNotFollowedByFn func(context.Context, uint) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context) ([]models.User, error) {
	return s.listFn(ctx)
}
func (s *userRepoStub) ListNotFollowedBy(ctx context.Context, userID uint) ([]models.User, error) {
	return s.listNotFollowedByFn(ctx, userID)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:           func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByUsernameFn:     func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:            func(_ context.Context, _ *models.User) error { return nil },
		updateFn:            func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:            func(_ context.Context, _ uint) error { return nil },
		listFn:              func(_ context.Context) ([]models.User, error) { return nil, nil },
		listNotFollowedByFn: func(_ context.Context, _ uint) ([]models.User, error) { return nil, nil },
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	addFn          func(context.Context, uint, uint) error
	removeFn       func(context.Context, uint, uint) error
	isFollowingFn  func(context.Context, uint, uint) (bool, error)
	followersFn    func(context.Context, uint) ([]models.User, error)
	followingFn    func(context.Context, uint) ([]models.User, error)
	followingIDsFn func(context.Context, uint) ([]uint, error)
}

func (s *followRepoStub) Add(ctx context.Context, followerID, followeeID uint) error {
	return s.addFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Remove(ctx context.Context, followerID, followeeID uint) error {
	return s.removeFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followersFn(ctx, userID)
}
func (s *followRepoStub) Following(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followingFn(ctx, userID)
}
func (s *followRepoStub) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.followingIDsFn(ctx, userID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		addFn:          func(_ context.Context, _, _ uint) error { return nil },
		removeFn:       func(_ context.Context, _, _ uint) error { return nil },
		isFollowingFn:  func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		followersFn:    func(_ context.Context, _ uint) ([]models.User, error) { return nil, nil },
		followingFn:    func(_ context.Context, _ uint) ([]models.User, error) { return nil, nil },
		followingIDsFn: func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
	}
}

// tweetRepoStub is a stub for repository.TweetRepository.
type tweetRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.Tweet, error)
	createFn        func(context.Context, *models.Tweet) error
	updateFn        func(context.Context, *models.Tweet) error
	deleteFn        func(context.Context, uint) error
	listByAuthorFn  func(context.Context, uint) ([]models.Tweet, error)
	listByAuthorsFn func(context.Context, []uint) ([]models.Tweet, error)
}

func (s *tweetRepoStub) GetByID(ctx context.Context, id uint) (*models.Tweet, error) {
	return s.getByIDFn(ctx, id)
}
func (s *tweetRepoStub) Create(ctx context.Context, tweet *models.Tweet) error {
	return s.createFn(ctx, tweet)
}
func (s *tweetRepoStub) Update(ctx context.Context, tweet *models.Tweet) error {
	return s.updateFn(ctx, tweet)
}
func (s *tweetRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *tweetRepoStub) ListByAuthor(ctx context.Context, authorID uint) ([]models.Tweet, error) {
	return s.listByAuthorFn(ctx, authorID)
}
func (s *tweetRepoStub) ListByAuthors(ctx context.Context, authorIDs []uint) ([]models.Tweet, error) {
	return s.listByAuthorsFn(ctx, authorIDs)
}

func noopTweetRepo() *tweetRepoStub {
	return &tweetRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.Tweet, error) { return &models.Tweet{ID: id}, nil },
		createFn:        func(_ context.Context, _ *models.Tweet) error { return nil },
		updateFn:        func(_ context.Context, _ *models.Tweet) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		listByAuthorFn:  func(_ context.Context, _ uint) ([]models.Tweet, error) { return nil, nil },
		listByAuthorsFn: func(_ context.Context, _ []uint) ([]models.Tweet, error) { return nil, nil },
	}
}

// mediaStoreStub is a stub for media.Store.
type mediaStoreStub struct {
	uploadFn func(context.Context, string, []byte) (media.Object, error)
	deleteFn func(context.Context, string) error
}

func (s *mediaStoreStub) Upload(ctx context.Context, name string, content []byte) (media.Object, error) {
	return s.uploadFn(ctx, name, content)
}
func (s *mediaStoreStub) Delete(ctx context.Context, key string) error {
	return s.deleteFn(ctx, key)
}

func noopMediaStore() *mediaStoreStub {
	return &mediaStoreStub{
		uploadFn: func(_ context.Context, name string, _ []byte) (media.Object, error) {
			return media.Object{URL: "https://cdn.test/" + name, Key: "media/" + name}, nil
		},
		deleteFn: func(_ context.Context, _ string) error { return nil },
	}
}

// assertAppErrorCode asserts that err is an AppError with the given code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeValidationError)
}

func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeUnauthorized)
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeNotFound)
}
