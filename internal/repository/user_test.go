package repository

import (
	"context"
	"regexp"
	"testing"

	"chirp/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "alice", Name: "Alice", Password: "hash", Bio: "hello"}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "hello", got.Bio)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, user.ID, byName.ID)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.GetByID(context.Background(), 9999)
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, models.CodeOf(err))
}

func TestUserRepository_GetByUsername_MissingIsNil(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.GetByUsername(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepository_Create_DuplicateUsernameConflicts(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "bob", Name: "Bob", Password: "h"}))

	err := repo.Create(ctx, &models.User{Username: "bob", Name: "Other Bob", Password: "h"})
	require.Error(t, err)
	assert.Equal(t, models.CodeConflict, models.CodeOf(err))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "bob").Count(&count).Error)
	assert.EqualValues(t, 1, count, "duplicate signup must not persist a second user")
}

func TestUserRepository_ListNotFollowedBy(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	users := NewUserRepository(db)
	follows := NewFollowRepository(db)
	ctx := context.Background()

	alice := mustCreateUser(t, db, "alice")
	bob := mustCreateUser(t, db, "bob")
	carol := mustCreateUser(t, db, "carol")
	dave := mustCreateUser(t, db, "dave")

	require.NoError(t, follows.Add(ctx, alice.ID, bob.ID))

	got, err := users.ListNotFollowedBy(ctx, alice.ID)
	require.NoError(t, err)

	names := make([]string, 0, len(got))
	for _, u := range got {
		names = append(names, u.Username)
	}
	// Excludes alice herself and bob (already followed).
	assert.ElementsMatch(t, []string{carol.Username, dave.Username}, names)
}

func TestUserRepository_Delete_CleansFollowEdges(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	users := NewUserRepository(db)
	follows := NewFollowRepository(db)
	ctx := context.Background()

	alice := mustCreateUser(t, db, "alice")
	bob := mustCreateUser(t, db, "bob")

	require.NoError(t, follows.Add(ctx, alice.ID, bob.ID))
	require.NoError(t, follows.Add(ctx, bob.ID, alice.ID))

	require.NoError(t, users.Delete(ctx, bob.ID))

	var edges int64
	require.NoError(t, db.Model(&models.Follow{}).
		Where("follower_id = ? OR followee_id = ?", bob.ID, bob.ID).
		Count(&edges).Error)
	assert.Zero(t, edges, "deleting a user must remove both edge directions")
}

// setupMockDB creates a GORM *gorm.DB backed by sqlmock for driver-error tests.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gormDB, mock
}

func TestUserRepository_GetByID_DriverErrorIsStorageError(t *testing.T) {
	t.Parallel()

	gormDB, mock := setupMockDB(t)
	repo := NewUserRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
		WillReturnError(assert.AnError)

	_, err := repo.GetByID(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, models.CodeStorageError, models.CodeOf(err))

	appErr, ok := models.AsAppError(err)
	require.True(t, ok)
	assert.NotContains(t, appErr.Message, assert.AnError.Error(),
		"driver detail must not leak into the caller-visible message")
}
