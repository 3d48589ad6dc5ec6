package graph

import (
	"context"
	"encoding/base64"
	"fmt"
	"testing"

	"chirp/internal/auth"
	"chirp/internal/media"
	"chirp/internal/middleware"
	"chirp/internal/models"
	"chirp/internal/repository"
	"chirp/internal/service"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "graph-test-secret"

// memoryMediaStore records uploads and deletes in memory.
type memoryMediaStore struct {
	objects map[string][]byte
}

func newMemoryMediaStore() *memoryMediaStore {
	return &memoryMediaStore{objects: map[string][]byte{}}
}

func (s *memoryMediaStore) Upload(_ context.Context, name string, content []byte) (media.Object, error) {
	key := "media/" + name
	s.objects[key] = content
	return media.Object{URL: "https://cdn.test/" + key, Key: key}, nil
}

func (s *memoryMediaStore) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

type testEnv struct {
	schema graphql.Schema
	db     *gorm.DB
	store  *memoryMediaStore
	auth   *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Follow{}, &models.Tweet{}))

	users := repository.NewUserRepository(db)
	follows := repository.NewFollowRepository(db)
	tweets := repository.NewTweetRepository(db)
	tokens := auth.NewTokenService(testSecret)
	store := newMemoryMediaStore()

	authSvc := service.NewAuthService(users, tokens, store)
	userSvc := service.NewUserService(users, follows, store)
	tweetSvc := service.NewTweetService(tweets, follows, users, store)

	schema, err := NewSchema(NewResolver(authSvc, userSvc, tweetSvc))
	require.NoError(t, err)

	return &testEnv{schema: schema, db: db, store: store, auth: authSvc}
}

// register creates an account through the service layer and returns the user.
func (e *testEnv) register(t *testing.T, username string) *models.User {
	t.Helper()
	user, _, err := e.auth.Register(context.Background(), service.RegisterInput{
		Username: username,
		Password: "pw1",
		Name:     username,
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) exec(ctx context.Context, query string, variables map[string]interface{}) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         e.schema,
		RequestString:  query,
		VariableValues: variables,
		Context:        ctx,
	})
}

func viewerCtx(userID uint) context.Context {
	return middleware.WithViewer(context.Background(), userID)
}

// errorCode extracts the code extension from the result's single error.
func errorCode(t *testing.T, result *graphql.Result) string {
	t.Helper()
	require.NotEmpty(t, result.Errors, "expected an error, got data: %v", result.Data)
	code, _ := result.Errors[0].Extensions["code"].(string)
	return code
}

func dataMap(t *testing.T, result *graphql.Result, field string) map[string]interface{} {
	t.Helper()
	require.Empty(t, result.Errors, "unexpected errors: %v", result.Errors)
	data, ok := result.Data.(map[string]interface{})
	require.True(t, ok)
	inner, ok := data[field].(map[string]interface{})
	require.True(t, ok, "missing field %q in %v", field, data)
	return inner
}

func dataList(t *testing.T, result *graphql.Result, field string) []interface{} {
	t.Helper()
	require.Empty(t, result.Errors, "unexpected errors: %v", result.Errors)
	data, ok := result.Data.(map[string]interface{})
	require.True(t, ok)
	list, ok := data[field].([]interface{})
	require.True(t, ok, "missing list %q in %v", field, data)
	return list
}

func TestSchema_RegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	result := env.exec(context.Background(), `
		mutation {
			addUser(username: "alice", password: "pw1", name: "Alice", bio: "hi") {
				token
				user { id username name bio }
			}
		}`, nil)
	payload := dataMap(t, result, "addUser")
	token, _ := payload["token"].(string)
	require.NotEmpty(t, token)

	user := payload["user"].(map[string]interface{})
	assert.Equal(t, "alice", user["username"])

	userID, err := auth.NewTokenService(testSecret).Verify(token)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprint(userID), user["id"])

	result = env.exec(context.Background(), `
		mutation {
			loginUser(username: "alice", password: "pw1") { token user { username } }
		}`, nil)
	payload = dataMap(t, result, "loginUser")
	assert.NotEmpty(t, payload["token"])

	result = env.exec(context.Background(), `
		mutation { loginUser(username: "alice", password: "wrongpw") { token } }`, nil)
	assert.Equal(t, models.CodeInvalidCredentials, errorCode(t, result))
}

func TestSchema_DuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	result := env.exec(context.Background(), `
		mutation { addUser(username: "alice", password: "pw1", name: "Other") { token } }`, nil)
	assert.Equal(t, models.CodeConflict, errorCode(t, result))

	var count int64
	env.db.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestSchema_QueriesRequireAuth(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")

	queries := []string{
		fmt.Sprintf(`{ user(user_id: "%d") { id } }`, alice.ID),
		`{ users { id } }`,
		`{ tweet(tweet_id: "1") { id } }`,
		fmt.Sprintf(`{ tweets(author_id: "%d") { id } }`, alice.ID),
	}
	for _, q := range queries {
		result := env.exec(context.Background(), q, nil)
		assert.Equal(t, models.CodeUnauthorized, errorCode(t, result), "query: %s", q)
	}
}

func TestSchema_UserLookup(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	ctx := viewerCtx(alice.ID)

	result := env.exec(ctx, fmt.Sprintf(`{ user(user_id: "%d") { username } }`, alice.ID), nil)
	assert.Equal(t, "alice", dataMap(t, result, "user")["username"])

	result = env.exec(ctx, `{ user(username: "alice") { username } }`, nil)
	assert.Equal(t, "alice", dataMap(t, result, "user")["username"])

	result = env.exec(ctx, `{ user(username: "nobody") { username } }`, nil)
	assert.Equal(t, models.CodeNotFound, errorCode(t, result))

	result = env.exec(ctx, `{ user { username } }`, nil)
	assert.Equal(t, models.CodeValidationError, errorCode(t, result))
}

func TestSchema_FollowFlow(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	result := env.exec(viewerCtx(alice.ID), fmt.Sprintf(`
		mutation {
			updateUser(user_id: "%d", followingToAdd: ["%d"]) {
				following { username }
			}
		}`, alice.ID, bob.ID), nil)
	following := dataMap(t, result, "updateUser")["following"].([]interface{})
	require.Len(t, following, 1)
	assert.Equal(t, "bob", following[0].(map[string]interface{})["username"])

	// Both views of the edge must agree.
	result = env.exec(viewerCtx(bob.ID), fmt.Sprintf(`{ user(user_id: "%d") { followers { username } } }`, bob.ID), nil)
	followers := dataMap(t, result, "user")["followers"].([]interface{})
	require.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].(map[string]interface{})["username"])

	// Unfollow removes both sides.
	result = env.exec(viewerCtx(alice.ID), fmt.Sprintf(`
		mutation {
			updateUser(user_id: "%d", followingToRemove: ["%d"]) { following { id } }
		}`, alice.ID, bob.ID), nil)
	assert.Empty(t, dataMap(t, result, "updateUser")["following"])

	result = env.exec(viewerCtx(bob.ID), fmt.Sprintf(`{ user(user_id: "%d") { followers { id } } }`, bob.ID), nil)
	assert.Empty(t, dataMap(t, result, "user")["followers"])
}

func TestSchema_UpdateUserRequiresOwnIdentity(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	result := env.exec(viewerCtx(bob.ID), fmt.Sprintf(`
		mutation { updateUser(user_id: "%d", name: "Hacked") { name } }`, alice.ID), nil)
	assert.Equal(t, models.CodeUnauthorized, errorCode(t, result))
}

func TestSchema_UsersNotFollowing(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	env.register(t, "carol")

	followResult := env.exec(viewerCtx(alice.ID), fmt.Sprintf(`
		mutation { updateUser(user_id: "%d", followingToAdd: ["%d"]) { id } }`, alice.ID, bob.ID), nil)
	require.Empty(t, followResult.Errors)

	result := env.exec(viewerCtx(alice.ID), fmt.Sprintf(`{ usersNotFollowing(user_id: "%d") { username } }`, alice.ID), nil)
	list := dataList(t, result, "usersNotFollowing")
	require.Len(t, list, 1)
	assert.Equal(t, "carol", list[0].(map[string]interface{})["username"])

	// Identity mismatch is rejected before any data access.
	result = env.exec(viewerCtx(bob.ID), fmt.Sprintf(`{ usersNotFollowing(user_id: "%d") { username } }`, alice.ID), nil)
	assert.Equal(t, models.CodeUnauthorized, errorCode(t, result))
}

func TestSchema_TweetLifecycle(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	ctx := viewerCtx(alice.ID)

	result := env.exec(ctx, fmt.Sprintf(`
		mutation {
			addTweet(content: "hi", authorID: "%d") {
				id content createdAt
				author { username }
			}
		}`, alice.ID), nil)
	tweet := dataMap(t, result, "addTweet")
	assert.Equal(t, "hi", tweet["content"])
	assert.NotEmpty(t, tweet["createdAt"])
	assert.Equal(t, "alice", tweet["author"].(map[string]interface{})["username"])
	tweetID := tweet["id"].(string)

	result = env.exec(ctx, fmt.Sprintf(`
		mutation { updateTweet(tweet_id: "%s", content: "edited") { content } }`, tweetID), nil)
	assert.Equal(t, "edited", dataMap(t, result, "updateTweet")["content"])

	result = env.exec(ctx, fmt.Sprintf(`
		mutation { deleteTweet(tweet_id: "%s") { id } }`, tweetID), nil)
	assert.Equal(t, tweetID, dataMap(t, result, "deleteTweet")["id"])

	result = env.exec(ctx, fmt.Sprintf(`{ tweet(tweet_id: "%s") { id } }`, tweetID), nil)
	assert.Equal(t, models.CodeNotFound, errorCode(t, result))
}

func TestSchema_TweetOwnership(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	result := env.exec(viewerCtx(alice.ID), fmt.Sprintf(`
		mutation { addTweet(content: "mine", authorID: "%d") { id } }`, alice.ID), nil)
	tweetID := dataMap(t, result, "addTweet")["id"].(string)

	// Claiming someone else's authorship is rejected.
	result = env.exec(viewerCtx(bob.ID), fmt.Sprintf(`
		mutation { addTweet(content: "forged", authorID: "%d") { id } }`, alice.ID), nil)
	assert.Equal(t, models.CodeUnauthorized, errorCode(t, result))

	result = env.exec(viewerCtx(bob.ID), fmt.Sprintf(`
		mutation { updateTweet(tweet_id: "%s", content: "defaced") { id } }`, tweetID), nil)
	assert.Equal(t, models.CodeUnauthorized, errorCode(t, result))

	result = env.exec(viewerCtx(bob.ID), fmt.Sprintf(`
		mutation { deleteTweet(tweet_id: "%s") { id } }`, tweetID), nil)
	assert.Equal(t, models.CodeUnauthorized, errorCode(t, result))

	// The tweet is unchanged after the failed mutations.
	result = env.exec(viewerCtx(alice.ID), fmt.Sprintf(`{ tweet(tweet_id: "%s") { content } }`, tweetID), nil)
	assert.Equal(t, "mine", dataMap(t, result, "tweet")["content"])
}

func TestSchema_TweetsByFollowing(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	carol := env.register(t, "carol")

	for _, tc := range []struct {
		viewer  *models.User
		content string
	}{
		{bob, "bob first"},
		{carol, "carol first"},
		{bob, "bob second"},
	} {
		result := env.exec(viewerCtx(tc.viewer.ID), fmt.Sprintf(`
			mutation { addTweet(content: %q, authorID: "%d") { id } }`, tc.content, tc.viewer.ID), nil)
		require.Empty(t, result.Errors)
	}

	env.exec(viewerCtx(alice.ID), fmt.Sprintf(`
		mutation { updateUser(user_id: "%d", followingToAdd: ["%d"]) { id } }`, alice.ID, bob.ID), nil)

	result := env.exec(viewerCtx(alice.ID), fmt.Sprintf(`
		{ tweetsByFollowing(user_id: "%d") { content } }`, alice.ID), nil)
	list := dataList(t, result, "tweetsByFollowing")
	require.Len(t, list, 2, "only followed authors' tweets")
	assert.Equal(t, "bob second", list[0].(map[string]interface{})["content"], "newest first")
	assert.Equal(t, "bob first", list[1].(map[string]interface{})["content"])

	// Someone else's feed cannot be read.
	result = env.exec(viewerCtx(bob.ID), fmt.Sprintf(`
		{ tweetsByFollowing(user_id: "%d") { content } }`, alice.ID), nil)
	assert.Equal(t, models.CodeUnauthorized, errorCode(t, result))
}

func TestSchema_MediaAttachment(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	ctx := viewerCtx(alice.ID)

	encoded := base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))
	result := env.exec(ctx, fmt.Sprintf(`
		mutation($file: FileInput) {
			addTweet(content: "with pic", authorID: "%d", file: $file) {
				id
				media { url publicID }
			}
		}`, alice.ID), map[string]interface{}{
		"file": map[string]interface{}{"name": "cat.jpg", "content": encoded},
	})
	tweet := dataMap(t, result, "addTweet")
	mediaObj := tweet["media"].(map[string]interface{})
	assert.Equal(t, "https://cdn.test/media/cat.jpg", mediaObj["url"])
	assert.Equal(t, "media/cat.jpg", mediaObj["publicID"])
	require.Contains(t, env.store.objects, "media/cat.jpg")

	// Deleting the tweet removes the stored object too.
	result = env.exec(ctx, fmt.Sprintf(`
		mutation { deleteTweet(tweet_id: "%s") { id } }`, tweet["id"].(string)), nil)
	require.Empty(t, result.Errors)
	assert.NotContains(t, env.store.objects, "media/cat.jpg")
}
