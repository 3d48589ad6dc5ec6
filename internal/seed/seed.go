// Package seed provides helpers to create demo and test data for the
// application database. Intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"chirp/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rnd *rand.Rand
}

// NewFactory creates a Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser persists a user with fake profile data. All seeded accounts
// share the password "password123" so they are usable for manual testing.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Name:     gofakeit.Name(),
		Password: string(hashed),
		Bio:      gofakeit.Sentence(10),
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateTweet persists a tweet for the given author with a created_at spread
// over the past days so feeds look lived-in.
func (f *Factory) CreateTweet(author *models.User, overrides ...func(*models.Tweet)) (*models.Tweet, error) {
	tweet := &models.Tweet{
		Content:  gofakeit.Sentence(12),
		AuthorID: author.ID,
	}
	daysBack := f.rnd.Intn(30)
	minsBack := f.rnd.Intn(24 * 60)
	tweet.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(tweet)
	}
	if err := f.db.Create(tweet).Error; err != nil {
		return nil, err
	}
	return tweet, nil
}

// CreateFollow persists one directed follow edge.
func (f *Factory) CreateFollow(follower, followee *models.User) error {
	follow := &models.Follow{
		FollowerID: follower.ID,
		FolloweeID: followee.ID,
	}
	return f.db.Create(follow).Error
}

// Seeder populates the database with a connected social mesh.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll removes all seeded data. Follows go first to keep foreign keys
// satisfied on databases that enforce them.
func (s *Seeder) ClearAll() error {
	for _, model := range []interface{}{
		&models.Follow{},
		&models.Tweet{},
		&models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedSocialMesh creates numUsers accounts, follows between them, and a few
// tweets per account. Every user follows roughly a third of the others.
func (s *Seeder) SeedSocialMesh(numUsers, tweetsPerUser int) ([]*models.User, error) {
	if numUsers < 1 {
		return nil, fmt.Errorf("numUsers must be positive, got %d", numUsers)
	}

	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("seed user %d: %w", i, err)
		}
		users = append(users, user)
	}

	for _, follower := range users {
		for _, followee := range users {
			if follower.ID == followee.ID {
				continue
			}
			if s.factory.rnd.Intn(3) != 0 {
				continue
			}
			if err := s.factory.CreateFollow(follower, followee); err != nil {
				return nil, fmt.Errorf("seed follow %d->%d: %w", follower.ID, followee.ID, err)
			}
		}
	}

	for _, user := range users {
		for i := 0; i < tweetsPerUser; i++ {
			if _, err := s.factory.CreateTweet(user); err != nil {
				return nil, fmt.Errorf("seed tweet for user %d: %w", user.ID, err)
			}
		}
	}

	return users, nil
}
