package models

import "time"

// Follow is a single directed edge in the social graph: the follower
// follows the followee. The follower/following lists exposed on users are
// both derived from this relation by query, so there is no second copy of
// the edge to keep in sync.
//
// The composite unique index makes edge creation idempotent at the
// database level.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follows_edge;index" json:"follower_id"`
	FolloweeID uint      `gorm:"not null;uniqueIndex:idx_follows_edge" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}
