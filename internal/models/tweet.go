package models

import (
	"time"

	"gorm.io/gorm"
)

// Tweet represents a single piece of content authored by a user.
// AuthorID is immutable after creation; there is no transfer of authorship.
type Tweet struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Content  string `gorm:"type:text;not null" json:"content"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author"`
	// MediaURL/MediaKey reference an object held by the external media store.
	MediaURL  string         `json:"media_url"`
	MediaKey  string         `json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// HasMedia reports whether the tweet carries an attached media object.
func (t *Tweet) HasMedia() bool {
	return t.MediaKey != ""
}
