package domain

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	UserID      uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	User        *User     `json:"user,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Attachments []Media   `json:"attachments" gorm:"foreignKey:PostID"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index:idx_posts_created_at_id,priority:1,sort:desc"`
}

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

func (t MediaType) Valid() bool {
	return t == MediaTypeImage || t == MediaTypeVideo
}

// Media is an uploaded attachment. PostID stays nil between upload and the
// post submit; rows that never get attached are reclaimed by the orphan
// sweep together with the remote file.
// TableName keeps gorm from inventing a plural for an uncountable noun.
func (Media) TableName() string { return "media" }

type Media struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PostID    *uuid.UUID `json:"postId" gorm:"type:uuid;index"`
	Post      *Post      `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	URL       string     `json:"url" gorm:"not null"`
	Type      MediaType  `json:"type" gorm:"type:varchar(10);not null"`
	CreatedAt time.Time  `json:"createdAt"`
}
