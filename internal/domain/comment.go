package domain

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	PostID    uuid.UUID `json:"postId" gorm:"type:uuid;not null;index"`
	Post      *Post     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null"`
	User      *User     `json:"user,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt"`
}
