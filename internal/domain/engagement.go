package domain

import (
	"time"

	"github.com/google/uuid"
)

// Like, Bookmark and Follow are join rows with composite uniqueness so that
// repeated creates stay idempotent at the database level.

type Like struct {
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_post"`
	PostID    uuid.UUID `json:"postId" gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_post;index"`
	Post      *Post     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt"`
}

type Bookmark struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_user_post"`
	PostID    uuid.UUID `json:"postId" gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_user_post;index"`
	Post      *Post     `json:"post,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

type Follow struct {
	FollowerID  uuid.UUID `json:"followerId" gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair"`
	Follower    *User     `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	FollowingID uuid.UUID `json:"followingId" gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair;index"`
	Following   *User     `json:"-" gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"createdAt"`
}
