package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeFollow  NotificationType = "FOLLOW"
	NotificationTypeComment NotificationType = "COMMENT"
	NotificationTypeLike    NotificationType = "LIKE"
)

// Notification rows are only ever written in the same transaction as the
// like/comment/follow that triggered them, and never for self-actions.
type Notification struct {
	ID          uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Type        NotificationType `json:"type" gorm:"type:varchar(10);not null"`
	IssuerID    uuid.UUID        `json:"issuerId" gorm:"type:uuid;not null"`
	Issuer      *User            `json:"issuer,omitempty" gorm:"foreignKey:IssuerID;constraint:OnDelete:CASCADE"`
	RecipientID uuid.UUID        `json:"recipientId" gorm:"type:uuid;not null;index"`
	Recipient   *User            `json:"-" gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE"`
	PostID      *uuid.UUID       `json:"postId" gorm:"type:uuid;index"`
	Post        *Post            `json:"post,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Read        bool             `json:"read" gorm:"default:false;index"`
	CreatedAt   time.Time        `json:"createdAt"`
}
