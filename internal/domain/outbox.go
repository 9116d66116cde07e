package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const OutboxKindChatUpsertUser = "chat.upsert_user"

// OutboxJob is the pending-sync half of the two-phase write to external
// services: the job row commits in the same transaction as the local data it
// mirrors, and a worker drives the remote call until it is acknowledged.
type OutboxJob struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Kind          string         `json:"kind" gorm:"size:50;not null;index"`
	Payload       datatypes.JSON `json:"payload" gorm:"not null"`
	Attempts      int            `json:"attempts" gorm:"default:0"`
	NextAttemptAt time.Time      `json:"nextAttemptAt" gorm:"not null;index"`
	DoneAt        *time.Time     `json:"doneAt"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// ChatUpsertUserPayload is the payload for OutboxKindChatUpsertUser jobs.
type ChatUpsertUserPayload struct {
	UserID   uuid.UUID `json:"userId"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
}
