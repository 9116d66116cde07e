package repository

import (
	"context"
	"time"

	"github.com/finn/social-feed-api/internal/domain"
	"github.com/finn/social-feed-api/internal/pagination"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// GetByUsername and GetByEmail match case-insensitively.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	UpdateExpiry(ctx context.Context, id uuid.UUID, expiresAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Anchor resolves a cursor id to its keyset position.
	Anchor(ctx context.Context, id uuid.UUID) (*pagination.Anchor, error)
	// ListAll is the for-you feed: every post, newest first.
	ListAll(ctx context.Context, anchor *pagination.Anchor, limit int) ([]*domain.Post, error)
	// ListFollowing returns posts authored by users the viewer follows.
	ListFollowing(ctx context.Context, viewerID uuid.UUID, anchor *pagination.Anchor, limit int) ([]*domain.Post, error)
	// Search runs the two-term-AND full-text query over post content and
	// author display name / username.
	Search(ctx context.Context, tsquery string, anchor *pagination.Anchor, limit int) ([]*domain.Post, error)
}

type MediaRepository interface {
	Create(ctx context.Context, media *domain.Media) error
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Media, error)
	// AttachToPost claims unattached media rows for a post.
	AttachToPost(ctx context.Context, ids []uuid.UUID, postID uuid.UUID) error
	ListOrphans(ctx context.Context, olderThan time.Time) ([]*domain.Media, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error
}

type LikeRepository interface {
	// Upsert reports whether a new row was inserted; an existing pair is a no-op.
	Upsert(ctx context.Context, like *domain.Like) (bool, error)
	Delete(ctx context.Context, userID, postID uuid.UUID) error
	Count(ctx context.Context, postID uuid.UUID) (int64, error)
	Exists(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	CountByPostIDs(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	LikedPostIDs(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type BookmarkRepository interface {
	Upsert(ctx context.Context, bookmark *domain.Bookmark) (bool, error)
	Delete(ctx context.Context, userID, postID uuid.UUID) error
	Exists(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	BookmarkedPostIDs(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	// Anchor and ListByUser paginate over bookmark rows, not posts; the
	// bookmarked feed is ordered by when the viewer saved each post.
	Anchor(ctx context.Context, id uuid.UUID) (*pagination.Anchor, error)
	ListByUser(ctx context.Context, userID uuid.UUID, anchor *pagination.Anchor, limit int) ([]*domain.Bookmark, error)
}

type FollowRepository interface {
	Upsert(ctx context.Context, follow *domain.Follow) (bool, error)
	Delete(ctx context.Context, followerID, followingID uuid.UUID) error
	Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
	CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Anchor(ctx context.Context, id uuid.UUID) (*pagination.Anchor, error)
	// ListByPost returns comments newest-first; callers reverse for display.
	ListByPost(ctx context.Context, postID uuid.UUID, anchor *pagination.Anchor, limit int) ([]*domain.Comment, error)
	CountByPostIDs(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	Anchor(ctx context.Context, id uuid.UUID) (*pagination.Anchor, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, anchor *pagination.Anchor, limit int) ([]*domain.Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
	DeleteLike(ctx context.Context, issuerID, postID uuid.UUID) error
	DeleteFollow(ctx context.Context, issuerID, recipientID uuid.UUID) error
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, job *domain.OutboxJob) error
	Due(ctx context.Context, now time.Time, limit int) ([]*domain.OutboxJob, error)
	MarkDone(ctx context.Context, id uuid.UUID, at time.Time) error
	Reschedule(ctx context.Context, id uuid.UUID, attempts int, next time.Time) error
}

// Transactor runs fn with a transaction-scoped set of repositories; any error
// rolls the whole batch back. Used wherever a write and its notification (or
// outbox job) must commit together.
type Transactor interface {
	InTx(ctx context.Context, fn func(r *Repositories) error) error
}

type Repositories struct {
	User         UserRepository
	Session      SessionRepository
	Post         PostRepository
	Media        MediaRepository
	Like         LikeRepository
	Bookmark     BookmarkRepository
	Follow       FollowRepository
	Comment      CommentRepository
	Notification NotificationRepository
	Outbox       OutboxRepository
	Tx           Transactor
}
