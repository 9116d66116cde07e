package postgres

import (
	"context"

	"github.com/finn/social-feed-api/internal/domain"
	"github.com/finn/social-feed-api/internal/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *notificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) Anchor(ctx context.Context, id uuid.UUID) (*pagination.Anchor, error) {
	return anchorFor(ctx, r.db, "notifications", id)
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, anchor *pagination.Anchor, limit int) ([]*domain.Notification, error) {
	var notifications []*domain.Notification
	q := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Preload("Issuer").
		Preload("Post").
		Where("notifications.recipient_id = ?", recipientID).
		Order("notifications.created_at DESC, notifications.id DESC").
		Limit(limit)
	q = pagination.AtOrBefore(q, "notifications", anchor)
	if err := q.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("recipient_id = ? AND read = false", recipientID).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("recipient_id = ? AND read = false", recipientID).
		Update("read", true).Error
}

func (r *notificationRepository) DeleteLike(ctx context.Context, issuerID, postID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&domain.Notification{},
			"type = ? AND issuer_id = ? AND post_id = ?",
			domain.NotificationTypeLike, issuerID, postID).Error
}

func (r *notificationRepository) DeleteFollow(ctx context.Context, issuerID, recipientID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&domain.Notification{},
			"type = ? AND issuer_id = ? AND recipient_id = ?",
			domain.NotificationTypeFollow, issuerID, recipientID).Error
}
