package postgres

import (
	"context"
	"time"

	"github.com/finn/social-feed-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type outboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *outboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Enqueue(ctx context.Context, job *domain.OutboxJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *outboxRepository) Due(ctx context.Context, now time.Time, limit int) ([]*domain.OutboxJob, error) {
	var jobs []*domain.OutboxJob
	err := r.db.WithContext(ctx).
		Where("done_at IS NULL AND next_attempt_at <= ?", now).
		Order("next_attempt_at ASC").
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *outboxRepository) MarkDone(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.OutboxJob{}).
		Where("id = ?", id).
		Update("done_at", at).Error
}

func (r *outboxRepository) Reschedule(ctx context.Context, id uuid.UUID, attempts int, next time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.OutboxJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":        attempts,
			"next_attempt_at": next,
		}).Error
}
