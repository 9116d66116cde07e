package postgres

import (
	"context"
	"time"

	"github.com/finn/social-feed-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type mediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) *mediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, media *domain.Media) error {
	return r.db.WithContext(ctx).Create(media).Error
}

func (r *mediaRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Media, error) {
	var media []*domain.Media
	err := r.db.WithContext(ctx).Find(&media, "id IN ?", ids).Error
	if err != nil {
		return nil, err
	}
	return media, nil
}

func (r *mediaRepository) AttachToPost(ctx context.Context, ids []uuid.UUID, postID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.Media{}).
		Where("id IN ? AND post_id IS NULL", ids).
		Update("post_id", postID).Error
}

func (r *mediaRepository) ListOrphans(ctx context.Context, olderThan time.Time) ([]*domain.Media, error) {
	var media []*domain.Media
	err := r.db.WithContext(ctx).
		Where("post_id IS NULL AND created_at <= ?", olderThan).
		Find(&media).Error
	if err != nil {
		return nil, err
	}
	return media, nil
}

func (r *mediaRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&domain.Media{}, "id IN ?", ids).Error
}
