package postgres

import (
	"context"

	"github.com/finn/social-feed-api/internal/domain"
	"github.com/finn/social-feed-api/internal/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *commentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.db.WithContext(ctx).Preload("User").First(&comment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Comment{}, "id = ?", id).Error
}

func (r *commentRepository) Anchor(ctx context.Context, id uuid.UUID) (*pagination.Anchor, error) {
	return anchorFor(ctx, r.db, "comments", id)
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uuid.UUID, anchor *pagination.Anchor, limit int) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	q := r.db.WithContext(ctx).
		Model(&domain.Comment{}).
		Preload("User").
		Where("comments.post_id = ?", postID).
		Order("comments.created_at DESC, comments.id DESC").
		Limit(limit)
	q = pagination.AtOrBefore(q, "comments", anchor)
	if err := q.Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) CountByPostIDs(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	return countByPost(ctx, r.db, &domain.Comment{}, postIDs)
}
