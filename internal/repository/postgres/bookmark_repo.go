package postgres

import (
	"context"

	"github.com/finn/social-feed-api/internal/domain"
	"github.com/finn/social-feed-api/internal/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type bookmarkRepository struct {
	db *gorm.DB
}

func NewBookmarkRepository(db *gorm.DB) *bookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) Upsert(ctx context.Context, bookmark *domain.Bookmark) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(bookmark)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *bookmarkRepository) Delete(ctx context.Context, userID, postID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&domain.Bookmark{}, "user_id = ? AND post_id = ?", userID, postID).Error
}

func (r *bookmarkRepository) Exists(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Bookmark{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

func (r *bookmarkRepository) BookmarkedPostIDs(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return markedPostIDs(ctx, r.db, &domain.Bookmark{}, userID, postIDs)
}

func (r *bookmarkRepository) Anchor(ctx context.Context, id uuid.UUID) (*pagination.Anchor, error) {
	return anchorFor(ctx, r.db, "bookmarks", id)
}

func (r *bookmarkRepository) ListByUser(ctx context.Context, userID uuid.UUID, anchor *pagination.Anchor, limit int) ([]*domain.Bookmark, error) {
	var bookmarks []*domain.Bookmark
	q := r.db.WithContext(ctx).
		Model(&domain.Bookmark{}).
		Preload("Post").
		Preload("Post.User").
		Preload("Post.Attachments").
		Where("bookmarks.user_id = ?", userID).
		Order("bookmarks.created_at DESC, bookmarks.id DESC").
		Limit(limit)
	q = pagination.AtOrBefore(q, "bookmarks", anchor)
	if err := q.Find(&bookmarks).Error; err != nil {
		return nil, err
	}
	return bookmarks, nil
}
