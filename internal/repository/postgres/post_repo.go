package postgres

import (
	"context"

	"github.com/finn/social-feed-api/internal/domain"
	"github.com/finn/social-feed-api/internal/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *postRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	var post domain.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Attachments").
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Post{}, "id = ?", id).Error
}

func (r *postRepository) Anchor(ctx context.Context, id uuid.UUID) (*pagination.Anchor, error) {
	return anchorFor(ctx, r.db, "posts", id)
}

func (r *postRepository) ListAll(ctx context.Context, anchor *pagination.Anchor, limit int) ([]*domain.Post, error) {
	var posts []*domain.Post
	q := r.feedQuery(ctx, anchor, limit)
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListFollowing(ctx context.Context, viewerID uuid.UUID, anchor *pagination.Anchor, limit int) ([]*domain.Post, error) {
	var posts []*domain.Post
	q := r.feedQuery(ctx, anchor, limit).
		Where("posts.user_id IN (?)",
			r.db.Model(&domain.Follow{}).Select("following_id").Where("follower_id = ?", viewerID))
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Search(ctx context.Context, tsquery string, anchor *pagination.Anchor, limit int) ([]*domain.Post, error) {
	var posts []*domain.Post
	q := r.feedQuery(ctx, anchor, limit).
		Joins("JOIN users ON users.id = posts.user_id").
		Where(`to_tsvector('simple', posts.content) @@ to_tsquery('simple', @q)
			OR to_tsvector('simple', users.display_name) @@ to_tsquery('simple', @q)
			OR to_tsvector('simple', users.username) @@ to_tsquery('simple', @q)`,
			map[string]interface{}{"q": tsquery})
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) feedQuery(ctx context.Context, anchor *pagination.Anchor, limit int) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&domain.Post{}).
		Preload("User").
		Preload("Attachments").
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit)
	return pagination.AtOrBefore(q, "posts", anchor)
}
