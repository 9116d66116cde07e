package service

import (
	"context"
	"errors"

	"github.com/finn/social-feed-api/internal/domain"
	"github.com/finn/social-feed-api/internal/pagination"
	"github.com/finn/social-feed-api/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const commentPageSize = 5

// CommentsPage is ordered oldest-first for display; PreviousCursor pages
// further back in time.
type CommentsPage struct {
	Comments       []*domain.Comment `json:"comments"`
	PreviousCursor *uuid.UUID        `json:"previousCursor"`
}

type CommentService struct {
	repos *repository.Repositories
}

func NewCommentService(repos *repository.Repositories) *CommentService {
	return &CommentService{repos: repos}
}

// Create stores the comment and, when the commenter is not the post owner,
// the owner's notification in the same transaction.
func (s *CommentService) Create(ctx context.Context, userID, postID uuid.UUID, content string) (*domain.Comment, error) {
	post, err := s.repos.Post.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPostNotFound
		}
		return nil, err
	}

	comment := &domain.Comment{
		ID:      uuid.New(),
		Content: content,
		PostID:  postID,
		UserID:  userID,
	}
	err = s.repos.Tx.InTx(ctx, func(r *repository.Repositories) error {
		if err := r.Comment.Create(ctx, comment); err != nil {
			return err
		}
		if post.UserID == userID {
			return nil
		}
		return r.Notification.Create(ctx, &domain.Notification{
			ID:          uuid.New(),
			Type:        domain.NotificationTypeComment,
			IssuerID:    userID,
			RecipientID: post.UserID,
			PostID:      &postID,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.repos.Comment.GetByID(ctx, comment.ID)
}

func (s *CommentService) Delete(ctx context.Context, viewerID, commentID uuid.UUID) error {
	comment, err := s.repos.Comment.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrCommentNotFound
		}
		return err
	}
	if comment.UserID != viewerID {
		return domain.ErrForbidden
	}
	return s.repos.Comment.Delete(ctx, commentID)
}

// List fetches from the newest end and reverses, so clients prepend older
// pages above the ones already shown.
func (s *CommentService) List(ctx context.Context, postID uuid.UUID, cursor string) (*CommentsPage, error) {
	if _, err := s.repos.Post.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPostNotFound
		}
		return nil, err
	}

	anchor, err := resolveAnchor(ctx, cursor, s.repos.Comment.Anchor)
	if err != nil {
		return nil, err
	}
	rows, err := s.repos.Comment.ListByPost(ctx, postID, anchor, commentPageSize+1)
	if err != nil {
		return nil, err
	}

	page, prev := pagination.TrimReverse(rows, commentPageSize, func(c *domain.Comment) uuid.UUID { return c.ID })
	return &CommentsPage{Comments: page, PreviousCursor: prev}, nil
}
