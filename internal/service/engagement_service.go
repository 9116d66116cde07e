package service

import (
	"context"
	"errors"

	"github.com/finn/social-feed-api/internal/domain"
	"github.com/finn/social-feed-api/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LikeInfo struct {
	Likes         int64 `json:"likes"`
	IsLikedByUser bool  `json:"isLikedByLoggedInUser"`
}

type BookmarkInfo struct {
	IsBookmarkedByUser bool `json:"isBookmarkedByLoggedInUser"`
}

type FollowerInfo struct {
	Followers        int64 `json:"followers"`
	IsFollowedByUser bool  `json:"isFollowedByLoggedInUser"`
}

// EngagementService covers the like, bookmark and follow toggles. All
// writes are idempotent: repeating a toggle in the same direction changes
// nothing, and notifications only accompany state changes.
type EngagementService struct {
	repos *repository.Repositories
}

func NewEngagementService(repos *repository.Repositories) *EngagementService {
	return &EngagementService{repos: repos}
}

func (s *EngagementService) LikeInfo(ctx context.Context, viewerID, postID uuid.UUID) (*LikeInfo, error) {
	if err := s.postExists(ctx, postID); err != nil {
		return nil, err
	}
	count, err := s.repos.Like.Count(ctx, postID)
	if err != nil {
		return nil, err
	}
	liked, err := s.repos.Like.Exists(ctx, viewerID, postID)
	if err != nil {
		return nil, err
	}
	return &LikeInfo{Likes: count, IsLikedByUser: liked}, nil
}

func (s *EngagementService) Like(ctx context.Context, viewerID, postID uuid.UUID) error {
	post, err := s.repos.Post.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrPostNotFound
		}
		return err
	}

	return s.repos.Tx.InTx(ctx, func(r *repository.Repositories) error {
		inserted, err := r.Like.Upsert(ctx, &domain.Like{UserID: viewerID, PostID: postID})
		if err != nil {
			return err
		}
		if !inserted || post.UserID == viewerID {
			return nil
		}
		return r.Notification.Create(ctx, &domain.Notification{
			ID:          uuid.New(),
			Type:        domain.NotificationTypeLike,
			IssuerID:    viewerID,
			RecipientID: post.UserID,
			PostID:      &postID,
		})
	})
}

func (s *EngagementService) Unlike(ctx context.Context, viewerID, postID uuid.UUID) error {
	return s.repos.Tx.InTx(ctx, func(r *repository.Repositories) error {
		if err := r.Like.Delete(ctx, viewerID, postID); err != nil {
			return err
		}
		return r.Notification.DeleteLike(ctx, viewerID, postID)
	})
}

func (s *EngagementService) BookmarkInfo(ctx context.Context, viewerID, postID uuid.UUID) (*BookmarkInfo, error) {
	if err := s.postExists(ctx, postID); err != nil {
		return nil, err
	}
	bookmarked, err := s.repos.Bookmark.Exists(ctx, viewerID, postID)
	if err != nil {
		return nil, err
	}
	return &BookmarkInfo{IsBookmarkedByUser: bookmarked}, nil
}

func (s *EngagementService) Bookmark(ctx context.Context, viewerID, postID uuid.UUID) error {
	if err := s.postExists(ctx, postID); err != nil {
		return err
	}
	_, err := s.repos.Bookmark.Upsert(ctx, &domain.Bookmark{
		ID:     uuid.New(),
		UserID: viewerID,
		PostID: postID,
	})
	return err
}

func (s *EngagementService) Unbookmark(ctx context.Context, viewerID, postID uuid.UUID) error {
	return s.repos.Bookmark.Delete(ctx, viewerID, postID)
}

func (s *EngagementService) FollowerInfo(ctx context.Context, viewerID, userID uuid.UUID) (*FollowerInfo, error) {
	if err := s.userExists(ctx, userID); err != nil {
		return nil, err
	}
	count, err := s.repos.Follow.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.repos.Follow.Exists(ctx, viewerID, userID)
	if err != nil {
		return nil, err
	}
	return &FollowerInfo{Followers: count, IsFollowedByUser: following}, nil
}

func (s *EngagementService) Follow(ctx context.Context, viewerID, userID uuid.UUID) error {
	if viewerID == userID {
		return domain.ErrSelfFollow
	}
	if err := s.userExists(ctx, userID); err != nil {
		return err
	}

	return s.repos.Tx.InTx(ctx, func(r *repository.Repositories) error {
		inserted, err := r.Follow.Upsert(ctx, &domain.Follow{FollowerID: viewerID, FollowingID: userID})
		if err != nil {
			return err
		}
		if !inserted {
			return nil
		}
		return r.Notification.Create(ctx, &domain.Notification{
			ID:          uuid.New(),
			Type:        domain.NotificationTypeFollow,
			IssuerID:    viewerID,
			RecipientID: userID,
		})
	})
}

func (s *EngagementService) Unfollow(ctx context.Context, viewerID, userID uuid.UUID) error {
	return s.repos.Tx.InTx(ctx, func(r *repository.Repositories) error {
		if err := r.Follow.Delete(ctx, viewerID, userID); err != nil {
			return err
		}
		return r.Notification.DeleteFollow(ctx, viewerID, userID)
	})
}

func (s *EngagementService) postExists(ctx context.Context, postID uuid.UUID) error {
	if _, err := s.repos.Post.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrPostNotFound
		}
		return err
	}
	return nil
}

func (s *EngagementService) userExists(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.repos.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return nil
}
