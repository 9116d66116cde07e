package service

import (
	"context"
	"errors"

	"github.com/finn/social-feed-api/internal/domain"
	"github.com/finn/social-feed-api/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is a user page: the account plus its follower state as seen by
// the viewer.
type Profile struct {
	domain.User
	FollowerInfo FollowerInfo `json:"followerInfo"`
}

type UserService struct {
	repos *repository.Repositories
}

func NewUserService(repos *repository.Repositories) *UserService {
	return &UserService{repos: repos}
}

func (s *UserService) GetByUsername(ctx context.Context, viewerID uuid.UUID, username string) (*Profile, error) {
	user, err := s.repos.User.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return s.profile(ctx, viewerID, user)
}

type UpdateProfileInput struct {
	DisplayName string
	Bio         string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.repos.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	user.DisplayName = input.DisplayName
	user.Bio = input.Bio
	if err := s.repos.User.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) profile(ctx context.Context, viewerID uuid.UUID, user *domain.User) (*Profile, error) {
	followers, err := s.repos.Follow.CountFollowers(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	followed, err := s.repos.Follow.Exists(ctx, viewerID, user.ID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		User: *user,
		FollowerInfo: FollowerInfo{
			Followers:        followers,
			IsFollowedByUser: followed,
		},
	}, nil
}
