package service

import (
	"context"

	"github.com/finn/social-feed-api/internal/domain"
	"github.com/finn/social-feed-api/internal/pagination"
	"github.com/finn/social-feed-api/internal/repository"
	"github.com/google/uuid"
)

const notificationPageSize = 10

type NotificationsPage struct {
	Notifications []*domain.Notification `json:"notifications"`
	NextCursor    *uuid.UUID             `json:"nextCursor"`
}

type NotificationService struct {
	repos *repository.Repositories
}

func NewNotificationService(repos *repository.Repositories) *NotificationService {
	return &NotificationService{repos: repos}
}

func (s *NotificationService) List(ctx context.Context, recipientID uuid.UUID, cursor string) (*NotificationsPage, error) {
	anchor, err := resolveAnchor(ctx, cursor, s.repos.Notification.Anchor)
	if err != nil {
		return nil, err
	}
	rows, err := s.repos.Notification.ListByRecipient(ctx, recipientID, anchor, notificationPageSize+1)
	if err != nil {
		return nil, err
	}
	page, next := pagination.TrimDesc(rows, notificationPageSize, func(n *domain.Notification) uuid.UUID { return n.ID })
	return &NotificationsPage{Notifications: page, NextCursor: next}, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.repos.Notification.CountUnread(ctx, recipientID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	return s.repos.Notification.MarkAllRead(ctx, recipientID)
}
