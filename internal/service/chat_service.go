package service

import (
	"context"

	"github.com/finn/social-feed-api/internal/chat"
	"github.com/google/uuid"
)

// ChatService fronts the hosted chat backend: token minting for the client
// SDK and the unread-count proxy. Message transport never touches this
// server.
type ChatService struct {
	client *chat.Client
}

func NewChatService(client *chat.Client) *ChatService {
	return &ChatService{client: client}
}

func (s *ChatService) Token(userID uuid.UUID) (string, error) {
	return s.client.UserToken(userID.String())
}

func (s *ChatService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.client.UnreadCount(ctx, userID.String())
}
