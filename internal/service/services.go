package service

import (
	"github.com/finn/social-feed-api/internal/chat"
	"github.com/finn/social-feed-api/internal/config"
	"github.com/finn/social-feed-api/internal/repository"
	"github.com/finn/social-feed-api/internal/uploads"
)

type Services struct {
	Auth         *AuthService
	User         *UserService
	Post         *PostService
	Comment      *CommentService
	Engagement   *EngagementService
	Notification *NotificationService
	Media        *MediaService
	Chat         *ChatService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, chatClient *chat.Client, uploadClient *uploads.Client) *Services {
	return &Services{
		Auth:         NewAuthService(repos, cfg),
		User:         NewUserService(repos),
		Post:         NewPostService(repos),
		Comment:      NewCommentService(repos),
		Engagement:   NewEngagementService(repos),
		Notification: NewNotificationService(repos),
		Media:        NewMediaService(repos, uploadClient, cfg),
		Chat:         NewChatService(chatClient),
	}
}
