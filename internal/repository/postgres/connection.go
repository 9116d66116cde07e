package postgres

import (
	"github.com/finn/social-feed-api/internal/domain"
	"github.com/finn/social-feed-api/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Session{},
		&domain.Post{},
		&domain.Media{},
		&domain.Like{},
		&domain.Bookmark{},
		&domain.Follow{},
		&domain.Comment{},
		&domain.Notification{},
		&domain.OutboxJob{},
	)
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	repos := newRepositories(db)
	repos.Tx = &transactor{db: db}
	return repos
}

func newRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:         NewUserRepository(db),
		Session:      NewSessionRepository(db),
		Post:         NewPostRepository(db),
		Media:        NewMediaRepository(db),
		Like:         NewLikeRepository(db),
		Bookmark:     NewBookmarkRepository(db),
		Follow:       NewFollowRepository(db),
		Comment:      NewCommentRepository(db),
		Notification: NewNotificationRepository(db),
		Outbox:       NewOutboxRepository(db),
	}
}
