package api

import (
	"net/http"

	"github.com/finn/social-feed-api/internal/api/handlers"
	"github.com/finn/social-feed-api/internal/api/middleware"
	"github.com/finn/social-feed-api/internal/config"
	"github.com/finn/social-feed-api/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, cfg)
	oauthHandler := handlers.NewOAuthHandler(services.Auth, cfg)
	postHandler := handlers.NewPostHandler(services.Post)
	commentHandler := handlers.NewCommentHandler(services.Comment)
	engagementHandler := handlers.NewEngagementHandler(services.Engagement)
	userHandler := handlers.NewUserHandler(services.User)
	notificationHandler := handlers.NewNotificationHandler(services.Notification)
	messageHandler := handlers.NewMessageHandler(services.Chat)
	uploadHandler := handlers.NewUploadHandler(services.Media, cfg)

	r.Route("/api", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Get("/login/google", oauthHandler.Login)
			r.Get("/callback/google", oauthHandler.Callback)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth, cfg.Production()))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Maintenance endpoint, guarded by the cron secret
		r.Get("/clear-uploads", uploadHandler.ClearUploads)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth, cfg.Production()))

			// Feeds and search
			r.Get("/posts/for-you", postHandler.ForYou)
			r.Get("/posts/following", postHandler.Following)
			r.Get("/posts/bookmarked", postHandler.Bookmarked)
			r.Get("/search", postHandler.Search)

			// Posts
			r.Route("/posts", func(r chi.Router) {
				r.Post("/", postHandler.Create)
				r.Route("/{postId}", func(r chi.Router) {
					r.Get("/", postHandler.Get)
					r.Delete("/", postHandler.Delete)

					r.Get("/comments", commentHandler.List)
					r.Post("/comments", commentHandler.Create)

					r.Get("/likes", engagementHandler.GetLikeInfo)
					r.Post("/likes", engagementHandler.Like)
					r.Delete("/likes", engagementHandler.Unlike)

					r.Get("/bookmarks", engagementHandler.GetBookmarkInfo)
					r.Post("/bookmarks", engagementHandler.Bookmark)
					r.Delete("/bookmarks", engagementHandler.Unbookmark)
				})
			})

			// Comments
			r.Delete("/comments/{commentId}", commentHandler.Delete)

			// Users
			r.Route("/users", func(r chi.Router) {
				r.Get("/username/{username}", userHandler.GetByUsername)
				r.Patch("/me", userHandler.UpdateMe)

				r.Get("/{userId}/followers", engagementHandler.GetFollowerInfo)
				r.Post("/{userId}/followers", engagementHandler.Follow)
				r.Delete("/{userId}/followers", engagementHandler.Unfollow)
			})

			// Notifications
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Get("/unread-count", notificationHandler.UnreadCount)
				r.Patch("/mark-as-read", notificationHandler.MarkAllRead)
			})

			// Chat and uploads
			r.Get("/get-token", messageHandler.Token)
			r.Get("/messages/unread-count", messageHandler.UnreadCount)
			r.Post("/uploads", uploadHandler.Register)
		})
	})

	return r
}
