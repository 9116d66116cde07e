package handlers

import (
	"context"
	"net/http"

	"github.com/finn/social-feed-api/internal/api/middleware"
	"github.com/finn/social-feed-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// EngagementHandler serves the like, bookmark and follower toggles. Each
// resource exposes GET (state), POST (set) and DELETE (clear); POST and
// DELETE echo the updated state so optimistic clients can settle on it.
type EngagementHandler struct {
	engagementService *service.EngagementService
}

func NewEngagementHandler(engagementService *service.EngagementService) *EngagementHandler {
	return &EngagementHandler{engagementService: engagementService}
}

func (h *EngagementHandler) GetLikeInfo(w http.ResponseWriter, r *http.Request) {
	h.likeInfo(w, r, nil)
}

func (h *EngagementHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.likeInfo(w, r, h.engagementService.Like)
}

func (h *EngagementHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.likeInfo(w, r, h.engagementService.Unlike)
}

func (h *EngagementHandler) likeInfo(w http.ResponseWriter, r *http.Request, mutate func(context.Context, uuid.UUID, uuid.UUID) error) {
	userID, postID, ok := h.userAndParam(w, r, "postId", "Post not found")
	if !ok {
		return
	}

	if mutate != nil {
		if err := mutate(r.Context(), userID, postID); err != nil {
			respondServiceError(w, err)
			return
		}
	}

	info, err := h.engagementService.LikeInfo(r.Context(), userID, postID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

func (h *EngagementHandler) GetBookmarkInfo(w http.ResponseWriter, r *http.Request) {
	h.bookmarkInfo(w, r, nil)
}

func (h *EngagementHandler) Bookmark(w http.ResponseWriter, r *http.Request) {
	h.bookmarkInfo(w, r, h.engagementService.Bookmark)
}

func (h *EngagementHandler) Unbookmark(w http.ResponseWriter, r *http.Request) {
	h.bookmarkInfo(w, r, h.engagementService.Unbookmark)
}

func (h *EngagementHandler) bookmarkInfo(w http.ResponseWriter, r *http.Request, mutate func(context.Context, uuid.UUID, uuid.UUID) error) {
	userID, postID, ok := h.userAndParam(w, r, "postId", "Post not found")
	if !ok {
		return
	}

	if mutate != nil {
		if err := mutate(r.Context(), userID, postID); err != nil {
			respondServiceError(w, err)
			return
		}
	}

	info, err := h.engagementService.BookmarkInfo(r.Context(), userID, postID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

func (h *EngagementHandler) GetFollowerInfo(w http.ResponseWriter, r *http.Request) {
	h.followerInfo(w, r, nil)
}

func (h *EngagementHandler) Follow(w http.ResponseWriter, r *http.Request) {
	h.followerInfo(w, r, h.engagementService.Follow)
}

func (h *EngagementHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	h.followerInfo(w, r, h.engagementService.Unfollow)
}

func (h *EngagementHandler) followerInfo(w http.ResponseWriter, r *http.Request, mutate func(context.Context, uuid.UUID, uuid.UUID) error) {
	userID, targetID, ok := h.userAndParam(w, r, "userId", "User not found")
	if !ok {
		return
	}

	if mutate != nil {
		if err := mutate(r.Context(), userID, targetID); err != nil {
			respondServiceError(w, err)
			return
		}
	}

	info, err := h.engagementService.FollowerInfo(r.Context(), userID, targetID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

func (h *EngagementHandler) userAndParam(w http.ResponseWriter, r *http.Request, param, notFound string) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		respondError(w, http.StatusNotFound, notFound)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}
