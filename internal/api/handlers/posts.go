package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/finn/social-feed-api/internal/api/middleware"
	"github.com/finn/social-feed-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

type CreatePostRequest struct {
	Content  string      `json:"content"`
	MediaIDs []uuid.UUID `json:"mediaIds"`
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respondError(w, http.StatusBadRequest, "Content is required")
		return
	}

	post, err := h.postService.Create(r.Context(), userID, req.Content, req.MediaIDs)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, post)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	postID, err := uuid.Parse(chi.URLParam(r, "postId"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}

	post, err := h.postService.Get(r.Context(), userID, postID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	postID, err := uuid.Parse(chi.URLParam(r, "postId"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}

	if err := h.postService.Delete(r.Context(), userID, postID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *PostHandler) ForYou(w http.ResponseWriter, r *http.Request) {
	h.feed(w, r, h.postService.ForYou)
}

func (h *PostHandler) Following(w http.ResponseWriter, r *http.Request) {
	h.feed(w, r, h.postService.Following)
}

func (h *PostHandler) Bookmarked(w http.ResponseWriter, r *http.Request) {
	h.feed(w, r, h.postService.Bookmarked)
}

func (h *PostHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	page, err := h.postService.Search(r.Context(), userID, r.URL.Query().Get("q"), r.URL.Query().Get("cursor"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *PostHandler) feed(w http.ResponseWriter, r *http.Request, fetch func(ctx context.Context, viewerID uuid.UUID, cursor string) (*service.PostsPage, error)) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	page, err := fetch(r.Context(), userID, r.URL.Query().Get("cursor"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}
