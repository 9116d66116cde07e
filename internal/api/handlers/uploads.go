package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/finn/social-feed-api/internal/api/middleware"
	"github.com/finn/social-feed-api/internal/config"
	"github.com/finn/social-feed-api/internal/domain"
	"github.com/finn/social-feed-api/internal/service"
)

type UploadHandler struct {
	mediaService *service.MediaService
	cfg          *config.Config
}

func NewUploadHandler(mediaService *service.MediaService, cfg *config.Config) *UploadHandler {
	return &UploadHandler{mediaService: mediaService, cfg: cfg}
}

type RegisterUploadRequest struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// Register records a file the upload service already accepted. The media
// row stays unattached until a post submit claims it.
func (h *UploadHandler) Register(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserID(r.Context()); !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req RegisterUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.URL == "" {
		respondError(w, http.StatusBadRequest, "URL is required")
		return
	}

	media, err := h.mediaService.Register(r.Context(), req.URL, domain.MediaType(req.Type))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, media)
}

// ClearUploads runs the orphaned-media sweep. Authorized by the cron
// secret, not a user session; the scheduler is not a user.
func (h *UploadHandler) ClearUploads(w http.ResponseWriter, r *http.Request) {
	if h.cfg.CronSecret == "" || r.Header.Get("Authorization") != "Bearer "+h.cfg.CronSecret {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cleared, err := h.mediaService.ClearOrphans(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"cleared": cleared})
}
