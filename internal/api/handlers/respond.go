package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/finn/social-feed-api/internal/domain"
	"github.com/finn/social-feed-api/internal/service"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps domain errors to status codes; anything
// unexpected is logged and collapsed to a 500.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		respondError(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, domain.ErrInvalidCursor):
		respondError(w, http.StatusBadRequest, "Invalid cursor")
	case errors.Is(err, domain.ErrPostNotFound):
		respondError(w, http.StatusNotFound, "Post not found")
	case errors.Is(err, domain.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, domain.ErrCommentNotFound):
		respondError(w, http.StatusNotFound, "Comment not found")
	case errors.Is(err, domain.ErrUsernameExists):
		respondError(w, http.StatusConflict, "Username already taken")
	case errors.Is(err, domain.ErrEmailExists):
		respondError(w, http.StatusConflict, "Email already taken")
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, domain.ErrSelfFollow):
		respondError(w, http.StatusBadRequest, "Cannot follow yourself")
	case errors.Is(err, service.ErrTooManyAttachments):
		respondError(w, http.StatusBadRequest, "Too many attachments")
	case errors.Is(err, service.ErrInvalidMediaType):
		respondError(w, http.StatusBadRequest, "Invalid media type")
	default:
		log.Printf("ERROR [handlers] %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
