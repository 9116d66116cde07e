package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/finn/social-feed-api/internal/domain"
	"github.com/finn/social-feed-api/internal/service"
	"github.com/google/uuid"
)

type contextKey string

const (
	userKey    contextKey = "user"
	sessionKey contextKey = "sessionID"
)

// SessionCookieName is the cookie carrying the session id.
const SessionCookieName = "session"

// Auth resolves the session cookie to a user and stores both on the request
// context. Validation may slide the session's expiry forward, in which case
// the refreshed cookie is sent back with the response.
func Auth(authService *service.AuthService, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				respondUnauthorized(w)
				return
			}

			sessionID, err := uuid.Parse(cookie.Value)
			if err != nil {
				respondUnauthorized(w)
				return
			}

			session, err := authService.ValidateSession(r.Context(), sessionID)
			if err != nil {
				if err != domain.ErrUnauthorized {
					log.Printf("ERROR [middleware.Auth] session validation failed: %v", err)
				}
				ClearSessionCookie(w, secure)
				respondUnauthorized(w)
				return
			}

			SetSessionCookie(w, session.ID, session.ExpiresAt, secure)

			ctx := context.WithValue(r.Context(), userKey, session.User)
			ctx = context.WithValue(ctx, sessionKey, session.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// respondUnauthorized writes the API's JSON error envelope; every response,
// including rejections from middleware, carries the same shape.
func respondUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}

func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok && user != nil
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	user, ok := GetUser(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return user.ID, true
}

func GetSessionID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(sessionKey).(uuid.UUID)
	return id, ok
}

func SetSessionCookie(w http.ResponseWriter, sessionID uuid.UUID, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID.String(),
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
