package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/finn/social-feed-api/internal/api/middleware"
	"github.com/finn/social-feed-api/internal/config"
	"github.com/finn/social-feed-api/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	stateCookieName    = "oauth_state"
	verifierCookieName = "oauth_code_verifier"
	oauthCookieTTL     = 10 * time.Minute

	googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

type OAuthHandler struct {
	authService *service.AuthService
	cfg         *config.Config
	oauth       *oauth2.Config
	userinfoURL string
}

func NewOAuthHandler(authService *service.AuthService, cfg *config.Config) *OAuthHandler {
	return &OAuthHandler{
		authService: authService,
		cfg:         cfg,
		userinfoURL: googleUserinfoURL,
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.BaseURL + "/api/auth/callback/google",
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

// Login starts the authorization-code flow with PKCE. The state and code
// verifier live in short-lived cookies so the callback can check them
// without server-side storage.
func (h *OAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := randomState()
	verifier := oauth2.GenerateVerifier()

	h.setFlowCookie(w, stateCookieName, state)
	h.setFlowCookie(w, verifierCookieName, verifier)

	url := h.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || state == "" || stateCookie.Value != state {
		respondError(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}
	verifierCookie, err := r.Cookie(verifierCookieName)
	if err != nil || code == "" {
		respondError(w, http.StatusBadRequest, "Missing OAuth code")
		return
	}

	token, err := h.oauth.Exchange(r.Context(), code, oauth2.VerifierOption(verifierCookie.Value))
	if err != nil {
		respondError(w, http.StatusBadRequest, "OAuth exchange failed")
		return
	}

	gu, err := h.fetchUserinfo(r, token)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	_, session, err := h.authService.LoginWithGoogle(r.Context(), *gu)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	middleware.SetSessionCookie(w, session.ID, session.ExpiresAt, h.cfg.Production())
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

func (h *OAuthHandler) fetchUserinfo(r *http.Request, token *oauth2.Token) (*service.GoogleUser, error) {
	resp, err := h.oauth.Client(r.Context(), token).Get(h.userinfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed: %s", resp.Status)
	}

	var info struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &service.GoogleUser{
		ID:      info.ID,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}

func (h *OAuthHandler) setFlowCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(oauthCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Production(),
		SameSite: http.SameSiteLaxMode,
	})
}

func randomState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
