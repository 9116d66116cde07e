package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/finn/social-feed-api/internal/config"
	"github.com/finn/social-feed-api/internal/domain"
	"github.com/finn/social-feed-api/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var slugCleanRe = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

type AuthService struct {
	repos *repository.Repositories
	cfg   *config.Config
}

func NewAuthService(repos *repository.Repositories, cfg *config.Config) *AuthService {
	return &AuthService{
		repos: repos,
		cfg:   cfg,
	}
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

// GoogleUser is the subset of the Google userinfo response the callback
// needs to log a user in or provision one.
type GoogleUser struct {
	ID      string
	Email   string
	Name    string
	Picture string
}

// Signup creates a password account. The user row and the chat-provisioning
// outbox job commit in one transaction so the chat side can never
// permanently miss a user.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, *domain.Session, error) {
	if existing, err := s.repos.User.GetByUsername(ctx, input.Username); err == nil && existing != nil {
		return nil, nil, domain.ErrUsernameExists
	}
	if existing, err := s.repos.User.GetByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, nil, domain.ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	passwordHash := string(hashed)
	user := &domain.User{
		ID:           uuid.New(),
		Username:     input.Username,
		DisplayName:  input.Username,
		Email:        &input.Email,
		PasswordHash: &passwordHash,
	}

	if err := s.createWithChatJob(ctx, user); err != nil {
		// A concurrent signup can slip past the reads above and trip the
		// unique index inside the transaction instead.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, s.classifyDuplicate(ctx, input)
		}
		return nil, nil, err
	}

	session, err := s.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// classifyDuplicate decides which uniqueness rule a duplicate-key failure
// violated, so the caller can surface a 409 instead of a 500.
func (s *AuthService) classifyDuplicate(ctx context.Context, input SignupInput) error {
	if existing, err := s.repos.User.GetByEmail(ctx, input.Email); err == nil && existing != nil {
		return domain.ErrEmailExists
	}
	return domain.ErrUsernameExists
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, *domain.Session, error) {
	user, err := s.repos.User.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	// OAuth-only accounts have no password to check.
	if user.PasswordHash == nil {
		return nil, nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	session, err := s.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// LoginWithGoogle logs in the account bound to the Google id, or provisions
// a fresh one from the userinfo profile.
func (s *AuthService) LoginWithGoogle(ctx context.Context, gu GoogleUser) (*domain.User, *domain.Session, error) {
	// A userinfo response without an id must never provision an account.
	if gu.ID == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.repos.User.GetByGoogleID(ctx, gu.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}
		user = &domain.User{
			ID:          uuid.New(),
			Username:    s.availableUsername(ctx, gu.Name),
			DisplayName: gu.Name,
			GoogleID:    &gu.ID,
			AvatarURL:   gu.Picture,
		}
		if err := s.createWithChatJob(ctx, user); err != nil {
			return nil, nil, err
		}
	}

	session, err := s.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

func (s *AuthService) createWithChatJob(ctx context.Context, user *domain.User) error {
	if !user.HasLoginMethod() {
		return domain.ErrNoLoginMethod
	}
	return s.repos.Tx.InTx(ctx, func(r *repository.Repositories) error {
		if err := r.User.Create(ctx, user); err != nil {
			return err
		}
		payload, err := json.Marshal(domain.ChatUpsertUserPayload{
			UserID:   user.ID,
			Username: user.Username,
			Name:     user.DisplayName,
		})
		if err != nil {
			return err
		}
		return r.Outbox.Enqueue(ctx, &domain.OutboxJob{
			ID:            uuid.New(),
			Kind:          domain.OutboxKindChatUpsertUser,
			Payload:       payload,
			NextAttemptAt: time.Now(),
		})
	})
}

func (s *AuthService) CreateSession(ctx context.Context, userID uuid.UUID) (*domain.Session, error) {
	session := &domain.Session{
		ID:        uuid.New(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.cfg.SessionTTL),
	}
	if err := s.repos.Session.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ValidateSession resolves a cookie value to a live session with its user.
// Expired sessions are deleted; sessions past half their lifetime slide
// forward so active users never get logged out.
func (s *AuthService) ValidateSession(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error) {
	session, err := s.repos.Session.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	now := time.Now()
	if session.Expired(now) {
		_ = s.repos.Session.Delete(ctx, session.ID)
		return nil, domain.ErrUnauthorized
	}

	if now.After(session.ExpiresAt.Add(-s.cfg.SessionTTL / 2)) {
		session.ExpiresAt = now.Add(s.cfg.SessionTTL)
		if err := s.repos.Session.UpdateExpiry(ctx, session.ID, session.ExpiresAt); err != nil {
			return nil, err
		}
	}
	return session, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	return s.repos.Session.Delete(ctx, sessionID)
}

// availableUsername slugifies a display name and appends a short random
// suffix, retrying until the result is free.
func (s *AuthService) availableUsername(ctx context.Context, name string) string {
	base := slugCleanRe.ReplaceAllString(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"), "")
	if base == "" {
		base = "user"
	}
	for {
		candidate := fmt.Sprintf("%s-%04d", base, rand.Intn(10000))
		if _, err := s.repos.User.GetByUsername(ctx, candidate); errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate
		}
	}
}
