package service

import (
	"context"
	"testing"

	"github.com/finn/social-feed-api/internal/config"
	"github.com/finn/social-feed-api/internal/domain"
	"github.com/finn/social-feed-api/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeUserRepo simulates the race where another signup commits between the
// uniqueness pre-checks and the insert: lookups miss until after the insert
// has failed on the unique index.
type fakeUserRepo struct {
	createErr  error
	emailCalls int
	emailUser  *domain.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	return r.createErr
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.emailCalls++
	if r.emailCalls > 1 && r.emailUser != nil {
		return r.emailUser, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	return nil
}

type fakeTransactor struct {
	repos *repository.Repositories
}

func (t *fakeTransactor) InTx(ctx context.Context, fn func(r *repository.Repositories) error) error {
	return fn(t.repos)
}

func raceyAuthService(userRepo *fakeUserRepo) *AuthService {
	repos := &repository.Repositories{User: userRepo}
	repos.Tx = &fakeTransactor{repos: repos}
	return NewAuthService(repos, &config.Config{})
}

func TestSignup_DuplicateUsernameUnderRace(t *testing.T) {
	svc := raceyAuthService(&fakeUserRepo{createErr: gorm.ErrDuplicatedKey})

	_, _, err := svc.Signup(context.Background(), SignupInput{
		Username: "racer",
		Email:    "racer@example.com",
		Password: "password123",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUsernameExists)
}

func TestSignup_DuplicateEmailUnderRace(t *testing.T) {
	winner := &domain.User{ID: uuid.New(), Username: "other"}
	svc := raceyAuthService(&fakeUserRepo{createErr: gorm.ErrDuplicatedKey, emailUser: winner})

	_, _, err := svc.Signup(context.Background(), SignupInput{
		Username: "racer",
		Email:    "racer@example.com",
		Password: "password123",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmailExists)
}

func TestLoginWithGoogle_RejectsEmptyID(t *testing.T) {
	svc := raceyAuthService(&fakeUserRepo{})

	_, _, err := svc.LoginWithGoogle(context.Background(), GoogleUser{
		Email: "ghost@example.com",
		Name:  "Ghost",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
