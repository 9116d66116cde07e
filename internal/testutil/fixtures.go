package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/finn/social-feed-api/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	username string
	password string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		username: fmt.Sprintf("testuser_%s", uuid.New().String()[:8]),
		password: "testpassword123",
	}
}

func (b *UserBuilder) WithUsername(name string) *UserBuilder {
	b.username = name
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	passwordHash := string(hashed)
	email := b.username + "@example.com"
	user := &domain.User{
		ID:           uuid.New(),
		Username:     b.username,
		DisplayName:  b.username,
		Email:        &email,
		PasswordHash: &passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// PostBuilder creates posts directly in the database, with control over the
// creation timestamp so pagination tests get a deterministic order.
type PostBuilder struct {
	author    *domain.User
	content   string
	createdAt time.Time
}

func NewPostBuilder(author *domain.User) *PostBuilder {
	return &PostBuilder{
		author:    author,
		content:   fmt.Sprintf("test post %s", uuid.New().String()[:8]),
		createdAt: time.Now(),
	}
}

func (b *PostBuilder) WithContent(content string) *PostBuilder {
	b.content = content
	return b
}

func (b *PostBuilder) WithCreatedAt(at time.Time) *PostBuilder {
	b.createdAt = at
	return b
}

func (b *PostBuilder) Build(t *testing.T, db *gorm.DB) *domain.Post {
	t.Helper()

	post := &domain.Post{
		ID:        uuid.New(),
		Content:   b.content,
		UserID:    b.author.ID,
		CreatedAt: b.createdAt,
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	return post
}

// SeedPosts creates n posts for the author, spaced one second apart, newest
// last. Returns them in creation order.
func SeedPosts(t *testing.T, db *gorm.DB, author *domain.User, n int) []*domain.Post {
	t.Helper()

	base := time.Now().Add(-time.Duration(n) * time.Second)
	posts := make([]*domain.Post, n)
	for i := 0; i < n; i++ {
		posts[i] = NewPostBuilder(author).
			WithContent(fmt.Sprintf("seeded post %d", i)).
			WithCreatedAt(base.Add(time.Duration(i) * time.Second)).
			Build(t, db)
	}
	return posts
}
