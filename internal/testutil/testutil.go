package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/finn/social-feed-api/internal/api"
	"github.com/finn/social-feed-api/internal/chat"
	"github.com/finn/social-feed-api/internal/config"
	"github.com/finn/social-feed-api/internal/domain"
	"github.com/finn/social-feed-api/internal/repository"
	repoPostgres "github.com/finn/social-feed-api/internal/repository/postgres"
	"github.com/finn/social-feed-api/internal/service"
	"github.com/finn/social-feed-api/internal/uploads"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_social_feed"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	if err := repoPostgres.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		ctx := context.Background()
		tdb.Container.Terminate(ctx)
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	tables := []string{
		"outbox_jobs",
		"notifications",
		"comments",
		"follows",
		"bookmarks",
		"likes",
		"media",
		"posts",
		"sessions",
		"users",
	}

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// FakeChatBackend records the calls a test server makes to the hosted chat
// service and answers them with canned responses.
type FakeChatBackend struct {
	Server *httptest.Server

	mu          sync.Mutex
	upserted    []string
	unreadCount int
	failUpserts bool
}

func NewFakeChatBackend(t *testing.T) *FakeChatBackend {
	t.Helper()

	f := &FakeChatBackend{}
	mux := http.NewServeMux()
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failUpserts {
			http.Error(w, `{"message":"unavailable"}`, http.StatusServiceUnavailable)
			return
		}
		var body struct {
			Users map[string]json.RawMessage `json:"users"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		for id := range body.Users {
			f.upserted = append(f.upserted, id)
		}
		w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/unread", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]int{"total_unread_count": f.unreadCount})
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

func (f *FakeChatBackend) UpsertedUserIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.upserted...)
}

func (f *FakeChatBackend) SetUnreadCount(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unreadCount = n
}

func (f *FakeChatBackend) SetFailUpserts(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failUpserts = fail
}

// FakeUploadService accepts delete calls and remembers the keys.
type FakeUploadService struct {
	Server *httptest.Server

	mu      sync.Mutex
	deleted []string
}

func NewFakeUploadService(t *testing.T) *FakeUploadService {
	t.Helper()

	f := &FakeUploadService{}
	mux := http.NewServeMux()
	mux.HandleFunc("/v6/deleteFiles", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			FileKeys []string `json:"fileKeys"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.deleted = append(f.deleted, body.FileKeys...)
		f.mu.Unlock()
		w.Write([]byte(`{"success":true}`))
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

func (f *FakeUploadService) DeletedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

// TestConfig returns a configuration suitable for testing
func TestConfig(chatURL, uploadURL string) *config.Config {
	return &config.Config{
		Port:           "0",
		Environment:    "test",
		BaseURL:        "http://localhost",
		SessionTTL:     30 * 24 * time.Hour,
		ChatAPIKey:     "test-chat-key",
		ChatAPISecret:  "test-chat-secret-for-testing-only",
		ChatBaseURL:    chatURL,
		UploadAppID:    "testapp",
		UploadSecret:   "test-upload-secret",
		UploadAPIURL:   uploadURL,
		CronSecret:     "test-cron-secret",
		OutboxInterval: 100 * time.Millisecond,
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	DB       *TestDB
	Repos    *repository.Repositories
	Services *service.Services
	Config   *config.Config
	Chat     *FakeChatBackend
	Uploads  *FakeUploadService
}

// NewTestServer creates a complete test server with all dependencies
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	testDB := NewTestDB(t)
	fakeChat := NewFakeChatBackend(t)
	fakeUploads := NewFakeUploadService(t)
	cfg := TestConfig(fakeChat.Server.URL, fakeUploads.Server.URL)

	repos := repoPostgres.NewRepositories(testDB.DB)
	chatClient := chat.NewClient(cfg.ChatAPIKey, cfg.ChatAPISecret, cfg.ChatBaseURL)
	uploadClient := uploads.NewClient(cfg.UploadAppID, cfg.UploadSecret, cfg.UploadAPIURL)

	services := service.NewServices(repos, cfg, chatClient, uploadClient)
	router := api.NewRouter(services, cfg)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       testDB,
		Repos:    repos,
		Services: services,
		Config:   cfg,
		Chat:     fakeChat,
		Uploads:  fakeUploads,
	}

	t.Cleanup(func() {
		server.Close()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api%s", ts.Server.URL, path)
}

// CreateSession stores a session row for a user and returns its cookie.
func (ts *TestServer) CreateSession(t *testing.T, user *domain.User) *http.Cookie {
	t.Helper()

	session, err := ts.Services.Auth.CreateSession(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return &http.Cookie{Name: "session", Value: session.ID.String(), Path: "/"}
}
