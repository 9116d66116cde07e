package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/finn/social-feed-api/internal/config"
	"github.com/finn/social-feed-api/internal/domain"
	"github.com/finn/social-feed-api/internal/repository"
	"github.com/google/uuid"
)

var ErrInvalidMediaType = errors.New("invalid media type")

// FileDeleter is the slice of the upload service the sweep needs.
type FileDeleter interface {
	FileKey(fileURL string) string
	DeleteFiles(ctx context.Context, fileKeys []string) error
}

type MediaService struct {
	repos   *repository.Repositories
	deleter FileDeleter
	cfg     *config.Config
}

func NewMediaService(repos *repository.Repositories, deleter FileDeleter, cfg *config.Config) *MediaService {
	return &MediaService{
		repos:   repos,
		deleter: deleter,
		cfg:     cfg,
	}
}

// Register records an already-uploaded file. The row stays unattached until
// a post claims it; unclaimed rows are reclaimed by ClearOrphans.
func (s *MediaService) Register(ctx context.Context, url string, mediaType domain.MediaType) (*domain.Media, error) {
	if !mediaType.Valid() {
		return nil, ErrInvalidMediaType
	}
	media := &domain.Media{
		ID:   uuid.New(),
		URL:  url,
		Type: mediaType,
	}
	if err := s.repos.Media.Create(ctx, media); err != nil {
		return nil, err
	}
	return media, nil
}

// ClearOrphans deletes media rows that never got attached to a post, along
// with their remote files. In production an upload gets a 24h grace period
// so an in-progress post editor is never swept out from under a user.
func (s *MediaService) ClearOrphans(ctx context.Context) (int, error) {
	cutoff := time.Now()
	if s.cfg.Production() {
		cutoff = cutoff.Add(-24 * time.Hour)
	}

	orphans, err := s.repos.Media.ListOrphans(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if len(orphans) == 0 {
		return 0, nil
	}

	keys := make([]string, len(orphans))
	ids := make([]uuid.UUID, len(orphans))
	for i, m := range orphans {
		keys[i] = s.deleter.FileKey(m.URL)
		ids[i] = m.ID
	}

	// Remote first: a row without a file is a leak, a file without a row
	// just gets swept again next run.
	if err := s.deleter.DeleteFiles(ctx, keys); err != nil {
		return 0, err
	}
	if err := s.repos.Media.DeleteByIDs(ctx, ids); err != nil {
		return 0, err
	}

	log.Printf("INFO [media] cleared %d orphaned uploads", len(orphans))
	return len(orphans), nil
}
