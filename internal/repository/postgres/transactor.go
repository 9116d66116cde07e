package postgres

import (
	"context"

	"github.com/finn/social-feed-api/internal/pagination"
	"github.com/finn/social-feed-api/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactor struct {
	db *gorm.DB
}

func (t *transactor) InTx(ctx context.Context, fn func(r *repository.Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := newRepositories(tx)
		repos.Tx = &transactor{db: tx}
		return fn(repos)
	})
}

// anchorFor resolves a cursor id to the (created_at, id) keyset position of
// the row it names, within the given table.
func anchorFor(ctx context.Context, db *gorm.DB, table string, id uuid.UUID) (*pagination.Anchor, error) {
	var a pagination.Anchor
	err := db.WithContext(ctx).
		Table(table).
		Select("created_at, id").
		Where("id = ?", id).
		Take(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}
