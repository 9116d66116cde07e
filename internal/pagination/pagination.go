// Package pagination implements keyset cursors over (created_at, id).
//
// Pages are fetched newest-first. A cursor is the id of the first row of the
// page it points at; the fetch that consumes it starts AT that row, so
// sequential fetches neither skip nor duplicate items as long as no rows are
// inserted or deleted at the boundary in between. Concurrent writes at the
// boundary can still surface an item twice or drop it; callers accept that.
package pagination

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Anchor is the resolved sort key of a cursor row.
type Anchor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// AtOrBefore narrows a descending keyset query to rows at or before the
// anchor. A nil anchor means "first page" and leaves the query untouched.
func AtOrBefore(q *gorm.DB, table string, a *Anchor) *gorm.DB {
	if a == nil {
		return q
	}
	return q.Where("("+table+".created_at, "+table+".id) <= (?, ?)", a.CreatedAt, a.ID)
}

// ParseCursor decodes an opaque cursor token. Empty means first page.
func ParseCursor(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// TrimDesc slices a newest-first fetch of up to pageSize+1 rows into the page
// to return and the cursor for the next one. The extra row is excluded from
// the page; its id becomes the next cursor, or nil at the end of the
// collection.
func TrimDesc[T any](rows []T, pageSize int, id func(T) uuid.UUID) ([]T, *uuid.UUID) {
	if len(rows) <= pageSize {
		return rows, nil
	}
	next := id(rows[pageSize])
	return rows[:pageSize], &next
}

// TrimReverse handles collections displayed oldest-first but paged from the
// newest end (comments). Rows arrive newest-first; the result is the page in
// display order plus the cursor pointing further back in time.
func TrimReverse[T any](rows []T, pageSize int, id func(T) uuid.UUID) ([]T, *uuid.UUID) {
	var prev *uuid.UUID
	if len(rows) > pageSize {
		boundary := id(rows[pageSize])
		prev = &boundary
		rows = rows[:pageSize]
	}
	out := make([]T, len(rows))
	for i, r := range rows {
		out[len(rows)-1-i] = r
	}
	return out, prev
}
