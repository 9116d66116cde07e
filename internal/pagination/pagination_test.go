package pagination

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	id  uuid.UUID
	seq int
}

func rowID(r row) uuid.UUID { return r.id }

func makeRows(n int) []row {
	rows := make([]row, n)
	for i := range rows {
		rows[i] = row{id: uuid.New(), seq: i}
	}
	return rows
}

func TestParseCursor(t *testing.T) {
	id, err := ParseCursor("")
	require.NoError(t, err)
	assert.Nil(t, id)

	want := uuid.New()
	id, err = ParseCursor(want.String())
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, want, *id)

	_, err = ParseCursor("not-a-uuid")
	assert.Error(t, err)
}

func TestTrimDesc(t *testing.T) {
	t.Run("full page emits extra row as cursor", func(t *testing.T) {
		rows := makeRows(11)
		page, next := TrimDesc(rows, 10, rowID)
		assert.Len(t, page, 10)
		require.NotNil(t, next)
		assert.Equal(t, rows[10].id, *next)
		assert.NotContains(t, page, rows[10])
	})

	t.Run("short page ends the collection", func(t *testing.T) {
		rows := makeRows(4)
		page, next := TrimDesc(rows, 10, rowID)
		assert.Len(t, page, 4)
		assert.Nil(t, next)
	})

	t.Run("exactly pageSize rows", func(t *testing.T) {
		rows := makeRows(10)
		page, next := TrimDesc(rows, 10, rowID)
		assert.Len(t, page, 10)
		assert.Nil(t, next)
	})

	t.Run("empty", func(t *testing.T) {
		page, next := TrimDesc([]row{}, 10, rowID)
		assert.Empty(t, page)
		assert.Nil(t, next)
	})
}

func TestTrimReverse(t *testing.T) {
	t.Run("reverses into display order", func(t *testing.T) {
		rows := makeRows(3) // newest-first
		page, prev := TrimReverse(rows, 5, rowID)
		require.Len(t, page, 3)
		assert.Nil(t, prev)
		assert.Equal(t, rows[2], page[0])
		assert.Equal(t, rows[0], page[2])
	})

	t.Run("boundary row becomes previous cursor", func(t *testing.T) {
		rows := makeRows(6)
		page, prev := TrimReverse(rows, 5, rowID)
		require.Len(t, page, 5)
		require.NotNil(t, prev)
		assert.Equal(t, rows[5].id, *prev)
		// oldest returned row is rows[4], newest is rows[0]
		assert.Equal(t, rows[4], page[0])
		assert.Equal(t, rows[0], page[4])
	})

	t.Run("consecutive pages do not overlap", func(t *testing.T) {
		all := makeRows(12) // newest-first
		page1, prev := TrimReverse(all[:6], 5, rowID)
		require.NotNil(t, prev)

		// the next fetch starts at the boundary row inclusive
		page2, _ := TrimReverse(all[5:11], 5, rowID)

		seen := map[uuid.UUID]bool{}
		for _, r := range append(page2, page1...) {
			assert.False(t, seen[r.id], "row %d duplicated", r.seq)
			seen[r.id] = true
		}
	})
}
