package siyuan

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedIndex(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "siyuan.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE blocks (
		id TEXT, parent_id TEXT, root_id TEXT, box TEXT, path TEXT, hpath TEXT,
		content TEXT, markdown TEXT, type TEXT, subtype TEXT)`)
	require.NoError(t, err)

	rows := [][]any{
		{"d1", "", "d1", "nb", "/d1.sy", "/Lang/Rust", "Rust", "", "d", ""},
		{"h1", "d1", "d1", "nb", "/d1.sy", "/Lang/Rust", "Ownership", "## Ownership", "h", "h2"},
		{"p1", "d1", "d1", "nb", "/d1.sy", "/Lang/Rust", "borrow 100% checked", "borrow 100% checked", "p", ""},
		{"l1", "p1", "d1", "nb", "/d1.sy", "/Lang/Rust", "nested", "nested", "p", ""},
	}
	for _, r := range rows {
		_, err := db.Exec(`INSERT INTO blocks VALUES (?,?,?,?,?,?,?,?,?,?)`, r...)
		require.NoError(t, err)
	}
	return path
}

func TestStoreSearchMatchesSubstring(t *testing.T) {
	store, err := OpenStore(seedIndex(t), 10)
	require.NoError(t, err)
	defer store.Close()

	results, err := store.Search(context.Background(), "100%")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "p1", results[0].ID)
	assert.Equal(t, "d1", results[0].RootID)

	results, err = store.Search(context.Background(), "_")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStoreDocumentReturnsTopLevelBlocksInOrder(t *testing.T) {
	store, err := OpenStore(seedIndex(t), 10)
	require.NoError(t, err)
	defer store.Close()

	doc, err := store.Document(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "Rust", doc.Title)
	require.Len(t, doc.Blocks, 2)
	assert.Equal(t, "h1", doc.Blocks[0].ID)
	assert.Equal(t, "p1", doc.Blocks[1].ID)
}

func TestStoreDocumentMissing(t *testing.T) {
	store, err := OpenStore(seedIndex(t), 10)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Document(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
