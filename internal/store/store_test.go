package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertAndGet(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Upsert(IndexRecord{
		Path:        "internal/store/store.go",
		Content:     "type Store interface",
		Keywords:    "storage, sqlite",
		Description: "persistence layer",
	}))

	r, err := s.Get("internal/store/store.go")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "type Store interface", r.Content)
	assert.Equal(t, "storage, sqlite", r.Keywords)
	assert.False(t, r.CreatedAt.IsZero())

	missing, err := s.Get("nope.go")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpsertReplacesByPath(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Upsert(IndexRecord{Path: "a.go", Content: "v1", Keywords: "k", Description: "d"}))
	require.NoError(t, s.Upsert(IndexRecord{Path: "a.go", Content: "v2", Keywords: "k2", Description: "d2"}))

	r, err := s.Get("a.go")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "v2", r.Content)
	assert.Equal(t, "k2", r.Keywords)

	all, err := s.List()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMatch(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Upsert(IndexRecord{Path: "a", Content: "c", Keywords: "database connection", Description: "handles db pool"}))
	require.NoError(t, s.Upsert(IndexRecord{Path: "b", Content: "c", Keywords: "calculator math", Description: "adds numbers"}))

	t.Run("matches keywords", func(t *testing.T) {
		got, err := s.Match("database", 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "a", got[0].Path)
	})

	t.Run("matches description", func(t *testing.T) {
		got, err := s.Match("numbers", 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "b", got[0].Path)
	})

	t.Run("case insensitive", func(t *testing.T) {
		require.NoError(t, s.Upsert(IndexRecord{Path: "c", Content: "c", Keywords: "JSON Parser", Description: "Decodes Payloads"}))

		got, err := s.Match("json", 10)
		require.NoError(t, err)
		require.Len(t, got, 1)

		got, err = s.Match("payloads", 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
	})

	t.Run("no match", func(t *testing.T) {
		got, err := s.Match("missing", 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestMatchLimit(t *testing.T) {
	s := openTestStore(t)

	for _, p := range []string{"a", "b", "c", "d"} {
		require.NoError(t, s.Upsert(IndexRecord{Path: p, Content: "c", Keywords: "shared tag", Description: "d"}))
	}

	got, err := s.Match("shared", 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestMatchEscapesWildcards(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Upsert(IndexRecord{Path: "a", Content: "c", Keywords: "percent", Description: "uses 100% cpu"}))
	require.NoError(t, s.Upsert(IndexRecord{Path: "b", Content: "c", Keywords: "plain", Description: "nothing special"}))

	// A bare % would match everything if not escaped.
	got, err := s.Match("100%", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Path)

	got, err = s.Match("_", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDeleteAll(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Upsert(IndexRecord{Path: "a", Content: "c", Keywords: "k", Description: "d"}))
	require.NoError(t, s.DeleteAll())

	all, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMeta(t *testing.T) {
	s := openTestStore(t)

	v, err := s.GetMeta("model")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	require.NoError(t, s.SetMeta("model", "gpt-4o-mini"))
	require.NoError(t, s.SetMeta("model", "gpt-4o"))

	v, err = s.GetMeta("model")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", v)
}
