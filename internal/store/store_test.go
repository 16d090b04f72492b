package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocal(dir)
	require.NoError(t, err)

	_, err = s.Get(ctx, "snapshots/events")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "snapshots/events", []byte(`[1,2]`)))
	got, err := s.Get(ctx, "snapshots/events")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))

	_, err = os.Stat(filepath.Join(dir, "snapshots", "events.json"))
	assert.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "snapshots/events"))
	require.NoError(t, s.Delete(ctx, "snapshots/events"), "deleting twice is not an error")
	_, err = s.Get(ctx, "snapshots/events")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreList(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	for _, k := range []string{"submissions/b", "submissions/a", "snapshots/home"} {
		require.NoError(t, s.Set(ctx, k, []byte(`{}`)))
	}

	keys, err := s.List(ctx, "submissions/")
	require.NoError(t, err)
	assert.Equal(t, []string{"submissions/a", "submissions/b"}, keys)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLocalStoreRejectsBadKeys(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	for _, k := range []string{"", "/abs", "../escape", "a//b", "a/./b"} {
		assert.Error(t, s.Set(ctx, k, []byte(`{}`)), k)
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	type doc struct {
		Title string `json:"title"`
	}
	require.NoError(t, SetJSON(ctx, s, "doc", doc{Title: "Welcome"}))

	var got doc
	require.NoError(t, GetJSON(ctx, s, "doc", &got))
	assert.Equal(t, "Welcome", got.Title)

	require.NoError(t, s.Set(ctx, "broken", []byte(`{`)))
	assert.Error(t, GetJSON(ctx, s, "broken", &got))
}
