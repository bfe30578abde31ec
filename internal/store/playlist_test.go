package store

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinesync/client/internal/domain"
)

func item(id string, position int) domain.PlaylistItem {
	return domain.PlaylistItem{
		Id:       id,
		MediaId:  "media-" + id,
		Position: position,
	}
}

// assertPlaylistInvariant checks the strict ordering invariant: positions
// ascend contiguously from 1 and ids are unique.
func assertPlaylistInvariant(t *testing.T, items []domain.PlaylistItem) {
	t.Helper()

	seen := make(map[string]bool, len(items))
	for i, it := range items {
		assert.Equal(t, i+1, it.Position, "positions must be contiguous and 1-based")
		assert.False(t, seen[it.Id], "duplicate id %s", it.Id)
		seen[it.Id] = true
	}
}

func TestAddPlaylistItemIdempotent(t *testing.T) {
	s := New(nil, 10, slog.Default())

	s.AddPlaylistItem(item("v1", 1))
	s.AddPlaylistItem(item("v1", 2))

	items := s.Playlist()
	require.Len(t, items, 1, "duplicate id must be a no-op")
	assertPlaylistInvariant(t, items)
}

func TestRemovePlaylistItemRenumbers(t *testing.T) {
	s := New(nil, 10, slog.Default())
	for i := 1; i <= 4; i++ {
		s.AddPlaylistItem(item(fmt.Sprintf("v%d", i), i))
	}

	s.RemovePlaylistItem("v2")

	items := s.Playlist()
	require.Len(t, items, 3)
	assert.Equal(t, []string{"v1", "v3", "v4"}, ids(items))
	assertPlaylistInvariant(t, items)
}

func TestUpdatePlaylistItemPosition(t *testing.T) {
	s := New(nil, 10, slog.Default())
	for i := 1; i <= 4; i++ {
		s.AddPlaylistItem(item(fmt.Sprintf("v%d", i), i))
	}

	s.UpdatePlaylistItemPosition("v4", 1)

	items := s.Playlist()
	assert.Equal(t, []string{"v4", "v1", "v2", "v3"}, ids(items))
	assertPlaylistInvariant(t, items)

	s.UpdatePlaylistItemPosition("v4", 3)

	items = s.Playlist()
	assert.Equal(t, []string{"v1", "v2", "v4", "v3"}, ids(items))
	assertPlaylistInvariant(t, items)
}

func TestReorderPlaylist(t *testing.T) {
	s := New(nil, 10, slog.Default())
	for i := 1; i <= 3; i++ {
		s.AddPlaylistItem(item(fmt.Sprintf("v%d", i), i))
	}

	snapshot, err := s.ReorderPlaylist(0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "v2", "v3"}, ids(snapshot), "snapshot must hold the prior order")

	items := s.Playlist()
	assert.Equal(t, []string{"v2", "v3", "v1"}, ids(items))
	assertPlaylistInvariant(t, items)

	// rollback path: full replace restores the snapshot
	s.SetPlaylistItems(snapshot)
	assert.Equal(t, []string{"v1", "v2", "v3"}, ids(s.Playlist()))
}

func TestReorderPlaylistOutOfRange(t *testing.T) {
	s := New(nil, 10, slog.Default())
	s.AddPlaylistItem(item("v1", 1))

	_, err := s.ReorderPlaylist(0, 5)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = s.ReorderPlaylist(-1, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestPlaylistInvariantUnderMutationSequence(t *testing.T) {
	s := New(nil, 10, slog.Default())

	s.AddPlaylistItem(item("v1", 1))
	s.AddPlaylistItem(item("v2", 2))
	s.AddPlaylistItem(item("v3", 3))
	s.RemovePlaylistItem("v1")
	s.AddPlaylistItem(item("v4", 7)) // sparse incoming position
	s.UpdatePlaylistItemPosition("v4", 1)
	_, err := s.ReorderPlaylist(1, 2)
	require.NoError(t, err)
	s.AddPlaylistItem(item("v2", 1)) // duplicate, no-op

	assertPlaylistInvariant(t, s.Playlist())
}

func ids(items []domain.PlaylistItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Id
	}
	return out
}
