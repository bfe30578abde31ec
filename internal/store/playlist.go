package store

import (
	"errors"
	"sort"

	"github.com/cinesync/client/internal/domain"
)

var ErrIndexOutOfRange = errors.New("playlist index out of range")

func (s *Store) Playlist() []domain.PlaylistItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	playlist := make([]domain.PlaylistItem, len(s.playlist))
	copy(playlist, s.playlist)
	return playlist
}

func (s *Store) PlaylistItem(itemId string) (domain.PlaylistItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.playlist {
		if item.Id == itemId {
			return item, true
		}
	}
	return domain.PlaylistItem{}, false
}

// AddPlaylistItem appends an item and resorts by position. A duplicate id
// is a no-op, guarding against the echo of a locally-originated add.
func (s *Store) AddPlaylistItem(item domain.PlaylistItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.playlist {
		if existing.Id == item.Id {
			return
		}
	}

	s.playlist = append(s.playlist, item)
	s.sortPlaylist()
	s.renumberPlaylist()
}

// RemovePlaylistItem filters the item out and renumbers the remaining
// positions so they stay contiguous. No-op if the id is unknown.
func (s *Store) RemovePlaylistItem(itemId string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.playlist {
		if item.Id == itemId {
			s.playlist = append(s.playlist[:i], s.playlist[i+1:]...)
			s.renumberPlaylist()
			return
		}
	}
}

// UpdatePlaylistItemPosition moves the item to the given 1-based position,
// shifting its neighbors, then renumbers.
func (s *Store) UpdatePlaylistItemPosition(itemId string, position int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, item := range s.playlist {
		if item.Id == itemId {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}

	item := s.playlist[idx]
	s.playlist = append(s.playlist[:idx], s.playlist[idx+1:]...)

	insert := position - 1
	if insert < 0 {
		insert = 0
	}
	if insert > len(s.playlist) {
		insert = len(s.playlist)
	}

	s.playlist = append(s.playlist[:insert], append([]domain.PlaylistItem{item}, s.playlist[insert:]...)...)
	s.renumberPlaylist()
}

// SetPlaylistItems replaces the whole collection, used when a server
// broadcast corrects an optimistic state.
func (s *Store) SetPlaylistItems(items []domain.PlaylistItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.playlist = make([]domain.PlaylistItem, len(items))
	copy(s.playlist, items)
	s.sortPlaylist()
}

// ReorderPlaylist applies a synchronous local move before server
// confirmation and returns a snapshot of the previous order for rollback.
func (s *Store) ReorderPlaylist(oldIndex, newIndex int) ([]domain.PlaylistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if oldIndex < 0 || oldIndex >= len(s.playlist) || newIndex < 0 || newIndex >= len(s.playlist) {
		return nil, ErrIndexOutOfRange
	}

	snapshot := make([]domain.PlaylistItem, len(s.playlist))
	copy(snapshot, s.playlist)

	item := s.playlist[oldIndex]
	s.playlist = append(s.playlist[:oldIndex], s.playlist[oldIndex+1:]...)
	s.playlist = append(s.playlist[:newIndex], append([]domain.PlaylistItem{item}, s.playlist[newIndex:]...)...)
	s.renumberPlaylist()

	return snapshot, nil
}

func (s *Store) sortPlaylist() {
	sort.SliceStable(s.playlist, func(i, j int) bool {
		return s.playlist[i].Position < s.playlist[j].Position
	})
}

// renumberPlaylist keeps positions contiguous and 1-based after every
// mutation. Callers hold the write lock.
func (s *Store) renumberPlaylist() {
	for i := range s.playlist {
		s.playlist[i].Position = i + 1
	}
}
