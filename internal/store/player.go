package store

import (
	"github.com/cinesync/client/internal/domain"
)

func (s *Store) PlayerState() (domain.PlayerState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.player, s.hasPlayer
}

// SetPlayerState caches the most recently received authoritative state.
// Application is last-write-wins by server timestamp: a state older than
// the cached one is stale and ignored. Reports whether the state was
// applied.
func (s *Store) SetPlayerState(state domain.PlayerState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasPlayer && state.UpdatedAt < s.player.UpdatedAt {
		return false
	}

	s.player = state
	s.hasPlayer = true
	return true
}
