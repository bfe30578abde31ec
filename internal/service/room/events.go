package room

import (
	"context"

	gojson "github.com/goccy/go-json"

	"github.com/cinesync/client/internal/domain"
	"github.com/cinesync/client/internal/repository/history"
	"github.com/cinesync/client/internal/transport"
)

// subscribe wires all pushed room events into the session store, the
// playlist coordinator and the playback engine. Registered before the
// joinRoom request so broadcasts racing the ack are not lost. Existing
// handlers are dropped first so a repeated subscribe on the same conn
// cannot double-apply events.
func (s *service) subscribe(conn *transport.Conn) {
	handlers := map[string]transport.HandlerFunc{
		domain.EventNewMessage:          s.handleNewMessage,
		domain.EventMemberAdded:         s.handleMemberAdded,
		domain.EventMemberRemoved:       s.handleMemberRemoved,
		domain.EventUserRoleChanged:     s.handleUserRoleChanged,
		domain.EventUserKicked:          s.handleUserKicked,
		domain.EventRoomSettingsUpdated: s.handleRoomSettingsUpdated,
		domain.EventPlaylistUpdated:     s.handlePlaylistUpdated,
		domain.EventVideoChanged:        s.handleVideoChanged,
	}

	for eventType, handler := range handlers {
		conn.Off(eventType)
		conn.On(eventType, handler)
	}
}

func (s *service) handleNewMessage(payload []byte) {
	var event domain.NewMessageEvent
	if err := gojson.Unmarshal(payload, &event); err != nil {
		s.log.Info("failed to decode newMessage", "err", err)
		return
	}

	s.store.AddMessage(event.Message)
}

func (s *service) handleMemberAdded(payload []byte) {
	var event domain.MemberAddedEvent
	if err := gojson.Unmarshal(payload, &event); err != nil {
		s.log.Info("failed to decode memberAdded", "err", err)
		return
	}

	s.store.AddMember(event.Member)
}

func (s *service) handleMemberRemoved(payload []byte) {
	var event domain.MemberRemovedEvent
	if err := gojson.Unmarshal(payload, &event); err != nil {
		s.log.Info("failed to decode memberRemoved", "err", err)
		return
	}

	s.store.RemoveMember(event.User.Id)
}

func (s *service) handleUserRoleChanged(payload []byte) {
	var event domain.UserRoleChangedEvent
	if err := gojson.Unmarshal(payload, &event); err != nil {
		s.log.Info("failed to decode userRoleChanged", "err", err)
		return
	}

	s.store.UpdateMemberRole(event.User.Id, event.NewRole)
}

func (s *service) handleUserKicked(payload []byte) {
	var event domain.UserKickedEvent
	if err := gojson.Unmarshal(payload, &event); err != nil {
		s.log.Info("failed to decode userKicked", "err", err)
		return
	}

	if event.User.Id == s.cfg.ProfileId {
		s.log.Info("kicked from room")
		s.mu.Lock()
		s.kicked = true
		s.mu.Unlock()
		s.LeaveRoom()
		return
	}

	s.store.RemoveMember(event.User.Id)
}

func (s *service) handleRoomSettingsUpdated(payload []byte) {
	var event domain.RoomSettingsUpdatedEvent
	if err := gojson.Unmarshal(payload, &event); err != nil {
		s.log.Info("failed to decode roomSettingsUpdated", "err", err)
		return
	}

	s.store.UpdateSettings(event.Settings)
}

func (s *service) handlePlaylistUpdated(payload []byte) {
	var event domain.PlaylistUpdateEvent
	if err := gojson.Unmarshal(payload, &event); err != nil {
		s.log.Info("failed to decode playlistUpdated", "err", err)
		return
	}

	s.coord.ApplyServerEvent(event)
}

func (s *service) handleVideoChanged(payload []byte) {
	var state domain.PlayerState
	if err := gojson.Unmarshal(payload, &state); err != nil {
		s.log.Info("failed to decode videoChanged", "err", err)
		return
	}

	s.applyPlayerState(context.Background(), state)
}

// applyPlayerState caches the authoritative state, resolves the current
// item's stream, reconciles the media element and records watch history.
func (s *service) applyPlayerState(ctx context.Context, state domain.PlayerState) {
	if !s.store.SetPlayerState(state) {
		// stale state, superseded by a newer one already applied
		return
	}

	if item, ok := s.store.PlaylistItem(state.PlaylistItemId); ok {
		if _, err := s.engine.LoadItem(item); err != nil {
			s.log.Info("content unavailable", "item_id", item.Id, "err", err)
			return
		}

		if s.history != nil {
			if err := s.history.AddRecentlyWatched(ctx, &history.AddRecentlyWatchedParams{
				ProfileId:    s.cfg.ProfileId,
				MediaId:      item.MediaId,
				LastPlayedAt: state.UpdatedAt,
			}); err != nil {
				s.log.Info("failed to record watch history", "err", err)
			}
		}
	}

	s.engine.Apply(state)
}
