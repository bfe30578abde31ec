package fakeserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/cinesync/client/internal/domain"
)

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	roomCode := chi.URLParam(r, "room-code")

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	conn := &wsConn{
		ws:        ws,
		profileId: r.Header.Get("X-Profile-Id"),
	}

	s.mu.Lock()
	s.conns[roomCode] = append(s.conns[roomCode], conn)
	withhold := s.WithholdAuth
	s.mu.Unlock()

	if !withhold {
		conn.writeFrame(frame{Type: domain.EventAuthenticated})
	}

	defer func() {
		s.mu.Lock()
		conns := s.conns[roomCode]
		for i, c := range conns {
			if c == conn {
				s.conns[roomCode] = append(conns[:i], conns[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
		ws.Close()
	}()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}

		var f frame
		if err := gojson.Unmarshal(data, &f); err != nil {
			continue
		}

		s.handleRequest(roomCode, conn, f)
	}
}

func (s *Server) handleRequest(roomCode string, conn *wsConn, f frame) {
	room := s.GetRoom(roomCode)
	if room == nil {
		conn.ack(f, map[string]any{"success": false, "error": "room not found"})
		return
	}

	switch f.Type {
	case domain.RequestJoinRoom:
		s.mu.Lock()
		ack := map[string]any{
			"success":         true,
			"lastestMessages": pageBefore(room.Messages, "", s.PageSize),
			"members":         room.Members,
			"playlistItems":   room.Playlist,
			"settings":        room.Settings,
			"currentState":    room.State,
		}
		s.mu.Unlock()
		conn.ack(f, ack)

	case domain.RequestSendMessage:
		var req struct {
			Content string `json:"content"`
		}
		gojson.Unmarshal(f.Payload, &req)

		message := domain.Message{
			Id:      uuid.NewString(),
			Type:    domain.MessageTypeRegular,
			Content: req.Content,
			Sender:  &domain.UserRef{User: domain.User{Id: conn.profileId}},
			SentAt:  time.Now().UnixMilli(),
		}
		s.mu.Lock()
		room.Messages = append(room.Messages, message)
		s.mu.Unlock()

		conn.ack(f, map[string]any{"success": true})
		s.Push(roomCode, domain.EventNewMessage, map[string]any{"message": message})

	case domain.RequestPlay, domain.RequestPause, domain.RequestSeek:
		var req struct {
			CurrentTime float64 `json:"currentTime"`
			IsPlaying   bool    `json:"isPlaying"`
		}
		gojson.Unmarshal(f.Payload, &req)

		status := domain.PlaybackStatusPaused
		if req.IsPlaying {
			status = domain.PlaybackStatusPlaying
		}

		s.mu.Lock()
		itemId := ""
		if room.State != nil {
			itemId = room.State.PlaylistItemId
		}
		state := domain.PlayerState{
			PlaylistItemId: itemId,
			Status:         status,
			CurrentTime:    req.CurrentTime,
			UpdatedAt:      time.Now().UnixMilli(),
		}
		room.State = &state
		s.mu.Unlock()

		conn.ack(f, map[string]any{"success": true})
		s.Push(roomCode, domain.EventVideoChanged, state)

	case domain.RequestReorderItem:
		var req struct {
			ItemId      string `json:"itemId"`
			NewPosition int    `json:"newPosition"`
		}
		gojson.Unmarshal(f.Payload, &req)

		var moved *domain.PlaylistItem
		s.mu.Lock()
		for i := range room.Playlist {
			if room.Playlist[i].Id == req.ItemId {
				room.Playlist[i].Position = req.NewPosition
				item := room.Playlist[i]
				moved = &item
				break
			}
		}
		s.mu.Unlock()

		if moved == nil {
			conn.ack(f, map[string]any{"success": false, "error": "item not found"})
			return
		}

		conn.ack(f, map[string]any{"success": true})
		s.Push(roomCode, domain.EventPlaylistUpdated, map[string]any{
			"item":        moved,
			"action":      domain.PlaylistActionReorder,
			"reorderedBy": conn.profileId,
		})

	case domain.RequestKickUser:
		var req struct {
			TargetUserId string `json:"targetUserId"`
		}
		gojson.Unmarshal(f.Payload, &req)

		conn.ack(f, map[string]any{"success": true})
		s.Push(roomCode, domain.EventUserKicked, map[string]any{"user": req.TargetUserId})

	default:
		conn.ack(f, map[string]any{"success": true})
	}
}

func (c *wsConn) ack(request frame, payload any) {
	if request.RequestId == "" {
		return
	}

	data, err := gojson.Marshal(payload)
	if err != nil {
		return
	}

	c.writeFrame(frame{
		Type:      request.Type,
		RequestId: request.RequestId,
		Payload:   data,
	})
}
