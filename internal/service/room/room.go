package room

import (
	"context"
	"errors"
	"fmt"

	gojson "github.com/goccy/go-json"

	"github.com/cinesync/client/internal/domain"
	"github.com/cinesync/client/internal/store"
	"github.com/cinesync/client/internal/transport"
)

type JoinRoomParams struct {
	RoomCode string `json:"room_code" validate:"required,alphanum,min=4,max=12"`
	Password string `json:"password"`
}

type JoinRoomResponse struct {
	Room        domain.Room
	Members     []domain.Member
	Messages    []domain.Message
	Playlist    []domain.PlaylistItem
	Settings    domain.RoomSettings
	PlayerState *domain.PlayerState
}

type joinRoomRequest struct {
	RoomCode string `json:"roomCode"`
}

type joinRoomAck struct {
	Success        bool                  `json:"success"`
	Error          string                `json:"error"`
	LatestMessages []domain.Message      `json:"lastestMessages"`
	Members        []domain.Member       `json:"members"`
	PlaylistItems  []domain.PlaylistItem `json:"playlistItems"`
	Settings       domain.RoomSettings   `json:"settings"`
	CurrentState   *domain.PlayerState   `json:"currentState"`
}

// JoinRoom runs the full join flow: room check over HTTP, password
// verification for private rooms the caller does not own, the
// authenticated socket handshake, and finally the joinRoom request whose
// acknowledgment hydrates the session store. Re-joining the active room
// reuses the existing authenticated connection.
func (s *service) JoinRoom(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	if validationErrors, ok := s.validate.Validate(params); !ok {
		return JoinRoomResponse{}, fmt.Errorf("invalid join room params: %v", validationErrors)
	}

	s.joinMu.Lock()
	defer s.joinMu.Unlock()

	s.mu.Lock()
	if s.conn != nil && s.roomCode == params.RoomCode && s.conn.State() == transport.StateConnected {
		s.mu.Unlock()
		return s.currentResponse(), nil
	}
	s.mu.Unlock()

	checkResp, err := s.api.CheckRoom(ctx, params.RoomCode)
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to check room: %w", err)
	}
	if !checkResp.Room.Active {
		return JoinRoomResponse{}, ErrRoomInactive
	}

	if checkResp.Room.Type == domain.RoomTypePrivate && !checkResp.IsOwner {
		if params.Password == "" {
			return JoinRoomResponse{}, ErrPasswordRequired
		}

		isAuthenticated, err := s.api.VerifyPassword(ctx, params.RoomCode, params.Password)
		if err != nil {
			return JoinRoomResponse{}, fmt.Errorf("failed to verify password: %w", err)
		}
		if !isAuthenticated {
			return JoinRoomResponse{}, ErrInvalidPassword
		}
	}

	// a previous room's conn keeps feeding the store through its
	// handlers; tear it down before wiring the new namespace
	s.mu.Lock()
	previous := s.roomCode
	s.mu.Unlock()
	if previous != "" && previous != params.RoomCode {
		s.LeaveRoom()
	}

	conn, err := s.manager.ConnectRoom(ctx, params.RoomCode)
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to connect to room: %w", err)
	}

	s.subscribe(conn)

	ack, err := conn.Request(ctx, domain.RequestJoinRoom, joinRoomRequest{RoomCode: params.RoomCode})
	if err != nil {
		s.manager.Disconnect("room/" + params.RoomCode)
		return JoinRoomResponse{}, fmt.Errorf("failed to join room: %w", err)
	}

	var joinAck joinRoomAck
	if err := gojson.Unmarshal(ack, &joinAck); err != nil {
		s.manager.Disconnect("room/" + params.RoomCode)
		return JoinRoomResponse{}, fmt.Errorf("failed to decode join room ack: %w", err)
	}
	if !joinAck.Success {
		s.manager.Disconnect("room/" + params.RoomCode)
		return JoinRoomResponse{}, fmt.Errorf("%w: %s", ErrJoinRejected, joinAck.Error)
	}

	s.store.SetRoomData(&store.RoomData{
		Room:          checkResp.Room,
		Messages:      joinAck.LatestMessages,
		Members:       joinAck.Members,
		PlaylistItems: joinAck.PlaylistItems,
		Settings:      joinAck.Settings,
		PlayerState:   joinAck.CurrentState,
	})

	s.mu.Lock()
	s.conn = conn
	s.roomCode = params.RoomCode
	s.kicked = false
	s.mu.Unlock()

	if joinAck.CurrentState != nil {
		s.applyPlayerState(ctx, *joinAck.CurrentState)
	}

	s.log.Info("joined room", "room_code", params.RoomCode)

	return s.currentResponse(), nil
}

func (s *service) currentResponse() JoinRoomResponse {
	resp := JoinRoomResponse{
		Members:  s.store.Members(),
		Messages: s.store.Messages(),
		Playlist: s.store.Playlist(),
		Settings: s.store.Settings(),
	}
	if room, ok := s.store.Room(); ok {
		resp.Room = room
	}
	if state, ok := s.store.PlayerState(); ok {
		resp.PlayerState = &state
	}
	return resp
}

// LeaveRoom clears the session store and tears down the room connection.
// Safe to call when not joined.
func (s *service) LeaveRoom() {
	s.mu.Lock()
	roomCode := s.roomCode
	s.conn = nil
	s.roomCode = ""
	s.mu.Unlock()

	s.store.ClearRoom()

	if roomCode != "" {
		s.manager.Disconnect("room/" + roomCode)
		s.log.Info("left room", "room_code", roomCode)
	}
}

// LoadMoreMessages backfills one page of chat history older than the
// current cursor.
func (s *service) LoadMoreMessages(ctx context.Context) (int, error) {
	loaded, err := s.store.LoadMoreMessages(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNoActiveRoom) || errors.Is(err, store.ErrNoCursor) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to load more messages: %w", err)
	}

	return loaded, nil
}
