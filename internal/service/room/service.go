package room

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/cinesync/client/internal/api"
	"github.com/cinesync/client/internal/domain"
	"github.com/cinesync/client/internal/playback"
	"github.com/cinesync/client/internal/playlist"
	"github.com/cinesync/client/internal/repository/history"
	"github.com/cinesync/client/internal/store"
	"github.com/cinesync/client/internal/transport"
	"github.com/cinesync/client/pkg/validator"
)

var (
	ErrPasswordRequired = errors.New("password required")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrRoomInactive     = errors.New("room is not active")
	ErrJoinRejected     = errors.New("join rejected")
	ErrNotJoined        = errors.New("not joined to a room")
	ErrKicked           = errors.New("kicked from room")
)

type iRoomAPI interface {
	CheckRoom(ctx context.Context, roomCode string) (api.CheckRoomResponse, error)
	VerifyPassword(ctx context.Context, roomCode, password string) (bool, error)
	FetchMessages(ctx context.Context, roomCode, beforeId string, limit int) ([]domain.Message, error)
}

type iHistoryRepo interface {
	SetResumePosition(ctx context.Context, params *history.SetResumePositionParams) error
	AddRecentlyWatched(ctx context.Context, params *history.AddRecentlyWatchedParams) error
}

type Config struct {
	ProfileId string
	PageSize  int
}

// service drives one client's room session: the join flow, outbound
// intents, and the fanout of pushed events into the session store, the
// playback engine and the playlist coordinator.
type service struct {
	manager  *transport.Manager
	api      iRoomAPI
	history  iHistoryRepo
	store    *store.Store
	engine   *playback.Engine
	coord    *playlist.Coordinator
	validate *validator.Validator
	cfg      *Config
	log      *slog.Logger

	// joinMu serializes join flows so two overlapping joins cannot wire
	// handlers twice or interleave teardown of the previous room.
	joinMu sync.Mutex

	mu       sync.Mutex
	conn     *transport.Conn
	roomCode string
	kicked   bool
}

func NewService(
	manager *transport.Manager,
	roomAPI iRoomAPI,
	historyRepo iHistoryRepo,
	media playback.MediaElement,
	cfg *Config,
	log *slog.Logger,
) *service {
	s := service{
		manager:  manager,
		api:      roomAPI,
		history:  historyRepo,
		engine:   playback.NewEngine(media, log),
		validate: validator.NewValidator(),
		cfg:      cfg,
		log:      log,
	}

	s.store = store.New(roomAPI.FetchMessages, cfg.PageSize, log)
	s.coord = playlist.NewCoordinator(s.store, cfg.ProfileId, log)

	return &s
}

// Store exposes the session store for read-only selector access.
func (s *service) Store() *store.Store {
	return s.store
}

func (s *service) Engine() *playback.Engine {
	return s.engine
}

func (s *service) Kicked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kicked
}

func (s *service) activeConn() (*transport.Conn, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil, "", ErrNotJoined
	}
	return s.conn, s.roomCode, nil
}

// ackResponse is the generic acknowledgment payload of request frames.
type ackResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
