package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cinesync/client/internal/domain"
)

var (
	ErrNoActiveRoom = errors.New("no active room")
	ErrNoCursor     = errors.New("no backfill cursor")
)

// MessageFetcher loads a page of chat history older than beforeId. Pages
// come back newest-first, the way the room service serves them.
type MessageFetcher func(ctx context.Context, roomCode, beforeId string, limit int) ([]domain.Message, error)

type RoomData struct {
	Room          domain.Room
	Messages      []domain.Message
	Members       []domain.Member
	PlaylistItems []domain.PlaylistItem
	Settings      domain.RoomSettings
	PlayerState   *domain.PlayerState
}

// Store is the single source of truth for one active room. All collections
// are mutated only through its methods; readers get copies and must not
// hold mutable references.
type Store struct {
	log      *slog.Logger
	fetcher  MessageFetcher
	pageSize int

	loadMu sync.Mutex

	mu        sync.RWMutex
	room      *domain.Room
	settings  domain.RoomSettings
	messages  []domain.Message
	members   []domain.Member
	playlist  []domain.PlaylistItem
	player    domain.PlayerState
	hasPlayer bool
	cursor    string
	hasMore   bool
}

func New(fetcher MessageFetcher, pageSize int, log *slog.Logger) *Store {
	return &Store{
		log:      log,
		fetcher:  fetcher,
		pageSize: pageSize,
	}
}

// SetRoomData bulk-replaces all collections after a successful join. The
// initial message batch arrives newest-first; it is reversed to
// chronological order, the backfill cursor points at its oldest message,
// and a full-sized batch signals that more history may be available.
func (s *Store) SetRoomData(data *RoomData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room := data.Room
	s.room = &room
	s.settings = data.Settings

	s.messages = reverseMessages(data.Messages)
	s.cursor = ""
	if len(s.messages) > 0 {
		s.cursor = s.messages[0].Id
	}
	s.hasMore = len(data.Messages) == s.pageSize

	s.members = make([]domain.Member, len(data.Members))
	copy(s.members, data.Members)

	s.playlist = make([]domain.PlaylistItem, len(data.PlaylistItems))
	copy(s.playlist, data.PlaylistItems)
	s.sortPlaylist()

	s.hasPlayer = false
	if data.PlayerState != nil {
		s.player = *data.PlayerState
		s.hasPlayer = true
	}

	s.log.Debug("room data set",
		"room_code", room.Code,
		"messages", len(s.messages),
		"members", len(s.members),
		"playlist", len(s.playlist),
	)
}

// ClearRoom resets the store to its initial empty state.
func (s *Store) ClearRoom() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.room = nil
	s.settings = domain.RoomSettings{}
	s.messages = nil
	s.members = nil
	s.playlist = nil
	s.player = domain.PlayerState{}
	s.hasPlayer = false
	s.cursor = ""
	s.hasMore = false
}

func (s *Store) Room() (domain.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.room == nil {
		return domain.Room{}, false
	}
	return *s.room, true
}

func (s *Store) Settings() domain.RoomSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *Store) UpdateSettings(settings domain.RoomSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

func (s *Store) Messages() []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := make([]domain.Message, len(s.messages))
	copy(messages, s.messages)
	return messages
}

func (s *Store) HasMoreMessages() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasMore
}

// AddMessage appends a live message to the chronological end. The transport
// delivers at most once per connection, so no dedup happens here.
func (s *Store) AddMessage(msg domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// LoadMoreMessages fetches one page older than the backfill cursor and
// prepends it in chronological order. Returns the number of messages
// loaded.
func (s *Store) LoadMoreMessages(ctx context.Context) (int, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	s.mu.RLock()
	room := s.room
	cursor := s.cursor
	hasMore := s.hasMore
	s.mu.RUnlock()

	if room == nil {
		return 0, ErrNoActiveRoom
	}
	if cursor == "" || !hasMore {
		return 0, ErrNoCursor
	}

	page, err := s.fetcher(ctx, room.Code, cursor, s.pageSize)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch messages before %s: %w", cursor, err)
	}

	chronological := reverseMessages(page)

	s.mu.Lock()
	s.messages = append(chronological, s.messages...)
	if len(chronological) > 0 {
		s.cursor = chronological[0].Id
	}
	s.hasMore = len(page) == s.pageSize
	s.mu.Unlock()

	return len(page), nil
}

func reverseMessages(newestFirst []domain.Message) []domain.Message {
	chronological := make([]domain.Message, len(newestFirst))
	for i, msg := range newestFirst {
		chronological[len(newestFirst)-1-i] = msg
	}
	return chronological
}
