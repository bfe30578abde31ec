// Package fakeserver is an in-process room service implementing the
// message contracts the client integrates against. Test infrastructure
// only: state is fixture-seeded and behavior is deliberately minimal.
package fakeserver

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/cinesync/client/internal/domain"
)

type Room struct {
	Room     domain.Room
	IsOwner  bool
	Password string
	Messages []domain.Message
	Members  []domain.Member
	Playlist []domain.PlaylistItem
	Settings domain.RoomSettings
	State    *domain.PlayerState
}

type frame struct {
	Type      string            `json:"type"`
	RequestId string            `json:"request_id,omitempty"`
	Payload   gojson.RawMessage `json:"payload,omitempty"`
}

type Server struct {
	// WithholdAuth suppresses the authenticated handshake event so
	// handshake-timeout behavior can be exercised.
	WithholdAuth bool
	// PageSize is the message page size served on join and backfill.
	PageSize int

	upgrader websocket.Upgrader
	server   *httptest.Server

	mu    sync.Mutex
	rooms map[string]*Room
	conns map[string][]*wsConn
}

type wsConn struct {
	ws        *websocket.Conn
	profileId string
	writeMu   sync.Mutex
}

func New() *Server {
	s := &Server{
		PageSize: 50,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		rooms: make(map[string]*Room),
		conns: make(map[string][]*wsConn),
	}

	r := chi.NewRouter()
	r.Get("/api/rooms/{room-code}", s.handleCheckRoom)
	r.Post("/api/rooms/{room-code}/verify-password", s.handleVerifyPassword)
	r.Post("/api/rooms", s.handleCreateRoom)
	r.Get("/api/rooms/{room-code}/messages", s.handleMessages)
	r.HandleFunc("/ws/room/{room-code}", s.handleWS)

	s.server = httptest.NewServer(r)

	return s
}

// URL is the HTTP base URL.
func (s *Server) URL() string {
	return s.server.URL
}

// WSURL is the websocket base URL.
func (s *Server) WSURL() string {
	return "ws" + strings.TrimPrefix(s.server.URL, "http")
}

func (s *Server) Close() {
	s.mu.Lock()
	for _, conns := range s.conns {
		for _, conn := range conns {
			conn.ws.Close()
		}
	}
	s.conns = make(map[string][]*wsConn)
	s.mu.Unlock()

	s.server.Close()
}

func (s *Server) AddRoom(room *Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.Room.Code] = room
}

func (s *Server) GetRoom(roomCode string) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms[roomCode]
}

// Push broadcasts a pushed event to every conn of the room.
func (s *Server) Push(roomCode, eventType string, payload any) {
	data, err := gojson.Marshal(payload)
	if err != nil {
		return
	}

	s.mu.Lock()
	conns := make([]*wsConn, len(s.conns[roomCode]))
	copy(conns, s.conns[roomCode])
	s.mu.Unlock()

	for _, conn := range conns {
		conn.writeFrame(frame{Type: eventType, Payload: data})
	}
}

func (c *wsConn) writeFrame(f frame) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	data, err := gojson.Marshal(f)
	if err != nil {
		return
	}
	c.ws.WriteMessage(websocket.TextMessage, data)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	data, _ := gojson.Marshal(body)
	w.Write(data)
}

func (s *Server) handleCheckRoom(w http.ResponseWriter, r *http.Request) {
	room := s.GetRoom(chi.URLParam(r, "room-code"))
	if room == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "room not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"room":     room.Room,
		"is_owner": room.IsOwner,
	})
}

func (s *Server) handleVerifyPassword(w http.ResponseWriter, r *http.Request) {
	room := s.GetRoom(chi.URLParam(r, "room-code"))
	if room == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "room not found"})
		return
	}

	var body struct {
		Password string `json:"password"`
	}
	if err := gojson.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad request"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{
		"is_authenticated": body.Password == room.Password,
	})
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string          `json:"name"`
		Type     domain.RoomType `json:"type"`
		Password *string         `json:"password"`
	}
	if err := gojson.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad request"})
		return
	}

	code := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	room := &Room{
		Room: domain.Room{
			Code:   code,
			Name:   body.Name,
			Type:   body.Type,
			Active: true,
		},
		IsOwner: true,
	}
	if body.Password != nil {
		room.Password = *body.Password
	}
	s.AddRoom(room)

	writeJSON(w, http.StatusCreated, room.Room)
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	room := s.GetRoom(chi.URLParam(r, "room-code"))
	if room == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "room not found"})
		return
	}

	before := r.URL.Query().Get("before")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = s.PageSize
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"messages": pageBefore(room.Messages, before, limit),
	})
}

// pageBefore slices a page of at most limit messages older than beforeId
// out of the chronological fixture list, returned newest-first.
func pageBefore(chronological []domain.Message, beforeId string, limit int) []domain.Message {
	end := len(chronological)
	if beforeId != "" {
		for i, msg := range chronological {
			if msg.Id == beforeId {
				end = i
				break
			}
		}
	}

	start := end - limit
	if start < 0 {
		start = 0
	}

	page := make([]domain.Message, 0, end-start)
	for i := end - 1; i >= start; i-- {
		page = append(page, chronological[i])
	}
	return page
}
