package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var ErrHandshakeTimeout = errors.New("authentication handshake timed out")

type Config struct {
	HandshakeTimeout  time.Duration
	AckTimeout        time.Duration
	ReconnectAttempts int
	ReconnectDelay    time.Duration
}

func (cfg Config) withDefaults() Config {
	if cfg.HandshakeTimeout == 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	if cfg.AckTimeout == 0 {
		cfg.AckTimeout = 10 * time.Second
	}
	if cfg.ReconnectAttempts == 0 {
		cfg.ReconnectAttempts = 5
	}
	if cfg.ReconnectDelay == 0 {
		cfg.ReconnectDelay = 3 * time.Second
	}
	return cfg
}

// Manager keeps at most one live conn per namespace. It is constructed once
// per application session and passed down to everything that needs the
// room socket.
type Manager struct {
	baseURL string
	header  http.Header
	dialer  *websocket.Dialer
	cfg     Config
	log     *slog.Logger

	mu    sync.Mutex
	conns map[string]*Conn
}

func NewManager(baseURL string, header http.Header, cfg Config, log *slog.Logger) *Manager {
	return &Manager{
		baseURL: baseURL,
		header:  header,
		dialer:  websocket.DefaultDialer,
		cfg:     cfg.withDefaults(),
		log:     log,
		conns:   make(map[string]*Conn),
	}
}

// Connect returns the namespace's live conn if one exists, otherwise dials
// a new one and registers it. Idempotent.
func (m *Manager) Connect(ctx context.Context, namespace string) (*Conn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if conn, ok := m.conns[namespace]; ok {
		if conn.State() != StateDisconnected {
			m.log.Debug("reusing connection", "namespace", namespace)
			return conn, nil
		}
		// terminal conn, replace it
		conn.Close()
		delete(m.conns, namespace)
	}

	url := fmt.Sprintf("%s/ws/%s", m.baseURL, namespace)
	conn := newConn(url, m.dialer, m.header, m.cfg, m.log)
	if err := conn.open(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to namespace %s: %w", namespace, err)
	}

	m.conns[namespace] = conn
	m.log.Info("connected", "namespace", namespace)

	return conn, nil
}

// Disconnect closes and evicts the namespace's conn. No-op if absent.
func (m *Manager) Disconnect(namespace string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conn, ok := m.conns[namespace]
	if !ok {
		return
	}

	conn.Close()
	delete(m.conns, namespace)
	m.log.Info("disconnected", "namespace", namespace)
}

// Get returns the namespace's conn without dialing.
func (m *Manager) Get(namespace string) (*Conn, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conn, ok := m.conns[namespace]
	return conn, ok
}

// ConnectRoom connects to a room namespace and waits for the server's
// authenticated event before handing the conn out. A conn that already
// completed the handshake is reused. If the event does not arrive within
// the handshake timeout the socket is closed and evicted so no half-open
// conn stays registered.
func (m *Manager) ConnectRoom(ctx context.Context, roomCode string) (*Conn, error) {
	namespace := "room/" + roomCode

	if conn, ok := m.Get(namespace); ok && conn.State() == StateConnected && conn.Authenticated() {
		return conn, nil
	}

	conn, err := m.Connect(ctx, namespace)
	if err != nil {
		return nil, err
	}
	if conn.Authenticated() {
		return conn, nil
	}

	timer := time.NewTimer(m.cfg.HandshakeTimeout)
	defer timer.Stop()

	select {
	case <-conn.auth:
		m.log.Info("room connection authenticated", "room_code", roomCode)
		return conn, nil
	case <-timer.C:
		m.Disconnect(namespace)
		return nil, fmt.Errorf("%w: room %s", ErrHandshakeTimeout, roomCode)
	case <-conn.done:
		m.Disconnect(namespace)
		return nil, ErrConnClosed
	case <-ctx.Done():
		m.Disconnect(namespace)
		return nil, ctx.Err()
	}
}
