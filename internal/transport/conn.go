package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/cinesync/client/internal/domain"
)

var (
	ErrConnClosed = errors.New("connection closed")
	ErrAckTimeout = errors.New("request acknowledgment timed out")
)

type State string

const (
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateDisconnected State = "disconnected"
)

// HandlerFunc receives the raw payload of a pushed event.
type HandlerFunc func(payload []byte)

const writeTimeout = 5 * time.Second

// Conn is one logical socket to a namespace. It owns the read pump,
// dispatches pushed events to registered handlers, correlates request
// acknowledgments by request id, and redials with a bounded fixed-delay
// policy when the read pump fails. Once the attempts are exhausted the conn
// stays in StateDisconnected until closed and replaced.
type Conn struct {
	url    string
	dialer *websocket.Dialer
	header http.Header
	cfg    Config
	log    *slog.Logger

	writeMu sync.Mutex

	mu            sync.RWMutex
	ws            *websocket.Conn
	state         State
	authenticated bool
	handlers      map[string][]HandlerFunc
	pending       map[string]chan []byte
	stateFn       func(State)

	auth      chan struct{}
	authOnce  sync.Once
	done      chan struct{}
	closeOnce sync.Once
}

func newConn(url string, dialer *websocket.Dialer, header http.Header, cfg Config, log *slog.Logger) *Conn {
	return &Conn{
		url:      url,
		dialer:   dialer,
		header:   header,
		cfg:      cfg,
		log:      log,
		state:    StateConnecting,
		handlers: make(map[string][]HandlerFunc),
		pending:  make(map[string]chan []byte),
		auth:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (c *Conn) open(ctx context.Context) error {
	ws, _, err := c.dialer.DialContext(ctx, c.url, c.header)
	if err != nil {
		c.setState(StateDisconnected)
		return fmt.Errorf("failed to dial %s: %w", c.url, err)
	}

	c.mu.Lock()
	c.ws = ws
	c.mu.Unlock()
	c.setState(StateConnected)

	go c.readLoop()

	return nil
}

func (c *Conn) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Conn) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authenticated
}

func (c *Conn) markAuthenticated() {
	c.mu.Lock()
	c.authenticated = true
	c.mu.Unlock()
}

// OnStateChange registers a single callback invoked on every state
// transition. Replaces any previous callback.
func (c *Conn) OnStateChange(fn func(State)) {
	c.mu.Lock()
	c.stateFn = fn
	c.mu.Unlock()
}

func (c *Conn) setState(s State) {
	c.mu.Lock()
	if c.state == s {
		c.mu.Unlock()
		return
	}
	c.state = s
	fn := c.stateFn
	c.mu.Unlock()

	c.log.Debug("transport conn state changed", "url", c.url, "state", s)
	if fn != nil {
		fn(s)
	}
}

// On registers a handler for a pushed event type.
func (c *Conn) On(eventType string, h HandlerFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[eventType] = append(c.handlers[eventType], h)
}

// Off removes all handlers for a pushed event type.
func (c *Conn) Off(eventType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.handlers, eventType)
}

// Emit writes a fire-and-forget frame.
func (c *Conn) Emit(eventType string, payload any) error {
	data, err := encodeFrame(eventType, "", payload)
	if err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}

	return c.write(data)
}

// Request writes a frame carrying a generated request id and blocks until
// the server acknowledges it, the context is done, the ack timeout elapses
// or the connection closes. Returns the raw ack payload.
func (c *Conn) Request(ctx context.Context, eventType string, payload any) ([]byte, error) {
	requestId := uuid.NewString()

	data, err := encodeFrame(eventType, requestId, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}

	ackCh := make(chan []byte, 1)
	c.mu.Lock()
	c.pending[requestId] = ackCh
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, requestId)
		c.mu.Unlock()
	}()

	if err := c.write(data); err != nil {
		return nil, err
	}

	timer := time.NewTimer(c.cfg.AckTimeout)
	defer timer.Stop()

	select {
	case ack := <-ackCh:
		return ack, nil
	case <-timer.C:
		return nil, fmt.Errorf("%w: %s", ErrAckTimeout, eventType)
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, ErrConnClosed
	}
}

func (c *Conn) write(data []byte) error {
	c.mu.RLock()
	ws := c.ws
	state := c.state
	c.mu.RUnlock()

	if ws == nil || state != StateConnected {
		return ErrConnClosed
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	return nil
}

func (c *Conn) readLoop() {
	for {
		c.mu.RLock()
		ws := c.ws
		c.mu.RUnlock()

		if ws == nil {
			return
		}

		_, data, err := ws.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				return
			default:
			}

			c.log.Info("transport read failed", "url", c.url, "err", err)
			if !c.reconnect() {
				return
			}
			continue
		}

		f, err := decodeFrame(data)
		if err != nil {
			c.log.Info("failed to decode frame", "url", c.url, "err", err)
			continue
		}

		c.dispatch(f)
	}
}

func (c *Conn) dispatch(f frame) {
	if f.Type == domain.EventAuthenticated {
		c.authOnce.Do(func() {
			c.markAuthenticated()
			close(c.auth)
		})
	}

	if f.RequestId != "" {
		c.mu.Lock()
		ackCh, ok := c.pending[f.RequestId]
		if ok {
			delete(c.pending, f.RequestId)
		}
		c.mu.Unlock()

		if ok {
			ackCh <- f.Payload
			return
		}
	}

	c.mu.RLock()
	handlers := make([]HandlerFunc, len(c.handlers[f.Type]))
	copy(handlers, c.handlers[f.Type])
	c.mu.RUnlock()

	if len(handlers) == 0 {
		c.log.Debug("no handler for event", "type", f.Type)
		return
	}

	for _, h := range handlers {
		h(f.Payload)
	}
}

// reconnect redials with a fixed delay between attempts. Reports whether a
// new socket was established; on exhaustion the conn goes terminal.
func (c *Conn) reconnect() bool {
	c.setState(StateConnecting)

	for attempt := 1; attempt <= c.cfg.ReconnectAttempts; attempt++ {
		select {
		case <-c.done:
			return false
		case <-time.After(c.cfg.ReconnectDelay):
		}

		c.log.Info("reconnecting", "url", c.url, "attempt", attempt)
		ws, _, err := c.dialer.Dial(c.url, c.header)
		if err == nil {
			c.mu.Lock()
			if c.ws != nil {
				c.ws.Close()
			}
			c.ws = ws
			c.mu.Unlock()
			c.setState(StateConnected)
			return true
		}

		c.log.Info("reconnect attempt failed", "url", c.url, "attempt", attempt, "err", err)
	}

	c.log.Info("reconnect attempts exhausted", "url", c.url)
	c.setState(StateDisconnected)
	return false
}

func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		ws := c.ws
		c.ws = nil
		c.mu.Unlock()

		if ws != nil {
			ws.Close()
		}

		c.setState(StateDisconnected)
	})

	return nil
}
