package transport_test

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinesync/client/internal/domain"
	"github.com/cinesync/client/internal/fakeserver"
	"github.com/cinesync/client/internal/transport"
)

func newManager(t *testing.T, srv *fakeserver.Server, cfg transport.Config) *transport.Manager {
	t.Helper()

	header := http.Header{}
	header.Set("X-Profile-Id", "user-1")
	return transport.NewManager(srv.WSURL(), header, cfg, slog.Default())
}

func seedRoom(srv *fakeserver.Server, code string) {
	srv.AddRoom(&fakeserver.Room{
		Room: domain.Room{Code: code, Name: "movie night", Type: domain.RoomTypePublic, Active: true},
	})
}

func TestConnectIdempotent(t *testing.T) {
	srv := fakeserver.New()
	defer srv.Close()
	seedRoom(srv, "ABCD")

	m := newManager(t, srv, transport.Config{})

	conn1, err := m.Connect(context.Background(), "room/ABCD")
	require.NoError(t, err)
	conn2, err := m.Connect(context.Background(), "room/ABCD")
	require.NoError(t, err)

	assert.Same(t, conn1, conn2, "second connect must reuse the live conn")

	got, ok := m.Get("room/ABCD")
	require.True(t, ok)
	assert.Same(t, conn1, got)
}

func TestDisconnectEvicts(t *testing.T) {
	srv := fakeserver.New()
	defer srv.Close()
	seedRoom(srv, "ABCD")

	m := newManager(t, srv, transport.Config{})

	conn, err := m.Connect(context.Background(), "room/ABCD")
	require.NoError(t, err)

	m.Disconnect("room/ABCD")

	_, ok := m.Get("room/ABCD")
	assert.False(t, ok, "disconnect must evict the conn")
	assert.Equal(t, transport.StateDisconnected, conn.State())

	m.Disconnect("room/ABCD") // absent namespace is a no-op
}

func TestConnectRoomWaitsForHandshake(t *testing.T) {
	srv := fakeserver.New()
	defer srv.Close()
	seedRoom(srv, "ABCD")

	m := newManager(t, srv, transport.Config{})

	conn, err := m.ConnectRoom(context.Background(), "ABCD")
	require.NoError(t, err)
	assert.True(t, conn.Authenticated())
	assert.Equal(t, transport.StateConnected, conn.State())

	again, err := m.ConnectRoom(context.Background(), "ABCD")
	require.NoError(t, err)
	assert.Same(t, conn, again, "authenticated conn must be reused")
}

func TestConnectRoomHandshakeTimeout(t *testing.T) {
	srv := fakeserver.New()
	srv.WithholdAuth = true
	defer srv.Close()
	seedRoom(srv, "ABCD")

	m := newManager(t, srv, transport.Config{HandshakeTimeout: 100 * time.Millisecond})

	_, err := m.ConnectRoom(context.Background(), "ABCD")
	require.ErrorIs(t, err, transport.ErrHandshakeTimeout)

	_, ok := m.Get("room/ABCD")
	assert.False(t, ok, "timed-out socket must not stay registered")
}

func TestRequestAck(t *testing.T) {
	srv := fakeserver.New()
	defer srv.Close()
	seedRoom(srv, "ABCD")

	m := newManager(t, srv, transport.Config{AckTimeout: 2 * time.Second})

	conn, err := m.ConnectRoom(context.Background(), "ABCD")
	require.NoError(t, err)

	ack, err := conn.Request(context.Background(), domain.RequestSendMessage, map[string]any{
		"roomCode": "ABCD",
		"content":  "hello",
	})
	require.NoError(t, err)

	var resp struct {
		Success bool `json:"success"`
	}
	require.NoError(t, gojson.Unmarshal(ack, &resp))
	assert.True(t, resp.Success)
}

func TestEventHandlerReceivesPush(t *testing.T) {
	srv := fakeserver.New()
	defer srv.Close()
	seedRoom(srv, "ABCD")

	m := newManager(t, srv, transport.Config{})

	conn, err := m.ConnectRoom(context.Background(), "ABCD")
	require.NoError(t, err)

	received := make(chan []byte, 1)
	conn.On(domain.EventNewMessage, func(payload []byte) {
		received <- payload
	})

	srv.Push("ABCD", domain.EventNewMessage, map[string]string{"hello": "there"})

	select {
	case payload := <-received:
		assert.JSONEq(t, `{"hello":"there"}`, string(payload))
	case <-time.After(2 * time.Second):
		t.Fatal("pushed event never reached the handler")
	}
}

func TestEmitAndOff(t *testing.T) {
	srv := fakeserver.New()
	defer srv.Close()
	seedRoom(srv, "ABCD")

	m := newManager(t, srv, transport.Config{})

	conn, err := m.ConnectRoom(context.Background(), "ABCD")
	require.NoError(t, err)

	received := make(chan []byte, 2)
	conn.On(domain.EventNewMessage, func(payload []byte) {
		received <- payload
	})

	// fire-and-forget frame carries no request id, so no ack comes back,
	// but the server still acts on it and broadcasts
	require.NoError(t, conn.Emit(domain.RequestSendMessage, map[string]any{
		"roomCode": "ABCD",
		"content":  "fire and forget",
	}))

	select {
	case payload := <-received:
		assert.Contains(t, string(payload), "fire and forget")
	case <-time.After(2 * time.Second):
		t.Fatal("emitted message was never broadcast")
	}

	conn.Off(domain.EventNewMessage)
	srv.Push("ABCD", domain.EventNewMessage, map[string]string{"hello": "again"})

	select {
	case <-received:
		t.Fatal("handler fired after removal")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestRequestOnClosedConn(t *testing.T) {
	srv := fakeserver.New()
	defer srv.Close()
	seedRoom(srv, "ABCD")

	m := newManager(t, srv, transport.Config{})

	conn, err := m.ConnectRoom(context.Background(), "ABCD")
	require.NoError(t, err)

	m.Disconnect("room/ABCD")

	_, err = conn.Request(context.Background(), domain.RequestSendMessage, map[string]any{})
	assert.ErrorIs(t, err, transport.ErrConnClosed)
}
