package api_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinesync/client/internal/api"
	"github.com/cinesync/client/internal/domain"
	"github.com/cinesync/client/internal/fakeserver"
)

func newTestClient(t *testing.T) (*api.Client, *fakeserver.Server) {
	t.Helper()

	srv := fakeserver.New()
	t.Cleanup(srv.Close)

	return api.NewClient(srv.URL(), nil, slog.Default()), srv
}

func TestCheckRoom(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	srv.AddRoom(&fakeserver.Room{
		Room:    domain.Room{Code: "MOVIE1", Name: "movie night", Type: domain.RoomTypePublic, Active: true},
		IsOwner: true,
	})

	resp, err := c.CheckRoom(ctx, "MOVIE1")
	require.NoError(t, err)
	assert.Equal(t, "MOVIE1", resp.Room.Code)
	assert.Equal(t, "movie night", resp.Room.Name)
	assert.True(t, resp.IsOwner)

	_, err = c.CheckRoom(ctx, "NOSUCH1")
	assert.ErrorIs(t, err, api.ErrRoomNotFound)
}

func TestVerifyPassword(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	srv.AddRoom(&fakeserver.Room{
		Room:     domain.Room{Code: "SECRET1", Type: domain.RoomTypePrivate, Active: true},
		Password: "hunter2",
	})

	ok, err := c.VerifyPassword(ctx, "SECRET1", "hunter2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.VerifyPassword(ctx, "SECRET1", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.VerifyPassword(ctx, "NOSUCH1", "hunter2")
	assert.ErrorIs(t, err, api.ErrRoomNotFound)
}

func TestCreateRoom(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	password := "hunter2"
	room, err := c.CreateRoom(ctx, &api.CreateRoomParams{
		Name:     "friday night",
		Type:     domain.RoomTypePrivate,
		Password: &password,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, room.Code)
	assert.Equal(t, "friday night", room.Name)
	assert.Equal(t, domain.RoomTypePrivate, room.Type)
	assert.True(t, room.Active)

	// round trip through the lookup endpoint
	resp, err := c.CheckRoom(ctx, room.Code)
	require.NoError(t, err)
	assert.Equal(t, room.Code, resp.Room.Code)

	_, err = c.CreateRoom(ctx, &api.CreateRoomParams{Name: "", Type: domain.RoomTypePublic})
	assert.Error(t, err, "empty name must fail validation")

	_, err = c.CreateRoom(ctx, &api.CreateRoomParams{Name: "x", Type: "hidden"})
	assert.Error(t, err, "unknown room type must fail validation")
}

func TestFetchMessages(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	messages := make([]domain.Message, 30)
	for i := range messages {
		messages[i] = domain.Message{
			Id:     fmt.Sprintf("m%02d", i+1),
			Type:   domain.MessageTypeRegular,
			SentAt: int64(1000 + i),
		}
	}
	srv.AddRoom(&fakeserver.Room{
		Room:     domain.Room{Code: "MOVIE1", Type: domain.RoomTypePublic, Active: true},
		Messages: messages,
	})

	page, err := c.FetchMessages(ctx, "MOVIE1", "", 10)
	require.NoError(t, err)
	require.Len(t, page, 10)
	assert.Equal(t, "m30", page[0].Id, "pages come newest first")
	assert.Equal(t, "m21", page[9].Id)

	page, err = c.FetchMessages(ctx, "MOVIE1", "m21", 10)
	require.NoError(t, err)
	require.Len(t, page, 10)
	assert.Equal(t, "m20", page[0].Id, "before cursor excludes the cursor message")

	_, err = c.FetchMessages(ctx, "NOSUCH1", "", 10)
	assert.ErrorIs(t, err, api.ErrRoomNotFound)
}
