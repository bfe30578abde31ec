package room

import (
	"context"
	"errors"
	"fmt"

	gojson "github.com/goccy/go-json"

	"github.com/cinesync/client/internal/domain"
)

var ErrItemNotFound = errors.New("playlist item not found")

type addItemRequest struct {
	RoomCode string `json:"roomCode"`
	MediaId  string `json:"mediaId"`
}

// AddItem queues a media item. The item appears in the store only via the
// playlistUpdated broadcast, which carries the server-assigned item id the
// optimistic path would not have.
func (s *service) AddItem(ctx context.Context, mediaId string) error {
	conn, roomCode, err := s.activeConn()
	if err != nil {
		return err
	}

	ack, err := conn.Request(ctx, domain.RequestAddItem, addItemRequest{
		RoomCode: roomCode,
		MediaId:  mediaId,
	})
	if err != nil {
		return fmt.Errorf("failed to add playlist item: %w", err)
	}

	var resp ackResponse
	if err := gojson.Unmarshal(ack, &resp); err != nil {
		return fmt.Errorf("failed to decode add item ack: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("add item rejected: %s", resp.Error)
	}

	return nil
}

type removeItemRequest struct {
	RoomCode string `json:"roomCode"`
	ItemId   string `json:"itemId"`
}

// RemoveItem removes an item optimistically and confirms with the server.
// The broadcast echo is idempotent against the already-removed item; on a
// rejected request the next broadcast is the corrective backstop.
func (s *service) RemoveItem(ctx context.Context, itemId string) error {
	conn, roomCode, err := s.activeConn()
	if err != nil {
		return err
	}

	if _, ok := s.store.PlaylistItem(itemId); !ok {
		return ErrItemNotFound
	}
	s.store.RemovePlaylistItem(itemId)

	ack, err := conn.Request(ctx, domain.RequestRemoveItem, removeItemRequest{
		RoomCode: roomCode,
		ItemId:   itemId,
	})
	if err != nil {
		return fmt.Errorf("failed to remove playlist item: %w", err)
	}

	var resp ackResponse
	if err := gojson.Unmarshal(ack, &resp); err != nil {
		return fmt.Errorf("failed to decode remove item ack: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("remove item rejected: %s", resp.Error)
	}

	return nil
}

type reorderItemRequest struct {
	RoomCode    string `json:"roomCode"`
	ItemId      string `json:"itemId"`
	NewPosition int    `json:"newPosition"`
}

// Reorder applies the drag-end move synchronously through the coordinator,
// then confirms with the server. A failed or rejected request rolls the
// optimistic order back; the self-echo of an accepted reorder is discarded
// by the coordinator.
func (s *service) Reorder(ctx context.Context, oldIndex, newIndex int) error {
	conn, roomCode, err := s.activeConn()
	if err != nil {
		return err
	}

	items := s.store.Playlist()
	if oldIndex < 0 || oldIndex >= len(items) {
		return ErrItemNotFound
	}
	item := items[oldIndex]

	if err := s.coord.BeginReorder(oldIndex, newIndex); err != nil {
		return fmt.Errorf("failed to apply optimistic reorder: %w", err)
	}

	ack, err := conn.Request(ctx, domain.RequestReorderItem, reorderItemRequest{
		RoomCode:    roomCode,
		ItemId:      item.Id,
		NewPosition: newIndex + 1,
	})
	if err != nil {
		s.coord.RollbackReorder()
		return fmt.Errorf("failed to reorder playlist item: %w", err)
	}

	var resp ackResponse
	if err := gojson.Unmarshal(ack, &resp); err != nil {
		s.coord.RollbackReorder()
		return fmt.Errorf("failed to decode reorder ack: %w", err)
	}
	if !resp.Success {
		s.coord.RollbackReorder()
		return fmt.Errorf("reorder rejected: %s", resp.Error)
	}

	s.coord.CommitReorder()

	return nil
}
