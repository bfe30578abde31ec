package playlist

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/cinesync/client/internal/domain"
	"github.com/cinesync/client/internal/store"
)

var ErrNoPendingReorder = errors.New("no pending reorder")

// Coordinator applies local playlist edits optimistically and reconciles
// server broadcast echoes against them. A reorder echoed back to its own
// originator is discarded: the optimistic move already reflects the order,
// and reapplying the relayed positions risks flicker against further local
// edits in flight. Self adds and removes are applied anyway; they are
// idempotent and carry the canonical server-assigned item ids the
// optimistic path does not have.
type Coordinator struct {
	store       *store.Store
	localUserId string
	log         *slog.Logger

	mu       sync.Mutex
	snapshot []domain.PlaylistItem
	pending  bool
}

func NewCoordinator(st *store.Store, localUserId string, log *slog.Logger) *Coordinator {
	return &Coordinator{
		store:       st,
		localUserId: localUserId,
		log:         log,
	}
}

// BeginReorder applies the local move immediately and snapshots the prior
// order so a failed request can be rolled back.
func (c *Coordinator) BeginReorder(oldIndex, newIndex int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot, err := c.store.ReorderPlaylist(oldIndex, newIndex)
	if err != nil {
		return err
	}

	c.snapshot = snapshot
	c.pending = true
	return nil
}

// CommitReorder drops the rollback snapshot once the server accepted the
// reorder request.
func (c *Coordinator) CommitReorder() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot = nil
	c.pending = false
}

// RollbackReorder restores the pre-reorder order after a failed or
// timed-out request. A later server broadcast still overwrites whatever
// this restores.
func (c *Coordinator) RollbackReorder() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.pending {
		return ErrNoPendingReorder
	}

	c.store.SetPlaylistItems(c.snapshot)
	c.snapshot = nil
	c.pending = false
	return nil
}

// ApplyServerEvent feeds a playlistUpdated broadcast through the
// actor-matching rules and mutates the store accordingly.
func (c *Coordinator) ApplyServerEvent(event domain.PlaylistUpdateEvent) {
	self := event.ActorId() == c.localUserId

	switch event.Action {
	case domain.PlaylistActionAdd:
		c.store.AddPlaylistItem(event.Item)
	case domain.PlaylistActionRemove:
		c.store.RemovePlaylistItem(event.Item.Id)
	case domain.PlaylistActionReorder:
		if self {
			c.log.Debug("discarding self reorder echo", "item_id", event.Item.Id)
			return
		}
		c.store.UpdatePlaylistItemPosition(event.Item.Id, event.Item.Position)
	default:
		c.log.Info("unknown playlist action", "action", event.Action)
	}
}
