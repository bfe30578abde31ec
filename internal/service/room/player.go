package room

import (
	"context"
	"fmt"
	"time"

	gojson "github.com/goccy/go-json"

	"github.com/cinesync/client/internal/domain"
	"github.com/cinesync/client/internal/repository/history"
)

type playbackIntentRequest struct {
	RoomCode    string  `json:"roomCode"`
	CurrentTime float64 `json:"currentTime"`
	IsPlaying   bool    `json:"isPlaying"`
}

// Playback intents never mutate local state directly: the server is the
// single source of truth, and the media element follows only the echoed
// authoritative videoChanged event.

func (s *service) Play(ctx context.Context, currentTime float64) error {
	return s.sendPlaybackIntent(ctx, domain.RequestPlay, currentTime, true)
}

func (s *service) Pause(ctx context.Context, currentTime float64) error {
	return s.sendPlaybackIntent(ctx, domain.RequestPause, currentTime, false)
}

func (s *service) Seek(ctx context.Context, currentTime float64) error {
	return s.sendPlaybackIntent(ctx, domain.RequestSeek, currentTime, true)
}

func (s *service) Next(ctx context.Context, currentTime float64) error {
	return s.sendPlaybackIntent(ctx, domain.RequestNext, currentTime, true)
}

func (s *service) Previous(ctx context.Context, currentTime float64) error {
	return s.sendPlaybackIntent(ctx, domain.RequestPrevious, currentTime, true)
}

func (s *service) sendPlaybackIntent(ctx context.Context, request string, currentTime float64, isPlaying bool) error {
	conn, roomCode, err := s.activeConn()
	if err != nil {
		return err
	}

	ack, err := conn.Request(ctx, request, playbackIntentRequest{
		RoomCode:    roomCode,
		CurrentTime: currentTime,
		IsPlaying:   isPlaying,
	})
	if err != nil {
		return fmt.Errorf("failed to send %s intent: %w", request, err)
	}

	var resp ackResponse
	if err := gojson.Unmarshal(ack, &resp); err != nil {
		return fmt.Errorf("failed to decode %s ack: %w", request, err)
	}
	if !resp.Success {
		return fmt.Errorf("%s intent rejected: %s", request, resp.Error)
	}

	return nil
}

// RunSync periodically re-reconciles the media element against the cached
// authoritative state and records local watch progress. Returns when the
// context is done.
func (s *service) RunSync(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.engine.Sync()
			s.recordProgress(ctx)
		}
	}
}

// recordProgress persists the local resume position. Skipped inside the
// post-seek guard window so externally imposed corrections are not echoed
// back as local progress.
func (s *service) recordProgress(ctx context.Context) {
	if s.history == nil || s.engine.SuppressLocalEcho() {
		return
	}

	state, ok := s.store.PlayerState()
	if !ok {
		return
	}

	item, ok := s.store.PlaylistItem(state.PlaylistItemId)
	if !ok {
		return
	}

	if err := s.history.SetResumePosition(ctx, &history.SetResumePositionParams{
		ProfileId:       s.cfg.ProfileId,
		MediaId:         item.MediaId,
		PositionSeconds: s.engine.CurrentTime(),
		UpdatedAt:       time.Now().UnixMilli(),
	}); err != nil {
		s.log.Info("failed to record resume position", "err", err)
	}
}
