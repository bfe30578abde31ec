package playback

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/cinesync/client/internal/domain"
)

var ErrContentUnavailable = errors.New("content unavailable")

const (
	// driftTolerance is how far the local clock may diverge from the
	// corrected target before the engine snaps it.
	driftTolerance = 1.0
	// echoGuard is the window after a forced seek during which local
	// timeupdate-driven emissions are suppressed.
	echoGuard = 100 * time.Millisecond
)

// TargetTime computes the corrected playback target for an authoritative
// state: while playing, the recorded time is extrapolated forward by the
// wall-clock seconds elapsed since the server recorded it; while paused it
// is taken verbatim.
func TargetTime(state domain.PlayerState, now time.Time) float64 {
	if state.Status != domain.PlaybackStatusPlaying {
		return state.CurrentTime
	}

	latencySeconds := float64(now.UnixMilli()-state.UpdatedAt) / 1000
	if latencySeconds < 0 {
		latencySeconds = 0
	}

	return state.CurrentTime + latencySeconds
}

// Engine keeps a media element within driftTolerance of the most recently
// received authoritative state. It owns only the derived corrected time;
// the canonical state stays server-owned and cached elsewhere.
type Engine struct {
	media MediaElement
	log   *slog.Logger
	now   func() time.Time

	mu          sync.Mutex
	state       domain.PlayerState
	hasState    bool
	unavailable bool
	guardUntil  time.Time
}

func NewEngine(media MediaElement, log *slog.Logger) *Engine {
	return &Engine{
		media: media,
		log:   log,
		now:   time.Now,
	}
}

// Apply takes a newly received authoritative state and reconciles the
// media element against it. Stale states (older server timestamp than the
// one already applied) are ignored; application is last-write-wins.
// Reports whether the state was applied.
func (e *Engine) Apply(state domain.PlayerState) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.hasState && state.UpdatedAt < e.state.UpdatedAt {
		e.log.Debug("ignoring stale player state", "updated_at", state.UpdatedAt)
		return false
	}

	e.state = state
	e.hasState = true
	e.reconcile()
	return true
}

// Sync re-reconciles against the cached state extrapolated to now. Called
// periodically so independent local playback drift gets corrected between
// server events.
func (e *Engine) Sync() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasState {
		return
	}
	e.reconcile()
}

func (e *Engine) reconcile() {
	if e.unavailable {
		return
	}

	now := e.now()
	target := TargetTime(e.state, now)
	actual := e.media.CurrentTime()

	if math.Abs(target-actual) > driftTolerance {
		e.log.Debug("snapping media time", "target", target, "actual", actual)
		e.media.Seek(target)
		e.guardUntil = now.Add(echoGuard)
	}

	// leveled, not edge-triggered: reapplying a no-op state must not stutter
	if e.state.Status == domain.PlaybackStatusPlaying && e.media.Paused() {
		if err := e.media.Play(); err != nil {
			e.log.Info("failed to start playback", "err", err)
		}
	} else if e.state.Status == domain.PlaybackStatusPaused && !e.media.Paused() {
		e.media.Pause()
	}
}

// CurrentTime reads the media element's local clock.
func (e *Engine) CurrentTime() float64 {
	return e.media.CurrentTime()
}

// SuppressLocalEcho reports whether a locally observed timeupdate falls in
// the guard window after a forced seek and must not be emitted, breaking
// the feedback loop between local drift and external corrections.
func (e *Engine) SuppressLocalEcho() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now().Before(e.guardUntil)
}

// LoadItem resolves the playable stream URL for a playlist item. With no
// playable URL the engine enters a content-unavailable state that blocks
// reconciliation until the next successful load; it never retries on its
// own.
func (e *Engine) LoadItem(item domain.PlaylistItem) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	url, err := SelectStreamURL(item)
	if err != nil {
		e.unavailable = true
		return "", fmt.Errorf("failed to load item %s: %w", item.Id, err)
	}

	e.unavailable = false
	return url, nil
}

func (e *Engine) ContentUnavailable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.unavailable
}

// SelectStreamURL picks the playable URL for an item across the storage
// backend fallback fields, HLS manifest first.
func SelectStreamURL(item domain.PlaylistItem) (string, error) {
	for _, url := range []*string{item.HLSURL, item.CDNURL, item.FileURL} {
		if url != nil && *url != "" {
			return *url, nil
		}
	}

	return "", fmt.Errorf("%w: item %s has no stream url", ErrContentUnavailable, item.Id)
}
