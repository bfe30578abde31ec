package domain

type PlaybackStatus string

const (
	PlaybackStatusPlaying PlaybackStatus = "playing"
	PlaybackStatusPaused  PlaybackStatus = "paused"
)

// PlayerState is the server-authoritative playback state. UpdatedAt is the
// server timestamp (unix milliseconds) at which the state was recorded;
// clients extrapolate forward from it while the status is playing.
type PlayerState struct {
	PlaylistItemId string         `json:"current_playlist_id"`
	Status         PlaybackStatus `json:"is_playing"`
	CurrentTime    float64        `json:"current_time"`
	UpdatedAt      int64          `json:"updated_at"`
}
