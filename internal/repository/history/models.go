package history

// ResumePosition is the stored playback progress for one media item of one
// profile.
type ResumePosition struct {
	MediaId         string  `redis:"media_id" json:"media_id"`
	PositionSeconds float64 `redis:"position_seconds" json:"position_seconds"`
	DurationSeconds float64 `redis:"duration_seconds" json:"duration_seconds"`
	UpdatedAt       int64   `redis:"updated_at" json:"updated_at"`
}

// RecentlyWatched is one entry of a profile's watch history, newest first.
type RecentlyWatched struct {
	MediaId      string `json:"media_id"`
	LastPlayedAt int64  `json:"last_played_at"`
}
