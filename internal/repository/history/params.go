package history

type SetResumePositionParams struct {
	ProfileId       string  `json:"profile_id"`
	MediaId         string  `json:"media_id"`
	PositionSeconds float64 `json:"position_seconds"`
	DurationSeconds float64 `json:"duration_seconds"`
	UpdatedAt       int64   `json:"updated_at"`
}

type GetResumePositionParams struct {
	ProfileId string `json:"profile_id"`
	MediaId   string `json:"media_id"`
}

type RemoveResumePositionParams struct {
	ProfileId string `json:"profile_id"`
	MediaId   string `json:"media_id"`
}

type AddFavoriteParams struct {
	ProfileId string `json:"profile_id"`
	MediaId   string `json:"media_id"`
}

type RemoveFavoriteParams struct {
	ProfileId string `json:"profile_id"`
	MediaId   string `json:"media_id"`
}

type AddRecentlyWatchedParams struct {
	ProfileId    string `json:"profile_id"`
	MediaId      string `json:"media_id"`
	LastPlayedAt int64  `json:"last_played_at"`
}

type GetRecentlyWatchedParams struct {
	ProfileId string `json:"profile_id"`
	Limit     int    `json:"limit"`
}
