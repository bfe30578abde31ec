package domain

type PlaylistItem struct {
	Id        string  `json:"id"`
	MediaId   string  `json:"media_id"`
	Title     string  `json:"title"`
	Position  int     `json:"position"`
	AddedById string  `json:"added_by_id"`
	HLSURL    *string `json:"hls_url"`
	CDNURL    *string `json:"cdn_url"`
	FileURL   *string `json:"file_url"`
}

type PlaylistAction string

const (
	PlaylistActionAdd     PlaylistAction = "add"
	PlaylistActionRemove  PlaylistAction = "remove"
	PlaylistActionReorder PlaylistAction = "reorder"
)

// PlaylistUpdateEvent is the playlistUpdated broadcast payload. Exactly one
// of the actor fields is set, depending on the action.
type PlaylistUpdateEvent struct {
	Item        PlaylistItem   `json:"item"`
	Action      PlaylistAction `json:"action"`
	AddedBy     *UserRef       `json:"addedBy"`
	RemovedBy   *UserRef       `json:"removedBy"`
	ReorderedBy *UserRef       `json:"reorderedBy"`
}

// ActorId returns the id of the member that originated the action, or an
// empty string if the payload carried no actor.
func (e PlaylistUpdateEvent) ActorId() string {
	for _, ref := range []*UserRef{e.AddedBy, e.RemovedBy, e.ReorderedBy} {
		if ref != nil {
			return ref.Id
		}
	}
	return ""
}
