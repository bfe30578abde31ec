package domain

type RoomType string

const (
	RoomTypePublic  RoomType = "public"
	RoomTypePrivate RoomType = "private"
)

type Room struct {
	Code    string   `json:"code"`
	Name    string   `json:"name"`
	Type    RoomType `json:"type"`
	OwnerId string   `json:"owner_id"`
	Active  bool     `json:"active"`
}

type RoomSettings struct {
	Name         string   `json:"name"`
	Type         RoomType `json:"type"`
	MembersLimit int      `json:"members_limit"`
}
