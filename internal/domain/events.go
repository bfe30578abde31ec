package domain

// Pushed event and request names of the room realtime protocol.
const (
	EventAuthenticated       = "authenticated"
	EventNewMessage          = "newMessage"
	EventMemberAdded         = "memberAdded"
	EventMemberRemoved       = "memberRemoved"
	EventUserRoleChanged     = "userRoleChanged"
	EventUserKicked          = "userKicked"
	EventRoomSettingsUpdated = "roomSettingsUpdated"
	EventPlaylistUpdated     = "playlistUpdated"
	EventVideoChanged        = "videoChanged"
)

const (
	RequestJoinRoom       = "joinRoom"
	RequestSendMessage    = "sendMessage"
	RequestKickUser       = "kickUser"
	RequestChangeUserRole = "changeUserRole"
	RequestAddItem        = "addPlaylistItem"
	RequestRemoveItem     = "removePlaylistItem"
	RequestReorderItem    = "reorderPlaylistItem"
	RequestPlay           = "play"
	RequestPause          = "pause"
	RequestSeek           = "seek"
	RequestNext           = "next"
	RequestPrevious       = "previous"
)

type NewMessageEvent struct {
	Message Message `json:"message"`
}

type MemberAddedEvent struct {
	Member Member `json:"member"`
}

type MemberRemovedEvent struct {
	User UserRef `json:"user"`
}

type UserRoleChangedEvent struct {
	User    UserRef `json:"user"`
	NewRole Role    `json:"new_role"`
}

type UserKickedEvent struct {
	User UserRef `json:"user"`
}

type RoomSettingsUpdatedEvent struct {
	Settings RoomSettings `json:"settings"`
}
