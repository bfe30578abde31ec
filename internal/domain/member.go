package domain

import (
	gojson "github.com/goccy/go-json"
)

type Role string

const (
	RoleOwner     Role = "owner"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleMember    Role = "member"
)

type User struct {
	Id        string  `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url"`
}

// UserRef is a member's user reference as it appears on the wire: either a
// bare user id string or an embedded user object. It always decodes to a
// populated User so consumers never type-narrow.
type UserRef struct {
	User
}

func (u *UserRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := gojson.Unmarshal(data, &id); err != nil {
			return err
		}
		u.User = User{Id: id}
		return nil
	}

	var user User
	if err := gojson.Unmarshal(data, &user); err != nil {
		return err
	}
	u.User = user
	return nil
}

func (u UserRef) MarshalJSON() ([]byte, error) {
	return gojson.Marshal(u.User)
}

type Member struct {
	User UserRef `json:"user"`
	Role Role    `json:"role"`
}

func (m Member) Id() string {
	return m.User.Id
}
