package domain

import (
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRefUnmarshal(t *testing.T) {
	t.Run("bare id", func(t *testing.T) {
		var member Member
		err := gojson.Unmarshal([]byte(`{"user": "user-1", "role": "member"}`), &member)
		require.NoError(t, err)
		assert.Equal(t, "user-1", member.Id())
		assert.Equal(t, RoleMember, member.Role)
	})

	t.Run("embedded object", func(t *testing.T) {
		var member Member
		err := gojson.Unmarshal([]byte(`{"user": {"id": "user-2", "username": "alice"}, "role": "owner"}`), &member)
		require.NoError(t, err)
		assert.Equal(t, "user-2", member.Id())
		assert.Equal(t, "alice", member.User.Username)
		assert.Equal(t, RoleOwner, member.Role)
	})
}

func TestPlaylistUpdateEventActorId(t *testing.T) {
	ref := &UserRef{User: User{Id: "user-1"}}

	assert.Equal(t, "user-1", PlaylistUpdateEvent{Action: PlaylistActionAdd, AddedBy: ref}.ActorId())
	assert.Equal(t, "user-1", PlaylistUpdateEvent{Action: PlaylistActionRemove, RemovedBy: ref}.ActorId())
	assert.Equal(t, "user-1", PlaylistUpdateEvent{Action: PlaylistActionReorder, ReorderedBy: ref}.ActorId())
	assert.Equal(t, "", PlaylistUpdateEvent{Action: PlaylistActionReorder}.ActorId())
}
