package store

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinesync/client/internal/domain"
)

func member(userId string, role domain.Role) domain.Member {
	return domain.Member{
		User: domain.UserRef{User: domain.User{Id: userId, Username: "name-" + userId}},
		Role: role,
	}
}

func TestAddMemberIdempotent(t *testing.T) {
	s := New(nil, 10, slog.Default())

	s.AddMember(member("u1", domain.RoleMember))
	s.AddMember(member("u1", domain.RoleModerator))

	members := s.Members()
	require.Len(t, members, 1)
	assert.Equal(t, domain.RoleModerator, members[0].Role, "re-adding must replace the existing entry")
}

func TestRemoveMember(t *testing.T) {
	s := New(nil, 10, slog.Default())
	s.AddMember(member("u1", domain.RoleOwner))
	s.AddMember(member("u2", domain.RoleMember))

	s.RemoveMember("u2")
	s.RemoveMember("u2") // no-op

	members := s.Members()
	require.Len(t, members, 1)
	assert.Equal(t, "u1", members[0].Id())
}

func TestUpdateMemberRoleKeepsSingleOwner(t *testing.T) {
	s := New(nil, 10, slog.Default())
	s.AddMember(member("u1", domain.RoleOwner))
	s.AddMember(member("u2", domain.RoleMember))

	s.UpdateMemberRole("u2", domain.RoleOwner)

	owners := 0
	for _, m := range s.Members() {
		if m.Role == domain.RoleOwner {
			owners++
			assert.Equal(t, "u2", m.Id())
		}
	}
	assert.Equal(t, 1, owners, "room must keep exactly one owner")

	demoted, ok := s.Member("u1")
	require.True(t, ok)
	assert.Equal(t, domain.RoleAdmin, demoted.Role)
}

func TestUpdateMemberRoleUnknownUser(t *testing.T) {
	s := New(nil, 10, slog.Default())
	s.AddMember(member("u1", domain.RoleOwner))

	s.UpdateMemberRole("ghost", domain.RoleOwner)

	owner, ok := s.Member("u1")
	require.True(t, ok)
	assert.Equal(t, domain.RoleOwner, owner.Role, "promoting an unknown user must not demote the owner")
}
