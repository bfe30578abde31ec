package store

import (
	"github.com/cinesync/client/internal/domain"
)

func (s *Store) Members() []domain.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := make([]domain.Member, len(s.members))
	copy(members, s.members)
	return members
}

func (s *Store) Member(userId string) (domain.Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, member := range s.members {
		if member.Id() == userId {
			return member, true
		}
	}
	return domain.Member{}, false
}

// AddMember inserts or replaces the member with the same user id.
func (s *Store) AddMember(member domain.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.members {
		if existing.Id() == member.Id() {
			s.members[i] = member
			return
		}
	}
	s.members = append(s.members, member)
}

// RemoveMember is a no-op if the user is not a member.
func (s *Store) RemoveMember(userId string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, member := range s.members {
		if member.Id() == userId {
			s.members = append(s.members[:i], s.members[i+1:]...)
			return
		}
	}
}

// UpdateMemberRole applies a server-declared role change. Promoting a
// member to owner demotes the previous owner to admin so the room keeps
// exactly one owner. No-op if the user is not a member, leaving the
// current owner in place.
func (s *Store) UpdateMemberRole(userId string, role domain.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, member := range s.members {
		if member.Id() == userId {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}

	if role == domain.RoleOwner {
		for i, member := range s.members {
			if member.Role == domain.RoleOwner && member.Id() != userId {
				s.members[i].Role = domain.RoleAdmin
			}
		}
	}

	s.members[idx].Role = role
}
