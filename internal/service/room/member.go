package room

import (
	"context"
	"fmt"

	gojson "github.com/goccy/go-json"

	"github.com/cinesync/client/internal/domain"
)

type kickUserRequest struct {
	RoomCode     string `json:"roomCode"`
	TargetUserId string `json:"targetUserId"`
}

// KickUser asks the room service to remove a member. The member list
// changes only on the memberRemoved/userKicked broadcast.
func (s *service) KickUser(ctx context.Context, targetUserId string) error {
	conn, roomCode, err := s.activeConn()
	if err != nil {
		return err
	}

	ack, err := conn.Request(ctx, domain.RequestKickUser, kickUserRequest{
		RoomCode:     roomCode,
		TargetUserId: targetUserId,
	})
	if err != nil {
		return fmt.Errorf("failed to kick user: %w", err)
	}

	var resp ackResponse
	if err := gojson.Unmarshal(ack, &resp); err != nil {
		return fmt.Errorf("failed to decode kick user ack: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("kick user rejected: %s", resp.Error)
	}

	return nil
}

type ChangeUserRoleParams struct {
	TargetUserId string      `json:"target_user_id" validate:"required"`
	NewRole      domain.Role `json:"new_role" validate:"required,oneof=owner admin moderator member"`
}

type changeUserRoleRequest struct {
	RoomCode     string      `json:"roomCode"`
	TargetUserId string      `json:"targetUserId"`
	NewRole      domain.Role `json:"newRole"`
}

// ChangeUserRole requests a server-authoritative role change. The local
// member list is updated optimistically only when the change is accepted;
// the userRoleChanged broadcast reapplies it idempotently.
func (s *service) ChangeUserRole(ctx context.Context, params *ChangeUserRoleParams) error {
	if validationErrors, ok := s.validate.Validate(params); !ok {
		return fmt.Errorf("invalid change user role params: %v", validationErrors)
	}

	conn, roomCode, err := s.activeConn()
	if err != nil {
		return err
	}

	ack, err := conn.Request(ctx, domain.RequestChangeUserRole, changeUserRoleRequest{
		RoomCode:     roomCode,
		TargetUserId: params.TargetUserId,
		NewRole:      params.NewRole,
	})
	if err != nil {
		return fmt.Errorf("failed to change user role: %w", err)
	}

	var resp ackResponse
	if err := gojson.Unmarshal(ack, &resp); err != nil {
		return fmt.Errorf("failed to decode change user role ack: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("change user role rejected: %s", resp.Error)
	}

	s.store.UpdateMemberRole(params.TargetUserId, params.NewRole)

	return nil
}
