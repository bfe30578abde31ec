package room

import (
	"context"
	"fmt"

	gojson "github.com/goccy/go-json"

	"github.com/cinesync/client/internal/domain"
)

type SendMessageParams struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}

type sendMessageRequest struct {
	RoomCode string `json:"roomCode"`
	Content  string `json:"content"`
}

// SendMessage sends a chat message. The message shows up in the store only
// through the newMessage broadcast, keeping chat ordering
// server-authoritative.
func (s *service) SendMessage(ctx context.Context, params *SendMessageParams) error {
	if validationErrors, ok := s.validate.Validate(params); !ok {
		return fmt.Errorf("invalid send message params: %v", validationErrors)
	}

	conn, roomCode, err := s.activeConn()
	if err != nil {
		return err
	}

	ack, err := conn.Request(ctx, domain.RequestSendMessage, sendMessageRequest{
		RoomCode: roomCode,
		Content:  params.Content,
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	var resp ackResponse
	if err := gojson.Unmarshal(ack, &resp); err != nil {
		return fmt.Errorf("failed to decode send message ack: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("send message rejected: %s", resp.Error)
	}

	return nil
}
