package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"

	"github.com/cinesync/client/internal/domain"
	"github.com/cinesync/client/pkg/validator"
)

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrUnexpectedStatus = errors.New("unexpected status")
)

type response struct {
	status int
	body   []byte
}

// Client calls the room lifecycle endpoints of the backend. Transport
// failures and 5xx responses feed a circuit breaker so a dead backend is
// surfaced fast instead of piling up timeouts.
type Client struct {
	baseURL  string
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker[response]
	validate *validator.Validator
	log      *slog.Logger
}

func NewClient(baseURL string, httpClient *http.Client, log *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	breaker := gobreaker.NewCircuitBreaker[response](gobreaker.Settings{
		Name:    "room-api",
		Timeout: 30 * time.Second,
	})

	return &Client{
		baseURL:  baseURL,
		http:     httpClient,
		breaker:  breaker,
		validate: validator.NewValidator(),
		log:      log,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any) (response, error) {
	var buf io.Reader
	if body != nil {
		data, err := gojson.Marshal(body)
		if err != nil {
			return response{}, fmt.Errorf("failed to encode request body: %w", err)
		}
		buf = bytes.NewReader(data)
	}

	return c.breaker.Execute(func() (response, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
		if err != nil {
			return response{}, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return response{}, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return response{}, err
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			return response{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		}

		return response{status: resp.StatusCode, body: data}, nil
	})
}

type CheckRoomResponse struct {
	Room    domain.Room `json:"room"`
	IsOwner bool        `json:"is_owner"`
}

// CheckRoom loads the room descriptor by its stable external code.
func (c *Client) CheckRoom(ctx context.Context, roomCode string) (CheckRoomResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/rooms/"+roomCode, nil)
	if err != nil {
		return CheckRoomResponse{}, fmt.Errorf("failed to check room: %w", err)
	}
	if resp.status == http.StatusNotFound {
		return CheckRoomResponse{}, ErrRoomNotFound
	}
	if resp.status != http.StatusOK {
		return CheckRoomResponse{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.status)
	}

	var checkResp CheckRoomResponse
	if err := gojson.Unmarshal(resp.body, &checkResp); err != nil {
		return CheckRoomResponse{}, fmt.Errorf("failed to decode check room response: %w", err)
	}

	return checkResp, nil
}

// VerifyPassword checks a private room's password and reports whether the
// caller is authenticated for it.
func (c *Client) VerifyPassword(ctx context.Context, roomCode, password string) (bool, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/rooms/"+roomCode+"/verify-password", map[string]string{
		"password": password,
	})
	if err != nil {
		return false, fmt.Errorf("failed to verify password: %w", err)
	}
	if resp.status == http.StatusNotFound {
		return false, ErrRoomNotFound
	}
	if resp.status != http.StatusOK {
		return false, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.status)
	}

	var verifyResp struct {
		IsAuthenticated bool `json:"is_authenticated"`
	}
	if err := gojson.Unmarshal(resp.body, &verifyResp); err != nil {
		return false, fmt.Errorf("failed to decode verify password response: %w", err)
	}

	return verifyResp.IsAuthenticated, nil
}

type CreateRoomParams struct {
	Name     string          `json:"name" validate:"required,min=1,max=100"`
	Type     domain.RoomType `json:"type" validate:"required,oneof=public private"`
	Password *string         `json:"password,omitempty"`
}

// CreateRoom creates a room and returns its descriptor with the generated
// code.
func (c *Client) CreateRoom(ctx context.Context, params *CreateRoomParams) (domain.Room, error) {
	if validationErrors, ok := c.validate.Validate(params); !ok {
		return domain.Room{}, fmt.Errorf("invalid create room params: %v", validationErrors)
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/rooms", params)
	if err != nil {
		return domain.Room{}, fmt.Errorf("failed to create room: %w", err)
	}
	if resp.status != http.StatusOK && resp.status != http.StatusCreated {
		return domain.Room{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.status)
	}

	var room domain.Room
	if err := gojson.Unmarshal(resp.body, &room); err != nil {
		return domain.Room{}, fmt.Errorf("failed to decode create room response: %w", err)
	}

	return room, nil
}

// FetchMessages loads a chat history page older than beforeId,
// newest-first as the service serves it.
func (c *Client) FetchMessages(ctx context.Context, roomCode, beforeId string, limit int) ([]domain.Message, error) {
	path := fmt.Sprintf("/api/rooms/%s/messages?before=%s&limit=%d", roomCode, beforeId, limit)
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	if resp.status == http.StatusNotFound {
		return nil, ErrRoomNotFound
	}
	if resp.status != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.status)
	}

	var messagesResp struct {
		Messages []domain.Message `json:"messages"`
	}
	if err := gojson.Unmarshal(resp.body, &messagesResp); err != nil {
		return nil, fmt.Errorf("failed to decode messages response: %w", err)
	}

	return messagesResp.Messages, nil
}
