package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cinesync/client/internal/api"
	"github.com/cinesync/client/internal/playback"
	historyRedis "github.com/cinesync/client/internal/repository/history/redis"
	"github.com/cinesync/client/internal/service/room"
	"github.com/cinesync/client/internal/transport"
	"github.com/cinesync/client/pkg/ctxlogger"
	"github.com/cinesync/client/pkg/redisclient"
)

type AppConfig struct {
	ServerURL     string `json:"server_url"`
	WSURL         string `json:"ws_url"`
	RoomCode      string `json:"room_code"`
	RoomPassword  string `json:"-"`
	ProfileId     string `json:"profile_id"`
	PageSize      int    `json:"page_size"`
	LogLevel      string `json:"log_level"`
	RedisPort     int    `json:"redis_port"`
	RedisHost     string `json:"redis_host"`
	RedisPassword string `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.ServerURL == "" {
		return fmt.Errorf("server url is required")
	}
	if cfg.RoomCode == "" {
		return fmt.Errorf("room code is required")
	}
	if cfg.ProfileId == "" {
		return fmt.Errorf("profile id is required")
	}
	if cfg.PageSize < 1 {
		return fmt.Errorf("page size must be greater than 0")
	}
	return nil
}

// Run joins the configured room as a headless member and keeps local
// playback reconciled against the room's authoritative state until a
// termination signal arrives.
func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		log.Fatal(err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	logger := slog.New(&h)

	rc, err := redisclient.NewRedisClient(&redisclient.Config{
		Port:     cfg.RedisPort,
		Host:     cfg.RedisHost,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	wsURL := cfg.WSURL
	if wsURL == "" {
		wsURL = "ws" + strings.TrimPrefix(cfg.ServerURL, "http")
	}

	header := http.Header{"X-Profile-Id": []string{cfg.ProfileId}}
	manager := transport.NewManager(wsURL, header, transport.Config{}, logger)
	apiClient := api.NewClient(cfg.ServerURL, nil, logger)
	historyRepo := historyRedis.NewRepo(rc, 14*24*time.Hour)
	media := playback.NewClockMedia()

	roomService := room.NewService(manager, apiClient, historyRepo, media, &room.Config{
		ProfileId: cfg.ProfileId,
		PageSize:  cfg.PageSize,
	}, logger)

	serverCtx, serverStopCtx := context.WithCancel(ctx)
	defer serverStopCtx()

	joinResp, err := roomService.JoinRoom(serverCtx, &room.JoinRoomParams{
		RoomCode: cfg.RoomCode,
		Password: cfg.RoomPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	logger.Info("joined room",
		"room_code", joinResp.Room.Code,
		"room_name", joinResp.Room.Name,
		"members", len(joinResp.Members),
		"playlist", len(joinResp.Playlist),
	)

	go roomService.RunSync(serverCtx, 2*time.Second)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case <-sig:
		logger.Info("shutting down")
	case <-serverCtx.Done():
	}

	roomService.LeaveRoom()

	return nil
}
