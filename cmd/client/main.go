package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cinesync/client/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	serverURL = configVar[string]{
		envKey:       "CLIENT_SERVER_URL",
		flagKey:      "server-url",
		defaultValue: "http://localhost:8080",
	}
	wsURL = configVar[string]{
		envKey:       "CLIENT_WS_URL",
		flagKey:      "ws-url",
		defaultValue: "",
	}
	roomCode = configVar[string]{
		envKey:       "CLIENT_ROOM_CODE",
		flagKey:      "room-code",
		defaultValue: "",
	}
	roomPassword = configVar[string]{
		envKey:       "CLIENT_ROOM_PASSWORD",
		flagKey:      "room-password",
		defaultValue: "",
	}
	profileId = configVar[string]{
		envKey:       "CLIENT_PROFILE_ID",
		flagKey:      "profile-id",
		defaultValue: "",
	}
	pageSize = configVar[int]{
		envKey:       "CLIENT_PAGE_SIZE",
		flagKey:      "page-size",
		defaultValue: 50,
	}
	logLevel = configVar[string]{
		envKey:       "CLIENT_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
	}
)

func loadAppConfig() *app.AppConfig {
	pflag.String(serverURL.flagKey, serverURL.defaultValue, "Room service base URL")
	pflag.String(wsURL.flagKey, wsURL.defaultValue, "Room service websocket base URL (derived from server-url if empty)")
	pflag.String(roomCode.flagKey, roomCode.defaultValue, "Code of the room to join")
	pflag.String(roomPassword.flagKey, roomPassword.defaultValue, "Room password for private rooms")
	pflag.String(profileId.flagKey, profileId.defaultValue, "Profile id of the local user")
	pflag.Int(pageSize.flagKey, pageSize.defaultValue, "Chat history page size")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, "Redis port")
	pflag.String(redisHost.flagKey, redisHost.defaultValue, "Redis host")
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, "Redis password")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(serverURL.flagKey, serverURL.envKey)
	viper.BindEnv(wsURL.flagKey, wsURL.envKey)
	viper.BindEnv(roomCode.flagKey, roomCode.envKey)
	viper.BindEnv(roomPassword.flagKey, roomPassword.envKey)
	viper.BindEnv(profileId.flagKey, profileId.envKey)
	viper.BindEnv(pageSize.flagKey, pageSize.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(redisPort.flagKey, redisPort.envKey)
	viper.BindEnv(redisHost.flagKey, redisHost.envKey)
	viper.BindEnv(redisPassword.flagKey, redisPassword.envKey)

	viper.SetDefault(serverURL.flagKey, serverURL.defaultValue)
	viper.SetDefault(wsURL.flagKey, wsURL.defaultValue)
	viper.SetDefault(roomCode.flagKey, roomCode.defaultValue)
	viper.SetDefault(roomPassword.flagKey, roomPassword.defaultValue)
	viper.SetDefault(profileId.flagKey, profileId.defaultValue)
	viper.SetDefault(pageSize.flagKey, pageSize.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)
	viper.SetDefault(redisPort.flagKey, redisPort.defaultValue)
	viper.SetDefault(redisHost.flagKey, redisHost.defaultValue)
	viper.SetDefault(redisPassword.flagKey, redisPassword.defaultValue)

	config := &app.AppConfig{
		ServerURL:     viper.GetString(serverURL.flagKey),
		WSURL:         viper.GetString(wsURL.flagKey),
		RoomCode:      viper.GetString(roomCode.flagKey),
		RoomPassword:  viper.GetString(roomPassword.flagKey),
		ProfileId:     viper.GetString(profileId.flagKey),
		PageSize:      viper.GetInt(pageSize.flagKey),
		LogLevel:      viper.GetString(logLevel.flagKey),
		RedisPort:     viper.GetInt(redisPort.flagKey),
		RedisHost:     viper.GetString(redisHost.flagKey),
		RedisPassword: viper.GetString(redisPassword.flagKey),
	}

	return config
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting client with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
