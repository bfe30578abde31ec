package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *AppConfig {
	return &AppConfig{
		ServerURL: "http://localhost:8080",
		RoomCode:  "MOVIE1",
		ProfileId: "user-1",
		PageSize:  50,
	}
}

func TestAppConfigValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.ServerURL = ""
	assert.Error(t, cfg.Validate(), "server url is required")

	cfg = validConfig()
	cfg.RoomCode = ""
	assert.Error(t, cfg.Validate(), "room code is required")

	cfg = validConfig()
	cfg.ProfileId = ""
	assert.Error(t, cfg.Validate(), "profile id is required")

	cfg = validConfig()
	cfg.PageSize = 0
	assert.Error(t, cfg.Validate(), "page size must be positive")
}
