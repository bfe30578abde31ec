package redis

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type repo struct {
	rc        *redis.Client
	resumeTTL time.Duration
}

func NewRepo(rc *redis.Client, resumeTTL time.Duration) *repo {
	return &repo{
		rc:        rc,
		resumeTTL: resumeTTL,
	}
}

func (r repo) resumeKey(profileId, mediaId string) string {
	return fmt.Sprintf("profile:%s:resume:%s", profileId, mediaId)
}

func (r repo) favoritesKey(profileId string) string {
	return fmt.Sprintf("profile:%s:favorites", profileId)
}

func (r repo) recentKey(profileId string) string {
	return fmt.Sprintf("profile:%s:recent", profileId)
}
