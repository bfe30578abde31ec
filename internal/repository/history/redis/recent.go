package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/cinesync/client/internal/repository/history"
)

func (r repo) AddRecentlyWatched(ctx context.Context, params *history.AddRecentlyWatchedParams) error {
	if err := r.rc.ZAdd(ctx, r.recentKey(params.ProfileId), redis.Z{
		Score:  float64(params.LastPlayedAt),
		Member: params.MediaId,
	}).Err(); err != nil {
		return fmt.Errorf("failed to add recently watched: %w", err)
	}

	return nil
}

// GetRecentlyWatched returns the newest entries first.
func (r repo) GetRecentlyWatched(ctx context.Context, params *history.GetRecentlyWatchedParams) ([]history.RecentlyWatched, error) {
	stop := int64(params.Limit) - 1
	if params.Limit <= 0 {
		stop = -1
	}

	entries, err := r.rc.ZRevRangeWithScores(ctx, r.recentKey(params.ProfileId), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get recently watched: %w", err)
	}

	recent := make([]history.RecentlyWatched, 0, len(entries))
	for _, entry := range entries {
		mediaId, ok := entry.Member.(string)
		if !ok {
			continue
		}

		recent = append(recent, history.RecentlyWatched{
			MediaId:      mediaId,
			LastPlayedAt: int64(entry.Score),
		})
	}

	return recent, nil
}
