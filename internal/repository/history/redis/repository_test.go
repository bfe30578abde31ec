package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinesync/client/internal/repository/history"
)

func newTestRepo(t *testing.T) (*repo, *miniredis.Miniredis) {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	rc := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	return NewRepo(rc, time.Hour), s
}

func TestResumePosition(t *testing.T) {
	r, s := newTestRepo(t)
	ctx := context.Background()

	err := r.SetResumePosition(ctx, &history.SetResumePositionParams{
		ProfileId:       "p1",
		MediaId:         "m1",
		PositionSeconds: 1337.5,
		DurationSeconds: 5400,
		UpdatedAt:       1700000000000,
	})
	require.NoError(t, err)

	position, err := r.GetResumePosition(ctx, &history.GetResumePositionParams{ProfileId: "p1", MediaId: "m1"})
	require.NoError(t, err)
	assert.Equal(t, "m1", position.MediaId)
	assert.Equal(t, 1337.5, position.PositionSeconds)
	assert.Equal(t, float64(5400), position.DurationSeconds)
	assert.Equal(t, int64(1700000000000), position.UpdatedAt)

	// the key must carry the retention ttl
	ttl := s.TTL("profile:p1:resume:m1")
	assert.Equal(t, time.Hour, ttl, "resume key must expire")

	err = r.RemoveResumePosition(ctx, &history.RemoveResumePositionParams{ProfileId: "p1", MediaId: "m1"})
	require.NoError(t, err)

	_, err = r.GetResumePosition(ctx, &history.GetResumePositionParams{ProfileId: "p1", MediaId: "m1"})
	assert.ErrorIs(t, err, history.ErrNotFound)

	err = r.RemoveResumePosition(ctx, &history.RemoveResumePositionParams{ProfileId: "p1", MediaId: "m1"})
	assert.ErrorIs(t, err, history.ErrNotFound)
}

func TestResumePositionOverwrite(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.SetResumePosition(ctx, &history.SetResumePositionParams{
		ProfileId:       "p1",
		MediaId:         "m1",
		PositionSeconds: 10,
		UpdatedAt:       1,
	}))
	require.NoError(t, r.SetResumePosition(ctx, &history.SetResumePositionParams{
		ProfileId:       "p1",
		MediaId:         "m1",
		PositionSeconds: 250,
		UpdatedAt:       2,
	}))

	position, err := r.GetResumePosition(ctx, &history.GetResumePositionParams{ProfileId: "p1", MediaId: "m1"})
	require.NoError(t, err)
	assert.Equal(t, float64(250), position.PositionSeconds)
}

func TestFavorites(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.AddFavorite(ctx, &history.AddFavoriteParams{ProfileId: "p1", MediaId: "m1"}))
	require.NoError(t, r.AddFavorite(ctx, &history.AddFavoriteParams{ProfileId: "p1", MediaId: "m2"}))
	require.NoError(t, r.AddFavorite(ctx, &history.AddFavoriteParams{ProfileId: "p1", MediaId: "m1"}))

	favorites, err := r.GetFavorites(ctx, "p1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"m1", "m2"}, favorites, "re-adding a favorite must not duplicate it")

	isFavorite, err := r.IsFavorite(ctx, "p1", "m1")
	require.NoError(t, err)
	assert.True(t, isFavorite)

	require.NoError(t, r.RemoveFavorite(ctx, &history.RemoveFavoriteParams{ProfileId: "p1", MediaId: "m1"}))

	isFavorite, err = r.IsFavorite(ctx, "p1", "m1")
	require.NoError(t, err)
	assert.False(t, isFavorite)

	err = r.RemoveFavorite(ctx, &history.RemoveFavoriteParams{ProfileId: "p1", MediaId: "m1"})
	assert.ErrorIs(t, err, history.ErrNotFound)
}

func TestRecentlyWatched(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	for i, mediaId := range []string{"m1", "m2", "m3"} {
		require.NoError(t, r.AddRecentlyWatched(ctx, &history.AddRecentlyWatchedParams{
			ProfileId:    "p1",
			MediaId:      mediaId,
			LastPlayedAt: int64(1000 + i),
		}))
	}

	// rewatching m1 bumps it to the top
	require.NoError(t, r.AddRecentlyWatched(ctx, &history.AddRecentlyWatchedParams{
		ProfileId:    "p1",
		MediaId:      "m1",
		LastPlayedAt: 2000,
	}))

	recent, err := r.GetRecentlyWatched(ctx, &history.GetRecentlyWatchedParams{ProfileId: "p1"})
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "m1", recent[0].MediaId, "entries must come newest first")
	assert.Equal(t, int64(2000), recent[0].LastPlayedAt)
	assert.Equal(t, "m3", recent[1].MediaId)
	assert.Equal(t, "m2", recent[2].MediaId)

	limited, err := r.GetRecentlyWatched(ctx, &history.GetRecentlyWatchedParams{ProfileId: "p1", Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "m1", limited[0].MediaId)
}
