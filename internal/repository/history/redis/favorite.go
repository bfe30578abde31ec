package redis

import (
	"context"
	"fmt"

	"github.com/cinesync/client/internal/repository/history"
)

func (r repo) AddFavorite(ctx context.Context, params *history.AddFavoriteParams) error {
	if err := r.rc.SAdd(ctx, r.favoritesKey(params.ProfileId), params.MediaId).Err(); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}

	return nil
}

func (r repo) RemoveFavorite(ctx context.Context, params *history.RemoveFavoriteParams) error {
	res, err := r.rc.SRem(ctx, r.favoritesKey(params.ProfileId), params.MediaId).Result()
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	if res == 0 {
		return history.ErrNotFound
	}

	return nil
}

func (r repo) GetFavorites(ctx context.Context, profileId string) ([]string, error) {
	mediaIds, err := r.rc.SMembers(ctx, r.favoritesKey(profileId)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get favorites: %w", err)
	}

	return mediaIds, nil
}

func (r repo) IsFavorite(ctx context.Context, profileId, mediaId string) (bool, error) {
	isMember, err := r.rc.SIsMember(ctx, r.favoritesKey(profileId), mediaId).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}

	return isMember, nil
}
