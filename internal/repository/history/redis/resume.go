package redis

import (
	"context"
	"fmt"

	"github.com/cinesync/client/internal/repository/history"
)

func (r repo) SetResumePosition(ctx context.Context, params *history.SetResumePositionParams) error {
	key := r.resumeKey(params.ProfileId, params.MediaId)

	pipe := r.rc.TxPipeline()
	if err := r.hSetStruct(ctx, pipe, key, history.ResumePosition{
		MediaId:         params.MediaId,
		PositionSeconds: params.PositionSeconds,
		DurationSeconds: params.DurationSeconds,
		UpdatedAt:       params.UpdatedAt,
	}); err != nil {
		return fmt.Errorf("failed to set resume position: %w", err)
	}
	pipe.Expire(ctx, key, r.resumeTTL)

	return r.executePipe(ctx, pipe)
}

func (r repo) GetResumePosition(ctx context.Context, params *history.GetResumePositionParams) (history.ResumePosition, error) {
	var position history.ResumePosition
	err := r.rc.HGetAll(ctx, r.resumeKey(params.ProfileId, params.MediaId)).Scan(&position)
	if err != nil {
		return history.ResumePosition{}, fmt.Errorf("failed to get resume position: %w", err)
	}

	if position.MediaId == "" {
		return history.ResumePosition{}, history.ErrNotFound
	}

	return position, nil
}

func (r repo) RemoveResumePosition(ctx context.Context, params *history.RemoveResumePositionParams) error {
	res, err := r.rc.Del(ctx, r.resumeKey(params.ProfileId, params.MediaId)).Result()
	if err != nil {
		return fmt.Errorf("failed to remove resume position: %w", err)
	}
	if res == 0 {
		return history.ErrNotFound
	}

	return nil
}
