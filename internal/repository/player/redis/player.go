package redis

import (
	"context"
	"fmt"

	"github.com/castmirror/server/internal/repository/player"
)

func (r repo) SetState(ctx context.Context, params *player.SetStateParams) error {
	state := player.State{
		Status:      params.Status,
		VideoId:     params.VideoId,
		VideoTitle:  params.VideoTitle,
		SeekOffset:  params.SeekOffset,
		Duration:    params.Duration,
		VolumeLevel: params.VolumeLevel,
		VolumeMuted: params.VolumeMuted,
	}
	if err := r.rc.HSet(ctx, stateKey, state).Err(); err != nil {
		return fmt.Errorf("failed to set player state: %w", err)
	}

	return nil
}

func (r repo) GetState(ctx context.Context) (player.State, error) {
	res, err := r.rc.Exists(ctx, stateKey).Result()
	if err != nil {
		return player.State{}, fmt.Errorf("failed to check if player state exists: %w", err)
	}
	if res == 0 {
		return player.State{}, player.ErrStateNotFound
	}

	var state player.State
	if err := r.rc.HGetAll(ctx, stateKey).Scan(&state); err != nil {
		return player.State{}, fmt.Errorf("failed to get player state: %w", err)
	}

	return state, nil
}
