package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/castmirror/server/internal/repository/player"
)

func (r repo) AddVideo(ctx context.Context, params *player.AddVideoParams) error {
	if err := r.rc.RPush(ctx, playlistKey, params.VideoId).Err(); err != nil {
		return fmt.Errorf("failed to add video: %w", err)
	}

	return nil
}

func (r repo) PopVideo(ctx context.Context) (string, error) {
	videoId, err := r.rc.LPop(ctx, playlistKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", player.ErrPlaylistEmpty
		}
		return "", fmt.Errorf("failed to pop video: %w", err)
	}

	return videoId, nil
}

func (r repo) GetVideoIds(ctx context.Context) ([]string, error) {
	videoIds, err := r.rc.LRange(ctx, playlistKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get video ids: %w", err)
	}

	return videoIds, nil
}

func (r repo) GetPlaylistLength(ctx context.Context) (int, error) {
	length, err := r.rc.LLen(ctx, playlistKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get playlist length: %w", err)
	}

	return int(length), nil
}
