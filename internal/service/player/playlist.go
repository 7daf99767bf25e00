package player

import (
	"context"
	"errors"
	"fmt"

	"github.com/castmirror/server/internal/repository/player"
)

type AddVideoParams struct {
	VideoId string
}

type AddVideoResponse struct {
	VideoId  string
	Playlist []string
}

func (s *service) AddVideo(ctx context.Context, params *AddVideoParams) (AddVideoResponse, error) {
	length, err := s.repo.GetPlaylistLength(ctx)
	if err != nil {
		return AddVideoResponse{}, fmt.Errorf("failed to get playlist length: %w", err)
	}
	if length >= s.playlistLimit {
		return AddVideoResponse{}, ErrPlaylistLimitReached
	}

	if err := s.repo.AddVideo(ctx, &player.AddVideoParams{VideoId: params.VideoId}); err != nil {
		return AddVideoResponse{}, fmt.Errorf("failed to add video: %w", err)
	}

	playlist, err := s.repo.GetVideoIds(ctx)
	if err != nil {
		return AddVideoResponse{}, fmt.Errorf("failed to get video ids: %w", err)
	}

	return AddVideoResponse{VideoId: params.VideoId, Playlist: playlist}, nil
}

func (s *service) GetPlaylist(ctx context.Context) ([]string, error) {
	playlist, err := s.repo.GetVideoIds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get video ids: %w", err)
	}

	return playlist, nil
}

// Next pops the queue head and plays it from the beginning. It returns
// ErrPlaylistEmpty when nothing is queued.
func (s *service) Next(ctx context.Context) (string, error) {
	videoId, err := s.repo.PopVideo(ctx)
	if err != nil {
		if errors.Is(err, player.ErrPlaylistEmpty) {
			return "", ErrPlaylistEmpty
		}
		return "", fmt.Errorf("failed to pop video: %w", err)
	}

	if err := s.Play(ctx, &PlayParams{VideoId: videoId, Position: 0}); err != nil {
		return "", fmt.Errorf("failed to play next video: %w", err)
	}

	return videoId, nil
}
