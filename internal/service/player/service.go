// Package player simulates remote video playback: it tracks position
// with an elapsed-time timer instead of rendering media, mirrors every
// transition to the remote control endpoint and advances through a
// playlist when the simulated video runs out.
package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/castmirror/server/internal/domain"
	"github.com/castmirror/server/internal/repository/player"
	"github.com/castmirror/server/pkg/clock"
	"github.com/castmirror/server/pkg/elapsedtimer"
)

var (
	ErrVideoNotFound        = errors.New("video not found")
	ErrPlaySuperseded       = errors.New("play superseded by a later operation")
	ErrPlaylistLimitReached = errors.New("playlist limit reached")
	ErrPlaylistEmpty        = errors.New("playlist is empty")
)

type iPlayerRepo interface {
	SetState(context.Context, *player.SetStateParams) error
	GetState(context.Context) (player.State, error)
	AddVideo(context.Context, *player.AddVideoParams) error
	PopVideo(context.Context) (string, error)
	GetVideoIds(context.Context) ([]string, error)
	GetPlaylistLength(context.Context) (int, error)
}

type iRemote interface {
	Play(ctx context.Context, videoId string) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Stop(ctx context.Context) error
	Seek(ctx context.Context, position int) error
	Volume(ctx context.Context, level int) error
}

type iMetadataLoader interface {
	GetInfo(ctx context.Context, videoId string) (*domain.VideoInfo, error)
}

type Config struct {
	PlaylistLimit int
}

type service struct {
	repo     iPlayerRepo
	remote   iRemote
	metadata iMetadataLoader
	logger   *slog.Logger

	playlistLimit int

	timer      *elapsedtimer.Timer
	endOfVideo *deferred

	mu         sync.Mutex
	status     domain.PlayerStatus
	videoId    string
	videoTitle string
	seekOffset int
	duration   int
	volume     domain.Volume
	// gen invalidates the local effects of an in-flight play once any
	// later state-mutating operation lands
	gen uint64

	observersMu sync.RWMutex
	observers   []func(domain.Snapshot)
}

func NewService(repo iPlayerRepo, remote iRemote, metadata iMetadataLoader, c clock.Clock, cfg *Config, logger *slog.Logger) *service {
	return &service{
		repo:          repo,
		remote:        remote,
		metadata:      metadata,
		logger:        logger,
		playlistLimit: cfg.PlaylistLimit,
		timer:         elapsedtimer.New(c),
		endOfVideo:    newDeferred(c),
		status:        domain.PlayerStatusStopped,
		volume:        domain.NewVolume(),
	}
}

// Restore reloads the persisted volume and last-played video identity.
// The player always comes back STOPPED; elapsed time never survives a
// restart.
func (s *service) Restore(ctx context.Context) error {
	state, err := s.repo.GetState(ctx)
	if err != nil {
		if errors.Is(err, player.ErrStateNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get player state: %w", err)
	}

	s.mu.Lock()
	s.videoId = state.VideoId
	s.videoTitle = state.VideoTitle
	s.duration = state.Duration
	s.volume = domain.Volume{Level: state.VolumeLevel, Muted: state.VolumeMuted}
	s.mu.Unlock()

	return nil
}

// OnSnapshot registers an observer invoked on every status change with
// a snapshot whose position and duration are read at emission time.
func (s *service) OnSnapshot(fn func(domain.Snapshot)) {
	s.observersMu.Lock()
	defer s.observersMu.Unlock()

	s.observers = append(s.observers, fn)
}

func (s *service) emitSnapshot() {
	snapshot := s.Snapshot()

	s.observersMu.RLock()
	observers := make([]func(domain.Snapshot), len(s.observers))
	copy(observers, s.observers)
	s.observersMu.RUnlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}

func (s *service) persist(ctx context.Context) {
	s.mu.Lock()
	params := player.SetStateParams{
		Status:      string(s.status),
		VideoId:     s.videoId,
		VideoTitle:  s.videoTitle,
		SeekOffset:  s.seekOffset,
		Duration:    s.duration,
		VolumeLevel: s.volume.Level,
		VolumeMuted: s.volume.Muted,
	}
	s.mu.Unlock()

	if err := s.repo.SetState(ctx, &params); err != nil {
		s.logger.WarnContext(ctx, "failed to persist player state", "error", err)
	}
}
