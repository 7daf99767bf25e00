package player

import (
	"context"
	"fmt"
	"time"

	"github.com/castmirror/server/internal/domain"
)

type PlayParams struct {
	VideoId  string
	Position int
}

// Play mirrors the transition, rebases the timer at params.Position and
// starts simulated playback once the video's metadata is loaded. A
// metadata miss fails only this call: everything changed before the
// load stays changed, nothing after it is touched.
func (s *service) Play(ctx context.Context, params *PlayParams) error {
	if err := s.remote.Play(ctx, params.VideoId); err != nil {
		s.logger.WarnContext(ctx, "failed to mirror play", "video_id", params.VideoId, "error", err)
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.seekOffset = params.Position
	s.timer.Stop()
	s.timer.Clear()
	s.endOfVideo.Cancel()
	s.mu.Unlock()

	info, err := s.metadata.GetInfo(ctx, params.VideoId)
	if err != nil {
		return fmt.Errorf("failed to load video info: %w", err)
	}
	if info == nil {
		return ErrVideoNotFound
	}

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return ErrPlaySuperseded
	}
	s.videoId = params.VideoId
	s.videoTitle = info.Title
	s.duration = info.Duration
	s.timer.Start()
	s.scheduleEndOfVideo()
	changed := s.status != domain.PlayerStatusPlaying
	s.status = domain.PlayerStatusPlaying
	s.mu.Unlock()

	s.persist(ctx)
	if changed {
		s.emitSnapshot()
	}

	return nil
}

func (s *service) Pause(ctx context.Context) error {
	if err := s.remote.Pause(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to mirror pause", "error", err)
	}

	s.mu.Lock()
	s.gen++
	s.timer.Pause()
	s.endOfVideo.Cancel()
	changed := s.status != domain.PlayerStatusPaused
	s.status = domain.PlayerStatusPaused
	s.mu.Unlock()

	s.persist(ctx)
	if changed {
		s.emitSnapshot()
	}

	return nil
}

func (s *service) Resume(ctx context.Context) error {
	if err := s.remote.Resume(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to mirror resume", "error", err)
	}

	s.mu.Lock()
	s.gen++
	if err := s.timer.Resume(); err != nil {
		// stopped or never started
		s.timer.Start()
	}
	s.scheduleEndOfVideo()
	changed := s.status != domain.PlayerStatusPlaying
	s.status = domain.PlayerStatusPlaying
	s.mu.Unlock()

	s.persist(ctx)
	if changed {
		s.emitSnapshot()
	}

	return nil
}

func (s *service) Stop(ctx context.Context) error {
	if err := s.remote.Stop(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to mirror stop", "error", err)
	}

	s.mu.Lock()
	s.gen++
	s.seekOffset = 0
	s.timer.Stop()
	s.timer.Clear()
	s.endOfVideo.Cancel()
	changed := s.status != domain.PlayerStatusStopped
	s.status = domain.PlayerStatusStopped
	s.mu.Unlock()

	s.persist(ctx)
	if changed {
		s.emitSnapshot()
	}

	return nil
}

type SeekParams struct {
	Position int
}

// Seek rebases the position. When playback is live the timer restarts
// and the end-of-video callback is rescheduled; otherwise the status is
// left as it was.
func (s *service) Seek(ctx context.Context, params *SeekParams) error {
	if err := s.remote.Seek(ctx, params.Position); err != nil {
		s.logger.WarnContext(ctx, "failed to mirror seek", "position", params.Position, "error", err)
	}

	s.mu.Lock()
	s.gen++
	s.timer.Stop()
	s.timer.Clear()
	s.seekOffset = params.Position
	s.endOfVideo.Cancel()
	if s.status == domain.PlayerStatusPlaying {
		s.timer.Start()
		s.scheduleEndOfVideo()
	}
	s.mu.Unlock()

	s.persist(ctx)

	return nil
}

type SetVolumeParams struct {
	Level int
	Muted bool
}

// SetVolume applies the volume locally; the mirror call is
// fire-and-forget and its result is never awaited.
func (s *service) SetVolume(ctx context.Context, params *SetVolumeParams) error {
	go func(ctx context.Context) {
		if err := s.remote.Volume(ctx, params.Level); err != nil {
			s.logger.WarnContext(ctx, "failed to mirror volume", "level", params.Level, "error", err)
		}
	}(context.WithoutCancel(ctx))

	s.mu.Lock()
	s.volume = domain.Volume{Level: params.Level, Muted: params.Muted}
	s.mu.Unlock()

	s.persist(ctx)

	return nil
}

func (s *service) GetPosition() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.positionLocked()
}

func (s *service) GetDuration() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.duration
}

func (s *service) GetVolume() domain.Volume {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.volume
}

func (s *service) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.Snapshot{
		Status:     s.status,
		VideoId:    s.videoId,
		VideoTitle: s.videoTitle,
		Position:   s.positionLocked(),
		Duration:   s.duration,
		Volume:     s.volume,
	}
}

// positionLocked computes seekOffset plus whole elapsed seconds. The
// caller must hold s.mu.
func (s *service) positionLocked() int {
	return s.seekOffset + int(s.timer.ElapsedMilliseconds()/1000)
}

// scheduleEndOfVideo arms the deferred callback for the remaining
// duration. The caller must hold s.mu.
func (s *service) scheduleEndOfVideo() {
	remaining := s.duration - s.seekOffset
	s.endOfVideo.Schedule(time.Duration(remaining)*time.Second, s.onVideoEnded)
}

// onVideoEnded runs when the simulated video finishes: pause, rewind to
// zero, then advance to the next queued video. The advance is
// fire-and-forget; its failure never reschedules anything.
func (s *service) onVideoEnded() {
	ctx := context.Background()

	s.mu.Lock()
	videoId := s.videoId
	s.mu.Unlock()
	s.logger.InfoContext(ctx, "video ended", "video_id", videoId)

	if err := s.Pause(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to pause after video ended", "error", err)
	}

	s.mu.Lock()
	s.seekOffset = 0
	s.timer.Stop()
	s.timer.Clear()
	s.mu.Unlock()

	s.persist(ctx)

	if _, err := s.Next(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to advance playlist", "error", err)
	}
}
