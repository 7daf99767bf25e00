package player

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castmirror/server/internal/domain"
	playerRepo "github.com/castmirror/server/internal/repository/player"
	playerRedis "github.com/castmirror/server/internal/repository/player/redis"
	"github.com/castmirror/server/pkg/clock"
)

type fakeRemote struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeRemote) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeRemote) getCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRemote) Play(_ context.Context, videoId string) error { return f.record("play:" + videoId) }
func (f *fakeRemote) Pause(context.Context) error                  { return f.record("pause") }
func (f *fakeRemote) Resume(context.Context) error                 { return f.record("resume") }
func (f *fakeRemote) Stop(context.Context) error                   { return f.record("stop") }
func (f *fakeRemote) Seek(_ context.Context, position int) error {
	return f.record("seek")
}
func (f *fakeRemote) Volume(_ context.Context, level int) error {
	return f.record("volume")
}

type fakeLoader struct {
	videos map[string]domain.VideoInfo
	block  chan struct{}
}

func (f *fakeLoader) GetInfo(_ context.Context, videoId string) (*domain.VideoInfo, error) {
	if f.block != nil {
		<-f.block
	}
	info, ok := f.videos[videoId]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

type testEnv struct {
	service *service
	clock   *clock.Fake
	remote  *fakeRemote
	loader  *fakeLoader
	repo    iPlayerRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	s := miniredis.RunT(t)
	rc := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	repo := playerRedis.NewRepo(rc)

	c := clock.NewFake()
	remote := &fakeRemote{}
	loader := &fakeLoader{videos: map[string]domain.VideoInfo{
		"video-a": {Title: "Video A", Duration: 10},
		"video-b": {Title: "Video B", Duration: 20},
	}}

	svc := NewService(repo, remote, loader, c, &Config{PlaylistLimit: 25}, slog.Default())

	return &testEnv{service: svc, clock: c, remote: remote, loader: loader, repo: repo}
}

func TestPlayStartsSimulatedPlayback(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.service.Play(ctx, &PlayParams{VideoId: "video-a", Position: 3}))

	snapshot := env.service.Snapshot()
	assert.Equal(t, domain.PlayerStatusPlaying, snapshot.Status)
	assert.Equal(t, "video-a", snapshot.VideoId)
	assert.Equal(t, "Video A", snapshot.VideoTitle)
	assert.Equal(t, 10, snapshot.Duration)
	assert.Equal(t, 3, snapshot.Position, "position must start at the requested offset")

	env.clock.Advance(2 * time.Second)
	assert.Equal(t, 5, env.service.GetPosition())

	assert.Equal(t, []string{"play:video-a"}, env.remote.getCalls())
}

func TestPlayUnknownVideo(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.service.Play(ctx, &PlayParams{VideoId: "missing", Position: 0})
	assert.ErrorIs(t, err, ErrVideoNotFound)

	snapshot := env.service.Snapshot()
	assert.Equal(t, domain.PlayerStatusStopped, snapshot.Status)
	assert.Equal(t, 0, snapshot.Position)
	assert.Equal(t, 0, snapshot.Duration)
	assert.Empty(t, snapshot.VideoId)
}

func TestEndOfVideoPausesAndRewinds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var emitted []domain.Snapshot
	var emittedMu sync.Mutex
	env.service.OnSnapshot(func(s domain.Snapshot) {
		emittedMu.Lock()
		defer emittedMu.Unlock()
		emitted = append(emitted, s)
	})

	require.NoError(t, env.service.Play(ctx, &PlayParams{VideoId: "video-a", Position: 0}))
	assert.Equal(t, 1, env.clock.PendingTimers(), "exactly one end-of-video callback must be pending")

	// duration 10 plus one second of slack
	env.clock.Advance(11 * time.Second)

	snapshot := env.service.Snapshot()
	assert.Equal(t, domain.PlayerStatusPaused, snapshot.Status)
	assert.Equal(t, 0, snapshot.Position, "seek offset must be rewound to zero")
	assert.Equal(t, 0, env.clock.PendingTimers(), "fired callback must not stay armed")

	assert.Equal(t, []string{"play:video-a", "pause"}, env.remote.getCalls())

	emittedMu.Lock()
	defer emittedMu.Unlock()
	require.Len(t, emitted, 2)
	assert.Equal(t, domain.PlayerStatusPlaying, emitted[0].Status)
	assert.Equal(t, domain.PlayerStatusPaused, emitted[1].Status)
}

func TestEndOfVideoAdvancesToQueuedVideo(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.service.AddVideo(ctx, &AddVideoParams{VideoId: "video-b"})
	require.NoError(t, err)

	require.NoError(t, env.service.Play(ctx, &PlayParams{VideoId: "video-a", Position: 0}))
	env.clock.Advance(11 * time.Second)

	snapshot := env.service.Snapshot()
	assert.Equal(t, domain.PlayerStatusPlaying, snapshot.Status)
	assert.Equal(t, "video-b", snapshot.VideoId)
	assert.Equal(t, 20, snapshot.Duration)
	assert.Equal(t, 0, snapshot.Position)

	playlist, err := env.service.GetPlaylist(ctx)
	require.NoError(t, err)
	assert.Empty(t, playlist, "advance must consume the queue head")

	assert.Equal(t, []string{"play:video-a", "pause", "play:video-b"}, env.remote.getCalls())
}

func TestPauseIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.service.Play(ctx, &PlayParams{VideoId: "video-a", Position: 2}))
	env.clock.Advance(3 * time.Second)

	require.NoError(t, env.service.Pause(ctx))
	position := env.service.GetPosition()
	status := env.service.Snapshot().Status

	env.clock.Advance(time.Minute)
	require.NoError(t, env.service.Pause(ctx))

	assert.Equal(t, position, env.service.GetPosition())
	assert.Equal(t, status, env.service.Snapshot().Status)
}

func TestResumeContinuesFromPausedPosition(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.service.Play(ctx, &PlayParams{VideoId: "video-a", Position: 0}))
	env.clock.Advance(2 * time.Second)

	require.NoError(t, env.service.Pause(ctx))
	env.clock.Advance(5 * time.Second)
	assert.Equal(t, 2, env.service.GetPosition(), "position must freeze while paused")

	require.NoError(t, env.service.Resume(ctx))
	env.clock.Advance(time.Second)
	assert.Equal(t, 3, env.service.GetPosition(), "paused time must not count")
	assert.Equal(t, domain.PlayerStatusPlaying, env.service.Snapshot().Status)
}

func TestSeekWhilePlaying(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.service.Play(ctx, &PlayParams{VideoId: "video-a", Position: 0}))
	env.clock.Advance(2 * time.Second)

	require.NoError(t, env.service.Seek(ctx, &SeekParams{Position: 7}))
	assert.Equal(t, 7, env.service.GetPosition(), "seek must rebase the position")
	assert.Equal(t, domain.PlayerStatusPlaying, env.service.Snapshot().Status)
	assert.Equal(t, 1, env.clock.PendingTimers())

	// remaining (10-7) plus slack: must not fire before 4s
	env.clock.Advance(3 * time.Second)
	assert.Equal(t, domain.PlayerStatusPlaying, env.service.Snapshot().Status)

	env.clock.Advance(time.Second)
	assert.Equal(t, domain.PlayerStatusPaused, env.service.Snapshot().Status)
}

func TestSeekWhileStopped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.service.Seek(ctx, &SeekParams{Position: 5}))
	assert.Equal(t, 5, env.service.GetPosition())
	assert.Equal(t, domain.PlayerStatusStopped, env.service.Snapshot().Status)
	assert.Equal(t, 0, env.clock.PendingTimers(), "seek outside playback must not arm a callback")

	env.clock.Advance(time.Minute)
	assert.Equal(t, 5, env.service.GetPosition())
}

func TestStopRetainsVideoIdentity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.service.Play(ctx, &PlayParams{VideoId: "video-a", Position: 4}))
	require.NoError(t, env.service.Stop(ctx))

	snapshot := env.service.Snapshot()
	assert.Equal(t, domain.PlayerStatusStopped, snapshot.Status)
	assert.Equal(t, 0, snapshot.Position)
	assert.Equal(t, "video-a", snapshot.VideoId, "stop must keep the last played video identity")
	assert.Equal(t, "Video A", snapshot.VideoTitle)
}

func TestDeferredCallbackExclusivity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.service.Play(ctx, &PlayParams{VideoId: "video-a", Position: 0}))
	require.NoError(t, env.service.Pause(ctx))
	require.NoError(t, env.service.Resume(ctx))
	require.NoError(t, env.service.Seek(ctx, &SeekParams{Position: 2}))
	require.NoError(t, env.service.Play(ctx, &PlayParams{VideoId: "video-b", Position: 0}))

	assert.Equal(t, 1, env.clock.PendingTimers(), "at most one end-of-video callback may be live")
}

func TestSetVolume(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	assert.Equal(t, domain.Volume{Level: 50, Muted: false}, env.service.GetVolume())

	require.NoError(t, env.service.SetVolume(ctx, &SetVolumeParams{Level: 80, Muted: true}))
	assert.Equal(t, domain.Volume{Level: 80, Muted: true}, env.service.GetVolume())

	assert.Eventually(t, func() bool {
		for _, call := range env.remote.getCalls() {
			if call == "volume" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond, "volume mirror must eventually be sent")
}

func TestRemoteFailureDoesNotBlockTransitions(t *testing.T) {
	env := newTestEnv(t)
	env.remote.err = assert.AnError
	ctx := context.Background()

	require.NoError(t, env.service.Play(ctx, &PlayParams{VideoId: "video-a", Position: 0}))
	assert.Equal(t, domain.PlayerStatusPlaying, env.service.Snapshot().Status)

	require.NoError(t, env.service.Pause(ctx))
	assert.Equal(t, domain.PlayerStatusPaused, env.service.Snapshot().Status)

	require.NoError(t, env.service.Stop(ctx))
	assert.Equal(t, domain.PlayerStatusStopped, env.service.Snapshot().Status)
}

func TestPlaySupersededByStop(t *testing.T) {
	env := newTestEnv(t)
	env.loader.block = make(chan struct{})
	ctx := context.Background()

	playErr := make(chan error, 1)
	go func() {
		playErr <- env.service.Play(ctx, &PlayParams{VideoId: "video-a", Position: 0})
	}()

	// let the play reach its metadata load, then supersede it
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, env.service.Stop(ctx))
	close(env.loader.block)

	assert.ErrorIs(t, <-playErr, ErrPlaySuperseded)
	assert.Equal(t, domain.PlayerStatusStopped, env.service.Snapshot().Status)
	assert.Equal(t, 0, env.clock.PendingTimers(), "abandoned play must not arm a callback")
}

func TestPositionNeverExceedsDurationPlusSlack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.service.Play(ctx, &PlayParams{VideoId: "video-a", Position: 0}))

	for i := 0; i < 15; i++ {
		env.clock.Advance(time.Second)
		position := env.service.GetPosition()
		assert.GreaterOrEqual(t, position, 0)
		assert.LessOrEqual(t, position, env.service.GetDuration()+1)
	}
}

func TestAddVideoLimit(t *testing.T) {
	env := newTestEnv(t)
	env.service.playlistLimit = 2
	ctx := context.Background()

	_, err := env.service.AddVideo(ctx, &AddVideoParams{VideoId: "a"})
	require.NoError(t, err)
	resp, err := env.service.AddVideo(ctx, &AddVideoParams{VideoId: "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, resp.Playlist)

	_, err = env.service.AddVideo(ctx, &AddVideoParams{VideoId: "c"})
	assert.ErrorIs(t, err, ErrPlaylistLimitReached)
}

func TestNextOnEmptyPlaylist(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.Next(context.Background())
	assert.ErrorIs(t, err, ErrPlaylistEmpty)
}

func TestRestore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.repo.SetState(ctx, &playerRepo.SetStateParams{
		Status:      string(domain.PlayerStatusPlaying),
		VideoId:     "video-a",
		VideoTitle:  "Video A",
		SeekOffset:  7,
		Duration:    10,
		VolumeLevel: 30,
		VolumeMuted: true,
	}))

	require.NoError(t, env.service.Restore(ctx))

	snapshot := env.service.Snapshot()
	assert.Equal(t, domain.PlayerStatusStopped, snapshot.Status, "restore must come back stopped")
	assert.Equal(t, "video-a", snapshot.VideoId)
	assert.Equal(t, 10, snapshot.Duration)
	assert.Equal(t, 0, snapshot.Position, "elapsed time must not survive a restart")
	assert.Equal(t, domain.Volume{Level: 30, Muted: true}, snapshot.Volume)
}
