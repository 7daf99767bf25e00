package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/castmirror/server/internal/domain"
	"github.com/castmirror/server/internal/service/player"
	"github.com/castmirror/server/pkg/validator"
)

type iPlayerService interface {
	Play(context.Context, *player.PlayParams) error
	Pause(context.Context) error
	Resume(context.Context) error
	Stop(context.Context) error
	Seek(context.Context, *player.SeekParams) error
	SetVolume(context.Context, *player.SetVolumeParams) error
	Snapshot() domain.Snapshot
	AddVideo(context.Context, *player.AddVideoParams) (player.AddVideoResponse, error)
	GetPlaylist(context.Context) ([]string, error)
	Next(context.Context) (string, error)
	OnSnapshot(func(domain.Snapshot))
}

type iConnRepo interface {
	Add(*websocket.Conn) error
	Remove(*websocket.Conn) error
	GetConns() []*websocket.Conn
}

type controller struct {
	playerService iPlayerService
	connRepo      iConnRepo
	upgrader      websocket.Upgrader
	validate      *validator.Validator
	logger        *slog.Logger
}

func NewController(playerService iPlayerService, connRepo iConnRepo, logger *slog.Logger) *controller {
	c := &controller{
		playerService: playerService,
		connRepo:      connRepo,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate: validator.NewValidator(),
		logger:   logger,
	}

	playerService.OnSnapshot(c.broadcastSnapshot)

	return c
}
