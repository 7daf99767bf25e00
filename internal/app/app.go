package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/castmirror/server/internal/controller"
	"github.com/castmirror/server/internal/metadata"
	"github.com/castmirror/server/internal/remote"
	"github.com/castmirror/server/internal/repository/connection/inmemory"
	playerRedis "github.com/castmirror/server/internal/repository/player/redis"
	"github.com/castmirror/server/internal/service/player"
	"github.com/castmirror/server/pkg/clock"
	"github.com/castmirror/server/pkg/ctxlogger"
	"github.com/castmirror/server/pkg/redisclient"
)

type AppConfig struct {
	Host                   string `json:"host"`
	Port                   int    `json:"port"`
	LogLevel               string `json:"log_level"`
	PlaylistLimit          int    `json:"playlist_limit"`
	RemoteBaseURL          string `json:"remote_base_url"`
	RemoteMaxAttempts      int    `json:"remote_max_attempts"`
	RemoteAttemptTimeoutMs int    `json:"remote_attempt_timeout_ms"`
	MetadataBaseURL        string `json:"metadata_base_url"`
	RedisPort              int    `json:"redis_port"`
	RedisHost              string `json:"redis_host"`
	RedisPassword          string `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.PlaylistLimit < 1 {
		return fmt.Errorf("playlist limit must be greater than 0")
	}
	if cfg.RemoteMaxAttempts < 1 {
		return fmt.Errorf("remote max attempts must be greater than 0")
	}
	if cfg.RemoteBaseURL == "" {
		return fmt.Errorf("remote base url must be set")
	}
	if cfg.MetadataBaseURL == "" {
		return fmt.Errorf("metadata base url must be set")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		log.Fatal(err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	logger := slog.New(&h)

	rc, err := redisclient.NewRedisClient(&redisclient.Config{
		Port:     cfg.RedisPort,
		Host:     cfg.RedisHost,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	playerRepo := playerRedis.NewRepo(rc)
	connRepo := inmemory.NewRepo()
	remoteClient := remote.NewClient(&remote.Config{
		BaseURL:        cfg.RemoteBaseURL,
		MaxAttempts:    cfg.RemoteMaxAttempts,
		AttemptTimeout: time.Duration(cfg.RemoteAttemptTimeoutMs) * time.Millisecond,
	}, logger)
	loader := metadata.NewLoader(cfg.MetadataBaseURL)

	playerService := player.NewService(playerRepo, remoteClient, loader, clock.System, &player.Config{
		PlaylistLimit: cfg.PlaylistLimit,
	}, logger)
	if err := playerService.Restore(ctx); err != nil {
		logger.WarnContext(ctx, "failed to restore player state", "error", err)
	}

	controller := controller.NewController(playerService, connRepo, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
