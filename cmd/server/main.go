package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/castmirror/server/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	port = configVar[int]{
		envKey:       "CASTMIRROR_PORT",
		flagKey:      "port",
		defaultValue: 8080,
	}
	host = configVar[string]{
		envKey:       "CASTMIRROR_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	logLevel = configVar[string]{
		envKey:       "CASTMIRROR_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	playlistLimit = configVar[int]{
		envKey:       "CASTMIRROR_PLAYLIST_LIMIT",
		flagKey:      "playlist-limit",
		defaultValue: 25,
	}
	remoteBaseURL = configVar[string]{
		envKey:       "CASTMIRROR_REMOTE_BASE_URL",
		flagKey:      "remote-base-url",
		defaultValue: "http://localhost:3000",
	}
	remoteMaxAttempts = configVar[int]{
		envKey:       "CASTMIRROR_REMOTE_MAX_ATTEMPTS",
		flagKey:      "remote-max-attempts",
		defaultValue: 5,
	}
	remoteAttemptTimeoutMs = configVar[int]{
		envKey:       "CASTMIRROR_REMOTE_ATTEMPT_TIMEOUT_MS",
		flagKey:      "remote-attempt-timeout-ms",
		defaultValue: 30000,
	}
	metadataBaseURL = configVar[string]{
		envKey:       "CASTMIRROR_METADATA_BASE_URL",
		flagKey:      "metadata-base-url",
		defaultValue: "http://localhost:3001",
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
	}
)

func loadAppConfig() *app.AppConfig {
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.Int(playlistLimit.flagKey, playlistLimit.defaultValue, "Maximum number of videos in the playlist")
	pflag.String(remoteBaseURL.flagKey, remoteBaseURL.defaultValue, "Base url of the mirrored player endpoint")
	pflag.Int(remoteMaxAttempts.flagKey, remoteMaxAttempts.defaultValue, "Maximum attempts per mirrored call")
	pflag.Int(remoteAttemptTimeoutMs.flagKey, remoteAttemptTimeoutMs.defaultValue, "Timeout per mirrored call attempt in milliseconds")
	pflag.String(metadataBaseURL.flagKey, metadataBaseURL.defaultValue, "Base url of the video metadata endpoint")
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, "Redis port")
	pflag.String(redisHost.flagKey, redisHost.defaultValue, "Redis host")
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, "Redis password")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(port.flagKey, port.envKey)
	viper.BindEnv(host.flagKey, host.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(playlistLimit.flagKey, playlistLimit.envKey)
	viper.BindEnv(remoteBaseURL.flagKey, remoteBaseURL.envKey)
	viper.BindEnv(remoteMaxAttempts.flagKey, remoteMaxAttempts.envKey)
	viper.BindEnv(remoteAttemptTimeoutMs.flagKey, remoteAttemptTimeoutMs.envKey)
	viper.BindEnv(metadataBaseURL.flagKey, metadataBaseURL.envKey)
	viper.BindEnv(redisPort.flagKey, redisPort.envKey)
	viper.BindEnv(redisHost.flagKey, redisHost.envKey)
	viper.BindEnv(redisPassword.flagKey, redisPassword.envKey)

	viper.SetDefault(port.flagKey, port.defaultValue)
	viper.SetDefault(host.flagKey, host.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)
	viper.SetDefault(playlistLimit.flagKey, playlistLimit.defaultValue)
	viper.SetDefault(remoteBaseURL.flagKey, remoteBaseURL.defaultValue)
	viper.SetDefault(remoteMaxAttempts.flagKey, remoteMaxAttempts.defaultValue)
	viper.SetDefault(remoteAttemptTimeoutMs.flagKey, remoteAttemptTimeoutMs.defaultValue)
	viper.SetDefault(metadataBaseURL.flagKey, metadataBaseURL.defaultValue)
	viper.SetDefault(redisPort.flagKey, redisPort.defaultValue)
	viper.SetDefault(redisHost.flagKey, redisHost.defaultValue)
	viper.SetDefault(redisPassword.flagKey, redisPassword.defaultValue)

	config := &app.AppConfig{
		Host:                   viper.GetString(host.flagKey),
		Port:                   viper.GetInt(port.flagKey),
		LogLevel:               viper.GetString(logLevel.flagKey),
		PlaylistLimit:          viper.GetInt(playlistLimit.flagKey),
		RemoteBaseURL:          viper.GetString(remoteBaseURL.flagKey),
		RemoteMaxAttempts:      viper.GetInt(remoteMaxAttempts.flagKey),
		RemoteAttemptTimeoutMs: viper.GetInt(remoteAttemptTimeoutMs.flagKey),
		MetadataBaseURL:        viper.GetString(metadataBaseURL.flagKey),
		RedisPort:              viper.GetInt(redisPort.flagKey),
		RedisHost:              viper.GetString(redisHost.flagKey),
		RedisPassword:          viper.GetString(redisPassword.flagKey),
	}

	return config
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
