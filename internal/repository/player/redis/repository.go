package redis

import (
	"github.com/redis/go-redis/v9"
)

const (
	stateKey    = "player:state"
	playlistKey = "player:playlist"
)

type repo struct {
	rc *redis.Client
}

func NewRepo(rc *redis.Client) *repo {
	return &repo{rc: rc}
}
